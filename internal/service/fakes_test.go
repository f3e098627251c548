package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/aliskhannn/study-review-bot/internal/domain/entities"
	"github.com/aliskhannn/study-review-bot/internal/infra/postgres/repository"
)

// fakeTransactor runs fn directly.
type fakeTransactor struct {
	calls int
}

func (f *fakeTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

// fakeReviewRepo is an in-memory ReviewStateRepository.
type fakeReviewRepo struct {
	mu     sync.Mutex
	nextID int64
	states map[string]*entities.ReviewState

	// beforeUpdateDueAt runs ahead of the compare-and-swap in UpdateDueAt.
	beforeUpdateDueAt func(states map[string]*entities.ReviewState)
}

func newFakeReviewRepo(states ...*entities.ReviewState) *fakeReviewRepo {
	r := &fakeReviewRepo{states: make(map[string]*entities.ReviewState)}
	for _, s := range states {
		r.nextID++
		s.ID = r.nextID
		r.states[s.TopicKey] = s
	}
	return r
}

func (r *fakeReviewRepo) Get(_ context.Context, userID int64, topicKey string) (*entities.ReviewState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.states[topicKey]
	if !ok || s.UserID != userID {
		return nil, repository.ErrReviewStateNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeReviewRepo) GetForUpdate(ctx context.Context, userID int64, topicKey string) (*entities.ReviewState, error) {
	return r.Get(ctx, userID, topicKey)
}

func (r *fakeReviewRepo) GetByID(_ context.Context, userID, id int64) (*entities.ReviewState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.states {
		if s.ID == id && s.UserID == userID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, repository.ErrReviewStateNotFound
}

func (r *fakeReviewRepo) Upsert(_ context.Context, state *entities.ReviewState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.states[state.TopicKey]; ok {
		state.ID = existing.ID
	} else {
		r.nextID++
		state.ID = r.nextID
	}
	cp := *state
	r.states[state.TopicKey] = &cp
	return nil
}

func (r *fakeReviewRepo) UpdateDueAt(_ context.Context, userID, id int64, dueAt, updatedAt, expected time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.beforeUpdateDueAt != nil {
		r.beforeUpdateDueAt(r.states)
	}
	for _, s := range r.states {
		if s.ID == id && s.UserID == userID {
			if !s.UpdatedAt.Equal(expected) {
				return repository.ErrReviewStateConflict
			}
			s.DueAt = dueAt
			s.UpdatedAt = updatedAt
			return nil
		}
	}
	return repository.ErrReviewStateConflict
}

func (r *fakeReviewRepo) ListByUserID(_ context.Context, userID int64) ([]*entities.ReviewState, error) {
	return r.filter(userID, func(*entities.ReviewState) bool { return true }), nil
}

func (r *fakeReviewRepo) ListDueBefore(_ context.Context, userID int64, before time.Time) ([]*entities.ReviewState, error) {
	return r.filter(userID, func(s *entities.ReviewState) bool { return s.DueAt.Before(before) }), nil
}

func (r *fakeReviewRepo) DeleteByTopic(_ context.Context, userID int64, topicKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.states[topicKey]
	if !ok || s.UserID != userID {
		return repository.ErrReviewStateNotFound
	}
	delete(r.states, topicKey)
	return nil
}

func (r *fakeReviewRepo) filter(userID int64, keep func(*entities.ReviewState) bool) []*entities.ReviewState {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.ReviewState
	for _, s := range r.states {
		if s.UserID == userID && keep(s) {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueAt.Before(out[j].DueAt) })
	return out
}

// fakeSettingsRepo is an in-memory SettingsRepository.
type fakeSettingsRepo struct {
	mu         sync.Mutex
	settings   map[int64]*entities.UserSettings
	recipients []*repository.DigestRecipient
	digests    map[int64]time.Time
	createErr  error // returned once by Create
}

func newFakeSettingsRepo(settings ...*entities.UserSettings) *fakeSettingsRepo {
	r := &fakeSettingsRepo{
		settings: make(map[int64]*entities.UserSettings),
		digests:  make(map[int64]time.Time),
	}
	for _, s := range settings {
		r.settings[s.UserID] = s
	}
	return r
}

func (r *fakeSettingsRepo) Create(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.createErr; err != nil {
		r.createErr = nil
		return err
	}
	if _, ok := r.settings[userID]; !ok {
		r.settings[userID] = entities.NewUserSettings(userID)
	}
	return nil
}

func (r *fakeSettingsRepo) GetByUserID(_ context.Context, userID int64) (*entities.UserSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.settings[userID]
	if !ok {
		return nil, repository.ErrSettingsNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSettingsRepo) update(userID int64, fn func(*entities.UserSettings)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.settings[userID]
	if !ok {
		return repository.ErrSettingsNotFound
	}
	fn(s)
	return nil
}

func (r *fakeSettingsRepo) ToggleVacationMode(_ context.Context, userID int64) (bool, error) {
	var v bool
	err := r.update(userID, func(s *entities.UserSettings) { s.VacationMode = !s.VacationMode; v = s.VacationMode })
	return v, err
}

func (r *fakeSettingsRepo) ToggleDigest(_ context.Context, userID int64) (bool, error) {
	var v bool
	err := r.update(userID, func(s *entities.UserSettings) { s.DigestEnabled = !s.DigestEnabled; v = s.DigestEnabled })
	return v, err
}

func (r *fakeSettingsRepo) UpdateReviewSessionLimit(_ context.Context, userID int64, limit int) error {
	return r.update(userID, func(s *entities.UserSettings) { s.ReviewSessionLimit = limit })
}

func (r *fakeSettingsRepo) UpdateTimezone(_ context.Context, userID int64, timezone string) error {
	return r.update(userID, func(s *entities.UserSettings) { s.Timezone = timezone })
}

func (r *fakeSettingsRepo) MarkDigestSent(_ context.Context, userID int64, sentAt time.Time) error {
	r.mu.Lock()
	r.digests[userID] = sentAt
	r.mu.Unlock()
	return r.update(userID, func(s *entities.UserSettings) { s.LastDigestAt = &sentAt })
}

func (r *fakeSettingsRepo) ListDigestRecipients(_ context.Context, limit, offset int) ([]*repository.DigestRecipient, error) {
	if offset >= len(r.recipients) {
		return nil, nil
	}
	end := min(len(r.recipients), offset+limit)
	return r.recipients[offset:end], nil
}

// fakeSessionRepo records saved sessions.
type fakeSessionRepo struct {
	saved []*entities.StudySession
}

func (r *fakeSessionRepo) Save(_ context.Context, s *entities.StudySession) error {
	r.saved = append(r.saved, s)
	return nil
}

func (r *fakeSessionRepo) Totals(_ context.Context, userID int64, since time.Time) (*repository.SessionTotals, error) {
	var t repository.SessionTotals
	for _, s := range r.saved {
		if s.UserID != userID || s.EndedAt.Before(since) {
			continue
		}
		t.Sessions++
		t.Duration += s.Duration
		t.Correct += s.Correct
		t.Incorrect += s.Incorrect
	}
	return &t, nil
}

// fakeNotifier records sent digests.
type fakeNotifier struct {
	mu      sync.Mutex
	digests map[int64]entities.Digest
}

func (n *fakeNotifier) SendDigest(chatID int64, d entities.Digest) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.digests == nil {
		n.digests = make(map[int64]entities.Digest)
	}
	n.digests[chatID] = d
	return nil
}
