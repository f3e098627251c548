package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/study-review-bot/internal/domain/entities"
	"github.com/aliskhannn/study-review-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/study-review-bot/internal/srs"
)

var ErrVacationMode = errors.New("vacation mode is active")

// DueSort orders the due list.
type DueSort string

const (
	SortOverdue DueSort = "overdue" // most overdue first
	SortSubject DueSort = "subject" // by subject, then topic
)

const defaultUpcomingLimit = 5

// DueList is the list of topics to review today.
type DueList struct {
	Topics       []entities.DueTopic
	Total        int  // due topics before the session limit was applied
	VacationMode bool // postponing is disabled while set
}

// ReviewSummary aggregates the review states of a user.
type ReviewSummary struct {
	Tracked    int
	DueToday   int
	InRecovery int
	Accuracy   float64 // percent over all topics, 0 when nothing was answered
}

// ReviewService maintains per-topic review schedules.
type ReviewService struct {
	reviewRepo   ReviewStateRepository
	settingsRepo SettingsRepository
	transactor   Transactor
	scheduler    *srs.Scheduler
	logger       *zap.Logger
	now          func() time.Time
}

func NewReviewService(
	reviewRepo ReviewStateRepository,
	settingsRepo SettingsRepository,
	transactor Transactor,
	scheduler *srs.Scheduler,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		reviewRepo:   reviewRepo,
		settingsRepo: settingsRepo,
		transactor:   transactor,
		scheduler:    scheduler,
		logger:       logger,
		now:          time.Now,
	}
}

// RecordSessionOutcome applies a finished session to the topic's review state.
// The row is locked for the duration of the update so concurrent sessions on
// the same topic are serialized.
func (s *ReviewService) RecordSessionOutcome(
	ctx context.Context, userID int64, subject, topic string, correct, incorrect int,
) (*srs.Outcome, error) {
	subject, topic, err := entities.NormalizeTopic(subject, topic)
	if err != nil {
		return nil, err
	}
	key := entities.TopicKey(subject, topic)

	settings, err := settingsOrDefault(ctx, s.settingsRepo, userID)
	if err != nil {
		return nil, err
	}
	now := s.now().In(settings.Location())

	var out srs.Outcome
	err = s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		prior, err := s.reviewRepo.GetForUpdate(ctx, userID, key)
		if err != nil {
			if !errors.Is(err, repository.ErrReviewStateNotFound) {
				return err
			}
			prior = entities.NewReviewState(userID, key, now)
		}

		out = s.scheduler.Outcome(prior, correct, incorrect, now)
		return s.reviewRepo.Upsert(ctx, &out.State)
	})
	if err != nil {
		return nil, fmt.Errorf("record session outcome: %w", err)
	}

	s.logger.Info("review state updated",
		zap.Int64("user_id", userID),
		zap.String("topic_key", key),
		zap.String("transition", out.Transition.String()),
		zap.Int("review_count", out.State.ReviewCount),
		zap.Int("interval_days", out.IntervalDays),
		zap.Time("due_at", out.State.DueAt),
	)

	return &out, nil
}

// PostponeTopic moves a topic's due date one day later.
func (s *ReviewService) PostponeTopic(ctx context.Context, userID, stateID int64) (*entities.ReviewState, error) {
	settings, err := settingsOrDefault(ctx, s.settingsRepo, userID)
	if err != nil {
		return nil, err
	}
	if settings.VacationMode {
		return nil, ErrVacationMode
	}

	state, err := s.reviewRepo.GetByID(ctx, userID, stateID)
	if err != nil {
		return nil, err
	}

	next := s.scheduler.Postpone(*state, s.now().In(settings.Location()))
	if err := s.reviewRepo.UpdateDueAt(ctx, userID, state.ID, next.DueAt, next.UpdatedAt, state.UpdatedAt); err != nil {
		return nil, fmt.Errorf("postpone topic: %w", err)
	}

	s.logger.Info("review postponed",
		zap.Int64("user_id", userID),
		zap.String("topic_key", next.TopicKey),
		zap.Time("due_at", next.DueAt),
	)

	return &next, nil
}

// TopicState returns the review state of a subject/topic pair.
func (s *ReviewService) TopicState(ctx context.Context, userID int64, subject, topic string) (*entities.ReviewState, error) {
	subject, topic, err := entities.NormalizeTopic(subject, topic)
	if err != nil {
		return nil, err
	}
	return s.reviewRepo.Get(ctx, userID, entities.TopicKey(subject, topic))
}

// ForgetTopic drops the review schedule of a topic. Logged sessions are kept.
func (s *ReviewService) ForgetTopic(ctx context.Context, userID int64, subject, topic string) error {
	subject, topic, err := entities.NormalizeTopic(subject, topic)
	if err != nil {
		return err
	}
	key := entities.TopicKey(subject, topic)

	if err := s.reviewRepo.DeleteByTopic(ctx, userID, key); err != nil {
		return err
	}

	s.logger.Info("review state removed",
		zap.Int64("user_id", userID),
		zap.String("topic_key", key),
	)
	return nil
}

// DueTopics lists topics due today or earlier in the user's timezone.
func (s *ReviewService) DueTopics(ctx context.Context, userID int64, order DueSort) (*DueList, error) {
	settings, err := settingsOrDefault(ctx, s.settingsRepo, userID)
	if err != nil {
		return nil, err
	}

	loc := settings.Location()
	now := s.now().In(loc)
	tomorrow := startOfDay(now).AddDate(0, 0, 1)

	states, err := s.reviewRepo.ListDueBefore(ctx, userID, tomorrow)
	if err != nil {
		return nil, err
	}

	topics := make([]entities.DueTopic, 0, len(states))
	for _, st := range states {
		if due := entities.NewDueTopic(st, now, loc); due.IsDue() {
			topics = append(topics, due)
		}
	}
	sortDueTopics(topics, order)

	list := &DueList{
		Total:        len(topics),
		VacationMode: settings.VacationMode,
	}
	if settings.ReviewSessionLimit > 0 && len(topics) > settings.ReviewSessionLimit {
		topics = topics[:settings.ReviewSessionLimit]
	}
	list.Topics = topics

	return list, nil
}

// UpcomingTopics lists the topics due soonest after today.
func (s *ReviewService) UpcomingTopics(ctx context.Context, userID int64, limit int) ([]entities.DueTopic, error) {
	if limit <= 0 {
		limit = defaultUpcomingLimit
	}

	settings, err := settingsOrDefault(ctx, s.settingsRepo, userID)
	if err != nil {
		return nil, err
	}

	loc := settings.Location()
	now := s.now().In(loc)

	states, err := s.reviewRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var topics []entities.DueTopic
	for _, st := range states {
		if due := entities.NewDueTopic(st, now, loc); !due.IsDue() {
			topics = append(topics, due)
		}
	}
	sort.SliceStable(topics, func(i, j int) bool {
		return topics[i].State.DueAt.Before(topics[j].State.DueAt)
	})

	if len(topics) > limit {
		topics = topics[:limit]
	}
	return topics, nil
}

// Summary aggregates all review states of a user.
func (s *ReviewService) Summary(ctx context.Context, userID int64) (*ReviewSummary, error) {
	settings, err := settingsOrDefault(ctx, s.settingsRepo, userID)
	if err != nil {
		return nil, err
	}

	loc := settings.Location()
	now := s.now().In(loc)

	states, err := s.reviewRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var (
		summary          ReviewSummary
		correct, answers int
	)
	for _, st := range states {
		summary.Tracked++
		if entities.NewDueTopic(st, now, loc).IsDue() {
			summary.DueToday++
		}
		if st.InRecoveryMode {
			summary.InRecovery++
		}
		correct += st.CorrectTotal
		answers += st.CorrectTotal + st.IncorrectTotal
	}
	if answers > 0 {
		summary.Accuracy = float64(correct) / float64(answers) * 100
	}

	return &summary, nil
}

func sortDueTopics(topics []entities.DueTopic, order DueSort) {
	switch order {
	case SortSubject:
		sort.SliceStable(topics, func(i, j int) bool {
			if topics[i].Subject != topics[j].Subject {
				return topics[i].Subject < topics[j].Subject
			}
			return topics[i].Topic < topics[j].Topic
		})
	default:
		sort.SliceStable(topics, func(i, j int) bool {
			return topics[i].DaysOverdue > topics[j].DaysOverdue
		})
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
