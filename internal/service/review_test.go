package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/study-review-bot/internal/domain/entities"
	"github.com/aliskhannn/study-review-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/study-review-bot/internal/srs"
)

const testUserID int64 = 42

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

type reviewFixture struct {
	svc      *ReviewService
	reviews  *fakeReviewRepo
	settings *fakeSettingsRepo
	tx       *fakeTransactor
}

func newReviewFixture(states ...*entities.ReviewState) *reviewFixture {
	f := &reviewFixture{
		reviews:  newFakeReviewRepo(states...),
		settings: newFakeSettingsRepo(entities.NewUserSettings(testUserID)),
		tx:       &fakeTransactor{},
	}
	f.svc = NewReviewService(f.reviews, f.settings, f.tx, srs.Default(), zap.NewNop())
	f.svc.now = func() time.Time { return testNow }
	return f
}

func stateDueIn(key string, days int) *entities.ReviewState {
	return &entities.ReviewState{
		UserID:       testUserID,
		TopicKey:     key,
		ReviewCount:  2,
		CorrectTotal: 5,
		DueAt:        testNow.AddDate(0, 0, days),
		UpdatedAt:    testNow.AddDate(0, 0, -1),
	}
}

func TestRecordSessionOutcomeCreatesState(t *testing.T) {
	f := newReviewFixture()

	out, err := f.svc.RecordSessionOutcome(context.Background(), testUserID, " Math ", " Functions ", 1, 9)
	require.NoError(t, err)

	assert.Equal(t, srs.TransitionReset, out.Transition)
	assert.Equal(t, "Math::Functions", out.State.TopicKey)
	assert.Equal(t, testUserID, out.State.UserID)
	assert.NotZero(t, out.State.ID)
	assert.True(t, out.State.DueAt.Equal(testNow.AddDate(0, 0, 1)))
	assert.Equal(t, 1, f.tx.calls)

	stored, err := f.reviews.Get(context.Background(), testUserID, "Math::Functions")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.ReviewCount)
	assert.Equal(t, 1, stored.CorrectTotal)
	assert.Equal(t, 9, stored.IncorrectTotal)
}

func TestRecordSessionOutcomeRejectsEmptyTopic(t *testing.T) {
	f := newReviewFixture()

	_, err := f.svc.RecordSessionOutcome(context.Background(), testUserID, "Math", "   ", 3, 1)
	assert.ErrorIs(t, err, entities.ErrEmptyTopic)
	assert.Zero(t, f.tx.calls)
}

func TestRecordSessionOutcomeSpikeAndRecovery(t *testing.T) {
	f := newReviewFixture()
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, err := f.svc.RecordSessionOutcome(ctx, testUserID, "History", "Rome", 9, 1)
		require.NoError(t, err)
	}

	spike, err := f.svc.RecordSessionOutcome(ctx, testUserID, "History", "Rome", 2, 8)
	require.NoError(t, err)
	assert.Equal(t, srs.TransitionSpike, spike.Transition)
	assert.Equal(t, 3, spike.IntervalDays)
	assert.Equal(t, 10, spike.State.ReviewCount)

	recovered, err := f.svc.RecordSessionOutcome(ctx, testUserID, "History", "Rome", 8, 2)
	require.NoError(t, err)
	assert.Equal(t, srs.TransitionRecovered, recovered.Transition)
	assert.Equal(t, *spike.State.PreviousInterval, recovered.IntervalDays)
	assert.Equal(t, 11, recovered.State.ReviewCount)
}

func TestRecordSessionOutcomeUsesUserTimezone(t *testing.T) {
	f := newReviewFixture()
	f.settings.settings[testUserID].Timezone = "UTC+3"

	out, err := f.svc.RecordSessionOutcome(context.Background(), testUserID, "Math", "Limits", 1, 9)
	require.NoError(t, err)

	_, offset := out.State.DueAt.Zone()
	assert.Equal(t, 3*3600, offset)
	assert.Equal(t, 13, out.State.DueAt.Hour())
}

func TestPostponeTopic(t *testing.T) {
	state := stateDueIn("Math::Functions", 0)
	f := newReviewFixture(state)

	next, err := f.svc.PostponeTopic(context.Background(), testUserID, state.ID)
	require.NoError(t, err)

	assert.True(t, next.DueAt.Equal(testNow.AddDate(0, 0, 1)))
	assert.True(t, next.UpdatedAt.Equal(testNow))
	assert.Equal(t, state.ReviewCount, next.ReviewCount)
	assert.Equal(t, state.CorrectTotal, next.CorrectTotal)

	stored, err := f.reviews.GetByID(context.Background(), testUserID, state.ID)
	require.NoError(t, err)
	assert.True(t, stored.DueAt.Equal(testNow.AddDate(0, 0, 1)))
}

func TestPostponeTopicVacationMode(t *testing.T) {
	state := stateDueIn("Math::Functions", 0)
	f := newReviewFixture(state)
	f.settings.settings[testUserID].VacationMode = true

	_, err := f.svc.PostponeTopic(context.Background(), testUserID, state.ID)
	assert.ErrorIs(t, err, ErrVacationMode)

	stored, err := f.reviews.GetByID(context.Background(), testUserID, state.ID)
	require.NoError(t, err)
	assert.True(t, stored.DueAt.Equal(testNow))
}

func TestPostponeTopicConcurrentUpdate(t *testing.T) {
	state := stateDueIn("Math::Functions", 0)
	f := newReviewFixture(state)

	// A session recorded between the read and the write bumps UpdatedAt.
	f.reviews.beforeUpdateDueAt = func(states map[string]*entities.ReviewState) {
		states["Math::Functions"].UpdatedAt = testNow.Add(-time.Minute)
	}

	next, err := f.svc.PostponeTopic(context.Background(), testUserID, state.ID)
	assert.ErrorIs(t, err, repository.ErrReviewStateConflict)
	assert.Nil(t, next)

	stored, err := f.reviews.GetByID(context.Background(), testUserID, state.ID)
	require.NoError(t, err)
	assert.True(t, stored.DueAt.Equal(testNow))
}

func TestPostponeTopicMissing(t *testing.T) {
	f := newReviewFixture()

	_, err := f.svc.PostponeTopic(context.Background(), testUserID, 999)
	assert.ErrorIs(t, err, repository.ErrReviewStateNotFound)
}

func TestDueTopicsSortAndLimit(t *testing.T) {
	f := newReviewFixture(
		stateDueIn("Physics::Optics", -1),
		stateDueIn("Math::Functions", -4),
		stateDueIn("Biology::Cells", 0),
		stateDueIn("Chemistry::Acids", 2),
	)
	ctx := context.Background()

	list, err := f.svc.DueTopics(ctx, testUserID, SortOverdue)
	require.NoError(t, err)
	require.Len(t, list.Topics, 3)
	assert.Equal(t, 3, list.Total)
	assert.Equal(t, "Math", list.Topics[0].Subject)
	assert.Equal(t, 4, list.Topics[0].DaysOverdue)
	assert.Equal(t, "Physics", list.Topics[1].Subject)
	assert.Equal(t, "Biology", list.Topics[2].Subject)

	list, err = f.svc.DueTopics(ctx, testUserID, SortSubject)
	require.NoError(t, err)
	assert.Equal(t, "Biology", list.Topics[0].Subject)
	assert.Equal(t, "Math", list.Topics[1].Subject)

	f.settings.settings[testUserID].ReviewSessionLimit = 2
	f.settings.settings[testUserID].VacationMode = true
	list, err = f.svc.DueTopics(ctx, testUserID, SortOverdue)
	require.NoError(t, err)
	assert.Len(t, list.Topics, 2)
	assert.Equal(t, 3, list.Total)
	assert.True(t, list.VacationMode)
}

func TestDueTopicsCountsLaterToday(t *testing.T) {
	state := stateDueIn("Math::Functions", 0)
	state.DueAt = testNow.Add(8 * time.Hour)
	f := newReviewFixture(state)

	list, err := f.svc.DueTopics(context.Background(), testUserID, SortOverdue)
	require.NoError(t, err)
	require.Len(t, list.Topics, 1)
	assert.Equal(t, 0, list.Topics[0].DaysOverdue)
}

func TestUpcomingTopics(t *testing.T) {
	f := newReviewFixture(
		stateDueIn("Math::Functions", 9),
		stateDueIn("Physics::Optics", 2),
		stateDueIn("Biology::Cells", -1),
		stateDueIn("Chemistry::Acids", 5),
	)

	topics, err := f.svc.UpcomingTopics(context.Background(), testUserID, 2)
	require.NoError(t, err)
	require.Len(t, topics, 2)
	assert.Equal(t, "Physics", topics[0].Subject)
	assert.Equal(t, -2, topics[0].DaysOverdue)
	assert.Equal(t, "Chemistry", topics[1].Subject)
}

func TestSummary(t *testing.T) {
	recovering := stateDueIn("Physics::Optics", -1)
	recovering.InRecoveryMode = true
	recovering.IncorrectTotal = 5
	f := newReviewFixture(recovering, stateDueIn("Math::Functions", 3))

	summary, err := f.svc.Summary(context.Background(), testUserID)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Tracked)
	assert.Equal(t, 1, summary.DueToday)
	assert.Equal(t, 1, summary.InRecovery)
	assert.InDelta(t, 10.0/15.0*100, summary.Accuracy, 1e-9)
}

func TestTopicState(t *testing.T) {
	f := newReviewFixture(stateDueIn("Math::Functions", 3))

	state, err := f.svc.TopicState(context.Background(), testUserID, "Math", "Functions")
	require.NoError(t, err)
	assert.Equal(t, 2, state.ReviewCount)

	_, err = f.svc.TopicState(context.Background(), testUserID, "Math", "Limits")
	assert.ErrorIs(t, err, repository.ErrReviewStateNotFound)
}

func TestForgetTopic(t *testing.T) {
	f := newReviewFixture(stateDueIn("Math::Functions", 0))
	ctx := context.Background()

	require.NoError(t, f.svc.ForgetTopic(ctx, testUserID, "Math", " Functions"))
	assert.Empty(t, f.reviews.states)

	err := f.svc.ForgetTopic(ctx, testUserID, "Math", "Functions")
	assert.ErrorIs(t, err, repository.ErrReviewStateNotFound)
}
