package service

import (
	"context"
	"errors"
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/study-review-bot/internal/domain/entities"
)

type fakeUserRepo struct {
	users map[int64]*entities.User
}

func (r *fakeUserRepo) Save(_ context.Context, user *entities.User) (bool, error) {
	_, exists := r.users[user.ID]
	r.users[user.ID] = user
	return !exists, nil
}

func (r *fakeUserRepo) Deactivate(_ context.Context, userID int64) error {
	r.users[userID].IsActive = false
	return nil
}

// rollbackTransactor restores the user repo when fn fails.
type rollbackTransactor struct {
	users *fakeUserRepo
}

func (tx *rollbackTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	saved := maps.Clone(tx.users.users)
	if err := fn(ctx); err != nil {
		tx.users.users = saved
		return err
	}
	return nil
}

func TestEnsureUserCreatesSettingsOnce(t *testing.T) {
	users := &fakeUserRepo{users: map[int64]*entities.User{}}
	settings := newFakeSettingsRepo()
	svc := NewUserService(users, settings, &rollbackTransactor{users: users}, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, svc.EnsureUser(ctx, testUserID, 100))
	require.Contains(t, settings.settings, testUserID)

	settings.settings[testUserID].VacationMode = true
	require.NoError(t, svc.EnsureUser(ctx, testUserID, 100))
	assert.True(t, settings.settings[testUserID].VacationMode)

	require.NoError(t, svc.Deactivate(ctx, testUserID))
	assert.False(t, users.users[testUserID].IsActive)
}

func TestEnsureUserRetriesAfterFailedSettings(t *testing.T) {
	users := &fakeUserRepo{users: map[int64]*entities.User{}}
	settings := newFakeSettingsRepo()
	settings.createErr = errors.New("connection reset")
	svc := NewUserService(users, settings, &rollbackTransactor{users: users}, zap.NewNop())
	ctx := context.Background()

	err := svc.EnsureUser(ctx, testUserID, 100)
	require.Error(t, err)
	assert.NotContains(t, users.users, testUserID)
	assert.NotContains(t, settings.settings, testUserID)

	require.NoError(t, svc.EnsureUser(ctx, testUserID, 100))
	assert.Contains(t, users.users, testUserID)
	assert.Contains(t, settings.settings, testUserID)
}
