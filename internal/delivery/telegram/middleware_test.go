package telegram

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aliskhannn/study-review-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/study-review-bot/internal/service"
)

func TestUserMessage(t *testing.T) {
	msg, ok := userMessage(fmt.Errorf("postpone topic: %w", repository.ErrReviewStateConflict))
	assert.True(t, ok)
	assert.Equal(t, msgPostponeConflict, msg)

	msg, ok = userMessage(service.ErrVacationMode)
	assert.True(t, ok)
	assert.Equal(t, msgVacationActive, msg)

	_, ok = userMessage(errors.New("connection refused"))
	assert.False(t, ok)
}
