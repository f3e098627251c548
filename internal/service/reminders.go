package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/aliskhannn/study-review-bot/internal/domain/entities"
	"github.com/aliskhannn/study-review-bot/internal/infra/postgres/repository"
)

const (
	defaultDigestSpec = "0 * * * *"
	digestBatchSize   = 100
	digestConcurrency = 10
	digestMaxTopics   = 10
)

// DueLister returns the topics due today for a user.
type DueLister interface {
	DueTopics(ctx context.Context, userID int64, order DueSort) (*DueList, error)
}

// ReminderConfig configures the digest job.
type ReminderConfig struct {
	Spec       string // cron spec, hourly by default
	DigestHour int    // local hour from which the digest may be sent
}

// ReminderService sends a daily digest of due topics.
type ReminderService struct {
	settingsRepo SettingsRepository
	reviews      DueLister
	notifier     ReminderNotifier
	cfg          ReminderConfig
	logger       *zap.Logger
	now          func() time.Time
}

// NewReminderService creates a new reminder service.
func NewReminderService(
	settingsRepo SettingsRepository,
	reviews DueLister,
	cfg ReminderConfig,
	logger *zap.Logger,
) *ReminderService {
	if cfg.Spec == "" {
		cfg.Spec = defaultDigestSpec
	}
	return &ReminderService{
		settingsRepo: settingsRepo,
		reviews:      reviews,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
	}
}

// SetNotifier sets the notifier (called after handler is created).
func (s *ReminderService) SetNotifier(notifier ReminderNotifier) {
	s.notifier = notifier
}

// Start runs the digest job until ctx is cancelled.
func (s *ReminderService) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(s.cfg.Spec, func() {
		if err := s.SendDigests(ctx); err != nil {
			s.logger.Error("failed to send digests", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("add cron job: %w", err)
	}

	c.Start()
	s.logger.Info("reminder service started", zap.String("spec", s.cfg.Spec))

	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("reminder service stopped")
	return nil
}

// SendDigests processes all eligible users in batches and returns once every
// batch was handled.
func (s *ReminderService) SendDigests(ctx context.Context) error {
	if s.notifier == nil {
		return errors.New("notifier not initialized")
	}

	now := s.now()
	offset, sent := 0, 0

	for {
		recipients, err := s.settingsRepo.ListDigestRecipients(ctx, digestBatchSize, offset)
		if err != nil {
			return fmt.Errorf("list digest recipients: %w", err)
		}
		if len(recipients) == 0 {
			break
		}

		sent += s.processBatch(ctx, recipients, now)

		if len(recipients) < digestBatchSize {
			break
		}
		offset += digestBatchSize
	}

	s.logger.Info("digests processed", zap.Int("total_sent", sent))
	return nil
}

// processBatch sends digests concurrently and returns how many were sent.
func (s *ReminderService) processBatch(ctx context.Context, recipients []*repository.DigestRecipient, now time.Time) int {
	sem := make(chan struct{}, digestConcurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex
	sent := 0

	for _, r := range recipients {
		wg.Add(1)
		sem <- struct{}{} // Acquire

		go func() {
			defer wg.Done()
			defer func() { <-sem }() // Release

			ok, err := s.processRecipient(ctx, r, now)
			if err != nil {
				s.logger.Error("failed to send digest",
					zap.Int64("user_id", r.UserID),
					zap.Error(err))
				return
			}
			if ok {
				mu.Lock()
				sent++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return sent
}

// processRecipient sends at most one digest per local calendar day, once the
// local digest hour has been reached and something is due.
func (s *ReminderService) processRecipient(ctx context.Context, r *repository.DigestRecipient, now time.Time) (bool, error) {
	local := now.In(r.Settings.Location())
	if local.Hour() < s.cfg.DigestHour || r.Settings.DigestSentOn(now) {
		return false, nil
	}

	list, err := s.reviews.DueTopics(ctx, r.UserID, SortOverdue)
	if err != nil {
		return false, fmt.Errorf("due topics: %w", err)
	}
	if list.Total == 0 {
		return false, nil
	}

	digest := entities.Digest{TotalDue: list.Total}
	for _, t := range list.Topics {
		if t.State.InRecoveryMode {
			digest.InRecovery++
		}
	}
	digest.Topics = list.Topics
	if len(digest.Topics) > digestMaxTopics {
		digest.Topics = digest.Topics[:digestMaxTopics]
	}

	if err := s.notifier.SendDigest(r.ChatID, digest); err != nil {
		return false, fmt.Errorf("send digest: %w", err)
	}
	if err := s.settingsRepo.MarkDigestSent(ctx, r.UserID, now); err != nil {
		return false, fmt.Errorf("mark digest sent: %w", err)
	}

	return true, nil
}
