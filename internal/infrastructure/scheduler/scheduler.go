// Package scheduler runs the recurring document maintenance jobs: the daily
// overdue sweep and the trash purge.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/invois/backend/internal/domain/document"
	"github.com/invois/backend/internal/infrastructure/config"
)

// OverdueSweeper flags past-due documents in a single batch statement.
type OverdueSweeper interface {
	MarkOverdueBatch(ctx context.Context, organizationID *uuid.UUID, today string) (int64, error)
}

// TrashPurger hard-deletes documents whose trash retention has elapsed.
type TrashPurger interface {
	PurgeTrashedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// DocumentMaintainer covers both maintenance operations. Invoice and purchase
// order repositories satisfy it; receipts never go overdue so their repository
// only purges.
type DocumentMaintainer interface {
	OverdueSweeper
	TrashPurger
}

// Scheduler owns the cron runner and the job wiring. Jobs run across all
// organizations in one pass; a failing target does not stop the others.
type Scheduler struct {
	config   config.SchedulerConfig
	invoices DocumentMaintainer
	orders   DocumentMaintainer
	receipts TrashPurger
	logger   *zap.Logger

	cron         *cron.Cron
	overdueEntry cron.EntryID
	trashEntry   cron.EntryID

	mu             sync.Mutex
	isRunning      bool
	lastOverdueRun *time.Time
	lastTrashRun   *time.Time
}

// NewScheduler creates a scheduler; call Start to begin running jobs.
func NewScheduler(
	cfg config.SchedulerConfig,
	invoices DocumentMaintainer,
	orders DocumentMaintainer,
	receipts TrashPurger,
	logger *zap.Logger,
) *Scheduler {
	return &Scheduler{
		config:   cfg,
		invoices: invoices,
		orders:   orders,
		receipts: receipts,
		logger:   logger,
	}
}

// Start registers the cron entries and launches the runner. It is a no-op
// when the scheduler is disabled or already running.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.config.Enabled {
		s.logger.Info("Document maintenance scheduler disabled")
		return nil
	}
	if s.isRunning {
		return nil
	}

	s.cron = cron.New()

	overdueEntry, err := s.cron.AddFunc(s.config.OverdueCronSchedule, s.overdueJob)
	if err != nil {
		return fmt.Errorf("invalid overdue cron schedule %q: %w", s.config.OverdueCronSchedule, err)
	}
	trashEntry, err := s.cron.AddFunc(s.config.TrashCronSchedule, s.trashJob)
	if err != nil {
		return fmt.Errorf("invalid trash cron schedule %q: %w", s.config.TrashCronSchedule, err)
	}
	s.overdueEntry = overdueEntry
	s.trashEntry = trashEntry

	s.cron.Start()
	s.isRunning = true

	s.logger.Info("Document maintenance scheduler started",
		zap.String("overdue_schedule", s.config.OverdueCronSchedule),
		zap.String("trash_schedule", s.config.TrashCronSchedule),
		zap.Duration("trash_retention", s.config.TrashRetention),
	)

	return nil
}

// Stop halts the cron runner and waits for in-flight jobs to finish, bounded
// by the given context.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	runner := s.cron
	s.mu.Unlock()

	stopCtx := runner.Stop()
	select {
	case <-stopCtx.Done():
		s.logger.Info("Document maintenance scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Document maintenance scheduler stop timed out")
		return ctx.Err()
	}
}

func (s *Scheduler) overdueJob() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.JobTimeout)
	defer cancel()

	if _, err := s.RunOverdueSweep(ctx); err != nil {
		s.logger.Error("Overdue sweep failed", zap.Error(err))
	}
}

func (s *Scheduler) trashJob() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.JobTimeout)
	defer cancel()

	if _, err := s.RunTrashPurge(ctx); err != nil {
		s.logger.Error("Trash purge failed", zap.Error(err))
	}
}

// RunOverdueSweep flags every draft or sent invoice and purchase order whose
// due date has passed, across all organizations. Returns the number of
// documents transitioned.
func (s *Scheduler) RunOverdueSweep(ctx context.Context) (int64, error) {
	now := time.Now()
	s.mu.Lock()
	s.lastOverdueRun = &now
	s.mu.Unlock()

	today := document.Today()
	var total int64
	var errs []error

	for _, target := range []struct {
		name    string
		sweeper OverdueSweeper
	}{
		{"invoices", s.invoices},
		{"purchase_orders", s.orders},
	} {
		n, err := target.sweeper.MarkOverdueBatch(ctx, nil, today)
		if err != nil {
			s.logger.Error("Overdue sweep failed for document type",
				zap.String("document_type", target.name),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("%s: %w", target.name, err))
			continue
		}
		total += n
		if n > 0 {
			s.logger.Info("Marked documents overdue",
				zap.String("document_type", target.name),
				zap.Int64("count", n),
			)
		}
	}

	return total, errors.Join(errs...)
}

// RunTrashPurge hard-deletes every document that has sat in the trash longer
// than the configured retention. Returns the number of documents removed.
func (s *Scheduler) RunTrashPurge(ctx context.Context) (int64, error) {
	now := time.Now()
	s.mu.Lock()
	s.lastTrashRun = &now
	s.mu.Unlock()

	cutoff := now.Add(-s.config.TrashRetention)
	var total int64
	var errs []error

	for _, target := range []struct {
		name   string
		purger TrashPurger
	}{
		{"invoices", s.invoices},
		{"purchase_orders", s.orders},
		{"receipts", s.receipts},
	} {
		n, err := target.purger.PurgeTrashedBefore(ctx, cutoff)
		if err != nil {
			s.logger.Error("Trash purge failed for document type",
				zap.String("document_type", target.name),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("%s: %w", target.name, err))
			continue
		}
		total += n
		if n > 0 {
			s.logger.Info("Purged trashed documents",
				zap.String("document_type", target.name),
				zap.Int64("count", n),
			)
		}
	}

	return total, errors.Join(errs...)
}

// Status reports the scheduler state for the health endpoint.
func (s *Scheduler) Status() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := map[string]any{
		"enabled":          s.config.Enabled,
		"is_running":       s.isRunning,
		"overdue_schedule": s.config.OverdueCronSchedule,
		"trash_schedule":   s.config.TrashCronSchedule,
		"last_overdue_run": s.lastOverdueRun,
		"last_trash_run":   s.lastTrashRun,
	}
	if s.isRunning {
		status["next_overdue_run"] = s.cron.Entry(s.overdueEntry).Next
		status["next_trash_run"] = s.cron.Entry(s.trashEntry).Next
	}
	return status
}
