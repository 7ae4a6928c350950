// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// UploadPruner deletes archived uploads older than a cutoff.
type UploadPruner interface {
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// Scheduler manages background scheduled jobs using robfig/cron.
type Scheduler struct {
	cron      *cron.Cron
	pruner    UploadPruner
	retention time.Duration
	logger    *slog.Logger
}

// NewScheduler creates a new job scheduler. retention bounds how long raw
// upload archives are kept before the nightly sweep removes them.
func NewScheduler(pruner UploadPruner, retention time.Duration, logger *slog.Logger) *Scheduler {
	// Create cron with seconds disabled (standard 5-field format)
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:      c,
		pruner:    pruner,
		retention: retention,
		logger:    logger,
	}
}

// Start begins scheduled jobs.
func (s *Scheduler) Start() error {
	// Upload archive sweep: runs daily at 3:00 AM
	_, err := s.cron.AddFunc("0 3 * * *", s.pruneUploads)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started",
		slog.Int("jobs", len(s.cron.Entries())),
	)
	return nil
}

// Stop gracefully stops all scheduled jobs.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	return s.cron.Stop()
}

// RunNow manually triggers the upload sweep (for testing/admin).
func (s *Scheduler) RunNow() {
	go s.pruneUploads()
}

func (s *Scheduler) pruneUploads() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-s.retention)
	s.logger.Info("starting upload archive sweep", slog.Time("cutoff", cutoff))

	removed, err := s.pruner.PruneOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("upload archive sweep failed",
			slog.Int("removed", removed),
			slog.Any("error", err),
		)
		return
	}

	s.logger.Info("upload archive sweep completed", slog.Int("removed", removed))
}
