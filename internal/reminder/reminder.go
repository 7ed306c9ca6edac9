// Package reminder runs the periodic jobs: shift reminders for approved
// workers and cleanup of the token blacklist.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/protomem/medicall/internal/model"
	"github.com/robfig/cron/v3"
)

const (
	DefaultSpec = "@every 1h"
	DefaultLead = 24 * time.Hour

	_purgeSpec = "@daily"
)

type ReminderSource interface {
	// FindDueReminders skips applications that already got a reminder.
	FindDueReminders(ctx context.Context, from, to time.Time) ([]model.DueReminder, error)
}

type TokenPurger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int, error)
}

type Notifier interface {
	Deliver(ctx context.Context, dto model.InsertNotificationDTO) (model.Notification, error)
}

type Scheduler struct {
	logger   *slog.Logger
	cron     *cron.Cron
	source   ReminderSource
	notifier Notifier
	purger   TokenPurger

	spec string
	lead time.Duration
	now  func() time.Time
}

func New(logger *slog.Logger, source ReminderSource, notifier Notifier, purger TokenPurger, spec string, lead time.Duration) *Scheduler {
	logger = logger.With("module", "reminder")
	if lead <= 0 {
		lead = DefaultLead
	}

	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))

	return &Scheduler{
		logger: logger,
		cron: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		source:   source,
		notifier: notifier,
		purger:   purger,
		spec:     spec,
		lead:     lead,
		now:      time.Now,
	}
}

func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// Start registers the jobs and starts the cron loop. An empty spec disables
// reminders; the blacklist purge always runs.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.spec != "" {
		_, err := s.cron.AddFunc(s.spec, func() {
			if _, err := s.SendDue(ctx); err != nil {
				s.logger.Error("failed to send shift reminders", "error", err)
			}
		})
		if err != nil {
			return fmt.Errorf("cron.AddFunc(%q): %w", s.spec, err)
		}
	}

	if s.purger != nil {
		_, err := s.cron.AddFunc(_purgeSpec, func() {
			if _, err := s.PurgeTokens(ctx); err != nil {
				s.logger.Error("failed to purge revoked tokens", "error", err)
			}
		})
		if err != nil {
			return fmt.Errorf("cron.AddFunc(%q): %w", _purgeSpec, err)
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "spec", s.spec, "lead", s.lead.String())

	return nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// SendDue delivers one shift_reminder per approved application whose shift
// starts within the lead window.
func (s *Scheduler) SendDue(ctx context.Context) (int, error) {
	now := s.now()

	due, err := s.source.FindDueReminders(ctx, now, now.Add(s.lead))
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, r := range due {
		_, err := s.notifier.Deliver(ctx, model.InsertNotificationDTO{
			RecipientID:          r.WorkerID,
			SenderID:             &r.HospitalID,
			Type:                 model.NotificationShiftReminder,
			Title:                "Upcoming shift",
			Message:              fmt.Sprintf("Your %s shift at %s starts on %s at %s.", r.ShiftRole, r.Location, r.ShiftDate, r.StartTime),
			RelatedShiftID:       &r.ShiftID,
			RelatedApplicationID: &r.ApplicationID,
		})
		if err != nil {
			s.logger.Warn("failed to deliver shift reminder", "applicationId", r.ApplicationID, "error", err)
			continue
		}
		sent++
	}

	if sent > 0 {
		s.logger.Info("shift reminders sent", "count", sent)
	}

	return sent, nil
}

func (s *Scheduler) PurgeTokens(ctx context.Context) (int, error) {
	n, err := s.purger.PurgeExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}

	s.logger.Debug("revoked tokens purged", "count", n)

	return n, nil
}
