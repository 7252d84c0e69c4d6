package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/reviewbot/internal/logger"
)

// DueSource reports which users have materials due.
type DueSource interface {
	Users() []string
	DueCount(userID string) int
}

// Notifier interface for sending notifications
type Notifier interface {
	SendReminder(ctx context.Context, userID string, count int) error
}

// Config controls when reminders go out.
type Config struct {
	Interval time.Duration
	// Reminders are sent only when the current hour in Location is within
	// [StartHour, EndHour].
	StartHour int
	EndHour   int
	Location  *time.Location
}

// Scheduler periodically reminds users about due reviews.
type Scheduler struct {
	scheduler *gocron.Scheduler
	source    DueSource
	notifier  Notifier
	cfg       Config
	now       func() time.Time
	log       *logger.Logger
}

// New creates a new scheduler instance
func New(source DueSource, notifier Notifier, cfg Config, log *logger.Logger) *Scheduler {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(cfg.Location),
		source:    source,
		notifier:  notifier,
		cfg:       cfg,
		now:       time.Now,
		log:       log.With("component", "scheduler"),
	}
}

// Start registers the reminder job and runs the scheduler in the background
// until Stop is called or ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.scheduler.Every(s.cfg.Interval).SingletonMode().Do(func() {
		s.CheckAndSendReminders(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reminders: %w", err)
	}
	s.scheduler.StartAsync()
	s.log.Info("reminder scheduler started", "interval", s.cfg.Interval.String())

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	if s.scheduler.IsRunning() {
		s.scheduler.Stop()
		s.log.Info("reminder scheduler stopped")
	}
}

// CheckAndSendReminders sends one reminder to every user with due materials,
// provided the current hour is within notification hours. It returns how many
// reminders were delivered.
func (s *Scheduler) CheckAndSendReminders(ctx context.Context) int {
	hour := s.now().In(s.cfg.Location).Hour()
	if hour < s.cfg.StartHour || hour > s.cfg.EndHour {
		s.log.Debug("outside notification hours, skipping reminders",
			"hour", hour, "start", s.cfg.StartHour, "end", s.cfg.EndHour)
		return 0
	}

	sent := 0
	for _, userID := range s.source.Users() {
		if ctx.Err() != nil {
			break
		}
		if ok, _ := s.remind(ctx, userID); ok {
			sent++
		}
	}
	s.log.Info("reminders sent", "count", sent)
	return sent
}

// RunManualCheck reminds userID now, ignoring notification hours. It reports
// whether a reminder was sent; users with nothing due get none.
func (s *Scheduler) RunManualCheck(ctx context.Context, userID string) (bool, error) {
	return s.remind(ctx, userID)
}

func (s *Scheduler) remind(ctx context.Context, userID string) (bool, error) {
	count := s.source.DueCount(userID)
	if count == 0 {
		return false, nil
	}
	if err := s.notifier.SendReminder(ctx, userID, count); err != nil {
		s.log.Warn("failed to send reminder", "user_id", userID, "error", err)
		return false, fmt.Errorf("failed to remind user %s: %w", userID, err)
	}
	return true, nil
}
