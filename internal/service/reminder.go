package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"bitwise74/notes-api/internal/store"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const DefaultReminderSchedule = "@every 20s"

// A reminder goes out when a note is due in more than 30 and less than 31
// minutes. There is no backfill: a note whose window falls between two runs
// never gets a reminder.
const (
	reminderWindowStart = 30 * time.Minute
	reminderWindowEnd   = 31 * time.Minute
)

// Reminder periodically mails owners of notes that are about to be due.
// Each note is reminded about at most once.
type Reminder struct {
	Notes   *store.NoteStore
	Queue   *MailQueue
	BaseURL string
	Now     func() time.Time

	mu   sync.Mutex
	cron *cron.Cron
}

func NewReminder(notes *store.NoteStore, q *MailQueue, baseURL string) *Reminder {
	return &Reminder{
		Notes:   notes,
		Queue:   q,
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Now:     time.Now,
	}
}

// InWindow reports whether a note due at due should be reminded about at now
func InWindow(due, now time.Time) bool {
	left := due.Sub(now)
	return left > reminderWindowStart && left < reminderWindowEnd
}

// NoteLink is the deep link put into reminder mails
func NoteLink(baseURL, noteID string) string {
	return fmt.Sprintf("%s/api/notes/note/%s", strings.TrimSuffix(baseURL, "/"), noteID)
}

// Start schedules Run with a cron spec such as "@every 20s". Overlapping
// runs are skipped.
func (r *Reminder) Start(spec string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cron != nil {
		return errors.New("reminder already started")
	}

	if spec == "" {
		spec = DefaultReminderSchedule
	}

	logger := cronLogger{zap.S().Named("reminder")}

	c := cron.New(cron.WithLogger(logger), cron.WithChain(
		cron.Recover(logger),
		cron.SkipIfStillRunning(logger),
	))

	_, err := c.AddFunc(spec, func() {
		if _, err := r.Run(context.Background()); err != nil {
			zap.L().Error("Reminder run failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid reminder schedule %q, %w", spec, err)
	}

	c.Start()
	r.cron = c

	zap.L().Debug("Reminder attached", zap.String("schedule", spec))

	return nil
}

// Stop stops scheduling new runs and waits for a running one to finish
func (r *Reminder) Stop(ctx context.Context) {
	r.mu.Lock()
	c := r.cron
	r.cron = nil
	r.mu.Unlock()

	if c == nil {
		return
	}

	select {
	case <-c.Stop().Done():
	case <-ctx.Done():
	}
}

// Run checks every pending note once and returns how many reminders were
// queued. A note is claimed by flipping is_email_send before its mail is
// queued, a failed send is logged and not retried.
func (r *Reminder) Run(ctx context.Context) (int, error) {
	now := r.Now().UTC()

	notes, err := r.Notes.PendingReminders(ctx, now)
	if err != nil {
		return 0, err
	}

	queued := 0

	for i := range notes {
		n := &notes[i]

		if n.IsEmailSend || !InWindow(n.DueDate, now) {
			continue
		}

		m, err := ReminderMail(n, NoteLink(r.BaseURL, n.ID))
		if err != nil {
			return queued, err
		}

		ok, err := r.Notes.MarkEmailSent(ctx, n.ID)
		if err != nil {
			return queued, err
		}

		if !ok {
			zap.L().Debug("Reminder already claimed", zap.String("note_id", n.ID))
			continue
		}

		if err := r.Queue.Enqueue(m); err != nil {
			zap.L().Error("Failed to queue reminder", zap.String("note_id", n.ID), zap.Error(err))
			continue
		}

		queued++
		zap.L().Debug("Reminder queued", zap.String("note_id", n.ID), zap.String("to", n.User.Email))
	}

	return queued, nil
}

// cronLogger forwards cron's logs to zap
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
