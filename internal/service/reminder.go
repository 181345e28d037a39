package service

import (
	"context"
	"time"

	"github.com/creditdesk/creditboard/internal/domain/reminder"
	"github.com/creditdesk/creditboard/internal/port/database"
)

// ReminderService ranks open deadlined tasks into the attention list.
type ReminderService struct {
	store database.Store
	limit int
	now   func() time.Time
}

// NewReminderService creates a new ReminderService. limit bounds the
// list; non-positive falls back to the default.
func NewReminderService(store database.Store, limit int) *ReminderService {
	if limit <= 0 {
		limit = reminder.MaxReminders
	}
	return &ReminderService{store: store, limit: limit, now: time.Now}
}

// List returns the scored reminders for the active board, capped at the
// top entries.
func (s *ReminderService) List(ctx context.Context) ([]reminder.Reminder, error) {
	tasks, err := s.store.ListTasks(ctx, database.ListFilter{})
	if err != nil {
		return nil, err
	}
	return reminder.Build(tasks, s.now(), s.limit), nil
}
