// Package reminder ranks open tasks into a short attention list by
// deadline pressure and monetary weight.
package reminder

import (
	"sort"
	"time"

	"github.com/creditdesk/creditboard/internal/domain/task"
)

// MaxReminders caps the list; anything past the top entries is noise.
const MaxReminders = 6

// Reason labels the deadline bucket a reminder fell into.
type Reason string

const (
	ReasonOverdue  Reason = "overdue"
	ReasonToday    Reason = "today"
	ReasonUpcoming Reason = "upcoming"  // due within 3 days
	ReasonThisWeek Reason = "this_week" // due within 7 days
	ReasonMonitor  Reason = "monitor"   // further out
)

// Reminder is one scored entry of the attention list.
type Reminder struct {
	Task     task.Task `json:"task"`
	Score    int       `json:"score"`
	Reason   Reason    `json:"reason"`
	DaysLeft int       `json:"days_left"`
}

// Amount thresholds (VND) for the monetary bonus.
const (
	amountCritical = 1_000_000_000
	amountMajor    = 300_000_000
	amountNotable  = 100_000_000
)

// daysUntil counts whole calendar days from now to the deadline,
// ignoring the time of day on both sides. Negative means overdue.
// Both dates are rebuilt in UTC so every day is exactly 24 hours;
// a 23-hour DST day must not collapse tomorrow into today.
func daysUntil(deadline, now time.Time) int {
	d := time.Date(deadline.Year(), deadline.Month(), deadline.Day(), 0, 0, 0, 0, time.UTC)
	n := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Sub(n) / (24 * time.Hour))
}

// Score rates a single task. Deadline pressure dominates; large amounts
// add a bonus so a big disbursement due this week outranks a small one
// due tomorrow only when the gap is close.
func Score(t *task.Task, now time.Time) (int, Reason, int) {
	days := daysUntil(*t.Deadline, now)

	var score int
	var reason Reason
	switch {
	case days < 0:
		score, reason = 60, ReasonOverdue
	case days == 0:
		score, reason = 50, ReasonToday
	case days <= 3:
		score, reason = 35, ReasonUpcoming
	case days <= 7:
		score, reason = 20, ReasonThisWeek
	default:
		score, reason = 5, ReasonMonitor
	}

	switch amount := t.ReminderAmount(); {
	case amount >= amountCritical:
		score += 25
	case amount >= amountMajor:
		score += 15
	case amount >= amountNotable:
		score += 8
	}
	return score, reason, days
}

// Build scores every open, deadlined task and returns the top limit
// entries; a non-positive limit falls back to MaxReminders. Completed and
// archived tasks never remind; tasks without a deadline are excluded
// rather than treated as due never. Ties break on soonest deadline, then
// on id, so equal inputs always produce equal output.
func Build(tasks []task.Task, now time.Time, limit int) []Reminder {
	if limit <= 0 {
		limit = MaxReminders
	}
	var out []Reminder
	for i := range tasks {
		t := &tasks[i]
		if t.Completed || !t.Active() || t.Deadline == nil {
			continue
		}
		score, reason, days := Score(t, now)
		out = append(out, Reminder{Task: *t, Score: score, Reason: reason, DaysLeft: days})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if !out[i].Task.Deadline.Equal(*out[j].Task.Deadline) {
			return out[i].Task.Deadline.Before(*out[j].Task.Deadline)
		}
		return out[i].Task.ID < out[j].Task.ID
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
