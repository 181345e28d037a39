// Package ledger derives the net-outstanding running balance and carries
// it across day boundaries.
//
// The engine is pure state: the service layer feeds it the day key, the
// computed deltas and the persisted closing record, and persists what the
// engine hands back. All arithmetic is integer VND.
package ledger

import (
	"time"

	"github.com/creditdesk/creditboard/internal/domain/task"
)

// Settings keys for the cross-session ledger state. These are wire
// constants shared with earlier versions of the dashboard; do not rename.
const (
	KeyBaseline  = "credit_outstanding_extras_v1"
	KeyPrevDay   = "credit_outstanding_prev_day_v1"
	dayKeyLayout = "2006-01-02"
)

// Baseline is the user-entered seed of the running balance.
type Baseline struct {
	StartOfDay   int64 `json:"start_of_day"`
	StartOfMonth int64 `json:"start_of_month"`
	StartOfYear  int64 `json:"start_of_year"`
}

// Closing is the persisted end-of-day balance record, tagged with the day
// key it belongs to so the next day's rollover can tell it apart from an
// in-progress figure.
type Closing struct {
	Date        string `json:"date"`
	Outstanding int64  `json:"outstanding"`
}

// Deltas are the net movements (disbursed minus recovered) over tasks
// completed within the current day, month and year.
type Deltas struct {
	Day   int64 `json:"day"`
	Month int64 `json:"month"`
	Year  int64 `json:"year"`
}

// DayKey truncates now to day granularity.
func DayKey(now time.Time) string {
	return now.Format(dayKeyLayout)
}

// ComputeDeltas sums disbursement minus recovery over tasks whose
// completion timestamp falls in the current day, month and year. Tasks
// without amounts contribute zero.
func ComputeDeltas(tasks []task.Task, now time.Time) Deltas {
	var d Deltas
	for i := range tasks {
		t := &tasks[i]
		if t.CompletedAt == nil {
			continue
		}
		done := t.CompletedAt.In(now.Location())
		if done.Year() != now.Year() {
			continue
		}
		net := t.AmountDisbursement - t.AmountRecovery
		d.Year += net
		if done.Month() != now.Month() {
			continue
		}
		d.Month += net
		if done.Day() == now.Day() {
			d.Day += net
		}
	}
	return d
}

// State is the in-memory ledger state for one session.
type State struct {
	Baseline   Baseline
	DayKey     string
	Adjustment int64 // display-only additive term, cleared on day change
}

// Roll advances the state to nowKey. On a day-key change the display
// adjustment is cleared. If the user has not set a start-of-day baseline,
// the previous day's closing balance is adopted, but only when the record
// predates today, so today's own in-progress figure is never adopted.
// Reports whether the baseline changed and must be persisted.
func (s *State) Roll(nowKey string, closing *Closing) bool {
	if s.DayKey != nowKey {
		s.Adjustment = 0
		s.DayKey = nowKey
	}
	if s.Baseline.StartOfDay != 0 || closing == nil || closing.Date == nowKey {
		return false
	}
	s.Baseline.StartOfDay = closing.Outstanding
	return true
}

// Closing returns the record to persist for today, so that tomorrow's
// rollover has a closing value to read.
func (s *State) Closing(todayDelta int64) Closing {
	return Closing{Date: s.DayKey, Outstanding: s.Baseline.StartOfDay + todayDelta}
}

// ResetDay visually re-zeroes today's movement without touching the
// stored baseline.
func (s *State) ResetDay(todayDelta int64) {
	s.Adjustment = -todayDelta
}

// Outstanding is the displayed current balance.
func (s *State) Outstanding(todayDelta int64) int64 {
	return s.Baseline.StartOfDay + todayDelta + s.Adjustment
}

// MonthOutstanding is the month-to-date balance.
func (s *State) MonthOutstanding(monthDelta int64) int64 {
	return s.Baseline.StartOfMonth + monthDelta
}

// YearOutstanding is the year-to-date balance.
func (s *State) YearOutstanding(yearDelta int64) int64 {
	return s.Baseline.StartOfYear + yearDelta
}
