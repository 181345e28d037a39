package ledger

import (
	"testing"
	"time"

	"github.com/creditdesk/creditboard/internal/domain/task"
)

func TestComputeDeltas(t *testing.T) {
	now := time.Date(2026, 8, 31, 15, 0, 0, 0, time.UTC)
	at := func(ts time.Time) *time.Time { return &ts }

	tasks := []task.Task{
		// today: +500k disbursed, -200k recovered
		{Type: task.TypeDisbursement, AmountDisbursement: 500_000, Completed: true, CompletedAt: at(now.Add(-time.Hour))},
		{Type: task.TypeRecovery, AmountRecovery: 200_000, Completed: true, CompletedAt: at(now.Add(-2 * time.Hour))},
		// earlier this month
		{Type: task.TypeDisbursement, AmountDisbursement: 1_000_000, Completed: true, CompletedAt: at(time.Date(2026, 8, 3, 10, 0, 0, 0, time.UTC))},
		// earlier this year
		{Type: task.TypeRecovery, AmountRecovery: 400_000, Completed: true, CompletedAt: at(time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC))},
		// last year, excluded entirely
		{Type: task.TypeDisbursement, AmountDisbursement: 9_000_000, Completed: true, CompletedAt: at(time.Date(2025, 12, 31, 10, 0, 0, 0, time.UTC))},
		// not completed, excluded
		{Type: task.TypeDisbursement, AmountDisbursement: 7_000_000},
	}

	got := ComputeDeltas(tasks, now)
	want := Deltas{Day: 300_000, Month: 1_300_000, Year: 900_000}
	if got != want {
		t.Errorf("ComputeDeltas() = %+v, want %+v", got, want)
	}
}

func TestRollClearsAdjustmentOnDayChange(t *testing.T) {
	s := State{DayKey: "2026-08-30", Adjustment: -500_000, Baseline: Baseline{StartOfDay: 1_000_000}}

	if s.Roll("2026-08-31", nil) {
		t.Error("Roll() with a set baseline must not report a baseline change")
	}
	if s.Adjustment != 0 {
		t.Errorf("Adjustment after day change = %d, want 0", s.Adjustment)
	}
	if s.DayKey != "2026-08-31" {
		t.Errorf("DayKey = %q, want 2026-08-31", s.DayKey)
	}
	if s.Baseline.StartOfDay != 1_000_000 {
		t.Errorf("baseline changed to %d, want untouched", s.Baseline.StartOfDay)
	}
}

func TestRollAdoptsClosingBalance(t *testing.T) {
	s := State{DayKey: "2026-08-30"}
	closing := &Closing{Date: "2026-08-30", Outstanding: 2_500_000}

	if !s.Roll("2026-08-31", closing) {
		t.Fatal("Roll() should adopt yesterday's closing when baseline is unset")
	}
	if s.Baseline.StartOfDay != 2_500_000 {
		t.Errorf("StartOfDay = %d, want 2500000", s.Baseline.StartOfDay)
	}
}

func TestRollNeverAdoptsTodaysOwnRecord(t *testing.T) {
	s := State{DayKey: "2026-08-31"}
	closing := &Closing{Date: "2026-08-31", Outstanding: 2_500_000}

	if s.Roll("2026-08-31", closing) {
		t.Error("Roll() must not adopt a closing record written today")
	}
	if s.Baseline.StartOfDay != 0 {
		t.Errorf("StartOfDay = %d, want 0", s.Baseline.StartOfDay)
	}
}

func TestRollKeepsExplicitBaseline(t *testing.T) {
	s := State{DayKey: "2026-08-30", Baseline: Baseline{StartOfDay: 5_000_000}}
	closing := &Closing{Date: "2026-08-30", Outstanding: 2_500_000}

	if s.Roll("2026-08-31", closing) {
		t.Error("Roll() must not overwrite a user-set baseline")
	}
	if s.Baseline.StartOfDay != 5_000_000 {
		t.Errorf("StartOfDay = %d, want 5000000", s.Baseline.StartOfDay)
	}
}

func TestOutstandingAndResetDay(t *testing.T) {
	s := State{DayKey: "2026-08-31", Baseline: Baseline{StartOfDay: 1_000_000}}

	if got := s.Outstanding(200_000); got != 1_200_000 {
		t.Errorf("Outstanding() = %d, want 1200000", got)
	}

	s.ResetDay(200_000)
	if got := s.Outstanding(200_000); got != 1_000_000 {
		t.Errorf("Outstanding() after reset = %d, want 1000000", got)
	}
	if s.Baseline.StartOfDay != 1_000_000 {
		t.Errorf("reset touched the baseline: %d", s.Baseline.StartOfDay)
	}

	// Movement after the reset shows up on top of the re-zeroed figure.
	if got := s.Outstanding(350_000); got != 1_150_000 {
		t.Errorf("Outstanding() after further movement = %d, want 1150000", got)
	}
}

func TestClosingRecord(t *testing.T) {
	s := State{DayKey: "2026-08-31", Baseline: Baseline{StartOfDay: 1_000_000}, Adjustment: -999}

	got := s.Closing(200_000)
	want := Closing{Date: "2026-08-31", Outstanding: 1_200_000}
	if got != want {
		t.Errorf("Closing() = %+v, want %+v (adjustment is display-only)", got, want)
	}
}

func TestDayKey(t *testing.T) {
	now := time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)
	if got := DayKey(now); got != "2026-08-31" {
		t.Errorf("DayKey() = %q, want 2026-08-31", got)
	}
}
