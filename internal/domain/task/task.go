// Package task defines the Task domain entity and its lifecycle rules.
package task

import "time"

// Quadrant identifies one of the four priority buckets of the board
// (importance x urgency).
type Quadrant string

const (
	QuadrantQ1 Quadrant = "Q1" // important & urgent
	QuadrantQ2 Quadrant = "Q2" // important, not urgent
	QuadrantQ3 Quadrant = "Q3" // urgent, not important
	QuadrantQ4 Quadrant = "Q4" // neither
)

// Quadrants lists all valid quadrants in display order.
var Quadrants = []Quadrant{QuadrantQ1, QuadrantQ2, QuadrantQ3, QuadrantQ4}

// Valid reports whether q is one of the four known quadrants.
func (q Quadrant) Valid() bool {
	switch q {
	case QuadrantQ1, QuadrantQ2, QuadrantQ3, QuadrantQ4:
		return true
	}
	return false
}

// Type classifies the business operation a task represents.
type Type string

const (
	TypeDisbursement   Type = "disbursement"
	TypeAppraisal      Type = "appraisal"
	TypeMobilization   Type = "mobilization"
	TypeRecovery       Type = "recovery"
	TypeLoanFile       Type = "loan_file"
	TypeCollateralFile Type = "collateral_file"
	TypeOther          Type = "other" // carries a free-text note
)

// Types lists all valid task types.
var Types = []Type{
	TypeDisbursement, TypeAppraisal, TypeMobilization, TypeRecovery,
	TypeLoanFile, TypeCollateralFile, TypeOther,
}

// Valid reports whether t is a known task type.
func (t Type) Valid() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// Task represents a credit-operations work item on the board.
//
// Monetary fields are integer VND; zero means the field does not apply.
// Position orders a task within the active (non-archived) subset of its
// quadrant; archived tasks retain a stale position that is never read.
type Task struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Quadrant Quadrant `json:"quadrant"`
	Type     Type     `json:"type"`
	Note     string   `json:"note,omitempty"`

	Deadline *time.Time `json:"deadline,omitempty"` // date only, no time component

	AmountDisbursement int64 `json:"amount_disbursement"`
	ServiceFee         int64 `json:"service_fee"`
	AmountRecovery     int64 `json:"amount_recovery"`
	AmountMobilized    int64 `json:"amount_mobilized"`

	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	ArchivedAt  *time.Time `json:"archived_at,omitempty"`

	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// Active reports whether the task is visible on the board.
func (t *Task) Active() bool {
	return t.ArchivedAt == nil
}

// ReminderAmount is the monetary weight used for reminder scoring.
func (t *Task) ReminderAmount() int64 {
	return t.AmountDisbursement + t.AmountRecovery + t.AmountMobilized
}

// NormalizeAmounts zeroes every monetary field that does not apply to the
// task's type. Disbursement tasks carry both the disbursed amount and the
// service fee; recovery and mobilization tasks carry their single amount;
// all other types carry none. The note is meaningful only for TypeOther.
func (t *Task) NormalizeAmounts() {
	if t.Type != TypeDisbursement {
		t.AmountDisbursement = 0
		t.ServiceFee = 0
	}
	if t.Type != TypeRecovery {
		t.AmountRecovery = 0
	}
	if t.Type != TypeMobilization {
		t.AmountMobilized = 0
	}
	if t.Type != TypeOther {
		t.Note = ""
	}
}

// CreateRequest holds the caller-supplied fields for a new task.
// ID, position and createdAt are assigned by the service and store.
type CreateRequest struct {
	Title              string   `json:"title"`
	Quadrant           Quadrant `json:"quadrant"`
	Type               Type     `json:"type"`
	Note               string   `json:"note,omitempty"`
	Deadline           string   `json:"deadline,omitempty"` // "2006-01-02"
	AmountDisbursement int64    `json:"amount_disbursement,omitempty"`
	ServiceFee         int64    `json:"service_fee,omitempty"`
	AmountRecovery     int64    `json:"amount_recovery,omitempty"`
	AmountMobilized    int64    `json:"amount_mobilized,omitempty"`
	Completed          bool     `json:"completed,omitempty"`
}

// UpdateRequest holds the fields of a full task edit. Lifecycle flags and
// ordering are not editable through it.
type UpdateRequest struct {
	Title              string   `json:"title"`
	Quadrant           Quadrant `json:"quadrant"`
	Type               Type     `json:"type"`
	Note               string   `json:"note,omitempty"`
	Deadline           string   `json:"deadline,omitempty"`
	AmountDisbursement int64    `json:"amount_disbursement,omitempty"`
	ServiceFee         int64    `json:"service_fee,omitempty"`
	AmountRecovery     int64    `json:"amount_recovery,omitempty"`
	AmountMobilized    int64    `json:"amount_mobilized,omitempty"`
}

// Totals aggregates the financial columns across a set of tasks.
// NetOutstanding is total disbursement minus total recovery.
type Totals struct {
	TotalDisbursement int64 `json:"total_disbursement"`
	TotalRecovery     int64 `json:"total_recovery"`
	TotalMobilized    int64 `json:"total_mobilized"`
	TotalServiceFee   int64 `json:"total_service_fee"`
	NetOutstanding    int64 `json:"net_outstanding"`
}

// Summarize computes running totals over tasks, archived included.
// Absent amounts contribute zero.
func Summarize(tasks []Task) Totals {
	var tt Totals
	for i := range tasks {
		t := &tasks[i]
		tt.TotalDisbursement += t.AmountDisbursement
		tt.TotalRecovery += t.AmountRecovery
		tt.TotalMobilized += t.AmountMobilized
		tt.TotalServiceFee += t.ServiceFee
	}
	tt.NetOutstanding = tt.TotalDisbursement - tt.TotalRecovery
	return tt
}
