package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "creditboard"

// Metrics holds all board metric instruments.
type Metrics struct {
	TasksCreated   metric.Int64Counter
	TasksCompleted metric.Int64Counter
	TasksArchived  metric.Int64Counter
	BoardReorders  metric.Int64Counter
	SweepArchived  metric.Int64Counter
	LedgerRollover metric.Int64Counter
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.TasksCreated, err = meter.Int64Counter("creditboard.tasks.created",
		metric.WithDescription("Number of tasks created"))
	if err != nil {
		return nil, err
	}

	m.TasksCompleted, err = meter.Int64Counter("creditboard.tasks.completed",
		metric.WithDescription("Number of tasks marked completed"))
	if err != nil {
		return nil, err
	}

	m.TasksArchived, err = meter.Int64Counter("creditboard.tasks.archived",
		metric.WithDescription("Number of tasks archived, sweep included"))
	if err != nil {
		return nil, err
	}

	m.BoardReorders, err = meter.Int64Counter("creditboard.board.reorders",
		metric.WithDescription("Number of quadrant reorder operations"))
	if err != nil {
		return nil, err
	}

	m.SweepArchived, err = meter.Int64Counter("creditboard.sweep.archived",
		metric.WithDescription("Number of tasks archived by the retention sweep"))
	if err != nil {
		return nil, err
	}

	m.LedgerRollover, err = meter.Int64Counter("creditboard.ledger.rollovers",
		metric.WithDescription("Number of day-boundary ledger rollovers"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
