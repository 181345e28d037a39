package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/creditdesk/creditboard/internal/adapter/otel"
	"github.com/creditdesk/creditboard/internal/domain"
	"github.com/creditdesk/creditboard/internal/domain/ledger"
	"github.com/creditdesk/creditboard/internal/port/database"
	"github.com/creditdesk/creditboard/internal/port/settings"
)

// dayPollInterval is how often the background loop checks for a day-key
// change while the process is running across midnight.
const dayPollInterval = time.Minute

// OutstandingView is the ledger snapshot served to clients.
type OutstandingView struct {
	DayKey           string          `json:"day_key"`
	Outstanding      int64           `json:"outstanding"`
	MonthOutstanding int64           `json:"month_outstanding"`
	YearOutstanding  int64           `json:"year_outstanding"`
	Deltas           ledger.Deltas   `json:"deltas"`
	Baseline         ledger.Baseline `json:"baseline"`
}

// LedgerService maintains the running outstanding balance and carries it
// across day boundaries.
type LedgerService struct {
	store    database.Store
	settings settings.Store
	metrics  *otel.Metrics
	poll     time.Duration
	now      func() time.Time

	mu    sync.Mutex
	state ledger.State
}

// NewLedgerService creates a LedgerService. poll is the day-key check
// interval for Run; non-positive falls back to the default. Call Load
// before serving.
func NewLedgerService(store database.Store, st settings.Store, metrics *otel.Metrics, poll time.Duration) *LedgerService {
	if poll <= 0 {
		poll = dayPollInterval
	}
	return &LedgerService{store: store, settings: st, metrics: metrics, poll: poll, now: time.Now}
}

// Load restores the persisted baseline and primes the day key.
func (s *LedgerService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.DayKey = ledger.DayKey(s.now())

	st, err := s.settings.GetSetting(ctx, ledger.KeyBaseline)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load ledger baseline: %w", err)
	}
	if err := json.Unmarshal(st.Value, &s.state.Baseline); err != nil {
		return fmt.Errorf("decode ledger baseline: %w", err)
	}
	return nil
}

// Run polls for day-key changes until ctx is cancelled, so a process left
// running over midnight rolls its ledger without waiting for a request.
func (s *LedgerService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.tick(ctx); err != nil {
				slog.Error("ledger tick failed", "error", err)
			}
		}
	}
}

// Outstanding recomputes the deltas, rolls the day if it changed, and
// returns the current view.
func (s *LedgerService) Outstanding(ctx context.Context) (*OutstandingView, error) {
	d, err := s.tick(ctx)
	if err != nil {
		return nil, err
	}
	return s.view(d), nil
}

// SetBaseline persists a user-entered baseline and applies it immediately.
func (s *LedgerService) SetBaseline(ctx context.Context, b ledger.Baseline) error {
	if b.StartOfDay < 0 || b.StartOfMonth < 0 || b.StartOfYear < 0 {
		return fmt.Errorf("%w: baseline amounts must not be negative", domain.ErrValidation)
	}
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode ledger baseline: %w", err)
	}
	if err := s.settings.UpsertSetting(ctx, ledger.KeyBaseline, data); err != nil {
		return err
	}

	s.mu.Lock()
	s.state.Baseline = b
	s.mu.Unlock()
	return nil
}

// ResetDay visually re-zeroes today's movement. The baseline and the
// completed tasks are untouched; only the displayed balance changes.
func (s *LedgerService) ResetDay(ctx context.Context) (*OutstandingView, error) {
	d, err := s.tick(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.state.ResetDay(d.Day)
	s.mu.Unlock()
	return s.view(d), nil
}

func (s *LedgerService) view(d ledger.Deltas) *OutstandingView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &OutstandingView{
		DayKey:           s.state.DayKey,
		Outstanding:      s.state.Outstanding(d.Day),
		MonthOutstanding: s.state.MonthOutstanding(d.Month),
		YearOutstanding:  s.state.YearOutstanding(d.Year),
		Deltas:           d,
		Baseline:         s.state.Baseline,
	}
}

// tick recomputes the deltas and advances the ledger state to the current
// day: on a day change the display adjustment clears, an unset start-of-day
// baseline adopts yesterday's closing balance, and today's closing record
// is written back for tomorrow's rollover.
func (s *LedgerService) tick(ctx context.Context) (ledger.Deltas, error) {
	tasks, err := s.store.ListTasks(ctx, database.ListFilter{IncludeArchived: true})
	if err != nil {
		return ledger.Deltas{}, fmt.Errorf("ledger list tasks: %w", err)
	}
	now := s.now()
	d := ledger.ComputeDeltas(tasks, now)
	key := ledger.DayKey(now)

	closing, err := s.loadClosing(ctx)
	if err != nil {
		return ledger.Deltas{}, err
	}

	s.mu.Lock()
	rolled := s.state.DayKey != key
	adopted := s.state.Roll(key, closing)
	record := s.state.Closing(d.Day)
	baseline := s.state.Baseline
	s.mu.Unlock()

	if rolled {
		s.metrics.LedgerRollover.Add(ctx, 1)
		slog.Info("ledger rolled over", "day", key, "adopted_closing", adopted)
	}
	if adopted {
		data, err := json.Marshal(baseline)
		if err != nil {
			return d, fmt.Errorf("encode ledger baseline: %w", err)
		}
		if err := s.settings.UpsertSetting(ctx, ledger.KeyBaseline, data); err != nil {
			return d, err
		}
	}

	data, err := json.Marshal(record)
	if err != nil {
		return d, fmt.Errorf("encode closing record: %w", err)
	}
	if err := s.settings.UpsertSetting(ctx, ledger.KeyPrevDay, data); err != nil {
		return d, err
	}
	return d, nil
}

func (s *LedgerService) loadClosing(ctx context.Context) (*ledger.Closing, error) {
	st, err := s.settings.GetSetting(ctx, ledger.KeyPrevDay)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load closing record: %w", err)
	}
	var c ledger.Closing
	if err := json.Unmarshal(st.Value, &c); err != nil {
		return nil, fmt.Errorf("decode closing record: %w", err)
	}
	return &c, nil
}
