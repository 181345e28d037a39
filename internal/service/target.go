package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/creditdesk/creditboard/internal/domain"
	"github.com/creditdesk/creditboard/internal/domain/target"
	"github.com/creditdesk/creditboard/internal/port/settings"
)

// TargetView bundles the yearly and monthly goals served to clients.
type TargetView struct {
	Targets        target.Values `json:"targets"`
	MonthlyTargets target.Values `json:"monthly_targets"`
}

// TargetService persists the dashboard performance goals in the settings
// store.
type TargetService struct {
	settings settings.Store
}

// NewTargetService creates a new TargetService.
func NewTargetService(st settings.Store) *TargetService {
	return &TargetService{settings: st}
}

// Get returns the stored goals, falling back to the defaults for any
// document that is missing or unreadable.
func (s *TargetService) Get(ctx context.Context) (*TargetView, error) {
	stored, err := s.settings.ListSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list target settings: %w", err)
	}

	view := &TargetView{
		Targets:        target.Defaults(),
		MonthlyTargets: target.MonthlyDefaults(),
	}
	for _, st := range stored {
		switch st.Key {
		case target.KeyYearly:
			decodeTarget(st.Value, &view.Targets, target.Defaults())
		case target.KeyMonthly:
			decodeTarget(st.Value, &view.MonthlyTargets, target.MonthlyDefaults())
		}
	}
	return view, nil
}

// Set validates and persists both goal documents.
func (s *TargetService) Set(ctx context.Context, view TargetView) error {
	if !view.Targets.Valid() || !view.MonthlyTargets.Valid() {
		return fmt.Errorf("%w: target amounts must not be negative", domain.ErrValidation)
	}
	if err := s.upsert(ctx, target.KeyYearly, view.Targets); err != nil {
		return err
	}
	return s.upsert(ctx, target.KeyMonthly, view.MonthlyTargets)
}

// Reset deletes the stored goals so the defaults apply again.
func (s *TargetService) Reset(ctx context.Context) error {
	if err := s.settings.DeleteSetting(ctx, target.KeyYearly); err != nil {
		return fmt.Errorf("reset yearly targets: %w", err)
	}
	if err := s.settings.DeleteSetting(ctx, target.KeyMonthly); err != nil {
		return fmt.Errorf("reset monthly targets: %w", err)
	}
	return nil
}

func (s *TargetService) upsert(ctx context.Context, key string, v target.Values) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode targets %s: %w", key, err)
	}
	if err := s.settings.UpsertSetting(ctx, key, data); err != nil {
		return fmt.Errorf("store targets %s: %w", key, err)
	}
	return nil
}

// decodeTarget overlays a stored document onto dst, restoring fallback
// when the document is corrupt. A bad record must not break the view.
func decodeTarget(data json.RawMessage, dst *target.Values, fallback target.Values) {
	if err := json.Unmarshal(data, dst); err != nil || !dst.Valid() {
		*dst = fallback
	}
}
