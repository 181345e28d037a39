// Package settings defines the port for small keyed JSON documents that
// must survive restarts, such as the ledger baseline and the previous-day
// closing balance.
package settings

import (
	"context"
	"encoding/json"
	"time"
)

// Setting is one persisted key/value document.
type Setting struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Store is the port interface for settings persistence.
type Store interface {
	ListSettings(ctx context.Context) ([]Setting, error)
	GetSetting(ctx context.Context, key string) (*Setting, error)
	UpsertSetting(ctx context.Context, key string, value json.RawMessage) error
	DeleteSetting(ctx context.Context, key string) error
}
