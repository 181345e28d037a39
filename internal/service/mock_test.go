package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/creditdesk/creditboard/internal/adapter/otel"
	"github.com/creditdesk/creditboard/internal/domain"
	"github.com/creditdesk/creditboard/internal/domain/task"
	"github.com/creditdesk/creditboard/internal/port/database"
	"github.com/creditdesk/creditboard/internal/port/settings"
)

// mockStore implements database.Store in memory for service tests.
type mockStore struct {
	mu    sync.Mutex
	tasks []task.Task

	reorderErr error
	moveErr    error
}

func (m *mockStore) find(id string) *task.Task {
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			return &m.tasks[i]
		}
	}
	return nil
}

func (m *mockStore) ListTasks(_ context.Context, filter database.ListFilter) ([]task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []task.Task
	for _, t := range m.tasks {
		if !filter.IncludeArchived && !t.Active() {
			continue
		}
		if filter.Quadrant.Valid() && t.Quadrant != filter.Quadrant {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (m *mockStore) GetTask(_ context.Context, id string) (*task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t := m.find(id); t != nil {
		cp := *t
		return &cp, nil
	}
	return nil, fmt.Errorf("get task %s: %w", id, domain.ErrNotFound)
}

func (m *mockStore) CreateTask(_ context.Context, t *task.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	maxPos := 0
	for _, existing := range m.tasks {
		if existing.Quadrant == t.Quadrant && existing.Active() && existing.Position > maxPos {
			maxPos = existing.Position
		}
	}
	t.Position = maxPos + 1
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	m.tasks = append(m.tasks, *t)
	return nil
}

func (m *mockStore) UpdateTask(_ context.Context, t *task.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing := m.find(t.ID)
	if existing == nil {
		return fmt.Errorf("update task %s: %w", t.ID, domain.ErrNotFound)
	}
	existing.Title = t.Title
	existing.Quadrant = t.Quadrant
	existing.Type = t.Type
	existing.Note = t.Note
	existing.Deadline = t.Deadline
	existing.AmountDisbursement = t.AmountDisbursement
	existing.ServiceFee = t.ServiceFee
	existing.AmountRecovery = t.AmountRecovery
	existing.AmountMobilized = t.AmountMobilized
	return nil
}

func (m *mockStore) SetCompleted(_ context.Context, id string, completed bool, at *time.Time) (*task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.find(id)
	if t == nil {
		return nil, fmt.Errorf("set task %s completed: %w", id, domain.ErrNotFound)
	}
	t.Completed = completed
	if completed {
		t.CompletedAt = at
	} else {
		t.CompletedAt = nil
		t.ArchivedAt = nil
	}
	cp := *t
	return &cp, nil
}

func (m *mockStore) DeleteTask(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete task %s: %w", id, domain.ErrNotFound)
}

func (m *mockStore) MoveTask(_ context.Context, id string, quadrant task.Quadrant, position int) (*task.Task, error) {
	if m.moveErr != nil {
		return nil, m.moveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.find(id)
	if t == nil {
		return nil, fmt.Errorf("move task %s: %w", id, domain.ErrNotFound)
	}
	t.Quadrant = quadrant
	t.Position = position
	cp := *t
	return &cp, nil
}

func (m *mockStore) ReorderTasks(_ context.Context, quadrant task.Quadrant, orderedIDs []string) error {
	if m.reorderErr != nil {
		return m.reorderErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, id := range orderedIDs {
		if t := m.find(id); t != nil {
			t.Quadrant = quadrant
			t.Position = i + 1
		}
	}
	return nil
}

func (m *mockStore) MaxPosition(_ context.Context, quadrant task.Quadrant) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	maxPos := 0
	for _, t := range m.tasks {
		if t.Quadrant == quadrant && t.Active() && t.Position > maxPos {
			maxPos = t.Position
		}
	}
	return maxPos, nil
}

func (m *mockStore) ArchiveTask(_ context.Context, id string, at time.Time) (*task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.find(id)
	if t == nil || !t.Active() {
		return nil, fmt.Errorf("archive task %s: %w", id, domain.ErrNotFound)
	}
	t.ArchivedAt = &at
	cp := *t
	return &cp, nil
}

func (m *mockStore) RestoreTask(_ context.Context, id string) (*task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.find(id)
	if t == nil || t.Active() {
		return nil, fmt.Errorf("restore task %s: %w", id, domain.ErrNotFound)
	}
	t.ArchivedAt = nil
	cp := *t
	return &cp, nil
}

func (m *mockStore) ArchiveExpired(_ context.Context, cutoff, at time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for i := range m.tasks {
		t := &m.tasks[i]
		if t.Completed && t.CompletedAt != nil && t.CompletedAt.Before(cutoff) && t.Active() {
			t.ArchivedAt = &at
			n++
		}
	}
	return n, nil
}

func (m *mockStore) UnarchiveIncomplete(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for i := range m.tasks {
		t := &m.tasks[i]
		if !t.Completed && t.ArchivedAt != nil {
			t.ArchivedAt = nil
			n++
		}
	}
	return n, nil
}

// mockCache implements cache.Cache in memory.
type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (c *mockCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *mockCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *mockCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

// mockSettings implements settings.Store in memory.
type mockSettings struct {
	mu   sync.Mutex
	data map[string]json.RawMessage
}

func newMockSettings() *mockSettings {
	return &mockSettings{data: make(map[string]json.RawMessage)}
}

func (s *mockSettings) ListSettings(_ context.Context) ([]settings.Setting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []settings.Setting
	for k, v := range s.data {
		out = append(out, settings.Setting{Key: k, Value: v})
	}
	return out, nil
}

func (s *mockSettings) GetSetting(_ context.Context, key string) (*settings.Setting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, fmt.Errorf("get setting %s: %w", key, domain.ErrNotFound)
	}
	return &settings.Setting{Key: key, Value: v}, nil
}

func (s *mockSettings) UpsertSetting(_ context.Context, key string, value json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *mockSettings) DeleteSetting(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func testMetrics() *otel.Metrics {
	m, err := otel.NewMetrics()
	if err != nil {
		panic(err)
	}
	return m
}
