package mocks

import (
	"context"
	"errors"
	"sync"

	"github.com/EthanNaitwe/KampalaGrocery/internal/infrastructure/storage/sheets"
)

// MockRowAPI implements sheets.RowAPI in memory for testing. Each Func
// field overrides the default behavior; the defaults act as a faithful
// little tabular backend (header-per-table, string cells, offset-based
// mutation), so the Sheets store can be exercised without a network.
type MockRowAPI struct {
	EnsureTableFunc func(ctx context.Context, table string, header []string) error
	RowsFunc        func(ctx context.Context, table string) ([][]string, error)
	AppendFunc      func(ctx context.Context, table string, row []string) error
	UpdateFunc      func(ctx context.Context, table string, index int, row []string) error
	DeleteFunc      func(ctx context.Context, table string, index int) error

	mu     sync.Mutex
	tables map[string][][]string
}

// NewMockRowAPI creates an empty in-memory tabular backend.
func NewMockRowAPI() *MockRowAPI {
	return &MockRowAPI{tables: map[string][][]string{}}
}

// ErrRowAPIDown is the failure injected by NewFailingRowAPI.
var ErrRowAPIDown = errors.New("row api unavailable")

// NewFailingRowAPI creates a RowAPI whose every operation fails, for
// exercising fallback paths.
func NewFailingRowAPI() *MockRowAPI {
	m := NewMockRowAPI()
	m.EnsureTableFunc = func(context.Context, string, []string) error { return ErrRowAPIDown }
	m.RowsFunc = func(context.Context, string) ([][]string, error) { return nil, ErrRowAPIDown }
	m.AppendFunc = func(context.Context, string, []string) error { return ErrRowAPIDown }
	m.UpdateFunc = func(context.Context, string, int, []string) error { return ErrRowAPIDown }
	m.DeleteFunc = func(context.Context, string, int) error { return ErrRowAPIDown }
	return m
}

func (m *MockRowAPI) EnsureTable(ctx context.Context, table string, header []string) error {
	if m.EnsureTableFunc != nil {
		return m.EnsureTableFunc(ctx, table, header)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tables[table]; !ok {
		m.tables[table] = [][]string{}
	}
	return nil
}

func (m *MockRowAPI) Rows(ctx context.Context, table string) ([][]string, error) {
	if m.RowsFunc != nil {
		return m.RowsFunc(ctx, table)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.tables[table]
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}

func (m *MockRowAPI) Append(ctx context.Context, table string, row []string) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, table, row)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table] = append(m.tables[table], append([]string(nil), row...))
	return nil
}

func (m *MockRowAPI) Update(ctx context.Context, table string, index int, row []string) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, table, index, row)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.tables[table]
	if index < 0 || index >= len(rows) {
		return errors.New("row index out of range")
	}
	rows[index] = append([]string(nil), row...)
	return nil
}

func (m *MockRowAPI) Delete(ctx context.Context, table string, index int) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, table, index)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.tables[table]
	if index < 0 || index >= len(rows) {
		return errors.New("row index out of range")
	}
	m.tables[table] = append(rows[:index], rows[index+1:]...)
	return nil
}

// Compile-time interface compliance verification
var _ sheets.RowAPI = (*MockRowAPI)(nil)
