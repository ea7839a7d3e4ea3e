package llm

// #region imports
import (
	"context"
	"fmt"
	"sync"
)

// #endregion imports

// #region mock

// MockClient returns scripted completions in order, then repeats the last
// one. Used by tests and the replay harness.
type MockClient struct {
	mu      sync.Mutex
	scripts []Completion
	errs    []error
	calls   int

	// Requests records every request for assertion.
	Requests []Request
}

// NewMockClient creates a mock that cycles through the given completions.
func NewMockClient(scripts ...Completion) *MockClient {
	return &MockClient{scripts: scripts}
}

// FailWith makes the next call (and only that call) return err.
func (m *MockClient) FailWith(err error) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs = append(m.errs, err)
	return m
}

// Complete implements Client.
func (m *MockClient) Complete(_ context.Context, req Request) (Completion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Requests = append(m.Requests, req)
	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		return Completion{}, err
	}
	if len(m.scripts) == 0 {
		return Completion{}, fmt.Errorf("mock: no scripted completions")
	}
	idx := m.calls
	if idx >= len(m.scripts) {
		idx = len(m.scripts) - 1
	}
	m.calls++
	return m.scripts[idx], nil
}

// Calls returns how many completions were served.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// #endregion mock
