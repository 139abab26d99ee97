package testutil

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dirigo/dirigent/internal/handlers"
)

// RecorderModule is a shared, self-contained module for binding tests. It
// records every invocation of the handlers it registers, which lets tests
// prove that committing a workspace binds routes without ever calling them.
type RecorderModule struct {
	names []string

	mu    sync.Mutex
	calls []InvocationRecord
}

// NewRecorderModule creates a recorder that registers the given handler names.
func NewRecorderModule(names ...string) *RecorderModule {
	return &RecorderModule{names: names}
}

// Register registers one recording handler per name. Each handler echoes its
// payload back, so tests that do invoke a binding can assert on the result.
func (m *RecorderModule) Register(r *handlers.Registry) {
	for _, name := range m.names {
		r.Register(name, func(_ context.Context, payload any) (any, error) {
			m.mu.Lock()
			m.calls = append(m.calls, InvocationRecord{Handler: name, Payload: payload, At: time.Now()})
			m.mu.Unlock()
			return payload, nil
		})
	}
}

// Calls returns the recorded invocations in call order.
func (m *RecorderModule) Calls() []InvocationRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.calls)
}
