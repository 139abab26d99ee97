package testutil

import "github.com/dirigo/dirigent/internal/handlers"

// SimpleModule is a test helper for easily creating a mock module that
// registers a fixed set of named handlers.
type SimpleModule struct {
	Handlers map[string]handlers.Func
}

// Register implements the handlers.Module interface.
func (m *SimpleModule) Register(r *handlers.Registry) {
	for name, fn := range m.Handlers {
		r.Register(name, fn)
	}
}
