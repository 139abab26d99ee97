package registry

import "fmt"

// testAction is the action used across the package tests. Its identifier is
// a plain string key, extra discriminators are optional, and every Apply is
// recorded on a shared log so tests can assert ordering.
type testAction struct {
	Base
	name  string
	id    string
	discs []Key
	fail  error
	log   *applyLog
}

func (a *testAction) Identifier() Key       { return a.id }
func (a *testAction) Discriminators() []Key { return a.discs }
func (a *testAction) String() string        { return a.name }

func (a *testAction) Apply(host *Configurable, target any) error {
	if a.fail != nil {
		return a.fail
	}
	if a.log != nil {
		a.log.record(fmt.Sprintf("%s@%s->%v", a.name, host.Name(), target))
	}
	return nil
}

// fanAction expands into a fixed set of registrations instead of itself.
type fanAction struct {
	testAction
	out []Registration
	err error
}

func (a *fanAction) Expand(target any) ([]Registration, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.out, nil
}

type applyLog struct {
	entries []string
}

func (l *applyLog) record(s string) { l.entries = append(l.entries, s) }

// act builds a plain test action owned by c.
func act(c *Configurable, log *applyLog, name, id string, priority int) *testAction {
	return &testAction{
		Base: NewBase(c, priority),
		name: name,
		id:   id,
		log:  log,
	}
}
