package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepare_ResolvesOneEntryPerIdentifier(t *testing.T) {
	t.Parallel()

	c := NewConfigurable("api", nil)
	a := act(c, nil, "a", "route:/x", 0)
	b := act(c, nil, "b", "route:/y", 0)
	b.discs = []Key{"name:listing"}
	c.add(a, "ta", 0)
	c.add(b, "tb", 1)

	require.NoError(t, c.Prepare())

	resolved, err := c.Resolved()
	require.NoError(t, err)
	require.Len(t, resolved, 2)
	assert.Same(t, a, resolved["route:/x"].Action.(*testAction))
	assert.Same(t, b, resolved["route:/y"].Action.(*testAction))
	assert.Equal(t, "ta", resolved["route:/x"].Target)
}

func TestPrepare_ConflictsWithinOneConfigurable(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		setup func(c *Configurable) (first, second *testAction)
		key   Key
	}{
		{
			name: "identifier vs identifier",
			setup: func(c *Configurable) (*testAction, *testAction) {
				return act(c, nil, "A1", "route:/x", 0), act(c, nil, "A2", "route:/x", 0)
			},
			key: "route:/x",
		},
		{
			name: "discriminator vs identifier",
			setup: func(c *Configurable) (*testAction, *testAction) {
				a := act(c, nil, "A1", "route:/x", 0)
				b := act(c, nil, "A2", "route:/y", 0)
				b.discs = []Key{"route:/x"}
				return a, b
			},
			key: "route:/x",
		},
		{
			name: "discriminator vs discriminator",
			setup: func(c *Configurable) (*testAction, *testAction) {
				a := act(c, nil, "A1", "route:/x", 0)
				a.discs = []Key{"name:shared"}
				b := act(c, nil, "A2", "route:/y", 0)
				b.discs = []Key{"name:shared"}
				return a, b
			},
			key: "name:shared",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c := NewConfigurable("api", nil)
			first, second := tc.setup(c)
			c.add(first, nil, 0)
			c.add(second, nil, 1)

			err := c.Prepare()
			require.Error(t, err)

			var conflict *ConflictError
			require.ErrorAs(t, err, &conflict)
			assert.Same(t, c, conflict.Configurable)
			assert.Equal(t, tc.key, conflict.Key)
			require.Len(t, conflict.Actions, 2)
			assert.Same(t, first, conflict.Actions[0].(*testAction))
			assert.Same(t, second, conflict.Actions[1].(*testAction))
			assert.Contains(t, err.Error(), "A1")
			assert.Contains(t, err.Error(), "A2")
		})
	}
}

func TestPrepare_ChildOverridesParent(t *testing.T) {
	t.Parallel()

	parent := NewConfigurable("base", nil)
	child := NewConfigurable("admin", nil, parent)

	b1 := act(parent, nil, "B1", "x", 0)
	c1 := act(child, nil, "C1", "x", 0)
	parent.add(b1, nil, 0)
	child.add(c1, nil, 1)

	require.NoError(t, parent.Prepare())
	require.NoError(t, child.Prepare())

	resolved, err := child.Resolved()
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Same(t, c1, resolved["x"].Action.(*testAction), "the extending configurable's own action must win")
}

func TestPrepare_DiamondEarlierParentWins(t *testing.T) {
	t.Parallel()

	base := NewConfigurable("base", nil)
	p1 := NewConfigurable("p1", nil, base)
	p2 := NewConfigurable("p2", nil, base)
	child := NewConfigurable("child", nil, p1, p2)

	fromP1 := act(p1, nil, "P1", "k", 0)
	fromP2 := act(p2, nil, "P2", "k", 0)
	p1.add(fromP1, nil, 0)
	p2.add(fromP2, nil, 1)

	for _, c := range []*Configurable{base, p1, p2, child} {
		require.NoError(t, c.Prepare())
	}

	resolved, err := child.Resolved()
	require.NoError(t, err)
	assert.Same(t, fromP1, resolved["k"].Action.(*testAction), "the earlier-listed parent must win")
}

func TestPrepare_OverrideAcrossExtendsIsNotAConflict(t *testing.T) {
	t.Parallel()

	parent := NewConfigurable("base", nil)
	child := NewConfigurable("admin", nil, parent)

	own := act(parent, nil, "B", "x", 0)
	own.discs = []Key{"extra"}
	override := act(child, nil, "C", "x", 0)
	override.discs = []Key{"extra"}
	parent.add(own, nil, 0)
	child.add(override, nil, 1)

	require.NoError(t, parent.Prepare())
	require.NoError(t, child.Prepare(), "sharing keys across an extends edge is an override, not a conflict")
}

func TestPrepare_RequiresPreparedParents(t *testing.T) {
	t.Parallel()

	parent := NewConfigurable("base", nil)
	child := NewConfigurable("admin", nil, parent)

	err := child.Prepare()
	require.ErrorIs(t, err, ErrNotPrepared)
	assert.Contains(t, err.Error(), `"base"`)
	assert.False(t, child.Prepared())
}

func TestPrepare_RederivesFromScratch(t *testing.T) {
	t.Parallel()

	c := NewConfigurable("api", nil)
	c.add(act(c, nil, "a", "x", 0), nil, 0)

	require.NoError(t, c.Prepare())
	require.NoError(t, c.Prepare(), "prepare must be idempotent for the same raw actions")

	resolved, err := c.Resolved()
	require.NoError(t, err)
	assert.Len(t, resolved, 1, "re-preparing must not duplicate entries")

	// The conflict scan runs again on every call.
	c.add(act(c, nil, "b", "x", 0), nil, 1)
	err = c.Prepare()
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.False(t, c.Prepared())
}

func TestApply_HigherPriorityFirst(t *testing.T) {
	t.Parallel()

	log := &applyLog{}
	c := NewConfigurable("api", nil)
	c.add(act(c, log, "A", "a", 5), "t", 0)
	c.add(act(c, log, "B", "b", 10), "t", 1)

	require.NoError(t, c.Prepare())
	require.NoError(t, c.Apply())

	assert.Equal(t, []string{"B@api->t", "A@api->t"}, log.entries)
}

func TestApply_RegistrationOrderBreaksPriorityTies(t *testing.T) {
	t.Parallel()

	log := &applyLog{}
	c := NewConfigurable("api", nil)
	c.add(act(c, log, "A", "a", 0), "t", 5)
	c.add(act(c, log, "B", "b", 0), "t", 2)

	require.NoError(t, c.Prepare())
	require.NoError(t, c.Apply())

	assert.Equal(t, []string{"B@api->t", "A@api->t"}, log.entries)
}

func TestApply_InheritedActionsRunAgainstTheChild(t *testing.T) {
	t.Parallel()

	log := &applyLog{}
	parent := NewConfigurable("base", nil)
	child := NewConfigurable("admin", nil, parent)
	parent.add(act(parent, log, "B", "x", 0), "t", 0)

	require.NoError(t, parent.Prepare())
	require.NoError(t, child.Prepare())
	require.NoError(t, child.Apply())

	assert.Equal(t, []string{"B@admin->t"}, log.entries,
		"an inherited action applies with the extending configurable as host")
}

func TestApply_FirstErrorAbortsRemainder(t *testing.T) {
	t.Parallel()

	log := &applyLog{}
	boom := errors.New("boom")
	c := NewConfigurable("api", nil)
	failing := act(c, log, "F", "f", 10)
	failing.fail = boom
	c.add(failing, nil, 0)
	c.add(act(c, log, "A", "a", 0), nil, 1)

	require.NoError(t, c.Prepare())
	err := c.Apply()
	require.ErrorIs(t, err, boom, "action errors must propagate unmodified")
	assert.Empty(t, log.entries)
}

func TestResolvedAndApply_FailBeforePrepare(t *testing.T) {
	t.Parallel()

	c := NewConfigurable("api", nil)
	c.add(act(c, nil, "a", "x", 0), nil, 0)

	_, err := c.Resolved()
	require.ErrorIs(t, err, ErrNotPrepared)
	_, err = c.Actions()
	require.ErrorIs(t, err, ErrNotPrepared)
	require.ErrorIs(t, c.Apply(), ErrNotPrepared)
}

type resettableHost struct {
	resets int
}

func (h *resettableHost) Reset() { h.resets++ }

func TestClear_DropsStateAndResetsHost(t *testing.T) {
	t.Parallel()

	host := &resettableHost{}
	c := NewConfigurable("api", host)
	c.add(act(c, nil, "a", "x", 0), nil, 0)
	require.NoError(t, c.Prepare())

	c.Clear()
	assert.Equal(t, 1, host.resets)
	assert.False(t, c.Prepared())
	_, err := c.Resolved()
	require.ErrorIs(t, err, ErrNotPrepared)

	// Clear is idempotent.
	c.Clear()
	assert.Equal(t, 2, host.resets)

	// After clearing, prepare starts from empty raw actions.
	require.NoError(t, c.Prepare())
	resolved, err := c.Resolved()
	require.NoError(t, err)
	assert.Empty(t, resolved)
}

func TestConflictError_NamesBothActions(t *testing.T) {
	t.Parallel()

	c := NewConfigurable("api", nil)
	err := &ConflictError{
		Configurable: c,
		Key:          "route:/x",
		Actions:      []Action{act(c, nil, "A1", "route:/x", 0), act(c, nil, "A2", "route:/x", 0)},
	}

	msg := err.Error()
	assert.Contains(t, msg, `"api"`)
	assert.Contains(t, msg, "route:/x")
	assert.Contains(t, msg, "A1 and A2")
}
