package registry

import (
	"context"
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestProperty_ApplyOrderIsDeterministic verifies the ordering law: apply
// runs descending priority, ascending registration order within a priority,
// and repeated commits replay the identical sequence.
func TestProperty_ApplyOrderIsDeterministic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		log := &applyLog{}
		c := NewConfigurable("api", nil)
		r := New()
		r.AddConfigurable(c)

		n := rapid.IntRange(1, 30).Draw(rt, "actions")
		type expectation struct {
			name     string
			priority int
			order    int
		}
		expected := make([]expectation, n)
		for i := 0; i < n; i++ {
			priority := rapid.IntRange(-3, 3).Draw(rt, fmt.Sprintf("priority-%d", i))
			name := fmt.Sprintf("a%d", i)
			r.Register(act(c, log, name, fmt.Sprintf("id-%d", i), priority), nil)
			expected[i] = expectation{name: name, priority: priority, order: i}
		}

		require.NoError(rt, r.Commit(context.Background()))
		first := append([]string(nil), log.entries...)

		// Higher priority first, then ascending registration order.
		slices.SortStableFunc(expected, func(a, b expectation) int {
			if a.priority != b.priority {
				return b.priority - a.priority
			}
			return a.order - b.order
		})
		want := make([]string, n)
		for i, e := range expected {
			want[i] = fmt.Sprintf("%s@api-><nil>", e.name)
		}
		require.Equal(rt, want, first)

		log.entries = nil
		require.NoError(rt, r.Commit(context.Background()))
		require.Equal(rt, first, log.entries, "second commit must replay the same sequence")
	})
}

// TestProperty_ChildAlwaysWinsOverrides verifies the override law for
// arbitrary overlaps between a configurable and the one it extends.
func TestProperty_ChildAlwaysWinsOverrides(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		parent := NewConfigurable("base", nil)
		child := NewConfigurable("admin", nil, parent)
		r := New()
		r.AddConfigurable(child)

		parentIDs := rapid.SliceOfNDistinct(rapid.IntRange(0, 15), 1, 10, rapid.ID).Draw(rt, "parentIDs")
		childIDs := rapid.SliceOfNDistinct(rapid.IntRange(0, 15), 1, 10, rapid.ID).Draw(rt, "childIDs")

		parentActs := make(map[int]*testAction, len(parentIDs))
		for _, id := range parentIDs {
			a := act(parent, nil, fmt.Sprintf("p%d", id), fmt.Sprintf("id-%d", id), 0)
			parentActs[id] = a
			r.Register(a, nil)
		}
		childActs := make(map[int]*testAction, len(childIDs))
		for _, id := range childIDs {
			a := act(child, nil, fmt.Sprintf("c%d", id), fmt.Sprintf("id-%d", id), 0)
			childActs[id] = a
			r.Register(a, nil)
		}

		require.NoError(rt, r.Commit(context.Background()))

		resolved, err := child.Resolved()
		require.NoError(rt, err)

		ids := make(map[int]struct{}, len(parentIDs)+len(childIDs))
		for _, id := range parentIDs {
			ids[id] = struct{}{}
		}
		for _, id := range childIDs {
			ids[id] = struct{}{}
		}
		require.Len(rt, resolved, len(ids), "one resolved entry per distinct identifier")

		for id := range ids {
			got := resolved[fmt.Sprintf("id-%d", id)].Action.(*testAction)
			if own, ok := childActs[id]; ok {
				require.Same(rt, own, got, "the child's action must win for id-%d", id)
			} else {
				require.Same(rt, parentActs[id], got)
			}
		}
	})
}
