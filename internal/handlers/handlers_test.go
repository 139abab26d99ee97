package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndLookup(t *testing.T) {
	t.Parallel()

	r := New()
	r.Register("echo", func(ctx context.Context, payload any) (any, error) {
		return payload, nil
	})

	fn, ok := r.Lookup("echo")
	require.True(t, ok)
	out, err := fn(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)

	_, ok = r.Lookup("missing")
	assert.False(t, ok)
}

func TestRegistry_DuplicateRegistrationPanics(t *testing.T) {
	t.Parallel()

	r := New()
	noop := func(ctx context.Context, payload any) (any, error) { return nil, nil }
	r.Register("echo", noop)

	require.PanicsWithValue(t, "handler with name 'echo' already registered", func() {
		r.Register("echo", noop)
	})
}

func TestRegistry_NamesAreSorted(t *testing.T) {
	t.Parallel()

	r := New()
	noop := func(ctx context.Context, payload any) (any, error) { return nil, nil }
	r.Register("zeta", noop)
	r.Register("alpha", noop)
	r.Register("mid", noop)

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, r.Names())
	assert.Equal(t, 3, r.Len())
}
