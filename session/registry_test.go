// SPDX-License-Identifier: MIT

package session_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/uncertain/session"
)

const (
	protoDisplay session.Protocol = "test.display"
	protoOther   session.Protocol = "test.other"
)

type displayPolicy struct{ Digits int }

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestCurrent_Unknown(t *testing.T) {
	t.Parallel()

	reg := session.NewRegistry()
	_, err := reg.Current(context.Background(), protoDisplay)
	assert.ErrorIs(t, err, session.ErrUnknownProtocol)
}

func TestCurrent_ResolutionOrder(t *testing.T) {
	t.Parallel()

	reg := session.NewRegistry()
	g, err := reg.SetDefault(protoDisplay, displayPolicy{Digits: 2})
	require.NoError(t, err)
	defer func() { require.NoError(t, g.Release()) }()

	// Without a scope the default wins.
	p, err := session.Lookup[displayPolicy](context.Background(), reg, protoDisplay)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Digits)

	// A scope entry shadows the default.
	scope := reg.NewScope()
	sg, err := scope.Activate(protoDisplay, displayPolicy{Digits: 5})
	require.NoError(t, err)
	ctx := session.WithScope(context.Background(), scope)
	p, err = session.Lookup[displayPolicy](ctx, reg, protoDisplay)
	require.NoError(t, err)
	assert.Equal(t, 5, p.Digits)

	// A scope without an entry for the protocol falls through to the default.
	_, err = reg.Current(ctx, protoOther)
	assert.ErrorIs(t, err, session.ErrUnknownProtocol)

	require.NoError(t, sg.Release())
	p, err = session.Lookup[displayPolicy](ctx, reg, protoDisplay)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Digits)
}

func TestLookup_WrongType(t *testing.T) {
	t.Parallel()

	reg := session.NewRegistry()
	g, err := reg.SetDefault(protoDisplay, "not a policy")
	require.NoError(t, err)
	defer g.Release() //nolint:errcheck

	_, err = session.Lookup[displayPolicy](context.Background(), reg, protoDisplay)
	assert.ErrorIs(t, err, session.ErrPolicyType)
}

// TestRelease_StackDiscipline releases a non-top entry and checks the stack is intact.
func TestRelease_StackDiscipline(t *testing.T) {
	t.Parallel()

	reg := session.NewRegistry()
	scope := reg.NewScope()
	outer, err := scope.Activate(protoDisplay, displayPolicy{Digits: 1})
	require.NoError(t, err)
	inner, err := scope.Activate(protoDisplay, displayPolicy{Digits: 2})
	require.NoError(t, err)

	err = outer.Release()
	assert.ErrorIs(t, err, session.ErrStackDiscipline)
	assert.Equal(t, 2, scope.Depth(protoDisplay), "stack must be unchanged")

	ctx := session.WithScope(context.Background(), scope)
	p, err := session.Lookup[displayPolicy](ctx, reg, protoDisplay)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Digits, "top must still be the inner entry")

	require.NoError(t, inner.Release())
	require.NoError(t, outer.Release(), "outer becomes releasable once it is on top")
	assert.Equal(t, 0, scope.Depth(protoDisplay))

	assert.ErrorIs(t, outer.Release(), session.ErrReleased)
}

func TestSetDefault_StackDiscipline(t *testing.T) {
	t.Parallel()

	reg := session.NewRegistry()
	a, err := reg.SetDefault(protoDisplay, displayPolicy{Digits: 1})
	require.NoError(t, err)
	b, err := reg.SetDefault(protoDisplay, displayPolicy{Digits: 2})
	require.NoError(t, err)

	assert.ErrorIs(t, a.Release(), session.ErrStackDiscipline)
	assert.Equal(t, 2, reg.DefaultDepth(protoDisplay))
	require.NoError(t, b.Release())
	require.NoError(t, a.Release())
	assert.Equal(t, 0, reg.DefaultDepth(protoDisplay))
}

func TestNilPolicy(t *testing.T) {
	t.Parallel()

	reg := session.NewRegistry()
	_, err := reg.SetDefault(protoDisplay, nil)
	assert.ErrorIs(t, err, session.ErrNilPolicy)
	_, err = reg.NewScope().Activate(protoDisplay, nil)
	assert.ErrorIs(t, err, session.ErrNilPolicy)
}

func TestScopeFrom(t *testing.T) {
	t.Parallel()

	_, ok := session.ScopeFrom(context.Background())
	assert.False(t, ok)

	scope := session.NewRegistry().NewScope()
	got, ok := session.ScopeFrom(session.WithScope(context.Background(), scope))
	require.True(t, ok)
	assert.Equal(t, scope.ID(), got.ID())
}

// TestScopes_Independent activates policies on separate scopes from many
// goroutines; each goroutine must only ever observe its own policy.
func TestScopes_Independent(t *testing.T) {
	t.Parallel()

	reg := session.NewRegistry()
	const workers = 16
	errs := make([]error, workers)
	got := make([]int, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			scope := reg.NewScope()
			g, err := scope.Activate(protoDisplay, displayPolicy{Digits: w})
			if err != nil {
				errs[w] = err
				return
			}
			ctx := session.WithScope(context.Background(), scope)
			p, err := session.Lookup[displayPolicy](ctx, reg, protoDisplay)
			if err != nil {
				errs[w] = err
				return
			}
			got[w] = p.Digits
			errs[w] = g.Release()
		}(w)
	}
	wg.Wait()

	for w := 0; w < workers; w++ {
		require.NoError(t, errs[w])
		assert.Equal(t, w, got[w])
	}
}

func TestWithLogger_DebugEvents(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	reg := session.NewRegistry(session.WithLogger(zap.New(core)))
	g, err := reg.SetDefault(protoDisplay, displayPolicy{Digits: 1})
	require.NoError(t, err)
	require.NoError(t, g.Release())

	assert.Equal(t, 1, logs.FilterMessage("default pushed").Len())
	assert.Equal(t, 1, logs.FilterMessage("policy released").Len())
}
