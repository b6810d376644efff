// SPDX-License-Identifier: MIT
// Package: session
//
// Purpose:
//   - Hold per-protocol policy stacks for a registry (defaults) and for
//     explicit scopes, with push/pop under strict stack discipline.
//
// Concurrency:
//   - Each stack set (registry defaults, every Scope) owns its own mutex.
//   - Current locks the scope, then (separately) the registry; locks are never nested.

package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	opSetDefault = "SetDefault"
	opActivate   = "Activate"
	opRelease    = "Release"
	opCurrent    = "Current"
	opLookup     = "Lookup"
)

// Protocol names a policy slot, e.g. "uncertain.weighting".
type Protocol string

// entry is one pushed policy; pointer identity marks stack position ownership.
type entry struct {
	policy any
	id     uuid.UUID
}

// stacks is a mutex-guarded set of per-protocol stacks.
type stacks struct {
	mu  sync.Mutex
	byP map[Protocol][]*entry
}

func newStacks() *stacks {
	return &stacks{byP: make(map[Protocol][]*entry)}
}

func (s *stacks) push(p Protocol, e *entry) {
	s.mu.Lock()
	s.byP[p] = append(s.byP[p], e)
	s.mu.Unlock()
}

// pop removes e only when it is the top of p's stack.
func (s *stacks) pop(p Protocol, e *entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.byP[p]
	if len(st) == 0 || st[len(st)-1] != e {
		return ErrStackDiscipline
	}
	st[len(st)-1] = nil
	if len(st) == 1 {
		delete(s.byP, p)
	} else {
		s.byP[p] = st[:len(st)-1]
	}

	return nil
}

func (s *stacks) top(p Protocol) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.byP[p]
	if len(st) == 0 {
		return nil, false
	}

	return st[len(st)-1].policy, true
}

func (s *stacks) depth(p Protocol) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.byP[p])
}

// Registry owns the default policy stacks and creates Scopes.
// The zero value is not usable; construct with NewRegistry.
type Registry struct {
	defaults *stacks
	logger   *zap.Logger
}

// NewRegistry returns an empty Registry.
func NewRegistry(opts ...Option) *Registry {
	o := gatherOptions(opts...)

	return &Registry{defaults: newStacks(), logger: o.logger}
}

// SetDefault pushes policy as the registry-wide default for p.
// The returned Guard must be released in reverse push order.
// Errors: ErrNilPolicy.
func (r *Registry) SetDefault(p Protocol, policy any) (*Guard, error) {
	if policy == nil {
		return nil, sessionErrorf(opSetDefault, p, ErrNilPolicy)
	}
	e := &entry{policy: policy, id: uuid.New()}
	r.defaults.push(p, e)
	r.logger.Debug("default pushed",
		zap.String("protocol", string(p)),
		zap.Stringer("entry", e.id),
	)

	return &Guard{owner: r.defaults, protocol: p, e: e, logger: r.logger}, nil
}

// DefaultDepth reports how many defaults are stacked for p.
func (r *Registry) DefaultDepth(p Protocol) int { return r.defaults.depth(p) }

// NewScope returns an empty Scope bound to r's logger.
func (r *Registry) NewScope() *Scope {
	return &Scope{id: uuid.New(), st: newStacks(), logger: r.logger}
}

// Current resolves the active policy for p.
//
// Implementation:
//   - Stage 1: if ctx carries a Scope with an entry for p, return its top.
//   - Stage 2: else return the top of the registry default stack.
//   - Stage 3: else fail with ErrUnknownProtocol.
func (r *Registry) Current(ctx context.Context, p Protocol) (any, error) {
	if s, ok := ScopeFrom(ctx); ok {
		if pol, ok := s.st.top(p); ok {
			return pol, nil
		}
	}
	if pol, ok := r.defaults.top(p); ok {
		return pol, nil
	}

	return nil, sessionErrorf(opCurrent, p, ErrUnknownProtocol)
}

// Lookup resolves p through r.Current and asserts the policy type.
// Errors: ErrUnknownProtocol, ErrPolicyType.
func Lookup[T any](ctx context.Context, r *Registry, p Protocol) (T, error) {
	var zero T
	pol, err := r.Current(ctx, p)
	if err != nil {
		return zero, err
	}
	typed, ok := pol.(T)
	if !ok {
		return zero, sessionErrorf(opLookup, p, ErrPolicyType)
	}

	return typed, nil
}

// Scope is an explicit, context-carried set of policy stacks. A Scope may be
// shared between goroutines; its stacks are guarded by its own mutex.
type Scope struct {
	id     uuid.UUID
	st     *stacks
	logger *zap.Logger
}

// ID returns the scope's identity, used in diagnostics.
func (s *Scope) ID() uuid.UUID { return s.id }

// Activate pushes policy for p onto this scope.
// Errors: ErrNilPolicy.
func (s *Scope) Activate(p Protocol, policy any) (*Guard, error) {
	if policy == nil {
		return nil, sessionErrorf(opActivate, p, ErrNilPolicy)
	}
	e := &entry{policy: policy, id: uuid.New()}
	s.st.push(p, e)
	s.logger.Debug("scope policy activated",
		zap.Stringer("scope", s.id),
		zap.String("protocol", string(p)),
		zap.Stringer("entry", e.id),
	)

	return &Guard{owner: s.st, protocol: p, e: e, logger: s.logger}, nil
}

// Depth reports how many policies are stacked for p in this scope.
func (s *Scope) Depth(p Protocol) int { return s.st.depth(p) }

// Guard releases exactly one pushed policy.
type Guard struct {
	mu       sync.Mutex
	owner    *stacks
	protocol Protocol
	e        *entry
	released bool
	logger   *zap.Logger
}

// Release pops the guarded entry.
// Errors:
//   - ErrStackDiscipline when the entry is not on top; nothing is popped and
//     the Guard stays releasable once the entries above it are gone.
//   - ErrReleased on a second successful release.
func (g *Guard) Release() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.released {
		return sessionErrorf(opRelease, g.protocol, ErrReleased)
	}
	if err := g.owner.pop(g.protocol, g.e); err != nil {
		g.logger.Debug("out-of-order release rejected",
			zap.String("protocol", string(g.protocol)),
			zap.Stringer("entry", g.e.id),
		)
		return sessionErrorf(opRelease, g.protocol, err)
	}
	g.released = true
	g.logger.Debug("policy released",
		zap.String("protocol", string(g.protocol)),
		zap.Stringer("entry", g.e.id),
	)

	return nil
}

// Policy returns the guarded policy value.
func (g *Guard) Policy() any { return g.e.policy }

type scopeKey struct{}

// WithScope returns a copy of ctx carrying s.
func WithScope(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

// ScopeFrom returns the Scope carried by ctx, if any.
func ScopeFrom(ctx context.Context) (*Scope, bool) {
	if ctx == nil {
		return nil, false
	}
	s, ok := ctx.Value(scopeKey{}).(*Scope)

	return s, ok && s != nil
}
