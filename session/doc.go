// Package session scopes default policies ("protocols") without ambient state.
//
// A protocol is a named slot, e.g. the default weighting used by aggregation
// or the default display policy used by formatting. Policies are pushed on
// stacks with strict scoped acquisition:
//
//   - Registry.SetDefault pushes onto the registry-wide default stack.
//   - Scope.Activate pushes onto a scope-local stack; a Scope travels
//     explicitly through context.Context (WithScope / ScopeFrom).
//   - Both return a *Guard; Guard.Release pops the entry and fails with
//     ErrStackDiscipline, leaving the stack untouched, when the entry is not
//     the top of its stack.
//
// Resolution order for Registry.Current(ctx, p): top of the scope stack
// carried by ctx, else top of the registry default stack, else
// ErrUnknownProtocol. Lookups never block beyond mutex contention.
//
// Usage:
//
//	reg := session.NewRegistry()
//	scope := reg.NewScope()
//	g, _ := scope.Activate(format.Protocol, format.Policy{Digits: 3})
//	defer g.Release()
//	ctx := session.WithScope(context.Background(), scope)
//	p, err := session.Lookup[format.Policy](ctx, reg, format.Protocol)
package session
