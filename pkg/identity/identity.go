// Package identity abstracts the session provider that decides whether the
// current actor may edit form definitions. The registrant-facing rendering
// and submission paths never consult it.
package identity

import "context"

// Actor describes the current session's principal.
type Actor struct {
	ID string
	// Authorized reports whether the actor may run authoring operations.
	Authorized bool
}

// Provider resolves the actor for the current call.
type Provider interface {
	CurrentActor(ctx context.Context) Actor
}

// Static always reports the same actor. Useful for tests and single-user
// tooling such as the CLI.
type Static struct {
	Actor Actor
}

func (s Static) CurrentActor(context.Context) Actor {
	return s.Actor
}

// Authorized returns a provider whose actor may edit definitions.
func Authorized(id string) Static {
	return Static{Actor: Actor{ID: id, Authorized: true}}
}

// Anonymous returns a provider with no authoring rights.
func Anonymous() Static {
	return Static{}
}

type contextKey struct{}

// WithActor stores an actor on the context, typically done by transport
// middleware after verifying credentials.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, contextKey{}, actor)
}

// FromContext retrieves the actor stored by WithActor.
func FromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(contextKey{}).(Actor)
	return actor, ok
}

// ContextProvider resolves actors from the request context. Requests whose
// context carries no actor resolve to an unauthorised one.
type ContextProvider struct{}

func (ContextProvider) CurrentActor(ctx context.Context) Actor {
	actor, _ := FromContext(ctx)
	return actor
}
