package identity

import (
	"context"
	"testing"
	"time"
)

func TestTokenVerifier_RoundTrip(t *testing.T) {
	verifier := NewTokenVerifier([]byte("test-secret"))

	token, err := verifier.Issue(Actor{ID: "admin-1", Authorized: true}, time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	actor, err := verifier.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if actor.ID != "admin-1" || !actor.Authorized {
		t.Fatalf("unexpected actor: %+v", actor)
	}
}

func TestTokenVerifier_RejectsWrongSecret(t *testing.T) {
	token, err := NewTokenVerifier([]byte("secret-a")).Issue(Actor{ID: "x", Authorized: true}, time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := NewTokenVerifier([]byte("secret-b")).Verify(token); err == nil {
		t.Fatalf("expected verification failure")
	}
}

func TestTokenVerifier_RejectsExpired(t *testing.T) {
	verifier := NewTokenVerifier([]byte("test-secret"))
	token, err := verifier.Issue(Actor{ID: "x", Authorized: true}, -time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := verifier.Verify(token); err == nil {
		t.Fatalf("expected expiry failure")
	}
}

func TestContextProvider(t *testing.T) {
	provider := ContextProvider{}

	if actor := provider.CurrentActor(context.Background()); actor.Authorized {
		t.Fatalf("bare context must resolve to an unauthorised actor")
	}

	ctx := WithActor(context.Background(), Actor{ID: "admin", Authorized: true})
	if actor := provider.CurrentActor(ctx); !actor.Authorized || actor.ID != "admin" {
		t.Fatalf("unexpected actor: %+v", actor)
	}
}
