package cli

import (
	"context"
	"fmt"
	"testing"

	"quiz-game-client/internal/domain"
)

// wrappingStore reports missing credentials the way a remote backend does,
// with the sentinel wrapped inside a transport error.
type wrappingStore struct{}

func (wrappingStore) Get(context.Context) (domain.Identity, error) {
	return domain.Identity{}, fmt.Errorf("redis get identity: %w", domain.ErrNoCredentials)
}
func (wrappingStore) Put(context.Context, domain.Identity) error { return nil }
func (wrappingStore) Clear(context.Context) error                { return nil }

func TestResolveIdentityGuestFallbackOnWrappedSentinel(t *testing.T) {
	id, err := resolveIdentity(context.Background(), wrappingStore{}, "Guest")
	if err != nil {
		t.Fatalf("expected guest fallback, got %v", err)
	}
	if id.DisplayName != "Guest" || id.Token != "" {
		t.Fatalf("unexpected guest identity: %+v", id)
	}
}

func TestResolveIdentityErrorsWithoutGuestName(t *testing.T) {
	if _, err := resolveIdentity(context.Background(), wrappingStore{}, ""); err == nil {
		t.Fatal("expected an error with no credentials and no guest name")
	}
}
