package app

import (
	"testing"

	"quiz-game-client/internal/domain"
)

func TestRosterReplaceIsWholesale(t *testing.T) {
	r := newRoster()
	r.replace([]domain.Player{
		{ID: "u1", Name: "Alice", IsHost: true},
		{ID: "u2", Name: "Bob"},
	})
	r.replace([]domain.Player{
		{ID: "u2", Name: "Bob"},
		{ID: "u3", Name: "Cara"},
	})

	players := r.list()
	if len(players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(players))
	}
	if players[0].ID != "u2" || players[1].ID != "u3" {
		t.Fatalf("expected roster to equal last broadcast, got %+v", players)
	}
	if r.name("u1") != "" {
		t.Fatalf("expected u1 gone after replace")
	}
}

func TestRosterCollapsesDuplicateIDs(t *testing.T) {
	r := newRoster()
	r.replace([]domain.Player{
		{ID: "u1", Name: "Alice"},
		{ID: "u1", Name: "Alice-dup"},
		{ID: "u2", Name: "Bob"},
	})

	if r.size() != 2 {
		t.Fatalf("expected duplicates collapsed, got %d entries", r.size())
	}
	if r.name("u1") != "Alice" {
		t.Fatalf("expected first occurrence to win, got %q", r.name("u1"))
	}
}
