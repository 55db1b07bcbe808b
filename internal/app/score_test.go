package app

import (
	"testing"

	"quiz-game-client/internal/domain"
)

func noName(string) string { return "" }

func TestScoreAccumulatesSelfPoints(t *testing.T) {
	b := newScoreboard("me")

	results := []domain.QuestionResult{
		{PlayerResults: []domain.PlayerResult{{UserID: "me", Points: 100}}},
		{PlayerResults: []domain.PlayerResult{{UserID: "other", Points: 50}}}, // self missing: zero
		{PlayerResults: []domain.PlayerResult{{UserID: "me", Points: 80}}},
	}
	for _, res := range results {
		b.apply(res, noName)
	}

	if b.total != 180 {
		t.Fatalf("expected cumulative 180, got %d", b.total)
	}
}

func TestLeaderboardTieBreakFirstSeenWins(t *testing.T) {
	b := newScoreboard("me")

	b.replaceBoard([]domain.LeaderboardEntry{
		{PlayerID: "a", DisplayName: "A", Score: 5},
		{PlayerID: "b", DisplayName: "B", Score: 5},
	}, noName)

	// Later snapshot arrives with the tied players swapped; the ranking must
	// stay deterministic with the earlier-seen player first.
	b.replaceBoard([]domain.LeaderboardEntry{
		{PlayerID: "b", DisplayName: "B", Score: 7},
		{PlayerID: "a", DisplayName: "A", Score: 7},
	}, noName)

	if b.board[0].PlayerID != "a" || b.board[1].PlayerID != "b" {
		t.Fatalf("expected first-seen player to rank first on tie, got %+v", b.board)
	}
}

func TestLeaderboardOrdersByScoreDescending(t *testing.T) {
	b := newScoreboard("me")
	b.replaceBoard([]domain.LeaderboardEntry{
		{PlayerID: "a", DisplayName: "A", Score: 10},
		{PlayerID: "b", DisplayName: "B", Score: 30},
		{PlayerID: "c", DisplayName: "C", Score: 20},
	}, noName)

	got := []string{b.board[0].PlayerID, b.board[1].PlayerID, b.board[2].PlayerID}
	want := []string{"b", "c", "a"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestLeaderboardUnknownPlayerGetsPlaceholder(t *testing.T) {
	b := newScoreboard("me")
	b.replaceBoard([]domain.LeaderboardEntry{
		{PlayerID: "0123456789abcdef", Score: 10},
	}, noName)

	if b.board[0].DisplayName != "Player 01234567..." {
		t.Fatalf("expected placeholder label, got %q", b.board[0].DisplayName)
	}
}

func TestLeaderboardFallsBackToRosterName(t *testing.T) {
	b := newScoreboard("me")
	b.replaceBoard([]domain.LeaderboardEntry{
		{PlayerID: "u1", Score: 10},
	}, func(id string) string {
		if id == "u1" {
			return "Alice"
		}
		return ""
	})

	if b.board[0].DisplayName != "Alice" {
		t.Fatalf("expected roster name, got %q", b.board[0].DisplayName)
	}
}

func TestScoreResetClearsEverything(t *testing.T) {
	b := newScoreboard("me")
	b.apply(domain.QuestionResult{
		Leaderboard:   []domain.LeaderboardEntry{{PlayerID: "me", Score: 10}},
		PlayerResults: []domain.PlayerResult{{UserID: "me", Points: 10}},
	}, noName)

	b.reset()
	if b.total != 0 || len(b.board) != 0 {
		t.Fatalf("expected empty scoreboard after reset, got total=%d board=%v", b.total, b.board)
	}
}
