package app

import (
	"sort"

	"quiz-game-client/internal/domain"
)

// scoreboard accumulates the local player's cumulative score and holds the
// ranked leaderboard snapshot. Snapshots are replaced wholesale, never
// merged. Ranking is descending score; equal scores keep stable input order,
// first-seen wins, so repeated snapshots cannot shuffle tied players.
type scoreboard struct {
	selfID string
	total  int
	board  []domain.LeaderboardEntry

	firstSeen map[string]int
	nextSeen  int
}

func newScoreboard(selfID string) *scoreboard {
	return &scoreboard{selfID: selfID, firstSeen: make(map[string]int)}
}

// apply folds one question result into the cumulative score and replaces the
// leaderboard snapshot. A missing self entry in the per-player results means
// zero points, not an error. Returns the points gained this question.
func (b *scoreboard) apply(res domain.QuestionResult, nameOf func(string) string) int {
	gained := 0
	for _, pr := range res.PlayerResults {
		if pr.UserID == b.selfID {
			gained = pr.Points
			break
		}
	}
	b.total += gained
	b.replaceBoard(res.Leaderboard, nameOf)
	return gained
}

// replaceBoard installs a new leaderboard snapshot and re-ranks it. A player
// ID absent from the roster (late broadcast after someone left) falls back
// to a placeholder label.
func (b *scoreboard) replaceBoard(entries []domain.LeaderboardEntry, nameOf func(string) string) {
	board := make([]domain.LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		if _, ok := b.firstSeen[e.PlayerID]; !ok {
			b.firstSeen[e.PlayerID] = b.nextSeen
			b.nextSeen++
		}
		if e.DisplayName == "" {
			if n := nameOf(e.PlayerID); n != "" {
				e.DisplayName = n
			} else {
				e.DisplayName = placeholderName(e.PlayerID)
			}
		}
		board = append(board, e)
	}
	sort.SliceStable(board, func(i, j int) bool {
		if board[i].Score != board[j].Score {
			return board[i].Score > board[j].Score
		}
		return b.firstSeen[board[i].PlayerID] < b.firstSeen[board[j].PlayerID]
	})
	b.board = board
}

func (b *scoreboard) snapshot() []domain.LeaderboardEntry {
	out := make([]domain.LeaderboardEntry, len(b.board))
	copy(out, b.board)
	return out
}

// reset clears both score and snapshot. Called only on session teardown.
func (b *scoreboard) reset() {
	b.total = 0
	b.board = nil
	b.firstSeen = make(map[string]int)
	b.nextSeen = 0
}

func placeholderName(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return "Player " + id + "..."
}
