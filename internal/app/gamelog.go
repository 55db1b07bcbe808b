package app

import (
	"fmt"

	"github.com/jonboulle/clockwork"

	"quiz-game-client/internal/domain"
)

// gameLog is the append-only, bounded session log. It observes transitions
// for operator visibility; no component reads it to make a decision.
type gameLog struct {
	capacity int
	clock    clockwork.Clock
	entries  []domain.LogEntry
	onAppend func(domain.LogEntry)
}

func newGameLog(capacity int, clock clockwork.Clock, onAppend func(domain.LogEntry)) *gameLog {
	return &gameLog{
		capacity: capacity,
		clock:    clock,
		entries:  make([]domain.LogEntry, 0, capacity),
		onAppend: onAppend,
	}
}

func (g *gameLog) appendf(level domain.LogLevel, format string, args ...any) {
	entry := domain.LogEntry{
		Time:    g.clock.Now(),
		Message: fmt.Sprintf(format, args...),
		Level:   level,
	}
	g.entries = append(g.entries, entry)
	if len(g.entries) > g.capacity {
		g.entries = g.entries[len(g.entries)-g.capacity:]
	}
	if g.onAppend != nil {
		g.onAppend(entry)
	}
}

// snapshot returns a copy of the retained entries, oldest first.
func (g *gameLog) snapshot() []domain.LogEntry {
	out := make([]domain.LogEntry, len(g.entries))
	copy(out, g.entries)
	return out
}
