package app

import "quiz-game-client/internal/domain"

// roster tracks room membership. Every roster broadcast replaces the whole
// list; duplicate player IDs collapse to the first occurrence.
type roster struct {
	players map[string]domain.Player
	order   []string
}

func newRoster() *roster {
	return &roster{players: make(map[string]domain.Player)}
}

// replace installs a fresh roster, first occurrence wins on duplicate IDs.
func (r *roster) replace(players []domain.Player) {
	r.players = make(map[string]domain.Player, len(players))
	r.order = r.order[:0]
	for _, p := range players {
		if _, dup := r.players[p.ID]; dup {
			continue
		}
		r.players[p.ID] = p
		r.order = append(r.order, p.ID)
	}
}

// list returns the roster in broadcast order.
func (r *roster) list() []domain.Player {
	out := make([]domain.Player, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.players[id])
	}
	return out
}

// name returns the display name for a player, or "" if the player is not
// (or no longer) in the roster.
func (r *roster) name(id string) string {
	return r.players[id].Name
}

func (r *roster) size() int { return len(r.order) }

func (r *roster) clear() {
	r.players = make(map[string]domain.Player)
	r.order = nil
}
