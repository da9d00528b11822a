// Package playtime accrues elapsed game seconds to on-floor players.
package playtime

import "github.com/jmhoops/courtside/internal/models"

// Ledger maps player ids to accumulated on-floor seconds, one mapping
// per team. Values never decrease.
type Ledger struct {
	seconds map[models.Side]map[string]int
}

// New creates a ledger with every rostered player at zero.
func New(home, away models.Roster) *Ledger {
	l := &Ledger{seconds: map[models.Side]map[string]int{
		models.SideHome: make(map[string]int, len(home)),
		models.SideAway: make(map[string]int, len(away)),
	}}
	for _, p := range home {
		l.seconds[models.SideHome][p.PlayerID] = 0
	}
	for _, p := range away {
		l.seconds[models.SideAway][p.PlayerID] = 0
	}
	return l
}

// Accrue adds one second to every player currently on the floor for a
// side. Called once per clock tick for both teams independently.
func (l *Ledger) Accrue(side models.Side, onFloor []string) {
	m := l.seconds[side]
	for _, id := range onFloor {
		m[id]++
	}
}

// Seconds returns the accumulated seconds for one player.
func (l *Ledger) Seconds(side models.Side, playerID string) int {
	return l.seconds[side][playerID]
}

// Export returns a copy of the full mapping for a side, for publication
// to the remote store.
func (l *Ledger) Export(side models.Side) map[string]int {
	m := l.seconds[side]
	out := make(map[string]int, len(m))
	for id, sec := range m {
		out[id] = sec
	}
	return out
}

// Merge reconciles a side's mapping against a server snapshot. The
// server is authoritative for multi-keeper consistency, but the local
// ledger may run briefly ahead of it between polls, so each player keeps
// the larger of the two values; the ledger never decreases.
func (l *Ledger) Merge(side models.Side, incoming map[string]int) {
	if incoming == nil {
		return
	}
	m := l.seconds[side]
	for id, sec := range incoming {
		if sec > m[id] {
			m[id] = sec
		}
	}
}
