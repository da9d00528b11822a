// Package score keeps the game score responsive under network latency:
// made shots bump a local optimistic total synchronously, and the next
// server snapshot overwrites it whenever the two diverge. Server-wins
// is what protects against double counts, lost writes and a second
// keeper scoring concurrently.
package score

import (
	"github.com/jmhoops/courtside/internal/models"
	"github.com/jmhoops/courtside/internal/reconcile"
)

// Reconciler holds the local and authoritative score lines.
type Reconciler struct {
	line *reconcile.Optimistic[models.ScoreLine]
}

// New starts both copies at the given line (zero for a new game,
// the stored line on resume).
func New(initial models.ScoreLine) *Reconciler {
	return &Reconciler{line: reconcile.New(initial)}
}

// Local returns the optimistic score shown to the keeper.
func (r *Reconciler) Local() models.ScoreLine { return r.line.Local() }

// Authoritative returns the last server-confirmed score.
func (r *Reconciler) Authoritative() models.ScoreLine { return r.line.Authoritative() }

// ApplyLocalDelta credits a stat event's point value to a side before
// the network write is even issued. Event types without a point value
// and non-positive deltas contribute nothing. Returns the points added.
func (r *Reconciler) ApplyLocalDelta(side models.Side, eventType models.EventType, delta int) int {
	if delta <= 0 {
		return 0
	}
	pts := eventType.Points()
	if pts == 0 {
		return 0
	}
	r.line.Mutate(func(line models.ScoreLine) models.ScoreLine {
		if side == models.SideHome {
			line.HomePts += pts
		} else {
			line.AwayPts += pts
		}
		return line
	})
	return pts
}

// Merge records an authoritative snapshot score. When it differs from
// the local copy the local copy is overwritten. Returns true when the
// local score changed.
func (r *Reconciler) Merge(line models.ScoreLine) bool {
	return r.line.Confirm(line)
}
