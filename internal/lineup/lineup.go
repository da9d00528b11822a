// Package lineup maintains the on-floor/bench partition for both teams
// and validates substitutions. All mutations are all-or-nothing: a
// rejected sub or starter set leaves the lineup byte-for-byte unchanged.
package lineup

import (
	"errors"
	"fmt"

	"github.com/jmhoops/courtside/internal/models"
)

// OnFloorSize is the number of players on the floor per team.
const OnFloorSize = 5

var (
	// ErrPlayerNotOnFloor rejects a sub whose outgoing player is not on
	// the floor.
	ErrPlayerNotOnFloor = errors.New("player is not on the floor")
	// ErrPlayerAlreadyOnFloor rejects a sub whose incoming player is
	// already on the floor.
	ErrPlayerAlreadyOnFloor = errors.New("player is already on the floor")
	// ErrNotOnRoster rejects ids that do not belong to the team's roster.
	ErrNotOnRoster = errors.New("player is not on the roster")
	// ErrStarterCount rejects starter sets that are not exactly five
	// distinct players.
	ErrStarterCount = errors.New("need exactly 5 distinct starters")
)

// Tracker holds the rosters and on-floor lists for one game.
type Tracker struct {
	rosters map[models.Side]models.Roster
	onFloor map[models.Side][]string
}

// New creates a tracker with empty on-floor lists.
func New(home, away models.Roster) *Tracker {
	return &Tracker{
		rosters: map[models.Side]models.Roster{
			models.SideHome: home,
			models.SideAway: away,
		},
		onFloor: map[models.Side][]string{
			models.SideHome: nil,
			models.SideAway: nil,
		},
	}
}

// Roster returns the roster for a side.
func (t *Tracker) Roster(side models.Side) models.Roster {
	return t.rosters[side]
}

// OnFloor returns a copy of the current on-floor ids for a side.
func (t *Tracker) OnFloor(side models.Side) []string {
	cur := t.onFloor[side]
	out := make([]string, len(cur))
	copy(out, cur)
	return out
}

// Bench returns the roster ids for a side that are not on the floor,
// in roster order.
func (t *Tracker) Bench(side models.Side) []string {
	on := make(map[string]struct{}, OnFloorSize)
	for _, id := range t.onFloor[side] {
		on[id] = struct{}{}
	}
	var bench []string
	for _, p := range t.rosters[side] {
		if _, ok := on[p.PlayerID]; !ok {
			bench = append(bench, p.PlayerID)
		}
	}
	return bench
}

// SetStarters installs the starting five for a side. The ids must be
// exactly five distinct members of that side's roster.
func (t *Tracker) SetStarters(side models.Side, ids []string) error {
	if len(ids) != OnFloorSize {
		return fmt.Errorf("%w: got %d", ErrStarterCount, len(ids))
	}
	seen := make(map[string]struct{}, OnFloorSize)
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate id %s", ErrStarterCount, id)
		}
		seen[id] = struct{}{}
		if !t.rosters[side].Contains(id) {
			return fmt.Errorf("%w: %s", ErrNotOnRoster, id)
		}
	}
	t.onFloor[side] = append([]string(nil), ids...)
	return nil
}

// ApplySub swaps outID for inID on a side's floor. The swap is validated
// up front and applied atomically; on any rejection the on-floor list is
// left untouched.
func (t *Tracker) ApplySub(side models.Side, outID, inID string) error {
	cur := t.onFloor[side]

	outIdx := -1
	for i, id := range cur {
		if id == outID {
			outIdx = i
		}
		if id == inID {
			return fmt.Errorf("%w: %s", ErrPlayerAlreadyOnFloor, inID)
		}
	}
	if outIdx < 0 {
		return fmt.Errorf("%w: %s", ErrPlayerNotOnFloor, outID)
	}
	if !t.rosters[side].Contains(inID) {
		return fmt.Errorf("%w: %s", ErrNotOnRoster, inID)
	}

	next := make([]string, len(cur))
	copy(next, cur)
	next[outIdx] = inID
	if len(next) != OnFloorSize {
		return fmt.Errorf("%w: lineup has %d players", ErrStarterCount, len(next))
	}
	t.onFloor[side] = next
	return nil
}

// ApplySnapshot replaces a side's on-floor list with the server's. The
// snapshot is authoritative over local guesses; it defends a stale local
// copy after another keeper subs. Lists that are not exactly five ids
// are ignored.
func (t *Tracker) ApplySnapshot(side models.Side, ids []string) {
	if len(ids) != OnFloorSize {
		return
	}
	t.onFloor[side] = append([]string(nil), ids...)
}
