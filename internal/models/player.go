package models

// Player is one roster entry. PlayerID is stable for the session and is
// derived from the team prefix plus the jersey number, e.g. "H23".
type Player struct {
	PlayerID string `json:"player_id"`
	Jersey   string `json:"jersey"`
	Name     string `json:"name"`
}

// PlayerIDPrefix returns the id prefix used for a side ("H" or "A").
func PlayerIDPrefix(side Side) string {
	if side == SideHome {
		return "H"
	}
	return "A"
}

// Roster is an immutable list of players for one team.
type Roster []Player

// IDs returns the player ids in roster order.
func (r Roster) IDs() []string {
	ids := make([]string, len(r))
	for i, p := range r {
		ids[i] = p.PlayerID
	}
	return ids
}

// Contains reports whether the roster has a player with the given id.
func (r Roster) Contains(playerID string) bool {
	for _, p := range r {
		if p.PlayerID == playerID {
			return true
		}
	}
	return false
}

// FirstFive returns the first five player ids, the default starting
// lineup when none has been chosen yet.
func (r Roster) FirstFive() []string {
	n := 5
	if len(r) < n {
		n = len(r)
	}
	return r.IDs()[:n]
}
