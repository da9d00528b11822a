package models

// ScoreLine is the point totals for both teams.
type ScoreLine struct {
	HomePts int `json:"home_pts"`
	AwayPts int `json:"away_pts"`
}

// Points returns the total for a side.
func (s ScoreLine) Points(side Side) int {
	if side == SideHome {
		return s.HomePts
	}
	return s.AwayPts
}

// PlayByPlayRow is one sequence-numbered log row from the remote store.
// Seq increases monotonically per game.
type PlayByPlayRow struct {
	Seq       int       `json:"seq"`
	TsISO     string    `json:"ts_iso"`
	Period    Period    `json:"period"`
	ClockSec  int       `json:"clock_sec"`
	Team      string    `json:"team"`
	PlayerID  string    `json:"player_id"`
	EventType EventType `json:"event_type"`
	Detail    string    `json:"detail,omitempty"`
}

// LiveSnapshot is a point-in-time server-side read of the live game:
// meta, score, lineup, playtime, plus log rows newer than the
// requested sequence number.
type LiveSnapshot struct {
	Meta         GameMeta       `json:"meta"`
	Score        ScoreLine      `json:"score"`
	StartersHome []string       `json:"starters_home"`
	StartersAway []string       `json:"starters_away"`
	OnFloorHome  []string       `json:"on_floor_home"`
	OnFloorAway  []string       `json:"on_floor_away"`
	PlaytimeHome map[string]int `json:"playtime_home"`
	PlaytimeAway map[string]int `json:"playtime_away"`
}

// PlayByPlayPage is the incremental log portion of a snapshot poll.
type PlayByPlayPage struct {
	Rows      []PlayByPlayRow `json:"rows"`
	LatestSeq int             `json:"latest_seq"`
}

// OnFloor returns the snapshot's on-floor list for a side.
func (s LiveSnapshot) OnFloor(side Side) []string {
	if side == SideHome {
		return s.OnFloorHome
	}
	return s.OnFloorAway
}

// Playtime returns the snapshot's playtime mapping for a side.
func (s LiveSnapshot) Playtime(side Side) map[string]int {
	if side == SideHome {
		return s.PlaytimeHome
	}
	return s.PlaytimeAway
}
