package models

import "fmt"

// Period identifies a game period.
type Period string

const (
	PeriodQ1 Period = "Q1"
	PeriodQ2 Period = "Q2"
	PeriodQ3 Period = "Q3"
	PeriodQ4 Period = "Q4"
	PeriodOT Period = "OT"
)

// Periods lists the valid periods in game order.
var Periods = []Period{PeriodQ1, PeriodQ2, PeriodQ3, PeriodQ4, PeriodOT}

// PeriodDurationSec is the nominal length of a period in seconds (8 minutes).
const PeriodDurationSec = 8 * 60

// Valid reports whether p is a known period.
func (p Period) Valid() bool {
	switch p {
	case PeriodQ1, PeriodQ2, PeriodQ3, PeriodQ4, PeriodOT:
		return true
	}
	return false
}

// Role distinguishes the authoritative stat-keeper from observers.
type Role string

const (
	// RolePrimary is the keeper that started the game. Sole authority
	// over the clock.
	RolePrimary Role = "primary"
	// RoleSecondary is a keeper that joined an existing game. Read-only
	// on the clock, full write access to stats and subs.
	RoleSecondary Role = "secondary"
)

// Side selects one of the two teams in a game.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// Valid reports whether s is home or away.
func (s Side) Valid() bool {
	return s == SideHome || s == SideAway
}

// GameMeta is the game identity plus the clock fields shared with the
// remote store.
type GameMeta struct {
	GameID   string `json:"game_id"`
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
	Period   Period `json:"period"`
	ClockSec int    `json:"clock_sec"`
}

// TeamName returns the display name for a side.
func (m GameMeta) TeamName(side Side) string {
	if side == SideHome {
		return m.HomeTeam
	}
	return m.AwayTeam
}

// FormatClock renders seconds as MM:SS, floored at zero.
func FormatClock(sec int) string {
	if sec < 0 {
		sec = 0
	}
	return fmt.Sprintf("%02d:%02d", sec/60, sec%60)
}

// GameSummary is one row of the remote store's game list.
type GameSummary struct {
	GameID        string `json:"game_id"`
	HomeTeam      string `json:"home_team"`
	AwayTeam      string `json:"away_team"`
	Period        Period `json:"period,omitempty"`
	ClockSec      int    `json:"clock_sec,omitempty"`
	DateISO       string `json:"date_iso,omitempty"`
	ArchiveTab    string `json:"archive_tab,omitempty"`
	ArchivedAtISO string `json:"archived_at_iso,omitempty"`
}
