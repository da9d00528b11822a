package sheetapi

import "github.com/jmhoops/courtside/internal/models"

// Write payloads. Every write carries the access token and an action
// discriminator; the store's response body is opaque and ignored.

type InitGameRequest struct {
	AccessToken string        `json:"access_token"`
	Action      string        `json:"action"`
	GameID      string        `json:"game_id"`
	HomeTeam    string        `json:"home_team"`
	AwayTeam    string        `json:"away_team"`
	Period      models.Period `json:"period"`
	ClockSec    int           `json:"clock_sec"`
	HomeRoster  models.Roster `json:"home_roster"`
	AwayRoster  models.Roster `json:"away_roster"`
}

type SetStartersRequest struct {
	AccessToken  string   `json:"access_token"`
	Action       string   `json:"action"`
	StartersHome []string `json:"starters_home"`
	StartersAway []string `json:"starters_away"`
}

type SetPlaytimeRequest struct {
	AccessToken  string         `json:"access_token"`
	Action       string         `json:"action"`
	PlaytimeHome map[string]int `json:"playtime_home"`
	PlaytimeAway map[string]int `json:"playtime_away"`
}

type StatRequest struct {
	AccessToken string           `json:"access_token"`
	Action      string           `json:"action"`
	EventID     string           `json:"event_id"`
	TsISO       string           `json:"ts_iso"`
	GameID      string           `json:"game_id"`
	Period      models.Period    `json:"period"`
	ClockSec    int              `json:"clock_sec"`
	Team        string           `json:"team"`
	PlayerID    string           `json:"player_id"`
	EventType   models.EventType `json:"event_type"`
	Delta       int              `json:"delta"`
}

type SubRequest struct {
	AccessToken string        `json:"access_token"`
	Action      string        `json:"action"`
	EventID     string        `json:"event_id"`
	TsISO       string        `json:"ts_iso"`
	GameID      string        `json:"game_id"`
	Period      models.Period `json:"period"`
	ClockSec    int           `json:"clock_sec"`
	Team        string        `json:"team"`
	PlayerOut   string        `json:"player_out"`
	PlayerIn    string        `json:"player_in"`
}

type SetMetaRequest struct {
	AccessToken string        `json:"access_token"`
	Action      string        `json:"action"`
	GameID      string        `json:"game_id"`
	HomeTeam    string        `json:"home_team"`
	AwayTeam    string        `json:"away_team"`
	Period      models.Period `json:"period"`
	ClockSec    int           `json:"clock_sec"`
	MetaEventID string        `json:"meta_event_id,omitempty"`
	Reason      string        `json:"reason,omitempty"`
}

type EndGameRequest struct {
	AccessToken string `json:"access_token"`
	Action      string `json:"action"`
	GameID      string `json:"game_id"`
	ResetLive   bool   `json:"reset_live"`
}

// Read envelopes. Every read response carries ok plus an optional error
// string; action-specific payload fields ride alongside.

type envelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type listGamesResponse struct {
	envelope
	Games []models.GameSummary `json:"games"`
}

// GameState is the stored state of one game as returned by
// get_game_state, used on join/resume. Starters and playtime may be
// absent for games initialized before those were first published.
type GameState struct {
	models.GameMeta
	Score        models.ScoreLine `json:"score"`
	StartersHome []string         `json:"starters_home,omitempty"`
	StartersAway []string         `json:"starters_away,omitempty"`
	PlaytimeHome map[string]int   `json:"playtime_home,omitempty"`
	PlaytimeAway map[string]int   `json:"playtime_away,omitempty"`
	ArchiveTab   string           `json:"archive_tab,omitempty"`
}

type gameStateResponse struct {
	envelope
	Game GameState `json:"game"`
}

// SnapshotResponse is the get_live_snapshot payload: the live view plus
// play-by-play rows strictly after the requested sequence number.
type SnapshotResponse struct {
	Live models.LiveSnapshot   `json:"live"`
	Pbp  models.PlayByPlayPage `json:"pbp"`
}

type snapshotEnvelope struct {
	envelope
	SnapshotResponse
}
