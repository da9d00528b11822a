package sheetapi

import "time"

const (
	// Write actions (opaque-response POST)
	ActionInitGame    = "init_game"
	ActionSetStarters = "set_starters"
	ActionSetPlaytime = "set_playtime"
	ActionStat        = "stat"
	ActionSub         = "sub"
	ActionSetMeta     = "set_meta"
	ActionEndGame     = "end_game"

	// Read actions (JSONP-style GET)
	ActionListGames       = "list_games"
	ActionGetGameState    = "get_game_state"
	ActionGetLiveSnapshot = "get_live_snapshot"

	// Query parameters
	ParamView        = "view"
	ParamAction      = "action"
	ParamAccessToken = "access_token"
	ParamGameID      = "game_id"
	ParamSincePbpSeq = "since_pbp_seq"
	ParamCallback    = "callback"

	ViewAPI = "api"

	// Bounded waits per network call. Apps Script cold starts run into
	// multiple seconds, so both budgets are generous.
	WriteTimeout = 8 * time.Second
	ReadTimeout  = 12 * time.Second
)
