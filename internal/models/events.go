package models

import "time"

// EventType is a stat event code as recorded in the play-by-play log.
type EventType string

const (
	EventTwoMake   EventType = "2M"
	EventTwoMiss   EventType = "2X"
	EventThreeMake EventType = "3M"
	EventThreeMiss EventType = "3X"
	EventFTMake    EventType = "FTM"
	EventFTMiss    EventType = "FTX"
	EventOffReb    EventType = "OREB"
	EventDefReb    EventType = "DREB"
	EventAssist    EventType = "AST"
	EventSteal     EventType = "STL"
	EventBlock     EventType = "BLK"
	EventTurnover  EventType = "TO"
	EventFoul      EventType = "FOUL"
)

// EventTypes lists every recognized stat event code.
var EventTypes = []EventType{
	EventTwoMake, EventTwoMiss,
	EventThreeMake, EventThreeMiss,
	EventFTMake, EventFTMiss,
	EventOffReb, EventDefReb,
	EventAssist, EventSteal, EventBlock,
	EventTurnover, EventFoul,
}

// Valid reports whether t is a recognized stat event code.
func (t EventType) Valid() bool {
	for _, et := range EventTypes {
		if t == et {
			return true
		}
	}
	return false
}

// Points returns the score value of a made shot. Misses and non-shooting
// events are worth zero.
func (t EventType) Points() int {
	switch t {
	case EventTwoMake:
		return 2
	case EventThreeMake:
		return 3
	case EventFTMake:
		return 1
	}
	return 0
}

// Meta edit reason tags, recorded for the audit trail.
const (
	ReasonQuarterChangeReset = "quarter_change_reset"
	ReasonManualClockEdit    = "manual_clock_edit"
)

// StatEvent is an immutable record of one stat tap. Sent once, never
// retried; the remote store is the system of record.
type StatEvent struct {
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"ts"`
	GameID    string    `json:"game_id"`
	Period    Period    `json:"period"`
	ClockSec  int       `json:"clock_sec"`
	Team      string    `json:"team"`
	PlayerID  string    `json:"player_id"`
	EventType EventType `json:"event_type"`
	Delta     int       `json:"delta"`
}

// SubEvent is an immutable record of one substitution.
type SubEvent struct {
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"ts"`
	GameID    string    `json:"game_id"`
	Period    Period    `json:"period"`
	ClockSec  int       `json:"clock_sec"`
	Team      string    `json:"team"`
	PlayerOut string    `json:"player_out"`
	PlayerIn  string    `json:"player_in"`
}

// MetaEvent is an audited period/clock edit made by the Primary keeper.
type MetaEvent struct {
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"ts"`
	GameID    string    `json:"game_id"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	Period    Period    `json:"period"`
	ClockSec  int       `json:"clock_sec"`
	Reason    string    `json:"reason"`
}
