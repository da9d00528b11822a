// Package session composes the clock, lineup, playtime and score
// components into one live-game session. All mutable state is owned
// here behind a single mutex; the tick, poll and publish loops and the
// keeper's actions all go through it. Cross-component reads happen
// through accessors, never shared variables.
package session

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/jmhoops/courtside/internal/clock"
	"github.com/jmhoops/courtside/internal/lineup"
	"github.com/jmhoops/courtside/internal/models"
	"github.com/jmhoops/courtside/internal/playtime"
	"github.com/jmhoops/courtside/internal/score"
)

// pbpWindow bounds the locally retained play-by-play rows.
const pbpWindow = 120

// Outbound is the fire-and-forget write surface the session dispatches
// to. Implementations must not block: field values are captured at call
// time and the network happens later.
type Outbound interface {
	InitGame(meta models.GameMeta, home, away models.Roster)
	Starters(home, away []string)
	Playtime(home, away map[string]int)
	Stat(ev models.StatEvent)
	Sub(ev models.SubEvent)
	MetaEvent(ev models.MetaEvent)
	Meta(meta models.GameMeta)
	EndGame(gameID string, resetLive bool)
}

// ResumeState carries the stored fields needed to join an existing game.
type ResumeState struct {
	Meta         models.GameMeta
	Score        models.ScoreLine
	StartersHome []string
	StartersAway []string
	PlaytimeHome map[string]int
	PlaytimeAway map[string]int
}

// Session is one keeper's view of one live game.
type Session struct {
	mu sync.Mutex

	gameID   string
	homeTeam string
	awayTeam string
	role     models.Role

	clk    *clock.GameClock
	lineup *lineup.Tracker
	ledger *playtime.Ledger
	score  *score.Reconciler

	// confirmed is the last server-confirmed meta. Outbound stat/sub
	// events stamp period/clock from here, not from the locally
	// displayed countdown, so two keepers logging "the same moment"
	// record the same game-time.
	confirmed models.GameMeta

	pbp     []models.PlayByPlayRow
	lastSeq int

	out  Outbound
	wall clockwork.Clock
}

// Start creates a Primary session for a brand-new game and dispatches
// the init_game write. The lineup defaults to each roster's first five
// until starters are chosen.
func Start(meta models.GameMeta, home, away models.Roster, out Outbound, wall clockwork.Clock) (*Session, error) {
	if len(home) < lineup.OnFloorSize || len(away) < lineup.OnFloorSize {
		return nil, fmt.Errorf("need at least %d players per team", lineup.OnFloorSize)
	}
	meta.Period = models.PeriodQ1
	meta.ClockSec = models.PeriodDurationSec

	s := newSession(meta, models.RolePrimary, home, away, out, wall)
	s.lineup.ApplySnapshot(models.SideHome, home.FirstFive())
	s.lineup.ApplySnapshot(models.SideAway, away.FirstFive())

	out.InitGame(meta, home, away)
	log.Info().Str("game_id", meta.GameID).Msg("started new game as primary")
	return s, nil
}

// Resume creates a Secondary session joined to an existing game,
// falling back to first-five lineups and zeroed playtime when the
// stored game predates those writes.
func Resume(state ResumeState, home, away models.Roster, out Outbound, wall clockwork.Clock) *Session {
	s := newSession(state.Meta, models.RoleSecondary, home, away, out, wall)

	starters := state.StartersHome
	if len(starters) != lineup.OnFloorSize {
		starters = home.FirstFive()
	}
	s.lineup.ApplySnapshot(models.SideHome, starters)

	starters = state.StartersAway
	if len(starters) != lineup.OnFloorSize {
		starters = away.FirstFive()
	}
	s.lineup.ApplySnapshot(models.SideAway, starters)

	s.ledger.Merge(models.SideHome, state.PlaytimeHome)
	s.ledger.Merge(models.SideAway, state.PlaytimeAway)
	s.score.Merge(state.Score)

	log.Info().Str("game_id", state.Meta.GameID).Msg("resumed game as secondary")
	return s
}

func newSession(meta models.GameMeta, role models.Role, home, away models.Roster, out Outbound, wall clockwork.Clock) *Session {
	return &Session{
		gameID:    meta.GameID,
		homeTeam:  meta.HomeTeam,
		awayTeam:  meta.AwayTeam,
		role:      role,
		clk:       clock.New(role, meta.Period, meta.ClockSec),
		lineup:    lineup.New(home, away),
		ledger:    playtime.New(home, away),
		score:     score.New(models.ScoreLine{}),
		confirmed: meta,
		out:       out,
		wall:      wall,
	}
}

func (s *Session) Role() models.Role { return s.role }
func (s *Session) GameID() string    { return s.gameID }

// Meta returns the locally displayed game meta.
func (s *Session) Meta() models.GameMeta {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metaLocked()
}

func (s *Session) metaLocked() models.GameMeta {
	return models.GameMeta{
		GameID:   s.gameID,
		HomeTeam: s.homeTeam,
		AwayTeam: s.awayTeam,
		Period:   s.clk.Period(),
		ClockSec: s.clk.ClockSec(),
	}
}

func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clk.Running()
}

// Score returns the optimistic local score.
func (s *Session) Score() models.ScoreLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score.Local()
}

// OnFloor returns the current on-floor ids for a side.
func (s *Session) OnFloor(side models.Side) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lineup.OnFloor(side)
}

// Bench returns the bench ids for a side.
func (s *Session) Bench(side models.Side) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lineup.Bench(side)
}

// Playtime returns a copy of the accrued seconds for a side.
func (s *Session) Playtime(side models.Side) map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Export(side)
}

// PlayByPlay returns a copy of the retained log window, oldest first.
func (s *Session) PlayByPlay() []models.PlayByPlayRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.PlayByPlayRow, len(s.pbp))
	copy(out, s.pbp)
	return out
}

// LastSeq returns the highest play-by-play sequence number seen.
func (s *Session) LastSeq() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeq
}

// StartClock starts the countdown (Primary only; no-op otherwise).
func (s *Session) StartClock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clk.Start()
}

// StopClock stops the countdown and immediately flushes playtime so the
// store reflects minutes up to the stoppage.
func (s *Session) StopClock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	wasRunning := s.clk.Running()
	s.clk.Stop()
	if wasRunning && !s.clk.Running() {
		s.publishPlaytimeLocked()
	}
}

// Tick advances the clock by one wall-clock second and accrues playtime
// to every on-floor player on both teams. Driven once per second by the
// ticker loop; does nothing while the clock is stopped.
func (s *Session) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.clk.Tick() {
		return
	}
	s.ledger.Accrue(models.SideHome, s.lineup.OnFloor(models.SideHome))
	s.ledger.Accrue(models.SideAway, s.lineup.OnFloor(models.SideAway))
}

// SetPeriod switches period (Primary only), resetting the clock to the
// nominal duration and stopping it. The change is dispatched as an
// audited meta event.
func (s *Session) SetPeriod(p models.Period) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	wasRunning := s.clk.Running()
	applied, err := s.clk.SetPeriod(p)
	if err != nil {
		return err
	}
	if !applied {
		return nil
	}
	if wasRunning {
		s.publishPlaytimeLocked()
	}
	s.out.MetaEvent(s.metaEventLocked(models.ReasonQuarterChangeReset))
	return nil
}

// SetClockSec edits the remaining seconds (Primary only), dispatched as
// an audited meta event.
func (s *Session) SetClockSec(sec int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	applied, err := s.clk.SetClockSec(sec)
	if err != nil {
		return err
	}
	if !applied {
		return nil
	}
	s.out.MetaEvent(s.metaEventLocked(models.ReasonManualClockEdit))
	return nil
}

func (s *Session) metaEventLocked(reason string) models.MetaEvent {
	return models.MetaEvent{
		EventID:   uuid.New().String(),
		Timestamp: s.wall.Now(),
		GameID:    s.gameID,
		HomeTeam:  s.homeTeam,
		AwayTeam:  s.awayTeam,
		Period:    s.clk.Period(),
		ClockSec:  s.clk.ClockSec(),
		Reason:    reason,
	}
}

// SetStarters installs a side's starting five locally.
func (s *Session) SetStarters(side models.Side, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lineup.SetStarters(side, ids)
}

// PublishStarters dispatches both starting fives plus the initial
// playtime mapping. Both fives must be set.
func (s *Session) PublishStarters() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	home := s.lineup.OnFloor(models.SideHome)
	away := s.lineup.OnFloor(models.SideAway)
	if len(home) != lineup.OnFloorSize || len(away) != lineup.OnFloorSize {
		return lineup.ErrStarterCount
	}
	s.out.Starters(home, away)
	s.publishPlaytimeLocked()
	return nil
}

// RecordStat logs a stat tap for an on-floor player: the score is
// bumped optimistically before the write is dispatched, and the event
// is stamped with the server-confirmed period/clock.
func (s *Session) RecordStat(side models.Side, playerID string, eventType models.EventType) (models.StatEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !side.Valid() {
		return models.StatEvent{}, fmt.Errorf("unknown side %q", side)
	}
	if !eventType.Valid() {
		return models.StatEvent{}, fmt.Errorf("unknown event type %q", eventType)
	}
	onFloor := false
	for _, id := range s.lineup.OnFloor(side) {
		if id == playerID {
			onFloor = true
			break
		}
	}
	if !onFloor {
		return models.StatEvent{}, fmt.Errorf("%w: %s", lineup.ErrPlayerNotOnFloor, playerID)
	}

	s.score.ApplyLocalDelta(side, eventType, 1)

	ev := models.StatEvent{
		EventID:   uuid.New().String(),
		Timestamp: s.wall.Now(),
		GameID:    s.gameID,
		Period:    s.confirmed.Period,
		ClockSec:  s.confirmed.ClockSec,
		Team:      s.teamNameLocked(side),
		PlayerID:  playerID,
		EventType: eventType,
		Delta:     1,
	}
	s.out.Stat(ev)
	log.Debug().
		Str("event_type", string(eventType)).
		Str("player_id", playerID).
		Str("game_time", string(ev.Period)+" "+models.FormatClock(ev.ClockSec)).
		Msg("stat recorded")
	return ev, nil
}

// RecordSub applies a substitution locally and dispatches the sub event
// plus a playtime flush. Rejections leave the lineup untouched.
func (s *Session) RecordSub(side models.Side, outID, inID string) (models.SubEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !side.Valid() {
		return models.SubEvent{}, fmt.Errorf("unknown side %q", side)
	}
	if err := s.lineup.ApplySub(side, outID, inID); err != nil {
		return models.SubEvent{}, err
	}

	ev := models.SubEvent{
		EventID:   uuid.New().String(),
		Timestamp: s.wall.Now(),
		GameID:    s.gameID,
		Period:    s.confirmed.Period,
		ClockSec:  s.confirmed.ClockSec,
		Team:      s.teamNameLocked(side),
		PlayerOut: outID,
		PlayerIn:  inID,
	}
	s.out.Sub(ev)
	s.publishPlaytimeLocked()
	return ev, nil
}

func (s *Session) teamNameLocked(side models.Side) string {
	if side == models.SideHome {
		return s.homeTeam
	}
	return s.awayTeam
}

// PublishPlaytime dispatches the full per-team playtime mappings.
// Called by the periodic publisher and on clock stop.
func (s *Session) PublishPlaytime() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publishPlaytimeLocked()
}

func (s *Session) publishPlaytimeLocked() {
	s.out.Playtime(s.ledger.Export(models.SideHome), s.ledger.Export(models.SideAway))
}

// PublishMeta dispatches the current game meta. Only the Primary
// publishes its clock; a Secondary echoing its mirrored copy back would
// fight the Primary's writes.
func (s *Session) PublishMeta() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.role != models.RolePrimary {
		return
	}
	s.out.Meta(s.metaLocked())
}

// ApplySnapshot merges an authoritative server snapshot into every
// component under the role-aware precedence rules, and appends log rows
// strictly after the last seen sequence number.
func (s *Session) ApplySnapshot(live models.LiveSnapshot, pbp models.PlayByPlayPage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// the confirmed copy always advances, even when the Primary's live
	// countdown declines the clock merge below
	s.confirmed = live.Meta

	s.clk.ApplySnapshot(live.Meta)
	s.lineup.ApplySnapshot(models.SideHome, live.OnFloorHome)
	s.lineup.ApplySnapshot(models.SideAway, live.OnFloorAway)
	s.ledger.Merge(models.SideHome, live.PlaytimeHome)
	s.ledger.Merge(models.SideAway, live.PlaytimeAway)
	if s.score.Merge(live.Score) {
		log.Debug().
			Int("home_pts", live.Score.HomePts).
			Int("away_pts", live.Score.AwayPts).
			Msg("local score overwritten by snapshot")
	}

	for _, row := range pbp.Rows {
		// the server may resend a boundary row; duplicates are dropped
		if row.Seq <= s.lastSeq {
			continue
		}
		s.pbp = append(s.pbp, row)
		s.lastSeq = row.Seq
	}
	if len(s.pbp) > pbpWindow {
		s.pbp = append([]models.PlayByPlayRow(nil), s.pbp[len(s.pbp)-pbpWindow:]...)
	}
}

// End flushes playtime and dispatches end_game.
func (s *Session) End(resetLive bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publishPlaytimeLocked()
	s.out.EndGame(s.gameID, resetLive)
	log.Info().Str("game_id", s.gameID).Bool("reset_live", resetLive).Msg("game ended")
}
