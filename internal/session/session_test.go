package session

import (
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmhoops/courtside/internal/lineup"
	"github.com/jmhoops/courtside/internal/models"
)

// recorder captures every outbound write for assertions.
type recorder struct {
	inits      int
	starters   [][2][]string
	playtimes  int
	stats      []models.StatEvent
	subs       []models.SubEvent
	metaEvents []models.MetaEvent
	metas      []models.GameMeta
	ends       []bool
}

func (r *recorder) InitGame(models.GameMeta, models.Roster, models.Roster) { r.inits++ }
func (r *recorder) Starters(home, away []string) {
	r.starters = append(r.starters, [2][]string{home, away})
}
func (r *recorder) Playtime(map[string]int, map[string]int) { r.playtimes++ }
func (r *recorder) Stat(ev models.StatEvent)                { r.stats = append(r.stats, ev) }
func (r *recorder) Sub(ev models.SubEvent)                  { r.subs = append(r.subs, ev) }
func (r *recorder) MetaEvent(ev models.MetaEvent)           { r.metaEvents = append(r.metaEvents, ev) }
func (r *recorder) Meta(meta models.GameMeta)               { r.metas = append(r.metas, meta) }
func (r *recorder) EndGame(_ string, resetLive bool)        { r.ends = append(r.ends, resetLive) }

func roster(prefix string, n int) models.Roster {
	var r models.Roster
	for i := 1; i <= n; i++ {
		id := prefix + string(rune('0'+i))
		r = append(r, models.Player{PlayerID: id, Jersey: id[1:], Name: "Player " + id})
	}
	return r
}

func meta() models.GameMeta {
	return models.GameMeta{
		GameID:   "JM_2026-01-10_001",
		HomeTeam: "James Monroe",
		AwayTeam: "Opponent",
	}
}

func newPrimary(t *testing.T) (*Session, *recorder) {
	out := &recorder{}
	s, err := Start(meta(), roster("H", 8), roster("A", 7), out, clockwork.NewFakeClock())
	require.NoError(t, err)
	return s, out
}

func snapshot(period models.Period, clockSec, homePts, awayPts int) models.LiveSnapshot {
	return models.LiveSnapshot{
		Meta: models.GameMeta{
			GameID:   "JM_2026-01-10_001",
			HomeTeam: "James Monroe",
			AwayTeam: "Opponent",
			Period:   period,
			ClockSec: clockSec,
		},
		Score: models.ScoreLine{HomePts: homePts, AwayPts: awayPts},
	}
}

func TestStartDefaultsAndInitWrite(t *testing.T) {
	s, out := newPrimary(t)

	assert.Equal(t, 1, out.inits)
	assert.Equal(t, models.RolePrimary, s.Role())
	assert.Equal(t, models.PeriodQ1, s.Meta().Period)
	assert.Equal(t, models.PeriodDurationSec, s.Meta().ClockSec)
	assert.Equal(t, []string{"H1", "H2", "H3", "H4", "H5"}, s.OnFloor(models.SideHome))
	assert.Equal(t, []string{"H6", "H7", "H8"}, s.Bench(models.SideHome))
}

func TestStartRejectsShortRoster(t *testing.T) {
	_, err := Start(meta(), roster("H", 4), roster("A", 7), &recorder{}, clockwork.NewFakeClock())
	assert.Error(t, err)
}

func TestTickAccruesPlaytimeForBothTeams(t *testing.T) {
	s, _ := newPrimary(t)
	s.StartClock()
	for i := 0; i < 5; i++ {
		s.Tick()
	}

	assert.Equal(t, 475, s.Meta().ClockSec)
	assert.Equal(t, 5, s.Playtime(models.SideHome)["H1"])
	assert.Equal(t, 5, s.Playtime(models.SideAway)["A5"])
	assert.Equal(t, 0, s.Playtime(models.SideHome)["H6"])
}

func TestStatStampsConfirmedClockNotLocal(t *testing.T) {
	s, out := newPrimary(t)

	// server-confirmed clock says Q2 5:00 while the local countdown has
	// drifted somewhere else
	s.ApplySnapshot(snapshot(models.PeriodQ2, 300, 0, 0), models.PlayByPlayPage{})
	s.StartClock()
	for i := 0; i < 7; i++ {
		s.Tick()
	}
	require.Equal(t, 293, s.Meta().ClockSec)

	ev, err := s.RecordStat(models.SideHome, "H1", models.EventThreeMake)
	require.NoError(t, err)

	assert.Equal(t, models.PeriodQ2, ev.Period)
	assert.Equal(t, 300, ev.ClockSec)
	assert.NotEmpty(t, ev.EventID)
	assert.Equal(t, "James Monroe", ev.Team)
	assert.Equal(t, 3, s.Score().HomePts)
	require.Len(t, out.stats, 1)
}

func TestStatRejectsBenchPlayer(t *testing.T) {
	s, out := newPrimary(t)
	_, err := s.RecordStat(models.SideHome, "H7", models.EventTwoMake)
	assert.ErrorIs(t, err, lineup.ErrPlayerNotOnFloor)
	assert.Empty(t, out.stats)
	assert.Zero(t, s.Score().HomePts)
}

func TestStatRejectsUnknownEventType(t *testing.T) {
	s, out := newPrimary(t)
	_, err := s.RecordStat(models.SideHome, "H1", models.EventType("DUNK"))
	assert.Error(t, err)
	assert.Empty(t, out.stats)
}

func TestSubDispatchesAndFlushesPlaytime(t *testing.T) {
	s, out := newPrimary(t)
	before := out.playtimes

	ev, err := s.RecordSub(models.SideHome, "H5", "H6")
	require.NoError(t, err)
	assert.Equal(t, "H5", ev.PlayerOut)
	assert.Equal(t, "H6", ev.PlayerIn)
	assert.ElementsMatch(t, []string{"H1", "H2", "H3", "H4", "H6"}, s.OnFloor(models.SideHome))
	require.Len(t, out.subs, 1)
	assert.Equal(t, before+1, out.playtimes)

	// illegal repeat: H5 already off the floor
	_, err = s.RecordSub(models.SideHome, "H5", "H7")
	assert.ErrorIs(t, err, lineup.ErrPlayerNotOnFloor)
	require.Len(t, out.subs, 1)
}

func TestStopClockFlushesPlaytime(t *testing.T) {
	s, out := newPrimary(t)
	s.StartClock()
	s.Tick()
	before := out.playtimes
	s.StopClock()
	assert.Equal(t, before+1, out.playtimes)

	// stopping an already-stopped clock publishes nothing
	s.StopClock()
	assert.Equal(t, before+1, out.playtimes)
}

func TestSetPeriodEmitsAuditedMetaEvent(t *testing.T) {
	s, out := newPrimary(t)
	require.NoError(t, s.SetPeriod(models.PeriodQ2))

	require.Len(t, out.metaEvents, 1)
	ev := out.metaEvents[0]
	assert.Equal(t, models.ReasonQuarterChangeReset, ev.Reason)
	assert.Equal(t, models.PeriodQ2, ev.Period)
	assert.Equal(t, models.PeriodDurationSec, ev.ClockSec)
	assert.False(t, s.Running())
}

func TestSetClockSecEmitsAuditedMetaEvent(t *testing.T) {
	s, out := newPrimary(t)
	require.NoError(t, s.SetClockSec(125))

	require.Len(t, out.metaEvents, 1)
	assert.Equal(t, models.ReasonManualClockEdit, out.metaEvents[0].Reason)
	assert.Equal(t, 125, out.metaEvents[0].ClockSec)

	assert.Error(t, s.SetClockSec(-3))
	require.Len(t, out.metaEvents, 1)
}

func TestPublishStartersRequiresBothFives(t *testing.T) {
	out := &recorder{}
	s := Resume(ResumeState{Meta: meta()}, roster("H", 3), roster("A", 3), out, clockwork.NewFakeClock())
	assert.ErrorIs(t, s.PublishStarters(), lineup.ErrStarterCount)
	assert.Empty(t, out.starters)
}

func TestPublishStartersSendsBothFives(t *testing.T) {
	s, out := newPrimary(t)
	require.NoError(t, s.PublishStarters())
	require.Len(t, out.starters, 1)
	assert.Equal(t, []string{"H1", "H2", "H3", "H4", "H5"}, out.starters[0][0])
	assert.Equal(t, []string{"A1", "A2", "A3", "A4", "A5"}, out.starters[0][1])
}

func TestMetaPublishIsPrimaryOnly(t *testing.T) {
	s, out := newPrimary(t)
	s.PublishMeta()
	assert.Len(t, out.metas, 1)

	out2 := &recorder{}
	sec := Resume(ResumeState{Meta: meta()}, roster("H", 8), roster("A", 7), out2, clockwork.NewFakeClock())
	sec.PublishMeta()
	assert.Empty(t, out2.metas)
}

func TestSecondarySnapshotForcesClockStopped(t *testing.T) {
	out := &recorder{}
	s := Resume(ResumeState{
		Meta: models.GameMeta{GameID: "g", HomeTeam: "JM", AwayTeam: "Opp", Period: models.PeriodQ1, ClockSec: 480},
	}, roster("H", 8), roster("A", 7), out, clockwork.NewFakeClock())

	// secondary mutators are no-ops
	s.StartClock()
	assert.False(t, s.Running())
	require.NoError(t, s.SetPeriod(models.PeriodQ4))
	assert.Empty(t, out.metaEvents)

	s.ApplySnapshot(snapshot(models.PeriodQ2, 300, 10, 8), models.PlayByPlayPage{})
	assert.False(t, s.Running())
	assert.Equal(t, models.PeriodQ2, s.Meta().Period)
	assert.Equal(t, 300, s.Meta().ClockSec)
	assert.Equal(t, models.ScoreLine{HomePts: 10, AwayPts: 8}, s.Score())
}

func TestPrimaryLiveCountdownSurvivesStalePoll(t *testing.T) {
	s, _ := newPrimary(t)
	s.StartClock()
	for i := 0; i < 30; i++ {
		s.Tick()
	}
	require.Equal(t, 450, s.Meta().ClockSec)

	s.ApplySnapshot(snapshot(models.PeriodQ1, 470, 2, 0), models.PlayByPlayPage{})

	// local countdown untouched, but the confirmed clock moved: the
	// next stat stamps the server's game-time
	assert.Equal(t, 450, s.Meta().ClockSec)
	ev, err := s.RecordStat(models.SideHome, "H1", models.EventTwoMake)
	require.NoError(t, err)
	assert.Equal(t, 470, ev.ClockSec)
	// score still reconciled: 2 (server) + 2 (optimistic)
	assert.Equal(t, 4, s.Score().HomePts)
}

func pbpRows(seqs ...int) models.PlayByPlayPage {
	page := models.PlayByPlayPage{}
	for _, seq := range seqs {
		page.Rows = append(page.Rows, models.PlayByPlayRow{Seq: seq, EventType: models.EventTwoMake})
		page.LatestSeq = seq
	}
	return page
}

func TestPlayByPlayIncrementalAppend(t *testing.T) {
	s, _ := newPrimary(t)

	snap := snapshot(models.PeriodQ1, 480, 0, 0)
	s.ApplySnapshot(snap, pbpRows(38, 39, 40))
	require.Equal(t, 40, s.LastSeq())

	// rows 41..43 arrive; a boundary row 40 is resent and must be
	// dropped
	s.ApplySnapshot(snap, pbpRows(40, 41, 42, 43))
	assert.Equal(t, 43, s.LastSeq())

	rows := s.PlayByPlay()
	require.Len(t, rows, 6)
	assert.Equal(t, 41, rows[3].Seq)
	assert.Equal(t, 42, rows[4].Seq)
	assert.Equal(t, 43, rows[5].Seq)

	// applying the same page twice appends nothing
	s.ApplySnapshot(snap, pbpRows(41, 42, 43))
	assert.Len(t, s.PlayByPlay(), 6)
	assert.Equal(t, 43, s.LastSeq())
}

func TestPlayByPlayWindowIsBounded(t *testing.T) {
	s, _ := newPrimary(t)
	snap := snapshot(models.PeriodQ1, 480, 0, 0)

	var seqs []int
	for i := 1; i <= pbpWindow+37; i++ {
		seqs = append(seqs, i)
	}
	s.ApplySnapshot(snap, pbpRows(seqs...))

	rows := s.PlayByPlay()
	require.Len(t, rows, pbpWindow)
	assert.Equal(t, 38, rows[0].Seq)
	assert.Equal(t, pbpWindow+37, rows[len(rows)-1].Seq)
}

func TestSnapshotIdempotence(t *testing.T) {
	s, _ := newPrimary(t)
	snap := snapshot(models.PeriodQ3, 120, 33, 28)
	snap.OnFloorHome = []string{"H2", "H3", "H4", "H5", "H6"}
	snap.PlaytimeHome = map[string]int{"H1": 300, "H2": 411}

	s.ApplySnapshot(snap, pbpRows(1, 2))
	floor := s.OnFloor(models.SideHome)
	pt := s.Playtime(models.SideHome)
	sc := s.Score()

	s.ApplySnapshot(snap, pbpRows(1, 2))
	assert.Equal(t, floor, s.OnFloor(models.SideHome))
	assert.Equal(t, pt, s.Playtime(models.SideHome))
	assert.Equal(t, sc, s.Score())
	assert.Len(t, s.PlayByPlay(), 2)
}

func TestEndGameFlushesPlaytime(t *testing.T) {
	s, out := newPrimary(t)
	before := out.playtimes
	s.End(true)
	assert.Equal(t, before+1, out.playtimes)
	assert.Equal(t, []bool{true}, out.ends)
}
