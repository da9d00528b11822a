package sync

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/jmhoops/courtside/clients/sheetapi"
	"github.com/jmhoops/courtside/internal/models"
)

// PollInterval is the fixed snapshot poll cadence while a game is open.
const PollInterval = 1200 * time.Millisecond

// SnapshotFetcher is the read half of the sheet client used by the
// poll loop.
type SnapshotFetcher interface {
	GetLiveSnapshot(ctx context.Context, gameID string, sincePbpSeq int) (*sheetapi.SnapshotResponse, error)
}

// SnapshotApplier is what the poller needs from the session.
type SnapshotApplier interface {
	GameID() string
	LastSeq() int
	ApplySnapshot(live models.LiveSnapshot, pbp models.PlayByPlayPage)
}

// Poller pulls the live snapshot on a fixed interval and merges it into
// the session. Failed polls are swallowed and the loop reschedules
// itself regardless; polling only ends when the context is cancelled,
// and results that race the cancellation are discarded unapplied.
type Poller struct {
	fetcher  SnapshotFetcher
	applier  SnapshotApplier
	interval time.Duration
	clock    clockwork.Clock
}

// NewPoller creates a poller at the standard interval.
func NewPoller(fetcher SnapshotFetcher, applier SnapshotApplier, clk clockwork.Clock) *Poller {
	return &Poller{
		fetcher:  fetcher,
		applier:  applier,
		interval: PollInterval,
		clock:    clk,
	}
}

// Run polls until the context is cancelled.
func (p *Poller) Run(ctx context.Context) {
	log.Info().Str("game_id", p.applier.GameID()).Dur("interval", p.interval).Msg("snapshot poller started")

	timer := p.clock.NewTimer(p.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("snapshot poller stopped")
			return
		case <-timer.Chan():
		}

		p.pollOnce(ctx)
		timer.Reset(p.interval)
	}
}

// pollOnce performs a single fetch-and-merge. Any failure is logged and
// dropped; the caller reschedules unconditionally.
func (p *Poller) pollOnce(ctx context.Context) {
	reqCtx, cancel := context.WithTimeout(ctx, sheetapi.ReadTimeout)
	defer cancel()

	snap, err := p.fetcher.GetLiveSnapshot(reqCtx, p.applier.GameID(), p.applier.LastSeq())
	if err != nil {
		log.Warn().Err(err).Msg("snapshot poll failed")
		return
	}

	// the keeper may have left the game screen while the request was in
	// flight; a late result must not be applied
	if ctx.Err() != nil {
		log.Debug().Msg("discarding snapshot that arrived after stop")
		return
	}

	p.applier.ApplySnapshot(snap.Live, snap.Pbp)
}
