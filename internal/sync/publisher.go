package sync

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Publish cadences while a game is open.
const (
	TickInterval            = time.Second
	MetaPublishInterval     = 5 * time.Second
	PlaytimePublishInterval = 15 * time.Second
)

// TickTarget is what the ticker needs from the session.
type TickTarget interface {
	Tick()
}

// PublishTarget is what the periodic publishers need from the session.
type PublishTarget interface {
	PublishMeta()
	PublishPlaytime()
}

// Ticker drives the session's one-second clock tick.
type Ticker struct {
	target TickTarget
	clock  clockwork.Clock
}

func NewTicker(target TickTarget, clk clockwork.Clock) *Ticker {
	return &Ticker{target: target, clock: clk}
}

// Run ticks until the context is cancelled. The session ignores ticks
// while its clock is stopped, so the loop itself never pauses.
func (t *Ticker) Run(ctx context.Context) {
	timer := t.clock.NewTimer(TickInterval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.Chan():
		}
		t.target.Tick()
		timer.Reset(TickInterval)
	}
}

// Publisher pushes the game meta every 5 seconds and the playtime
// mappings every 15, keeping the store current between keeper actions.
type Publisher struct {
	target PublishTarget
	clock  clockwork.Clock
}

func NewPublisher(target PublishTarget, clk clockwork.Clock) *Publisher {
	return &Publisher{target: target, clock: clk}
}

// Run publishes until the context is cancelled.
func (p *Publisher) Run(ctx context.Context) {
	log.Info().
		Dur("meta_every", MetaPublishInterval).
		Dur("playtime_every", PlaytimePublishInterval).
		Msg("periodic publisher started")

	metaTimer := p.clock.NewTimer(MetaPublishInterval)
	defer metaTimer.Stop()
	playtimeTimer := p.clock.NewTimer(PlaytimePublishInterval)
	defer playtimeTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("periodic publisher stopped")
			return
		case <-metaTimer.Chan():
			p.target.PublishMeta()
			metaTimer.Reset(MetaPublishInterval)
		case <-playtimeTimer.Chan():
			p.target.PublishPlaytime()
			playtimeTimer.Reset(PlaytimePublishInterval)
		}
	}
}
