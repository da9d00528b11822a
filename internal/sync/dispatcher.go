// Package sync drives the session's traffic with the remote store: the
// fire-and-forget outbound dispatcher, the snapshot poll loop, and the
// periodic tick/publish loops. Nothing here ever blocks a keeper
// action, and no transient failure stops any loop.
package sync

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/jmhoops/courtside/clients/sheetapi"
	"github.com/jmhoops/courtside/internal/models"
)

// Outbound write queue sizing. Saturation means the store has been
// unreachable for a while; dropping is acceptable because the next
// snapshot is the source of truth anyway.
const dispatchQueueSize = 64

// StoreWriter is the write half of the sheet client.
type StoreWriter interface {
	InitGame(ctx context.Context, meta models.GameMeta, home, away models.Roster) error
	PublishStarters(ctx context.Context, home, away []string) error
	PublishPlaytime(ctx context.Context, home, away map[string]int) error
	PublishStat(ctx context.Context, ev models.StatEvent) error
	PublishSub(ctx context.Context, ev models.SubEvent) error
	PublishMeta(ctx context.Context, meta models.GameMeta) error
	PublishMetaEvent(ctx context.Context, ev models.MetaEvent) error
	EndGame(ctx context.Context, gameID string, resetLive bool) error
}

type job struct {
	action string
	send   func(ctx context.Context) error
}

// Dispatcher serializes fire-and-forget writes through one worker.
// Every write is sent at most once: failures are logged, never retried;
// the next poll or the next keeper action is the de facto retry.
type Dispatcher struct {
	writer StoreWriter
	jobs   chan job
}

// NewDispatcher creates a dispatcher around a store writer. Run must be
// started for writes to drain.
func NewDispatcher(writer StoreWriter) *Dispatcher {
	return &Dispatcher{
		writer: writer,
		jobs:   make(chan job, dispatchQueueSize),
	}
}

// Run drains the queue until the context is cancelled, then flushes
// whatever is still queued under one final write budget so a quick
// shutdown does not silently discard the last few taps.
func (d *Dispatcher) Run(ctx context.Context) {
	log.Info().Msg("outbound dispatcher started")
	for {
		select {
		case <-ctx.Done():
			d.flush()
			log.Info().Msg("outbound dispatcher stopped")
			return
		case j := <-d.jobs:
			reqCtx, cancel := context.WithTimeout(ctx, sheetapi.WriteTimeout)
			d.send(reqCtx, j)
			cancel()
		}
	}
}

// flush sends every job still queued at shutdown, all sharing one
// WriteTimeout budget detached from the cancelled run context.
func (d *Dispatcher) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), sheetapi.WriteTimeout)
	defer cancel()
	for {
		select {
		case j := <-d.jobs:
			d.send(ctx, j)
		default:
			return
		}
	}
}

func (d *Dispatcher) send(ctx context.Context, j job) {
	if err := j.send(ctx); err != nil {
		// fire-and-forget: swallowed, the operator can re-enter a lost
		// stat
		log.Warn().Err(err).Str("action", j.action).Msg("outbound write failed")
	} else {
		log.Debug().Str("action", j.action).Msg("outbound write sent")
	}
}

// enqueue captures the payload now and never blocks the caller.
func (d *Dispatcher) enqueue(action string, send func(ctx context.Context) error) {
	select {
	case d.jobs <- job{action: action, send: send}:
	default:
		log.Warn().Str("action", action).Msg("outbound queue full, write dropped")
	}
}

func (d *Dispatcher) InitGame(meta models.GameMeta, home, away models.Roster) {
	d.enqueue("init_game", func(ctx context.Context) error {
		return d.writer.InitGame(ctx, meta, home, away)
	})
}

func (d *Dispatcher) Starters(home, away []string) {
	d.enqueue("set_starters", func(ctx context.Context) error {
		return d.writer.PublishStarters(ctx, home, away)
	})
}

func (d *Dispatcher) Playtime(home, away map[string]int) {
	d.enqueue("set_playtime", func(ctx context.Context) error {
		return d.writer.PublishPlaytime(ctx, home, away)
	})
}

func (d *Dispatcher) Stat(ev models.StatEvent) {
	d.enqueue("stat", func(ctx context.Context) error {
		return d.writer.PublishStat(ctx, ev)
	})
}

func (d *Dispatcher) Sub(ev models.SubEvent) {
	d.enqueue("sub", func(ctx context.Context) error {
		return d.writer.PublishSub(ctx, ev)
	})
}

func (d *Dispatcher) Meta(meta models.GameMeta) {
	d.enqueue("set_meta", func(ctx context.Context) error {
		return d.writer.PublishMeta(ctx, meta)
	})
}

func (d *Dispatcher) MetaEvent(ev models.MetaEvent) {
	d.enqueue("set_meta", func(ctx context.Context) error {
		return d.writer.PublishMetaEvent(ctx, ev)
	})
}

func (d *Dispatcher) EndGame(gameID string, resetLive bool) {
	d.enqueue("end_game", func(ctx context.Context) error {
		return d.writer.EndGame(ctx, gameID, resetLive)
	})
}
