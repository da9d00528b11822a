package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jmhoops/courtside/clients/sheetapi"
	"github.com/jmhoops/courtside/internal/config"
	"github.com/jmhoops/courtside/internal/models"
	"github.com/jmhoops/courtside/internal/session"
	gamesync "github.com/jmhoops/courtside/internal/sync"
)

func main() {
	configPath := flag.String("config", "courtside.yaml", "path to the keeper config file")
	resumeID := flag.String("resume", "", "join an existing game as secondary instead of starting a new one")
	listGames := flag.Bool("list", false, "list stored games and exit")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	// Setup logging
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *configPath).Msg("failed to load config")
	}

	client := sheetapi.NewClient(cfg.Endpoint, cfg.AccessToken)

	if *listGames {
		ctx, cancel := context.WithTimeout(context.Background(), sheetapi.ReadTimeout)
		defer cancel()
		games, err := client.ListGames(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to list games")
		}
		for _, g := range games {
			log.Info().
				Str("game_id", g.GameID).
				Str("home", g.HomeTeam).
				Str("away", g.AwayTeam).
				Str("archive_tab", g.ArchiveTab).
				Msg("stored game")
		}
		return
	}

	home, err := cfg.Roster(models.SideHome)
	if err != nil {
		log.Fatal().Err(err).Msg("bad home roster")
	}
	away, err := cfg.Roster(models.SideAway)
	if err != nil {
		log.Fatal().Err(err).Msg("bad away roster")
	}

	wall := clockwork.NewRealClock()
	dispatcher := gamesync.NewDispatcher(client)

	var sess *session.Session
	if *resumeID != "" {
		ctx, cancel := context.WithTimeout(context.Background(), sheetapi.ReadTimeout)
		state, err := client.GetGameState(ctx, *resumeID)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Str("game_id", *resumeID).Msg("failed to fetch game state")
		}
		sess = session.Resume(session.ResumeState{
			Meta:         state.GameMeta,
			Score:        state.Score,
			StartersHome: state.StartersHome,
			StartersAway: state.StartersAway,
			PlaytimeHome: state.PlaytimeHome,
			PlaytimeAway: state.PlaytimeAway,
		}, home, away, dispatcher, wall)
	} else {
		meta := models.GameMeta{
			GameID:   cfg.Game.ID,
			HomeTeam: cfg.Game.HomeTeam,
			AwayTeam: cfg.Game.AwayTeam,
		}
		if meta.GameID == "" {
			meta.GameID = wall.Now().Format("2006-01-02_150405")
		}
		sess, err = session.Start(meta, home, away, dispatcher, wall)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to start game")
		}
	}

	log.Info().
		Str("game_id", sess.GameID()).
		Str("role", string(sess.Role())).
		Str("endpoint", cfg.Endpoint).
		Msg("statkeeper session up")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dispatcherDone := make(chan struct{})
	go func() {
		dispatcher.Run(ctx)
		close(dispatcherDone)
	}()
	go gamesync.NewTicker(sess, wall).Run(ctx)
	go gamesync.NewPoller(client, sess, wall).Run(ctx)
	go gamesync.NewPublisher(sess, wall).Run(ctx)

	<-ctx.Done()
	log.Info().Msg("received shutdown signal")

	// the dispatcher flushes queued writes before it stops
	select {
	case <-dispatcherDone:
	case <-time.After(sheetapi.WriteTimeout + time.Second):
		log.Warn().Msg("dispatcher still flushing at shutdown deadline")
	}

	score := sess.Score()
	log.Info().
		Str("game_id", sess.GameID()).
		Int("home_pts", score.HomePts).
		Int("away_pts", score.AwayPts).
		Msg("statkeeper shutdown complete")
}
