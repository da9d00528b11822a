// Package sheetapi is the client for the spreadsheet-backed live store
// (a Google Apps Script web app). Writes are opaque-response POSTs and
// are treated as fire-and-forget by callers; reads are JSONP-style GETs
// where the response arrives wrapped in a named callback that this
// client strips before decoding.
package sheetapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmhoops/courtside/clients"
	"github.com/jmhoops/courtside/internal/models"
)

// ErrUnauthorized marks a not-ok envelope that indicates a bad or
// missing access token. Callers surface it with a "check token"
// message instead of a generic failure.
var ErrUnauthorized = errors.New("unauthorized: check access token")

// Client talks to one Apps Script deployment with one access token.
type Client struct {
	*clients.BaseClient
	token string
}

// NewClient creates a client for the given web-app URL.
func NewClient(endpointURL, token string) *Client {
	client := &Client{
		BaseClient: clients.NewBaseClient(endpointURL),
		token:      token,
	}
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(ReadTimeout + time.Second)
	return client
}

// post marshals a write payload and sends it. The store's response body
// carries no information for writes, so it is discarded; only transport
// failures are reported.
func (c *Client) post(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", actionOf(payload), err)
	}
	if _, err := c.Post(ctx, "", bytes.NewReader(body)); err != nil {
		return fmt.Errorf("%s write failed: %w", actionOf(payload), err)
	}
	return nil
}

func actionOf(payload any) string {
	switch p := payload.(type) {
	case InitGameRequest:
		return p.Action
	case SetStartersRequest:
		return p.Action
	case SetPlaytimeRequest:
		return p.Action
	case StatRequest:
		return p.Action
	case SubRequest:
		return p.Action
	case SetMetaRequest:
		return p.Action
	case EndGameRequest:
		return p.Action
	}
	return "unknown"
}

// getJSONP performs a read: GET with view=api plus the action params and
// a fresh callback name, then strips the callback wrapper and decodes
// the envelope into out.
func (c *Client) getJSONP(ctx context.Context, params url.Values, out any) error {
	cb := "cb_" + strings.ReplaceAll(uuid.New().String()[:8], "-", "")
	params.Set(ParamView, ViewAPI)
	params.Set(ParamAccessToken, c.token)
	params.Set(ParamCallback, cb)

	raw, err := c.Get(ctx, "?"+params.Encode())
	if err != nil {
		return err
	}

	body, err := unwrapJSONP(string(raw), cb)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(body), out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", params.Get(ParamAction), err)
	}
	return nil
}

// unwrapJSONP strips `cb(...)` (with optional trailing semicolon) from
// a response body. Plain JSON bodies pass through untouched so the
// client also works against endpoints that ignore the callback param.
func unwrapJSONP(body, callback string) (string, error) {
	s := strings.TrimSpace(body)
	if strings.HasPrefix(s, "{") {
		return s, nil
	}
	if !strings.HasPrefix(s, callback) {
		return "", fmt.Errorf("response is not JSON or %s(...) callback", callback)
	}
	s = strings.TrimPrefix(s, callback)
	s = strings.TrimSuffix(strings.TrimSpace(s), ";")
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return "", fmt.Errorf("malformed %s(...) callback body", callback)
	}
	return s[1 : len(s)-1], nil
}

func (e envelope) err(action string) error {
	if e.OK {
		return nil
	}
	if strings.Contains(strings.ToLower(e.Error), "unauthorized") {
		return ErrUnauthorized
	}
	if e.Error == "" {
		return fmt.Errorf("%s failed", action)
	}
	return fmt.Errorf("%s failed: %s", action, e.Error)
}

// InitGame creates (or resets) the live game on the store.
func (c *Client) InitGame(ctx context.Context, meta models.GameMeta, home, away models.Roster) error {
	return c.post(ctx, InitGameRequest{
		AccessToken: c.token,
		Action:      ActionInitGame,
		GameID:      meta.GameID,
		HomeTeam:    meta.HomeTeam,
		AwayTeam:    meta.AwayTeam,
		Period:      meta.Period,
		ClockSec:    meta.ClockSec,
		HomeRoster:  home,
		AwayRoster:  away,
	})
}

// PublishStarters stores the starting fives.
func (c *Client) PublishStarters(ctx context.Context, home, away []string) error {
	return c.post(ctx, SetStartersRequest{
		AccessToken:  c.token,
		Action:       ActionSetStarters,
		StartersHome: home,
		StartersAway: away,
	})
}

// PublishPlaytime stores both playtime mappings.
func (c *Client) PublishPlaytime(ctx context.Context, home, away map[string]int) error {
	return c.post(ctx, SetPlaytimeRequest{
		AccessToken:  c.token,
		Action:       ActionSetPlaytime,
		PlaytimeHome: home,
		PlaytimeAway: away,
	})
}

// PublishStat appends one stat event to the log.
func (c *Client) PublishStat(ctx context.Context, ev models.StatEvent) error {
	return c.post(ctx, StatRequest{
		AccessToken: c.token,
		Action:      ActionStat,
		EventID:     ev.EventID,
		TsISO:       ev.Timestamp.UTC().Format(time.RFC3339),
		GameID:      ev.GameID,
		Period:      ev.Period,
		ClockSec:    ev.ClockSec,
		Team:        ev.Team,
		PlayerID:    ev.PlayerID,
		EventType:   ev.EventType,
		Delta:       ev.Delta,
	})
}

// PublishSub appends one substitution event to the log.
func (c *Client) PublishSub(ctx context.Context, ev models.SubEvent) error {
	return c.post(ctx, SubRequest{
		AccessToken: c.token,
		Action:      ActionSub,
		EventID:     ev.EventID,
		TsISO:       ev.Timestamp.UTC().Format(time.RFC3339),
		GameID:      ev.GameID,
		Period:      ev.Period,
		ClockSec:    ev.ClockSec,
		Team:        ev.Team,
		PlayerOut:   ev.PlayerOut,
		PlayerIn:    ev.PlayerIn,
	})
}

// PublishMeta refreshes the stored game meta (periodic keep-current
// write, no audit fields).
func (c *Client) PublishMeta(ctx context.Context, meta models.GameMeta) error {
	return c.post(ctx, SetMetaRequest{
		AccessToken: c.token,
		Action:      ActionSetMeta,
		GameID:      meta.GameID,
		HomeTeam:    meta.HomeTeam,
		AwayTeam:    meta.AwayTeam,
		Period:      meta.Period,
		ClockSec:    meta.ClockSec,
	})
}

// PublishMetaEvent records an audited period/clock edit with its reason
// tag.
func (c *Client) PublishMetaEvent(ctx context.Context, ev models.MetaEvent) error {
	return c.post(ctx, SetMetaRequest{
		AccessToken: c.token,
		Action:      ActionSetMeta,
		GameID:      ev.GameID,
		HomeTeam:    ev.HomeTeam,
		AwayTeam:    ev.AwayTeam,
		Period:      ev.Period,
		ClockSec:    ev.ClockSec,
		MetaEventID: ev.EventID,
		Reason:      ev.Reason,
	})
}

// EndGame archives the live game, optionally resetting the live sheet.
func (c *Client) EndGame(ctx context.Context, gameID string, resetLive bool) error {
	return c.post(ctx, EndGameRequest{
		AccessToken: c.token,
		Action:      ActionEndGame,
		GameID:      gameID,
		ResetLive:   resetLive,
	})
}

// ListGames returns the store's game list, newest first.
func (c *Client) ListGames(ctx context.Context) ([]models.GameSummary, error) {
	params := url.Values{}
	params.Set(ParamAction, ActionListGames)

	var resp listGamesResponse
	if err := c.getJSONP(ctx, params, &resp); err != nil {
		return nil, err
	}
	if err := resp.err(ActionListGames); err != nil {
		return nil, err
	}
	return resp.Games, nil
}

// GetGameState fetches the stored state of one game for join/resume.
func (c *Client) GetGameState(ctx context.Context, gameID string) (*GameState, error) {
	params := url.Values{}
	params.Set(ParamAction, ActionGetGameState)
	params.Set(ParamGameID, gameID)

	var resp gameStateResponse
	if err := c.getJSONP(ctx, params, &resp); err != nil {
		return nil, err
	}
	if err := resp.err(ActionGetGameState); err != nil {
		return nil, err
	}
	return &resp.Game, nil
}

// GetLiveSnapshot fetches the live view plus play-by-play rows strictly
// after sincePbpSeq.
func (c *Client) GetLiveSnapshot(ctx context.Context, gameID string, sincePbpSeq int) (*SnapshotResponse, error) {
	params := url.Values{}
	params.Set(ParamAction, ActionGetLiveSnapshot)
	params.Set(ParamGameID, gameID)
	params.Set(ParamSincePbpSeq, strconv.Itoa(sincePbpSeq))

	var resp snapshotEnvelope
	if err := c.getJSONP(ctx, params, &resp); err != nil {
		return nil, err
	}
	if err := resp.err(ActionGetLiveSnapshot); err != nil {
		return nil, err
	}
	return &resp.SnapshotResponse, nil
}
