package sheetapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jmhoops/courtside/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnwrapJSONP(t *testing.T) {
	body, err := unwrapJSONP(`cb_abc({"ok":true});`, "cb_abc")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, body)

	// no trailing semicolon
	body, err = unwrapJSONP(`cb_abc({"ok":true})`, "cb_abc")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, body)

	// plain JSON passes through
	body, err = unwrapJSONP(`{"ok":true}`, "cb_abc")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, body)

	_, err = unwrapJSONP(`<html>error</html>`, "cb_abc")
	assert.Error(t, err)

	_, err = unwrapJSONP(`cb_abc{"ok":true}`, "cb_abc")
	assert.Error(t, err)
}

func TestGetLiveSnapshotRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, ViewAPI, q.Get(ParamView))
		assert.Equal(t, ActionGetLiveSnapshot, q.Get(ParamAction))
		assert.Equal(t, "secret", q.Get(ParamAccessToken))
		assert.Equal(t, "JM_2026-01-10_001", q.Get(ParamGameID))
		assert.Equal(t, "40", q.Get(ParamSincePbpSeq))
		cb := q.Get(ParamCallback)
		require.NotEmpty(t, cb)

		payload := map[string]any{
			"ok": true,
			"live": map[string]any{
				"meta": map[string]any{
					"game_id":   "JM_2026-01-10_001",
					"home_team": "James Monroe",
					"away_team": "Opponent",
					"period":    "Q2",
					"clock_sec": 300,
				},
				"score":         map[string]int{"home_pts": 21, "away_pts": 18},
				"on_floor_home": []string{"H3", "H10", "H12", "H13", "H33"},
				"on_floor_away": []string{"A1", "A2", "A3", "A4", "A5"},
				"playtime_home": map[string]int{"H3": 180},
			},
			"pbp": map[string]any{
				"rows": []map[string]any{
					{"seq": 41, "period": "Q2", "clock_sec": 305, "team": "James Monroe", "player_id": "H3", "event_type": "2M"},
					{"seq": 42, "period": "Q2", "clock_sec": 301, "team": "Opponent", "player_id": "A2", "event_type": "TO"},
				},
				"latest_seq": 42,
			},
		}
		body, _ := json.Marshal(payload)
		fmt.Fprintf(w, "%s(%s);", cb, body)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	snap, err := c.GetLiveSnapshot(context.Background(), "JM_2026-01-10_001", 40)
	require.NoError(t, err)

	assert.Equal(t, models.PeriodQ2, snap.Live.Meta.Period)
	assert.Equal(t, 300, snap.Live.Meta.ClockSec)
	assert.Equal(t, 21, snap.Live.Score.HomePts)
	assert.Equal(t, []string{"H3", "H10", "H12", "H13", "H33"}, snap.Live.OnFloorHome)
	assert.Equal(t, 180, snap.Live.PlaytimeHome["H3"])
	require.Len(t, snap.Pbp.Rows, 2)
	assert.Equal(t, 41, snap.Pbp.Rows[0].Seq)
	assert.Equal(t, 42, snap.Pbp.LatestSeq)
}

func TestUnauthorizedEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cb := r.URL.Query().Get(ParamCallback)
		fmt.Fprintf(w, `%s({"ok":false,"error":"Unauthorized token"});`, cb)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "wrong")
	_, err := c.ListGames(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestListGames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cb := r.URL.Query().Get(ParamCallback)
		fmt.Fprintf(w, `%s({"ok":true,"games":[{"game_id":"g1","home_team":"JM","away_team":"Opp","archive_tab":"G_g1"}]});`, cb)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	games, err := c.ListGames(context.Background())
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "g1", games[0].GameID)
	assert.Equal(t, "G_g1", games[0].ArchiveTab)
}

func TestStatWritePayload(t *testing.T) {
	var got StatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		// opaque response on purpose
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	err := c.PublishStat(context.Background(), models.StatEvent{
		EventID:   "ev-1",
		Timestamp: time.Date(2026, 1, 10, 19, 30, 0, 0, time.UTC),
		GameID:    "g1",
		Period:    models.PeriodQ1,
		ClockSec:  455,
		Team:      "James Monroe",
		PlayerID:  "H3",
		EventType: models.EventTwoMake,
		Delta:     1,
	})
	require.NoError(t, err)

	assert.Equal(t, ActionStat, got.Action)
	assert.Equal(t, "secret", got.AccessToken)
	assert.Equal(t, "ev-1", got.EventID)
	assert.Equal(t, "2026-01-10T19:30:00Z", got.TsISO)
	assert.Equal(t, 455, got.ClockSec)
	assert.Equal(t, models.EventTwoMake, got.EventType)
}

func TestGetGameStateFailureEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cb := r.URL.Query().Get(ParamCallback)
		fmt.Fprintf(w, `%s({"ok":false,"error":"game not found"});`, cb)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	_, err := c.GetGameState(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "game not found")
}
