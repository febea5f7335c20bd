package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battleship/internal/codec"
	"battleship/internal/config"
	"battleship/internal/game"
)

func newTestServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	ts := httptest.NewServer(New(cfg, zerolog.Nop()).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, ts *httptest.Server, method, path string, body any, out any) int {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.URL+path, rd)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func newGame(t *testing.T, ts *httptest.Server, seed int64) codec.GameStatus {
	t.Helper()
	var st codec.GameStatus
	code := do(t, ts, http.MethodPost, "/v1/games", codec.NewGameRequest{Seed: &seed}, &st)
	require.Equal(t, http.StatusCreated, code)
	require.NotEmpty(t, st.ID)
	return st
}

func TestNewGame(t *testing.T) {
	ts := newTestServer(t, nil)
	st := newGame(t, ts, 1)
	assert.Equal(t, 10, st.Size)
	assert.Equal(t, 0, st.Shots)
	assert.Len(t, st.Ships, 5)
	assert.Empty(t, st.RootHex, "no commitment without keys")

	// body is optional
	var st2 codec.GameStatus
	code := do(t, ts, http.MethodPost, "/v1/games", nil, &st2)
	assert.Equal(t, http.StatusCreated, code)
	assert.NotEqual(t, st.ID, st2.ID)
}

func TestShootFlow(t *testing.T) {
	ts := newTestServer(t, nil)
	st := newGame(t, ts, 2)

	var res codec.ShotResult
	code := do(t, ts, http.MethodPost, "/v1/games/"+st.ID+"/shots", codec.ShotRequest{X: 3, Y: 4}, &res)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, res.Shots)
	assert.Equal(t, 3, res.X)

	code = do(t, ts, http.MethodPost, "/v1/games/"+st.ID+"/shots", codec.ShotRequest{X: 3, Y: 4}, &res)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, res.Repeated)
	assert.Equal(t, 1, res.Shots)

	var errBody map[string]string
	code = do(t, ts, http.MethodPost, "/v1/games/"+st.ID+"/shots", codec.ShotRequest{X: 11, Y: 1}, &errBody)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, errBody["error"], "out of range")

	var status codec.GameStatus
	code = do(t, ts, http.MethodGet, "/v1/games/"+st.ID, nil, &status)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, status.Shots)
	require.Len(t, status.Shot, 1)
	assert.Equal(t, codec.CellStatus{X: 3, Y: 4, Hit: res.Hit}, status.Shot[0])
}

func TestAIPlaysToGameOver(t *testing.T) {
	ts := newTestServer(t, nil)
	st := newGame(t, ts, 3)

	var res codec.ShotResult
	for i := 0; i < 100 && !res.GameOver; i++ {
		code := do(t, ts, http.MethodPost, "/v1/games/"+st.ID+"/ai", nil, &res)
		require.Equal(t, http.StatusOK, code)
	}
	require.True(t, res.GameOver)

	var status codec.GameStatus
	do(t, ts, http.MethodGet, "/v1/games/"+st.ID, nil, &status)
	assert.True(t, status.GameOver)
	for _, s := range status.Ships {
		assert.True(t, s.Sunk, s.Name)
	}
	last := status.Events[len(status.Events)-1]
	assert.Equal(t, game.EventGameOver, last.Kind)
}

func TestAINoMoves(t *testing.T) {
	cfg := config.Default()
	cfg.Board.Size = 2
	cfg.Board.Fleet = []game.ShipClass{{Name: "A", Length: 1}}
	ts := newTestServer(t, cfg)
	st := newGame(t, ts, 4)

	var res codec.ShotResult
	for !res.GameOver {
		require.Equal(t, http.StatusOK, do(t, ts, http.MethodPost, "/v1/games/"+st.ID+"/ai", nil, &res))
	}
	// keep going on water until every cell is tried
	code := http.StatusOK
	for i := 0; i < 4 && code == http.StatusOK; i++ {
		code = do(t, ts, http.MethodPost, "/v1/games/"+st.ID+"/ai", nil, nil)
	}
	assert.Equal(t, http.StatusConflict, code)
}

func TestReset(t *testing.T) {
	ts := newTestServer(t, nil)
	st := newGame(t, ts, 5)
	do(t, ts, http.MethodPost, "/v1/games/"+st.ID+"/shots", codec.ShotRequest{X: 1, Y: 1}, nil)

	var status codec.GameStatus
	code := do(t, ts, http.MethodPost, "/v1/games/"+st.ID+"/reset", nil, &status)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0, status.Shots)
	assert.Empty(t, status.Shot)
}

func TestUnknownGame(t *testing.T) {
	ts := newTestServer(t, nil)
	var errBody map[string]string
	code := do(t, ts, http.MethodGet, "/v1/games/nope", nil, &errBody)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, ErrGameNotFound.Error(), errBody["error"])
}

func TestBadJSON(t *testing.T) {
	ts := newTestServer(t, nil)
	st := newGame(t, ts, 6)
	resp, err := http.Post(ts.URL+"/v1/games/"+st.ID+"/shots", "application/json", bytes.NewBufferString("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProofDisabled(t *testing.T) {
	ts := newTestServer(t, nil)
	st := newGame(t, ts, 7)
	code := do(t, ts, http.MethodGet, "/v1/games/"+st.ID+"/proof?x=1&y=1", nil, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, nil)
	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/v1/games", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
