package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/recall-server/internal/recall"
	"github.com/vancomm/recall-server/internal/settings"
)

func newTestGame(t *testing.T) *recall.GameState {
	t.Helper()
	s := settings.Defaults()
	s.Seed = 42
	g, err := recall.NewGame(s)
	require.NoError(t, err)
	return g
}

func TestExecuteCommand(t *testing.T) {
	g := newTestGame(t)

	correct, err := ExecuteCommand(g, "g")
	require.NoError(t, err)
	assert.Nil(t, correct)

	_, err = ExecuteCommand(g, "s 0 3")
	assert.ErrorIs(t, err, recall.ErrNotActive)

	_, err = ExecuteCommand(g, "b")
	require.NoError(t, err)
	assert.Equal(t, recall.StatusActive, g.Status)

	correct, err = ExecuteCommand(g, "s 0 3")
	require.NoError(t, err)
	require.NotNil(t, correct)
	assert.True(t, *correct)

	correct, err = ExecuteCommand(g, "  s   3 3 ")
	require.NoError(t, err)
	assert.False(t, *correct)

	_, err = ExecuteCommand(g, "f")
	assert.ErrorIs(t, err, recall.ErrNotFlashing)

	_, err = ExecuteCommand(g, "r")
	require.NoError(t, err)
	assert.Equal(t, recall.StatusSurrender, g.Status)
}

func TestExecuteCommandRejects(t *testing.T) {
	g := newTestGame(t)
	for _, c := range []string{"", "x", "o 1 1"} {
		_, err := ExecuteCommand(g, c)
		assert.ErrorIs(t, err, ErrUnknownCommand, c)
	}
	for _, c := range []string{"s", "s 1", "b 1", "s 1 2 3"} {
		_, err := ExecuteCommand(g, c)
		assert.ErrorIs(t, err, ErrCommandArgs, c)
	}
	_, err := ExecuteCommand(g, "s a 1")
	assert.EqualError(t, err, "first argument must be an int")
	_, err = ExecuteCommand(g, "s 1 b")
	assert.EqualError(t, err, "second argument must be an int")
}

func TestConnectWS(t *testing.T) {
	repo := newMemRepo()
	h := newGameRouter(repo)
	require.Equal(t, http.StatusCreated, do(h, "POST", "/game?seed=42", nil).Code)

	srv := httptest.NewServer(h)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/game/1/connect"
	c, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer c.Close()

	send := func(msg string) GameSessionDTO {
		require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte(msg)))
		var dto GameSessionDTO
		require.NoError(t, c.ReadJSON(&dto))
		return dto
	}

	dto := send("g")
	assert.Equal(t, recall.StatusFlashing, dto.Status)

	dto = send("b\ns 0 3")
	assert.Equal(t, recall.StatusActive, dto.Status)
	require.NotNil(t, dto.Correct)
	assert.True(t, *dto.Correct)
	assert.Equal(t, 1, dto.Hits)

	require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte("x")))
	var e ErrorDTO
	require.NoError(t, c.ReadJSON(&e))
	assert.Contains(t, e.Error, "unknown command")

	dto = send("s 0 2\ns 1 3")
	assert.Equal(t, 3, dto.Hits)

	dto = send("r")
	assert.Equal(t, recall.StatusSurrender, dto.Status)
	assert.NotNil(t, dto.EndedAt)

	assert.Equal(t, "surrender", repo.session(1).Status)
	assert.NotNil(t, repo.session(1).EndedAt)
}

func TestConnectWSMissingSession(t *testing.T) {
	srv := httptest.NewServer(newGameRouter(newMemRepo()))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/game/7/connect"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
