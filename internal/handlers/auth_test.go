package handlers

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vancomm/recall-server/internal/config"
	"github.com/vancomm/recall-server/internal/middleware"
	"github.com/vancomm/recall-server/internal/recall"
	"github.com/vancomm/recall-server/internal/repository"
)

func newTestAuth(t *testing.T) (*Auth, *memRepo) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	repo := newMemRepo()
	a := NewAuth(
		quietLogger(), repo, &config.Cookies{SameSite: "lax"},
		config.NewJWTFromKeys(key, nil, time.Hour),
	)
	a.bcryptCost = bcrypt.MinCost
	return a, repo
}

func postForm(h http.HandlerFunc, username, password string) *httptest.ResponseRecorder {
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest("POST", "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func cookieNames(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	m := make(map[string]*http.Cookie)
	for _, c := range rec.Result().Cookies() {
		m[c.Name] = c
	}
	return m
}

func TestRegister(t *testing.T) {
	a, repo := newTestAuth(t)

	rec := postForm(a.Register, "alice", "hunter2")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	status := decode[AuthStatus](t, rec)
	assert.True(t, status.LoggedIn)
	assert.Equal(t, "alice", status.Player.Username)

	cookies := cookieNames(rec)
	require.Contains(t, cookies, "auth")
	require.Contains(t, cookies, "sign")
	assert.True(t, cookies["sign"].HttpOnly)

	require.Contains(t, repo.players, "alice")
	assert.NoError(t, bcrypt.CompareHashAndPassword(
		repo.players["alice"].PasswordHash, []byte("hunter2"),
	))

	rec = postForm(a.Register, "alice", "other")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, ErrUsernameTaken.Error(), decode[ErrorDTO](t, rec).Error)
}

func TestRegisterBadBody(t *testing.T) {
	a, _ := newTestAuth(t)
	assert.Equal(t, http.StatusBadRequest, postForm(a.Register, "", "pw").Code)
	assert.Equal(t, http.StatusBadRequest, postForm(a.Register, "bob", "").Code)

	rec := postForm(a.Register, "bob", strings.Repeat("x", 73))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrPasswordTooLong.Error(), decode[ErrorDTO](t, rec).Error)
}

func TestLogin(t *testing.T) {
	a, _ := newTestAuth(t)
	require.Equal(t, http.StatusCreated, postForm(a.Register, "alice", "hunter2").Code)

	assert.Equal(t, http.StatusUnauthorized, postForm(a.Login, "alice", "wrong").Code)
	assert.Equal(t, http.StatusUnauthorized, postForm(a.Login, "nobody", "hunter2").Code)

	rec := postForm(a.Login, "alice", "hunter2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), decode[AuthStatus](t, rec).Player.PlayerId)
	assert.Contains(t, cookieNames(rec), "sign")
}

func TestAuthStatus(t *testing.T) {
	a, _ := newTestAuth(t)

	rec := httptest.NewRecorder()
	a.Status(rec, httptest.NewRequest("GET", "/auth/status", nil))
	assert.False(t, decode[AuthStatus](t, rec).LoggedIn)
	assert.Equal(t, -1, cookieNames(rec)["auth"].MaxAge)

	req := httptest.NewRequest("GET", "/auth/status", nil)
	ctx := context.WithValue(req.Context(), middleware.CtxPlayerClaims,
		config.NewPlayerClaims(3, "carol"))
	rec = httptest.NewRecorder()
	a.Status(rec, req.WithContext(ctx))
	status := decode[AuthStatus](t, rec)
	assert.True(t, status.LoggedIn)
	assert.Equal(t, &PlayerInfo{3, "carol"}, status.Player)
	assert.Contains(t, cookieNames(rec), "sign")
}

func TestAuthStatusRecord(t *testing.T) {
	a, repo := newTestAuth(t)
	carol, dave := int64(3), int64(4)
	for i, s := range []struct {
		player   *int64
		status   recall.Status
		failures int
	}{
		{&carol, recall.StatusWon, 2},
		{&carol, recall.StatusWon, 1},
		{&carol, recall.StatusLoss, 3},
		{&carol, recall.StatusActive, 0},
		{&dave, recall.StatusWon, 0},
		{nil, recall.StatusSurrender, 0},
	} {
		id := int64(i + 1)
		repo.sessions[id] = &repository.GameSession{
			GameSessionId: id,
			PlayerId:      s.player,
			Status:        string(s.status),
			Failures:      s.failures,
		}
	}

	req := httptest.NewRequest("GET", "/auth/status", nil)
	ctx := context.WithValue(req.Context(), middleware.CtxPlayerClaims,
		config.NewPlayerClaims(carol, "carol"))
	rec := httptest.NewRecorder()
	a.Status(rec, req.WithContext(ctx))
	require.Equal(t, http.StatusOK, rec.Code)

	status := decode[AuthStatus](t, rec)
	require.NotNil(t, status.Record)
	assert.Equal(t, 3, status.Record.Played)
	assert.Equal(t, 2, status.Record.Won)
	assert.Equal(t, 1, status.Record.Lost)
	assert.Zero(t, status.Record.Surrendered)
	require.NotNil(t, status.Record.BestFailures)
	assert.Equal(t, 1, *status.Record.BestFailures)

	repo.fail = errors.New("db down")
	rec = httptest.NewRecorder()
	a.Status(rec, req.WithContext(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[AuthStatus](t, rec).Record)
}

func TestLogout(t *testing.T) {
	a, _ := newTestAuth(t)
	rec := httptest.NewRecorder()
	a.Logout(rec, httptest.NewRequest("POST", "/logout", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	cookies := cookieNames(rec)
	assert.Equal(t, -1, cookies["auth"].MaxAge)
	assert.Equal(t, -1, cookies["sign"].MaxAge)
}
