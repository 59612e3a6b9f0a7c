package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/vancomm/recall-server/internal/config"
	"github.com/vancomm/recall-server/internal/middleware"
	"github.com/vancomm/recall-server/internal/repository"
)

type Auth struct {
	logger     *logrus.Logger
	repo       PlayerRepository
	cookies    *config.Cookies
	jwt        *config.JWT
	bcryptCost int
}

func NewAuth(
	logger *logrus.Logger,
	repo PlayerRepository,
	cookies *config.Cookies,
	jwt *config.JWT,
) *Auth {
	return &Auth{
		logger:     logger,
		repo:       repo,
		cookies:    cookies,
		jwt:        jwt,
		bcryptCost: bcrypt.DefaultCost,
	}
}

type PlayerInfo struct {
	PlayerId int64  `json:"player_id"`
	Username string `json:"username"`
}

type AuthStatus struct {
	LoggedIn bool                     `json:"logged_in"`
	Player   *PlayerInfo              `json:"player,omitempty"`
	Record   *repository.PlayerRecord `json:"record,omitempty"`
}

var (
	ErrBadAuthBody        = errors.New("request body must contain url-encoded username and password")
	ErrPasswordTooLong    = errors.New("password too long")
	ErrUsernameTaken      = errors.New("username taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// signIn issues fresh auth cookies for claims.
func (a Auth) signIn(w http.ResponseWriter, log *logrus.Entry, claims *config.PlayerClaims) bool {
	token, err := a.jwt.Sign(claims)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.WithError(err).Error("unable to create a jwt token")
		return false
	}
	if err := a.cookies.Refresh(w, token, time.Now().Add(a.jwt.TokenLifetime)); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.WithError(err).Error("unable to set auth cookies")
		return false
	}
	return true
}

func (a Auth) Status(w http.ResponseWriter, r *http.Request) {
	log := middleware.Entry(r.Context(), a.logger)

	claims, ok := middleware.PlayerClaims(r.Context())
	if !ok {
		log.Debug("no valid auth cookies, clearing")
		a.cookies.Clear(w)
		sendJSONOrLog(w, log, http.StatusOK, AuthStatus{LoggedIn: false})
		return
	}

	log.Debug("refresh cookies")
	if !a.signIn(w, log, claims) {
		return
	}
	record, err := a.repo.FetchPlayerRecord(r.Context(), claims.PlayerId)
	if err != nil {
		log.WithError(err).Warn("unable to fetch player record")
	}
	sendJSONOrLog(w, log, http.StatusOK, AuthStatus{
		LoggedIn: true,
		Player:   &PlayerInfo{claims.PlayerId, claims.Username},
		Record:   record,
	})
}

// credentials reads the form and enforces bcrypt's 72 byte input limit.
func credentials(r *http.Request) (username string, password []byte, err error) {
	if err := r.ParseForm(); err != nil {
		return "", nil, ErrBadAuthBody
	}
	username = r.PostFormValue("username")
	password = []byte(r.PostFormValue("password"))
	if username == "" || len(password) == 0 {
		return "", nil, ErrBadAuthBody
	}
	if len(password) > 72 {
		return "", nil, ErrPasswordTooLong
	}
	return username, password, nil
}

func (a Auth) Register(w http.ResponseWriter, r *http.Request) {
	log := middleware.Entry(r.Context(), a.logger)

	username, password, err := credentials(r)
	if err != nil {
		sendError(w, log, http.StatusBadRequest, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword(password, a.bcryptCost)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.WithError(err).Error("unable to hash password")
		return
	}

	player, err := a.repo.CreatePlayer(r.Context(), repository.CreatePlayerParams{
		Username:     username,
		PasswordHash: hash,
	})
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) &&
		pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		sendError(w, log, http.StatusConflict, ErrUsernameTaken)
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.WithError(err).Error("unable to insert player")
		return
	}

	claims := config.NewPlayerClaims(player.PlayerId, player.Username)
	if !a.signIn(w, log, claims) {
		return
	}
	log.WithField("player_id", player.PlayerId).Info("player registered")
	sendJSONOrLog(w, log, http.StatusCreated, AuthStatus{
		LoggedIn: true,
		Player:   &PlayerInfo{player.PlayerId, player.Username},
	})
}

func (a Auth) Login(w http.ResponseWriter, r *http.Request) {
	log := middleware.Entry(r.Context(), a.logger)

	username, password, err := credentials(r)
	if err != nil {
		sendError(w, log, http.StatusBadRequest, err)
		return
	}

	player, err := a.repo.FetchPlayer(r.Context(), username)
	if errors.Is(err, pgx.ErrNoRows) {
		sendError(w, log, http.StatusUnauthorized, ErrInvalidCredentials)
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.WithError(err).Error("unable to fetch player")
		return
	}

	if err := bcrypt.CompareHashAndPassword(player.PasswordHash, password); err != nil {
		sendError(w, log, http.StatusUnauthorized, ErrInvalidCredentials)
		return
	}

	claims := config.NewPlayerClaims(player.PlayerId, player.Username)
	if !a.signIn(w, log, claims) {
		return
	}
	sendJSONOrLog(w, log, http.StatusOK, AuthStatus{
		LoggedIn: true,
		Player:   &PlayerInfo{player.PlayerId, player.Username},
	})
}

func (a Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.cookies.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}
