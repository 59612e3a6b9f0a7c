package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/recall-server/internal/config"
	"github.com/vancomm/recall-server/internal/middleware"
	"github.com/vancomm/recall-server/internal/random"
	"github.com/vancomm/recall-server/internal/recall"
	"github.com/vancomm/recall-server/internal/repository"
)

var ErrForbidden = errors.New("game belongs to another player")

type GameHandler struct {
	logger *logrus.Logger
	repo   GameRepository
	ws     *config.WebSocket
	seeds  *random.SeedSource
}

func NewGameHandler(
	logger *logrus.Logger,
	repo GameRepository,
	ws *config.WebSocket,
	seeds *random.SeedSource,
) *GameHandler {
	return &GameHandler{
		logger: logger,
		repo:   repo,
		ws:     ws,
		seeds:  seeds,
	}
}

func (g GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	log := middleware.Entry(r.Context(), g.logger)

	q, err := ParseSettingsQuery(r.URL.Query())
	if err != nil {
		fail(w, log, "bad new game query", err)
		return
	}
	s, seeded, err := q.Resolve()
	if err != nil {
		fail(w, log, "unable to resolve settings", err)
		return
	}
	if !seeded {
		s.Seed = g.seeds.Seed()
	}

	game, err := recall.NewGame(s)
	if err != nil {
		fail(w, log, "unable to generate a new game", err)
		return
	}

	var params repository.CreateGameSessionParams
	if claims, ok := middleware.PlayerClaims(r.Context()); ok {
		params.PlayerId = &claims.PlayerId
	}
	session, err := g.repo.CreateGameSession(r.Context(), game, params)
	if err != nil {
		fail(w, log, "unable to create game session", err)
		return
	}

	log.WithFields(logrus.Fields{
		"game_session_id": session.GameSessionId,
		"seed":            s.Seed,
		"preset":          s.SelectedPreset,
	}).Info("game created")
	sendJSONOrLog(w, log, http.StatusCreated, NewGameSessionDTO(session, game))
}

// load fetches the session named by the {id} path value. It answers the
// request itself and returns ok=false on any failure.
func (g GameHandler) load(
	w http.ResponseWriter, r *http.Request, log *logrus.Entry,
) (session *repository.GameSession, game *recall.GameState, ok bool) {
	sessionId, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return nil, nil, false
	}

	session, err = g.repo.FetchGameSession(r.Context(), sessionId)
	if errors.Is(err, pgx.ErrNoRows) {
		w.WriteHeader(http.StatusNotFound)
		return nil, nil, false
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.WithError(err).Error("unable to fetch session from db")
		return nil, nil, false
	}

	game, err = recall.DecodeGameState(session.State)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.WithError(err).Error("db returned invalid game_session.state")
		return nil, nil, false
	}
	return session, game, true
}

// owns reports whether the requester may play session. Anonymous sessions
// are open to anyone holding the id.
func owns(ctx context.Context, session *repository.GameSession) bool {
	if session.PlayerId == nil {
		return true
	}
	claims, ok := middleware.PlayerClaims(ctx)
	return ok && claims.PlayerId == *session.PlayerId
}

func (g GameHandler) save(
	ctx context.Context, session *repository.GameSession, game *recall.GameState,
) (*repository.GameSession, error) {
	state, err := game.Bytes()
	if err != nil {
		return nil, err
	}
	status := string(game.Status)
	params := repository.UpdateGameSessionParams{
		Status:   &status,
		Failures: &game.Failures,
		State:    &state,
	}
	if game.Status.Over() && session.EndedAt == nil {
		now := time.Now().UTC()
		params.EndedAt = &now
	}
	return g.repo.UpdateGameSession(ctx, session.GameSessionId, params)
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	log := middleware.Entry(r.Context(), g.logger)
	session, game, ok := g.load(w, r, log)
	if !ok {
		return
	}
	sendJSONOrLog(w, log, http.StatusOK, NewGameSessionDTO(session, game))
}

// Move applies one operation to the game and persists the result. The
// returned flag, when not nil, tells whether a selection was correct.
type Move func(r *http.Request, game *recall.GameState) (*bool, error)

func (g GameHandler) Play(move Move) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := middleware.Entry(r.Context(), g.logger)
		session, game, ok := g.load(w, r, log)
		if !ok {
			return
		}
		if !owns(r.Context(), session) {
			sendError(w, log, http.StatusForbidden, ErrForbidden)
			return
		}

		correct, err := move(r, game)
		if err != nil {
			fail(w, log, "rejected move", err)
			return
		}

		session, err = g.save(r.Context(), session, game)
		if err != nil {
			fail(w, log, "unable to update session in db", err)
			return
		}
		dto := NewGameSessionDTO(session, game)
		dto.Correct = correct
		sendJSONOrLog(w, log, http.StatusOK, dto)
	}
}

func Begin(_ *http.Request, game *recall.GameState) (*bool, error) {
	return nil, game.Begin()
}

func Flash(_ *http.Request, game *recall.GameState) (*bool, error) {
	return nil, game.Flash()
}

func Select(r *http.Request, game *recall.GameState) (*bool, error) {
	pos, err := ParsePosition(r.URL.Query())
	if err != nil {
		return nil, err
	}
	correct, err := game.Select(pos.X, pos.Y)
	if err != nil {
		return nil, err
	}
	return &correct, nil
}

func Surrender(_ *http.Request, game *recall.GameState) (*bool, error) {
	game.Surrender()
	return nil, nil
}

func (g GameHandler) Highscores(w http.ResponseWriter, r *http.Request) {
	log := middleware.Entry(r.Context(), g.logger)

	q, err := ParseHighscoreQuery(r.URL.Query())
	if err != nil {
		fail(w, log, "bad highscore query", err)
		return
	}

	scores, err := g.repo.GetHighscores(r.Context(), q.Filter())
	if err != nil {
		fail(w, log, "unable to fetch highscores", err)
		return
	}
	if scores == nil {
		scores = []repository.Highscore{}
	}
	sendJSONOrLog(w, log, http.StatusOK, scores)
}
