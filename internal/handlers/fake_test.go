package handlers

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/recall-server/internal/recall"
	"github.com/vancomm/recall-server/internal/repository"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type memRepo struct {
	mu       sync.Mutex
	sessions map[int64]*repository.GameSession
	players  map[string]*repository.Player
	filters  []repository.HighscoreFilter
	scores   []repository.Highscore
	fail     error
}

func newMemRepo() *memRepo {
	return &memRepo{
		sessions: make(map[int64]*repository.GameSession),
		players:  make(map[string]*repository.Player),
	}
}

func (m *memRepo) CreateGameSession(
	_ context.Context, g *recall.GameState, params repository.CreateGameSessionParams,
) (*repository.GameSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	state, err := g.Bytes()
	if err != nil {
		return nil, err
	}
	s := &repository.GameSession{
		GameSessionId: int64(len(m.sessions) + 1),
		PlayerId:      params.PlayerId,
		Rows:          g.Rows,
		Cols:          g.Cols,
		NumItems:      g.NumItems,
		FlashTime:     g.FlashTime,
		MaxAttempts:   g.MaxAttempts,
		AllOrNothing:  g.AllOrNothing,
		Unordered:     g.Unordered,
		Seed:          g.Seed,
		Status:        string(g.Status),
		State:         state,
		StartedAt:     time.Now(),
	}
	m.sessions[s.GameSessionId] = s
	cp := *s
	return &cp, nil
}

func (m *memRepo) FetchGameSession(_ context.Context, id int64) (*repository.GameSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *s
	return &cp, nil
}

func (m *memRepo) UpdateGameSession(
	_ context.Context, id int64, params repository.UpdateGameSessionParams,
) (*repository.GameSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if params.Status != nil {
		s.Status = *params.Status
	}
	if params.Failures != nil {
		s.Failures = *params.Failures
	}
	if params.EndedAt != nil {
		e := *params.EndedAt
		s.EndedAt = &e
	}
	if params.State != nil {
		s.State = *params.State
	}
	cp := *s
	return &cp, nil
}

func (m *memRepo) GetHighscores(
	_ context.Context, filter repository.HighscoreFilter,
) ([]repository.Highscore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filters = append(m.filters, filter)
	return m.scores, m.fail
}

func (m *memRepo) CreatePlayer(
	_ context.Context, params repository.CreatePlayerParams,
) (*repository.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.players[params.Username]; ok {
		return nil, &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	}
	p := &repository.Player{
		PlayerId:     int64(len(m.players) + 1),
		Username:     params.Username,
		PasswordHash: params.PasswordHash,
	}
	m.players[p.Username] = p
	return p, nil
}

func (m *memRepo) FetchPlayer(_ context.Context, username string) (*repository.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.players[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return p, nil
}

func (m *memRepo) FetchPlayerRecord(_ context.Context, playerId int64) (*repository.PlayerRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	var rec repository.PlayerRecord
	for _, s := range m.sessions {
		if s.PlayerId == nil || *s.PlayerId != playerId {
			continue
		}
		switch recall.Status(s.Status) {
		case recall.StatusWon:
			rec.Won++
			if rec.BestFailures == nil || s.Failures < *rec.BestFailures {
				failures := s.Failures
				rec.BestFailures = &failures
			}
		case recall.StatusLoss:
			rec.Lost++
		case recall.StatusSurrender:
			rec.Surrendered++
		default:
			continue
		}
		rec.Played++
	}
	return &rec, nil
}

var (
	_ GameRepository   = (*memRepo)(nil)
	_ PlayerRepository = (*memRepo)(nil)
	_ GameRepository   = (*repository.Queries)(nil)
	_ PlayerRepository = (*repository.Queries)(nil)
)

func (m *memRepo) session(id int64) repository.GameSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.sessions[id]
}
