package handlers

import (
	"net/url"
	"strconv"

	"github.com/vancomm/recall-server/internal/recall"
	"github.com/vancomm/recall-server/internal/repository"
	"github.com/vancomm/recall-server/internal/settings"
)

type Position struct {
	X int `schema:"x,required"`
	Y int `schema:"y,required"`
}

func ParsePosition(src url.Values) (Position, error) {
	var pos Position
	err := decoder.Decode(&pos, src)
	return pos, err
}

type HighscoreQuery struct {
	Fragment *string `schema:"fragment"`
	Username *string `schema:"username"`
	Limit    int     `schema:"limit"`
}

const (
	defaultHighscoreLimit = 20
	maxHighscoreLimit     = 100
)

func ParseHighscoreQuery(src url.Values) (HighscoreQuery, error) {
	var q HighscoreQuery
	err := decoder.Decode(&q, src)
	if q.Limit <= 0 {
		q.Limit = defaultHighscoreLimit
	}
	q.Limit = min(q.Limit, maxHighscoreLimit)
	return q, err
}

func (q HighscoreQuery) Filter() repository.HighscoreFilter {
	filter := repository.HighscoreFilter{Username: q.Username, Limit: q.Limit}
	if q.Fragment != nil {
		s := settings.Decode(normalizeFragment(*q.Fragment)).Apply(settings.Defaults())
		filter.Settings = &s
	}
	return filter
}

type GameSessionDTO struct {
	GameSessionId string                `json:"game_session_id"`
	Settings      settings.GameSettings `json:"settings"`
	Fragment      string                `json:"fragment"`
	Status        recall.Status         `json:"status"`
	Cells         []recall.Cell         `json:"cells"`
	Hits          int                   `json:"hits"`
	Failures      int                   `json:"failures"`
	Rounds        int                   `json:"rounds"`
	AttemptsLeft  int                   `json:"attempts_left"`
	Correct       *bool                 `json:"correct,omitempty"`
	StartedAt     int64                 `json:"started_at"`
	EndedAt       *int64                `json:"ended_at,omitempty"`
}

func NewGameSessionDTO(session *repository.GameSession, g *recall.GameState) *GameSessionDTO {
	var endedAt *int64
	if session.EndedAt != nil {
		e := session.EndedAt.UnixMilli()
		endedAt = &e
	}
	return &GameSessionDTO{
		GameSessionId: strconv.FormatInt(session.GameSessionId, 10),
		Settings:      g.GameSettings,
		Fragment:      settings.Fragment(g.GameSettings),
		Status:        g.Status,
		Cells:         g.PlayerView(),
		Hits:          g.Hits,
		Failures:      g.Failures,
		Rounds:        g.Rounds,
		AttemptsLeft:  g.AttemptsLeft(),
		StartedAt:     session.StartedAt.UnixMilli(),
		EndedAt:       endedAt,
	}
}
