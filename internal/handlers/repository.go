package handlers

import (
	"context"

	"github.com/vancomm/recall-server/internal/recall"
	"github.com/vancomm/recall-server/internal/repository"
)

type GameRepository interface {
	CreateGameSession(context.Context, *recall.GameState, repository.CreateGameSessionParams) (*repository.GameSession, error)
	FetchGameSession(context.Context, int64) (*repository.GameSession, error)
	UpdateGameSession(context.Context, int64, repository.UpdateGameSessionParams) (*repository.GameSession, error)
	GetHighscores(context.Context, repository.HighscoreFilter) ([]repository.Highscore, error)
}

type PlayerRepository interface {
	CreatePlayer(context.Context, repository.CreatePlayerParams) (*repository.Player, error)
	FetchPlayer(context.Context, string) (*repository.Player, error)
	FetchPlayerRecord(context.Context, int64) (*repository.PlayerRecord, error)
}
