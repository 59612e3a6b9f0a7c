package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/vancomm/recall-server/internal/recall"
)

type Player struct {
	PlayerId     int64
	Username     string
	PasswordHash []byte
	CreatedAt    pgtype.Timestamptz
	UpdatedAt    pgtype.Timestamptz
}

type CreatePlayerParams struct {
	Username     string
	PasswordHash []byte
}

const playerColumns = "player_id, username, password_hash, created_at, updated_at"

func (q *Queries) CreatePlayer(ctx context.Context, params CreatePlayerParams) (*Player, error) {
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO player (username, password_hash)
		VALUES (@username, @passwordHash)
		RETURNING `+playerColumns,
		pgx.NamedArgs{
			"username":     params.Username,
			"passwordHash": params.PasswordHash,
		},
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Player])
}

func (q *Queries) FetchPlayer(ctx context.Context, username string) (*Player, error) {
	rows, _ := q.db.Query(
		ctx,
		"SELECT "+playerColumns+" FROM player WHERE username = @username",
		pgx.NamedArgs{"username": username},
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Player])
}

// PlayerRecord sums up the finished games of one player. The best fields
// are nil until the player wins a game.
type PlayerRecord struct {
	Played         int      `json:"played"`
	Won            int      `json:"won"`
	Lost           int      `json:"lost"`
	Surrendered    int      `json:"surrendered"`
	BestFailures   *int     `json:"best_failures"`
	BestPlaytimeMs *float64 `json:"best_playtime_ms"`
}

const playerRecordQuery = `
SELECT
	count(*) FILTER (WHERE status IN (@won, @loss, @surrender)) AS played,
	count(*) FILTER (WHERE status = @won) AS won,
	count(*) FILTER (WHERE status = @loss) AS lost,
	count(*) FILTER (WHERE status = @surrender) AS surrendered,
	min(failures) FILTER (WHERE status = @won) AS best_failures,
	min(extract(epoch FROM ended_at - started_at) * 1000)
		FILTER (WHERE status = @won) AS best_playtime_ms
FROM game_session
WHERE player_id = @playerId`

func playerRecordArgs(playerId int64) pgx.NamedArgs {
	return pgx.NamedArgs{
		"playerId":  playerId,
		"won":       string(recall.StatusWon),
		"loss":      string(recall.StatusLoss),
		"surrender": string(recall.StatusSurrender),
	}
}

// FetchPlayerRecord always yields one row; a player without games gets
// zero counts.
func (q *Queries) FetchPlayerRecord(ctx context.Context, playerId int64) (*PlayerRecord, error) {
	rows, _ := q.db.Query(ctx, playerRecordQuery, playerRecordArgs(playerId))
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[PlayerRecord])
}
