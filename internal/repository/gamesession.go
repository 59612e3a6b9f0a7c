package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/vancomm/recall-server/internal/recall"
)

type GameSession struct {
	GameSessionId int64
	PlayerId      *int64
	Rows          int
	Cols          int
	NumItems      int
	FlashTime     float64
	MaxAttempts   int
	AllOrNothing  bool
	Unordered     bool
	Seed          int64
	Status        string
	Failures      int
	State         []byte
	StartedAt     time.Time
	EndedAt       *time.Time
	CreatedAt     pgtype.Timestamptz
	UpdatedAt     pgtype.Timestamptz
}

type CreateGameSessionParams struct {
	PlayerId *int64
}

func (q Queries) CreateGameSession(
	ctx context.Context, state *recall.GameState, params CreateGameSessionParams,
) (*GameSession, error) {
	buf, err := state.Bytes()
	if err != nil {
		return nil, err
	}

	args := pgx.NamedArgs{
		"player_id":      params.PlayerId,
		"rows":           state.Rows,
		"cols":           state.Cols,
		"num_items":      state.NumItems,
		"flash_time":     state.FlashTime,
		"max_attempts":   state.MaxAttempts,
		"all_or_nothing": state.AllOrNothing,
		"unordered":      state.Unordered,
		"seed":           state.Seed,
		"status":         string(state.Status),
		"failures":       state.Failures,
		"state":          buf,
	}

	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO game_session (
			player_id, "rows", cols, num_items, flash_time, max_attempts,
			all_or_nothing, unordered, seed, status, failures, state
		)
		VALUES (
			@player_id, @rows, @cols, @num_items, @flash_time, @max_attempts,
			@all_or_nothing, @unordered, @seed, @status, @failures, @state
		)
		RETURNING *;`,
		args,
	)
	return pgx.CollectExactlyOneRow(
		rows, pgx.RowToAddrOfStructByName[GameSession],
	)
}

func (q Queries) FetchGameSession(ctx context.Context, gameSessionId int64) (*GameSession, error) {
	rows, _ := q.db.Query(
		ctx,
		"SELECT * FROM game_session WHERE game_session_id = $1",
		gameSessionId,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[GameSession])
}

type UpdateGameSessionParams struct {
	Status   *string
	Failures *int
	EndedAt  *time.Time
	State    *[]byte
}

// SetClause renders the non-nil fields as a SET list. updated_at is always
// bumped.
func (p UpdateGameSessionParams) SetClause() (string, map[string]any) {
	parts := []string{"updated_at = now()"}
	args := make(map[string]any)

	if p.Status != nil {
		parts = append(parts, "status = @status")
		args["status"] = *p.Status
	}
	if p.Failures != nil {
		parts = append(parts, "failures = @failures")
		args["failures"] = *p.Failures
	}
	if p.EndedAt != nil {
		parts = append(parts, "ended_at = @ended_at")
		args["ended_at"] = *p.EndedAt
	}
	if p.State != nil {
		parts = append(parts, "state = @state")
		args["state"] = *p.State
	}

	return strings.Join(parts, ", "), args
}

func (q Queries) UpdateGameSession(
	ctx context.Context, gameSessionId int64, params UpdateGameSessionParams,
) (*GameSession, error) {
	setClause, args := params.SetClause()
	args["game_session_id"] = gameSessionId
	rows, _ := q.db.Query(
		ctx,
		"UPDATE game_session SET "+setClause+" WHERE game_session_id = @game_session_id RETURNING *",
		pgx.NamedArgs(args),
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[GameSession])
}
