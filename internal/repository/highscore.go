// custom query
package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/vancomm/recall-server/internal/recall"
	"github.com/vancomm/recall-server/internal/settings"
)

type Highscore struct {
	GameSessionId int64   `json:"game_session_id"`
	Username      *string `json:"username"`
	Rows          int     `json:"rows"`
	Cols          int     `json:"cols"`
	NumItems      int     `json:"num_items"`
	FlashTime     float64 `json:"flash_time"`
	AllOrNothing  bool    `json:"all_or_nothing"`
	Unordered     bool    `json:"unordered"`
	Seed          int64   `json:"seed"`
	Failures      int     `json:"failures"`
	PlaytimeMs    float64 `json:"playtime_ms"`
}

// HighscoreFilter narrows the leaderboard. Settings compares the board shape
// and rules but not the seed, so every board of a kind competes together.
type HighscoreFilter struct {
	Username *string
	Settings *settings.GameSettings
	Limit    int
}

func (f HighscoreFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Username != nil {
		clauses = append(clauses, "username = @username")
		args["username"] = *f.Username
	}
	if f.Settings != nil {
		clauses = append(
			clauses,
			`"rows" = @rows`,
			"cols = @cols",
			"num_items = @numItems",
			"flash_time = @flashTime",
			"all_or_nothing = @allOrNothing",
			"unordered = @unordered",
		)
		args["rows"] = f.Settings.Rows
		args["cols"] = f.Settings.Cols
		args["numItems"] = f.Settings.NumItems
		args["flashTime"] = f.Settings.FlashTime
		args["allOrNothing"] = f.Settings.AllOrNothing
		args["unordered"] = f.Settings.Unordered
	}
	return strings.Join(clauses, " AND "), args
}

func (q Queries) GetHighscores(
	ctx context.Context, filter HighscoreFilter,
) ([]Highscore, error) {
	query := `
	SELECT
		game_session_id,
		username,
		"rows",
		cols,
		num_items,
		flash_time,
		all_or_nothing,
		unordered,
		seed,
		failures,
		(
			extract('epoch' from ended_at) -
			extract('epoch' from started_at)
		) * 1000 playtime_ms
	FROM game_session
		LEFT OUTER JOIN player using (player_id)
	WHERE
		status = @won
		AND ended_at IS NOT NULL
	`

	whereClause, args := filter.WhereClause()
	args["won"] = string(recall.StatusWon)
	if whereClause != "" {
		query += " AND " + whereClause
	}

	query += " ORDER BY failures, playtime_ms"
	if filter.Limit > 0 {
		query += " LIMIT @limit"
		args["limit"] = filter.Limit
	}

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Highscore])
}
