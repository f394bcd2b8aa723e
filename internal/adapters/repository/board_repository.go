package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/goalboard/core/internal/domain/entities"
	"github.com/goalboard/core/internal/ports"
)

// BoardRepositoryImpl implements the BoardRepository interface on top of
// Postgres. Each day is one row keyed by (slug, date) with the full day
// stored as a JSONB blob.
type BoardRepositoryImpl struct {
	db *sqlx.DB
}

// NewBoardRepository creates a new board repository
func NewBoardRepository(db *sqlx.DB) ports.BoardRepository {
	return &BoardRepositoryImpl{db: db}
}

type dayRow struct {
	Date string `db:"date"`
	Data []byte `db:"data"`
}

func (r *BoardRepositoryImpl) FetchAllDays(ctx context.Context, slug string) (entities.GoalsByDate, error) {
	query := `
		SELECT date, data
		FROM day_goals
		WHERE slug = $1`

	var rows []dayRow
	if err := r.db.SelectContext(ctx, &rows, query, slug); err != nil {
		return nil, fmt.Errorf("fetch days for board %s: %w", slug, err)
	}

	goals := make(entities.GoalsByDate, len(rows))
	for _, row := range rows {
		var day entities.DayGoal
		if err := json.Unmarshal(row.Data, &day); err != nil {
			return nil, fmt.Errorf("decode day %s for board %s: %w", row.Date, slug, err)
		}
		// The row key is authoritative; older blobs may miss the field.
		day.Date = row.Date
		goals[row.Date] = day
	}

	return goals, nil
}

func (r *BoardRepositoryImpl) UpsertDay(ctx context.Context, slug, date string, day entities.DayGoal) error {
	data, err := json.Marshal(day)
	if err != nil {
		return fmt.Errorf("encode day %s for board %s: %w", date, slug, err)
	}

	query := `
		INSERT INTO day_goals (slug, date, data, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (slug, date)
		DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query, slug, date, data); err != nil {
		return fmt.Errorf("upsert day %s for board %s: %w", date, slug, err)
	}

	return nil
}
