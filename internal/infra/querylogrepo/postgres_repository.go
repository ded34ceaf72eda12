package querylogrepo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/planetary-hours/internal/domain/querylog"
)

// PostgresRepository implements querylog.Repository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Insert appends a log row.
func (r *PostgresRepository) Insert(ctx context.Context, e querylog.Entry) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO planetary_hour_logs (id, latitude, longitude, day_planet, hour_planet, period, hour_number, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, e.ID, e.Latitude, e.Longitude, e.DayPlanet, e.HourPlanet, e.Period, e.HourNumber, e.Timestamp)
	return err
}

// Recent returns the newest rows first.
func (r *PostgresRepository) Recent(ctx context.Context, limit int) ([]querylog.Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, latitude, longitude, day_planet, hour_planet, period, hour_number, timestamp
		FROM planetary_hour_logs
		ORDER BY timestamp DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []querylog.Entry
	for rows.Next() {
		var e querylog.Entry
		if err := rows.Scan(&e.ID, &e.Latitude, &e.Longitude, &e.DayPlanet, &e.HourPlanet, &e.Period, &e.HourNumber, &e.Timestamp); err != nil {
			return nil, err
		}
		e.Timestamp = e.Timestamp.UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

var _ querylog.Repository = (*PostgresRepository)(nil)
