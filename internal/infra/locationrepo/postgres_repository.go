package locationrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/planetary-hours/internal/domain/location"
)

// PostgresRepository implements location.Repository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const selectColumns = `id, name, latitude, longitude, is_default, created_at`

// Create inserts a location, clearing other default flags in the same transaction.
func (r *PostgresRepository) Create(ctx context.Context, loc location.Location) (location.Location, error) {
	var created location.Location
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if loc.IsDefault {
			if _, err := tx.Exec(ctx, `UPDATE locations SET is_default = FALSE WHERE is_default`); err != nil {
				return err
			}
		}
		row := tx.QueryRow(ctx, `
			INSERT INTO locations (name, latitude, longitude, is_default)
			VALUES ($1, $2, $3, $4)
			RETURNING `+selectColumns,
			loc.Name, loc.Latitude, loc.Longitude, loc.IsDefault)
		var err error
		created, err = scanLocation(row)
		return err
	})
	if err != nil {
		return location.Location{}, err
	}
	return created, nil
}

// List returns every location ordered by name.
func (r *PostgresRepository) List(ctx context.Context) ([]location.Location, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+selectColumns+` FROM locations ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []location.Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, loc)
	}
	return out, rows.Err()
}

// Get fetches a location by id.
func (r *PostgresRepository) Get(ctx context.Context, id int64) (location.Location, bool, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM locations WHERE id = $1`, id)
	return scanOptional(row)
}

// Delete removes a location by id.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Default returns the location flagged as default, if any.
func (r *PostgresRepository) Default(ctx context.Context) (location.Location, bool, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM locations WHERE is_default LIMIT 1`)
	return scanOptional(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLocation(row rowScanner) (location.Location, error) {
	var loc location.Location
	if err := row.Scan(&loc.ID, &loc.Name, &loc.Latitude, &loc.Longitude, &loc.IsDefault, &loc.CreatedAt); err != nil {
		return location.Location{}, err
	}
	loc.CreatedAt = loc.CreatedAt.UTC()
	return loc, nil
}

func scanOptional(row rowScanner) (location.Location, bool, error) {
	loc, err := scanLocation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return location.Location{}, false, nil
	}
	if err != nil {
		return location.Location{}, false, err
	}
	return loc, true, nil
}

var _ location.Repository = (*PostgresRepository)(nil)
