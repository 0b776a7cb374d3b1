package movieinfo

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/reactive/integration/database/pg"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrations holds the schema for PostgresStore, for use with pg.Migrate.
var Migrations fs.FS = mustSub(migrationFiles, "migrations")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

const (
	selectMovieInfos = `SELECT id, title, year, "cast", COALESCE(released_at::text, '')
		FROM movie_infos
		WHERE ($1 = 0 OR year = $1)
		ORDER BY created_at, id`

	selectMovieInfo = `SELECT id, title, year, "cast", COALESCE(released_at::text, '')
		FROM movie_infos
		WHERE id = $1`

	upsertMovieInfo = `INSERT INTO movie_infos (id, title, year, "cast", released_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, '')::date)
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title,
			year = EXCLUDED.year,
			"cast" = EXCLUDED."cast",
			released_at = EXCLUDED.released_at`

	deleteMovieInfo = `DELETE FROM movie_infos WHERE id = $1`
)

// PostgresStore keeps movies in the movie_infos table. Writes join a
// transaction carried by the context (see pg.WithTx).
type PostgresStore struct {
	db pg.Querier
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a store over db, usually a *pgxpool.Pool.
func NewPostgresStore(db pg.Querier) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Each(ctx context.Context, filter Filter, fn func(MovieInfo) error) error {
	rows, err := pg.Conn(ctx, s.db).Query(ctx, selectMovieInfos, filter.Year)
	if err != nil {
		return fmt.Errorf("query movie infos: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanMovieInfo(rows)
		if err != nil {
			return err
		}
		if err := fn(m); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *PostgresStore) Get(ctx context.Context, id string) (MovieInfo, error) {
	m, err := scanMovieInfo(pg.Conn(ctx, s.db).QueryRow(ctx, selectMovieInfo, id))
	if pg.IsNotFoundError(err) {
		return MovieInfo{}, ErrNotFound
	}
	return m, err
}

func (s *PostgresStore) Save(ctx context.Context, m MovieInfo) error {
	cast := m.Cast
	if cast == nil {
		cast = []string{}
	}
	_, err := pg.Conn(ctx, s.db).Exec(ctx, upsertMovieInfo, m.ID, m.Title, m.Year, cast, m.ReleasedAt)
	if err != nil {
		return fmt.Errorf("save movie info %s: %w", m.ID, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	if _, err := pg.Conn(ctx, s.db).Exec(ctx, deleteMovieInfo, id); err != nil {
		return fmt.Errorf("delete movie info %s: %w", id, err)
	}
	return nil
}

func scanMovieInfo(row pgx.Row) (MovieInfo, error) {
	var m MovieInfo
	if err := row.Scan(&m.ID, &m.Title, &m.Year, &m.Cast, &m.ReleasedAt); err != nil {
		if pg.IsNotFoundError(err) {
			return MovieInfo{}, err
		}
		return MovieInfo{}, fmt.Errorf("scan movie info: %w", err)
	}
	return m, nil
}
