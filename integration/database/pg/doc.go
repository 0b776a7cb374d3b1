// Package pg provides PostgreSQL connection management with migrations and
// health checking.
//
// Connect builds a pgxpool.Pool, retries the initial ping and returns a
// pool that is known to work. Migrate applies goose migrations from any
// fs.FS, typically an embed.FS owned by the package that owns the schema.
//
// # Configuration
//
//	type Config struct {
//		ConnectionString  string        `env:"DATABASE_URL,required"`
//		MaxOpenConns      int32         `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
//		MaxIdleConns      int32         `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`
//		HealthCheckPeriod time.Duration `env:"PG_HEALTHCHECK_PERIOD" envDefault:"1m"`
//		MaxConnIdleTime   time.Duration `env:"PG_MAX_CONN_IDLE_TIME" envDefault:"10m"`
//		MaxConnLifetime   time.Duration `env:"PG_MAX_CONN_LIFETIME" envDefault:"30m"`
//		RetryAttempts     int           `env:"PG_RETRY_ATTEMPTS" envDefault:"3"`
//		RetryInterval     time.Duration `env:"PG_RETRY_INTERVAL" envDefault:"5s"`
//		MigrationsTable   string        `env:"PG_MIGRATIONS_TABLE" envDefault:"schema_migrations"`
//	}
//
// # Usage
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, movieinfo.Migrations, cfg, log); err != nil {
//		return err
//	}
//
// # Transactions
//
// WithTx attaches a pgx.Tx to a context; Conn returns it, or the pool when
// the context carries none, so repositories take part in a caller's
// transaction without changing their signatures:
//
//	func (s *Store) Save(ctx context.Context, m Movie) error {
//		_, err := pg.Conn(ctx, s.pool).Exec(ctx, upsertMovie, m.ID, m.Title)
//		return err
//	}
//
// # Errors
//
// Connection and migration failures wrap the package sentinels
// (ErrFailedToOpenDBConnection, ErrFailedToApplyMigrations, ...).
// IsNotFoundError and IsDuplicateKeyError classify driver errors.
package pg
