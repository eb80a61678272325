package testutil

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const postgresImage = "postgres:16-alpine"

// PostgresContainer is a disposable PostgreSQL server.
type PostgresContainer struct {
	*postgres.PostgresContainer
	ConnectionString string
}

// NewPostgresContainer starts PostgreSQL and waits until it accepts
// connections.
func NewPostgresContainer(ctx context.Context) (*PostgresContainer, error) {
	container, err := postgres.Run(ctx, postgresImage,
		postgres.WithDatabase("lecture_rating"),
		postgres.WithUsername("rating"),
		postgres.WithPassword("rating"),
		testcontainers.WithWaitStrategy(
			// The ready line is logged once for initdb and once for the real start.
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start postgres container: %w", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("postgres connection string: %w", err)
	}

	return &PostgresContainer{PostgresContainer: container, ConnectionString: dsn}, nil
}

// MigratedPool applies the embedded migrations and opens a pool to the
// container.
func (c *PostgresContainer) MigratedPool(ctx context.Context) (*pgxpool.Pool, error) {
	if err := database.Migrate(c.ConnectionString); err != nil {
		return nil, err
	}
	pool, err := pgxpool.New(ctx, c.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	return pool, nil
}

// Truncate empties tables in one statement so tests start from a clean
// schema without re-running migrations.
func Truncate(ctx context.Context, pool *pgxpool.Pool, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	quoted := make([]string, len(tables))
	for i, table := range tables {
		quoted[i] = pgx.Identifier{table}.Sanitize()
	}
	if _, err := pool.Exec(ctx, "TRUNCATE TABLE "+strings.Join(quoted, ", ")); err != nil {
		return fmt.Errorf("truncate %s: %w", strings.Join(tables, ", "), err)
	}
	return nil
}
