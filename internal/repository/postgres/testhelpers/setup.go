package testhelpers

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/railatlas-loader/internal/repository/postgres"
)

// TestDB represents a test database connection
type TestDB struct {
	DB     *sqlx.DB
	Logger *zap.Logger
}

// SetupTestDB connects to the live test database and applies the geometry
// store schema. Connection settings come from TEST_DB_* environment
// variables with local defaults. An unreachable database or a server
// without PostGIS skips the calling test instead of failing it.
func SetupTestDB(t *testing.T) *TestDB {
	host := getEnv("TEST_DB_HOST", "localhost")
	port := getEnv("TEST_DB_PORT", "5432")
	user := getEnv("TEST_DB_USER", "postgres")
	password := getEnv("TEST_DB_PASSWORD", "postgres")
	dbname := getEnv("TEST_DB_NAME", "railatlas_test")
	sslmode := getEnv("TEST_DB_SSLMODE", "disable")

	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode,
	)

	db, err := sqlx.Open("pgx", connStr)
	if err != nil {
		t.Skipf("Test database unavailable: %v", err)
	}

	logger := zap.NewNop()
	pgDB := postgres.NewDBForTest(db, logger)

	// Retry the health probe with backoff to wait for a starting server.
	ctx := context.Background()
	maxRetries := 5
	retryDelay := 500 * time.Millisecond
	for i := 0; i < maxRetries; i++ {
		if err = pgDB.Health(ctx); err == nil {
			break
		}
		if i < maxRetries-1 {
			t.Logf("Database not ready (attempt %d/%d), waiting %v...", i+1, maxRetries, retryDelay)
			time.Sleep(retryDelay)
			retryDelay *= 2
		}
	}
	if err != nil {
		db.Close()
		t.Skipf("Test database unavailable after %d attempts: %v", maxRetries, err)
	}

	if err := pgDB.Migrate(ctx); err != nil {
		db.Close()
		t.Skipf("Geometry store schema unavailable (PostGIS missing?): %v", err)
	}

	return &TestDB{
		DB:     db,
		Logger: logger,
	}
}

// Close closes the database connection
func (tdb *TestDB) Close() {
	if tdb.DB != nil {
		tdb.DB.Close()
	}
}

// Cleanup removes all atlas rows. Stops go first so station references
// never block the truncation.
func (tdb *TestDB) Cleanup(ctx context.Context) error {
	for _, table := range []string{"stops", "stations", "lines"} {
		if _, err := tdb.DB.ExecContext(ctx, "TRUNCATE TABLE "+table+" CASCADE"); err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	if _, err := tdb.DB.ExecContext(ctx, "DELETE FROM active_generation"); err != nil {
		return fmt.Errorf("clear active generation: %w", err)
	}
	return nil
}

// getEnv gets environment variable or returns default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
