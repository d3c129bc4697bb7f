// Package testutil provides testing utilities for the ShiftPay backend.
// It includes a testcontainers PostgreSQL setup, mock factories, and common
// test fixtures for the allowance tables.
package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresContainer wraps a testcontainers PostgreSQL instance
type PostgresContainer struct {
	*postgres.PostgresContainer
	DSN string
}

// PostgresContainerConfig configures the test PostgreSQL container
type PostgresContainerConfig struct {
	Database string
	Username string
	Password string
	Image    string // Optional: defaults to postgres:15-alpine
}

// DefaultPostgresConfig returns sensible defaults for test containers
func DefaultPostgresConfig() PostgresContainerConfig {
	return PostgresContainerConfig{
		Database: "shiftpay_test",
		Username: "test",
		Password: "test",
		Image:    "postgres:15-alpine",
	}
}

// NewPostgresContainer creates a new PostgreSQL test container.
//
// Usage:
//
//	func TestMain(m *testing.M) {
//	    ctx := context.Background()
//	    container, err := testutil.NewPostgresContainer(ctx, testutil.DefaultPostgresConfig())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer container.Terminate(ctx)
//
//	    // Run tests
//	    code := m.Run()
//	    os.Exit(code)
//	}
func NewPostgresContainer(ctx context.Context, cfg PostgresContainerConfig) (*PostgresContainer, error) {
	if cfg.Image == "" {
		cfg.Image = "postgres:15-alpine"
	}
	if cfg.Database == "" {
		cfg.Database = "shiftpay_test"
	}
	if cfg.Username == "" {
		cfg.Username = "test"
	}
	if cfg.Password == "" {
		cfg.Password = "test"
	}

	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage(cfg.Image),
		postgres.WithDatabase(cfg.Database),
		postgres.WithUsername(cfg.Username),
		postgres.WithPassword(cfg.Password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	return &PostgresContainer{
		PostgresContainer: container,
		DSN:               dsn,
	}, nil
}

// Connect returns a sqlx.DB connection to the container
func (c *PostgresContainer) Connect(ctx context.Context) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", c.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}
	return db, nil
}

// Terminate stops and removes the container
func (c *PostgresContainer) Terminate(ctx context.Context) error {
	return c.PostgresContainer.Terminate(ctx)
}

// CreateAllowanceSchema creates the allowance tables. In production these are
// owned by the upload pipeline; here they mirror its layout.
func (c *PostgresContainer) CreateAllowanceSchema(ctx context.Context, db *sqlx.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS shift_allowances (
			id BIGINT PRIMARY KEY,
			emp_id VARCHAR(50) NOT NULL,
			emp_name VARCHAR(255),
			grade VARCHAR(50),
			department VARCHAR(255),
			client VARCHAR(255),
			project VARCHAR(255),
			project_code VARCHAR(100),
			account_manager VARCHAR(255),
			delivery_manager VARCHAR(255),
			practice_lead VARCHAR(255),
			billability_status VARCHAR(100),
			practice_remarks TEXT,
			rmg_comments TEXT,
			duration_month DATE NOT NULL,
			payroll_month DATE
		);

		CREATE TABLE IF NOT EXISTS shift_mappings (
			id BIGINT PRIMARY KEY,
			shiftallowance_id BIGINT REFERENCES shift_allowances(id),
			shift_type VARCHAR(20) NOT NULL,
			days NUMERIC(10,2) NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS shifts_amount (
			id BIGINT PRIMARY KEY,
			shift_type VARCHAR(20) NOT NULL,
			payroll_year VARCHAR(10) NOT NULL,
			amount NUMERIC(12,2) NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_shift_allowances_duration_month
			ON shift_allowances (duration_month);
		CREATE INDEX IF NOT EXISTS idx_shift_mappings_allowance
			ON shift_mappings (shiftallowance_id);
	`

	_, err := db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create allowance schema: %w", err)
	}

	return nil
}

// TruncateAllowanceTables clears all allowance tables between tests
func (c *PostgresContainer) TruncateAllowanceTables(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx,
		`TRUNCATE shift_mappings, shift_allowances, shifts_amount`)
	if err != nil {
		return fmt.Errorf("failed to truncate allowance tables: %w", err)
	}
	return nil
}
