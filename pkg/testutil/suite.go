package testutil

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shiftpay/shiftpay-backend/pkg/database"
	"github.com/shiftpay/shiftpay-backend/pkg/logger"
)

var (
	// Global test container (shared across all integration tests)
	globalContainer *PostgresContainer
	globalDB        *sqlx.DB
	containerOnce   sync.Once
	containerErr    error
)

// IntegrationSuite provides a base for integration tests with real PostgreSQL
type IntegrationSuite struct {
	Container *PostgresContainer
	RawDB     *sqlx.DB
	DB        *database.DB
	Fixtures  *FixtureFactory
	Logger    *logger.Logger
}

// NewIntegrationSuite creates a new integration test suite.
// Call this in TestMain to set up shared test infrastructure.
//
// Usage:
//
//	var suite *testutil.IntegrationSuite
//
//	func TestMain(m *testing.M) {
//	    ctx := context.Background()
//
//	    suite, err := testutil.NewIntegrationSuite(ctx)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer testutil.TerminateContainer(ctx)
//
//	    os.Exit(m.Run())
//	}
func NewIntegrationSuite(ctx context.Context) (*IntegrationSuite, error) {
	container, db, err := getOrCreateContainer(ctx)
	if err != nil {
		return nil, err
	}

	// Create wrapped database using DSN
	log := logger.New("test", "test")
	wrappedDB, err := database.NewWithDSN(container.DSN, log)
	if err != nil {
		return nil, err
	}

	if err := container.CreateAllowanceSchema(ctx, db); err != nil {
		return nil, err
	}

	return &IntegrationSuite{
		Container: container,
		RawDB:     db,
		DB:        wrappedDB,
		Fixtures:  NewFixtureFactory(),
		Logger:    log,
	}, nil
}

// getOrCreateContainer returns the shared test container
func getOrCreateContainer(ctx context.Context) (*PostgresContainer, *sqlx.DB, error) {
	containerOnce.Do(func() {
		globalContainer, containerErr = NewPostgresContainer(ctx, DefaultPostgresConfig())
		if containerErr != nil {
			return
		}
		globalDB, containerErr = globalContainer.Connect(ctx)
	})

	return globalContainer, globalDB, containerErr
}

// Reset truncates the allowance tables so each test starts clean
func (s *IntegrationSuite) Reset(t *testing.T, ctx context.Context) {
	t.Helper()
	if err := s.Container.TruncateAllowanceTables(ctx, s.RawDB); err != nil {
		t.Fatalf("failed to reset allowance tables: %v", err)
	}
}

// Seed inserts allowances with their mappings and the rates in one call
func (s *IntegrationSuite) Seed(t *testing.T, ctx context.Context, allowances []AllowanceFixture, mappings []MappingFixture, rates []RateFixture) {
	t.Helper()
	for _, a := range allowances {
		if err := InsertAllowance(ctx, s.RawDB, a); err != nil {
			t.Fatalf("failed to insert allowance fixture: %v", err)
		}
	}
	for _, m := range mappings {
		if err := InsertMapping(ctx, s.RawDB, m); err != nil {
			t.Fatalf("failed to insert mapping fixture: %v", err)
		}
	}
	for _, r := range rates {
		if err := InsertRate(ctx, s.RawDB, r); err != nil {
			t.Fatalf("failed to insert rate fixture: %v", err)
		}
	}
}

// Cleanup cleans up per-suite resources.
// Note: the shared container is not terminated here.
func (s *IntegrationSuite) Cleanup(ctx context.Context) error {
	return s.Container.TruncateAllowanceTables(ctx, s.RawDB)
}

// TerminateContainer terminates the shared container.
// Only call this in TestMain after all tests have completed.
func TerminateContainer(ctx context.Context) {
	if globalContainer != nil {
		globalContainer.Terminate(ctx)
	}
}

// UnitTestSuite provides a base for unit tests with mocked dependencies
type UnitTestSuite struct {
	MockDB   *MockDB
	Fixtures *FixtureFactory
	t        *testing.T
}

// NewUnitTestSuite creates a new unit test suite
func NewUnitTestSuite(t *testing.T) *UnitTestSuite {
	return &UnitTestSuite{
		MockDB:   NewMockDB(t),
		Fixtures: NewFixtureFactory(),
		t:        t,
	}
}

// Cleanup verifies expectations and cleans up
func (s *UnitTestSuite) Cleanup() {
	s.MockDB.ExpectationsWereMet(s.t)
	s.MockDB.Close()
}

// GetEnvOrDefault returns environment variable or default value
func GetEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// IsCI returns true if running in CI environment
func IsCI() bool {
	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}
