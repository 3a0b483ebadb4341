package store

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	perrors "github.com/abgdnv/productview/internal/errors"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const skipIntegrationTests = "PRODUCTVIEW_SKIP_INTEGRATION_TESTS"

// ProductStoreSuite is a test suite for the ProductStore implementation.
type ProductStoreSuite struct {
	suite.Suite                             // Embedding testify suite for structured testing
	pgContainer *postgres.PostgresContainer // PostgreSQL container for integration tests
	dbPool      *pgxpool.Pool               // PostgreSQL connection pool for integration tests
	store       ProductStore
	logger      *slog.Logger    // Logger for the test suite
	ctx         context.Context // Context for the test suite, used for cancellation and timeouts
}

// SetupSuite initializes the test suite by setting up a PostgreSQL container,
func (s *ProductStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	var err error
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	dbName := "catalog_db"
	dbUser := "user"
	dbPassword := "password"

	// 1. Start a PostgreSQL container with the specified configuration. Wait for the container to be ready.
	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:17.5-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		// Wait for a specific log message indicating the database service is ready.
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
		// Ensure the container is ready to accept connections on the default PostgreSQL port.
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("5432/tcp"),
		),
	)
	require.NoError(s.T(), err, "Failed to run PostgreSQL container")

	// 2. Get the connection string from the container
	connStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "Failed to get connection string from container")

	// 3. create a new pgxpool instance using the connection string
	s.dbPool, err = pgxpool.New(s.ctx, connStr)
	require.NoError(s.T(), err, "Failed to create pgxpool")

	// 3.1 Ping the database to ensure the connection is established
	for i := range 10 {
		s.logger.Info("Pinging PostgreSQL database", "attempt", i+1)
		err = s.dbPool.Ping(s.ctx)
		if err == nil {
			break
		}
		time.Sleep(time.Second * 2)
	}
	require.NoError(s.T(), err, "Failed to connect to PostgreSQL after retries")

	// 4. Database migration
	// Build path to migrations directory
	wd, _ := os.Getwd()
	migrationsPath := filepath.Join(wd, "../../migrations")
	sourceURL := "file://" + migrationsPath
	// Create a new migrate instance with the source URL and connection string
	m, err := migrate.New(sourceURL, connStr)
	require.NoError(s.T(), err, "Failed to create migrate instance")
	// Apply all available migrations
	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		_, _ = m.Close()
		require.NoError(s.T(), err, "Failed to apply migrations")
	}
	s.logger.Info("Migrations applied for integration tests")

	s.store = NewPgStore(s.dbPool)
	s.logger.Info("Initialization complete for ProductStoreSuite")
}

// TearDownSuite cleans up resources after all tests in the suite have run.
func (s *ProductStoreSuite) TearDownSuite() {
	s.logger.Info("Tearing down suite...")
	if s.dbPool != nil {
		s.dbPool.Close()
		s.logger.Info("DB pool closed.")
	}
	if s.pgContainer != nil {
		s.logger.Info("Terminating PostgreSQL container...")
		err := s.pgContainer.Terminate(s.ctx)
		if err != nil {
			s.logger.Warn("failed to terminate PostgreSQL container", "error", err)
		} else {
			s.logger.Info("PostgreSQL container terminated.")
		}
	}
}

// SetupTest runs before each test and resets the product table.
func (s *ProductStoreSuite) SetupTest() {
	_, err := s.dbPool.Exec(s.ctx, `TRUNCATE TABLE product RESTART IDENTITY`)
	require.NoError(s.T(), err, "Failed to truncate product table")
}

func TestProductStoreSuite(t *testing.T) {
	if os.Getenv(skipIntegrationTests) != "" {
		t.Skip("Skipping integration tests")
	}
	suite.Run(t, new(ProductStoreSuite))
}

func (s *ProductStoreSuite) TestCreateAndFindByID() {
	// given
	description := "classic wooden toy"
	created, err := s.store.Create(s.ctx, "Toy", 100.00, &description)
	require.NoError(s.T(), err)

	// when
	found, err := s.store.FindByID(s.ctx, created.ID)

	// then
	require.NoError(s.T(), err)
	assert.Equal(s.T(), created.ID, found.ID)
	assert.Equal(s.T(), "Toy", found.Name)
	assert.Equal(s.T(), 100.00, found.Price)
	require.NotNil(s.T(), found.Description)
	assert.Equal(s.T(), description, *found.Description)
	assert.False(s.T(), found.IsDeleted)
	assert.Zero(s.T(), found.ViewCount)
}

func (s *ProductStoreSuite) TestFindByID_NotFound() {
	// when
	_, err := s.store.FindByID(s.ctx, 9999)

	// then
	assert.ErrorIs(s.T(), err, perrors.ErrProductNotFound)
}

func (s *ProductStoreSuite) TestIncrementViewCount() {
	// given
	created, err := s.store.Create(s.ctx, "Toy", 100.00, nil)
	require.NoError(s.T(), err)

	// when
	first, err := s.store.IncrementViewCount(s.ctx, created.ID)
	require.NoError(s.T(), err)
	second, err := s.store.IncrementViewCount(s.ctx, created.ID)
	require.NoError(s.T(), err)

	// then: each call adds exactly one
	assert.Equal(s.T(), int64(1), first)
	assert.Equal(s.T(), int64(2), second)
	found, err := s.store.FindByID(s.ctx, created.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(2), found.ViewCount)
}

func (s *ProductStoreSuite) TestIncrementViewCount_NotFound() {
	// when
	_, err := s.store.IncrementViewCount(s.ctx, 9999)

	// then
	assert.ErrorIs(s.T(), err, perrors.ErrProductNotFound)
}

func (s *ProductStoreSuite) TestFindMostViewed() {
	// given: three products, one never viewed
	toy, err := s.store.Create(s.ctx, "Toy", 100.00, nil)
	require.NoError(s.T(), err)
	book, err := s.store.Create(s.ctx, "Book", 50.00, nil)
	require.NoError(s.T(), err)
	_, err = s.store.Create(s.ctx, "Lamp", 75.00, nil)
	require.NoError(s.T(), err)

	for range 3 {
		_, err = s.store.IncrementViewCount(s.ctx, book.ID)
		require.NoError(s.T(), err)
	}
	_, err = s.store.IncrementViewCount(s.ctx, toy.ID)
	require.NoError(s.T(), err)

	// when
	ranking, err := s.store.FindMostViewed(s.ctx, 5)

	// then: viewed products only, descending by view count
	require.NoError(s.T(), err)
	require.Len(s.T(), ranking, 2)
	assert.Equal(s.T(), "Book", ranking[0].Name)
	assert.Equal(s.T(), "Toy", ranking[1].Name)
}

func (s *ProductStoreSuite) TestFindMostViewed_Limit() {
	// given
	for _, name := range []string{"A", "B", "C"} {
		created, err := s.store.Create(s.ctx, name, 10.00, nil)
		require.NoError(s.T(), err)
		_, err = s.store.IncrementViewCount(s.ctx, created.ID)
		require.NoError(s.T(), err)
	}

	// when
	ranking, err := s.store.FindMostViewed(s.ctx, 2)

	// then
	require.NoError(s.T(), err)
	assert.Len(s.T(), ranking, 2)
}

func (s *ProductStoreSuite) TestFindMostViewed_EmptyWhenNothingViewed() {
	// given
	_, err := s.store.Create(s.ctx, "Toy", 100.00, nil)
	require.NoError(s.T(), err)

	// when
	ranking, err := s.store.FindMostViewed(s.ctx, 5)

	// then
	require.NoError(s.T(), err)
	assert.Empty(s.T(), ranking)
}

func (s *ProductStoreSuite) TestUpdate() {
	// given
	created, err := s.store.Create(s.ctx, "Toy", 100.00, nil)
	require.NoError(s.T(), err)

	// when
	description := "now with description"
	updated, err := s.store.Update(s.ctx, created.ID, "Better Toy", 120.00, &description)

	// then
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Better Toy", updated.Name)
	assert.Equal(s.T(), 120.00, updated.Price)
	require.NotNil(s.T(), updated.Description)
	assert.Equal(s.T(), description, *updated.Description)
}

func (s *ProductStoreSuite) TestUpdate_NotFound() {
	// when
	_, err := s.store.Update(s.ctx, 9999, "Ghost", 1.00, nil)

	// then
	assert.ErrorIs(s.T(), err, perrors.ErrProductNotFound)
}

func (s *ProductStoreSuite) TestSoftDelete() {
	// given: a viewed product
	created, err := s.store.Create(s.ctx, "Toy", 100.00, nil)
	require.NoError(s.T(), err)
	_, err = s.store.IncrementViewCount(s.ctx, created.ID)
	require.NoError(s.T(), err)

	// when
	err = s.store.SoftDelete(s.ctx, created.ID)

	// then: the product disappears from reads and from the ranking
	require.NoError(s.T(), err)
	_, err = s.store.FindByID(s.ctx, created.ID)
	assert.ErrorIs(s.T(), err, perrors.ErrProductNotFound)
	ranking, err := s.store.FindMostViewed(s.ctx, 5)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), ranking)
}

func (s *ProductStoreSuite) TestSoftDelete_Idempotence() {
	// given
	created, err := s.store.Create(s.ctx, "Toy", 100.00, nil)
	require.NoError(s.T(), err)
	require.NoError(s.T(), s.store.SoftDelete(s.ctx, created.ID))

	// when: deleting an already deleted product
	err = s.store.SoftDelete(s.ctx, created.ID)

	// then
	assert.ErrorIs(s.T(), err, perrors.ErrProductNotFound)
}
