package integration

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	handler "github.com/vncsmyrnk/swingmap/internal/adapters/handler/http"
	repo "github.com/vncsmyrnk/swingmap/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/swingmap/internal/adapters/rules"
	"github.com/vncsmyrnk/swingmap/internal/core/ports"
	"github.com/vncsmyrnk/swingmap/internal/core/services"
)

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	dbName := "testdb"
	user := "user"
	password := "password"

	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(user),
		postgres.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

const migrationsDir = "../../internal/adapters/repository/postgres/migrations"

// applyMigrations runs every up migration in version order.
func applyMigrations(ctx context.Context, db *sql.DB) error {
	files, err := repo.MigrationFiles(migrationsDir, "all", "up")
	if err != nil {
		return err
	}

	for _, name := range files {
		content, err := os.ReadFile(filepath.Join(migrationsDir, name))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", name, err)
		}
		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", name, err)
		}
	}

	return nil
}

type TestApp struct {
	DB          *sql.DB
	Server      *httptest.Server
	Client      *http.Client
	Results     ports.ElectionResultRepository
	Messages    ports.MessageRepository
	Importer    ports.ImportService
	Warmer      ports.CacheWarmer
	Cache       *repo.CacheRepository
	DBContainer testcontainers.Container
}

// setupTestApp wires the full stack against a fresh database, using the
// postgres cache backend so cache state can be inspected with SQL.
func setupTestApp(t *testing.T) *TestApp {
	t.Helper()

	ctx := context.Background()
	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := repo.Open(ctx, dbURL)
	require.NoError(t, err)

	require.NoError(t, applyMigrations(ctx, db))

	resultRepo := repo.NewElectionResultRepository(db)
	demographicRepo := repo.NewDemographicRepository(db)
	messageRepo := repo.NewMessageRepository(db)
	cacheRepo := repo.NewCacheRepository(db)

	swingSvc := services.NewSwingService(resultRepo, cacheRepo, services.DefaultCacheTTL, nil)
	demographicSvc := services.NewDemographicService(demographicRepo, cacheRepo, services.DefaultCacheTTL, nil)
	messageSvc := services.NewMessageService(messageRepo, rules.Default(), nil)

	router := handler.NewHandler(
		handler.NewElectionHandler(swingSvc, demographicSvc, nil),
		handler.NewMessageHandler(messageSvc, nil),
		handler.RouterConfig{},
	)
	server := httptest.NewServer(router)

	return &TestApp{
		DB:          db,
		Server:      server,
		Client:      server.Client(),
		Results:     resultRepo,
		Messages:    messageRepo,
		Importer:    services.NewImportService(resultRepo, demographicRepo, nil),
		Warmer:      services.NewCacheWarmer(resultRepo, cacheRepo, services.DefaultCacheTTL, 2, nil),
		Cache:       cacheRepo,
		DBContainer: dbContainer,
	}
}

func (app *TestApp) Teardown(t *testing.T) {
	app.Server.Close()
	app.DB.Close()
	if err := app.DBContainer.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}

const countiesCSV = `fips,name,state_abbr,state_name,lat,lng,region
42001,Adams,PA,Pennsylvania,39.87,-77.22,Northeast
42003,Allegheny,PA,Pennsylvania,40.46,-79.98,Northeast
39001,Adams,OH,Ohio,38.85,-83.47,Midwest
`

const resultsCSV = `year,state_po,county_fips,office,party,candidatevotes,totalvotes
2020,PA,42001,US PRESIDENT,DEMOCRAT,40000,100000
2020,PA,42001,US PRESIDENT,REPUBLICAN,60000,100000
2024,PA,42001,US PRESIDENT,DEMOCRAT,55000,100000
2024,PA,42001,US PRESIDENT,REPUBLICAN,45000,100000
2020,PA,42003,US PRESIDENT,DEMOCRAT,600,1000
2020,PA,42003,US PRESIDENT,REPUBLICAN,400,1000
2024,PA,42003,US PRESIDENT,DEMOCRAT,500,1000
2024,PA,42003,US PRESIDENT,REPUBLICAN,500,1000
2024,OH,39001,US PRESIDENT,DEMOCRAT,10,30
2024,OH,39001,US PRESIDENT,REPUBLICAN,20,30
`

const demographicsCSV = `county_fips,data_year,population,median_income,poverty_rate,turnout_rate
42001,2022,100000,70000,8,70
42003,2022,300000,60000,12,60
39001,2022,27000,45000,18,55
`

func (app *TestApp) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	_, err := app.Importer.ImportCounties(ctx, strings.NewReader(countiesCSV))
	require.NoError(t, err)
	_, err = app.Importer.ImportResults(ctx, strings.NewReader(resultsCSV))
	require.NoError(t, err)
	_, err = app.Importer.ImportDemographics(ctx, strings.NewReader(demographicsCSV))
	require.NoError(t, err)
}
