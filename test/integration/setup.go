package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/vncsmyrnk/pollcontract/internal/adapters/auth"
	"github.com/vncsmyrnk/pollcontract/internal/adapters/eventbus"
	"github.com/vncsmyrnk/pollcontract/internal/adapters/eventbus/redisstream"
	handler "github.com/vncsmyrnk/pollcontract/internal/adapters/handler/http"
	"github.com/vncsmyrnk/pollcontract/internal/adapters/metrics"
	repo "github.com/vncsmyrnk/pollcontract/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/pollcontract/internal/adapters/upgrade"
	"github.com/vncsmyrnk/pollcontract/internal/core/services"
)

const eventStream = "integration:events"

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
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

func setupRedisContainer(ctx context.Context) (testcontainers.Container, string, error) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to start redis container: %w", err)
	}

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		return nil, "", err
	}
	return container, endpoint, nil
}

// TestApp is the full service stack over real postgres and redis.
type TestApp struct {
	DB     *sql.DB
	Redis  *redis.Client
	Server *httptest.Server
	Client *http.Client
	JWT    *auth.JWT
	Admin  uuid.UUID

	containers []testcontainers.Container
}

func setupTestApp(t *testing.T) *TestApp {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	app := &TestApp{Admin: uuid.New()}
	t.Cleanup(func() { app.Teardown(t) })

	pgContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)
	app.containers = append(app.containers, pgContainer)

	redisContainer, redisAddr, err := setupRedisContainer(ctx)
	require.NoError(t, err)
	app.containers = append(app.containers, redisContainer)

	app.DB, err = repo.Open(ctx, dbURL)
	require.NoError(t, err)
	_, err = repo.Migrate(ctx, app.DB, false)
	require.NoError(t, err)

	app.Redis = redis.NewClient(&redis.Options{Addr: redisAddr})
	require.NoError(t, app.Redis.Ping(ctx).Err())

	app.JWT, err = auth.NewJWT("test-secret")
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	sink := eventbus.Fanout{
		redisstream.NewPublisher(app.Redis, redisstream.WithStream(eventStream)),
		m.EventSink(),
	}
	installer := upgrade.NewRegistry()
	contract := m.Wrap(services.NewVotingContract(repo.NewStore(app.DB), sink, installer))

	router := handler.NewHandler(handler.Handlers{
		Poll:    handler.NewPollHandler(contract, contract),
		Vote:    handler.NewVoteHandler(contract),
		Admin:   handler.NewAdminHandler(contract, installer),
		Auth:    handler.NewAuthMiddleware(app.JWT),
		Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})
	app.Server = httptest.NewServer(router)
	app.Client = app.Server.Client()

	resp := app.Do(t, http.MethodPost, "/api/contract", app.Token(t, app.Admin), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return app
}

func (app *TestApp) Token(t *testing.T, account uuid.UUID) string {
	t.Helper()
	token, err := app.JWT.Issue(account, 15*time.Minute)
	require.NoError(t, err)
	return token
}

func (app *TestApp) Do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	raw := []byte{}
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, app.Server.URL+path, bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func (app *TestApp) Teardown(t *testing.T) {
	if app.Server != nil {
		app.Server.Close()
	}
	if app.Redis != nil {
		app.Redis.Close()
	}
	if app.DB != nil {
		app.DB.Close()
	}
	for _, c := range app.containers {
		if err := c.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}
}
