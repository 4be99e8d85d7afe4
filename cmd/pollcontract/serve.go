package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/vncsmyrnk/pollcontract/internal/adapters/auth"
	"github.com/vncsmyrnk/pollcontract/internal/adapters/eventbus"
	"github.com/vncsmyrnk/pollcontract/internal/adapters/eventbus/redisstream"
	"github.com/vncsmyrnk/pollcontract/internal/adapters/eventbus/websocket"
	handler "github.com/vncsmyrnk/pollcontract/internal/adapters/handler/http"
	"github.com/vncsmyrnk/pollcontract/internal/adapters/metrics"
	"github.com/vncsmyrnk/pollcontract/internal/adapters/upgrade"
	"github.com/vncsmyrnk/pollcontract/internal/config"
	"github.com/vncsmyrnk/pollcontract/internal/core/domain"
	"github.com/vncsmyrnk/pollcontract/internal/core/ports"
	"github.com/vncsmyrnk/pollcontract/internal/core/services"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFrom(cmd.Context())
			if err != nil {
				return err
			}
			return serveRun(cmd.Context(), cfg, commonRun())
		},
	}
}

func serveRun(parent context.Context, cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.Store, err)
	}
	defer store.Close()

	jwtAuth, err := auth.NewJWT(cfg.JWTSecret)
	if err != nil {
		return err
	}

	hashes, err := cfg.KnownCodeHashes()
	if err != nil {
		return err
	}
	installer := upgrade.NewRegistry(hashes...)

	sinks := eventbus.Fanout{eventbus.NewLogSink(logger)}

	var promRegistry *prometheus.Registry
	var collector *metrics.Metrics
	if cfg.MetricsEnabled {
		promRegistry = prometheus.NewRegistry()
		promRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		collector = metrics.New(promRegistry)
		sinks = append(sinks, collector.EventSink())
	}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			DialTimeout: 5 * time.Second,
			ReadTimeout: 5 * time.Second,
		})
		defer client.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			return fmt.Errorf("failed to reach redis at %s: %w", cfg.Redis.Addr, err)
		}
		sinks = append(sinks, redisstream.NewPublisher(client,
			redisstream.WithStream(cfg.Redis.Stream),
			redisstream.WithMaxLen(cfg.Redis.MaxLen),
			redisstream.WithLogger(logger),
		))
	}

	var hub *websocket.Hub
	if cfg.EventFeed {
		hub = websocket.NewHub(logger)
		go hub.Run(ctx)
		sinks = append(sinks, hub)
	}

	var contract ports.VotingContract = services.NewVotingContract(store, sinks, installer, services.WithLogger(logger))
	if collector != nil {
		contract = collector.Wrap(contract)
	}

	if err := bootstrap(ctx, cfg, contract, logger); err != nil {
		return err
	}

	handlers := handler.Handlers{
		Poll:  handler.NewPollHandler(contract, contract),
		Vote:  handler.NewVoteHandler(contract),
		Admin: handler.NewAdminHandler(contract, installer),
		Auth:  handler.NewAuthMiddleware(jwtAuth),
	}
	if hub != nil {
		handlers.Events = hub
	}
	if promRegistry != nil {
		handlers.Metrics = promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{})
	}

	server := &http.Server{Addr: cfg.Addr(), Handler: handler.NewHandler(handlers)}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "component", programName, "addr", cfg.Addr(), "store", cfg.Store)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	logger.Info("gracefully shutting down", "component", programName)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if hub != nil {
		<-hub.Done()
	}
	return nil
}

// bootstrap instantiates the contract for the configured admin account on
// first start.
func bootstrap(ctx context.Context, cfg *config.Config, contract ports.AdminService, logger *slog.Logger) error {
	admin, err := cfg.AdminAccountID()
	if err != nil {
		return err
	}
	if admin == (domain.AccountID{}) {
		return nil
	}

	err = contract.Instantiate(ctx, domain.Invocation{Caller: admin, RequestID: "bootstrap"})
	if errors.Is(err, domain.ErrContractAlreadyInstantiated) {
		logger.Debug("contract already instantiated", "component", programName)
		return nil
	}
	return err
}
