package app

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"loungepos/internal/auth"
	appconfig "loungepos/internal/config"
	httpserver "loungepos/internal/http"
	"loungepos/internal/http/handlers"
	"loungepos/internal/mpesa"
	"loungepos/internal/notify"
	"loungepos/internal/redisstore"
	"loungepos/internal/service"
	"loungepos/internal/store/postgres"
	"loungepos/libs/db"
	"loungepos/libs/logging"
	libredis "loungepos/libs/redis"
)

// App wires the full dependency graph.
type App struct {
	server *httpserver.Server
	db     *sql.DB
	logger *zap.Logger
}

// New builds the application graph.
func New(cfg *appconfig.Config, logger *zap.Logger, ring *logging.Ring) (*App, error) {
	sqlDB, err := db.NewPostgres(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	st := postgres.New(sqlDB)
	hub := notify.NewHub(logger)

	sessions := service.NewSessionsService(st, hub, logger)
	if cfg.Redis.Addr != "" {
		redisClient, err := libredis.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			// The cache is an accelerator; boot without it rather than fail.
			logger.Warn("redis unavailable, running without active-session cache", zap.Error(err))
		} else {
			sessions.WithCache(redisstore.NewStore(redisClient, cfg.RedisTTL()))
		}
	}

	provider := mpesa.NewSimulator()
	stations := service.NewStationsService(st, hub, logger)
	payments := service.NewPaymentsService(st, hub, provider, logger).
		WithPolling(cfg.MpesaPollInterval(), cfg.Mpesa.PollAttempts)
	customers := service.NewCustomersService(st, hub, logger)
	games := service.NewGamesService(st, hub, logger)
	stats := service.NewStatsService(st, logger)

	hasher := auth.NewBcryptHasher(0)
	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.JWTExpiration())
	authSvc := auth.NewService(st, hasher, tokens, logger)

	deps := httpserver.RouterDeps{
		Auth:      handlers.NewAuthHandlers(authSvc),
		Stations:  handlers.NewStationsHandlers(stations),
		Sessions:  handlers.NewSessionsHandlers(sessions),
		Payments:  handlers.NewPaymentsHandlers(payments),
		Customers: handlers.NewCustomersHandlers(customers, sessions),
		Games:     handlers.NewGamesHandlers(games),
		Reports:   handlers.NewReportsHandlers(stats),
		Health:    handlers.NewHealthHandler(),
		DebugLogs: handlers.NewDebugLogsHandler(ring),
		WS:        hub.HandleWS,
	}

	router := httpserver.NewRouter(deps, auth.Middleware(tokens))
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server: server,
		db:     sqlDB,
		logger: logger,
	}, nil
}

// Run starts serving HTTP traffic until context cancellation.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases acquired resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}
