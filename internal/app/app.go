package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"postboard/internal/auth"
	"postboard/internal/config"
	"postboard/internal/database"
	"postboard/internal/event"
	"postboard/internal/handler"
	"postboard/internal/middleware"
	"postboard/internal/repository"
	"postboard/internal/router"
	"postboard/internal/service"
	"postboard/internal/view"
	"postboard/internal/websocket"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	server       *http.Server
	hub          *websocket.Hub
	cleanupFuncs []func()
}

type stores struct {
	users  service.UserStore
	posts  service.PostStore
	pinger handler.Pinger
	close  func()
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	st, err := openStores(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app, err := build(cfg, st)
	if err != nil {
		st.close()
		return nil, err
	}

	return app, nil
}

// Migrate applies pending schema migrations and exits; it is a no-op for the
// memory driver.
func Migrate(ctx context.Context, cfg *config.Config) error {
	if cfg.StorageDriver != config.StorageDriverPostgres {
		slog.Info("storage driver has no schema", "driver", cfg.StorageDriver)
		return nil
	}

	db, err := database.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	slog.Info("database migrated")
	return nil
}

func openStores(ctx context.Context, cfg *config.Config) (stores, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		slog.Warn("using in-memory storage; data is lost on restart")
		mem := repository.NewMemoryStore()
		return stores{users: mem.Users(), posts: mem.Posts(), close: func() {}}, nil
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return stores{}, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return stores{}, fmt.Errorf("failed to migrate database: %w", err)
	}
	slog.Info("database ready")

	return stores{
		users:  repository.NewUserRepository(db.SQL),
		posts:  repository.NewPostRepository(db.SQL),
		pinger: db,
		close:  db.Close,
	}, nil
}

func build(cfg *config.Config, st stores) (*App, error) {
	hasher, err := auth.NewPasswordHasher(cfg.BcryptCost, cfg.HashConcurrency)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize password hasher: %w", err)
	}

	codec, err := auth.NewTokenCodec([]byte(cfg.SessionSecret), cfg.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session tokens: %w", err)
	}

	views, err := view.New()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	bus := event.NewBus()
	hub := websocket.NewHub(bus)

	authService, err := service.NewAuthService(st.users, hasher, codec, bus, cfg.DefaultProfileImage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}
	postService := service.NewPostService(st.posts, st.users, bus, cfg.PostMaxLength)

	cookies := handler.NewSessionCookies(cfg.SessionCookieName, cfg.CookieSecure, cfg.SessionTTL)
	gate := auth.NewGate(codec, cfg.SessionCookieName, "/feed")

	appRouter := router.New(cfg, middleware.NewAuthMiddleware(gate), router.Handlers{
		Auth:   handler.NewAuthHandler(authService, cookies),
		Posts:  handler.NewPostHandler(postService),
		Pages:  handler.NewPageHandler(authService, postService, cookies, views),
		Live:   handler.NewLiveHandler(hub, cfg.CORSOrigins),
		Health: handler.NewHealthHandler(st.pinger),
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server:       server,
		hub:          hub,
		cleanupFuncs: []func(){st.close},
	}, nil
}

func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run serves until ctx is cancelled or the listener fails, then shuts down
// gracefully.
func (a *App) Run(ctx context.Context) error {
	hubCtx, stopHub := context.WithCancel(context.Background())
	go a.hub.Run(hubCtx)

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			runErr = fmt.Errorf("server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	stopHub()
	if err := a.server.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("graceful shutdown failed: %w", err)
	}

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	slog.Info("server stopped")
	return runErr
}
