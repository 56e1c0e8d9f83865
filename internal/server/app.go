// Package server initializes and runs the listing board server. It wires
// the storage backends, the session store and the workflows, handles
// graceful shutdown and starts the HTTP server.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/workboard/internal/logging"
	"github.com/dmitrijs2005/workboard/internal/server/config"
	"github.com/dmitrijs2005/workboard/internal/server/httpapi"
	"github.com/dmitrijs2005/workboard/internal/server/services"
	"github.com/dmitrijs2005/workboard/internal/server/session"
	"github.com/dmitrijs2005/workboard/internal/server/shared/db"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	listingService *services.ListingService
	userService    *services.UserService
	logoService    *services.LogoService
	sessions       session.Store
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	slog := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slog)

	rm, err := db.NewPostgresRepositoryManager(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	sessions, err := newSessionStore(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("session store init error: %w", err)
	}

	ls := services.NewListingService(rm.Listings(), sessions, logger)
	us := services.NewUserService(rm.Users(), sessions, c, logger)
	gs := services.NewLogoService(rm.Listings(), c, logger)

	return &App{
		config:         c,
		logger:         logger,
		listingService: ls,
		userService:    us,
		logoService:    gs,
		sessions:       sessions,
	}, nil
}

// newSessionStore connects to redis when a URL is configured and falls back
// to the in-process store otherwise.
func newSessionStore(ctx context.Context, c *config.Config) (session.Store, error) {
	if c.RedisURL == "" {
		return session.NewMemoryStore(), nil
	}
	client, err := session.NewRedisClient(ctx, c.RedisURL)
	if err != nil {
		return nil, err
	}
	return session.NewRedisStore(client, c.SessionValidityDuration), nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewServer(app.config.EndpointAddrHTTP, app.logger,
		app.listingService, app.userService, app.logoService,
		app.sessions, app.config.SecretKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
