// Package httpapi exposes the listing board over HTTP/JSON. Handlers decode
// the request, call the matching workflow and render its outcome; they hold
// no business rules of their own.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/workboard/internal/logging"
	"github.com/dmitrijs2005/workboard/internal/server/session"
	"github.com/dmitrijs2005/workboard/internal/server/services"
)

type Server struct {
	address   string
	logger    logging.Logger
	listings  *services.ListingService
	users     *services.UserService
	logos     *services.LogoService
	sessions  session.Store
	jwtSecret []byte
}

func NewServer(address string, l logging.Logger, ls *services.ListingService,
	us *services.UserService, gs *services.LogoService, sessions session.Store,
	secretKey string) *Server {
	return &Server{
		address:   address,
		logger:    l.With("module", "http_server"),
		listings:  ls,
		users:     us,
		logos:     gs,
		sessions:  sessions,
		jwtSecret: []byte(secretKey),
	}
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("GET /listings", s.handleListingIndex)
	mux.HandleFunc("GET /listings/search", s.handleListingSearch)
	mux.HandleFunc("GET /listings/{id}", s.handleListingShow)
	mux.HandleFunc("POST /listings", s.requireAuth(s.handleListingCreate))
	mux.HandleFunc("PUT /listings/{id}", s.requireAuth(s.handleListingUpdate))
	mux.HandleFunc("DELETE /listings/{id}", s.requireAuth(s.handleListingDelete))

	mux.HandleFunc("POST /listings/{id}/logo-url", s.requireAuth(s.handleLogoUploadURL))
	mux.HandleFunc("GET /listings/{id}/logo", s.handleLogoDownload)

	mux.HandleFunc("POST /register", s.handleRegister)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST /logout", s.handleLogout)

	return s.logRequests(s.withSession(mux))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, "ok", nil)
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
