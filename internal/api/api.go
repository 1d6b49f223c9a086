package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"
	"github.com/jon4hz/chessweb/internal/accounts"
	"github.com/jon4hz/chessweb/internal/api/auth"
	"github.com/jon4hz/chessweb/internal/api/handler"
	"github.com/jon4hz/chessweb/internal/config"
	"github.com/jon4hz/chessweb/internal/static"
)

const (
	sessionName     = "chessweb_session"
	readTimeout     = 15 * time.Second
	writeTimeout    = 15 * time.Second
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 5 * time.Second
)

type Server struct {
	cfg         *config.Config
	ginEngine   *gin.Engine
	authManager *auth.Manager
	handler     *handler.Handler
}

// New creates the web server and registers all routes.
func New(cfg *config.Config, store *accounts.Store) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if store == nil {
		return nil, fmt.Errorf("account store is required")
	}

	authManager := auth.NewManager(cfg.RememberMaxAge, cfg.SecureCookies)

	s := &Server{
		cfg:         cfg,
		ginEngine:   gin.New(),
		authManager: authManager,
		handler:     handler.New(store, authManager),
	}

	if err := s.setupSession(); err != nil {
		return nil, err
	}
	s.setupRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) sessionKey() ([]byte, error) {
	if s.cfg.SessionKey != "" {
		return []byte(s.cfg.SessionKey), nil
	}
	key := securecookie.GenerateRandomKey(32)
	if key == nil {
		return nil, fmt.Errorf("failed to generate session key")
	}
	log.Warn("no session key configured, sessions will not survive a restart")
	return key, nil
}

func (s *Server) setupSession() error {
	key, err := s.sessionKey()
	if err != nil {
		return err
	}

	store := cookie.NewStore(key)
	// signed cookies are accepted for as long as a remembered login lasts
	if st, ok := store.(interface{ MaxAge(int) }); ok {
		st.MaxAge(s.cfg.RememberMaxAge)
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   0,
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	s.ginEngine.Use(gin.Recovery())
	s.ginEngine.Use(requestLogger())
	s.ginEngine.Use(gzip.Gzip(gzip.DefaultCompression))
	s.ginEngine.Use(sessions.Sessions(sessionName, store))
	s.ginEngine.Use(s.authManager.LoadIdentity())
	return nil
}

func (s *Server) setupRoutes() {
	s.ginEngine.StaticFS("/static", http.FS(static.Assets()))

	for _, r := range s.routes() {
		s.register(r)
	}
	s.ginEngine.GET("/site-map", s.siteMap)

	s.ginEngine.NoRoute(s.handler.NotFound)
}

// Handler returns the http handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.ginEngine
}

// Run serves until ctx is cancelled and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.ginEngine,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting web server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down web server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down web server: %w", err)
	}
	return nil
}
