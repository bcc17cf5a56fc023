package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"edurate/cache"
	"edurate/config"
	"edurate/db"
	"edurate/monitoring"
	"edurate/review"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	http    *http.Server
	log     *logrus.Logger
	tlsCert string
	tlsKey  string
	closers []func() error
}

// New wraps handler in an http.Server listening on addr.
func New(addr string, handler http.Handler, log *logrus.Logger) *Server {
	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		log: log,
	}
}

// Bootstrap connects to the database and, when configured, Redis, then builds
// the router. Resources opened here are released when Run returns.
func Bootstrap(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*Server, error) {
	if err := cfg.RequireDatabase(); err != nil {
		return nil, err
	}
	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	lex, err := review.LoadLexicon(cfg.LexiconFile)
	if err != nil {
		return nil, err
	}

	gdb, err := db.Open(db.Config{
		URL:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	}, log)
	if err != nil {
		return nil, err
	}
	closers := []func() error{func() error { return db.Close(gdb) }}

	deps := Deps{
		Store:             db.NewStore(gdb),
		Lexicon:           lex,
		Metrics:           monitoring.NewMetrics(),
		Log:               log,
		CORSOrigins:       cfg.CORSOrigins,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
	}

	if cfg.RateLimitEnabled() {
		rc, err := cache.New(ctx, cache.Options{URL: cfg.RedisURL, Password: cfg.RedisPassword})
		if err != nil {
			log.WithError(err).Warn("Redis unavailable, rate limiting disabled")
		} else {
			deps.Limiter = rc
			closers = append(closers, rc.Close)
			log.WithField("requests", cfg.RateLimitRequests).Info("Rate limiting enabled")
		}
	}

	s := New(cfg.Addr(), NewRouter(deps), log)
	s.closers = closers
	if cfg.UseHTTPS {
		s.tlsCert, s.tlsKey = cfg.TLSCertFile, cfg.TLSKeyFile
		s.http.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return s, nil
}

// Migrate opens the database named by cfg and brings the schema up to date.
func Migrate(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*gorm.DB, error) {
	if err := cfg.RequireDatabase(); err != nil {
		return nil, err
	}
	gdb, err := db.Open(db.Config{URL: cfg.DatabaseURL}, log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(gdb.WithContext(ctx)); err != nil {
		_ = db.Close(gdb)
		return nil, err
	}
	return gdb, nil
}

func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run serves until ctx is cancelled or the listener fails, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	defer s.close()

	serverErrors := make(chan error, 1)
	go func() {
		s.log.WithFields(logrus.Fields{"addr": s.http.Addr, "tls": s.tlsCert != ""}).Info("HTTP server listening")
		if s.tlsCert != "" {
			serverErrors <- s.http.ListenAndServeTLS(s.tlsCert, s.tlsKey)
		} else {
			serverErrors <- s.http.ListenAndServe()
		}
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error starting server: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.log.Info("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	s.log.Info("Server stopped")
	return nil
}

func (s *Server) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			s.log.WithError(err).Warn("error releasing resource")
		}
	}
}
