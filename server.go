package tgvmaxmap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/tgvmax-map/config"
	"github.com/theoremus-urban-solutions/tgvmax-map/internal"
	"github.com/theoremus-urban-solutions/tgvmax-map/loader"
	"github.com/theoremus-urban-solutions/tgvmax-map/metrics"
)

// ErrReloadInProgress is returned when a reload is requested while one is running.
var ErrReloadInProgress = errors.New("reload already in progress")

// Server exposes the current snapshot over HTTP and keeps it fresh.
type Server struct {
	cfg     config.AppConfig
	holder  *loader.Holder
	loader  *loader.Loader
	views   *ViewCache
	logger  *zap.Logger
	metrics *metrics.Registry
	now     func() time.Time

	reloadMu sync.Mutex
}

// NewServer creates a server. ld may be nil, in which case reloads fail.
func NewServer(cfg config.AppConfig, h *loader.Holder, ld *loader.Loader, logger *zap.Logger, m *metrics.Registry) *Server {
	return &Server{
		cfg:     cfg,
		holder:  h,
		loader:  ld,
		views:   NewViewCache(time.Duration(cfg.Reload.IntervalMinutes) * time.Minute),
		logger:  internal.OrNop(logger),
		metrics: m,
		now:     time.Now,
	}
}

// Handler returns the router wrapped with CORS and request metrics.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(s.instrument)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/stations", s.handleStations).Methods(http.MethodGet)
	api.HandleFunc("/pairs", s.handlePairs).Methods(http.MethodGet)
	api.HandleFunc("/map.geojson", s.handleGeoJSON).Methods(http.MethodGet)
	api.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
	api.HandleFunc("/filters", s.handleFilters).Methods(http.MethodGet)
	api.HandleFunc("/reload", s.handleReload).Methods(http.MethodPost)
	router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Origin"},
		MaxAge:         300,
	})
	return c.Handler(router)
}

// Reload runs one load cycle and publishes it. Concurrent calls do not
// queue; the second returns ErrReloadInProgress.
func (s *Server) Reload(ctx context.Context) error {
	if s.loader == nil {
		return errors.New("no loader configured")
	}
	if !s.reloadMu.TryLock() {
		return ErrReloadInProgress
	}
	defer s.reloadMu.Unlock()
	return s.loader.Reload(ctx, s.holder)
}

// Run loads the first snapshot, serves HTTP and reloads on every
// interval until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()
	s.logger.Info("server listening", zap.String("addr", addr))

	go s.reloadLoop(ctx, time.Duration(s.cfg.Reload.IntervalMinutes)*time.Minute)

	select {
	case err := <-errc:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	s.logger.Info("server shut down successfully")
	return nil
}

func (s *Server) reloadLoop(ctx context.Context, interval time.Duration) {
	s.reloadOnce(ctx)
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.reloadOnce(ctx)
		}
	}
}

func (s *Server) reloadOnce(ctx context.Context) {
	if err := s.Reload(ctx); err != nil && ctx.Err() == nil {
		s.logger.Warn("reload failed, keeping previous snapshot", zap.Error(err))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				path = tpl
			}
		}
		s.metrics.RecordHTTPRequest(r.Method, path, rec.status, time.Since(start))
	})
}
