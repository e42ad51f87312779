package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"catalyst/internal/api"
	"catalyst/internal/logx"
	"catalyst/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

type AdminServer struct {
	server *http.Server
	wg     sync.WaitGroup
}

func NewAdminRouter(adminHandler *api.AdminHandler, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/healthz", adminHandler.HealthHandler)
	r.Get("/admin/rooms", adminHandler.RoomsHandler)
	r.Get("/admin/devices", adminHandler.DevicesHandler)
	r.Method(http.MethodGet, "/metrics", metrics.Handler(gatherer))

	return r
}

func NewAdminServer(handler http.Handler, addr string) *AdminServer {
	if addr == "" {
		addr = "localhost:8081"
	}

	return &AdminServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (s *AdminServer) Start() error {
	logx.Info("admin API started", "addr", s.server.Addr)
	s.wg.Add(1)
	defer s.wg.Done()

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *AdminServer) Shutdown(ctx context.Context) error {
	defer s.wg.Wait()
	return s.server.Shutdown(ctx)
}
