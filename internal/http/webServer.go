package http

import (
	"context"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"catalyst/internal/logx"
	"catalyst/internal/pages"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type WebServer struct {
	server *http.Server
	wg     sync.WaitGroup
}

// NewRouter wires the pages and the static assets behind the common
// middleware stack. X-Forwarded-For and X-Real-IP are honoured only with
// trustProxy set; otherwise any client could pick its own rate limit key.
func NewRouter(p *pages.Pages, assets fs.FS, trustProxy bool) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if trustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Handle("/static/*", http.StripPrefix("/static", NewFileServerHandler(assets)))
	r.Group(p.Routes)

	return r
}

func NewWebServer(handler http.Handler, addr string) *WebServer {
	if addr == "" {
		addr = ":8080"
	}

	return &WebServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (s *WebServer) Start() error {
	logx.Info("web server started", "addr", s.server.Addr)
	s.wg.Add(1)
	defer s.wg.Done()

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *WebServer) Shutdown(ctx context.Context) error {
	defer s.wg.Wait()
	return s.server.Shutdown(ctx)
}
