package server

import (
	"context"
	"embed"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/distortviz/pkg/distortion"
	"github.com/matzehuels/distortviz/pkg/layout"
	"github.com/matzehuels/distortviz/pkg/metrics"
	"github.com/matzehuels/distortviz/pkg/snapshot"
)

//go:embed web
var webFS embed.FS

// maxUploadSize bounds an uploaded edge-list file.
const maxUploadSize = 16 << 20

// Options configures a Server.
type Options struct {
	// Client talks to the distortion service. Nil disables distortion runs.
	Client distortion.Distorter
	// Snapshots stores saved views. Nil means an in-memory store.
	Snapshots snapshot.Store
	Layout    layout.Config
	Params    distortion.Params
	Metrics   *metrics.Registry
	Logger    *log.Logger
}

// Server serves the API and page.
type Server struct {
	opts   Options
	views  *registry
	router chi.Router
	logger *log.Logger
}

// New builds a server and its routes.
func New(opts Options) *Server {
	if opts.Snapshots == nil {
		opts.Snapshots = snapshot.NewMemoryStore()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Params.K == 0 {
		opts.Params = distortion.DefaultParams()
	}
	s := &Server{
		opts:   opts,
		views:  newRegistry(),
		logger: opts.Logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if s.opts.Metrics != nil {
		r.Use(s.metricsMiddleware)
	}

	static, _ := fs.Sub(webFS, "web")
	r.Handle("/", http.FileServer(http.FS(static)))
	r.Get("/healthz", s.handleHealth)
	if s.opts.Metrics != nil {
		r.Handle("/metrics", s.opts.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/views", s.handleCreateView)
		r.Route("/views/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetView)
			r.Delete("/", s.handleDeleteView)
			r.Put("/graphs/{slot}", s.handleLoadGraph)
			r.Put("/params", s.handleSetParams)
			r.Put("/region", s.handleSelectRegion)
			r.Post("/distortion", s.handleRunDistortion)
			r.Get("/events", s.handleEvents)
			r.Post("/snapshots", s.handleSaveSnapshot)
		})
		r.Get("/snapshots", s.handleListSnapshots)
		r.Route("/snapshots/{sid}", func(r chi.Router) {
			r.Get("/", s.handleGetSnapshot)
			r.Get("/svg", s.handleSnapshotSVG)
			r.Get("/dot", s.handleSnapshotDOT)
		})
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.views.closeAll()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
