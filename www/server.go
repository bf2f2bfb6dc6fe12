package www

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/icodeforyou/solarproposal-go/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Store interface {
	ProposalStore
	LogStore
}

type Server struct {
	logger *slog.Logger
	config config.AppConfigApi
	mux    *http.ServeMux
	tm     *TemplateManager
}

//go:embed static
var embeddedStaticDir embed.FS

func NewServer(db Store, runner ProposalRunner, sizer ProposalSizer, config config.AppConfigApi) (*Server, error) {
	logger := slog.Default().With("module", "www")
	tm, err := NewTemplateManager(logger, config.WwwDir)
	if err != nil {
		return nil, fmt.Errorf("template manager initialization: %w", err)
	}

	s := &Server{
		logger: logger,
		config: config,
		mux:    http.NewServeMux(),
		tm:     tm,
	}

	logReqMW := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.logger.Debug("http request",
				slog.String("method", r.Method),
				slog.String("url", r.URL.String()),
				slog.String("remoteAddr", r.RemoteAddr))
			next.ServeHTTP(w, r)
		})
	}

	handle := func(pattern, name string, h func(logger *slog.Logger) http.HandlerFunc) {
		s.mux.Handle(pattern, logReqMW(h(logger.With(slog.String("handler", name)))))
	}

	s.mux.Handle("GET /", staticFilesHandler(config.WwwDir))
	s.mux.Handle("GET /metrics", promhttp.Handler())

	handle("POST /api/proposals", "create_proposal", func(l *slog.Logger) http.HandlerFunc {
		return NewCreateProposalHandler(l, runner)
	})
	handle("GET /api/proposals", "list_proposals", func(l *slog.Logger) http.HandlerFunc {
		return NewListProposalsHandler(l, db)
	})
	handle("GET /api/proposals/{id}", "get_proposal", func(l *slog.Logger) http.HandlerFunc {
		return NewGetProposalHandler(l, db)
	})
	handle("GET /api/proposals/{id}/chart", "chart", func(l *slog.Logger) http.HandlerFunc {
		return NewChartHandler(l, db)
	})
	handle("GET /api/proposals/{id}/export", "export", func(l *slog.Logger) http.HandlerFunc {
		return NewExportHandler(l, db)
	})
	handle("POST /api/sizing", "sizing", func(l *slog.Logger) http.HandlerFunc {
		return NewSizingHandler(l, sizer)
	})
	handle("GET /proposals", "proposals_page", func(l *slog.Logger) http.HandlerFunc {
		return NewProposalsPageHandler(l, db, tm)
	})
	handle("GET /proposals/{id}", "proposal_page", func(l *slog.Logger) http.HandlerFunc {
		return NewProposalPageHandler(l, db, tm)
	})
	handle("GET /log", "log", func(l *slog.Logger) http.HandlerFunc {
		return NewLogHandler(l, db, tm)
	})

	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting server...", "address", s.config.Address, "port", s.config.Port)
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.config.Address, s.config.Port),
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErrors := make(chan error, 1)

	go func() {
		srvErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-srvErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second*5)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	}
}

func staticFilesHandler(extDir *string) http.Handler {
	if extDir != nil && *extDir != "" {
		staticDir := path.Join(*extDir, "static")
		if _, err := os.Stat(staticDir); err == nil {
			return http.FileServer(http.Dir(staticDir))
		}
	}

	fsys, err := fs.Sub(embeddedStaticDir, "static")
	if err != nil {
		log.Panic(err)
	}
	return http.FileServer(http.FS(fsys))
}
