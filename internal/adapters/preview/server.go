package preview

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/mikey/mailguard/internal/adapters/render"
	"github.com/mikey/mailguard/internal/core"
	"go.uber.org/zap"
)

// shutdownTimeout bounds how long Stop waits for in-flight requests
const shutdownTimeout = 5 * time.Second

// Server serves the HTML output of the client on a local address
type Server struct {
	renderer   *render.HTMLRenderer
	logger     *zap.Logger
	listenAddr string
	server     *http.Server
	listener   net.Listener
}

// NewServer creates a preview server for renderer
func NewServer(renderer *render.HTMLRenderer, logger *zap.Logger, listenAddr string) *Server {
	s := &Server{
		renderer:   renderer,
		logger:     logger,
		listenAddr: listenAddr,
	}
	s.server = &http.Server{
		Handler:      s.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Router returns the request router
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if _, err := fmt.Fprintln(w, "OK"); err != nil {
			s.logger.Debug("Failed to write health response", zap.Error(err))
		}
	}).Methods(http.MethodGet)
	r.HandleFunc("/", s.handleDocument).Methods(http.MethodGet)
	r.HandleFunc("/demo/{kind}", s.handleDemo).Methods(http.MethodGet)
	r.HandleFunc("/regions/{id}", s.handleRegion).Methods(http.MethodGet)
	return r
}

// Start starts serving in the background
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.listenAddr, err)
	}
	s.listener = listener

	s.logger.Info("Preview server starting", zap.String("address", listener.Addr().String()))

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Preview server error", zap.Error(err))
		}
	}()
	return nil
}

// Stop shuts the server down gracefully
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to stop preview server: %w", err)
	}
	s.logger.Info("Preview server stopped")
	return nil
}

// Addr returns the bound address once started
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.listenAddr
	}
	return s.listener.Addr().String()
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	s.writeDocument(w, "MailGuard")
}

func (s *Server) handleDemo(w http.ResponseWriter, r *http.Request) {
	demo, err := core.Demo(core.DemoKind(mux.Vars(r)["kind"]))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	html, err := s.renderer.Fragment("demo", core.BuildDemoView(demo))
	if err != nil {
		s.logger.Error("Failed to render demo", zap.Error(err))
		http.Error(w, "failed to render demo", http.StatusInternalServerError)
		return
	}
	s.writeHTML(w, html)
}

func (s *Server) handleRegion(w http.ResponseWriter, r *http.Request) {
	html := s.renderer.Region(mux.Vars(r)["id"])
	if html == "" {
		http.NotFound(w, r)
		return
	}
	s.writeHTML(w, html)
}

func (s *Server) writeDocument(w http.ResponseWriter, title string) {
	doc, err := s.renderer.Document(title)
	if err != nil {
		s.logger.Error("Failed to render document", zap.Error(err))
		http.Error(w, "failed to render document", http.StatusInternalServerError)
		return
	}
	s.writeHTML(w, string(doc))
}

func (s *Server) writeHTML(w http.ResponseWriter, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(html)); err != nil {
		s.logger.Debug("Failed to write response", zap.Error(err))
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		startTime := time.Now()
		next.ServeHTTP(w, r)

		s.logger.Debug("Served request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", requestID),
			zap.Duration("duration", time.Since(startTime)))
	})
}
