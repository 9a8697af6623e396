// Package mock provides a local HTTP server for trying wireform requests:
// routes can describe the bodies they receive, replay event streams, or
// answer with a fixed response.
package mock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/abdul-hamid-achik/wireform/packages/mediatype"
	"gopkg.in/yaml.v3"
)

// Server is a mock HTTP server driven by a route file
type Server struct {
	mu     sync.RWMutex
	router *Router
	files  map[string]bool // route and event files the routes were read from
	port   int
	delay  time.Duration
	logger *slog.Logger
}

// Option is a functional option for Server
type Option func(*Server)

// WithPort sets the server port
func WithPort(port int) Option {
	return func(s *Server) {
		s.port = port
	}
}

// WithDelay adds a delay to all responses
func WithDelay(delay time.Duration) Option {
	return func(s *Server) {
		s.delay = delay
	}
}

// WithLogger sets the request logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new mock server
func NewServer(opts ...Option) *Server {
	s := &Server{
		router: NewRouter(),
		files:  make(map[string]bool),
		port:   3000,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// routeFile is the YAML layout of a route file.
type routeFile struct {
	Routes []routeSpec `yaml:"routes"`
}

type routeSpec struct {
	Name        string            `yaml:"name"`
	Method      string            `yaml:"method"`
	Path        string            `yaml:"path"`
	Status      int               `yaml:"status"`
	ContentType string            `yaml:"contentType"`
	Headers     map[string]string `yaml:"headers"`
	Body        string            `yaml:"body"`
	Events      string            `yaml:"events"`
	Interval    string            `yaml:"interval"`
	Inspect     bool              `yaml:"inspect"`
}

// LoadFile loads routes from a YAML route file. Event files are resolved
// relative to the route file.
func (s *Server) LoadFile(path string) error {
	return s.LoadFiles([]string{path})
}

// LoadFiles loads routes from multiple route files. Nothing is added unless
// every file loads.
func (s *Server) LoadFiles(paths []string) error {
	router := NewRouter()
	files := make(map[string]bool)
	if err := loadRouteFiles(router, files, paths); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.router = s.router.with(router.routes...)
	for f := range files {
		s.files[f] = true
	}
	return nil
}

// Reload replaces every route with the ones read from paths. On error the
// current routes stay in place.
func (s *Server) Reload(paths []string) error {
	router := NewRouter()
	files := make(map[string]bool)
	if err := loadRouteFiles(router, files, paths); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.router = router
	s.files = files
	return nil
}

func loadRouteFiles(router *Router, files map[string]bool, paths []string) error {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read route file %s: %w", path, err)
		}
		files[absPath(path)] = true

		var file routeFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("failed to parse route file %s: %w", path, err)
		}

		for i, spec := range file.Routes {
			route, err := createRoute(spec, filepath.Dir(path), files)
			if err != nil {
				return fmt.Errorf("%s: route %d: %w", path, i+1, err)
			}
			router.AddRoute(route)
		}
	}
	return nil
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// AddRoute registers a route built in code.
func (s *Server) AddRoute(route *Route) {
	if route.PathRegex == nil {
		route.PathRegex = createPathRegex(route.PathPattern)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.router = s.router.with(route)
}

// currentRouter returns the active router. Routers are never modified once
// they serve requests; changes swap in a new one.
func (s *Server) currentRouter() *Router {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.router
}

// sourceFiles returns the absolute paths of every file the routes were read from.
func (s *Server) sourceFiles() map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	files := make(map[string]bool, len(s.files))
	for f := range s.files {
		files[f] = true
	}
	return files
}

func createRoute(spec routeSpec, baseDir string, files map[string]bool) (*Route, error) {
	if spec.Path == "" {
		return nil, errors.New("path is required")
	}

	method := strings.ToUpper(spec.Method)
	if method == "" {
		method = "*"
	}

	resp := &MockResponse{
		StatusCode:  spec.Status,
		ContentType: spec.ContentType,
		Headers:     spec.Headers,
		Body:        spec.Body,
		Inspect:     spec.Inspect,
	}
	if resp.StatusCode == 0 {
		resp.StatusCode = http.StatusOK
	}

	if spec.Events != "" {
		eventsPath := spec.Events
		if !filepath.IsAbs(eventsPath) {
			eventsPath = filepath.Join(baseDir, eventsPath)
		}
		files[absPath(eventsPath)] = true
		data, err := os.ReadFile(eventsPath)
		if err != nil {
			return nil, fmt.Errorf("reading events: %w", err)
		}
		resp.Events = string(data)
	}

	if spec.Interval != "" {
		d, err := time.ParseDuration(spec.Interval)
		if err != nil {
			return nil, fmt.Errorf("invalid interval %q: %w", spec.Interval, err)
		}
		resp.EventInterval = d
	}

	pattern := normalizePath(spec.Path)
	return &Route{
		Method:      method,
		PathPattern: pattern,
		PathRegex:   createPathRegex(pattern),
		Name:        spec.Name,
		Response:    resp,
	}, nil
}

// Handler returns the HTTP handler serving the loaded routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRequest)
	return mux
}

// StartWithContext serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) StartWithContext(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	routes := s.GetRoutes()
	s.logger.Info("mock server listening", "addr", ln.Addr().String(), "routes", len(routes))
	for _, route := range routes {
		s.logger.Debug("route", "method", route.Method, "path", route.PathPattern, "name", route.Name)
	}

	err := server.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-r.Context().Done():
			return
		}
	}

	route, params := s.currentRouter().Match(r.Method, r.URL.Path)
	if route == nil {
		s.logger.Info("no route", "method", r.Method, "path", r.URL.Path)
		http.NotFound(w, r)
		return
	}

	resp := route.Response
	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}

	status := resp.StatusCode
	switch {
	case resp.Inspect:
		status = s.writeInspection(w, r, params)
	case resp.Events != "":
		s.writeEvents(w, r, resp)
	default:
		if resp.ContentType != "" {
			w.Header().Set("Content-Type", resp.ContentType)
		}
		w.WriteHeader(resp.StatusCode)
		w.Write([]byte(resolveBodyParams(resp.Body, params)))
	}

	s.logger.Info("request",
		"method", r.Method,
		"path", r.URL.Path,
		"route", route.Name,
		"status", status,
		"duration", time.Since(start),
	)
}

func (s *Server) writeInspection(w http.ResponseWriter, r *http.Request, params map[string]string) int {
	in, err := Inspect(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return http.StatusBadRequest
	}
	if len(params) > 0 {
		in.Params = params
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(in)
	return http.StatusOK
}

// writeEvents replays the event document one blank-line separated block at
// a time, flushing after each.
func (s *Server) writeEvents(w http.ResponseWriter, r *http.Request, resp *MockResponse) {
	w.Header().Set("Content-Type", mediatype.EventStream)
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(resp.StatusCode)

	flusher, _ := w.(http.Flusher)
	for i, block := range splitEventBlocks(resp.Events) {
		if i > 0 && resp.EventInterval > 0 {
			select {
			case <-time.After(resp.EventInterval):
			case <-r.Context().Done():
				return
			}
		}
		if _, err := w.Write([]byte(block)); err != nil {
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// splitEventBlocks cuts doc after every blank line, keeping the bytes intact.
func splitEventBlocks(doc string) []string {
	var blocks []string
	for doc != "" {
		end := -1
		for _, sep := range []string{"\r\n\r\n", "\n\n", "\r\r"} {
			if i := strings.Index(doc, sep); i >= 0 && (end < 0 || i+len(sep) < end) {
				end = i + len(sep)
			}
		}
		if end < 0 {
			blocks = append(blocks, doc)
			break
		}
		blocks = append(blocks, doc[:end])
		doc = doc[end:]
	}
	return blocks
}

func resolveBodyParams(body string, params map[string]string) string {
	result := body
	for key, value := range params {
		result = strings.ReplaceAll(result, "{{"+key+"}}", value)
	}
	return result
}

// GetRoutes returns all registered routes
func (s *Server) GetRoutes() []*Route {
	return append([]*Route(nil), s.currentRouter().routes...)
}
