// Package server exposes the renderer over HTTP: scene listing, PNG renders,
// tile streaming over server-sent events and pixel inspection.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// DefaultTileSize is the tile edge used for web renders
const DefaultTileSize = 32

// Request limits
const (
	minImageSize = 16
	maxImageSize = 2000
	maxSamples   = 10000
	maxDepth     = 1000
)

// Server handles web requests for the path tracer
type Server struct {
	port   int
	logger *slog.Logger
}

// NewServer creates a new web server. A nil logger uses slog.Default().
func NewServer(port int, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{port: port, logger: logger}
}

// RenderRequest represents a render request from the client. Zero image
// settings keep the scene's own camera values.
type RenderRequest struct {
	Scene      string `json:"scene"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Samples    int    `json:"samples"`
	MaxDepth   int    `json:"maxDepth"`
	Importance bool   `json:"importance"`
	Seed       int64  `json:"seed"`
}

// Handler returns the API routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/scenes", s.handleScenes)
	mux.HandleFunc("GET /api/render", s.handleRender)
	mux.HandleFunc("GET /api/render.png", s.handleRenderPNG)
	mux.HandleFunc("GET /api/inspect", s.handleInspect)
	return mux
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting web server", "addr", "http://localhost"+httpServer.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes with their default camera settings
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scene.ListScenes())
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = "cornell"
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, minImageSize, maxImageSize); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 0, minImageSize, maxImageSize); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(query, "samples", 0, 1, maxSamples); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(query, "maxDepth", integrator.DefaultMaxDepth, 1, maxDepth); err != nil {
		return nil, err
	}
	if req.Importance, err = parseBoolParam(query, "importance", true); err != nil {
		return nil, err
	}
	seed, err := parseIntParam(query, "seed", 1, 0, 1<<31-1)
	if err != nil {
		return nil, err
	}
	req.Seed = int64(seed)

	// Performance warning
	if req.Width*req.Height > 800*600 && req.Samples > 100 {
		s.logger.Warn("large image with high samples may render slowly",
			"width", req.Width, "height", req.Height, "samples", req.Samples)
	}
	return req, nil
}

// RenderingPipeline contains the configured scene, camera and integrator
type RenderingPipeline struct {
	Scene  *scene.Scene
	Camera *geometry.Camera
	Tracer *integrator.PathTracer
}

// setupRenderingPipeline loads the preset and applies the request overrides
func (s *Server) setupRenderingPipeline(req *RenderRequest) (*RenderingPipeline, error) {
	preset, err := scene.Load(req.Scene)
	if err != nil {
		return nil, err
	}

	config := preset.Camera
	if req.Width > 0 {
		config.Width = req.Width
	}
	if req.Height > 0 {
		config.Height = req.Height
	}
	if req.Samples > 0 {
		config.Samples = req.Samples
	}

	camera, err := geometry.NewCamera(config)
	if err != nil {
		return nil, err
	}
	return &RenderingPipeline{
		Scene:  preset.Scene,
		Camera: camera,
		Tracer: integrator.NewPathTracer(req.MaxDepth, req.Importance),
	}, nil
}

// statusFor maps pipeline errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, scene.ErrUnknownScene):
		return http.StatusNotFound
	case errors.Is(err, geometry.ErrDegenerateCamera),
		errors.Is(err, geometry.ErrInvalidResolution),
		errors.Is(err, geometry.ErrInvalidSamples):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// renderOptions builds renderer options for a web request
func (s *Server) renderOptions(req *RenderRequest, logger *slog.Logger) renderer.Options {
	opts := renderer.DefaultOptions()
	opts.TileSize = DefaultTileSize
	opts.Seed = req.Seed
	opts.Logger = logger
	return opts
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseBoolParam parses a boolean parameter from URL query
func parseBoolParam(values url.Values, key string, defaultValue bool) (bool, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// writeJSON writes v with the given status
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error body
func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
