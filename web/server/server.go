package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/output"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Request limits
const (
	MaxImageSize   = 1920
	MaxSamples     = 500
	MaxDepth       = 100
	DefaultWidth   = 400
	DefaultHeight  = 200
	DefaultSamples = 16

	// MaxConcurrentRenders bounds how many renders share the CPU at once.
	// Each render already fans out over every core.
	MaxConcurrentRenders = 2
)

// Server handles web requests for the raytracer
type Server struct {
	port     int
	sceneDir string
	renders  *semaphore.Weighted
}

// NewServer creates a new web server. JSON scenes are served from sceneDir.
func NewServer(port int, sceneDir string) *Server {
	return &Server{
		port:     port,
		sceneDir: sceneDir,
		renders:  semaphore.NewWeighted(MaxConcurrentRenders),
	}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene   string `json:"scene"`   // Scene ID (e.g., "preview")
	Width   int    `json:"width"`   // Image width
	Height  int    `json:"height"`  // Image height
	Samples int    `json:"samples"` // Samples per pixel
	Depth   int    `json:"depth"`   // Maximum bounce depth
	Seed    int64  `json:"seed"`    // Sampling seed
}

// Handler returns the HTTP routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	mux.Handle("/", http.FileServer(http.Dir("static/")))

	// API endpoints
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/render/stream", s.handleRenderStream)
	mux.HandleFunc("/api/inspect", s.handleInspect)

	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in and JSON scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes(s.sceneDir)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// handleRender renders the whole image and returns it as a PNG
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request: " + err.Error()})
		return
	}

	sceneObj, err := s.createScene(req.Scene, req.Seed)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	// Queue behind running renders; gives up when the client does
	if err := s.renders.Acquire(r.Context(), 1); err != nil {
		return
	}
	defer s.renders.Release(1)

	logger := NewWebLogger(fmt.Sprintf("render-%d", time.Now().UnixNano()), nil)
	parallelRenderer := s.newRenderer(sceneObj, req, logger)

	writer := renderer.NewImageWriter(req.Width, req.Height)
	stats, err := parallelRenderer.Render(r.Context(), writer, nil)
	if err != nil {
		// Client disconnects land here too; nobody is left to read the body
		log.Printf("Render of %s failed: %v", req.Scene, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Render failed: " + err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := output.Encode(&buf, output.PNG, writer.Image()); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to encode image"})
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Render-Time-Ms", strconv.FormatInt(stats.Elapsed.Milliseconds(), 10))
	w.Header().Set("X-Total-Samples", strconv.Itoa(stats.TotalSamples))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// newRenderer creates a parallel renderer with the request's sampling overrides
func (s *Server) newRenderer(sceneObj *scene.Scene, req *RenderRequest, logger core.Logger) *renderer.ParallelRenderer {
	parallelRenderer := renderer.NewParallelRenderer(sceneObj, req.Width, req.Height,
		renderer.DefaultParallelConfig(), logger)
	parallelRenderer.MergeSamplingConfig(renderer.SamplingConfig{
		SamplesPerPixel: req.Samples,
		MaxDepth:        req.Depth,
		Seed:            req.Seed,
	})
	return parallelRenderer
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = scene.PreviewSceneID // Default scene
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", DefaultWidth, 1, MaxImageSize); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", DefaultHeight, 1, MaxImageSize); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(query, "samples", DefaultSamples, 1, MaxSamples); err != nil {
		return nil, err
	}
	if req.Depth, err = parseIntParam(query, "depth", renderer.DefaultSamplingConfig().MaxDepth, 1, MaxDepth); err != nil {
		return nil, err
	}
	if seed := query.Get("seed"); seed != "" {
		if req.Seed, err = strconv.ParseInt(seed, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid seed: %s", seed)
		}
	}

	// Performance warning
	if req.Width*req.Height > 800*600 && req.Samples > 100 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}

	return req, nil
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

// createScene creates a built-in scene or one of the JSON scenes listed in
// the scene directory. Arbitrary file paths are refused.
func (s *Server) createScene(sceneID string, seed int64) (*scene.Scene, error) {
	for _, info := range scene.BuiltInScenes() {
		if info.ID == sceneID {
			return scene.Create(sceneID, seed)
		}
	}

	fileScenes, err := scene.ListJSONScenes(s.sceneDir)
	if err != nil {
		return nil, err
	}
	for _, info := range fileScenes {
		if info.ID == sceneID {
			return scene.Load(info.FilePath)
		}
	}

	return nil, fmt.Errorf("%w: %s", scene.ErrUnknownScene, sceneID)
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := output.Encode(&buf, output.PNG, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// writeJSON writes v as a JSON response
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
