package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/aberth/internal/config"
	"github.com/matzehuels/aberth/pkg/errors"
	"github.com/matzehuels/aberth/pkg/pipeline"
)

const (
	// MaxBodyBytes bounds the size of a request body.
	MaxBodyBytes = 1 << 20

	// MaxDegree bounds the degree accepted over HTTP.
	MaxDegree = 10000

	// MaxIterations bounds the iteration budget a request may ask for.
	MaxIterations = 10000

	// SolveTimeout bounds the wall time of one solve request.
	SolveTimeout = 30 * time.Second

	headerRequestID = "X-Request-ID"
)

// healthChecker is implemented by caches that can report their own health.
type healthChecker interface {
	Health(ctx context.Context) error
}

// Handler wires solve endpoints to a pipeline runner.
type Handler struct {
	runner   *pipeline.Runner
	defaults config.Solver
	logger   *log.Logger

	// Timeout cancels a solve that runs longer. Defaults to SolveTimeout.
	Timeout time.Duration
}

// NewHandler constructs a handler. Zero-valued request options fall back to
// defaults.
func NewHandler(runner *pipeline.Runner, defaults config.Solver, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{runner: runner, defaults: defaults, logger: logger, Timeout: SolveTimeout}
}

// Register mounts the endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/solve", h.HandleSolve)
	r.Get("/healthz", h.HandleHealth)
}

// HandleSolve handles POST /v1/solve requests.
func (h *Handler) HandleSolve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()
	id := uuid.NewString()
	w.Header().Set(headerRequestID, id)
	logger := h.logger.With("request_id", id)

	var req SolveRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if len(req.Coefficients) > MaxDegree+1 {
		writeError(w, errors.New(errors.ErrCodeInvalidInput,
			"degree %d exceeds the limit of %d", len(req.Coefficients)-1, MaxDegree))
		return
	}
	if req.MaxIterations > MaxIterations {
		writeError(w, errors.New(errors.ErrCodeInvalidInput,
			"max_iterations %d exceeds the limit of %d", req.MaxIterations, MaxIterations))
		return
	}

	p := req.Polynomial()
	opts := pipeline.Options{
		Polynomial:    p,
		MaxIterations: or(req.MaxIterations, h.defaults.MaxIterations),
		Tolerance:     or(req.Tolerance, h.defaults.Tolerance),
		Workers:       or(req.Workers, h.defaults.Workers),
		Seed:          req.Seed,
		Refresh:       req.Refresh,
		Logger:        logger,
	}

	res, err := h.runner.Solve(ctx, opts)
	if err != nil {
		if errors.IsInvalid(err) {
			logger.Debug("rejected solve", "error", err)
		} else {
			logger.Error("solve failed", "error", err)
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, FromResult(id, p, res))
}

// HandleHealth reports liveness and, when the cache supports it, cache
// health.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if hc, ok := h.runner.Cache.(healthChecker); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := hc.Health(ctx); err != nil {
			h.logger.Warn("cache unhealthy", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "cache": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func or[T comparable](v, fallback T) T {
	var zero T
	if v == zero {
		return fallback
	}
	return v
}
