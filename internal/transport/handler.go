// Package transport exposes the grid over HTTP.
package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goodnatureofminers/digzone-backend/internal/grid"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 16

// Handler serves the grid API.
type Handler struct {
	svc    GridService
	logger *zap.Logger
}

// NewHandler returns a Handler backed by svc.
func NewHandler(svc GridService, logger *zap.Logger) (*Handler, error) {
	if svc == nil {
		return nil, errors.New("grid service is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	return &Handler{svc: svc, logger: logger.Named("http")}, nil
}

// Register mounts the API routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /grid", h.getGrid)
	mux.HandleFunc("GET /grid/{index}", h.getBlock)
	mux.HandleFunc("POST /grid/{index}/claim", h.claim)
	mux.HandleFunc("PUT /grid/{index}/visual", h.setVisual)
	mux.HandleFunc("PUT /grid/{index}/color", h.setColor)
	mux.HandleFunc("GET /stats", h.stats)
	mux.HandleFunc("GET /stats/users/{identity}", h.userStats)
	mux.HandleFunc("GET /top-miners", h.topMiners)
	mux.HandleFunc("GET /healthz", h.health)
}

type claimRequest struct {
	Identity string `json:"identity"`
	Color    string `json:"color"`
}

type colorRequest struct {
	Identity string `json:"identity"`
	Color    string `json:"color"`
}

type visualRequest struct {
	Visual *string `json:"visual"`
}

type errorResponse struct {
	Error string `json:"error"`
	Owner string `json:"owner,omitempty"`
}

type healthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func (h *Handler) getGrid(w http.ResponseWriter, r *http.Request) {
	g, err := h.svc.GetGrid(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, g)
}

func (h *Handler) getBlock(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	block, err := h.svc.GetBlock(r.Context(), index)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, block)
}

func (h *Handler) claim(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req claimRequest
	if err = decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	block, err := h.svc.Claim(r.Context(), index, req.Identity, req.Color)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, block)
}

func (h *Handler) setVisual(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req visualRequest
	if err = decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	block, err := h.svc.SetVisual(r.Context(), index, req.Visual)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, block)
}

func (h *Handler) setColor(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req colorRequest
	if err = decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	block, err := h.svc.SetColor(r.Context(), index, req.Identity, req.Color)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, block)
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Stats(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

func (h *Handler) topMiners(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.writeError(w, r, fmt.Errorf("%w: limit must be a non-negative integer", grid.ErrInvalidArgument))
			return
		}
		limit = n
	}
	miners, err := h.svc.TopMiners(r.Context(), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, miners)
}

func (h *Handler) userStats(w http.ResponseWriter, r *http.Request) {
	identity := strings.TrimSpace(r.PathValue("identity"))
	if identity == "" {
		h.writeError(w, r, fmt.Errorf("%w: identity is required", grid.ErrInvalidArgument))
		return
	}
	summary, err := h.svc.UserStats(r.Context(), identity)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	if err := h.svc.Degraded(); err != nil {
		h.writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "degraded", Error: err.Error()})
		return
	}
	h.writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func pathIndex(r *http.Request) (int, error) {
	raw := r.PathValue("index")
	index, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: block index %q is not an integer", grid.ErrInvalidArgument, raw)
	}
	return index, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", grid.ErrInvalidArgument, err)
	}
	return nil
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, grid.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, grid.ErrOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, grid.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, grid.ErrAlreadyClaimed):
		return http.StatusConflict
	case errors.Is(err, grid.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, grid.ErrCorruptState):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	resp := errorResponse{Error: err.Error()}

	var claimed *grid.AlreadyClaimedError
	if errors.As(err, &claimed) {
		resp.Owner = claimed.Owner
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.Error(err),
		)
		if status == http.StatusInternalServerError {
			resp.Error = "internal error"
		}
	}
	h.writeJSON(w, status, resp)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("write response", zap.Error(err))
	}
}
