package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/trogers1052/trading-position-modeler/internal/database"
	"github.com/trogers1052/trading-position-modeler/internal/models"
)

const maxBodyBytes = 1 << 20

// PositionService is the position workflow the handlers drive
type PositionService interface {
	List(ctx context.Context, filter string) ([]*models.PositionInput, error)
	Get(ctx context.Context, id string) (*models.PositionInput, error)
	Create(ctx context.Context, p *models.PositionInput) (*models.PositionInput, error)
	Update(ctx context.Context, p *models.PositionInput) (*models.PositionInput, error)
	PatchMany(ctx context.Context, ids []string, patches []models.Patch) ([]*models.PositionInput, error)
	Reorder(ctx context.Context, items []models.MultiPatchItem) ([]*models.PositionInput, error)
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
	Duplicate(ctx context.Context, id string) (*models.PositionInput, error)
	Render(ctx context.Context, id string) (*models.RenderedPosition, error)
	RenderInput(p *models.PositionInput) *models.RenderedPosition
}

// Pinger reports whether a backing service is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	service PositionService
	pingers map[string]Pinger
	logger  zerolog.Logger
}

// NewHandler creates a new Handler. Pingers are checked by the health endpoint.
func NewHandler(service PositionService, pingers map[string]Pinger, logger zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		pingers: pingers,
		logger:  logger.With().Str("component", "api").Logger(),
	}
}

// ListPositions handles GET /positions. The optional filter query parameter
// matches names ignoring case.
func (h *Handler) ListPositions(w http.ResponseWriter, r *http.Request) {
	inputs, err := h.service.List(r.Context(), strings.TrimSpace(r.URL.Query().Get("filter")))
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, inputs)
}

// GetPosition handles GET /positions/{id}
func (h *Handler) GetPosition(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// CreatePosition handles POST /positions
func (h *Handler) CreatePosition(w http.ResponseWriter, r *http.Request) {
	record, ok := h.decodeRecord(w, r)
	if !ok {
		return
	}
	record.ID = ""
	if err := models.ValidatePositionInput(record); err != nil {
		h.respondError(w, err)
		return
	}

	p, err := h.service.Create(r.Context(), models.NewPositionInputFromRecord(record))
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

// UpdatePosition handles PUT /positions. The ID travels in the body.
func (h *Handler) UpdatePosition(w http.ResponseWriter, r *http.Request) {
	record, ok := h.decodeRecord(w, r)
	if !ok {
		return
	}
	if record.ID == "" {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "id is required"})
		return
	}
	if err := models.ValidatePositionInput(record); err != nil {
		h.respondError(w, err)
		return
	}

	p, err := h.service.Update(r.Context(), models.NewPositionInputFromRecord(record))
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// PatchPositions handles PATCH /positions with body {ids, patchDocument}
func (h *Handler) PatchPositions(w http.ResponseWriter, r *http.Request) {
	var req models.MultiPatchItem
	if !h.decode(w, r, &req) {
		return
	}
	if len(req.IDs) == 0 {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "ids are required"})
		return
	}

	updated, err := h.service.PatchMany(r.Context(), req.IDs, req.PatchDocument)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// PatchMultiple handles PATCH /positions/patch-multiple with a list of patch items
func (h *Handler) PatchMultiple(w http.ResponseWriter, r *http.Request) {
	var items []models.MultiPatchItem
	if !h.decode(w, r, &items) {
		return
	}

	updated, err := h.service.Reorder(r.Context(), items)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// DeletePosition handles DELETE /positions/{id}
func (h *Handler) DeletePosition(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteMultiple handles POST /positions/delete-multiple with a list of ids
func (h *Handler) DeleteMultiple(w http.ResponseWriter, r *http.Request) {
	var ids []string
	if !h.decode(w, r, &ids) {
		return
	}

	deleted, err := h.service.DeleteMany(r.Context(), ids)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

// DuplicatePosition handles POST /positions/{id}/duplicate
func (h *Handler) DuplicatePosition(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Duplicate(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

// GetScenarios handles GET /positions/{id}/scenarios
func (h *Handler) GetScenarios(w http.ResponseWriter, r *http.Request) {
	rendered, err := h.service.Render(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rendered)
}

// RenderPreview handles POST /render. Nothing is stored.
func (h *Handler) RenderPreview(w http.ResponseWriter, r *http.Request) {
	record, ok := h.decodeRecord(w, r)
	if !ok {
		return
	}
	if record.Name == "" {
		record.Name = "Preview"
	}
	if err := models.ValidatePositionInput(record); err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.service.RenderInput(models.NewPositionInputFromRecord(record)))
}

// TaxRates handles GET /tax-rates
func (h *Handler) TaxRates(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, models.TaxRates())
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := map[string]string{}
	for name, p := range h.pingers {
		if err := p.Ping(ctx); err != nil {
			status = http.StatusServiceUnavailable
			checks[name] = err.Error()
			continue
		}
		checks[name] = "ok"
	}

	body := map[string]interface{}{"status": "healthy"}
	if status != http.StatusOK {
		body["status"] = "unhealthy"
	}
	if len(checks) > 0 {
		body["checks"] = checks
	}
	respondJSON(w, status, body)
}

// decodeRecord reads a position record, filling absent fields with the modeling defaults
func (h *Handler) decodeRecord(w http.ResponseWriter, r *http.Request) (models.PositionInputRecord, bool) {
	record := models.DefaultPositionInputRecord()
	ok := h.decode(w, r, &record)
	return record, ok
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

type errorResponse struct {
	Error string `json:"error"`
}

// respondError maps service errors onto HTTP status codes
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var validationErr *models.ValidationError
	switch {
	case errors.As(err, &validationErr), errors.Is(err, models.ErrInvalidPatch):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, database.ErrNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		h.logger.Error().Err(err).Msg("Request failed")
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
