package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dkraev/mycolog/internal/common"
	"github.com/dkraev/mycolog/internal/logging"
	"github.com/dkraev/mycolog/internal/server/models"
	"github.com/dkraev/mycolog/internal/server/services"
	"github.com/go-chi/chi/v5"
)

// recordDTO is the wire form of a record row. The JSON keys are a contract
// with the client sync engine.
type recordDTO struct {
	ID                int64          `json:"id,omitempty"`
	UserID            string         `json:"user_id,omitempty"`
	LocalID           string         `json:"local_id"`
	CreatedAt         int64          `json:"created_at"`
	UpdatedAt         int64          `json:"updated_at"`
	PhotoBase64       string         `json:"photo_base64"`
	ExtraPhotosBase64 []string       `json:"extra_photos_base64"`
	View              string         `json:"view,omitempty"`
	Meta              map[string]any `json:"meta"`
}

func toDTO(rec *models.Record) *recordDTO {
	return &recordDTO{
		ID:                rec.ID,
		UserID:            rec.UserID,
		LocalID:           rec.LocalID,
		CreatedAt:         rec.CreatedAt,
		UpdatedAt:         rec.UpdatedAt,
		PhotoBase64:       rec.PhotoBase64,
		ExtraPhotosBase64: rec.ExtraPhotosBase64,
		View:              rec.View,
		Meta:              rec.Meta,
	}
}

func (d *recordDTO) toModel() *models.Record {
	return &models.Record{
		LocalID:           d.LocalID,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
		PhotoBase64:       d.PhotoBase64,
		ExtraPhotosBase64: d.ExtraPhotosBase64,
		View:              d.View,
		Meta:              d.Meta,
	}
}

// RecordsHandler serves the authenticated record routes.
type RecordsHandler struct {
	records *services.RecordService
	logger  logging.Logger
}

func NewRecordsHandler(records *services.RecordService, logger logging.Logger) *RecordsHandler {
	return &RecordsHandler{records: records, logger: logger.With("component", "records_handler")}
}

// List handles GET /api/v1/records.
func (h *RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := ClaimsFromContext(ctx)

	recs, err := h.records.List(ctx, claims.UserID)
	if err != nil {
		h.logger.Error(ctx, "failed to list records", "error", err)
		respondError(w, "failed to list records", http.StatusInternalServerError)
		return
	}

	dtos := make([]*recordDTO, 0, len(recs))
	for _, rec := range recs {
		dtos = append(dtos, toDTO(rec))
	}
	respondJSON(w, http.StatusOK, map[string]any{"records": dtos})
}

// Lookup handles GET /api/v1/records/lookup?local_id=...
func (h *RecordsHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := ClaimsFromContext(ctx)

	localID := r.URL.Query().Get("local_id")
	if localID == "" {
		respondError(w, "local_id is required", http.StatusBadRequest)
		return
	}

	rec, err := h.records.Lookup(ctx, claims.UserID, localID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			respondError(w, "record not found", http.StatusNotFound)
			return
		}
		h.logger.Error(ctx, "lookup failed", "error", err)
		respondError(w, "lookup failed", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, toDTO(rec))
}

// Create handles POST /api/v1/records.
func (h *RecordsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := ClaimsFromContext(ctx)

	var dto recordDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.records.Create(ctx, claims.UserID, dto.toModel())
	if err != nil {
		switch {
		case errors.Is(err, common.ErrDuplicateRecord):
			respondError(w, "record already exists", http.StatusConflict)
		case errors.Is(err, common.ErrInternal):
			respondError(w, "invalid record", http.StatusBadRequest)
		default:
			h.logger.Error(ctx, "failed to create record", "error", err)
			respondError(w, "failed to create record", http.StatusInternalServerError)
		}
		return
	}

	respondJSON(w, http.StatusCreated, toDTO(created))
}

// Update handles PUT /api/v1/records/{id}.
func (h *RecordsHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := ClaimsFromContext(ctx)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, "invalid record id", http.StatusBadRequest)
		return
	}

	var dto recordDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.records.Update(ctx, claims.UserID, id, dto.toModel()); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			respondError(w, "record not found", http.StatusNotFound)
			return
		}
		h.logger.Error(ctx, "failed to update record", "error", err)
		respondError(w, "failed to update record", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
