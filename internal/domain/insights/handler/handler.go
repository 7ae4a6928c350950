// Package handler exposes the dashboard summary and suggestions endpoints.
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/shahbi72/Clarity-board/internal/domain/dataset"
	"github.com/shahbi72/Clarity-board/internal/domain/insights"
	"github.com/shahbi72/Clarity-board/pkg/httpx"
)

type InsightsHandler struct {
	insights *insights.Service
	logger   *slog.Logger
}

func NewInsightsHandler(svc *insights.Service, logger *slog.Logger) *InsightsHandler {
	return &InsightsHandler{insights: svc, logger: logger}
}

// Register mounts the insights routes.
func (h *InsightsHandler) Register(r *mux.Router) {
	r.HandleFunc("/api/dashboard/summary", h.Summary).Methods(http.MethodGet)
	r.HandleFunc("/api/suggestions", h.Suggestions).Methods(http.MethodGet)
}

// Summary serves the dashboard for ?datasetId=..., defaulting to the
// user's active dataset.
func (h *InsightsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, datasetID, ok := h.identify(w, r)
	if !ok {
		return
	}

	resp, err := h.insights.Summary(r.Context(), userID, datasetID)
	if err != nil {
		h.writeServiceError(w, err, "build summary")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *InsightsHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	userID, datasetID, ok := h.identify(w, r)
	if !ok {
		return
	}

	resp, err := h.insights.Suggestions(r.Context(), userID, datasetID)
	if err != nil {
		h.writeServiceError(w, err, "build suggestions")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *InsightsHandler) identify(w http.ResponseWriter, r *http.Request) (uuid.UUID, *uuid.UUID, bool) {
	userID, err := httpx.UserID(r)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return uuid.Nil, nil, false
	}

	var datasetID *uuid.UUID
	if raw := r.URL.Query().Get("datasetId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid datasetId")
			return uuid.Nil, nil, false
		}
		datasetID = &id
	}
	return userID, datasetID, true
}

func (h *InsightsHandler) writeServiceError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, dataset.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "dataset not found")
	case errors.Is(err, dataset.ErrNoActiveDataset):
		httpx.WriteError(w, http.StatusNotFound, "no active dataset")
	default:
		h.logger.Error(op+" failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
