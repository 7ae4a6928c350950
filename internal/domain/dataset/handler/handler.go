// Package handler exposes the dataset lifecycle over HTTP.
package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/shahbi72/Clarity-board/internal/domain/dataset"
	"github.com/shahbi72/Clarity-board/pkg/httpx"
)

type DatasetHandler struct {
	datasets *dataset.Service
	logger   *slog.Logger
}

func NewDatasetHandler(datasets *dataset.Service, logger *slog.Logger) *DatasetHandler {
	return &DatasetHandler{datasets: datasets, logger: logger}
}

// Register mounts the dataset routes.
func (h *DatasetHandler) Register(r *mux.Router) {
	r.HandleFunc("/api/datasets", h.List).Methods(http.MethodGet)
	r.HandleFunc("/api/datasets/active", h.Active).Methods(http.MethodGet)
	r.HandleFunc("/api/datasets/{id}", h.Details).Methods(http.MethodGet)
	r.HandleFunc("/api/datasets/{id}/activate", h.Activate).Methods(http.MethodPost)
	r.HandleFunc("/api/datasets/{id}", h.Delete).Methods(http.MethodDelete)
}

func (h *DatasetHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.UserID(r)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	list, err := h.datasets.List(r.Context(), userID)
	if err != nil {
		h.logger.Error("list datasets failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "failed to list datasets")
		return
	}
	if list == nil {
		list = []dataset.Dataset{}
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"datasets": list})
}

func (h *DatasetHandler) Details(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.identify(w, r)
	if !ok {
		return
	}

	previewRows := 0
	if raw := r.URL.Query().Get("previewRows"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			previewRows = n
		}
	}

	details, err := h.datasets.Details(r.Context(), userID, id, previewRows)
	if err != nil {
		h.writeServiceError(w, err, "load dataset")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, details)
}

func (h *DatasetHandler) Active(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.UserID(r)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	ds, err := h.datasets.Active(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err, "load active dataset")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ds)
}

func (h *DatasetHandler) Activate(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.identify(w, r)
	if !ok {
		return
	}
	if err := h.datasets.Activate(r.Context(), userID, id); err != nil {
		h.writeServiceError(w, err, "activate dataset")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"activated": id})
}

func (h *DatasetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.identify(w, r)
	if !ok {
		return
	}
	if err := h.datasets.Delete(r.Context(), userID, id); err != nil {
		h.writeServiceError(w, err, "delete dataset")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DatasetHandler) identify(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, err := httpx.UserID(r)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return uuid.Nil, uuid.Nil, false
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid dataset id")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, id, true
}

func (h *DatasetHandler) writeServiceError(w http.ResponseWriter, err error, op string) {
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
