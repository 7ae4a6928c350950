// Package handler exposes the upload endpoint: multipart file in, created
// dataset out.
package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/shahbi72/Clarity-board/internal/domain/dataset"
	"github.com/shahbi72/Clarity-board/internal/domain/ingest/reader"
	ingestservice "github.com/shahbi72/Clarity-board/internal/domain/ingest/service"
	"github.com/shahbi72/Clarity-board/pkg/httpx"
	"github.com/shahbi72/Clarity-board/pkg/storage"
)

// UploadHandler parses uploads and hands the result to the dataset service.
type UploadHandler struct {
	ingest   *ingestservice.Service
	datasets *dataset.Service
	files    storage.Storage
	logger   *slog.Logger
}

func NewUploadHandler(ingest *ingestservice.Service, datasets *dataset.Service, files storage.Storage, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{ingest: ingest, datasets: datasets, files: files, logger: logger}
}

// Register mounts the upload route.
func (h *UploadHandler) Register(r *mux.Router) {
	r.HandleFunc("/api/datasets/upload", h.Upload).Methods(http.MethodPost)
	r.HandleFunc("/api/transactions/parse", h.ParsePreview).Methods(http.MethodPost)
}

// Upload accepts a multipart "file" field, parses it and stores the rows as
// the user's new active dataset.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.UserID(r)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "could not read upload")
		return
	}

	upload, err := h.ingest.ParseDatasetUpload(data, header.Filename, ingestservice.UploadOptions{})
	if err != nil {
		var ue *ingestservice.UploadError
		if errors.As(err, &ue) {
			httpx.WriteError(w, ue.Status, ue.Message)
			return
		}
		h.logger.Error("upload parse failed", "filename", header.Filename, "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "failed to parse upload")
		return
	}

	// Keep the original bytes for reprocessing and support.
	if h.files != nil {
		if _, err := h.files.SaveUpload(r.Context(), userID.String(), header.Filename, data); err != nil {
			h.logger.Warn("raw upload not archived", "filename", header.Filename, "error", err)
		}
	}

	ds, err := h.datasets.Create(r.Context(), dataset.CreateInput{
		UserID:    userID,
		Name:      header.Filename,
		FileType:  upload.FileType,
		SizeBytes: int64(len(data)),
		Columns:   upload.Columns,
		Rows:      upload.Rows,
	})
	if err != nil {
		h.logger.Error("dataset create failed", "filename", header.Filename, "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "failed to store dataset")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, map[string]any{
		"dataset":     ds,
		"previewRows": upload.PreviewRows,
	})
}

// ParsePreview extracts transactions from an upload without storing
// anything, for client-side previews.
func (h *UploadHandler) ParsePreview(w http.ResponseWriter, r *http.Request) {
	if _, err := httpx.UserID(r); err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "could not read upload")
		return
	}

	res, err := h.ingest.ParseTransactions(data, header.Filename, ingestservice.ParseOptions{})
	if err != nil {
		if errors.Is(err, reader.ErrUnsupportedFile) {
			httpx.WriteError(w, http.StatusBadRequest, "Unsupported file type. Please upload CSV or Excel files.")
			return
		}
		httpx.WriteError(w, http.StatusBadRequest, "No rows found in file.")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}
