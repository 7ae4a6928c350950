// Package e2etest provides end-to-end tests for the upload-to-dashboard flow.
package e2etest

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/shahbi72/Clarity-board/internal/domain/dataset"
	datasethandler "github.com/shahbi72/Clarity-board/internal/domain/dataset/handler"
	ingesthandler "github.com/shahbi72/Clarity-board/internal/domain/ingest/handler"
	ingestservice "github.com/shahbi72/Clarity-board/internal/domain/ingest/service"
	"github.com/shahbi72/Clarity-board/internal/domain/insights"
	insightshandler "github.com/shahbi72/Clarity-board/internal/domain/insights/handler"
	"github.com/shahbi72/Clarity-board/pkg/storage"
)

func newServer(t *testing.T) *mux.Router {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	repo := dataset.NewMemoryRepository()
	datasets := dataset.NewService(repo, logger)

	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	r := mux.NewRouter()
	ingesthandler.NewUploadHandler(
		ingestservice.NewService(ingestservice.DefaultLimits(), logger),
		datasets, files, logger,
	).Register(r)
	datasethandler.NewDatasetHandler(datasets, logger).Register(r)
	insightshandler.NewInsightsHandler(insights.NewService(repo, logger), logger).Register(r)
	return r
}

func uploadFile(t *testing.T, router *mux.Router, userID, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/datasets/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("X-User-ID", userID)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func get(router *mux.Router, target, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("X-User-ID", userID)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

const salesCSV = "Date,Product Name,Category,Amount,Type\n" +
	"2026-01-05,Widget,Hardware,\"$1,000.00\",revenue\n" +
	"2026-01-20,Gadget,Hardware,500,revenue\n" +
	"2026-02-03,Widget,Hardware,1200,revenue\n" +
	"2026-02-14,,Shipping,(300),expense\n"

// TestCSVUploadToDashboard walks the full flow: upload a CSV, inspect the
// stored dataset, then read the dashboard built from it.
func TestCSVUploadToDashboard(t *testing.T) {
	router := newServer(t)
	userID := uuid.NewString()

	rec := uploadFile(t, router, userID, "sales.csv", []byte(salesCSV))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Dataset dataset.Dataset `json:"dataset"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, 4, created.Dataset.RowCount)

	t.Run("ListShowsDataset", func(t *testing.T) {
		rec := get(router, "/api/datasets", userID)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Datasets []dataset.Dataset `json:"datasets"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Datasets, 1)
		assert.True(t, resp.Datasets[0].IsActive)
	})

	t.Run("DetailsPreview", func(t *testing.T) {
		rec := get(router, "/api/datasets/"+created.Dataset.ID.String()+"?previewRows=2", userID)
		require.Equal(t, http.StatusOK, rec.Code)

		var details dataset.Details
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &details))
		assert.Len(t, details.PreviewRows, 2)
		assert.Equal(t, 1000.0, details.PreviewRows[0]["amount"])
	})

	t.Run("DashboardSummary", func(t *testing.T) {
		rec := get(router, "/api/dashboard/summary", userID)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp insights.SummaryResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

		assert.Equal(t, 2700.0, resp.Metrics.TotalRevenue)
		assert.Equal(t, 300.0, resp.Metrics.TotalExpenses)
		assert.Equal(t, 2400.0, resp.Metrics.NetProfit)
		require.Len(t, resp.MonthlySeries, 2)
		assert.Equal(t, "2026-01", resp.MonthlySeries[0].Month)
		require.NotEmpty(t, resp.TopItems)
		assert.Equal(t, "Widget", resp.TopItems[0].Name)
		assert.Equal(t, 2200.0, resp.TopItems[0].Value)
	})

	t.Run("Suggestions", func(t *testing.T) {
		rec := get(router, "/api/suggestions", userID)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp insights.SuggestionsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.NumericColumns, "amount")
		assert.NotEmpty(t, resp.Recommendations)
	})
}

// TestSemicolonCSVUpload checks delimiter sniffing end to end.
func TestSemicolonCSVUpload(t *testing.T) {
	router := newServer(t)
	userID := uuid.NewString()

	csv := "Date;Product;Amount\n" +
		"2026-03-01;Cable;19,99\n" +
		"2026-03-02;Charger;34,50\n"

	rec := uploadFile(t, router, userID, "export.csv", []byte(csv))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Dataset dataset.Dataset `json:"dataset"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, []string{"date", "product", "amount"}, created.Dataset.Columns)
	assert.Equal(t, 2, created.Dataset.RowCount)
}

// TestXLSXUploadToDashboard builds a workbook in memory and pushes it
// through the same flow as CSV uploads.
func TestXLSXUploadToDashboard(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"Date", "Product", "Amount", "Type"},
		{"2026-04-01", "Widget", 250.0, "revenue"},
		{"2026-04-02", "Gadget", 125.5, "revenue"},
		{"2026-04-03", "Hosting", 40.0, "expense"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	router := newServer(t)
	userID := uuid.NewString()

	rec := uploadFile(t, router, userID, "sales.xlsx", buf.Bytes())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Dataset dataset.Dataset `json:"dataset"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "XLSX", created.Dataset.FileType)
	assert.Equal(t, 3, created.Dataset.RowCount)

	rec = get(router, "/api/dashboard/summary", userID)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp insights.SummaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 375.5, resp.Metrics.TotalRevenue)
	assert.Equal(t, 40.0, resp.Metrics.TotalExpenses)
}
