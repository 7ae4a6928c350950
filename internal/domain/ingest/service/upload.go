package service

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/shahbi72/Clarity-board/internal/domain/dataset"
	"github.com/shahbi72/Clarity-board/internal/domain/ingest/normalizer"
	"github.com/shahbi72/Clarity-board/internal/domain/ingest/reader"
)

// maxColumnNameLength caps sanitized column keys.
const maxColumnNameLength = 60

// UploadError is a fatal ingestion failure with a message safe to show the
// uploader and the HTTP status it maps to.
type UploadError struct {
	Status  int
	Message string
}

func (e *UploadError) Error() string { return e.Message }

func uploadErr(status int, format string, args ...any) *UploadError {
	return &UploadError{Status: status, Message: fmt.Sprintf(format, args...)}
}

// DatasetUpload is a parsed upload ready for storage.
type DatasetUpload struct {
	Columns     []string
	Rows        []dataset.Row
	PreviewRows []dataset.Row
	RowCount    int
	FileType    string
}

// ProgressFn receives coarse percent-complete updates during an upload
// parse.
type ProgressFn func(percent int)

// UploadOptions tune one dataset-upload parse.
type UploadOptions struct {
	Progress ProgressFn
}

// ParseDatasetUpload validates and parses an upload into storable rows:
// size and file-type gates, matrix read, row cleanup, header naming, cell
// normalization and the row/column ceilings. Every failure carries a
// distinct user-displayable message.
func (s *Service) ParseDatasetUpload(data []byte, filename string, opts UploadOptions) (*DatasetUpload, error) {
	started := time.Now()
	progress := opts.Progress
	if progress == nil {
		progress = func(int) {}
	}

	if len(data) == 0 {
		return nil, uploadErr(http.StatusBadRequest, "Uploaded file is empty.")
	}
	if int64(len(data)) > s.limits.MaxUploadBytes {
		return nil, uploadErr(http.StatusRequestEntityTooLarge,
			"File too large. Max supported file size is %dMB.", s.limits.MaxUploadBytes/(1024*1024))
	}

	fileType, ok := fileTypeFor(filename)
	if !ok {
		return nil, uploadErr(http.StatusBadRequest,
			"Unsupported file type. Please upload CSV or Excel files.")
	}
	progress(10)

	raw, err := reader.Read(data, filename, reader.Options{})
	switch {
	case errors.Is(err, reader.ErrNoSheets):
		return nil, uploadErr(http.StatusBadRequest, "Excel file does not contain any sheet.")
	case errors.Is(err, reader.ErrEmptyFile):
		return nil, uploadErr(http.StatusBadRequest, "No rows found in file.")
	case err != nil:
		s.logger.Warn("upload read failed", "filename", filename, "error", err)
		return nil, uploadErr(http.StatusBadRequest, "No rows found in file.")
	}
	progress(30)

	rows, padded := PrepareRows(raw.Rows)
	if len(rows) == 0 {
		return nil, uploadErr(http.StatusBadRequest, "No rows found in file.")
	}
	width := len(rows[0])
	if width > s.limits.MaxColumns {
		return nil, uploadErr(http.StatusRequestEntityTooLarge,
			"Dataset has more than %d columns. Reduce the column count and retry.", s.limits.MaxColumns)
	}

	headerDetected := DetectHeader(rows[0])
	var names []string
	dataRows := rows
	if headerDetected {
		names = columnNames(rows[0])
		dataRows = rows[1:]
	} else {
		names = make([]string, width)
		for i := range names {
			names[i] = fmt.Sprintf("column_%d", i+1)
		}
	}
	progress(40)

	out := &DatasetUpload{Columns: names, FileType: fileType}
	for i, row := range dataRows {
		record := make(dataset.Row, len(names))
		empty := true
		for j, name := range names {
			v := normalizer.NormalizeCell(cellAt(row, j))
			record[name] = v
			if v != nil {
				empty = false
			}
		}
		if empty {
			continue
		}
		if len(out.Rows) >= s.limits.MaxRows {
			return nil, uploadErr(http.StatusRequestEntityTooLarge,
				"Dataset has more than %s rows after cleaning. Split the file and retry.",
				formatThousands(s.limits.MaxRows))
		}
		out.Rows = append(out.Rows, record)
		if len(dataRows) > 0 && i%1000 == 0 {
			progress(40 + 50*i/len(dataRows))
		}
	}

	if len(out.Rows) == 0 {
		return nil, uploadErr(http.StatusBadRequest, "No valid data rows found after parsing.")
	}

	out.RowCount = len(out.Rows)
	preview := s.limits.PreviewRows
	if preview > len(out.Rows) {
		preview = len(out.Rows)
	}
	out.PreviewRows = out.Rows[:preview]
	progress(100)

	if s.ingest != nil {
		s.ingest.Uploads.WithLabelValues(fileType, "ok").Inc()
		s.ingest.ParseDuration.Observe(time.Since(started).Seconds())
	}
	s.logger.Info("upload parsed",
		"filename", filename, "file_type", fileType, "rows", out.RowCount,
		"columns", len(names), "padded_rows", padded, "header_detected", headerDetected,
		"parse_errors", raw.ParseErrors)
	return out, nil
}

func fileTypeFor(filename string) (string, bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return "CSV", true
	case ".xlsx":
		return "XLSX", true
	case ".xls":
		return "XLS", true
	default:
		return "", false
	}
}

// columnNames sanitizes the header row into unique snake_case keys, falling
// back to column_N for blanks and suffixing duplicates with a counter.
func columnNames(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		name := sanitizeColumnName(h)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		candidate := name
		for n := 2; seen[candidate]; n++ {
			candidate = fmt.Sprintf("%s_%d", name, n)
		}
		seen[candidate] = true
		names[i] = candidate
	}
	return names
}

// sanitizeColumnName lowercases, maps every non-alphanumeric run to a
// single underscore, trims the edges and caps the length.
func sanitizeColumnName(raw string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastUnderscore = false
		case lastUnderscore:
		default:
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	name := strings.Trim(b.String(), "_")
	if len(name) > maxColumnNameLength {
		name = name[:maxColumnNameLength]
		name = strings.TrimRight(name, "_")
	}
	return name
}

func formatThousands(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	return s + "," + strings.Join(parts, ",")
}
