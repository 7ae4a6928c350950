// Package reader turns uploaded file bytes into a raw cell matrix. CSV
// input goes through delimiter sniffing and a quote-aware parser; Excel
// workbooks are read from their first sheet. The matrix is raw text, no
// cell interpretation happens here.
package reader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var (
	ErrEmptyFile       = errors.New("no rows found in file")
	ErrNoSheets        = errors.New("workbook contains no sheets")
	ErrUnsupportedFile = errors.New("unsupported file type")
)

// Options tweaks how a file is read. A zero Options means full auto-detect.
type Options struct {
	// Delimiter forces the CSV field separator instead of sniffing it.
	Delimiter rune
}

// Result is the raw matrix produced from one file.
type Result struct {
	Rows      [][]string
	Delimiter rune // 0 for workbook input
	// ParseErrors counts malformed CSV records that had to be skipped,
	// typically rows with unterminated quotes.
	ParseErrors int
}

var candidateDelimiters = []rune{',', ';', '\t'}

// Read dispatches on the file extension: .xlsx/.xlsm go through excelize,
// .xls through the legacy BIFF reader, delimited-text extensions through
// the CSV parser. Anything else is ErrUnsupportedFile.
func Read(data []byte, filename string, opts Options) (*Result, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(data)
	case ".xls":
		return ReadXLS(data)
	case ".csv", ".tsv", ".txt":
		return ReadCSV(data, opts)
	default:
		return nil, ErrUnsupportedFile
	}
}

// ReadCSV parses delimited text into a matrix. The delimiter is sniffed
// unless forced through opts, quoted fields may contain the delimiter,
// escaped quotes and embedded newlines.
func ReadCSV(data []byte, opts Options) (*Result, error) {
	text := decodeText(data)
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyFile
	}

	delim := opts.Delimiter
	if delim == 0 {
		delim = detectDelimiter(text)
	}

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.FieldsPerRecord = -1

	res := &Result{Delimiter: delim}
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.ParseErrors++
			var perr *csv.ParseError
			// A quote error at EOF means the rest of the input was
			// swallowed into the open field; nothing left to read.
			if errors.As(err, &perr) && errors.Is(perr.Err, csv.ErrQuote) && record == nil {
				break
			}
			continue
		}
		res.Rows = append(res.Rows, record)
	}
	if len(res.Rows) == 0 && res.ParseErrors == 0 {
		return nil, ErrEmptyFile
	}
	return res, nil
}

// detectDelimiter scores each candidate by how consistently it splits the
// first sample lines into the same field count. Consistency wins over raw
// field count so a stray comma inside free text does not beat a clean
// semicolon layout.
func detectDelimiter(text string) rune {
	lines := sampleLines(text, 20)
	if len(lines) == 0 {
		return ','
	}

	best := ','
	bestScore := -1
	for _, delim := range candidateDelimiters {
		counts := make(map[int]int)
		for _, line := range lines {
			r := csv.NewReader(strings.NewReader(line))
			r.Comma = delim
			r.FieldsPerRecord = -1
			r.LazyQuotes = true
			rec, err := r.Read()
			if err != nil {
				continue
			}
			counts[len(rec)]++
		}
		modal, occurrences := 0, 0
		for fields, n := range counts {
			if n > occurrences || (n == occurrences && fields > modal) {
				modal, occurrences = fields, n
			}
		}
		if modal < 2 {
			continue
		}
		score := occurrences*100 + modal
		if score > bestScore {
			best, bestScore = delim, score
		}
	}
	return best
}

func sampleLines(text string, max int) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) >= max {
			break
		}
	}
	return lines
}

// decodeText strips a UTF-8 BOM and falls back to Latin-1 when the bytes
// are not valid UTF-8, which covers most legacy bank exports.
func decodeText(data []byte) string {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(decoded)
}
