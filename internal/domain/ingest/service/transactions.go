package service

import (
	"fmt"
	"strings"

	"github.com/shahbi72/Clarity-board/internal/domain/ingest/columns"
	"github.com/shahbi72/Clarity-board/internal/domain/ingest/normalizer"
	"github.com/shahbi72/Clarity-board/internal/domain/ingest/reader"
)

// Transaction is one extracted ledger entry. Amount is always
// non-negative; direction lives in Type.
type Transaction struct {
	Amount      float64           `json:"amount"`
	Type        normalizer.TxType `json:"type"`
	ProductName string            `json:"productName,omitempty"`
	Date        string            `json:"date,omitempty"`
}

// ParseMeta describes one parse run. TotalRows always equals
// ValidRows + SkippedRows.
type ParseMeta struct {
	Delimiter         string `json:"delimiter"`
	TotalRows         int    `json:"totalRows"`
	ValidRows         int    `json:"validRows"`
	SkippedRows       int    `json:"skippedRows"`
	NormalizedRows    int    `json:"normalizedRows"`
	AmbiguousDateRows int    `json:"ambiguousDateRows"`
	HeaderDetected    bool   `json:"headerDetected"`
	ParseErrors       int    `json:"parseErrors"`
}

// ParseResult bundles the extracted transactions with run diagnostics.
type ParseResult struct {
	Transactions []Transaction `json:"transactions"`
	Meta         ParseMeta     `json:"meta"`
}

// HeaderMode overrides header auto-detection when the caller knows better.
type HeaderMode int

const (
	HeaderAuto HeaderMode = iota
	HeaderForce
	HeaderNone
)

// ParseOptions are caller hints for one parse run.
type ParseOptions struct {
	Delimiter rune
	Header    HeaderMode
}

// ParseTransactions reads raw file bytes and extracts transactions from
// them. CSV, XLSX and legacy XLS input all reduce to the same matrix walk.
func (s *Service) ParseTransactions(data []byte, filename string, opts ParseOptions) (*ParseResult, error) {
	res, err := reader.Read(data, filename, reader.Options{Delimiter: opts.Delimiter})
	if err != nil {
		return nil, err
	}
	result := s.buildTransactions(res, opts)
	s.observeParse(result)
	return result, nil
}

func (s *Service) buildTransactions(raw *reader.Result, opts ParseOptions) *ParseResult {
	rows, padded := PrepareRows(raw.Rows)

	meta := ParseMeta{
		NormalizedRows: padded,
		ParseErrors:    raw.ParseErrors,
	}
	if raw.Delimiter != 0 {
		meta.Delimiter = string(raw.Delimiter)
	}

	if len(rows) == 0 {
		return &ParseResult{Transactions: []Transaction{}, Meta: meta}
	}

	switch opts.Header {
	case HeaderForce:
		meta.HeaderDetected = true
	case HeaderNone:
		meta.HeaderDetected = false
	default:
		meta.HeaderDetected = DetectHeader(rows[0])
	}

	var result *ParseResult
	if meta.HeaderDetected {
		result = s.buildFromHeader(rows[0], rows[1:], meta)
	} else {
		result = s.buildPositional(rows, meta)
	}
	return result
}

// buildFromHeader extracts transactions using the header row to locate the
// amount, type, product and date columns. Blank header cells get synthetic
// column_N names before alias matching.
func (s *Service) buildFromHeader(header []string, rows [][]string, meta ParseMeta) *ParseResult {
	names := make([]string, len(header))
	for i, h := range header {
		if strings.TrimSpace(h) == "" {
			names[i] = fmt.Sprintf("column_%d", i+1)
		} else {
			names[i] = h
		}
	}

	amountIdx := indexOf(names, columns.Find(names, columns.TxAmountAliases))
	typeIdx := indexOf(names, columns.Find(names, columns.TxTypeAliases))
	productIdx := indexOf(names, columns.Find(names, columns.TxProductAliases))
	dateIdx := indexOf(names, columns.Find(names, columns.TxDateAliases))

	out := &ParseResult{Transactions: []Transaction{}, Meta: meta}
	for _, row := range rows {
		out.Meta.TotalRows++

		if amountIdx < 0 || amountIdx >= len(row) {
			out.Meta.SkippedRows++
			continue
		}
		amount, ok := s.amounts.Parse(row[amountIdx])
		if !ok {
			out.Meta.SkippedRows++
			continue
		}

		tx := Transaction{
			Amount: abs(amount),
			Type:   normalizer.InferType(cellAt(row, typeIdx), amount),
		}
		if p := strings.TrimSpace(cellAt(row, productIdx)); p != "" {
			tx.ProductName = p
		}
		if d := normalizer.InferDate(cellAt(row, dateIdx)); d.Value != "" {
			tx.Date = d.Value
			if d.Ambiguous {
				out.Meta.AmbiguousDateRows++
			}
		}

		out.Transactions = append(out.Transactions, tx)
		out.Meta.ValidRows++
	}
	return out
}

// buildPositional handles headerless files with a greedy per-row scan. Each
// cell claims the first unfilled slot it qualifies for: type keyword, then
// numeric amount, then date, then product name.
func (s *Service) buildPositional(rows [][]string, meta ParseMeta) *ParseResult {
	out := &ParseResult{Transactions: []Transaction{}, Meta: meta}
	for _, row := range rows {
		out.Meta.TotalRows++

		var (
			rawType, product string
			haveAmount       bool
			amount           float64
			dateRes          normalizer.DateResult
		)
		for _, cell := range row {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			if rawType == "" && isTypeKeyword(cell) {
				rawType = cell
				continue
			}
			if !haveAmount {
				if v, ok := s.amounts.Parse(cell); ok {
					amount, haveAmount = v, true
					continue
				}
			}
			if dateRes.Value == "" {
				if d := normalizer.InferDate(cell); d.Value != "" {
					dateRes = d
					continue
				}
			}
			if product == "" {
				product = cell
			}
		}

		if !haveAmount {
			out.Meta.SkippedRows++
			continue
		}
		if dateRes.Ambiguous {
			out.Meta.AmbiguousDateRows++
		}

		tx := Transaction{
			Amount:      abs(amount),
			Type:        normalizer.InferType(rawType, amount),
			ProductName: product,
			Date:        dateRes.Value,
		}
		out.Transactions = append(out.Transactions, tx)
		out.Meta.ValidRows++
	}
	return out
}

// isTypeKeyword reports whether the cell by itself names a transaction
// direction, without falling through to the sign heuristic.
func isTypeKeyword(cell string) bool {
	if _, ok := normalizer.ParseAmount(cell); ok {
		return false
	}
	lower := strings.ToLower(cell)
	for _, kw := range []string{
		"expense", "cost", "spend", "spending", "debit", "outflow", "withdrawal", "payment",
		"revenue", "income", "sale", "sales", "credit", "deposit",
	} {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func indexOf(names []string, name string) int {
	if name == "" {
		return -1
	}
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
