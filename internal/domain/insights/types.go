// Package insights computes the dashboard summary and data-quality
// suggestions for a stored dataset. All aggregation is deterministic: the
// same rows always produce the same response, byte for byte.
package insights

import (
	"github.com/google/uuid"

	"github.com/shahbi72/Clarity-board/internal/domain/ingest/columns"
	"github.com/shahbi72/Clarity-board/internal/domain/ingest/normalizer"
)

const (
	topItemLimit        = 8
	expenseBucketLimit  = 6
	recentTxLimit       = 10
	summaryPreviewLimit = 10
	missingRateLimit    = 6
	recommendationLimit = 6
)

// DatasetInfo is the dataset header echoed in every insights response.
type DatasetInfo struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	RowCount int       `json:"rowCount"`
	Columns  []string  `json:"columns"`
}

// Metrics are the headline dashboard numbers.
type Metrics struct {
	TotalRevenue  float64 `json:"totalRevenue"`
	TotalExpenses float64 `json:"totalExpenses"`
	NetProfit     float64 `json:"netProfit"`
	RowCount      int     `json:"rowCount"`
}

// MonthlyPoint is one bucket of the monthly series, keyed YYYY-MM and
// labelled for humans.
type MonthlyPoint struct {
	Month    string  `json:"month"`
	Label    string  `json:"label"`
	Revenue  float64 `json:"revenue"`
	Expenses float64 `json:"expenses"`
	Profit   float64 `json:"profit"`
}

// BreakdownPoint is one named slice of a breakdown chart.
type BreakdownPoint struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// RecentTransaction is one entry of the recent-activity feed. Amount is
// the net of the row, revenue minus expense, so pure expenses are negative.
type RecentTransaction struct {
	RowIndex      int               `json:"rowIndex"`
	Date          string            `json:"date,omitempty"`
	Description   string            `json:"description,omitempty"`
	Category      string            `json:"category,omitempty"`
	Type          normalizer.TxType `json:"type"`
	Revenue       float64           `json:"revenue"`
	Expense       float64           `json:"expense"`
	Amount        float64           `json:"amount"`
	AmountDisplay string            `json:"amountDisplay"`
}

// SummaryResponse is the full dashboard payload.
type SummaryResponse struct {
	Dataset            DatasetInfo         `json:"dataset"`
	Mapping            columns.Mapping     `json:"mapping"`
	Metrics            Metrics             `json:"metrics"`
	MonthlySeries      []MonthlyPoint      `json:"monthlySeries"`
	TopItems           []BreakdownPoint    `json:"topItems"`
	ExpenseBreakdown   []BreakdownPoint    `json:"expenseBreakdown"`
	RecentTransactions []RecentTransaction `json:"recentTransactions"`
	MoMGrowthPercent   *float64            `json:"momGrowthPercent"`
	Fallbacks          []string            `json:"fallbacks"`
	PreviewRows        []map[string]any    `json:"previewRows"`
}

// MissingRate reports how often a column is empty, as a 0..1 ratio plus
// the raw count.
type MissingRate struct {
	Column  string  `json:"column"`
	Missing int     `json:"missingCount"`
	Rate    float64 `json:"rate"`
}

// DataQuality bundles the quality checks behind the suggestions.
type DataQuality struct {
	MissingRates  []MissingRate `json:"missingRates"`
	DuplicateRows int           `json:"duplicateRows"`
	InvalidDates  int           `json:"invalidDates"`
	OutlierCount  int           `json:"outlierCount"`
}

// MetricStats summarizes the distribution of the primary metric column.
// Min and Max are nil when no numeric samples exist.
type MetricStats struct {
	Total      float64  `json:"total"`
	Average    float64  `json:"average"`
	Min        *float64 `json:"min"`
	Max        *float64 `json:"max"`
	SampleSize int      `json:"sampleSize"`
}

// TrendPoint is one month of the primary metric, labelled for humans.
type TrendPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Trends is the monthly primary-metric series with its latest
// month-over-month change.
type Trends struct {
	Timeseries       []TrendPoint `json:"timeseries"`
	MoMGrowthPercent *float64     `json:"momGrowthPct"`
}

// SuggestionsResponse is the data-quality and recommendations payload.
type SuggestionsResponse struct {
	Dataset         DatasetInfo      `json:"dataset"`
	PrimaryMetric   string           `json:"primaryMetric,omitempty"`
	CategoryColumn  string           `json:"categoryColumn,omitempty"`
	NumericColumns  []string         `json:"numericColumns"`
	Summary         []string         `json:"summary"`
	DataQuality     DataQuality      `json:"dataQuality"`
	Metrics         MetricStats      `json:"metrics"`
	Trends          Trends           `json:"trends"`
	TopCategories   []BreakdownPoint `json:"topCategories"`
	Recommendations []string         `json:"recommendations"`
}
