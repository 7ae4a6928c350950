package insights

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shahbi72/Clarity-board/internal/domain/dataset"
	"github.com/shahbi72/Clarity-board/internal/domain/ingest/columns"
	"github.com/shahbi72/Clarity-board/internal/domain/ingest/normalizer"
	"github.com/shahbi72/Clarity-board/pkg/money"
)

const (
	// numericColumnMinCount and numericColumnMinRatio gate what counts as
	// a numeric column: at least 3 numeric values covering at least 60%
	// of the column's non-empty cells.
	numericColumnMinCount = 3
	numericColumnMinRatio = 0.6

	// Outliers need a minimal sample and a z-score of at least 3.
	outlierMinSamples = 8
	outlierZScore     = 3.0

	missingRateThreshold = 0.2
)

// primaryMetricPreferences orders which numeric column becomes the primary
// metric for stats, trends and outlier checks.
var primaryMetricPreferences = []string{
	"amount", "total", "revenue", "profit", "expense",
	"value", "sales", "income", "cost", "spending",
}

// categoryPreferences picks the segmentation column for top categories.
var categoryPreferences = []string{"category", "product", "customer", "expense_category"}

// BuildSuggestions computes data-quality checks, primary-metric stats,
// the monthly trend, top categories and recommendations. Deterministic
// like BuildSummary.
func BuildSuggestions(ds *dataset.Dataset, rows []dataset.Row) *SuggestionsResponse {
	mapping := columns.Map(ds.Columns)
	numericCols := detectNumericColumns(ds.Columns, rows)
	primary := pickPrimaryMetric(numericCols)
	categoryCol := columns.Find(ds.Columns, categoryPreferences)

	values := metricValues(primary, rows)
	stats := metricStats(values)

	quality := DataQuality{
		MissingRates:  missingRates(ds.Columns, rows),
		DuplicateRows: countDuplicateRows(ds.Columns, rows),
		InvalidDates:  countInvalidDates(mapping.Date, rows),
		OutlierCount:  countOutliers(values),
	}

	series := buildTrendSeries(mapping.Date, primary, rows)
	mom := trendGrowth(series)
	top := buildTopCategories(categoryCol, primary, rows)

	return &SuggestionsResponse{
		Dataset: DatasetInfo{
			ID:       ds.ID,
			Name:     ds.Name,
			RowCount: ds.RowCount,
			Columns:  ds.Columns,
		},
		PrimaryMetric:   primary,
		CategoryColumn:  categoryCol,
		NumericColumns:  numericCols,
		Summary:         buildSummaryBullets(ds, primary, stats, top, mom),
		DataQuality:     quality,
		Metrics:         stats,
		Trends:          Trends{Timeseries: series, MoMGrowthPercent: mom},
		TopCategories:   top,
		Recommendations: buildRecommendations(mapping.Date, categoryCol, primary, quality, top, mom),
	}
}

// detectNumericColumns keeps dataset column order.
func detectNumericColumns(cols []string, rows []dataset.Row) []string {
	out := []string{}
	for _, col := range cols {
		numeric, nonEmpty := 0, 0
		for _, row := range rows {
			v := row[col]
			if v == nil {
				continue
			}
			nonEmpty++
			if _, ok := cellNumber(v); ok {
				numeric++
			}
		}
		if numeric >= numericColumnMinCount &&
			nonEmpty > 0 && float64(numeric)/float64(nonEmpty) >= numericColumnMinRatio {
			out = append(out, col)
		}
	}
	return out
}

func pickPrimaryMetric(numericCols []string) string {
	for _, pref := range primaryMetricPreferences {
		for _, col := range numericCols {
			if key := columns.Normalize(col); key == pref {
				return col
			}
		}
	}
	for _, pref := range primaryMetricPreferences {
		for _, col := range numericCols {
			key := columns.Normalize(col)
			if key != "" && (strings.Contains(key, pref) || strings.Contains(pref, key)) {
				return col
			}
		}
	}
	if len(numericCols) > 0 {
		return numericCols[0]
	}
	return ""
}

// metricValues collects every parseable number from the primary metric
// column, in row order.
func metricValues(metricCol string, rows []dataset.Row) []float64 {
	if metricCol == "" {
		return nil
	}
	values := make([]float64, 0, len(rows))
	for _, row := range rows {
		if v, ok := cellNumber(row[metricCol]); ok {
			values = append(values, v)
		}
	}
	return values
}

func metricStats(values []float64) MetricStats {
	stats := MetricStats{SampleSize: len(values)}
	if len(values) == 0 {
		return stats
	}
	lo, hi := values[0], values[0]
	var sum float64
	for _, v := range values {
		sum += v
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	stats.Total = money.Round2(sum)
	stats.Average = money.Round2(sum / float64(len(values)))
	loR, hiR := money.Round2(lo), money.Round2(hi)
	stats.Min, stats.Max = &loR, &hiR
	return stats
}

// missingRates reports every column's empty-cell rate, worst first, capped
// at missingRateLimit entries.
func missingRates(cols []string, rows []dataset.Row) []MissingRate {
	if len(rows) == 0 {
		return []MissingRate{}
	}
	out := make([]MissingRate, 0, len(cols))
	for _, col := range cols {
		missing := 0
		for _, row := range rows {
			if row[col] == nil {
				missing++
			}
		}
		rate := float64(missing) / float64(len(rows))
		out = append(out, MissingRate{
			Column:  col,
			Missing: missing,
			Rate:    math.Round(rate*1000) / 1000,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rate > out[j].Rate })
	if len(out) > missingRateLimit {
		out = out[:missingRateLimit]
	}
	return out
}

// countDuplicateRows counts rows beyond the first occurrence of each
// whole-row signature. The signature serializes cells under sorted column
// names so key order can never split identical rows.
func countDuplicateRows(cols []string, rows []dataset.Row) int {
	sorted := append([]string(nil), cols...)
	sort.Strings(sorted)

	seen := make(map[string]struct{}, len(rows))
	duplicates := 0
	for _, row := range rows {
		parts := make([]any, 0, len(sorted)*2)
		for _, col := range sorted {
			parts = append(parts, col, row[col])
		}
		sig, err := json.Marshal(parts)
		if err != nil {
			continue
		}
		key := string(sig)
		if _, dup := seen[key]; dup {
			duplicates++
			continue
		}
		seen[key] = struct{}{}
	}
	return duplicates
}

// countInvalidDates counts non-empty date cells the date parser rejects.
func countInvalidDates(dateCol string, rows []dataset.Row) int {
	if dateCol == "" {
		return 0
	}
	invalid := 0
	for _, row := range rows {
		v := row[dateCol]
		if v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			invalid++
			continue
		}
		if normalizer.InferDate(s).Value == "" {
			invalid++
		}
	}
	return invalid
}

// countOutliers flags values at least outlierZScore standard deviations
// from the mean, on samples of outlierMinSamples or more.
func countOutliers(values []float64) int {
	if len(values) < outlierMinSamples {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	stddev := math.Sqrt(variance / float64(len(values)))
	if stddev == 0 {
		return 0
	}

	outliers := 0
	for _, v := range values {
		if math.Abs(v-mean)/stddev >= outlierZScore {
			outliers++
		}
	}
	return outliers
}

// buildTrendSeries buckets the primary metric by month of the date column,
// oldest month first.
func buildTrendSeries(dateCol, metricCol string, rows []dataset.Row) []TrendPoint {
	if dateCol == "" || metricCol == "" {
		return []TrendPoint{}
	}
	buckets := make(map[string]float64)
	for _, row := range rows {
		t, ok := cellDate(row[dateCol])
		if !ok {
			continue
		}
		v, ok := cellNumber(row[metricCol])
		if !ok {
			continue
		}
		buckets[t.Format("2006-01")] += v
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]TrendPoint, 0, len(keys))
	for _, k := range keys {
		t, _ := time.Parse("2006-01", k)
		out = append(out, TrendPoint{Date: t.Format("Jan 2006"), Value: money.Round2(buckets[k])})
	}
	return out
}

// trendGrowth is the latest month-over-month change of the trend series in
// percent, nil when fewer than two months exist or the previous month
// netted zero.
func trendGrowth(series []TrendPoint) *float64 {
	if len(series) < 2 {
		return nil
	}
	prev := series[len(series)-2].Value
	cur := series[len(series)-1].Value
	if prev == 0 {
		return nil
	}
	g := money.Round2((cur - prev) / math.Abs(prev) * 100)
	return &g
}

// buildTopCategories totals the absolute primary metric per category
// value, biggest first, capped at topItemLimit.
func buildTopCategories(categoryCol, metricCol string, rows []dataset.Row) []BreakdownPoint {
	if categoryCol == "" || metricCol == "" {
		return []BreakdownPoint{}
	}
	totals := make(map[string]float64)
	for _, row := range rows {
		name := strings.TrimSpace(cellString(row[categoryCol]))
		if name == "" {
			continue
		}
		v, ok := cellNumber(row[metricCol])
		if !ok {
			continue
		}
		totals[name] += math.Abs(v)
	}
	return toBreakdownPoints(totals, topItemLimit)
}

func buildSummaryBullets(ds *dataset.Dataset, primary string, stats MetricStats, top []BreakdownPoint, mom *float64) []string {
	bullets := []string{fmt.Sprintf(
		"%s has %s rows across %d columns.", ds.Name, formatCount(ds.RowCount), len(ds.Columns))}

	if primary != "" && stats.SampleSize > 0 {
		bullets = append(bullets, fmt.Sprintf(
			"Primary metric %q totals %s with an average of %s.",
			primary, money.FormatUSD(stats.Total), money.FormatUSD(stats.Average)))
	} else {
		bullets = append(bullets, "No reliable numeric metric column detected for financial aggregation.")
	}

	if len(top) > 0 {
		bullets = append(bullets, fmt.Sprintf(
			"Top segment: %s contributes %s.", top[0].Name, money.FormatUSD(top[0].Value)))
	} else {
		bullets = append(bullets, "No category/product/customer column detected for segment comparison.")
	}

	if mom != nil {
		direction := "up"
		if *mom < 0 {
			direction = "down"
		}
		bullets = append(bullets, fmt.Sprintf(
			"Latest month-over-month trend is %s %s.", direction, money.FormatPercent(math.Abs(*mom))))
	}
	return bullets
}

// buildRecommendations applies the advice rules in fixed order and caps the
// list. When nothing fires the two generic suggestions keep the panel from
// rendering empty.
func buildRecommendations(dateCol, categoryCol, primary string, q DataQuality, top []BreakdownPoint, mom *float64) []string {
	var recs []string

	// MissingRates is sorted worst first, so only the head can qualify.
	if len(q.MissingRates) > 0 && q.MissingRates[0].Rate >= missingRateThreshold {
		mr := q.MissingRates[0]
		recs = append(recs, fmt.Sprintf(
			"Clean %q first: %s missing values (%s).",
			mr.Column, formatCount(mr.Missing), money.FormatPercent(mr.Rate*100)))
	}
	if q.DuplicateRows > 0 {
		recs = append(recs, fmt.Sprintf(
			"Remove %s duplicate rows to avoid biased aggregates.", formatCount(q.DuplicateRows)))
	}
	if q.InvalidDates > 0 {
		col := dateCol
		if col == "" {
			col = "date"
		}
		recs = append(recs, fmt.Sprintf(
			"Normalize %s invalid date values in %q to improve trend accuracy.",
			formatCount(q.InvalidDates), col))
	}
	if q.OutlierCount > 0 {
		col := primary
		if col == "" {
			col = "numeric metric"
		}
		recs = append(recs, fmt.Sprintf(
			"Review %s outlier points in %q before forecasting.", formatCount(q.OutlierCount), col))
	}
	if mom != nil && *mom < -10 {
		recs = append(recs, fmt.Sprintf(
			"Investigate drivers behind the %s month-over-month decline and set a recovery target.",
			money.FormatPercent(math.Abs(*mom))))
	}
	if categoryCol != "" && len(top) > 0 {
		recs = append(recs, fmt.Sprintf(
			"Double down on %s; replicate its patterns across lower-performing %s segments.",
			top[0].Name, categoryCol))
	}
	if primary == "" {
		recs = append(recs, "Include a standardized numeric metric column (for example: amount, total, revenue) to unlock stronger recommendations.")
	}
	if dateCol == "" {
		recs = append(recs, "Add a clean date column (for example: date, created_at, transaction_date) for trend and seasonality insights.")
	}

	if len(recs) == 0 {
		recs = append(recs,
			"Continue monitoring monthly changes and set alert thresholds for abnormal spikes.",
			"Track data quality checks weekly so trends remain decision-ready.")
	}
	if len(recs) > recommendationLimit {
		recs = recs[:recommendationLimit]
	}
	return recs
}

// formatCount renders an integer with thousands separators.
func formatCount(n int) string {
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
