package insights

import (
	"sort"
	"time"

	"github.com/shahbi72/Clarity-board/internal/domain/dataset"
	"github.com/shahbi72/Clarity-board/internal/domain/ingest/columns"
	"github.com/shahbi72/Clarity-board/internal/domain/ingest/normalizer"
	"github.com/shahbi72/Clarity-board/pkg/money"
)

// rowFacts is one row reduced to the signals the dashboard cares about.
// Revenue and expense are carried separately so a row with dedicated
// columns on both sides contributes to both totals.
type rowFacts struct {
	index     int
	revenue   float64
	expense   float64
	hasValue  bool // a revenue or expense contribution exists
	hasAmount bool // the raw amount cell parsed, even when unused
	txType    normalizer.TxType
	date      time.Time
	hasDate   bool
	product   string
	category  string
}

// BuildSummary computes the full dashboard payload from a dataset's rows.
// It is a pure function: no I/O, no clock, no randomness.
func BuildSummary(ds *dataset.Dataset, rows []dataset.Row) *SummaryResponse {
	mapping := columns.Map(ds.Columns)
	facts, hasAmountSignal := extractFacts(mapping, rows)

	var reasons []FallbackReason
	if !hasAmountSignal {
		reasons = append(reasons, FallbackNoAmountSignal)
	}

	resp := &SummaryResponse{
		Dataset: DatasetInfo{
			ID:       ds.ID,
			Name:     ds.Name,
			RowCount: ds.RowCount,
			Columns:  ds.Columns,
		},
		Mapping:     mapping,
		PreviewRows: previewRows(rows),
	}

	resp.Metrics = buildMetrics(facts, len(rows))

	series, seriesReason := buildMonthlySeries(mapping, facts)
	resp.MonthlySeries = series
	if seriesReason != nil {
		reasons = append(reasons, *seriesReason)
	}
	resp.MoMGrowthPercent = momGrowth(series)

	topItems, topReason := buildTopItems(facts)
	resp.TopItems = topItems
	if topReason != nil {
		reasons = append(reasons, *topReason)
	}

	breakdown, breakdownReason := buildExpenseBreakdown(facts)
	resp.ExpenseBreakdown = breakdown
	if breakdownReason != nil {
		reasons = append(reasons, *breakdownReason)
	}

	recent, recentReason := buildRecentTransactions(facts)
	resp.RecentTransactions = recent
	if recentReason != nil {
		reasons = append(reasons, *recentReason)
	}

	resp.Fallbacks = renderFallbacks(reasons)
	return resp
}

// extractFacts walks the rows once and pulls out the mapped signals.
// Dedicated revenue/expense columns take precedence over the generic
// amount+type pair.
func extractFacts(m columns.Mapping, rows []dataset.Row) ([]rowFacts, bool) {
	facts := make([]rowFacts, 0, len(rows))
	hasAmountSignal := false

	for i, row := range rows {
		f := rowFacts{index: i, txType: normalizer.TypeRevenue}

		rev, hasRev := cellNumber(row[m.Revenue])
		exp, hasExp := cellNumber(row[m.Expense])
		amt, hasAmt := cellNumber(row[m.Amount])
		f.hasAmount = hasAmt

		switch {
		case hasRev || hasExp:
			if hasRev {
				f.revenue = abs(rev)
			}
			if hasExp {
				f.expense = abs(exp)
			}
		case hasAmt:
			f.txType = normalizer.InferType(cellString(row[m.Type]), amt)
			if f.txType == normalizer.TypeExpense {
				f.expense = abs(amt)
			} else {
				f.revenue = abs(amt)
			}
		}
		f.hasValue = f.revenue > 0 || f.expense > 0
		if f.hasValue {
			hasAmountSignal = true
		}

		if t, ok := cellDate(row[m.Date]); ok {
			f.date, f.hasDate = t, true
		}
		f.product = cellString(row[m.Product])
		if f.product == "" {
			f.product = cellString(row[m.Customer])
		}
		f.category = cellString(row[m.Category])

		facts = append(facts, f)
	}
	return facts, hasAmountSignal
}

func buildMetrics(facts []rowFacts, rowCount int) Metrics {
	var revenue, expenses float64
	for _, f := range facts {
		revenue += f.revenue
		expenses += f.expense
	}
	return Metrics{
		TotalRevenue:  money.Round2(revenue),
		TotalExpenses: money.Round2(expenses),
		NetProfit:     money.Round2(revenue - expenses),
		RowCount:      rowCount,
	}
}

func buildMonthlySeries(m columns.Mapping, facts []rowFacts) ([]MonthlyPoint, *FallbackReason) {
	if m.Date == "" {
		return []MonthlyPoint{}, reason(FallbackNoDateColumn)
	}

	type bucket struct{ revenue, expenses float64 }
	buckets := make(map[string]*bucket)
	for _, f := range facts {
		if !f.hasDate || !f.hasValue {
			continue
		}
		key := f.date.Format("2006-01")
		b := buckets[key]
		if b == nil {
			b = &bucket{}
			buckets[key] = b
		}
		b.revenue += f.revenue
		b.expenses += f.expense
	}
	if len(buckets) == 0 {
		return []MonthlyPoint{}, reason(FallbackNoMonthlyData)
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	series := make([]MonthlyPoint, 0, len(keys))
	for _, k := range keys {
		t, _ := time.Parse("2006-01", k)
		b := buckets[k]
		series = append(series, MonthlyPoint{
			Month:    k,
			Label:    t.Format("Jan 2006"),
			Revenue:  money.Round2(b.revenue),
			Expenses: money.Round2(b.expenses),
			Profit:   money.Round2(b.revenue - b.expenses),
		})
	}
	return series, nil
}

// momGrowth is the month-over-month revenue change in percent, nil when
// fewer than two buckets exist or the previous month had zero revenue.
func momGrowth(series []MonthlyPoint) *float64 {
	if len(series) < 2 {
		return nil
	}
	prev := series[len(series)-2].Revenue
	cur := series[len(series)-1].Revenue
	if prev == 0 {
		return nil
	}
	g := money.Round2((cur - prev) / prev * 100)
	return &g
}

// buildTopItems charts revenue by product, falling back to totals by
// category when no product column carries data. Only positive slices
// survive, biggest first, capped at topItemLimit.
func buildTopItems(facts []rowFacts) ([]BreakdownPoint, *FallbackReason) {
	byProduct := make(map[string]float64)
	byCategory := make(map[string]float64)
	for _, f := range facts {
		if !f.hasValue {
			continue
		}
		if f.product != "" && f.revenue > 0 {
			byProduct[f.product] += f.revenue
		}
		if f.category != "" {
			byCategory[f.category] += f.revenue + f.expense
		}
	}

	source := byProduct
	if len(source) == 0 {
		source = byCategory
	}
	if len(source) == 0 {
		return []BreakdownPoint{}, reason(FallbackNoProductData)
	}
	return toBreakdownPoints(source, topItemLimit), nil
}

func buildExpenseBreakdown(facts []rowFacts) ([]BreakdownPoint, *FallbackReason) {
	byCategory := make(map[string]float64)
	for _, f := range facts {
		if f.expense > 0 && f.category != "" {
			byCategory[f.category] += f.expense
		}
	}
	if len(byCategory) == 0 {
		return []BreakdownPoint{}, reason(FallbackNoExpenseCategories)
	}
	return toBreakdownPoints(byCategory, expenseBucketLimit), nil
}

// toBreakdownPoints sorts a name->value map into positive slices, value
// descending with name as the tiebreaker so output order is stable.
func toBreakdownPoints(m map[string]float64, limit int) []BreakdownPoint {
	points := make([]BreakdownPoint, 0, len(m))
	for name, value := range m {
		if value <= 0 {
			continue
		}
		points = append(points, BreakdownPoint{Name: name, Value: money.Round2(value)})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Value != points[j].Value {
			return points[i].Value > points[j].Value
		}
		return points[i].Name < points[j].Name
	})
	if len(points) > limit {
		points = points[:limit]
	}
	return points
}

// buildRecentTransactions lists the latest rows carrying any transaction
// signal, a counted value, a raw amount cell, a description or a date:
// dated rows first, newest first; undated rows after them in reverse
// upload order.
func buildRecentTransactions(facts []rowFacts) ([]RecentTransaction, *FallbackReason) {
	var withSignal []rowFacts
	for _, f := range facts {
		if f.hasValue || f.hasAmount || f.product != "" || f.category != "" || f.hasDate {
			withSignal = append(withSignal, f)
		}
	}
	if len(withSignal) == 0 {
		return []RecentTransaction{}, reason(FallbackNoRecentActivity)
	}

	sort.SliceStable(withSignal, func(i, j int) bool {
		a, b := withSignal[i], withSignal[j]
		switch {
		case a.hasDate && b.hasDate:
			if !a.date.Equal(b.date) {
				return a.date.After(b.date)
			}
			return a.index > b.index
		case a.hasDate:
			return true
		case b.hasDate:
			return false
		default:
			return a.index > b.index
		}
	})
	if len(withSignal) > recentTxLimit {
		withSignal = withSignal[:recentTxLimit]
	}

	out := make([]RecentTransaction, 0, len(withSignal))
	for _, f := range withSignal {
		typ := f.txType
		switch {
		case f.expense > 0:
			typ = normalizer.TypeExpense
		case f.revenue > 0:
			typ = normalizer.TypeRevenue
		}
		desc := f.product
		if desc == "" {
			desc = f.category
		}
		tx := RecentTransaction{
			RowIndex:    f.index,
			Description: desc,
			Category:    f.category,
			Type:        typ,
			Revenue:     money.Round2(f.revenue),
			Expense:     money.Round2(f.expense),
			Amount:      money.Round2(f.revenue - f.expense),
		}
		tx.AmountDisplay = money.FormatUSD(tx.Amount)
		if f.hasDate {
			tx.Date = f.date.Format("2006-01-02")
		}
		out = append(out, tx)
	}
	return out, nil
}

func previewRows(rows []dataset.Row) []map[string]any {
	n := summaryPreviewLimit
	if n > len(rows) {
		n = len(rows)
	}
	out := make([]map[string]any, 0, n)
	for _, row := range rows[:n] {
		out = append(out, row)
	}
	return out
}

// cellNumber extracts a numeric value from a stored cell. Strings go back
// through the amount heuristics so text snapshots of numbers still count.
func cellNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case string:
		return normalizer.ParseAmount(x)
	default:
		return 0, false
	}
}

func cellString(v any) string {
	s, _ := v.(string)
	return s
}

func cellDate(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	d := normalizer.InferDate(s)
	if d.Value == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", d.Value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func reason(r FallbackReason) *FallbackReason { return &r }

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
