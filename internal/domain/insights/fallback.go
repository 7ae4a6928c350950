package insights

// FallbackReason identifies why a dashboard section could not be computed.
// Sections carry reasons internally and render them to display strings only
// at the response boundary, so callers can branch on the reason without
// string matching.
type FallbackReason int

const (
	FallbackNoAmountSignal FallbackReason = iota
	FallbackNoDateColumn
	FallbackNoMonthlyData
	FallbackNoProductData
	FallbackNoExpenseCategories
	FallbackNoRecentActivity
)

var fallbackMessages = map[FallbackReason]string{
	FallbackNoAmountSignal:      "No amount-like column detected. Revenue and expense totals are unavailable.",
	FallbackNoDateColumn:        "No date column detected, so time-based charts are unavailable.",
	FallbackNoMonthlyData:       "Not enough date data for monthly trend chart.",
	FallbackNoProductData:       "No product or category column detected for the top items chart.",
	FallbackNoExpenseCategories: "No expense categories detected for the expense breakdown.",
	FallbackNoRecentActivity:    "No rows with transaction signals found for recent activity.",
}

// Message renders the reason as its display string.
func (r FallbackReason) Message() string {
	return fallbackMessages[r]
}

func renderFallbacks(reasons []FallbackReason) []string {
	out := make([]string, 0, len(reasons))
	for _, r := range reasons {
		out = append(out, r.Message())
	}
	return out
}
