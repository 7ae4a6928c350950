package insights

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shahbi72/Clarity-board/internal/domain/dataset"
)

func TestDetectNumericColumns(t *testing.T) {
	cols := []string{"amount", "note", "mixed"}
	rows := []dataset.Row{
		{"amount": 1.0, "note": "a", "mixed": 1.0},
		{"amount": 2.0, "note": "b", "mixed": "x"},
		{"amount": 3.0, "note": "c", "mixed": "y"},
		{"amount": 4.0, "note": "d", "mixed": 2.0},
		{"amount": "5.5", "note": "e", "mixed": "z"},
	}

	got := detectNumericColumns(cols, rows)
	// "mixed" has only 2 numeric values of 5 non-empty: below both gates.
	assert.Equal(t, []string{"amount"}, got)
}

func TestPickPrimaryMetric(t *testing.T) {
	assert.Equal(t, "Total", pickPrimaryMetric([]string{"qty", "Total"}))
	assert.Equal(t, "order_total", pickPrimaryMetric([]string{"qty", "order_total"}))
	assert.Equal(t, "qty", pickPrimaryMetric([]string{"qty"}))
	assert.Equal(t, "", pickPrimaryMetric(nil))
}

func TestMissingRates(t *testing.T) {
	cols := []string{"a", "b", "c"}
	rows := []dataset.Row{
		{"a": 1.0, "b": nil, "c": nil},
		{"a": 2.0, "b": "x", "c": nil},
		{"a": 3.0, "b": nil, "c": nil},
		{"a": 4.0, "b": "y", "c": 1.0},
	}

	got := missingRates(cols, rows)
	require.Len(t, got, 3)
	assert.Equal(t, "c", got[0].Column)
	assert.Equal(t, 3, got[0].Missing)
	assert.Equal(t, 0.75, got[0].Rate)
	assert.Equal(t, "b", got[1].Column)
	assert.Equal(t, 2, got[1].Missing)
	assert.Equal(t, 0.5, got[1].Rate)
	assert.Equal(t, "a", got[2].Column)
	assert.Zero(t, got[2].Missing)
}

func TestCountDuplicateRows(t *testing.T) {
	cols := []string{"a", "b"}
	rows := []dataset.Row{
		{"a": 1.0, "b": "x"},
		{"a": 1.0, "b": "x"},
		{"a": 1.0, "b": "x"},
		{"a": 2.0, "b": "y"},
	}
	assert.Equal(t, 2, countDuplicateRows(cols, rows))
	assert.Equal(t, 0, countDuplicateRows(cols, rows[3:]))
}

func TestCountInvalidDates(t *testing.T) {
	rows := []dataset.Row{
		{"date": "2026-01-05"},
		{"date": "not a date"},
		{"date": nil},
		{"date": "13/13/2026"},
	}
	assert.Equal(t, 2, countInvalidDates("date", rows))
	assert.Equal(t, 0, countInvalidDates("", rows))
}

func TestCountOutliers(t *testing.T) {
	t.Run("flags extreme value", func(t *testing.T) {
		rows := make([]dataset.Row, 0, 12)
		for i := 0; i < 11; i++ {
			rows = append(rows, dataset.Row{"amount": 100.0 + float64(i)})
		}
		rows = append(rows, dataset.Row{"amount": 100000.0})
		assert.Equal(t, 1, countOutliers(metricValues("amount", rows)))
	})

	t.Run("small samples are ignored", func(t *testing.T) {
		assert.Zero(t, countOutliers([]float64{1, 2, 1000000}))
	})

	t.Run("constant series has no outliers", func(t *testing.T) {
		values := make([]float64, 10)
		for i := range values {
			values[i] = 5.0
		}
		assert.Zero(t, countOutliers(values))
	})
}

func TestBuildSuggestions(t *testing.T) {
	t.Run("dirty dataset fires ordered recommendations", func(t *testing.T) {
		cols := []string{"date", "amount", "note"}
		rows := []dataset.Row{
			{"date": "2026-01-05", "amount": 100.0, "note": nil},
			{"date": "2026-01-05", "amount": 100.0, "note": nil},
			{"date": "garbage", "amount": 110.0, "note": nil},
			{"date": "2026-01-08", "amount": 95.0, "note": "x"},
			{"date": "2026-01-09", "amount": 105.0, "note": nil},
			{"date": "2026-01-10", "amount": 98.0, "note": nil},
			{"date": "2026-01-11", "amount": 102.0, "note": nil},
			{"date": "2026-01-12", "amount": 97.0, "note": nil},
		}
		ds := testDataset(cols, rows)
		resp := BuildSuggestions(ds, rows)

		assert.Equal(t, "amount", resp.PrimaryMetric)
		assert.Contains(t, resp.NumericColumns, "amount")
		assert.Equal(t, 1, resp.DataQuality.DuplicateRows)
		assert.Equal(t, 1, resp.DataQuality.InvalidDates)
		require.NotEmpty(t, resp.DataQuality.MissingRates)
		assert.Equal(t, "note", resp.DataQuality.MissingRates[0].Column)

		require.NotEmpty(t, resp.Recommendations)
		assert.LessOrEqual(t, len(resp.Recommendations), 6)
		// Missing-column advice precedes the duplicates advice.
		assert.Contains(t, resp.Recommendations[0], "note")
		assert.Contains(t, resp.Recommendations[1], "duplicate")
	})

	t.Run("clean dataset gets generic fallbacks", func(t *testing.T) {
		cols := []string{"date", "amount"}
		rows := make([]dataset.Row, 0, 10)
		for i := 0; i < 10; i++ {
			rows = append(rows, dataset.Row{
				"date":   fmt.Sprintf("2026-01-%02d", i+1),
				"amount": 100.0 + float64(i),
			})
		}
		resp := BuildSuggestions(testDataset(cols, rows), rows)

		assert.Zero(t, resp.DataQuality.DuplicateRows)
		assert.Zero(t, resp.DataQuality.InvalidDates)
		assert.Equal(t, []string{
			"Continue monitoring monthly changes and set alert thresholds for abnormal spikes.",
			"Track data quality checks weekly so trends remain decision-ready.",
		}, resp.Recommendations)
	})

	t.Run("metrics trend and categories", func(t *testing.T) {
		cols := []string{"date", "amount", "category"}
		rows := []dataset.Row{
			{"date": "2026-01-05", "amount": 100.0, "category": "Hardware"},
			{"date": "2026-01-20", "amount": 50.0, "category": "Services"},
			{"date": "2026-02-03", "amount": 200.0, "category": "Hardware"},
		}
		resp := BuildSuggestions(testDataset(cols, rows), rows)

		assert.Equal(t, "category", resp.CategoryColumn)
		assert.Equal(t, 350.0, resp.Metrics.Total)
		assert.InDelta(t, 116.67, resp.Metrics.Average, 0.001)
		require.NotNil(t, resp.Metrics.Min)
		assert.Equal(t, 50.0, *resp.Metrics.Min)
		require.NotNil(t, resp.Metrics.Max)
		assert.Equal(t, 200.0, *resp.Metrics.Max)
		assert.Equal(t, 3, resp.Metrics.SampleSize)

		require.Len(t, resp.Trends.Timeseries, 2)
		assert.Equal(t, TrendPoint{Date: "Jan 2026", Value: 150.0}, resp.Trends.Timeseries[0])
		assert.Equal(t, TrendPoint{Date: "Feb 2026", Value: 200.0}, resp.Trends.Timeseries[1])
		require.NotNil(t, resp.Trends.MoMGrowthPercent)
		assert.InDelta(t, 33.33, *resp.Trends.MoMGrowthPercent, 0.001)

		require.Len(t, resp.TopCategories, 2)
		assert.Equal(t, "Hardware", resp.TopCategories[0].Name)
		assert.Equal(t, 300.0, resp.TopCategories[0].Value)

		require.Len(t, resp.Summary, 4)
		assert.Equal(t, "test-dataset has 3 rows across 3 columns.", resp.Summary[0])
		assert.Contains(t, resp.Summary[1], `Primary metric "amount" totals $350.00`)
		assert.Equal(t, "Top segment: Hardware contributes $300.00.", resp.Summary[2])
		assert.Contains(t, resp.Summary[3], "up 33.3%")

		assert.Equal(t, []string{
			"Double down on Hardware; replicate its patterns across lower-performing category segments.",
		}, resp.Recommendations)
	})

	t.Run("steep monthly decline drives recovery advice", func(t *testing.T) {
		cols := []string{"date", "amount"}
		decline := []dataset.Row{
			{"date": "2026-01-05", "amount": 500.0},
			{"date": "2026-01-06", "amount": 500.0},
			{"date": "2026-02-05", "amount": 600.0},
		}
		resp := BuildSuggestions(testDataset(cols, decline), decline)
		require.NotNil(t, resp.Trends.MoMGrowthPercent)
		assert.Equal(t, -40.0, *resp.Trends.MoMGrowthPercent)
		require.NotEmpty(t, resp.Recommendations)
		assert.Contains(t, resp.Recommendations[0], "40.0% month-over-month decline")

		// A mild dip stays under the advice threshold.
		mild := []dataset.Row{
			{"date": "2026-01-05", "amount": 500.0},
			{"date": "2026-01-06", "amount": 500.0},
			{"date": "2026-02-05", "amount": 950.0},
		}
		resp = BuildSuggestions(testDataset(cols, mild), mild)
		require.NotNil(t, resp.Trends.MoMGrowthPercent)
		assert.Equal(t, -5.0, *resp.Trends.MoMGrowthPercent)
		for _, rec := range resp.Recommendations {
			assert.NotContains(t, rec, "decline")
		}
	})

	t.Run("missing rate at the threshold fires", func(t *testing.T) {
		cols := []string{"date", "amount", "note"}
		rows := []dataset.Row{
			{"date": "2026-01-01", "amount": 1.0, "note": nil},
			{"date": "2026-01-02", "amount": 2.0, "note": "a"},
			{"date": "2026-01-03", "amount": 3.0, "note": "b"},
			{"date": "2026-01-04", "amount": 4.0, "note": "c"},
			{"date": "2026-01-05", "amount": 5.0, "note": "d"},
		}
		resp := BuildSuggestions(testDataset(cols, rows), rows)
		require.NotEmpty(t, resp.Recommendations)
		assert.Equal(t, `Clean "note" first: 1 missing values (20.0%).`, resp.Recommendations[0])
	})

	t.Run("deterministic", func(t *testing.T) {
		cols, rows := salesRows()
		ds := testDataset(cols, rows)
		assert.Equal(t, BuildSuggestions(ds, rows), BuildSuggestions(ds, rows))
	})
}
