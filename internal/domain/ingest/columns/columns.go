// Package columns maps raw header names onto the semantic roles the
// aggregation layer understands. Matching runs in two phases: exact match
// on the normalized name, then bidirectional substring matching, so
// "Transaction Date" still binds to the date role.
package columns

import "strings"

// Mapping names the dataset column bound to each semantic role. An empty
// string means no column matched the role.
type Mapping struct {
	Date     string `json:"dateColumn"`
	Amount   string `json:"amountColumn"`
	Type     string `json:"typeColumn"`
	Category string `json:"categoryColumn"`
	Revenue  string `json:"revenueColumn"`
	Expense  string `json:"expenseColumn"`
	Product  string `json:"productColumn"`
	Customer string `json:"customerColumn"`
}

// Dashboard alias tables. Keys are pre-normalized.
var (
	DateAliases     = []string{"date", "created_at", "transaction_date", "createdat", "transactiondate"}
	AmountAliases   = []string{"amount", "total", "value"}
	TypeAliases     = []string{"type", "kind", "transaction_type", "transactiontype"}
	CategoryAliases = []string{"category", "expense_category", "expensecategory"}
	RevenueAliases  = []string{"revenue", "sales", "income"}
	ExpenseAliases  = []string{"expense", "cost", "spending"}
	ProductAliases  = []string{"product", "product_name", "productname", "item", "name"}
	CustomerAliases = []string{"customer", "customer_name", "customername", "client"}
)

// Transaction-builder alias tables, used when extracting transactions
// straight from a header row.
var (
	TxAmountAliases  = []string{"amount", "amt", "value", "price", "total", "sum", "cost"}
	TxTypeAliases    = []string{"type", "transactiontype", "category", "kind"}
	TxProductAliases = []string{"productname", "product", "item", "name", "description", "memo", "details"}
	TxDateAliases    = []string{"date", "day", "transactiondate"}
)

// Normalize lowercases a header and strips every non-alphanumeric rune so
// "Transaction Date", "transaction_date" and "TransactionDate" compare equal.
func Normalize(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Find returns the first column whose normalized name matches one of the
// aliases, preferring exact matches over substring matches. It returns an
// empty string when nothing matches.
func Find(cols []string, aliases []string) string {
	normalized := make([]string, len(cols))
	for i, c := range cols {
		normalized[i] = Normalize(c)
	}

	for _, alias := range aliases {
		key := Normalize(alias)
		for i, n := range normalized {
			if n == key {
				return cols[i]
			}
		}
	}
	for _, alias := range aliases {
		key := Normalize(alias)
		if key == "" {
			continue
		}
		for i, n := range normalized {
			if n == "" {
				continue
			}
			if strings.Contains(n, key) || strings.Contains(key, n) {
				return cols[i]
			}
		}
	}
	return ""
}

// Map binds every semantic role against the dataset's column names.
func Map(cols []string) Mapping {
	return Mapping{
		Date:     Find(cols, DateAliases),
		Amount:   Find(cols, AmountAliases),
		Type:     Find(cols, TypeAliases),
		Category: Find(cols, CategoryAliases),
		Revenue:  Find(cols, RevenueAliases),
		Expense:  Find(cols, ExpenseAliases),
		Product:  Find(cols, ProductAliases),
		Customer: Find(cols, CustomerAliases),
	}
}
