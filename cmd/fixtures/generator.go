package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

// Generator produces e-commerce style transaction rows. All randomness goes
// through a seeded faker so output is reproducible.
type Generator struct {
	faker *gofakeit.Faker
}

func NewGenerator(seed uint64) *Generator {
	return &Generator{faker: gofakeit.New(int64(seed))}
}

var fixtureHeader = []string{
	"Date", "Order ID", "Product Name", "Category", "Customer", "Amount", "Type",
}

var fixtureCategories = []string{
	"Electronics", "Home & Garden", "Clothing", "Office Supplies", "Toys",
}

var expenseCategories = []string{
	"Shipping", "Marketing", "Rent", "Payroll", "Software",
}

// Row builds a single record. Roughly one row in five is an expense, and
// amounts are occasionally formatted with currency symbols or thousands
// separators so the fixtures exercise the normalization path.
func (g *Generator) Row(i int) []string {
	date := g.faker.DateRange(
		mustParseDate("2025-01-01"),
		mustParseDate("2025-12-31"),
	).Format("2006-01-02")

	isExpense := g.faker.IntRange(0, 4) == 0

	var (
		product  string
		category string
		txType   string
		amount   float64
	)
	if isExpense {
		product = ""
		category = g.faker.RandomString(expenseCategories)
		txType = "expense"
		amount = g.faker.Float64Range(10, 2500)
	} else {
		product = g.faker.ProductName()
		category = g.faker.RandomString(fixtureCategories)
		txType = "revenue"
		amount = g.faker.Float64Range(5, 900)
	}

	amountText := fmt.Sprintf("%.2f", amount)
	switch g.faker.IntRange(0, 9) {
	case 0:
		amountText = "$" + amountText
	case 1:
		amountText = "USD " + amountText
	case 2:
		if amount >= 1000 {
			amountText = fmt.Sprintf("%d,%06.2f", int(amount)/1000, amount-float64(int(amount)/1000*1000))
		}
	}

	return []string{
		date,
		fmt.Sprintf("ORD-%06d", i+1),
		product,
		category,
		g.faker.Name(),
		amountText,
		txType,
	}
}

// WriteCSV writes header plus n data rows. Every 503rd row is left blank and
// every 997th row is truncated to exercise the cleaning pass.
func (g *Generator) WriteCSV(path string, n int, delim rune) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	sep := string(delim)

	writeLine := func(fields []string) {
		for i, field := range fields {
			if i > 0 {
				w.WriteString(sep)
			}
			if strings.ContainsAny(field, sep+"\"\n") {
				w.WriteString(`"` + strings.ReplaceAll(field, `"`, `""`) + `"`)
			} else {
				w.WriteString(field)
			}
		}
		w.WriteString("\n")
	}

	writeLine(fixtureHeader)
	for i := 0; i < n; i++ {
		if (i+1)%503 == 0 {
			w.WriteString("\n")
			continue
		}
		row := g.Row(i)
		if (i+1)%997 == 0 {
			row = row[:3]
		}
		writeLine(row)
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

// WriteBrokenQuoteCSV writes a file with an unterminated quoted field so the
// parser's bare-quote recovery can be tested against something real.
func (g *Generator) WriteBrokenQuoteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	w.WriteString("Date,Product Name,Amount,Type\n")
	w.WriteString("2025-03-01,Standing Desk,499.00,revenue\n")
	w.WriteString("2025-03-02,\"Monitor Arm,89.50,revenue\n")
	w.WriteString("2025-03-03,Cable Tray,24.99,revenue\n")

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

func mustParseDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}
