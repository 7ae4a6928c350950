package main

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorDeterministic(t *testing.T) {
	a := NewGenerator(7)
	b := NewGenerator(7)

	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Row(i), b.Row(i), "row %d diverged for identical seeds", i)
	}
}

func TestGeneratorRowShape(t *testing.T) {
	g := NewGenerator(1)

	row := g.Row(0)
	require.Len(t, row, len(fixtureHeader))
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, row[0])
	assert.Equal(t, "ORD-000001", row[1])
	assert.Contains(t, []string{"revenue", "expense"}, row[6])
}

func TestWriteCSVStructure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")

	g := NewGenerator(3)
	require.NoError(t, g.WriteCSV(path, 1100, ','))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Equal(t, 1101, len(lines), "header plus one line per requested row")

	assert.Equal(t, "Date,Order ID,Product Name,Category,Customer,Amount,Type", lines[0])
	// Row 503 is written blank, row 997 is truncated to three fields.
	assert.Empty(t, lines[503])

	r := csv.NewReader(strings.NewReader(lines[997]))
	r.FieldsPerRecord = -1
	rec, err := r.Read()
	require.NoError(t, err)
	assert.Len(t, rec, 3)
}

func TestWriteBrokenQuoteCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.csv")

	g := NewGenerator(3)
	require.NoError(t, g.WriteBrokenQuoteCSV(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\"Monitor Arm,")
}
