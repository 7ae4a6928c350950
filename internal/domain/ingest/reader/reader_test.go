package reader

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name string
		text string
		want rune
	}{
		{
			"comma",
			"date,amount,type\n2026-01-01,100,revenue\n2026-01-02,200,expense\n",
			',',
		},
		{
			"semicolon",
			"date;amount;type\n2026-01-01;100;revenue\n2026-01-02;200;expense\n",
			';',
		},
		{
			"tab",
			"date\tamount\ttype\n2026-01-01\t100\trevenue\n",
			'\t',
		},
		{
			"semicolon with commas in text",
			"date;amount;note\n2026-01-01;100;one, two, three\n2026-01-02;200;a, b\n2026-01-03;300;plain\n",
			';',
		},
		{
			"single column defaults to comma",
			"value\n100\n200\n",
			',',
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detectDelimiter(tt.text))
		})
	}
}

func TestReadCSV(t *testing.T) {
	t.Run("quoted field with embedded delimiter and newline", func(t *testing.T) {
		text := "name,note\nWidget,\"line one\nline two, still one cell\"\n"
		res, err := ReadCSV([]byte(text), Options{})
		require.NoError(t, err)
		require.Len(t, res.Rows, 2)
		assert.Equal(t, "line one\nline two, still one cell", res.Rows[1][1])
		assert.Equal(t, ',', res.Delimiter)
		assert.Zero(t, res.ParseErrors)
	})

	t.Run("escaped quotes", func(t *testing.T) {
		text := "name,note\nWidget,\"say \"\"hi\"\"\"\n"
		res, err := ReadCSV([]byte(text), Options{})
		require.NoError(t, err)
		assert.Equal(t, `say "hi"`, res.Rows[1][1])
	})

	t.Run("forced delimiter overrides sniffing", func(t *testing.T) {
		text := "a;b;c\n1;2;3\n"
		res, err := ReadCSV([]byte(text), Options{Delimiter: ';'})
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "2", "3"}, res.Rows[1])
	})

	t.Run("unterminated quote counts a parse error", func(t *testing.T) {
		text := "name,amount\n\"broken,100\nWidget,200\n"
		res, err := ReadCSV([]byte(text), Options{})
		require.NoError(t, err)
		assert.Positive(t, res.ParseErrors)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := ReadCSV([]byte("   \n  \n"), Options{})
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("bom stripped", func(t *testing.T) {
		text := append([]byte{0xEF, 0xBB, 0xBF}, []byte("a,b\n1,2\n")...)
		res, err := ReadCSV(text, Options{})
		require.NoError(t, err)
		assert.Equal(t, "a", res.Rows[0][0])
	})

	t.Run("latin1 fallback", func(t *testing.T) {
		// 0xE9 is é in ISO-8859-1 and invalid standalone UTF-8.
		text := []byte{'c', 'a', 'f', 0xE9, ',', '1', '\n'}
		res, err := ReadCSV(text, Options{})
		require.NoError(t, err)
		assert.Equal(t, "café", res.Rows[0][0])
	})
}

func TestReadXLSX(t *testing.T) {
	t.Run("first sheet", func(t *testing.T) {
		f := excelize.NewFile()
		require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"date", "amount"}))
		require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"2026-01-01", 100}))
		var buf bytes.Buffer
		require.NoError(t, f.Write(&buf))

		res, err := ReadXLSX(buf.Bytes())
		require.NoError(t, err)
		require.Len(t, res.Rows, 2)
		assert.Equal(t, []string{"date", "amount"}, res.Rows[0])
	})

	t.Run("corrupt bytes", func(t *testing.T) {
		_, err := ReadXLSX([]byte("not a zip archive"))
		assert.Error(t, err)
	})
}

func TestReadDispatch(t *testing.T) {
	res, err := Read([]byte("a,b\n1,2\n"), "upload.csv", Options{})
	assert.NoError(t, err)
	assert.Len(t, res.Rows, 2)

	_, err = Read([]byte("junk"), "upload.xlsx", Options{})
	assert.Error(t, err)

	_, err = Read([]byte("a,b\n1,2\n"), "upload.dat", Options{})
	assert.ErrorIs(t, err, ErrUnsupportedFile)
}
