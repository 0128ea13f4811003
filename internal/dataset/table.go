package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"salespulse/pkg/contracts/domain"
)

// ErrNoHeader is returned for an empty CSV input
var ErrNoHeader = errors.New("no header row")

const utf8BOM = "\uFEFF"

// Table is an immutable in-memory CSV snapshot
type Table struct {
	name   string
	header []string
	keys   []string
	index  map[string]int
	rows   [][]string
}

// CanonicalKey normalizes a column name: trimmed, BOM stripped, lower-cased,
// spaces and hyphens replaced by underscores.
func CanonicalKey(name string) string {
	key := strings.TrimSpace(strings.TrimPrefix(name, utf8BOM))
	key = strings.ToLower(key)
	return strings.NewReplacer(" ", "_", "-", "_").Replace(key)
}

// ParseTable reads a comma-delimited CSV with a header row.
// Short rows are padded with empty cells and long rows truncated.
func ParseTable(name string, r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+2, err)
		}
		rows = append(rows, fitRow(record, len(header)))
	}

	return NewTable(name, header, rows), nil
}

// NewTable builds a table from a header and rows already sized to it
func NewTable(name string, header []string, rows [][]string) *Table {
	t := &Table{
		name:   name,
		header: append([]string(nil), header...),
		keys:   make([]string, len(header)),
		index:  make(map[string]int, len(header)),
		rows:   rows,
	}
	for i, col := range header {
		key := CanonicalKey(col)
		t.keys[i] = key
		if _, dup := t.index[key]; !dup {
			t.index[key] = i
		}
	}
	return t
}

func fitRow(record []string, width int) []string {
	if len(record) == width {
		return record
	}
	row := make([]string, width)
	copy(row, record)
	return row
}

// Name returns the source name the table was read from
func (t *Table) Name() string { return t.name }

// Header returns the original column names in file order
func (t *Table) Header() []string {
	return append([]string(nil), t.header...)
}

// Columns returns the canonical key of every column in file order
func (t *Table) Columns() []string {
	return append([]string(nil), t.keys...)
}

// Has reports whether the table has a column with the given name
func (t *Table) Has(column string) bool {
	_, ok := t.index[CanonicalKey(column)]
	return ok
}

// ColumnIndex returns the position of a column, or -1
func (t *Table) ColumnIndex(column string) int {
	if i, ok := t.index[CanonicalKey(column)]; ok {
		return i
	}
	return -1
}

// HeaderFor returns the original header of a column, or ""
func (t *Table) HeaderFor(column string) string {
	if i := t.ColumnIndex(column); i >= 0 {
		return t.header[i]
	}
	return ""
}

// Len returns the number of data rows
func (t *Table) Len() int { return len(t.rows) }

// Head returns copies of the first n rows
func (t *Table) Head(n int) [][]string {
	if n > len(t.rows) {
		n = len(t.rows)
	}
	if n <= 0 {
		return [][]string{}
	}
	out := make([][]string, n)
	for i := 0; i < n; i++ {
		out[i] = append([]string(nil), t.rows[i]...)
	}
	return out
}

// Clone returns a deep copy
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	rows := make([][]string, len(t.rows))
	for i, r := range t.rows {
		rows[i] = append([]string(nil), r...)
	}
	return NewTable(t.name, t.header, rows)
}

// decoderHeader returns canonical keys made unique for csvutil; later
// duplicates become "key.1", "key.2".
func (t *Table) decoderHeader() []string {
	seen := make(map[string]int, len(t.keys))
	out := make([]string, len(t.keys))
	for i, key := range t.keys {
		n := seen[key]
		seen[key] = n + 1
		if n == 0 {
			out[i] = key
			continue
		}
		out[i] = fmt.Sprintf("%s.%d", key, n)
	}
	return out
}

// rowReader feeds table rows to csvutil
type rowReader struct {
	rows [][]string
	pos  int
}

func (r *rowReader) Read() ([]string, error) {
	if r.pos >= len(r.rows) {
		return nil, io.EOF
	}
	row := r.rows[r.pos]
	r.pos++
	return row, nil
}

// Preview returns the header and first n rows as loaded
func (t *Table) Preview(n int) domain.Preview {
	return domain.Preview{
		Header: t.Header(),
		Rows:   t.Head(n),
		Total:  t.Len(),
	}
}
