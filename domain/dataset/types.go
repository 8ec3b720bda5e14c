package dataset

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"autoinsight/domain/core"
	"autoinsight/domain/datareadiness/ingestion"
)

// Row is one record laid out in the dataset's column order.
type Row []ingestion.Value

// Dataset is a fixed ordered schema plus rows. Stages treat it as read-only
// and return new datasets instead of editing one in place.
type Dataset struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// New builds a dataset, rejecting rows whose width does not match the schema.
func New(columns []string, rows []Row) (*Dataset, error) {
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if seen[c] {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		seen[c] = true
	}
	for i, r := range rows {
		if len(r) != len(columns) {
			return nil, fmt.Errorf("row %d has %d fields, schema has %d columns", i, len(r), len(columns))
		}
	}
	return &Dataset{Columns: columns, Rows: rows}, nil
}

// FromRecords derives the schema from header (or, when header is empty, from
// the sorted keys of the first record) and types every cell with FromAny.
// Keys absent from a record become missing.
func FromRecords(header []string, records []map[string]any) (*Dataset, error) {
	if len(header) == 0 && len(records) > 0 {
		header = sortedKeys(records[0])
	}
	rows := make([]Row, len(records))
	for i, rec := range records {
		row := make(Row, len(header))
		for j, col := range header {
			row[j] = ingestion.FromAny(rec[col])
		}
		rows[i] = row
	}
	return New(append([]string(nil), header...), rows)
}

// FromStrings types raw text cells with InferCell.
func FromStrings(header []string, cells [][]string) (*Dataset, error) {
	rows := make([]Row, len(cells))
	for i, rec := range cells {
		row := make(Row, len(header))
		for j := range header {
			if j < len(rec) {
				row[j] = ingestion.InferCell(rec[j])
			}
		}
		rows[i] = row
	}
	return New(append([]string(nil), header...), rows)
}

func (d *Dataset) NumRows() int { return len(d.Rows) }
func (d *Dataset) NumCols() int { return len(d.Columns) }

// Index returns the position of a column.
func (d *Dataset) Index(column string) (int, bool) {
	for i, c := range d.Columns {
		if c == column {
			return i, true
		}
	}
	return -1, false
}

// Column returns a copy of every cell in a column, in row order.
func (d *Dataset) Column(column string) []ingestion.Value {
	idx, ok := d.Index(column)
	if !ok {
		return nil
	}
	out := make([]ingestion.Value, len(d.Rows))
	for i, r := range d.Rows {
		out[i] = r[idx]
	}
	return out
}

// MustColumn is Column but errors on unknown names.
func (d *Dataset) MustColumn(column string) ([]ingestion.Value, error) {
	if _, ok := d.Index(column); !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrColumnNotFound, column)
	}
	return d.Column(column), nil
}

// Clone deep-copies the schema and rows.
func (d *Dataset) Clone() *Dataset {
	rows := make([]Row, len(d.Rows))
	for i, r := range d.Rows {
		rows[i] = append(Row(nil), r...)
	}
	return &Dataset{Columns: append([]string(nil), d.Columns...), Rows: rows}
}

// WithoutColumns returns a copy without the named columns.
func (d *Dataset) WithoutColumns(drop ...string) *Dataset {
	skip := make(map[string]bool, len(drop))
	for _, c := range drop {
		skip[c] = true
	}
	var keep []int
	cols := make([]string, 0, len(d.Columns))
	for i, c := range d.Columns {
		if !skip[c] {
			keep = append(keep, i)
			cols = append(cols, c)
		}
	}
	rows := make([]Row, len(d.Rows))
	for i, r := range d.Rows {
		nr := make(Row, len(keep))
		for j, k := range keep {
			nr[j] = r[k]
		}
		rows[i] = nr
	}
	return &Dataset{Columns: cols, Rows: rows}
}

// WithColumn returns a copy with one column's cells replaced.
func (d *Dataset) WithColumn(column string, values []ingestion.Value) (*Dataset, error) {
	idx, ok := d.Index(column)
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrColumnNotFound, column)
	}
	if len(values) != len(d.Rows) {
		return nil, fmt.Errorf("column %s: got %d values for %d rows", column, len(values), len(d.Rows))
	}
	out := d.Clone()
	for i := range out.Rows {
		out.Rows[i][idx] = values[i]
	}
	return out, nil
}

// Records converts rows back to name-keyed maps of plain scalars.
func (d *Dataset) Records() []map[string]any {
	out := make([]map[string]any, len(d.Rows))
	for i, r := range d.Rows {
		rec := make(map[string]any, len(d.Columns))
		for j, c := range d.Columns {
			rec[c] = r[j].Interface()
		}
		out[i] = rec
	}
	return out
}

// Key encodes a row so that two rows share a key exactly when every field
// is structurally equal (same type and same value).
func (r Row) Key() string {
	var b strings.Builder
	for _, v := range r {
		b.WriteByte(byte('0' + v.Type))
		switch v.Type {
		case ingestion.ValueTypeNumeric:
			b.WriteString(strconv.FormatFloat(v.Num, 'g', -1, 64))
		case ingestion.ValueTypeString:
			b.WriteString(strconv.Quote(v.Str))
		case ingestion.ValueTypeBoolean:
			b.WriteString(strconv.FormatBool(v.Bool))
		}
		b.WriteByte(0x1f)
	}
	return b.String()
}

// Fingerprint hashes the schema and every row.
func (d *Dataset) Fingerprint() core.Hash {
	var b strings.Builder
	for _, c := range d.Columns {
		b.WriteString(strconv.Quote(c))
		b.WriteByte(',')
	}
	b.WriteByte('\n')
	for _, r := range d.Rows {
		b.WriteString(r.Key())
		b.WriteByte('\n')
	}
	return core.NewHash([]byte(b.String()))
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
