package artifact

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// nullValues are cell spellings read as missing values.
var nullValues = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"NaN":  true,
	"nan":  true,
	"null": true,
	"NULL": true,
	"None": true,
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrEmptyTable is returned when a table file has no header row.
var ErrEmptyTable = errors.New("no columns to parse from file")

// ParseTable parses delimited data with a header row. Column names are taken
// verbatim from the header (NFC-normalised); duplicates get a ".N" suffix.
// Rows shorter than the header are padded with nulls; longer rows are an error.
func ParseTable(data []byte) (*Table, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyTable
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	t := &Table{
		Columns: make([]Column, len(header)),
		Rows:    [][]Cell{},
	}
	for i, name := range dedupe(header) {
		t.Columns[i] = Column{Name: name}
	}

	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) > len(header) {
			line, _ := r.FieldPos(0)
			return nil, fmt.Errorf("record on line %d: expected %d fields, saw %d", line, len(header), len(record))
		}
		row := make([]Cell, len(header))
		for i := range row {
			if i >= len(record) {
				row[i] = Cell{Null: true}
				continue
			}
			raw := record[i]
			row[i] = Cell{Raw: raw, Null: nullValues[strings.TrimSpace(raw)]}
		}
		t.Rows = append(t.Rows, row)
	}

	for i := range t.Columns {
		t.Columns[i].Type = inferType(t.Rows, i)
	}
	return t, nil
}

// dedupe normalises header names and renames repeats to name.1, name.2, ...
// skipping suffixes already taken by other columns.
func dedupe(header []string) []string {
	out := make([]string, len(header))
	taken := make(map[string]bool, len(header))
	for i, h := range header {
		out[i] = norm.NFC.String(h)
		taken[out[i]] = true
	}

	used := make(map[string]bool, len(header))
	next := make(map[string]int)
	for i, name := range out {
		if !used[name] {
			used[name] = true
			continue
		}
		for {
			next[name]++
			candidate := fmt.Sprintf("%s.%d", name, next[name])
			if !used[candidate] && !taken[candidate] {
				out[i] = candidate
				used[candidate] = true
				break
			}
		}
	}
	return out
}

// inferType picks the narrowest type that fits every non-null cell of a column.
func inferType(rows [][]Cell, col int) ColumnType {
	isInt, isFloat, isBool := true, true, true
	seen := false
	for _, row := range rows {
		c := row[col]
		if c.Null {
			continue
		}
		seen = true
		s := strings.TrimSpace(c.Raw)
		if isInt {
			if _, err := strconv.ParseInt(s, 10, 64); err != nil {
				isInt = false
			}
		}
		if isFloat {
			if _, ok := parseFloat(s); !ok {
				isFloat = false
			}
		}
		if isBool {
			switch strings.ToLower(s) {
			case "true", "false":
			default:
				isBool = false
			}
		}
		if !isInt && !isFloat && !isBool {
			break
		}
	}

	switch {
	case !seen:
		return TypeEmpty
	case isInt:
		return TypeInt
	case isFloat:
		return TypeFloat
	case isBool:
		return TypeBool
	default:
		return TypeString
	}
}

// parseFloat accepts finite decimal numbers only.
func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
