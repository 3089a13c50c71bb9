package artifact

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind is the payload kind of an artifact.
type Kind string

const (
	KindTable Kind = "table"
	KindHTML  Kind = "html"
	KindText  Kind = "text"
)

// ValidKinds lists the kinds the loader understands.
var ValidKinds = map[Kind]bool{
	KindTable: true,
	KindHTML:  true,
	KindText:  true,
}

// Status is the outcome of loading one artifact.
type Status string

const (
	StatusOK         Status = "ok"
	StatusMissing    Status = "missing"
	StatusParseError Status = "parse_error"
)

// Ref is a static reference to one artifact file of a module.
// Path is relative to the artifact root and uses forward slashes.
type Ref struct {
	ModuleID string `json:"module_id"`
	Name     string `json:"name"`
	Kind     Kind   `json:"kind"`
	Path     string `json:"path"`
}

func (r Ref) String() string {
	return fmt.Sprintf("%s/%s (%s)", r.ModuleID, r.Name, r.Kind)
}

// Loaded is the result of loading a Ref. Exactly one of Table, HTML or Text
// is meaningful, and only when Status is StatusOK.
type Loaded struct {
	Ref    Ref    `json:"ref"`
	Status Status `json:"status"`
	Table  *Table `json:"table,omitempty"`
	HTML   string `json:"html,omitempty"`
	Text   string `json:"text,omitempty"`

	// Err describes a parse error. Empty otherwise.
	Err string `json:"error,omitempty"`
}

// OK reports whether the artifact loaded successfully.
func (l Loaded) OK() bool { return l.Status == StatusOK }

// ColumnType is the type inferred for a table column from its content.
type ColumnType string

const (
	TypeInt    ColumnType = "int"
	TypeFloat  ColumnType = "float"
	TypeBool   ColumnType = "bool"
	TypeString ColumnType = "string"
	// TypeEmpty marks a column whose cells are all empty.
	TypeEmpty ColumnType = "empty"
)

// Numeric reports whether values of this type can be plotted on a numeric axis.
func (t ColumnType) Numeric() bool {
	return t == TypeInt || t == TypeFloat
}

// Column is a named, typed table column.
type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// Cell is one table value. Raw is the text as read from the file; Null is
// set for empty cells.
type Cell struct {
	Raw  string `json:"raw"`
	Null bool   `json:"null,omitempty"`
}

// MarshalJSON encodes a cell as its raw text, or null.
func (c Cell) MarshalJSON() ([]byte, error) {
	if c.Null {
		return []byte("null"), nil
	}
	return json.Marshal(c.Raw)
}

// UnmarshalJSON decodes a string or null.
func (c *Cell) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = Cell{Null: true}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("cell: %w", err)
	}
	*c = Cell{Raw: raw}
	return nil
}

// Float returns the numeric value of the cell.
func (c Cell) Float() (float64, bool) {
	if c.Null {
		return 0, false
	}
	return parseFloat(c.Raw)
}

// Int returns the integer value of the cell.
func (c Cell) Int() (int64, bool) {
	if c.Null {
		return 0, false
	}
	i, err := strconv.ParseInt(strings.TrimSpace(c.Raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return i, true
}

// Table is an ordered set of rows with named columns.
type Table struct {
	Columns []Column `json:"columns"`
	Rows    [][]Cell `json:"rows"`
}

// Index returns the position of the named column, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Has reports whether every named column is present in the header.
func (t *Table) Has(names ...string) bool {
	for _, n := range names {
		if t.Index(n) < 0 {
			return false
		}
	}
	return true
}

// Header returns the column names in order.
func (t *Table) Header() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column and whether it exists.
func (t *Table) Column(name string) (Column, bool) {
	i := t.Index(name)
	if i < 0 {
		return Column{}, false
	}
	return t.Columns[i], true
}

// Where returns a new table holding only the rows whose value in column
// equals value. The receiver is not modified. An unknown column yields a
// table with no rows.
func (t *Table) Where(column, value string) *Table {
	out := &Table{Columns: t.Columns, Rows: [][]Cell{}}
	i := t.Index(column)
	if i < 0 {
		return out
	}
	for _, row := range t.Rows {
		if row[i].Raw == value {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// Distinct returns the distinct non-empty values of a column in first-seen order.
func (t *Table) Distinct(column string) []string {
	i := t.Index(column)
	if i < 0 {
		return nil
	}
	seen := make(map[string]bool)
	var values []string
	for _, row := range t.Rows {
		c := row[i]
		if c.Null || seen[c.Raw] {
			continue
		}
		seen[c.Raw] = true
		values = append(values, c.Raw)
	}
	return values
}
