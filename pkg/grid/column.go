package grid

import "fmt"

// ColumnType governs the default filter operator, the input coercion and
// the display formatting of a column.
type ColumnType string

// Column types.
const (
	TypeString   ColumnType = "string"
	TypeNumber   ColumnType = "number"
	TypeBoolean  ColumnType = "boolean"
	TypeDate     ColumnType = "date"
	TypeCurrency ColumnType = "currency"
)

// Numeric reports whether values of this type are coerced to float64.
func (t ColumnType) Numeric() bool {
	return t == TypeNumber || t == TypeCurrency
}

// Row is a record displayed by the grid. The grid only knows the key;
// every other value is looked up by column field.
type Row interface {
	Key() string
	Value(field string) any
}

// MapRow is a map-backed Row keyed by its "id" entry.
type MapRow map[string]any

// Key returns the "id" entry formatted as a string.
func (r MapRow) Key() string { return fmt.Sprint(r["id"]) }

// Value returns the entry stored under field, or nil.
func (r MapRow) Value(field string) any { return r[field] }

// Renderer selects how a cell value becomes display text. The interface is
// sealed: the only variants are DefaultRender and CustomRender.
type Renderer interface {
	renderer()
}

// DefaultRender formats the value according to the column type.
type DefaultRender struct{}

// CustomRender produces the display text from the value and its row.
type CustomRender func(value any, row Row) string

func (DefaultRender) renderer() {}
func (CustomRender) renderer()  {}

// Column describes one grid column. The zero values of ReadOnly, NoFilter
// and NoSort leave the column editable, filterable and sortable.
type Column struct {
	Field    string
	Header   string
	Type     ColumnType
	Width    int // display width hint in cells; 0 sizes from content
	ReadOnly bool
	NoFilter bool
	NoSort   bool
	Render   Renderer // nil behaves as DefaultRender
}

// IsEditable reports whether the column accepts edits.
func (c Column) IsEditable() bool { return !c.ReadOnly }

// IsFilterable reports whether the column exposes filter controls.
func (c Column) IsFilterable() bool { return !c.NoFilter }

// IsSortable reports whether the column exposes sort controls.
func (c Column) IsSortable() bool { return !c.NoSort }

// display returns the cell text for row using the column's renderer.
func (c Column) display(row Row, f *Formatter) string {
	v := row.Value(c.Field)
	switch r := c.Render.(type) {
	case nil, DefaultRender:
		return f.Format(c.Type, v)
	case CustomRender:
		return r(v, row)
	default:
		panic(fmt.Sprintf("grid: unhandled renderer %T", r))
	}
}
