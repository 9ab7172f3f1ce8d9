package grid

import "fmt"

// FilterFunc receives a column's new filter; nil clears it.
type FilterFunc func(f *Filter)

// SortFunc receives a column's new sort direction; nil clears the sort.
type SortFunc func(d *Direction)

// ColumnFilter is the per-column filter popover. It holds only the
// open/closed state and the unapplied operator/value draft; every change
// to the grid goes out through its callbacks.
type ColumnFilter struct {
	column   Column
	operator Operator
	value    string
	open     bool

	applied *Filter    // filter currently active on the grid
	sort    *Direction // sort direction currently active on this column

	onFilter FilterFunc
	onSort   SortFunc
}

// NewColumnFilter returns a control for column seeded from the currently
// applied filter and sort direction (either may be nil).
func NewColumnFilter(column Column, applied *Filter, sort *Direction, onFilter FilterFunc, onSort SortFunc) *ColumnFilter {
	c := &ColumnFilter{
		column:   column,
		operator: DefaultOperator(column.Type),
		onFilter: onFilter,
		onSort:   onSort,
	}
	c.sync(applied, sort)
	if applied != nil {
		c.operator = applied.Operator
		if column.Type != TypeBoolean {
			c.value = editText(applied.Value)
		}
	}
	return c
}

// sync records the grid's current state for this column.
func (c *ColumnFilter) sync(applied *Filter, sort *Direction) {
	c.applied = applied
	c.sort = sort
}

// Column returns the column the control belongs to.
func (c *ColumnFilter) Column() Column { return c.column }

// Open shows the popover.
func (c *ColumnFilter) Open() { c.open = true }

// Close hides the popover without applying the draft.
func (c *ColumnFilter) Close() { c.open = false }

// IsOpen reports whether the popover is visible.
func (c *ColumnFilter) IsOpen() bool { return c.open }

// Operator returns the draft operator.
func (c *ColumnFilter) Operator() Operator { return c.operator }

// Value returns the draft value.
func (c *ColumnFilter) Value() string { return c.value }

// HasActiveFilter reports whether the grid has a filter on this column.
func (c *ColumnFilter) HasActiveFilter() bool { return c.applied != nil }

// SortDirection returns the active sort direction of this column, or nil.
func (c *ColumnFilter) SortDirection() *Direction { return c.sort }

// Operators returns the operators offered for the column.
func (c *ColumnFilter) Operators() []Operator { return Operators(c.column.Type) }

// SelectOperator sets the draft operator. Boolean columns have no value
// to type, so selecting an operator applies it immediately.
func (c *ColumnFilter) SelectOperator(op Operator) error {
	if !c.column.Type.Allows(op) {
		return fmt.Errorf("%s on %s column: %w", op, c.column.Type, ErrOperatorNotAllowed)
	}
	c.operator = op
	if c.column.Type == TypeBoolean {
		c.emitFilter(c.booleanFilter())
	}
	return nil
}

// CycleOperator moves the draft operator by step positions through the
// operator list, wrapping around.
func (c *ColumnFilter) CycleOperator(step int) error {
	ops := c.Operators()
	idx := 0
	for i, op := range ops {
		if op == c.operator {
			idx = i
			break
		}
	}
	idx = ((idx+step)%len(ops) + len(ops)) % len(ops)
	return c.SelectOperator(ops[idx])
}

// SetValue replaces the draft value. Boolean columns ignore it.
func (c *ColumnFilter) SetValue(s string) {
	if c.column.Type == TypeBoolean {
		return
	}
	c.value = s
}

// Apply emits the draft as the column filter and closes the popover. An
// empty value clears the filter. Numeric columns reject input that does
// not parse; the popover then stays open and nothing is emitted.
func (c *ColumnFilter) Apply() error {
	if c.column.Type == TypeBoolean {
		c.emitFilter(c.booleanFilter())
		c.open = false
		return nil
	}
	if isBlank(c.value) {
		c.emitFilter(nil)
		c.open = false
		return nil
	}
	v, err := coerce(c.column.Type, c.value)
	if err != nil {
		return fmt.Errorf("%s: %w", c.column.Header, err)
	}
	c.emitFilter(&Filter{Operator: c.operator, Value: v})
	c.open = false
	return nil
}

// Clear resets the draft to the column default and removes the filter.
func (c *ColumnFilter) Clear() {
	c.value = ""
	c.operator = DefaultOperator(c.column.Type)
	c.emitFilter(nil)
}

// ToggleSort selects dir for this column; selecting the active direction
// again clears the sort.
func (c *ColumnFilter) ToggleSort(dir Direction) {
	if c.onSort == nil {
		return
	}
	if c.sort != nil && *c.sort == dir {
		c.onSort(nil)
		return
	}
	c.onSort(&dir)
}

func (c *ColumnFilter) booleanFilter() *Filter {
	if c.operator == OpAll {
		return nil
	}
	return &Filter{Operator: c.operator, Value: c.operator == OpTrue}
}

func (c *ColumnFilter) emitFilter(f *Filter) {
	if c.onFilter != nil {
		c.onFilter(f)
	}
}
