package grid

import "fmt"

// CanEdit reports whether cells of field accept edits.
func (e *Engine) CanEdit(field string) bool {
	col, ok := e.Column(field)
	return ok && e.editable && col.IsEditable()
}

// BeginEdit puts the cell in edit mode and seeds the draft with its
// current value. Boolean cells have no edit mode. Starting an edit while
// another cell is being edited abandons the other draft without invoking
// the edit callback.
func (e *Engine) BeginEdit(rowKey, field string) bool {
	col, ok := e.Column(field)
	if !ok || !e.CanEdit(field) || col.Type == TypeBoolean {
		return false
	}
	row, ok := e.row(rowKey)
	if !ok {
		return false
	}
	e.editing = &CellRef{RowKey: rowKey, Field: field}
	e.draft = editText(row.Value(field))
	return true
}

// Editing returns the cell in edit mode.
func (e *Engine) Editing() (CellRef, bool) {
	if e.editing == nil {
		return CellRef{}, false
	}
	return *e.editing, true
}

// IsEditing reports whether the given cell is in edit mode.
func (e *Engine) IsEditing(rowKey, field string) bool {
	return e.editing != nil && e.editing.RowKey == rowKey && e.editing.Field == field
}

// Draft returns the text of the cell being edited.
func (e *Engine) Draft() string { return e.draft }

// SetDraft replaces the text of the cell being edited.
func (e *Engine) SetDraft(s string) {
	if e.editing != nil {
		e.draft = s
	}
}

// Commit leaves edit mode and hands the coerced value to the edit callback
// when it differs from the row's value. Number and currency cells reject
// input that does not parse: edit mode is left, nothing is emitted and
// ErrInvalidNumber is returned. An empty numeric draft clears the value.
func (e *Engine) Commit() error {
	if e.editing == nil {
		return nil
	}
	ref, draft := *e.editing, e.draft
	e.editing, e.draft = nil, ""

	col, ok := e.Column(ref.Field)
	if !ok {
		return nil
	}
	row, ok := e.row(ref.RowKey)
	if !ok {
		return nil
	}
	orig := row.Value(ref.Field)

	var next any
	switch {
	case col.Type.Numeric() && isBlank(draft):
		if editText(orig) == "" {
			return nil
		}
		next = nil
	case col.Type.Numeric():
		n, err := ParseNumber(draft)
		if err != nil {
			return fmt.Errorf("%s: %w", col.Header, err)
		}
		if o, ok := toFloat(orig); ok && o == n {
			return nil
		}
		next = n
	default:
		if draft == editText(orig) {
			return nil
		}
		next = draft
	}
	if e.onEdit != nil {
		e.onEdit(row, ref.Field, next)
	}
	return nil
}

// Cancel leaves edit mode without invoking the edit callback and discards
// the draft.
func (e *Engine) Cancel() {
	e.editing = nil
	e.draft = ""
}

// Toggle flips a boolean cell by handing the negated value to the edit
// callback at once.
func (e *Engine) Toggle(rowKey, field string) bool {
	col, ok := e.Column(field)
	if !ok || !e.CanEdit(field) || col.Type != TypeBoolean {
		return false
	}
	row, ok := e.row(rowKey)
	if !ok {
		return false
	}
	if e.onEdit != nil {
		e.onEdit(row, field, !truthy(row.Value(field)))
	}
	return true
}
