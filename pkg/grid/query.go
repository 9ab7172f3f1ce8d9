package grid

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Default paging window emitted with every query.
const (
	DefaultPage     = 1
	DefaultPageSize = 50
)

// Direction is a sort direction.
type Direction string

// Sort directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Label returns the display label of the direction.
func (d Direction) Label() string {
	if d == Desc {
		return "decrescente"
	}
	return "crescente"
}

// Sort is the single active sort descriptor.
type Sort struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// Filter is one column's applied filter constraint. Value holds a string,
// a float64 or a bool consistent with the column type.
type Filter struct {
	Operator Operator `json:"operator"`
	Value    any      `json:"value"`
}

// QueryFilter is a Filter projected with its field for the wire.
type QueryFilter struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value"`
}

// Query is the combination of all active filters, the active sort and the
// paging window sent to a listing endpoint.
type Query struct {
	Filters  []QueryFilter `json:"filters"`
	Sort     *Sort         `json:"sort,omitempty"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
}

// NewQuery returns an unfiltered, unsorted query for the first page.
func NewQuery() Query {
	return Query{Filters: []QueryFilter{}, Page: DefaultPage, PageSize: DefaultPageSize}
}

// WithPage returns a copy of q positioned on page.
func (q Query) WithPage(page int) Query {
	if page < 1 {
		page = 1
	}
	q.Page = page
	return q
}

// Filter returns the filter for field, if present.
func (q Query) Filter(field string) (QueryFilter, bool) {
	for _, f := range q.Filters {
		if f.Field == field {
			return f, true
		}
	}
	return QueryFilter{}, false
}

// Offset returns the zero-based row offset of the query page.
func (q Query) Offset() int {
	if q.Page < 1 || q.PageSize < 1 {
		return 0
	}
	return (q.Page - 1) * q.PageSize
}

// Encode serializes the query to URL parameters: page, limit, filters (a
// JSON array, omitted when empty), sortBy and sortOrder. A filter value
// that cannot be represented in JSON, such as NaN, fails with
// ErrInvalidNumber.
func (q Query) Encode() (url.Values, error) {
	v := url.Values{}
	page, size := q.Page, q.PageSize
	if page < 1 {
		page = DefaultPage
	}
	if size < 1 {
		size = DefaultPageSize
	}
	v.Set("page", strconv.Itoa(page))
	v.Set("limit", strconv.Itoa(size))
	if len(q.Filters) > 0 {
		b, err := json.Marshal(q.Filters)
		var unsupported *json.UnsupportedValueError
		if errors.As(err, &unsupported) {
			return nil, fmt.Errorf("encoding filters: %w: %w", ErrInvalidNumber, err)
		}
		if err != nil {
			return nil, fmt.Errorf("encoding filters: %w", err)
		}
		v.Set("filters", string(b))
	}
	if q.Sort != nil {
		v.Set("sortBy", q.Sort.Field)
		v.Set("sortOrder", string(q.Sort.Direction))
	}
	return v, nil
}

// ParseFilterSpec parses "field:operator:value" against columns and returns
// the typed query filter. Boolean columns take "field:true" or
// "field:false"; the value part is optional for them.
func ParseFilterSpec(columns []Column, spec string) (QueryFilter, error) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) < 2 {
		return QueryFilter{}, fmt.Errorf("%q: %w", spec, ErrInvalidFilterSpec)
	}
	col, ok := findColumn(columns, parts[0])
	if !ok {
		return QueryFilter{}, fmt.Errorf("%q: %w", parts[0], ErrUnknownColumn)
	}
	op := Operator(parts[1])
	if !col.Type.Allows(op) || op == OpAll {
		return QueryFilter{}, fmt.Errorf("%s on %s: %w", op, col.Field, ErrOperatorNotAllowed)
	}
	if col.Type == TypeBoolean {
		return QueryFilter{Field: col.Field, Operator: op, Value: op == OpTrue}, nil
	}
	if len(parts) != 3 || strings.TrimSpace(parts[2]) == "" {
		return QueryFilter{}, fmt.Errorf("%q: %w", spec, ErrInvalidFilterSpec)
	}
	value, err := coerce(col.Type, parts[2])
	if err != nil {
		return QueryFilter{}, fmt.Errorf("%s: %w", col.Field, err)
	}
	return QueryFilter{Field: col.Field, Operator: op, Value: value}, nil
}

// ParseSortSpec parses "field:asc" or "field:desc". A bare field sorts
// ascending.
func ParseSortSpec(columns []Column, spec string) (*Sort, error) {
	field, dir, found := strings.Cut(spec, ":")
	if !found {
		dir = string(Asc)
	}
	col, ok := findColumn(columns, field)
	if !ok {
		return nil, fmt.Errorf("%q: %w", field, ErrUnknownColumn)
	}
	switch Direction(dir) {
	case Asc, Desc:
	default:
		return nil, fmt.Errorf("%q: %w", spec, ErrInvalidSortSpec)
	}
	return &Sort{Field: col.Field, Direction: Direction(dir)}, nil
}

func findColumn(columns []Column, field string) (Column, bool) {
	for _, c := range columns {
		if c.Field == field {
			return c, true
		}
	}
	return Column{}, false
}
