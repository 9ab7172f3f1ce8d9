package grid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery_Encode(t *testing.T) {
	tests := []struct {
		name string
		q    Query
		want map[string]string
	}{
		{
			name: "defaults",
			q:    NewQuery(),
			want: map[string]string{"page": "1", "limit": "50"},
		},
		{
			name: "filters and sort",
			q: Query{
				Filters:  []QueryFilter{{Field: "valor", Operator: OpGreaterThan, Value: 1000.0}},
				Sort:     &Sort{Field: "dataDistribuicao", Direction: Desc},
				Page:     3,
				PageSize: 20,
			},
			want: map[string]string{
				"page":      "3",
				"limit":     "20",
				"filters":   `[{"field":"valor","operator":"greaterThan","value":1000}]`,
				"sortBy":    "dataDistribuicao",
				"sortOrder": "desc",
			},
		},
		{
			name: "zero paging falls back",
			q:    Query{},
			want: map[string]string{"page": "1", "limit": "50"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tt.q.Encode()
			require.NoError(t, err)
			got := make(map[string]string, len(v))
			for k := range v {
				got[k] = v.Get(k)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuery_EncodeNonFiniteValue(t *testing.T) {
	tests := []struct {
		name  string
		value float64
	}{
		{"nan", math.NaN()},
		{"positive infinity", math.Inf(1)},
		{"negative infinity", math.Inf(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQuery()
			q.Filters = []QueryFilter{{Field: "valor", Operator: OpEquals, Value: tt.value}}
			v, err := q.Encode()
			require.ErrorIs(t, err, ErrInvalidNumber)
			assert.Nil(t, v)
		})
	}
}

func TestQuery_PagingHelpers(t *testing.T) {
	q := NewQuery().WithPage(4)
	assert.Equal(t, 4, q.Page)
	assert.Equal(t, 150, q.Offset())
	assert.Equal(t, 1, q.WithPage(0).Page)
	assert.Equal(t, 0, NewQuery().Offset())
}

func TestQuery_Filter(t *testing.T) {
	q := Query{Filters: []QueryFilter{{Field: "numero", Operator: OpContains, Value: "0001"}}}
	f, ok := q.Filter("numero")
	require.True(t, ok)
	assert.Equal(t, "0001", f.Value)
	_, ok = q.Filter("valor")
	assert.False(t, ok)
}

func TestParseFilterSpec(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		want    QueryFilter
		wantErr error
	}{
		{
			name: "string contains",
			spec: "name:contains:Smi:th",
			want: QueryFilter{Field: "name", Operator: OpContains, Value: "Smi:th"},
		},
		{
			name: "currency coerced",
			spec: "amount:greaterOrEqual:1500,5",
			want: QueryFilter{Field: "amount", Operator: OpGreaterOrEqual, Value: 1500.5},
		},
		{
			name: "boolean without value",
			spec: "contacted:false",
			want: QueryFilter{Field: "contacted", Operator: OpFalse, Value: false},
		},
		{name: "unknown column", spec: "nope:equals:x", wantErr: ErrUnknownColumn},
		{name: "operator not allowed", spec: "name:greaterThan:3", wantErr: ErrOperatorNotAllowed},
		{name: "boolean all", spec: "contacted:all", wantErr: ErrOperatorNotAllowed},
		{name: "missing value", spec: "name:equals", wantErr: ErrInvalidFilterSpec},
		{name: "missing operator", spec: "name", wantErr: ErrInvalidFilterSpec},
		{name: "bad number", spec: "amount:equals:lots", wantErr: ErrInvalidNumber},
		{name: "not a number", spec: "amount:equals:NaN", wantErr: ErrInvalidNumber},
		{name: "infinite number", spec: "amount:lessThan:+Inf", wantErr: ErrInvalidNumber},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFilterSpec(testColumns, tt.spec)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSortSpec(t *testing.T) {
	s, err := ParseSortSpec(testColumns, "amount:desc")
	require.NoError(t, err)
	assert.Equal(t, &Sort{Field: "amount", Direction: Desc}, s)

	s, err = ParseSortSpec(testColumns, "name")
	require.NoError(t, err)
	assert.Equal(t, Asc, s.Direction)

	_, err = ParseSortSpec(testColumns, "name:up")
	assert.ErrorIs(t, err, ErrInvalidSortSpec)

	_, err = ParseSortSpec(testColumns, "missing:asc")
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"150.5", 150.5, false},
		{" 42 ", 42, false},
		{"1500,25", 1500.25, false},
		{"-3", -3, false},
		{"abc", 0, true},
		{"", 0, true},
		{"1.500,25", 0, true},
		{"NaN", 0, true},
		{"Inf", 0, true},
		{"-Inf", 0, true},
		{"Infinity", 0, true},
		{"1e999", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseNumber(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidNumber)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
