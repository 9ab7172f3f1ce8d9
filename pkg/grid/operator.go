package grid

import "slices"

// Operator is a filter operator token. The tokens are the wire contract
// with any backend that implements compatible filtering.
type Operator string

// String operators.
const (
	OpEquals     Operator = "equals"
	OpNotEquals  Operator = "notEquals"
	OpContains   Operator = "contains"
	OpStartsWith Operator = "startsWith"
	OpEndsWith   Operator = "endsWith"
)

// Number and currency operators (OpEquals and OpNotEquals are shared).
const (
	OpGreaterThan    Operator = "greaterThan"
	OpLessThan       Operator = "lessThan"
	OpGreaterOrEqual Operator = "greaterOrEqual"
	OpLessOrEqual    Operator = "lessOrEqual"
)

// Boolean operators. OpAll is equivalent to having no filter.
const (
	OpAll   Operator = "all"
	OpTrue  Operator = "true"
	OpFalse Operator = "false"
)

var (
	stringOperators  = []Operator{OpEquals, OpNotEquals, OpContains, OpStartsWith, OpEndsWith}
	numberOperators  = []Operator{OpEquals, OpNotEquals, OpGreaterThan, OpLessThan, OpGreaterOrEqual, OpLessOrEqual}
	booleanOperators = []Operator{OpAll, OpTrue, OpFalse}
)

var operatorLabels = map[Operator]string{
	OpEquals:         "Igual a",
	OpNotEquals:      "Diferente de",
	OpContains:       "Contém",
	OpStartsWith:     "Começa com",
	OpEndsWith:       "Termina com",
	OpGreaterThan:    "Maior que",
	OpLessThan:       "Menor que",
	OpGreaterOrEqual: "Maior ou igual",
	OpLessOrEqual:    "Menor ou igual",
	OpAll:            "Todos",
	OpTrue:           "Sim",
	OpFalse:          "Não",
}

// Label returns the display label of the operator.
func (op Operator) Label() string {
	if l, ok := operatorLabels[op]; ok {
		return l
	}
	return string(op)
}

// Operators returns the operators offered for a column type, in display
// order. Date columns use the string set.
func Operators(t ColumnType) []Operator {
	switch t {
	case TypeNumber, TypeCurrency:
		return slices.Clone(numberOperators)
	case TypeBoolean:
		return slices.Clone(booleanOperators)
	default:
		return slices.Clone(stringOperators)
	}
}

// DefaultOperator returns the operator a filter control starts with and
// falls back to on clear. Date columns default to OpEquals.
func DefaultOperator(t ColumnType) Operator {
	switch t {
	case TypeString:
		return OpContains
	case TypeNumber, TypeCurrency:
		return OpEquals
	case TypeBoolean:
		return OpAll
	default:
		return OpEquals
	}
}

// Allows reports whether op is in the operator set of t.
func (t ColumnType) Allows(op Operator) bool {
	return slices.Contains(Operators(t), op)
}
