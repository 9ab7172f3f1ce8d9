package sqlite

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/docket/pkg/grid"
	"github.com/mesh-intelligence/docket/pkg/types"
)

// fieldSpec maps an API field to its column and grid type.
type fieldSpec struct {
	column string
	typ    grid.ColumnType
}

// processFields is the filter and sort whitelist of the process listing.
var processFields = map[string]fieldSpec{
	types.FieldID:               {"p.id", grid.TypeNumber},
	types.FieldBatchID:          {"p.batch_id", grid.TypeNumber},
	types.FieldComarca:          {"p.comarca", grid.TypeString},
	types.FieldForo:             {"p.foro", grid.TypeString},
	types.FieldVara:             {"p.vara", grid.TypeString},
	types.FieldClasse:           {"p.classe", grid.TypeString},
	types.FieldProcesso:         {"p.processo", grid.TypeString},
	types.FieldValor:            {"p.valor", grid.TypeCurrency},
	types.FieldRequerido:        {"p.requerido", grid.TypeString},
	types.FieldContato:          {"p.contato", grid.TypeString},
	types.FieldContatoRealizado: {"p.contato_realizado", grid.TypeBoolean},
	types.FieldObservacoes:      {"p.observacoes", grid.TypeString},
	types.FieldProcessed:        {"p.processed", grid.TypeBoolean},
	types.FieldErrorCount:       {"p.error_count", grid.TypeNumber},
	types.FieldLastError:        {"p.last_error", grid.TypeString},
	types.FieldCreatedAt:        {"p.created_at", grid.TypeDate},
	types.FieldUpdatedAt:        {"p.updated_at", grid.TypeDate},
}

// likeEscaper escapes LIKE wildcards in user input; patterns use ESCAPE '\'.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// whereClause accumulates SQL predicates and their arguments.
type whereClause struct {
	conditions []string
	args       []any
}

func (w *whereClause) add(cond string, args ...any) {
	w.conditions = append(w.conditions, cond)
	w.args = append(w.args, args...)
}

func (w *whereClause) String() string {
	if len(w.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conditions, " AND ")
}

// buildWhere translates the listing params into predicates over the
// processes table aliased p. The system selection only scopes batch
// options, so it adds no predicate, matching the remote listing.
func buildWhere(params types.ListParams) (*whereClause, error) {
	w := &whereClause{}
	if params.Processed != nil {
		w.add("p.processed = ?", boolToInt(*params.Processed))
	}
	if params.BatchID != nil {
		w.add("p.batch_id = ?", *params.BatchID)
	}
	for _, f := range params.Query.Filters {
		if err := addFilter(w, f); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func addFilter(w *whereClause, f grid.QueryFilter) error {
	spec, ok := processFields[f.Field]
	if !ok {
		return fmt.Errorf("filter %q: %w", f.Field, grid.ErrUnknownColumn)
	}
	if !spec.typ.Allows(f.Operator) {
		return fmt.Errorf("%s on %s: %w", f.Operator, f.Field, grid.ErrOperatorNotAllowed)
	}
	col := spec.column

	switch spec.typ {
	case grid.TypeBoolean:
		switch f.Operator {
		case grid.OpTrue:
			w.add(col + " = 1")
		case grid.OpFalse:
			w.add(col + " = 0")
		}
		return nil

	case grid.TypeNumber, grid.TypeCurrency:
		n, err := numericValue(f.Value)
		if err != nil {
			return fmt.Errorf("filter %s: %w", f.Field, err)
		}
		op := map[grid.Operator]string{
			grid.OpEquals:         "=",
			grid.OpNotEquals:      "<>",
			grid.OpGreaterThan:    ">",
			grid.OpLessThan:       "<",
			grid.OpGreaterOrEqual: ">=",
			grid.OpLessOrEqual:    "<=",
		}[f.Operator]
		w.add(fmt.Sprintf("%s %s ?", col, op), n)
		return nil
	}

	s := fmt.Sprint(f.Value)
	if spec.typ == grid.TypeDate {
		// Dates are compared on their yyyy-mm-dd prefix.
		col = "substr(" + col + ", 1, 10)"
	}
	switch f.Operator {
	case grid.OpEquals:
		w.add(col+" = ?", s)
	case grid.OpNotEquals:
		w.add("COALESCE("+col+", '') <> ?", s)
	case grid.OpContains:
		w.add(col+` LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(s)+"%")
	case grid.OpStartsWith:
		w.add(col+` LIKE ? ESCAPE '\'`, likeEscaper.Replace(s)+"%")
	case grid.OpEndsWith:
		w.add(col+` LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(s))
	}
	return nil
}

func numericValue(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		return grid.ParseNumber(n)
	}
	return 0, fmt.Errorf("%v: %w", v, grid.ErrInvalidNumber)
}

// orderBy returns the ORDER BY clause for the query sort. Rows without a
// sort come in ID order; ID breaks ties otherwise.
func orderBy(sort *grid.Sort) (string, error) {
	if sort == nil {
		return " ORDER BY p.id ASC", nil
	}
	spec, ok := processFields[sort.Field]
	if !ok {
		return "", fmt.Errorf("sort %q: %w", sort.Field, grid.ErrUnknownColumn)
	}
	dir := "ASC"
	switch sort.Direction {
	case grid.Asc:
	case grid.Desc:
		dir = "DESC"
	default:
		return "", fmt.Errorf("sort direction %q: %w", sort.Direction, grid.ErrInvalidSortSpec)
	}
	return fmt.Sprintf(" ORDER BY %s %s, p.id ASC", spec.column, dir), nil
}
