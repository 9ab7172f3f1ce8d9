package types

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/mesh-intelligence/docket/pkg/grid"
)

// ListParams is a process listing request: the grid query plus the global
// filters the dashboard applies outside the grid.
type ListParams struct {
	Query     grid.Query
	Processed *bool
	BatchID   *int64
	// System is the court system whose batches the batch filter offers.
	// It does not filter the listing; BatchID does.
	System System
}

// NewListParams returns params for the first page with no filters.
func NewListParams() ListParams {
	return ListParams{Query: grid.NewQuery()}
}

// Values encodes the params as the query string of GET /process. A filter
// on processo is mirrored into the legacy search parameter.
func (p ListParams) Values() (url.Values, error) {
	v, err := p.Query.Encode()
	if err != nil {
		return nil, err
	}
	if p.Processed != nil {
		v.Set("processed", strconv.FormatBool(*p.Processed))
	}
	if p.BatchID != nil {
		v.Set("batchId", strconv.FormatInt(*p.BatchID, 10))
	}
	if f, ok := p.Query.Filter(FieldProcesso); ok {
		v.Set("search", fmt.Sprint(f.Value))
	}
	return v, nil
}
