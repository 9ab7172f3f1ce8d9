package gateway

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/mesh-intelligence/docket/pkg/types"
)

// maxErrorBody caps how much of a failed response body HTTPError keeps.
const maxErrorBody = 512

// ErrUnsupported is returned for operations a court system does not offer.
var ErrUnsupported = errors.New("operation not supported by this court system")

// HTTPError is a non-2xx response from the API.
type HTTPError struct {
	Status int
	Method string
	URL    string
	Body   string
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("%s %s: HTTP %d %s", e.Method, e.URL, e.Status, http.StatusText(e.Status))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Unwrap maps authentication failures to types.ErrUnauthorized and missing
// resources to types.ErrNotFound.
func (e *HTTPError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return types.ErrUnauthorized
	case http.StatusNotFound:
		return types.ErrNotFound
	}
	return nil
}
