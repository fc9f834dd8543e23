package upstream

import (
	"errors"
	"fmt"
)

// ErrUnknownResourceType is returned for resource types the registry does
// not know about. Detected before any network call.
var ErrUnknownResourceType = errors.New("unknown resource type")

// MissingIdentifierError reports that the caller did not supply the
// identifier a resource requires. Detected before any network call.
type MissingIdentifierError struct {
	Kind IdentifierKind
}

func (e *MissingIdentifierError) Error() string {
	return fmt.Sprintf("missing required identifier: %s", e.Kind)
}

// UpstreamError carries a non-success HTTP status and the response body so
// the caller can interpret upstream failures (scope errors, rate limits).
type UpstreamError struct {
	StatusCode int
	Body       string
	URL        string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned %d for %s", e.StatusCode, e.URL)
}
