package newsstore

import "errors"

// Failure taxonomy shared by the store, the query service and the HTTP
// layer. Callers match with errors.Is; wrapped variants carry detail.
var (
	ErrValidation       = errors.New("missing or invalid field")
	ErrDuplicateSlug    = errors.New("slug already exists in section")
	ErrNotFound         = errors.New("section or slug not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrUpstreamFailure  = errors.New("upstream dependency failed")
)
