package tenant

import "errors"

// ErrNotFound signals that a tenant, LP or document does not exist. It is
// not an operational error: resolution callers map it to a not-found page.
var ErrNotFound = errors.New("not found")

// ErrMalformedContent signals that a document exists but failed to parse.
// Kept distinct from ErrNotFound so callers can answer 422 instead of 404.
var ErrMalformedContent = errors.New("malformed content")
