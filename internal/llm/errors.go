package llm

import "fmt"

// TransportError indicates the analysis service could not be reached or
// returned a non-success status that is not an auth failure.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s transport failure: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// EmptyResponseError indicates the service answered but produced no usable
// content (no candidates, no parts, or empty text).
type EmptyResponseError struct {
	Provider string
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("%s returned an empty response", e.Provider)
}

// UnauthorizedError indicates the API key was rejected.
type UnauthorizedError struct {
	Provider   string
	StatusCode int
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("%s rejected credentials (status %d)", e.Provider, e.StatusCode)
}
