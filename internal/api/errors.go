package api

import "fmt"

// BadStatusError reports a remote call that completed but returned a
// non-success HTTP status. The response body is not parsed in that case.
type BadStatusError struct {
	StatusCode int
}

func (e *BadStatusError) Error() string {
	return fmt.Sprintf("API returned status %d", e.StatusCode)
}

// DecodeError reports a response body that could not be parsed into the
// expected shape.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
