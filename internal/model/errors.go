package model

import "fmt"

// ValidationError is raised locally, before any network call, when a feature
// field fails its constraints. It names the offending field so the caller can
// surface the message next to the input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// PredictionServerError is a non-success response from the remote model
// service carrying its machine-readable detail message.
type PredictionServerError struct {
	StatusCode int
	Detail     string
}

func (e *PredictionServerError) Error() string {
	return fmt.Sprintf("prediction service returned %d: %s", e.StatusCode, e.Detail)
}

// NetworkError means the request never produced a response.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("prediction service unreachable: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// MalformedResponseError means a response arrived but could not be normalized
// into a PredictionResult.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed prediction response: %s", e.Reason)
}

// InvalidRangeError is raised by the distribution renderer when the price
// bracket is non-finite, negative or inverted. Rendering is skipped, never
// clamped.
type InvalidRangeError struct {
	Min float64
	Max float64
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid price range [%v, %v]", e.Min, e.Max)
}
