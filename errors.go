// Package slp reads SLEAP-style animal-pose label files: an HDF5 container
// holding skeletons, tracks, video descriptors, multi-view calibration
// sessions, and tables of frames/instances/points that this package lifts
// into a linked in-memory Labels document.
package slp

import "fmt"

// ErrorKind classifies a *SlpError.
type ErrorKind int

// Error kinds surfaced by the loader and its collaborators.
const (
	// InvalidSlp: a required dataset is absent, metadata.attrs.json is
	// missing, or JSON content failed to parse.
	InvalidSlp ErrorKind = iota
	// UnsupportedDataset: a compound or variable-length type the active
	// backend cannot decode (e.g. the lite loader touching a compound table).
	UnsupportedDataset
	// NetworkError: a byte-range fetch failed against the streaming backend.
	NetworkError
	// DecodeError: an embedded video frame failed to decode.
	DecodeError
	// SchemaVersionError: a required field is absent and no legacy default applies.
	SchemaVersionError
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidSlp:
		return "InvalidSlp"
	case UnsupportedDataset:
		return "UnsupportedDataset"
	case NetworkError:
		return "NetworkError"
	case DecodeError:
		return "DecodeError"
	case SchemaVersionError:
		return "SchemaVersionError"
	default:
		return "UnknownError"
	}
}

// ByteRange identifies the HTTP range a NetworkError originated from.
type ByteRange struct {
	Start int64
	End   int64
}

// SlpError is the error type returned by every loader entry point.
type SlpError struct {
	Kind    ErrorKind
	Context string
	Cause   error
	Range   *ByteRange // set only for Kind == NetworkError
}

// Error implements the error interface.
func (e *SlpError) Error() string {
	if e.Range != nil {
		return fmt.Sprintf("%s: %s (range %d-%d): %v", e.Kind, e.Context, e.Range.Start, e.Range.End, e.Cause)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Context, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Context)
}

// Unwrap provides compatibility with errors.Is/errors.As.
func (e *SlpError) Unwrap() error {
	return e.Cause
}

func newError(kind ErrorKind, context string, cause error) *SlpError {
	return &SlpError{Kind: kind, Context: context, Cause: cause}
}

func newNetworkError(context string, cause error, rng ByteRange) *SlpError {
	return &SlpError{Kind: NetworkError, Context: context, Cause: cause, Range: &rng}
}
