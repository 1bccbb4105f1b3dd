package v1

import "errors"

type ErrorKind string

const (
	ErrorKindUnknownBranch           ErrorKind = "UnknownBranch"
	ErrorKindArchitectureUnavailable ErrorKind = "ArchitectureUnavailable"
	ErrorKindMalformedRecord         ErrorKind = "MalformedRecord"
	ErrorKindTransport               ErrorKind = "Transport"
)

// KindedError is implemented by every error that
// aborts a comparison.
type KindedError interface {
	error
	Kind() ErrorKind
}

// KindOf returns the kind of the first KindedError
// in the chain of err, or an empty kind.
func KindOf(err error) ErrorKind {
	var ke KindedError
	if errors.As(err, &ke) {
		return ke.Kind()
	}
	return ""
}
