package rdb

import (
	"fmt"
	"strings"

	v1 "github.com/djcass44/rdb-diff/pkg/api/v1"
)

// UnknownBranchError is returned when the requested
// branch (package set) does not exist.
type UnknownBranchError struct {
	Branch string
	// Available lists the known branches, if
	// the server told us about them.
	Available []string
}

func (e *UnknownBranchError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("branch '%s' is unknown", e.Branch)
	}
	return fmt.Sprintf("branch '%s' is unknown, allowed branches: %s", e.Branch, strings.Join(e.Available, ", "))
}

func (*UnknownBranchError) Kind() v1.ErrorKind {
	return v1.ErrorKindUnknownBranch
}

// ArchitectureUnavailableError is returned when a branch
// does not have the requested architecture.
type ArchitectureUnavailableError struct {
	Arch   string
	Branch string
}

func (e *ArchitectureUnavailableError) Error() string {
	return fmt.Sprintf("architecture '%s' is missing in branch '%s'", e.Arch, e.Branch)
}

func (*ArchitectureUnavailableError) Kind() v1.ErrorKind {
	return v1.ErrorKindArchitectureUnavailable
}

// TransportError is returned for any failure talking
// to the data source that isn't one of the above.
type TransportError struct {
	URL        string
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("request to %s failed: %s: %v", e.URL, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
	case e.Message != "":
		return fmt.Sprintf("request to %s failed with code %d: %s", e.URL, e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("request to %s failed with code %d", e.URL, e.StatusCode)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (*TransportError) Kind() v1.ErrorKind {
	return v1.ErrorKindTransport
}
