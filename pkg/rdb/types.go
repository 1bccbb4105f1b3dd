package rdb

// DefaultURL is the public ALT Linux RDB API.
const DefaultURL = "https://rdb.altlinux.org/api"

const (
	prefixUnknownPackageSet = "unknown package set name :"
	prefixInvalidArch       = "package architecture Invalid architecture name"
)

// apiError is the body returned by the
// API for 4xx responses.
type apiError struct {
	Message           string         `json:"message"`
	Errors            map[string]any `json:"errors"`
	ValidationMessage []string       `json:"validation_message"`
}
