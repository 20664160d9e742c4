package interfaces

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	// ErrContentNotFound means no backend holds the requested document.
	ErrContentNotFound = errors.New("content not found")

	// ErrBackendUnavailable means a backend could not be reached or refused
	// the request.
	ErrBackendUnavailable = errors.New("storage backend unavailable")

	// ErrInvalidLocationURI means a backend URI could not be turned into a
	// backend.
	ErrInvalidLocationURI = errors.New("invalid storage location URI")
)

var supportedSchemes = map[string]bool{
	"file":  true,
	"s3":    true,
	"ipfs":  true,
	"vault": true,
}

// StorageBackendLocation is a parsed backend URI of the form
// scheme://[auth@]host[:port][/path][?params].
type StorageBackendLocation struct {
	Raw    string
	Scheme string
	Host   string
	Path   string
	Query  url.Values
	// Auth is the userinfo part, "user" or "user:secret".
	Auth string
}

// NewStorageBackendLocation parses uri and rejects schemes no backend
// implements.
func NewStorageBackendLocation(uri string) (StorageBackendLocation, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return StorageBackendLocation{}, fmt.Errorf("%w: %v", ErrInvalidLocationURI, err)
	}
	if !supportedSchemes[parsed.Scheme] {
		return StorageBackendLocation{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidLocationURI, parsed.Scheme)
	}

	loc := StorageBackendLocation{
		Raw:    uri,
		Scheme: parsed.Scheme,
		Host:   parsed.Host,
		Path:   parsed.Path,
		Query:  parsed.Query(),
	}
	if parsed.User != nil {
		loc.Auth = parsed.User.String()
	}
	return loc, nil
}

func (loc StorageBackendLocation) String() string { return loc.Raw }

func (loc StorageBackendLocation) IsFile() bool  { return loc.Scheme == "file" }
func (loc StorageBackendLocation) IsS3() bool    { return loc.Scheme == "s3" }
func (loc StorageBackendLocation) IsIPFS() bool  { return loc.Scheme == "ipfs" }
func (loc StorageBackendLocation) IsVault() bool { return loc.Scheme == "vault" }

// GetParam returns the first value of a query parameter, or "".
func (loc StorageBackendLocation) GetParam(name string) string {
	return loc.Query.Get(name)
}

// GetParamBool accepts true/1/yes, case-insensitively. Anything else,
// including a missing parameter, is false.
func (loc StorageBackendLocation) GetParamBool(name string) bool {
	switch strings.ToLower(loc.Query.Get(name)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// StorageBackend keeps envelopes and published keys under their ContentID.
// Implementations must be safe for concurrent use.
type StorageBackend interface {
	Fetch(ctx context.Context, id ContentID, contentType ContentType) ([]byte, error)

	// Store is idempotent: storing the same bytes twice yields the same ID.
	Store(ctx context.Context, data []byte, contentType ContentType) (ContentID, error)

	Available(ctx context.Context) bool

	// Name is a short label for logs.
	Name() string

	// LocationURI is the URI the backend was built from, with credentials
	// redacted where the backend holds any.
	LocationURI() string
}

// StorageBackendFactory turns location URIs into backends.
type StorageBackendFactory interface {
	StorageBackendFor(location StorageBackendLocation) (StorageBackend, error)

	// CreateMultiBackend fans writes out to every location and reads from
	// the first one that has the document.
	CreateMultiBackend(locations []StorageBackendLocation) (StorageBackend, error)
}
