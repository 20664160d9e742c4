// Package interfaces holds the storage contract shared by the storage
// backends, the envelope publisher and the HTTP sidecar.
//
// Documents are content addressed: a ContentID is the SHA-256 of the stored
// bytes, and a ContentType keeps sealed envelopes and published public keys
// in separate namespaces. Backends are described by URIs
// (file://, s3://, ipfs://, vault://) parsed into StorageBackendLocation.
//
// Callers match failures with errors.Is against ErrContentNotFound,
// ErrBackendUnavailable and ErrInvalidLocationURI.
package interfaces
