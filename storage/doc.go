// Package storage implements interfaces.StorageBackend for the places sealed
// envelopes and published public keys are kept once they leave the process.
//
// Every backend addresses a document by the SHA-256 of its bytes and keeps
// the envelope and pubkey namespaces apart:
//
//   - FileBackend: a local directory, written atomically; reads are checked
//     against the content ID
//   - S3Backend: an S3 or S3-compatible bucket, public-read objects
//   - IPFSBackend: a Kubo node over its HTTP API, pinned and linked into MFS
//   - VaultBackend: a KV v2 mount, token authenticated
//
// Backends are built from URIs by StorageBackendFactory:
//
//	file:///var/lib/didcrypto
//	s3://ACCESS:SECRET@bucket/prefix?region=eu-west-1&endpoint=minio:9000
//	ipfs://127.0.0.1:5001?timeout=30s
//	vault://vault:8200/secret/didcrypto?token=...&tls=false
//
// Several URIs yield a MultiStorageBackend, which writes to every reachable
// backend and reads from the first one holding the document.
package storage
