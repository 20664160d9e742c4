// Package main (cmd/httpserver) runs the crypto sidecar.
//
// The sidecar serves key generation, encryption, decryption, signing and
// verification over HTTP for callers that cannot link the Go package. When
// one or more --storage URIs are given it also seals and publishes
// envelopes and serves them back by content ID.
//
// The server shuts down gracefully on SIGINT/SIGTERM and exposes health
// checks, Prometheus metrics and optional pprof endpoints.
//
// Example usage:
//
//	didcrypto-server --listen-addr=0.0.0.0:8080 \
//	    --storage=file:///var/lib/didcrypto \
//	    --storage=ipfs://127.0.0.1:5001 \
//	    --log-json
package main
