// Package cryptohandler serves key generation, encryption, decryption,
// signing and verification over HTTP, plus envelope publishing when a
// storage backend is configured.
//
// All keys, ciphertexts and signatures in requests and responses are the
// base-64 strings produced by cryptoutils, so values can move between the
// Go API, this sidecar and the command-line tool unchanged.
//
// # Error Mapping
//
//   - 400 Bad Request: body is not JSON, malformed base-64, invalid key,
//     plaintext too large
//   - 404 Not Found: envelope not in storage
//   - 422 Unprocessable Entity: decryption failure or malformed signature,
//     with the fixed message "cannot process"
//   - 500 Internal Server Error: key generation or storage failure
//
// A signature that decodes but does not verify is not an error: /verify
// answers 200 with {"valid": false}.
//
// # Usage Example
//
//	handler := cryptohandler.NewHandler(cryptoutils.DefaultProvider, publisher, logger)
//	router := chi.NewRouter()
//	handler.RegisterRoutes(router)
//
//	client := cryptohandler.NewClient("http://127.0.0.1:8080", nil)
//	bob, err := client.GenerateEncryptionKeyPair(ctx)
package cryptohandler
