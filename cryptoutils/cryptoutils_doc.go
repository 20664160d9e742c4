// Package cryptoutils provides the asymmetric cryptography used by the
// decentralized-identity application: key generation, single-block
// encryption for a recipient, and message signatures.
//
// Every value that crosses the package boundary is text. Keys, ciphertexts
// and signatures are RFC 4648 standard base-64 strings, so they can be stored
// in a browser, passed as a contract call argument or embedded in JSON
// without further conversion.
//
// # Schemes
//
//   - Keys: RSA, 2048-bit modulus, public exponent 65537. Public keys are
//     exported as SubjectPublicKeyInfo DER, private keys as PKCS#8 DER.
//   - Encryption: RSA-OAEP with SHA-256 as hash and MGF1 digest, empty label.
//     Plaintexts are limited to 190 bytes for 2048-bit keys.
//   - Signatures: RSASSA-PKCS1-v1_5 over a SHA-256 digest.
//
// Encryption and signing keys share a physical format but not a Go type:
// EncryptionKeyPair and SigningKeyPair carry distinct key types, so passing
// a signing key to Encrypt does not compile. Strings arriving from outside a
// Go program are typed through the Parse* constructors.
//
// # Key Functions
//
//   - Encode / Decode - strict base-64 conversion
//   - GenerateEncryptionKeyPair / GenerateSigningKeyPair
//   - Encrypt / Decrypt
//   - Sign / Verify
//
// The package-level functions use DefaultProvider. A Provider built with
// NewProvider over another randomness source can be passed around
// explicitly, which is how tests exercise failure paths.
//
// # Errors
//
// Decrypt reports every cryptographic failure as ErrDecryptionFailure with
// no detail, so callers cannot distinguish a wrong key from corruption.
// Verify returns false for signatures that decode but do not verify, and
// ErrMalformedSignature only for signature text that is not base-64.
//
// # Usage Example
//
//	bob, err := cryptoutils.GenerateEncryptionKeyPair()
//	if err != nil {
//	    log.Fatalf("Failed to generate keys: %v", err)
//	}
//
//	ciphertext, err := cryptoutils.Encrypt("Hi Bob, this is Alice!", bob.PublicKey)
//	if err != nil {
//	    log.Fatalf("Failed to encrypt: %v", err)
//	}
//
//	message, err := cryptoutils.Decrypt(ciphertext, bob.PrivateKey)
//	if err != nil {
//	    log.Fatalf("Failed to decrypt: %v", err)
//	}
package cryptoutils
