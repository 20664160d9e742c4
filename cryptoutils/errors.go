package cryptoutils

import "errors"

var (
	// ErrMalformedEncoding is returned when caller-supplied text is not valid
	// standard base-64.
	ErrMalformedEncoding = errors.New("malformed encoding")

	// ErrKeyGenerationFailure is returned when the randomness source or the
	// key parameters prevent producing a key pair.
	ErrKeyGenerationFailure = errors.New("key generation failure")

	// ErrPlaintextTooLarge is returned when a plaintext exceeds the single
	// block capacity of the recipient key. Callers must chunk or use another
	// scheme.
	ErrPlaintextTooLarge = errors.New("plaintext too large")

	// ErrDecryptionFailure covers a wrong key, a corrupted ciphertext and a
	// padding mismatch alike. It never carries detail about which one.
	ErrDecryptionFailure = errors.New("decryption failure")

	// ErrMalformedSignature is returned when an encoded signature cannot be
	// decoded into bytes. A signature that decodes but does not verify is
	// reported as false by Verify.
	ErrMalformedSignature = errors.New("malformed signature")

	// ErrInvalidKey is returned when decoded key material is not a valid
	// RSA SPKI public key or PKCS#8 private key.
	ErrInvalidKey = errors.New("invalid key")
)
