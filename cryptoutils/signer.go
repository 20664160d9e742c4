package cryptoutils

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"
)

// Sign produces an RSASSA-PKCS1-v1_5 signature over the SHA-256 digest of
// the UTF-8 message. The scheme is deterministic: the same message and key
// always give the same signature.
func (p *Provider) Sign(message string, signer SigningPrivateKey) (Signature, error) {
	privateKey, err := parsePrivateKey(string(signer))
	if err != nil {
		return "", err
	}

	digest := sha256.Sum256([]byte(message))
	signature, err := rsa.SignPKCS1v15(nil, privateKey, crypto.SHA256, digest[:])
	if err != nil {
		return "", fmt.Errorf("failed to sign: %w", err)
	}

	return Signature(Encode(signature)), nil
}

// Verify reports whether signature is a valid PKCS#1 v1.5 signature of the
// message under the signer's public key. A tampered message, a signature
// from another key or signature bytes of the wrong length all yield false
// with a nil error. ErrMalformedSignature is returned only when the
// signature text is not valid base-64.
func (p *Provider) Verify(message string, signature Signature, signer SigningPublicKey) (bool, error) {
	publicKey, err := parsePublicKey(string(signer))
	if err != nil {
		return false, err
	}

	signatureBytes, err := Decode(string(signature))
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrMalformedSignature, err)
	}

	digest := sha256.Sum256([]byte(message))
	if err := rsa.VerifyPKCS1v15(publicKey, crypto.SHA256, digest[:], signatureBytes); err != nil {
		return false, nil
	}
	return true, nil
}

// Sign calls DefaultProvider.Sign.
func Sign(message string, signer SigningPrivateKey) (Signature, error) {
	return DefaultProvider.Sign(message, signer)
}

// Verify calls DefaultProvider.Verify.
func Verify(message string, signature Signature, signer SigningPublicKey) (bool, error) {
	return DefaultProvider.Verify(message, signature, signer)
}
