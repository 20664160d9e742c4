package cryptoutils

import (
	"crypto/rsa"
	"crypto/x509"
	"fmt"
	"math/big"
)

const minModulusBits = 1024

// EncryptionPublicKey is a recipient's RSA-OAEP public key: base-64 of its
// SubjectPublicKeyInfo DER encoding.
type EncryptionPublicKey string

// EncryptionPrivateKey is a holder's RSA-OAEP private key: base-64 of its
// PKCS#8 DER encoding.
type EncryptionPrivateKey string

// SigningPublicKey is a signer's RSASSA-PKCS1-v1_5 public key: base-64 of
// its SubjectPublicKeyInfo DER encoding.
type SigningPublicKey string

// SigningPrivateKey is a signer's RSASSA-PKCS1-v1_5 private key: base-64 of
// its PKCS#8 DER encoding.
type SigningPrivateKey string

// Ciphertext is base-64 of a single RSA-OAEP block. Its length depends only
// on the recipient's modulus size.
type Ciphertext string

// Signature is base-64 of a PKCS#1 v1.5 signature.
type Signature string

// EncryptionKeyPair holds a key pair usable only with Encrypt and Decrypt.
type EncryptionKeyPair struct {
	PublicKey  EncryptionPublicKey  `json:"public_key"`
	PrivateKey EncryptionPrivateKey `json:"private_key"`
}

// SigningKeyPair holds a key pair usable only with Sign and Verify.
type SigningKeyPair struct {
	PublicKey  SigningPublicKey  `json:"public_key"`
	PrivateKey SigningPrivateKey `json:"private_key"`
}

// ParseEncryptionPublicKey validates text as an encoded RSA public key and
// returns it typed for encryption.
func ParseEncryptionPublicKey(text string) (EncryptionPublicKey, error) {
	if _, err := parsePublicKey(text); err != nil {
		return "", err
	}
	return EncryptionPublicKey(text), nil
}

// ParseEncryptionPrivateKey validates text as an encoded RSA private key and
// returns it typed for decryption.
func ParseEncryptionPrivateKey(text string) (EncryptionPrivateKey, error) {
	if _, err := parsePrivateKey(text); err != nil {
		return "", err
	}
	return EncryptionPrivateKey(text), nil
}

// ParseSigningPublicKey validates text as an encoded RSA public key and
// returns it typed for verification.
func ParseSigningPublicKey(text string) (SigningPublicKey, error) {
	if _, err := parsePublicKey(text); err != nil {
		return "", err
	}
	return SigningPublicKey(text), nil
}

// ParseSigningPrivateKey validates text as an encoded RSA private key and
// returns it typed for signing.
func ParseSigningPrivateKey(text string) (SigningPrivateKey, error) {
	if _, err := parsePrivateKey(text); err != nil {
		return "", err
	}
	return SigningPrivateKey(text), nil
}

// Validate checks that the key decodes to an RSA public key.
func (k EncryptionPublicKey) Validate() error {
	_, err := parsePublicKey(string(k))
	return err
}

// Validate checks that the key decodes to an RSA private key.
func (k EncryptionPrivateKey) Validate() error {
	_, err := parsePrivateKey(string(k))
	return err
}

// PublicKey derives the encoded public half of the key.
func (k EncryptionPrivateKey) PublicKey() (EncryptionPublicKey, error) {
	pub, err := publicFromPrivate(string(k))
	return EncryptionPublicKey(pub), err
}

// Validate checks that the key decodes to an RSA public key.
func (k SigningPublicKey) Validate() error {
	_, err := parsePublicKey(string(k))
	return err
}

// Validate checks that the key decodes to an RSA private key.
func (k SigningPrivateKey) Validate() error {
	_, err := parsePrivateKey(string(k))
	return err
}

// PublicKey derives the encoded public half of the key.
func (k SigningPrivateKey) PublicKey() (SigningPublicKey, error) {
	pub, err := publicFromPrivate(string(k))
	return SigningPublicKey(pub), err
}

// MatchesPublicKey reports whether pub is the public half of k.
func (k EncryptionPrivateKey) MatchesPublicKey(pub EncryptionPublicKey) (bool, error) {
	return keysMatch(string(k), string(pub))
}

// MatchesPublicKey reports whether pub is the public half of k.
func (k SigningPrivateKey) MatchesPublicKey(pub SigningPublicKey) (bool, error) {
	return keysMatch(string(k), string(pub))
}

func keysMatch(privateText, publicText string) (bool, error) {
	priv, err := parsePrivateKey(privateText)
	if err != nil {
		return false, err
	}
	pub, err := parsePublicKey(publicText)
	if err != nil {
		return false, err
	}
	return priv.PublicKey.Equal(pub), nil
}

// checkModulus rejects moduli too small for OAEP with SHA-256 or below the
// 1024-bit floor crypto/rsa enforces.
func checkModulus(n *big.Int) error {
	if bits := n.BitLen(); bits < minModulusBits {
		return fmt.Errorf("%w: %d-bit modulus, need at least %d", ErrInvalidKey, bits, minModulusBits)
	}
	return nil
}

func parsePublicKey(text string) (*rsa.PublicKey, error) {
	der, err := Decode(text)
	if err != nil {
		return nil, err
	}

	key, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	rsaKey, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported public key type %T", ErrInvalidKey, key)
	}
	if err := checkModulus(rsaKey.N); err != nil {
		return nil, err
	}
	return rsaKey, nil
}

func parsePrivateKey(text string) (*rsa.PrivateKey, error) {
	der, err := Decode(text)
	if err != nil {
		return nil, err
	}

	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported private key type %T", ErrInvalidKey, key)
	}
	if err := checkModulus(rsaKey.N); err != nil {
		return nil, err
	}
	return rsaKey, nil
}

func publicFromPrivate(text string) (string, error) {
	priv, err := parsePrivateKey(text)
	if err != nil {
		return "", err
	}

	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return Encode(der), nil
}
