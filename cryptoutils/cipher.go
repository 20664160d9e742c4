package cryptoutils

import (
	"crypto/rsa"
	"crypto/sha256"
	"fmt"
	"strings"
)

// oaepOverhead is 2*hLen + 2 for SHA-256.
const oaepOverhead = 2*sha256.Size + 2

// MaxPlaintextSize returns the largest plaintext, in bytes, that Encrypt
// accepts for the given recipient key. It is 190 for 2048-bit keys.
func MaxPlaintextSize(recipient EncryptionPublicKey) (int, error) {
	publicKey, err := parsePublicKey(string(recipient))
	if err != nil {
		return 0, err
	}
	return maxPlaintextSize(publicKey), nil
}

func maxPlaintextSize(publicKey *rsa.PublicKey) int {
	return publicKey.Size() - oaepOverhead
}

// Encrypt encrypts the UTF-8 bytes of plaintext for the recipient using
// RSA-OAEP with SHA-256 as both hash and MGF1 digest. OAEP padding is
// randomized: encrypting the same plaintext twice yields different
// ciphertexts.
func (p *Provider) Encrypt(plaintext string, recipient EncryptionPublicKey) (Ciphertext, error) {
	publicKey, err := parsePublicKey(string(recipient))
	if err != nil {
		return "", err
	}

	if limit := maxPlaintextSize(publicKey); len(plaintext) > limit {
		return "", fmt.Errorf("%w: %d bytes exceeds %d", ErrPlaintextTooLarge, len(plaintext), limit)
	}

	ciphertext, err := rsa.EncryptOAEP(sha256.New(), p.random, publicKey, []byte(plaintext), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	return Ciphertext(Encode(ciphertext)), nil
}

// Decrypt reverses Encrypt with the holder's private key. Every
// cryptographic failure (wrong key, corrupted or truncated ciphertext,
// padding mismatch) returns ErrDecryptionFailure and nothing else.
// Decrypted bytes that are not valid UTF-8 have each invalid sequence
// replaced by U+FFFD.
func (p *Provider) Decrypt(ciphertext Ciphertext, holder EncryptionPrivateKey) (string, error) {
	privateKey, err := parsePrivateKey(string(holder))
	if err != nil {
		return "", err
	}

	data, err := Decode(string(ciphertext))
	if err != nil {
		return "", err
	}

	plaintext, err := rsa.DecryptOAEP(sha256.New(), nil, privateKey, data, nil)
	if err != nil {
		return "", ErrDecryptionFailure
	}

	return strings.ToValidUTF8(string(plaintext), "\uFFFD"), nil
}

// Encrypt calls DefaultProvider.Encrypt.
func Encrypt(plaintext string, recipient EncryptionPublicKey) (Ciphertext, error) {
	return DefaultProvider.Encrypt(plaintext, recipient)
}

// Decrypt calls DefaultProvider.Decrypt.
func Decrypt(ciphertext Ciphertext, holder EncryptionPrivateKey) (string, error) {
	return DefaultProvider.Decrypt(ciphertext, holder)
}
