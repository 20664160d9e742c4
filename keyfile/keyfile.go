// Package keyfile persists key pairs for command-line callers. The
// cryptoutils package never stores keys; this package is one way a caller
// can.
//
// A key file is JSON. The private key is either stored in the clear or
// sealed under a passphrase with Argon2id and AES-256-GCM:
//
//	{"kind":"encryption","public_key":"MIIB...","sealed_private_key":{"salt":"...","nonce":"...","ciphertext":"..."}}
package keyfile

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ruteri/did-crypto-service/cryptoutils"
	"golang.org/x/crypto/argon2"
)

// Kind tells which scheme a key file's keys belong to.
type Kind string

const (
	KindEncryption Kind = "encryption"
	KindSigning    Kind = "signing"
)

// Argon2id parameters: time=1, memory=64MiB, threads=4, keyLen=32
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	saltSize     = 16
)

var (
	// ErrWrongKind is returned when a key file holds keys of the other scheme.
	ErrWrongKind = errors.New("key file holds keys of a different kind")

	// ErrSealed is returned when the private key is requested from a sealed
	// file without unsealing it first.
	ErrSealed = errors.New("private key is sealed")

	// ErrWrongPassphrase is returned when unsealing fails.
	ErrWrongPassphrase = errors.New("wrong passphrase or corrupted key file")

	// ErrKeyPairMismatch is returned by Read when the private key in a file
	// is not the counterpart of its public key.
	ErrKeyPairMismatch = errors.New("private key does not match public key")
)

// SealedKey is a private key encrypted under a passphrase-derived key.
type SealedKey struct {
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	Ciphertext string `json:"ciphertext"`
}

// File is the on-disk form of a key pair.
type File struct {
	Kind       Kind       `json:"kind"`
	PublicKey  string     `json:"public_key"`
	PrivateKey string     `json:"private_key,omitempty"`
	Sealed     *SealedKey `json:"sealed_private_key,omitempty"`
}

// FromEncryptionKeyPair wraps an encryption key pair.
func FromEncryptionKeyPair(kp cryptoutils.EncryptionKeyPair) *File {
	return &File{
		Kind:       KindEncryption,
		PublicKey:  string(kp.PublicKey),
		PrivateKey: string(kp.PrivateKey),
	}
}

// FromSigningKeyPair wraps a signing key pair.
func FromSigningKeyPair(kp cryptoutils.SigningKeyPair) *File {
	return &File{
		Kind:       KindSigning,
		PublicKey:  string(kp.PublicKey),
		PrivateKey: string(kp.PrivateKey),
	}
}

// EncryptionKeyPair returns the typed key pair. The file must be of
// KindEncryption and unsealed.
func (f *File) EncryptionKeyPair() (cryptoutils.EncryptionKeyPair, error) {
	if f.Kind != KindEncryption {
		return cryptoutils.EncryptionKeyPair{}, fmt.Errorf("%w: %s", ErrWrongKind, f.Kind)
	}
	if f.PrivateKey == "" {
		return cryptoutils.EncryptionKeyPair{}, ErrSealed
	}
	return cryptoutils.EncryptionKeyPair{
		PublicKey:  cryptoutils.EncryptionPublicKey(f.PublicKey),
		PrivateKey: cryptoutils.EncryptionPrivateKey(f.PrivateKey),
	}, nil
}

// SigningKeyPair returns the typed key pair. The file must be of
// KindSigning and unsealed.
func (f *File) SigningKeyPair() (cryptoutils.SigningKeyPair, error) {
	if f.Kind != KindSigning {
		return cryptoutils.SigningKeyPair{}, fmt.Errorf("%w: %s", ErrWrongKind, f.Kind)
	}
	if f.PrivateKey == "" {
		return cryptoutils.SigningKeyPair{}, ErrSealed
	}
	return cryptoutils.SigningKeyPair{
		PublicKey:  cryptoutils.SigningPublicKey(f.PublicKey),
		PrivateKey: cryptoutils.SigningPrivateKey(f.PrivateKey),
	}, nil
}

// IsSealed reports whether the private key is passphrase protected.
func (f *File) IsSealed() bool {
	return f.Sealed != nil
}

// Seal encrypts the private key under passphrase and clears the plaintext
// copy. random is the source for the salt and nonce.
func (f *File) Seal(random io.Reader, passphrase []byte) error {
	if f.PrivateKey == "" {
		return ErrSealed
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(random, salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}

	aesGCM, err := newGCM(passphrase, salt)
	if err != nil {
		return err
	}

	nonce := make([]byte, aesGCM.NonceSize())
	if _, err := io.ReadFull(random, nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	// The public key is authenticated alongside the private key
	ciphertext := aesGCM.Seal(nil, nonce, []byte(f.PrivateKey), []byte(f.PublicKey))

	f.Sealed = &SealedKey{
		Salt:       cryptoutils.Encode(salt),
		Nonce:      cryptoutils.Encode(nonce),
		Ciphertext: cryptoutils.Encode(ciphertext),
	}
	f.PrivateKey = ""
	return nil
}

// Unseal decrypts the private key with passphrase.
func (f *File) Unseal(passphrase []byte) error {
	if f.Sealed == nil {
		return nil
	}

	salt, err := cryptoutils.Decode(f.Sealed.Salt)
	if err != nil {
		return fmt.Errorf("invalid salt: %w", err)
	}
	nonce, err := cryptoutils.Decode(f.Sealed.Nonce)
	if err != nil {
		return fmt.Errorf("invalid nonce: %w", err)
	}
	ciphertext, err := cryptoutils.Decode(f.Sealed.Ciphertext)
	if err != nil {
		return fmt.Errorf("invalid ciphertext: %w", err)
	}

	aesGCM, err := newGCM(passphrase, salt)
	if err != nil {
		return err
	}
	if len(nonce) != aesGCM.NonceSize() {
		return ErrWrongPassphrase
	}

	privateKey, err := aesGCM.Open(nil, nonce, ciphertext, []byte(f.PublicKey))
	if err != nil {
		return ErrWrongPassphrase
	}

	f.PrivateKey = string(privateKey)
	f.Sealed = nil
	return nil
}

func newGCM(passphrase, salt []byte) (cipher.AEAD, error) {
	key := argon2.IDKey(passphrase, salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aesGCM, nil
}

// Write stores the key file at path, readable only by the owner.
func Write(path string, f *File) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Read loads a key file and checks its kind, its public key and, when the
// private key is stored in the clear, that the two halves belong together.
func Read(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid key file %s: %w", path, err)
	}

	switch f.Kind {
	case KindEncryption, KindSigning:
	default:
		return nil, fmt.Errorf("invalid key file %s: unknown kind %q", path, f.Kind)
	}

	if _, err := cryptoutils.ParseEncryptionPublicKey(f.PublicKey); err != nil {
		return nil, fmt.Errorf("invalid key file %s: %w", path, err)
	}

	// Sealed keys are checked on Unseal through the GCM additional data.
	if f.PrivateKey != "" {
		paired, err := cryptoutils.EncryptionPrivateKey(f.PrivateKey).MatchesPublicKey(cryptoutils.EncryptionPublicKey(f.PublicKey))
		if err != nil {
			return nil, fmt.Errorf("invalid key file %s: %w", path, err)
		}
		if !paired {
			return nil, fmt.Errorf("invalid key file %s: %w", path, ErrKeyPairMismatch)
		}
	}

	return &f, nil
}
