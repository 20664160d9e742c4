// Package envelope combines the cipher and signer into the sealed message
// exchanged between two identities: the sender encrypts for the recipient
// and signs the plaintext with their own signing key.
package envelope

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ruteri/did-crypto-service/cryptoutils"
)

var (
	// ErrSignerMismatch is returned by OpenFrom when the envelope names a
	// different signer than the one the caller expects.
	ErrSignerMismatch = errors.New("envelope signer does not match expected signer")

	// ErrSignerKeyPair is returned by Seal when the signer's public key is
	// not the public half of its private key. It matches
	// cryptoutils.ErrInvalidKey.
	ErrSignerKeyPair = fmt.Errorf("%w: signer public key does not belong to signer private key", cryptoutils.ErrInvalidKey)
)

// Sealed is an encrypted, signed message. The signature covers the
// plaintext, so only the recipient can check it.
type Sealed struct {
	Ciphertext      cryptoutils.Ciphertext       `json:"ciphertext"`
	Signature       cryptoutils.Signature        `json:"signature"`
	SignerPublicKey cryptoutils.SigningPublicKey `json:"signer_public_key"`
}

// Opened is the result of opening a Sealed envelope.
type Opened struct {
	Message string
	// Verified is false when the signature does not match the message
	// under the embedded signer key.
	Verified bool
}

// Seal encrypts message for recipient and signs it with signer. The signer
// pair must be consistent, otherwise the envelope could never verify.
func Seal(p *cryptoutils.Provider, message string, recipient cryptoutils.EncryptionPublicKey, signer cryptoutils.SigningKeyPair) (*Sealed, error) {
	paired, err := signer.PrivateKey.MatchesPublicKey(signer.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("invalid signer keys: %w", err)
	}
	if !paired {
		return nil, ErrSignerKeyPair
	}

	ciphertext, err := p.Encrypt(message, recipient)
	if err != nil {
		return nil, fmt.Errorf("could not encrypt message: %w", err)
	}

	signature, err := p.Sign(message, signer.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("could not sign message: %w", err)
	}

	return &Sealed{
		Ciphertext:      ciphertext,
		Signature:       signature,
		SignerPublicKey: signer.PublicKey,
	}, nil
}

// Open decrypts the envelope with the holder's key and verifies the
// signature against the signer key carried in the envelope.
func Open(p *cryptoutils.Provider, sealed *Sealed, holder cryptoutils.EncryptionPrivateKey) (*Opened, error) {
	message, err := p.Decrypt(sealed.Ciphertext, holder)
	if err != nil {
		return nil, err
	}

	verified, err := p.Verify(message, sealed.Signature, sealed.SignerPublicKey)
	if err != nil {
		return nil, err
	}

	return &Opened{Message: message, Verified: verified}, nil
}

// OpenFrom is Open with the signer pinned: the envelope must name
// expectedSigner.
func OpenFrom(p *cryptoutils.Provider, sealed *Sealed, holder cryptoutils.EncryptionPrivateKey, expectedSigner cryptoutils.SigningPublicKey) (*Opened, error) {
	if sealed.SignerPublicKey != expectedSigner {
		return nil, ErrSignerMismatch
	}
	return Open(p, sealed, holder)
}

// Marshal returns the JSON form of the envelope.
func (s *Sealed) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// Unmarshal parses a JSON envelope and checks that every field is present
// and base-64 encoded.
func Unmarshal(data []byte) (*Sealed, error) {
	var sealed Sealed
	if err := json.Unmarshal(data, &sealed); err != nil {
		return nil, fmt.Errorf("invalid envelope: %w", err)
	}

	if sealed.Ciphertext == "" || sealed.Signature == "" || sealed.SignerPublicKey == "" {
		return nil, errors.New("invalid envelope: missing fields")
	}
	if _, err := cryptoutils.Decode(string(sealed.Ciphertext)); err != nil {
		return nil, fmt.Errorf("invalid envelope ciphertext: %w", err)
	}
	if _, err := cryptoutils.Decode(string(sealed.Signature)); err != nil {
		return nil, fmt.Errorf("invalid envelope signature: %w", err)
	}
	if err := sealed.SignerPublicKey.Validate(); err != nil {
		return nil, fmt.Errorf("invalid envelope signer: %w", err)
	}

	return &sealed, nil
}
