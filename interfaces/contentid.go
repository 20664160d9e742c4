package interfaces

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ContentID addresses a stored document by the SHA-256 digest of its bytes.
// Envelopes and published public keys are both looked up by it, and its
// Keccak-256 is what the credential registry records.
type ContentID [sha256.Size]byte

var errContentIDLength = errors.New("content ID must be 32 bytes")

// ComputeID hashes data into the identifier it is stored under.
func ComputeID(data []byte) ContentID {
	return sha256.Sum256(data)
}

// NewContentIDFromBytes copies a raw digest.
func NewContentIDFromBytes(source []byte) (ContentID, error) {
	var id ContentID
	if len(source) != len(id) {
		return id, fmt.Errorf("%w, got %d", errContentIDLength, len(source))
	}
	copy(id[:], source)
	return id, nil
}

// NewContentIDFromHex parses the form printed by String, with or without a
// leading 0x.
func NewContentIDFromHex(source string) (ContentID, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(source, "0x"))
	if err != nil {
		return ContentID{}, fmt.Errorf("content ID is not hex: %w", err)
	}
	return NewContentIDFromBytes(raw)
}

func (id ContentID) String() string {
	return hex.EncodeToString(id[:])
}

func (id ContentID) Bytes() []byte {
	return id[:]
}

func (id ContentID) Equal(other ContentID) bool {
	return id == other
}

// ContentType selects the namespace a document is stored in. Backends keep
// the namespaces apart so a public key can never be fetched as an envelope.
type ContentType int

const (
	EnvelopeType ContentType = iota
	PublicKeyType
)

// ContentTypes lists every namespace, in declaration order.
var ContentTypes = []ContentType{EnvelopeType, PublicKeyType}

func (ct ContentType) String() string {
	switch ct {
	case EnvelopeType:
		return "envelope"
	case PublicKeyType:
		return "pubkey"
	}
	return "unknown"
}
