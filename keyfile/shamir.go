package keyfile

import (
	"fmt"

	"github.com/hashicorp/vault/shamir"
	"github.com/ruteri/did-crypto-service/cryptoutils"
)

// SplitPrivateKey splits an encoded private key into parts shares, any
// threshold of which recover it. Shares are base-64 encoded.
func SplitPrivateKey(privateKey string, parts, threshold int) ([]string, error) {
	if _, err := cryptoutils.ParseEncryptionPrivateKey(privateKey); err != nil {
		return nil, err
	}

	der, err := cryptoutils.Decode(privateKey)
	if err != nil {
		return nil, err
	}

	shares, err := shamir.Split(der, parts, threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to split private key: %w", err)
	}

	encoded := make([]string, len(shares))
	for i, share := range shares {
		encoded[i] = cryptoutils.Encode(share)
	}
	return encoded, nil
}

// CombineShares recovers an encoded private key from base-64 shares. Too
// few or mismatched shares yield cryptoutils.ErrInvalidKey.
func CombineShares(shares []string) (string, error) {
	raw := make([][]byte, len(shares))
	for i, share := range shares {
		decoded, err := cryptoutils.Decode(share)
		if err != nil {
			return "", fmt.Errorf("share %d: %w", i, err)
		}
		raw[i] = decoded
	}

	der, err := shamir.Combine(raw)
	if err != nil {
		return "", fmt.Errorf("failed to combine shares: %w", err)
	}

	privateKey := cryptoutils.Encode(der)
	if _, err := cryptoutils.ParseEncryptionPrivateKey(privateKey); err != nil {
		return "", err
	}
	return privateKey, nil
}
