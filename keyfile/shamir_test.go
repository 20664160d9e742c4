package keyfile

import (
	"testing"

	"github.com/ruteri/did-crypto-service/cryptoutils"
	"github.com/stretchr/testify/require"
)

func TestSplitCombinePrivateKey(t *testing.T) {
	kp, err := cryptoutils.GenerateEncryptionKeyPair()
	require.NoError(t, err)

	shares, err := SplitPrivateKey(string(kp.PrivateKey), 5, 3)
	require.NoError(t, err)
	require.Len(t, shares, 5)

	recovered, err := CombineShares([]string{shares[4], shares[0], shares[2]})
	require.NoError(t, err)
	require.Equal(t, string(kp.PrivateKey), recovered)

	// The recovered key still decrypts
	ciphertext, err := cryptoutils.Encrypt("share and share alike", kp.PublicKey)
	require.NoError(t, err)
	message, err := cryptoutils.Decrypt(ciphertext, cryptoutils.EncryptionPrivateKey(recovered))
	require.NoError(t, err)
	require.Equal(t, "share and share alike", message)
}

func TestCombineTooFewShares(t *testing.T) {
	kp, err := cryptoutils.GenerateSigningKeyPair()
	require.NoError(t, err)

	shares, err := SplitPrivateKey(string(kp.PrivateKey), 5, 3)
	require.NoError(t, err)

	_, err = CombineShares(shares[:2])
	require.ErrorIs(t, err, cryptoutils.ErrInvalidKey)
}

func TestSplitPrivateKeyErrors(t *testing.T) {
	kp, err := cryptoutils.GenerateSigningKeyPair()
	require.NoError(t, err)

	_, err = SplitPrivateKey("not base64!", 5, 3)
	require.ErrorIs(t, err, cryptoutils.ErrMalformedEncoding)

	_, err = SplitPrivateKey(string(kp.PublicKey), 5, 3)
	require.ErrorIs(t, err, cryptoutils.ErrInvalidKey)

	_, err = SplitPrivateKey(string(kp.PrivateKey), 2, 3)
	require.Error(t, err)

	_, err = CombineShares([]string{"@@@"})
	require.ErrorIs(t, err, cryptoutils.ErrMalformedEncoding)
}
