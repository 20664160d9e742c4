package keyfile

import (
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/ruteri/did-crypto-service/cryptoutils"
	"github.com/stretchr/testify/require"
)

func TestWriteReadEncryptionKeyFile(t *testing.T) {
	kp, err := cryptoutils.GenerateEncryptionKeyPair()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "bob.json")
	require.NoError(t, Write(path, FromEncryptionKeyPair(kp)))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())

	f, err := Read(path)
	require.NoError(t, err)
	require.Equal(t, KindEncryption, f.Kind)
	require.False(t, f.IsSealed())

	loaded, err := f.EncryptionKeyPair()
	require.NoError(t, err)
	require.Equal(t, kp, loaded)

	_, err = f.SigningKeyPair()
	require.ErrorIs(t, err, ErrWrongKind)
}

func TestSealUnseal(t *testing.T) {
	kp, err := cryptoutils.GenerateSigningKeyPair()
	require.NoError(t, err)

	f := FromSigningKeyPair(kp)
	require.NoError(t, f.Seal(rand.Reader, []byte("correct horse")))
	require.True(t, f.IsSealed())
	require.Empty(t, f.PrivateKey)

	_, err = f.SigningKeyPair()
	require.ErrorIs(t, err, ErrSealed)

	path := filepath.Join(t.TempDir(), "alice.json")
	require.NoError(t, Write(path, f))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), string(kp.PrivateKey))

	loaded, err := Read(path)
	require.NoError(t, err)
	require.True(t, loaded.IsSealed())

	require.ErrorIs(t, loaded.Unseal([]byte("wrong horse")), ErrWrongPassphrase)
	require.True(t, loaded.IsSealed())

	require.NoError(t, loaded.Unseal([]byte("correct horse")))
	require.False(t, loaded.IsSealed())

	unsealed, err := loaded.SigningKeyPair()
	require.NoError(t, err)
	require.Equal(t, kp, unsealed)
}

func TestUnsealRejectsSwappedPublicKey(t *testing.T) {
	kp, err := cryptoutils.GenerateEncryptionKeyPair()
	require.NoError(t, err)
	other, err := cryptoutils.GenerateEncryptionKeyPair()
	require.NoError(t, err)

	f := FromEncryptionKeyPair(kp)
	require.NoError(t, f.Seal(rand.Reader, []byte("passphrase")))

	f.PublicKey = string(other.PublicKey)
	require.ErrorIs(t, f.Unseal([]byte("passphrase")), ErrWrongPassphrase)
}

func TestReadInvalidKeyFile(t *testing.T) {
	dir := t.TempDir()

	_, err := Read(filepath.Join(dir, "missing.json"))
	require.ErrorIs(t, err, os.ErrNotExist)

	notJSON := filepath.Join(dir, "garbage.json")
	require.NoError(t, os.WriteFile(notJSON, []byte("not json"), 0600))
	_, err = Read(notJSON)
	require.Error(t, err)

	unknownKind := filepath.Join(dir, "kind.json")
	require.NoError(t, os.WriteFile(unknownKind, []byte(`{"kind":"aes","public_key":""}`), 0600))
	_, err = Read(unknownKind)
	require.ErrorContains(t, err, "unknown kind")

	badKey := filepath.Join(dir, "key.json")
	require.NoError(t, os.WriteFile(badKey, []byte(`{"kind":"signing","public_key":"AAAA"}`), 0600))
	_, err = Read(badKey)
	require.ErrorIs(t, err, cryptoutils.ErrInvalidKey)
}

func TestReadRejectsMismatchedHalves(t *testing.T) {
	alice, err := cryptoutils.GenerateSigningKeyPair()
	require.NoError(t, err)
	carol, err := cryptoutils.GenerateSigningKeyPair()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "alice.json")
	require.NoError(t, Write(path, &File{
		Kind:       KindSigning,
		PublicKey:  string(carol.PublicKey),
		PrivateKey: string(alice.PrivateKey),
	}))

	_, err = Read(path)
	require.ErrorIs(t, err, ErrKeyPairMismatch)

	require.NoError(t, Write(path, &File{
		Kind:       KindSigning,
		PublicKey:  string(alice.PublicKey),
		PrivateKey: "AAAA",
	}))
	_, err = Read(path)
	require.ErrorIs(t, err, cryptoutils.ErrInvalidKey)
}
