package api

// KeyPairResponse carries a freshly generated key pair. Both keys are
// base-64 strings.
type KeyPairResponse struct {
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
}

type EncryptRequest struct {
	Plaintext string `json:"plaintext"`
	PublicKey string `json:"public_key"`
}

type EncryptResponse struct {
	Ciphertext string `json:"ciphertext"`
}

type DecryptRequest struct {
	Ciphertext string `json:"ciphertext"`
	PrivateKey string `json:"private_key"`
}

type DecryptResponse struct {
	Plaintext string `json:"plaintext"`
}

type SignRequest struct {
	Message    string `json:"message"`
	PrivateKey string `json:"private_key"`
}

type SignResponse struct {
	Signature string `json:"signature"`
}

type VerifyRequest struct {
	Message   string `json:"message"`
	Signature string `json:"signature"`
	PublicKey string `json:"public_key"`
}

type VerifyResponse struct {
	Valid bool `json:"valid"`
}

// SealRequest asks the server to seal a message for a recipient and publish
// the envelope to its storage. The signer public key is derived from the
// private key; SignerPublicKey, when set, must match it.
type SealRequest struct {
	Message            string `json:"message"`
	RecipientPublicKey string `json:"recipient_public_key"`
	SignerPublicKey    string `json:"signer_public_key,omitempty"`
	SignerPrivateKey   string `json:"signer_private_key"`
}

// ReceiptResponse identifies a published envelope. RegistryHash is the
// 0x-prefixed Keccak-256 of ContentID, ready to be recorded on chain.
type ReceiptResponse struct {
	ContentID    string `json:"content_id"`
	RegistryHash string `json:"registry_hash"`
}
