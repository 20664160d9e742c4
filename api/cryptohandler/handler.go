package cryptohandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ruteri/did-crypto-service/api"
	"github.com/ruteri/did-crypto-service/credential"
	"github.com/ruteri/did-crypto-service/cryptoutils"
	"github.com/ruteri/did-crypto-service/envelope"
	"github.com/ruteri/did-crypto-service/interfaces"
)

// cannotProcess is the only detail given for failures that must not reveal
// why a ciphertext or signature was rejected.
const cannotProcess = "cannot process"

// Handler serves the cryptoutils operations over HTTP.
type Handler struct {
	provider  *cryptoutils.Provider
	publisher *credential.Publisher
	log       *slog.Logger
}

// NewHandler creates a handler. publisher may be nil, in which case the
// envelope routes are not registered.
func NewHandler(provider *cryptoutils.Provider, publisher *credential.Publisher, log *slog.Logger) *Handler {
	if provider == nil {
		provider = cryptoutils.DefaultProvider
	}
	return &Handler{
		provider:  provider,
		publisher: publisher,
		log:       log,
	}
}

// RegisterRoutes registers the following routes:
//   - POST /api/v1/keys/encryption
//   - POST /api/v1/keys/signing
//   - POST /api/v1/encrypt
//   - POST /api/v1/decrypt
//   - POST /api/v1/sign
//   - POST /api/v1/verify
//   - POST /api/v1/envelopes (with storage)
//   - GET /api/v1/envelopes/{content_id} (with storage)
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/v1/keys/encryption", h.HandleGenerateEncryptionKeyPair)
	r.Post("/api/v1/keys/signing", h.HandleGenerateSigningKeyPair)
	r.Post("/api/v1/encrypt", h.HandleEncrypt)
	r.Post("/api/v1/decrypt", h.HandleDecrypt)
	r.Post("/api/v1/sign", h.HandleSign)
	r.Post("/api/v1/verify", h.HandleVerify)

	if h.publisher != nil {
		r.Post("/api/v1/envelopes", h.HandleSealEnvelope)
		r.Get("/api/v1/envelopes/{content_id}", h.HandleGetEnvelope)
	}
}

func (h *Handler) HandleGenerateEncryptionKeyPair(w http.ResponseWriter, r *http.Request) {
	kp, err := h.provider.GenerateEncryptionKeyPair()
	if err != nil {
		h.writeError(w, "Failed to generate encryption key pair", err)
		return
	}

	h.writeJSON(w, api.KeyPairResponse{
		PublicKey:  string(kp.PublicKey),
		PrivateKey: string(kp.PrivateKey),
	})
}

func (h *Handler) HandleGenerateSigningKeyPair(w http.ResponseWriter, r *http.Request) {
	kp, err := h.provider.GenerateSigningKeyPair()
	if err != nil {
		h.writeError(w, "Failed to generate signing key pair", err)
		return
	}

	h.writeJSON(w, api.KeyPairResponse{
		PublicKey:  string(kp.PublicKey),
		PrivateKey: string(kp.PrivateKey),
	})
}

func (h *Handler) HandleEncrypt(w http.ResponseWriter, r *http.Request) {
	var req api.EncryptRequest
	if !h.readJSON(w, r, &req) {
		return
	}

	ciphertext, err := h.provider.Encrypt(req.Plaintext, cryptoutils.EncryptionPublicKey(req.PublicKey))
	if err != nil {
		h.writeError(w, "Failed to encrypt", err)
		return
	}

	h.writeJSON(w, api.EncryptResponse{Ciphertext: string(ciphertext)})
}

func (h *Handler) HandleDecrypt(w http.ResponseWriter, r *http.Request) {
	var req api.DecryptRequest
	if !h.readJSON(w, r, &req) {
		return
	}

	plaintext, err := h.provider.Decrypt(cryptoutils.Ciphertext(req.Ciphertext), cryptoutils.EncryptionPrivateKey(req.PrivateKey))
	if err != nil {
		h.writeError(w, "Failed to decrypt", err)
		return
	}

	h.writeJSON(w, api.DecryptResponse{Plaintext: plaintext})
}

func (h *Handler) HandleSign(w http.ResponseWriter, r *http.Request) {
	var req api.SignRequest
	if !h.readJSON(w, r, &req) {
		return
	}

	signature, err := h.provider.Sign(req.Message, cryptoutils.SigningPrivateKey(req.PrivateKey))
	if err != nil {
		h.writeError(w, "Failed to sign", err)
		return
	}

	h.writeJSON(w, api.SignResponse{Signature: string(signature)})
}

func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var req api.VerifyRequest
	if !h.readJSON(w, r, &req) {
		return
	}

	valid, err := h.provider.Verify(req.Message, cryptoutils.Signature(req.Signature), cryptoutils.SigningPublicKey(req.PublicKey))
	if err != nil {
		h.writeError(w, "Failed to verify", err)
		return
	}

	h.writeJSON(w, api.VerifyResponse{Valid: valid})
}

// HandleSealEnvelope seals a message and publishes the envelope.
//
// Status codes:
//   - 200 OK: envelope stored, receipt returned
//   - 400 Bad Request: malformed keys, a signer public key that is not the
//     half of the signer private key, or plaintext too large
//   - 500 Internal Server Error: storage failure
func (h *Handler) HandleSealEnvelope(w http.ResponseWriter, r *http.Request) {
	var req api.SealRequest
	if !h.readJSON(w, r, &req) {
		return
	}

	signerPrivateKey, err := cryptoutils.ParseSigningPrivateKey(req.SignerPrivateKey)
	if err != nil {
		h.writeError(w, "Invalid signer private key", err)
		return
	}
	signerPublicKey, err := signerPrivateKey.PublicKey()
	if err != nil {
		h.writeError(w, "Invalid signer private key", err)
		return
	}
	if req.SignerPublicKey != "" {
		claimed, err := cryptoutils.ParseSigningPublicKey(req.SignerPublicKey)
		if err != nil {
			h.writeError(w, "Invalid signer public key", err)
			return
		}
		if paired, err := signerPrivateKey.MatchesPublicKey(claimed); err != nil || !paired {
			h.writeError(w, "Invalid signer public key", envelope.ErrSignerKeyPair)
			return
		}
	}

	sealed, err := envelope.Seal(h.provider, req.Message, cryptoutils.EncryptionPublicKey(req.RecipientPublicKey), cryptoutils.SigningKeyPair{
		PublicKey:  signerPublicKey,
		PrivateKey: signerPrivateKey,
	})
	if err != nil {
		h.writeError(w, "Failed to seal envelope", err)
		return
	}

	receipt, err := h.publisher.Publish(r.Context(), sealed)
	if err != nil {
		h.writeError(w, "Failed to publish envelope", err)
		return
	}

	h.log.Info("Published envelope", "contentID", receipt.ContentID.String(), "registryHash", receipt.RegistryHash.Hex())
	h.writeJSON(w, api.ReceiptResponse{
		ContentID:    receipt.ContentID.String(),
		RegistryHash: receipt.RegistryHash.Hex(),
	})
}

// HandleGetEnvelope returns a published envelope by content ID.
//
// Status codes:
//   - 200 OK: JSON-encoded envelope.Sealed
//   - 400 Bad Request: content ID is not 64 hex characters
//   - 404 Not Found: no backend holds the envelope
func (h *Handler) HandleGetEnvelope(w http.ResponseWriter, r *http.Request) {
	id, err := interfaces.NewContentIDFromHex(chi.URLParam(r, "content_id"))
	if err != nil {
		h.log.Debug("Invalid content ID", "err", err, "contentID", chi.URLParam(r, "content_id"))
		http.Error(w, "Invalid content ID format", http.StatusBadRequest)
		return
	}

	sealed, err := h.publisher.Fetch(r.Context(), id)
	if err != nil {
		h.writeError(w, "Failed to fetch envelope", err)
		return
	}

	h.writeJSON(w, sealed)
}

func (h *Handler) readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.log.Debug("Invalid request body", "err", err, "path", r.URL.Path)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("Failed to encode response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// writeError maps cryptoutils and storage sentinels to status codes.
// Decryption and signature failures are checked first: a malformed
// signature also wraps ErrMalformedEncoding.
func (h *Handler) writeError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, cryptoutils.ErrDecryptionFailure),
		errors.Is(err, cryptoutils.ErrMalformedSignature):
		h.log.Debug(msg, "err", err)
		http.Error(w, cannotProcess, http.StatusUnprocessableEntity)
	case errors.Is(err, cryptoutils.ErrMalformedEncoding),
		errors.Is(err, cryptoutils.ErrInvalidKey),
		errors.Is(err, cryptoutils.ErrPlaintextTooLarge):
		h.log.Debug(msg, "err", err)
		http.Error(w, msg+": "+err.Error(), http.StatusBadRequest)
	case errors.Is(err, interfaces.ErrContentNotFound):
		http.Error(w, "Content not found", http.StatusNotFound)
	default:
		h.log.Error(msg, "err", err)
		http.Error(w, msg, http.StatusInternalServerError)
	}
}
