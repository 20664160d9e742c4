package cryptohandler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ruteri/did-crypto-service/api"
	"github.com/ruteri/did-crypto-service/cryptoutils"
	"github.com/ruteri/did-crypto-service/envelope"
	"github.com/ruteri/did-crypto-service/interfaces"
)

// ErrBadRequest is returned when the server rejects a request as malformed.
// The server's message is appended.
var ErrBadRequest = errors.New("request rejected")

// Client calls a remote sidecar. Errors carry the same sentinels as the
// local API where the status code allows it.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the sidecar at baseURL
// (e.g. "http://127.0.0.1:8080"). httpClient may be nil.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) GenerateEncryptionKeyPair(ctx context.Context) (cryptoutils.EncryptionKeyPair, error) {
	var resp api.KeyPairResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/keys/encryption", nil, &resp, keyGenerationErrors); err != nil {
		return cryptoutils.EncryptionKeyPair{}, err
	}
	return cryptoutils.EncryptionKeyPair{
		PublicKey:  cryptoutils.EncryptionPublicKey(resp.PublicKey),
		PrivateKey: cryptoutils.EncryptionPrivateKey(resp.PrivateKey),
	}, nil
}

func (c *Client) GenerateSigningKeyPair(ctx context.Context) (cryptoutils.SigningKeyPair, error) {
	var resp api.KeyPairResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/keys/signing", nil, &resp, keyGenerationErrors); err != nil {
		return cryptoutils.SigningKeyPair{}, err
	}
	return cryptoutils.SigningKeyPair{
		PublicKey:  cryptoutils.SigningPublicKey(resp.PublicKey),
		PrivateKey: cryptoutils.SigningPrivateKey(resp.PrivateKey),
	}, nil
}

func (c *Client) Encrypt(ctx context.Context, plaintext string, recipient cryptoutils.EncryptionPublicKey) (cryptoutils.Ciphertext, error) {
	var resp api.EncryptResponse
	req := api.EncryptRequest{Plaintext: plaintext, PublicKey: string(recipient)}
	if err := c.do(ctx, http.MethodPost, "/api/v1/encrypt", req, &resp, nil); err != nil {
		return "", err
	}
	return cryptoutils.Ciphertext(resp.Ciphertext), nil
}

// Decrypt returns cryptoutils.ErrDecryptionFailure when the server cannot
// process the ciphertext.
func (c *Client) Decrypt(ctx context.Context, ciphertext cryptoutils.Ciphertext, holder cryptoutils.EncryptionPrivateKey) (string, error) {
	var resp api.DecryptResponse
	req := api.DecryptRequest{Ciphertext: string(ciphertext), PrivateKey: string(holder)}
	if err := c.do(ctx, http.MethodPost, "/api/v1/decrypt", req, &resp, decryptErrors); err != nil {
		return "", err
	}
	return resp.Plaintext, nil
}

func (c *Client) Sign(ctx context.Context, message string, signer cryptoutils.SigningPrivateKey) (cryptoutils.Signature, error) {
	var resp api.SignResponse
	req := api.SignRequest{Message: message, PrivateKey: string(signer)}
	if err := c.do(ctx, http.MethodPost, "/api/v1/sign", req, &resp, nil); err != nil {
		return "", err
	}
	return cryptoutils.Signature(resp.Signature), nil
}

// Verify returns cryptoutils.ErrMalformedSignature when the server cannot
// decode the signature.
func (c *Client) Verify(ctx context.Context, message string, signature cryptoutils.Signature, signer cryptoutils.SigningPublicKey) (bool, error) {
	var resp api.VerifyResponse
	req := api.VerifyRequest{Message: message, Signature: string(signature), PublicKey: string(signer)}
	if err := c.do(ctx, http.MethodPost, "/api/v1/verify", req, &resp, verifyErrors); err != nil {
		return false, err
	}
	return resp.Valid, nil
}

// SealEnvelope has the server seal message for recipient and publish it.
func (c *Client) SealEnvelope(ctx context.Context, message string, recipient cryptoutils.EncryptionPublicKey, signer cryptoutils.SigningKeyPair) (*api.ReceiptResponse, error) {
	var resp api.ReceiptResponse
	req := api.SealRequest{
		Message:            message,
		RecipientPublicKey: string(recipient),
		SignerPublicKey:    string(signer.PublicKey),
		SignerPrivateKey:   string(signer.PrivateKey),
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/envelopes", req, &resp, nil); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetEnvelope returns interfaces.ErrContentNotFound for unknown IDs.
func (c *Client) GetEnvelope(ctx context.Context, id interfaces.ContentID) (*envelope.Sealed, error) {
	var sealed envelope.Sealed
	if err := c.do(ctx, http.MethodGet, "/api/v1/envelopes/"+id.String(), nil, &sealed, nil); err != nil {
		return nil, err
	}
	return &sealed, nil
}

// Route-specific status codes that map back to a cryptoutils sentinel.
var (
	keyGenerationErrors = map[int]error{http.StatusInternalServerError: cryptoutils.ErrKeyGenerationFailure}
	decryptErrors       = map[int]error{http.StatusUnprocessableEntity: cryptoutils.ErrDecryptionFailure}
	verifyErrors        = map[int]error{http.StatusUnprocessableEntity: cryptoutils.ErrMalformedSignature}
)

// do sends reqBody as JSON and decodes a 200 response into respBody.
func (c *Client) do(ctx context.Context, method, path string, reqBody, respBody any, sentinels map[int]error) error {
	var body io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("could not encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("could not initialize request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("could not request %s: %w", path, err)
	}

	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("could not read %s response: %w", path, err)
	}

	if err, ok := sentinels[resp.StatusCode]; ok {
		return err
	}

	message := strings.TrimSpace(string(data))
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", interfaces.ErrContentNotFound, path)
	default:
		return fmt.Errorf("unexpected status %d from %s: %s", resp.StatusCode, path, message)
	}

	if err := json.Unmarshal(data, respBody); err != nil {
		return fmt.Errorf("could not parse %s response: %w", path, err)
	}
	return nil
}
