package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/hashicorp/vault/api"
	"github.com/ruteri/did-crypto-service/interfaces"
)

// contentField is the KV entry field the document text is kept in.
const contentField = "content"

// VaultBackend stores documents as KV v2 secrets at
// <mount>/<dataPath>/<type>/<id>, authenticating with a token. Envelopes are
// already ciphertext; Vault is used where operators want access policies and
// audit logs on who reads them.
type VaultBackend struct {
	kv       *api.KVv2
	sys      *api.Sys
	mount    string
	dataPath string
	location string
	log      *slog.Logger
}

// NewVaultBackend connects to address; an empty token leaves the client to
// pick up VAULT_TOKEN.
func NewVaultBackend(address, mountPath, dataPath, token string, log *slog.Logger) (*VaultBackend, error) {
	cfg := api.DefaultConfig()
	cfg.Address = address
	cfg.Timeout = 30 * time.Second

	client, err := api.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating Vault client: %w", err)
	}
	if token != "" {
		client.SetToken(token)
	}

	mountPath = strings.Trim(mountPath, "/")
	dataPath = strings.Trim(dataPath, "/")

	host := address
	if u, err := url.Parse(address); err == nil && u.Host != "" {
		host = u.Host
	}

	return &VaultBackend{
		kv:       client.KVv2(mountPath),
		sys:      client.Sys(),
		mount:    mountPath,
		dataPath: dataPath,
		location: "vault://" + path.Join(host, mountPath, dataPath),
		log:      log,
	}, nil
}

func (b *VaultBackend) Fetch(ctx context.Context, id interfaces.ContentID, contentType interfaces.ContentType) ([]byte, error) {
	secret, err := b.kv.Get(ctx, b.secretPath(id, contentType))
	if errors.Is(err, api.ErrSecretNotFound) {
		return nil, interfaces.ErrContentNotFound
	}
	if err != nil {
		b.log.Error("Vault read failed", slog.String("content_id", id.String()), "err", err)
		return nil, fmt.Errorf("%w: %v", interfaces.ErrBackendUnavailable, err)
	}

	content, ok := secret.Data[contentField].(string)
	if !ok {
		return nil, fmt.Errorf("vault secret for %s has no %q field", id, contentField)
	}
	return []byte(content), nil
}

func (b *VaultBackend) Store(ctx context.Context, data []byte, contentType interfaces.ContentType) (interfaces.ContentID, error) {
	id := interfaces.ComputeID(data)
	_, err := b.kv.Put(ctx, b.secretPath(id, contentType), map[string]interface{}{
		contentField: string(data),
	})
	if err != nil {
		b.log.Error("Vault write failed", slog.String("content_id", id.String()), "err", err)
		return id, fmt.Errorf("%w: %v", interfaces.ErrBackendUnavailable, err)
	}

	b.log.Debug("stored document in Vault", slog.String("content_id", id.String()), slog.String("type", contentType.String()))
	return id, nil
}

// Available requires Vault to be initialized and unsealed.
func (b *VaultBackend) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	health, err := b.sys.HealthWithContext(ctx)
	if err != nil {
		b.log.Debug("Vault health check failed", "err", err)
		return false
	}
	return health.Initialized && !health.Sealed
}

func (b *VaultBackend) Name() string {
	return fmt.Sprintf("vault-%s-%s", b.mount, b.dataPath)
}

func (b *VaultBackend) LocationURI() string {
	return b.location
}

// secretPath is relative to the mount; KVv2 inserts the data/ segment.
func (b *VaultBackend) secretPath(id interfaces.ContentID, contentType interfaces.ContentType) string {
	return path.Join(b.dataPath, contentType.String(), id.String())
}
