package config

import (
	"context"
	"fmt"
	"os"

	vault "github.com/hashicorp/vault/api"

	"github.com/qolzam/hcaptcha/internal/pkg/log"
	"github.com/qolzam/hcaptcha/verify"
)

// Source describes a backend that can provide secret values.
type Source interface {
	Get(ctx context.Context, key string) (string, error)
	Name() string
}

// EnvSource loads values from environment variables (.env in dev).
type EnvSource struct{}

func NewEnvSource() *EnvSource {
	return &EnvSource{}
}

func (e *EnvSource) Name() string {
	return ProviderEnv
}

func (e *EnvSource) Get(_ context.Context, key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("env %s not set", key)
	}
	return val, nil
}

// VaultSource fetches values from a HashiCorp Vault KV v2 mount.
// Each key is a secret path whose "value" field holds the data.
type VaultSource struct {
	client    *vault.Client
	mountPath string
}

// NewVaultSource builds a client from the provider settings.
func NewVaultSource(cfg ProviderConfig) (*VaultSource, error) {
	if cfg.VaultAddr == "" || cfg.VaultToken == "" {
		return nil, fmt.Errorf("vault config requires VAULT_ADDR and VAULT_TOKEN")
	}
	mount := cfg.VaultMount
	if mount == "" {
		mount = "secret"
	}

	client, err := vault.NewClient(&vault.Config{Address: cfg.VaultAddr})
	if err != nil {
		return nil, fmt.Errorf("vault client init error: %w", err)
	}
	client.SetToken(cfg.VaultToken)

	return &VaultSource{
		client:    client,
		mountPath: mount,
	}, nil
}

func (v *VaultSource) Name() string {
	return ProviderVault
}

// Get reads "<mount>/data/<key>" and returns its "value" field.
func (v *VaultSource) Get(ctx context.Context, key string) (string, error) {
	secret, err := v.client.KVv2(v.mountPath).Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("vault read error: %w", err)
	}
	if val, ok := secret.Data["value"].(string); ok && val != "" {
		return val, nil
	}
	return "", fmt.Errorf("no 'value' field found in vault secret: %s", key)
}

// NewSource returns the Source named by cfg.Name.
func NewSource(cfg ProviderConfig) (Source, error) {
	switch cfg.Name {
	case "", ProviderEnv:
		return NewEnvSource(), nil
	case ProviderVault:
		return NewVaultSource(cfg)
	default:
		return nil, fmt.Errorf("unknown config provider: %s", cfg.Name)
	}
}

// ResolveSecret returns the verification secret.
// HCAPTCHA_SECRET wins; otherwise the configured provider is asked for Provider.VaultKey.
func (c *Config) ResolveSecret(ctx context.Context) (verify.Secret, error) {
	if c.Captcha.Secret != "" {
		return verify.ParseSecret(c.Captcha.Secret)
	}

	source, err := NewSource(c.Provider)
	if err != nil {
		return verify.Secret{}, err
	}
	return resolveFrom(ctx, source, c.Provider.VaultKey)
}

func resolveFrom(ctx context.Context, source Source, key string) (verify.Secret, error) {
	raw, err := source.Get(ctx, key)
	if err != nil {
		return verify.Secret{}, fmt.Errorf("failed to load secret from %s: %w", source.Name(), err)
	}
	log.DebugWithContext(ctx, "loaded hcaptcha secret from %s", source.Name())
	return verify.ParseSecret(raw)
}
