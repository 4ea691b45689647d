package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/qolzam/hcaptcha/internal/pkg/log"
	"github.com/qolzam/hcaptcha/verify"
)

// Providers accepted in CONFIG_PROVIDER.
const (
	ProviderEnv   = "env"
	ProviderVault = "vault"
)

// Config holds everything the demo server and CLI need.
type Config struct {
	Server   ServerConfig   `json:"server"`
	Captcha  CaptchaConfig  `json:"captcha"`
	Provider ProviderConfig `json:"provider"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Host  string `json:"host"`
	Port  int    `json:"port"`
	Debug bool   `json:"debug"`
}

// CaptchaConfig holds verification settings.
type CaptchaConfig struct {
	Secret       string        `json:"-"`
	SiteKey      string        `json:"siteKey"`
	VerifyURL    string        `json:"verifyUrl"`
	Timeout      time.Duration `json:"timeout"`
	Disabled     bool          `json:"disabled"`
	SkipRemoteIP bool          `json:"skipRemoteIp"`
}

// ProviderConfig selects where the secret comes from when HCAPTCHA_SECRET is unset.
type ProviderConfig struct {
	Name       string `json:"name"`
	VaultAddr  string `json:"vaultAddr"`
	VaultToken string `json:"-"`
	VaultMount string `json:"vaultMount"`
	VaultKey   string `json:"vaultKey"`
}

// LoadFromEnv loads configuration from the environment.
// Explicit environment variables win over values from a .env file, which win over defaults.
func LoadFromEnv() (*Config, error) {
	envPaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	var loadErr error
	for _, envPath := range envPaths {
		loadErr = godotenv.Load(envPath)
		if loadErr == nil {
			break
		}
	}
	if loadErr != nil {
		log.Info(".env file not found, using environment variables and defaults")
	}

	return load(func(key string) (string, bool) {
		value := os.Getenv(key)
		return value, value != ""
	})
}

// LoadFromMap loads configuration from an in-memory map.
// Tests use it to avoid touching process environment.
func LoadFromMap(envMap map[string]string) (*Config, error) {
	return load(func(key string) (string, bool) {
		value, ok := envMap[key]
		return value, ok
	})
}

func load(lookup func(string) (string, bool)) (*Config, error) {
	env := envReader{lookup: lookup}

	config := &Config{
		Server: ServerConfig{
			Host:  env.getString("HOST", "localhost"),
			Port:  env.getInt("SERVER_PORT", 8080),
			Debug: env.getBool("DEBUG", false),
		},
		Captcha: CaptchaConfig{
			Secret:       env.getString("HCAPTCHA_SECRET", ""),
			SiteKey:      env.getString("HCAPTCHA_SITE_KEY", ""),
			VerifyURL:    env.getString("HCAPTCHA_VERIFY_URL", verify.DefaultVerifyURL),
			Timeout:      env.getDuration("HCAPTCHA_TIMEOUT", 5*time.Second),
			Disabled:     env.getBool("HCAPTCHA_DISABLED", false),
			SkipRemoteIP: env.getBool("HCAPTCHA_SKIP_REMOTE_IP", false),
		},
		Provider: ProviderConfig{
			Name:       strings.ToLower(strings.TrimSpace(env.getString("CONFIG_PROVIDER", ProviderEnv))),
			VaultAddr:  env.getString("VAULT_ADDR", ""),
			VaultToken: env.getString("VAULT_TOKEN", ""),
			VaultMount: env.getString("VAULT_PATH", "secret"),
			VaultKey:   env.getString("VAULT_SECRET_KEY", "HCAPTCHA_SECRET"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration for required fields
func (c *Config) Validate() error {
	var errors []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errors = append(errors, "SERVER_PORT must be between 1 and 65535")
	}
	if c.Captcha.Timeout <= 0 {
		errors = append(errors, "HCAPTCHA_TIMEOUT must be positive")
	}
	if strings.TrimSpace(c.Captcha.VerifyURL) == "" {
		errors = append(errors, "HCAPTCHA_VERIFY_URL is required")
	}

	switch c.Provider.Name {
	case ProviderEnv:
		if !c.Captcha.Disabled && strings.TrimSpace(c.Captcha.Secret) == "" {
			errors = append(errors, "HCAPTCHA_SECRET is required")
		}
	case ProviderVault:
		if c.Provider.VaultAddr == "" || c.Provider.VaultToken == "" {
			errors = append(errors, "CONFIG_PROVIDER=vault requires VAULT_ADDR and VAULT_TOKEN")
		}
	default:
		errors = append(errors, fmt.Sprintf("CONFIG_PROVIDER must be one of: %s, %s", ProviderEnv, ProviderVault))
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

type envReader struct {
	lookup func(string) (string, bool)
}

func (e envReader) getString(key, defaultValue string) string {
	if value, ok := e.lookup(key); ok {
		return value
	}
	return defaultValue
}

func (e envReader) getInt(key string, defaultValue int) int {
	if value, ok := e.lookup(key); ok {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func (e envReader) getBool(key string, defaultValue bool) bool {
	if value, ok := e.lookup(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getDuration accepts Go durations ("3s") or whole seconds ("3").
func (e envReader) getDuration(key string, defaultValue time.Duration) time.Duration {
	value, ok := e.lookup(key)
	if !ok {
		return defaultValue
	}
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}
