// Package config resolves agsctl configuration from the environment.
// Credentials are never persisted; they are read per run from the same
// variables the rest of the tencentcloud tooling uses.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/lirong-lirong/ags-tool/internal/ags"
)

// Defaults for non-credential settings.
const (
	DefaultTCRRegistry       = "ccr.ccs.tencentyun.com"
	DefaultImageRegistryType = "personal"
)

// Config is the resolved run configuration.
type Config struct {
	SecretID      string `mapstructure:"secret_id"`
	SecretKey     string `mapstructure:"secret_key"`
	Region        string `mapstructure:"region"`
	Endpoint      string `mapstructure:"endpoint"`
	SkipSSLVerify bool   `mapstructure:"skip_ssl_verify"`
	RoleArn       string `mapstructure:"role_arn"`

	TCRRegistry       string `mapstructure:"tcr_registry"`
	ImageRegistryType string `mapstructure:"image_registry_type"`
	TCRUsername       string `mapstructure:"tcr_username"`
	TCRPassword       string `mapstructure:"tcr_password"`

	// Domain is the sandbox endpoint domain; derived from the region when
	// not set explicitly.
	Domain string `mapstructure:"domain"`
}

// CredentialsError reports missing required credentials. It aborts a run
// before any remote call is made.
type CredentialsError struct {
	Missing []string
}

func (e *CredentialsError) Error() string {
	return fmt.Sprintf("missing required credentials: %v (set the environment variables before running)", e.Missing)
}

// Load resolves configuration from environment variables with defaults.
// Credential presence is not checked here; commands that talk to the
// control plane call ValidateCredentials first.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("region", ags.DefaultRegion)
	v.SetDefault("endpoint", ags.DefaultEndpoint)
	v.SetDefault("tcr_registry", DefaultTCRRegistry)
	v.SetDefault("image_registry_type", DefaultImageRegistryType)

	// Bespoke variable names, shared with the wider tencentcloud tooling.
	bindings := map[string]string{
		"secret_id":           "TENCENTCLOUD_SECRET_ID",
		"secret_key":          "TENCENTCLOUD_SECRET_KEY",
		"role_arn":            "TENCENTCLOUD_ROLE_ARN",
		"region":              "AGS_REGION",
		"endpoint":            "AGS_ENDPOINT",
		"skip_ssl_verify":     "AGS_SKIP_SSL_VERIFY",
		"domain":              "AGS_DOMAIN",
		"tcr_registry":        "TCR_REGISTRY",
		"image_registry_type": "SANDBOX_IMAGE_REGISTRY_TYPE",
		"tcr_username":        "TCR_USERNAME",
		"tcr_password":        "TCR_PASSWORD",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}

	if cfg.Domain == "" {
		cfg.Domain = cfg.Region + ".tencentags.com"
	}
	return &cfg, nil
}

// ValidateCredentials checks that the secret pair needed for control-plane
// calls is present.
func (c *Config) ValidateCredentials() error {
	var missing []string
	if c.SecretID == "" {
		missing = append(missing, "TENCENTCLOUD_SECRET_ID")
	}
	if c.SecretKey == "" {
		missing = append(missing, "TENCENTCLOUD_SECRET_KEY")
	}
	if len(missing) > 0 {
		return &CredentialsError{Missing: missing}
	}
	return nil
}

// Credentials returns the secret pair for the AGS client.
func (c *Config) Credentials() ags.Credentials {
	return ags.Credentials{SecretID: c.SecretID, SecretKey: c.SecretKey}
}
