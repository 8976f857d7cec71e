package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ap-guangzhou", cfg.Region)
	assert.Equal(t, "ags.tencentcloudapi.com", cfg.Endpoint)
	assert.Equal(t, DefaultTCRRegistry, cfg.TCRRegistry)
	assert.Equal(t, DefaultImageRegistryType, cfg.ImageRegistryType)
	assert.Equal(t, "ap-guangzhou.tencentags.com", cfg.Domain)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TENCENTCLOUD_SECRET_ID", "AKIDexample")
	t.Setenv("TENCENTCLOUD_SECRET_KEY", "secret")
	t.Setenv("AGS_REGION", "ap-shanghai")
	t.Setenv("TCR_REGISTRY", "registry.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "AKIDexample", cfg.SecretID)
	assert.Equal(t, "ap-shanghai", cfg.Region)
	assert.Equal(t, "registry.example.com", cfg.TCRRegistry)
	// Domain follows the region unless overridden.
	assert.Equal(t, "ap-shanghai.tencentags.com", cfg.Domain)
	assert.NoError(t, cfg.ValidateCredentials())
}

func TestLoadExplicitDomainWins(t *testing.T) {
	t.Setenv("AGS_REGION", "ap-shanghai")
	t.Setenv("AGS_DOMAIN", "sandbox.internal.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sandbox.internal.example.com", cfg.Domain)
}

func TestValidateCredentialsMissing(t *testing.T) {
	cfg := &Config{}
	err := cfg.ValidateCredentials()
	require.Error(t, err)

	var credErr *CredentialsError
	require.ErrorAs(t, err, &credErr)
	assert.Contains(t, credErr.Missing, "TENCENTCLOUD_SECRET_ID")
	assert.Contains(t, credErr.Missing, "TENCENTCLOUD_SECRET_KEY")
}

func TestValidateCredentialsPartial(t *testing.T) {
	cfg := &Config{SecretID: "AKIDexample"}
	err := cfg.ValidateCredentials()
	require.Error(t, err)

	var credErr *CredentialsError
	require.ErrorAs(t, err, &credErr)
	assert.Equal(t, []string{"TENCENTCLOUD_SECRET_KEY"}, credErr.Missing)
}
