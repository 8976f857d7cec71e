// Package factory wires the real dependencies into the cmdutil.Factory.
package factory

import (
	"context"
	"sync"

	"github.com/lirong-lirong/ags-tool/internal/ags"
	"github.com/lirong-lirong/ags-tool/internal/cmdutil"
	"github.com/lirong-lirong/ags-tool/internal/config"
	"github.com/lirong-lirong/ags-tool/internal/registry"
)

// New builds the production Factory. Config and the AGS client are lazily
// constructed and cached for the run.
func New(version, commit string) *cmdutil.Factory {
	f := &cmdutil.Factory{
		Version: version,
		Commit:  commit,
	}

	var (
		cfgOnce sync.Once
		cfg     *config.Config
		cfgErr  error
	)
	f.Config = func() (*config.Config, error) {
		cfgOnce.Do(func() {
			cfg, cfgErr = config.Load()
			if cfgErr != nil {
				return
			}
			// Flags override the environment.
			if f.RegionOverride != "" {
				cfg.Region = f.RegionOverride
				cfg.Domain = cfg.Region + ".tencentags.com"
			}
			if f.RegistryOverride != "" {
				cfg.TCRRegistry = f.RegistryOverride
			}
		})
		return cfg, cfgErr
	}

	var (
		clientOnce sync.Once
		client     *ags.Client
		clientErr  error
	)
	f.AGSClient = func() (*ags.Client, error) {
		clientOnce.Do(func() {
			c, err := f.Config()
			if err != nil {
				clientErr = err
				return
			}
			if err := c.ValidateCredentials(); err != nil {
				clientErr = err
				return
			}
			opts := []ags.Option{ags.WithEndpoint(c.Endpoint)}
			if c.SkipSSLVerify {
				opts = append(opts, ags.WithInsecureSkipVerify())
			}
			client = ags.NewClient(c.Credentials(), c.Region, opts...)
		})
		return client, clientErr
	}

	f.RegistryClient = func(ctx context.Context) (*registry.Client, error) {
		return registry.NewClient(ctx)
	}

	return f
}
