package cmdutil

import (
	"context"

	"github.com/lirong-lirong/ags-tool/internal/ags"
	"github.com/lirong-lirong/ags-tool/internal/config"
	"github.com/lirong-lirong/ags-tool/internal/registry"
)

// Factory provides shared dependencies for CLI commands. It is a dependency
// injection container: commands pull what they need from it, and tests swap
// the closures for fakes. The AGS client is constructed once per run and
// shared; there is no package-level singleton.
type Factory struct {
	// Configuration from global flags (set before command execution).
	Debug            bool
	RegionOverride   string
	RegistryOverride string

	// Version info (set at build time via ldflags).
	Version string
	Commit  string

	// Dependency providers (closures wired by internal/cmd/factory).
	Config         func() (*config.Config, error)
	AGSClient      func() (*ags.Client, error)
	RegistryClient func(context.Context) (*registry.Client, error)
}
