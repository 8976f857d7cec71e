// Package root assembles the agsctl command tree.
package root

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	instancecmd "github.com/lirong-lirong/ags-tool/internal/cmd/instance"
	pushcmd "github.com/lirong-lirong/ags-tool/internal/cmd/push"
	synccmd "github.com/lirong-lirong/ags-tool/internal/cmd/sync"
	toolcmd "github.com/lirong-lirong/ags-tool/internal/cmd/tool"
	"github.com/lirong-lirong/ags-tool/internal/cmdutil"
	"github.com/lirong-lirong/ags-tool/internal/logger"
)

// NewCmdRoot creates the root command for the agsctl CLI.
func NewCmdRoot(f *cmdutil.Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agsctl",
		Short: "Manage AGS sandbox tools for dataset images",
		Long: `Agsctl keeps Tencent AGS sandbox tools in step with a set of container
images: push mirrors the images into TCR, sync creates the missing tools
and records the image -> tool mapping, and the tool and instance commands
cover the rest of the lifecycle.

Credentials come from TENCENTCLOUD_SECRET_ID / TENCENTCLOUD_SECRET_KEY.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       f.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initializeLogger(f.Debug)

			logger.Debug().
				Str("version", f.Version).
				Bool("debug", f.Debug).
				Msg("agsctl starting")
		},
	}

	cmd.PersistentFlags().BoolVarP(&f.Debug, "debug", "D", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&f.RegionOverride, "region", "", "AGS region (overrides AGS_REGION)")
	cmd.PersistentFlags().StringVar(&f.RegistryOverride, "registry", "", "TCR registry (overrides TCR_REGISTRY)")

	cmd.SetVersionTemplate(versionFormat(f.Version, f.Commit))

	cmd.AddCommand(synccmd.NewCmdSync(f))
	cmd.AddCommand(pushcmd.NewCmdPush(f))
	cmd.AddCommand(toolcmd.NewCmdTool(f))
	cmd.AddCommand(instancecmd.NewCmdInstance(f))

	return cmd
}

// initializeLogger sets up console plus rotating-file logging. Falls back
// to console-only logging when no cache directory is available.
func initializeLogger(debug bool) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		logger.Init(debug)
		logger.Warn().Err(err).Msg("file logging unavailable: no cache directory")
		return
	}

	logsDir := filepath.Join(cacheDir, "agsctl", "logs")
	if err := logger.InitWithFile(debug, logsDir); err != nil {
		logger.Init(debug)
		logger.Warn().Err(err).Msg("file logging unavailable")
	}
}

// versionFormat returns the version string for display.
func versionFormat(version, commit string) string {
	version = strings.TrimPrefix(version, "v")

	var commitStr string
	if commit != "" {
		commitStr = fmt.Sprintf(" (%s)", commit)
	}

	return fmt.Sprintf("agsctl version %s%s\n", version, commitStr)
}
