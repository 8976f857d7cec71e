// Package instance implements `agsctl instance`, commands for the sandbox
// instance lifecycle: start one from a tool, stop it, mint access tokens.
package instance

import (
	"github.com/spf13/cobra"

	"github.com/lirong-lirong/ags-tool/internal/cmdutil"
)

// envdPort is the sandbox daemon port baked into every tool; the instance
// endpoint URL is addressed through it.
const envdPort = 49983

// NewCmdInstance creates the instance command group.
func NewCmdInstance(f *cmdutil.Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instance <command>",
		Short: "Manage sandbox instances",
	}

	cmd.AddCommand(NewCmdStart(f))
	cmd.AddCommand(NewCmdStop(f))
	cmd.AddCommand(NewCmdToken(f))
	cmd.AddCommand(NewCmdList(f))

	return cmd
}
