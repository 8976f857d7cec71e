// Package tool implements `agsctl tool`, plumbing commands for inspecting
// and removing sandbox tools directly.
package tool

import (
	"github.com/spf13/cobra"

	"github.com/lirong-lirong/ags-tool/internal/cmdutil"
)

// NewCmdTool creates the tool command group.
func NewCmdTool(f *cmdutil.Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tool <command>",
		Short: "Inspect and manage sandbox tools",
	}

	cmd.AddCommand(NewCmdList(f))
	cmd.AddCommand(NewCmdDelete(f))

	return cmd
}
