package tool

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lirong-lirong/ags-tool/internal/ags"
	"github.com/lirong-lirong/ags-tool/internal/cmdutil"
)

// NewCmdDelete creates the tool delete command.
func NewCmdDelete(f *cmdutil.Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <tool-id>...",
		Short: "Delete sandbox tools by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(f, args)
		},
	}

	return cmd
}

func runDelete(f *cmdutil.Factory, toolIDs []string) error {
	ctx := context.Background()

	client, err := f.AGSClient()
	if err != nil {
		return err
	}

	var failed int
	for _, id := range toolIDs {
		_, err := client.DeleteSandboxTool(ctx, &ags.DeleteSandboxToolRequest{ToolId: id})
		if err != nil {
			fmt.Printf("failed to delete %s: %v\n", id, err)
			failed++
			continue
		}
		fmt.Printf("Deleted tool %s\n", id)
	}
	if failed > 0 {
		return cmdutil.SilentError
	}
	return nil
}
