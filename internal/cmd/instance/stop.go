package instance

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lirong-lirong/ags-tool/internal/ags"
	"github.com/lirong-lirong/ags-tool/internal/cmdutil"
)

// NewCmdStop creates the instance stop command.
func NewCmdStop(f *cmdutil.Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stop <instance-id>...",
		Short: "Stop sandbox instances",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStop(f, args)
		},
	}

	return cmd
}

func runStop(f *cmdutil.Factory, instanceIDs []string) error {
	ctx := context.Background()

	client, err := f.AGSClient()
	if err != nil {
		return err
	}

	var failed int
	for _, id := range instanceIDs {
		_, err := client.StopSandboxInstance(ctx, &ags.StopSandboxInstanceRequest{InstanceId: id})
		if err != nil {
			fmt.Printf("failed to stop %s: %v\n", id, err)
			failed++
			continue
		}
		fmt.Printf("Stopped instance %s\n", id)
	}
	if failed > 0 {
		return cmdutil.SilentError
	}
	return nil
}
