package instance

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lirong-lirong/ags-tool/internal/ags"
	"github.com/lirong-lirong/ags-tool/internal/cmdutil"
)

// NewCmdToken creates the instance token command.
func NewCmdToken(f *cmdutil.Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token <instance-id>",
		Short: "Acquire an access token for a sandbox instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToken(f, args[0])
		},
	}

	return cmd
}

func runToken(f *cmdutil.Factory, instanceID string) error {
	ctx := context.Background()

	client, err := f.AGSClient()
	if err != nil {
		return err
	}

	resp, err := client.AcquireSandboxInstanceToken(ctx, &ags.AcquireSandboxInstanceTokenRequest{
		InstanceId: instanceID,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Token:   %s\n", resp.Token)
	if resp.ExpiresAt != "" {
		fmt.Printf("Expires: %s\n", resp.ExpiresAt)
	}
	return nil
}
