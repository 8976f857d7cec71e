package instance

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lirong-lirong/ags-tool/internal/ags"
	"github.com/lirong-lirong/ags-tool/internal/cmdutil"
)

// StartOptions contains the options for the instance start command.
type StartOptions struct {
	ToolID       string
	ToolName     string
	Timeout      string
	CustomConfig string
}

// NewCmdStart creates the instance start command.
func NewCmdStart(f *cmdutil.Factory) *cobra.Command {
	opts := &StartOptions{}

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a sandbox instance from a tool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.ToolID == "" && opts.ToolName == "" {
				return cmdutil.FlagErrorf("one of --tool-id or --tool-name is required")
			}
			return runStart(f, opts)
		},
	}

	cmd.Flags().StringVar(&opts.ToolID, "tool-id", "", "Tool id to start from")
	cmd.Flags().StringVar(&opts.ToolName, "tool-name", "", "Tool name to start from")
	cmd.Flags().StringVar(&opts.Timeout, "timeout", "", "Instance timeout (e.g. 3600s)")

	// TODO(lirong): map the override file into CustomConfiguration once the
	// API accepts partial overrides on start.
	cmd.Flags().StringVar(&opts.CustomConfig, "custom-config", "", "Path to a container configuration override")
	cmd.Flags().MarkHidden("custom-config")

	return cmd
}

func runStart(f *cmdutil.Factory, opts *StartOptions) error {
	ctx := context.Background()

	cfg, err := f.Config()
	if err != nil {
		return err
	}
	client, err := f.AGSClient()
	if err != nil {
		return err
	}

	resp, err := client.StartSandboxInstance(ctx, &ags.StartSandboxInstanceRequest{
		ToolId:      opts.ToolID,
		ToolName:    opts.ToolName,
		Timeout:     opts.Timeout,
		ClientToken: uuid.NewString(),
	})
	if err != nil {
		return err
	}
	if resp.Instance == nil {
		return fmt.Errorf("control plane returned no instance (request id %s)", resp.RequestId)
	}

	fmt.Printf("Instance: %s\n", resp.Instance.InstanceId)
	fmt.Printf("Status:   %s\n", resp.Instance.Status)
	fmt.Printf("Endpoint: %s\n", EndpointURL(resp.Instance.InstanceId, cfg.Domain))
	return nil
}

// EndpointURL builds the sandbox endpoint address for an instance. The
// daemon port is encoded in the host so the gateway can route to it.
func EndpointURL(instanceID, domain string) string {
	return fmt.Sprintf("https://%d-%s.%s", envdPort, instanceID, domain)
}
