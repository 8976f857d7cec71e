package instance

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lirong-lirong/ags-tool/internal/ags"
	"github.com/lirong-lirong/ags-tool/internal/cmdutil"
)

const listPageSize = 100

// NewCmdList creates the instance list command.
func NewCmdList(f *cmdutil.Factory) *cobra.Command {
	var toolID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sandbox instances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(f, toolID)
		},
	}

	cmd.Flags().StringVar(&toolID, "tool-id", "", "Only show instances of this tool")

	return cmd
}

func runList(f *cmdutil.Factory, toolID string) error {
	ctx := context.Background()

	client, err := f.AGSClient()
	if err != nil {
		return err
	}

	var instances []ags.SandboxInstance
	for offset := 0; ; offset += listPageSize {
		resp, err := client.DescribeSandboxInstanceList(ctx, &ags.DescribeSandboxInstanceListRequest{
			ToolId: toolID,
			Limit:  listPageSize,
			Offset: offset,
		})
		if err != nil {
			return err
		}
		instances = append(instances, resp.SandboxInstanceSet...)
		if len(resp.SandboxInstanceSet) < listPageSize {
			break
		}
	}

	if len(instances) == 0 {
		fmt.Println("No sandbox instances found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "INSTANCE ID\tTOOL ID\tSTATUS\tCREATED")
	for _, in := range instances {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", in.InstanceId, in.ToolId, in.Status, in.CreateTime)
	}
	return w.Flush()
}
