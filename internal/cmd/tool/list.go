package tool

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lirong-lirong/ags-tool/internal/ags"
	"github.com/lirong-lirong/ags-tool/internal/cmdutil"
)

// listPageSize matches the API's maximum page size.
const listPageSize = 100

// ListOptions contains the options for the tool list command.
type ListOptions struct {
	Limit   int
	Offset  int
	Status  string
	Filters []string
}

// NewCmdList creates the tool list command.
func NewCmdList(f *cmdutil.Factory) *cobra.Command {
	opts := &ListOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sandbox tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(f, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Only fetch one page of N tools (0 = all pages)")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "Offset for --limit paging")
	cmd.Flags().StringVar(&opts.Status, "status", "", "Only show tools with this status (e.g. ACTIVE)")
	cmd.Flags().StringArrayVar(&opts.Filters, "filter", nil, "Server-side filter as name=value (repeatable)")

	return cmd
}

func runList(f *cmdutil.Factory, opts *ListOptions) error {
	ctx := context.Background()

	client, err := f.AGSClient()
	if err != nil {
		return err
	}

	filters, err := parseFilters(opts.Filters)
	if err != nil {
		return err
	}

	var tools []ags.SandboxTool
	if opts.Limit > 0 {
		resp, err := client.DescribeSandboxToolList(ctx, &ags.DescribeSandboxToolListRequest{
			Filters: filters,
			Limit:   opts.Limit,
			Offset:  opts.Offset,
		})
		if err != nil {
			return err
		}
		tools = resp.SandboxToolSet
	} else {
		for offset := 0; ; offset += listPageSize {
			resp, err := client.DescribeSandboxToolList(ctx, &ags.DescribeSandboxToolListRequest{
				Filters: filters,
				Limit:   listPageSize,
				Offset:  offset,
			})
			if err != nil {
				return err
			}
			tools = append(tools, resp.SandboxToolSet...)
			if len(resp.SandboxToolSet) < listPageSize {
				break
			}
		}
	}

	if opts.Status != "" {
		filtered := tools[:0]
		for _, t := range tools {
			if t.Status == opts.Status {
				filtered = append(filtered, t)
			}
		}
		tools = filtered
	}

	if len(tools) == 0 {
		fmt.Println("No sandbox tools found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "TOOL ID\tNAME\tSTATUS\tCREATED")
	for _, t := range tools {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ToolId, t.ToolName, t.Status, t.CreateTime)
	}
	return w.Flush()
}

// parseFilters turns repeated name=value flags into API filters. Repeated
// names accumulate their values into one filter.
func parseFilters(raw []string) ([]ags.Filter, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	index := map[string]int{}
	var filters []ags.Filter
	for _, r := range raw {
		name, value, ok := strings.Cut(r, "=")
		if !ok || name == "" {
			return nil, cmdutil.FlagErrorf("invalid --filter %q, expected name=value", r)
		}
		if i, seen := index[name]; seen {
			filters[i].Values = append(filters[i].Values, value)
			continue
		}
		index[name] = len(filters)
		filters = append(filters, ags.Filter{Name: name, Values: []string{value}})
	}
	return filters, nil
}
