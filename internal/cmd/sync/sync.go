// Package sync implements `agsctl sync`, the reconciliation run: every
// desired image ends up backed by a sandbox tool, and the image -> tool
// mapping file records the outcome.
package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/lirong-lirong/ags-tool/internal/cmdutil"
	"github.com/lirong-lirong/ags-tool/internal/dataset"
	"github.com/lirong-lirong/ags-tool/internal/imageref"
	"github.com/lirong-lirong/ags-tool/internal/mapping"
	toolsync "github.com/lirong-lirong/ags-tool/internal/sync"
)

// Options contains the options for the sync command.
type Options struct {
	MappingPath string
	DatasetPath string
	Output      string
	CheckOnly   bool
	Wait        bool
	WaitTimeout time.Duration
	Concurrency int
}

// NewCmdSync creates the sync command.
func NewCmdSync(f *cmdutil.Factory) *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile desired images against AGS sandbox tools",
		Long: `Ensures every desired image is backed by an AGS SandboxTool.

Desired images come from an image mapping file (--mapping) or an exported
dataset rows file (--dataset). For each image the TCR reference and tool
name are derived, missing tools are created, and the image -> tool mapping
is written to --output.

Use --check-only to print the plan without creating anything.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.MappingPath == "" && opts.DatasetPath == "" {
				return cmdutil.FlagErrorf("one of --mapping or --dataset is required")
			}
			return runSync(f, opts)
		},
	}

	AddFlags(cmd.Flags(), opts)

	return cmd
}

// AddFlags registers the sync flags on the given flag set.
func AddFlags(flags *pflag.FlagSet, opts *Options) {
	flags.StringVar(&opts.MappingPath, "mapping", "", "Path to image->TCR mapping JSON (from agsctl push)")
	flags.StringVar(&opts.DatasetPath, "dataset", "", "Path to exported dataset rows (JSON array or JSONL)")
	flags.StringVarP(&opts.Output, "output", "o", "tool_mapping.json", "Output file for the tool mapping")
	flags.BoolVar(&opts.CheckOnly, "check-only", false, "Only report which tools would be created")
	flags.BoolVar(&opts.Wait, "wait", false, "Wait for each created tool to become ACTIVE")
	flags.DurationVar(&opts.WaitTimeout, "wait-timeout", toolsync.DefaultActivationTimeout, "Per-tool activation wait budget")
	flags.IntVar(&opts.Concurrency, "concurrency", 1, "Number of concurrent tool creations")
}

func runSync(f *cmdutil.Factory, opts *Options) error {
	ctx := context.Background()

	cfg, err := f.Config()
	if err != nil {
		return err
	}
	if err := cfg.ValidateCredentials(); err != nil {
		return err
	}

	desired, prior, err := resolveDesired(opts, cfg.TCRRegistry)
	if err != nil {
		return err
	}
	if len(desired) == 0 {
		return fmt.Errorf("no images found in %s", sourceName(opts))
	}
	fmt.Printf("Resolved %d unique images from %s\n", len(desired), sourceName(opts))

	client, err := f.AGSClient()
	if err != nil {
		return err
	}
	fmt.Printf("Connecting to AGS (region: %s)...\n", cfg.Region)

	syncer := toolsync.NewSyncer(client, toolsync.Options{
		ToolSpec: toolsync.ToolSpec{
			ImageRegistryType: cfg.ImageRegistryType,
			RoleArn:           cfg.RoleArn,
		},
		CheckOnly:   opts.CheckOnly,
		Wait:        opts.Wait,
		WaitTimeout: opts.WaitTimeout,
		Concurrency: opts.Concurrency,
	})

	result, err := syncer.Run(ctx, desired)
	if err != nil {
		return err
	}

	fmt.Printf("\nTools to create: %d\n", len(result.Plan.ToCreate))
	fmt.Printf("Tools already exist: %d\n", result.Existing)

	if opts.CheckOnly {
		fmt.Println("\n[CHECK ONLY MODE]")
		if len(result.Plan.ToCreate) == 0 {
			fmt.Println("All tools already exist!")
			return nil
		}
		fmt.Println("Missing tools:")
		for _, entry := range result.Plan.ToCreate {
			fmt.Printf("  - %s (image %s)\n", entry.ToolName, entry.TCRImage)
		}
		return nil
	}

	fmt.Printf("\nCreated: %d, already existing: %d, failed: %d\n",
		result.Created, result.Existing, len(result.Failures))
	for _, failure := range result.Failures {
		fmt.Printf("  failed: %s (%s): %v\n", failure.Source, failure.ToolName, failure.Err)
	}

	merged := mapping.Merge(prior, result.Mapping)
	if err := mapping.WithLock(opts.Output, func() error {
		return mapping.Save(opts.Output, merged)
	}); err != nil {
		return fmt.Errorf("save tool mapping: %w", err)
	}
	fmt.Printf("Saved tool mapping to %s\n", opts.Output)

	if len(result.Failures) > 0 {
		return cmdutil.SilentError
	}
	return nil
}

// resolveDesired produces the desired image set and any prior mapping the
// run should merge into. The prior mapping comes from the output file when
// it exists; a malformed one aborts the run before any remote call.
func resolveDesired(opts *Options, registry string) ([]toolsync.DesiredImage, mapping.Mapping, error) {
	prior := mapping.Mapping{}
	if m, err := mapping.Load(opts.Output); err == nil {
		prior = m
	} else if !mapping.IsNotFound(err) {
		return nil, nil, err
	}

	if opts.MappingPath != "" {
		m, err := mapping.Load(opts.MappingPath)
		if err != nil {
			return nil, nil, err
		}
		desired := make([]toolsync.DesiredImage, 0, len(m))
		for source, entry := range m {
			tcr := entry.TCRImage
			if tcr == "" {
				// Legacy entries carry a source-side reference (or nothing);
				// either way the TCR side still needs deriving.
				src := entry.SourceImage
				if src == "" {
					src = source
				}
				tcr = imageref.Rewrite(src, registry)
			}
			desired = append(desired, toolsync.DesiredImage{Source: source, TCRImage: tcr})
		}
		return desired, prior, nil
	}

	images, err := dataset.Images(opts.DatasetPath)
	if err != nil {
		return nil, nil, err
	}
	desired := make([]toolsync.DesiredImage, 0, len(images))
	for _, image := range images {
		desired = append(desired, toolsync.DesiredImage{
			Source:   image,
			TCRImage: imageref.Rewrite(image, registry),
		})
	}
	return desired, prior, nil
}

func sourceName(opts *Options) string {
	if opts.MappingPath != "" {
		return opts.MappingPath
	}
	return opts.DatasetPath
}
