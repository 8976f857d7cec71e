// Package push implements `agsctl push`, which mirrors dataset images into
// the TCR registry so the control plane can pull them.
package push

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lirong-lirong/ags-tool/internal/cmdutil"
	"github.com/lirong-lirong/ags-tool/internal/dataset"
	"github.com/lirong-lirong/ags-tool/internal/imageref"
)

// Options contains the options for the push command.
type Options struct {
	DatasetPath string
	Registry    string
	Output      string
	DryRun      bool
	Limit       int
}

// NewCmdPush creates the push command.
func NewCmdPush(f *cmdutil.Factory) *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Mirror dataset images into the TCR registry",
		Long: `Pulls each dataset image, retags it under the TCR registry, and pushes
the retagged reference. The source -> TCR mapping is written to --output
and can be fed to agsctl sync via --mapping.

Images are pushed through the local Docker daemon; TCR_USERNAME and
TCR_PASSWORD authenticate the pushes when set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPush(f, opts)
		},
	}

	cmd.Flags().StringVar(&opts.DatasetPath, "dataset", "", "Path to exported dataset rows (JSON array or JSONL)")
	cmd.Flags().StringVar(&opts.Registry, "registry", "", "Target registry (defaults to the configured TCR registry)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "image_mapping.json", "Output file for the image mapping")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Print the mapping without pulling or pushing")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Only process the first N images (0 = all)")
	cmd.MarkFlagRequired("dataset")

	return cmd
}

func runPush(f *cmdutil.Factory, opts *Options) error {
	ctx := context.Background()

	cfg, err := f.Config()
	if err != nil {
		return err
	}
	targetRegistry := opts.Registry
	if targetRegistry == "" {
		targetRegistry = cfg.TCRRegistry
	}

	images, err := dataset.Images(opts.DatasetPath)
	if err != nil {
		return err
	}
	if len(images) == 0 {
		return fmt.Errorf("no images found in %s", opts.DatasetPath)
	}
	if opts.Limit > 0 && opts.Limit < len(images) {
		images = images[:opts.Limit]
	}
	fmt.Printf("Found %d unique images\n", len(images))

	result := make(map[string]string, len(images))
	for _, source := range images {
		result[source] = imageref.Rewrite(source, targetRegistry)
	}

	if opts.DryRun {
		fmt.Println("\n[DRY RUN] Would push:")
		for _, source := range images {
			fmt.Printf("  %s -> %s\n", source, result[source])
		}
		return writeMapping(opts.Output, result)
	}

	rc, err := f.RegistryClient(ctx)
	if err != nil {
		return err
	}
	defer rc.Close()

	if err := rc.Login(targetRegistry, cfg.TCRUsername, cfg.TCRPassword); err != nil {
		return err
	}

	failed := mirrorAll(ctx, rc, images, result)

	fmt.Printf("\nPushed: %d, failed: %d\n", len(images)-failed, failed)
	if err := writeMapping(opts.Output, result); err != nil {
		return err
	}
	fmt.Printf("Saved image mapping to %s\n", opts.Output)
	if failed > 0 {
		return cmdutil.SilentError
	}
	return nil
}

// mirrorer is the slice of the registry client the push loop consumes.
type mirrorer interface {
	Mirror(ctx context.Context, source, target string) error
}

// mirrorAll mirrors every image and returns the failure count. Failed pairs
// stay in the mapping: the target reference is still the correct one, and a
// later run can retry the push.
func mirrorAll(ctx context.Context, m mirrorer, images []string, result map[string]string) int {
	var failed int
	for i, source := range images {
		target := result[source]
		fmt.Printf("[%d/%d] %s -> %s\n", i+1, len(images), source, target)
		if err := m.Mirror(ctx, source, target); err != nil {
			fmt.Printf("  failed: %v\n", err)
			failed++
		}
	}
	return failed
}

// writeMapping writes the source -> TCR reference map. The plain string
// format stays loadable by the sync command, which treats bare strings as
// entries without a tool id.
func writeMapping(path string, m map[string]string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
