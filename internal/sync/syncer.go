// Package sync reconciles a desired image set against the sandbox tools
// that exist on the AGS control plane: it diffs the two, creates what is
// missing, optionally waits for activation, and reports the image -> tool
// mapping for the run.
package sync

import (
	"context"
	"sync"
	"time"

	"github.com/lirong-lirong/ags-tool/internal/logger"
	"github.com/lirong-lirong/ags-tool/internal/mapping"
)

// Options configure one sync run.
type Options struct {
	ToolSpec ToolSpec

	// CheckOnly computes the plan without mutating remote state.
	CheckOnly bool

	// Wait blocks on each created tool until it reaches a terminal state.
	Wait bool

	// WaitTimeout bounds each activation wait. Zero means the default.
	WaitTimeout time.Duration

	// Concurrency bounds the creation worker pool. Values below 1 mean
	// sequential processing.
	Concurrency int
}

// Failure records one image whose tool could not be created or activated.
type Failure struct {
	Source   string
	ToolName string
	Err      error
}

// Result summarizes a run. Mapping holds an entry for every desired image,
// with an empty tool id for failed creations, so a batch of N images always
// reports all N.
type Result struct {
	Plan    Plan
	Mapping mapping.Mapping

	Created  int
	Existing int
	Failures []Failure
}

// Syncer drives one reconciliation run against a control plane.
type Syncer struct {
	cp         ControlPlane
	activation *ActivationController
	opts       Options
}

// NewSyncer builds a Syncer. The control-plane client is injected and its
// lifetime is the caller's concern.
func NewSyncer(cp ControlPlane, opts Options) *Syncer {
	if opts.WaitTimeout <= 0 {
		opts.WaitTimeout = DefaultActivationTimeout
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Syncer{
		cp:         cp,
		activation: NewActivationController(cp),
		opts:       opts,
	}
}

// Run reconciles the desired images. The catalog is fetched once and shared
// read-only; per-image creation failures are recorded and do not abort the
// batch.
func (s *Syncer) Run(ctx context.Context, desired []DesiredImage) (*Result, error) {
	catalog, err := FetchCatalog(ctx, s.cp)
	if err != nil {
		return nil, err
	}
	logger.Info().Int("tools", len(catalog)).Msg("fetched existing sandbox tools")

	plan := BuildPlan(desired, catalog)

	result := &Result{
		Plan:     plan,
		Mapping:  make(mapping.Mapping, len(plan.ToCreate)+len(plan.Existing)),
		Existing: len(plan.Existing),
	}
	for _, entry := range plan.Existing {
		result.Mapping[entry.Source] = mapping.Entry{
			ToolName: entry.ToolName,
			ToolID:   entry.ToolID,
			TCRImage: entry.TCRImage,
		}
	}
	for _, entry := range plan.ToCreate {
		result.Mapping[entry.Source] = mapping.Entry{
			ToolName: entry.ToolName,
			TCRImage: entry.TCRImage,
		}
	}

	if s.opts.CheckOnly || len(plan.ToCreate) == 0 {
		return result, nil
	}

	// Workers own disjoint images. The results channel is the single
	// serialization point: the collect loop below is the only writer of the
	// mapping, so the merge order stays auditable and lock-free.
	jobs := make(chan PlanEntry)
	results := make(chan createResult)

	var wg sync.WaitGroup
	for i := 0; i < s.opts.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for entry := range jobs {
				results <- s.createOne(ctx, entry)
			}
		}()
	}
	go func() {
		defer close(jobs)
		for _, entry := range plan.ToCreate {
			select {
			case jobs <- entry:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	for res := range results {
		if res.err != nil {
			logger.Error().Str("tool", res.entry.ToolName).Str("image", res.entry.TCRImage).Err(res.err).Msg("failed to create tool")
			result.Failures = append(result.Failures, Failure{
				Source:   res.entry.Source,
				ToolName: res.entry.ToolName,
				Err:      res.err,
			})
			continue
		}
		result.Created++
		result.Mapping = mapping.Merge(result.Mapping, mapping.Mapping{
			res.entry.Source: {
				ToolName: res.entry.ToolName,
				ToolID:   res.toolID,
				TCRImage: res.entry.TCRImage,
			},
		})
	}

	return result, ctx.Err()
}

type createResult struct {
	entry  PlanEntry
	toolID string
	err    error
}

// createOne creates the tool for one plan entry and, when configured, waits
// for it to become ACTIVE. Activation failure still reports the error even
// though the remote tool exists; the orphan is left for manual cleanup.
func (s *Syncer) createOne(ctx context.Context, entry PlanEntry) createResult {
	logger.Info().Str("tool", entry.ToolName).Str("image", entry.TCRImage).Msg("creating sandbox tool")

	resp, err := s.cp.CreateSandboxTool(ctx, NewCreateRequest(entry, s.opts.ToolSpec))
	if err != nil {
		return createResult{entry: entry, err: err}
	}

	if s.opts.Wait {
		if err := s.activation.AwaitActive(ctx, resp.ToolId, s.opts.WaitTimeout); err != nil {
			return createResult{entry: entry, err: err}
		}
	}

	logger.Info().Str("tool", entry.ToolName).Str("tool_id", resp.ToolId).Msg("created sandbox tool")
	return createResult{entry: entry, toolID: resp.ToolId}
}
