package sync

import (
	"sort"

	"github.com/lirong-lirong/ags-tool/internal/imageref"
	"github.com/lirong-lirong/ags-tool/internal/logger"
)

// DesiredImage is one image the run wants backed by a sandbox tool, already
// resolved to its TCR reference.
type DesiredImage struct {
	Source   string
	TCRImage string
}

// PlanEntry is one (image, tool name, existing-or-missing) triple of a run
// plan. ToolID is set only for entries matched against the catalog.
type PlanEntry struct {
	Source   string
	TCRImage string
	ToolName string
	ToolID   string
}

// Plan is the ephemeral creation plan for one invocation. It is a pure diff:
// building it mutates nothing, and building it twice from the same desired
// set and catalog snapshot yields identical plans.
type Plan struct {
	ToCreate []PlanEntry
	Existing []PlanEntry
}

// BuildPlan diffs the desired images against the catalog snapshot. The
// desired set is deduplicated by source image and processed in sorted order,
// which makes the plan deterministic.
func BuildPlan(desired []DesiredImage, catalog Catalog) Plan {
	unique := make(map[string]DesiredImage, len(desired))
	for _, d := range desired {
		unique[d.Source] = d
	}
	sources := make([]string, 0, len(unique))
	for source := range unique {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	var plan Plan
	nameOwner := make(map[string]string, len(sources))

	for _, source := range sources {
		d := unique[source]
		name := imageref.BuildToolName(d.TCRImage)

		// Distinct images that sanitize and truncate to the same tool name
		// silently share one tool. Surface it; the run still proceeds.
		if owner, ok := nameOwner[name]; ok && owner != d.TCRImage {
			logger.Warn().
				Str("tool_name", name).
				Str("image", d.TCRImage).
				Str("colliding_with", owner).
				Msg("distinct images map to the same tool name")
		} else {
			nameOwner[name] = d.TCRImage
		}

		entry := PlanEntry{
			Source:   d.Source,
			TCRImage: d.TCRImage,
			ToolName: name,
		}
		if id, ok := catalog[name]; ok {
			entry.ToolID = id
			plan.Existing = append(plan.Existing, entry)
			continue
		}
		plan.ToCreate = append(plan.ToCreate, entry)
	}
	return plan
}
