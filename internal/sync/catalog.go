package sync

import (
	"context"

	"github.com/lirong-lirong/ags-tool/internal/ags"
	"github.com/lirong-lirong/ags-tool/internal/logger"
)

// catalogPageSize is the listing page size; the API caps Limit at 100.
const catalogPageSize = 100

// Catalog is a read-only snapshot of existing tools, name -> tool id.
// It is fetched once per run and never refreshed mid-run: a tool created by
// a concurrent run after the snapshot simply looks missing, which at worst
// costs a redundant create attempt, never a destructive action.
type Catalog map[string]string

// FetchCatalog enumerates all existing tools through the paginated listing
// endpoint. A page-fetch error ends the enumeration early with a warning and
// a partial snapshot; callers must tolerate under-reporting. Context
// cancellation is the only aborting error.
func FetchCatalog(ctx context.Context, cp ControlPlane) (Catalog, error) {
	catalog := make(Catalog)
	offset := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := cp.DescribeSandboxToolList(ctx, &ags.DescribeSandboxToolListRequest{
			Limit:  catalogPageSize,
			Offset: offset,
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn().Int("offset", offset).Err(err).Msg("failed to list tools, catalog may be incomplete")
			return catalog, nil
		}

		for _, tool := range resp.SandboxToolSet {
			catalog[tool.ToolName] = tool.ToolId
		}
		if len(resp.SandboxToolSet) < catalogPageSize {
			return catalog, nil
		}
		offset += catalogPageSize
	}
}
