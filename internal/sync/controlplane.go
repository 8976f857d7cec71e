package sync

import (
	"context"

	"github.com/lirong-lirong/ags-tool/internal/ags"
)

// ControlPlane is the slice of the AGS API the sync run consumes.
// *ags.Client satisfies it; tests substitute a fake.
type ControlPlane interface {
	CreateSandboxTool(ctx context.Context, req *ags.CreateSandboxToolRequest) (*ags.CreateSandboxToolResponse, error)
	DescribeSandboxToolList(ctx context.Context, req *ags.DescribeSandboxToolListRequest) (*ags.DescribeSandboxToolListResponse, error)
}
