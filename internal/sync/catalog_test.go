package sync

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lirong-lirong/ags-tool/internal/ags"
)

// pagedCP serves a fixed tool list page by page, optionally failing at a
// given offset.
type pagedCP struct {
	tools        []ags.SandboxTool
	failAtOffset int // -1 to never fail
	pages        int
}

func (p *pagedCP) CreateSandboxTool(ctx context.Context, req *ags.CreateSandboxToolRequest) (*ags.CreateSandboxToolResponse, error) {
	return nil, errors.New("unexpected create")
}

func (p *pagedCP) DescribeSandboxToolList(ctx context.Context, req *ags.DescribeSandboxToolListRequest) (*ags.DescribeSandboxToolListResponse, error) {
	if p.failAtOffset >= 0 && req.Offset >= p.failAtOffset {
		return nil, &ags.APIError{Code: "InternalError", Message: "boom"}
	}
	p.pages++
	end := req.Offset + req.Limit
	if end > len(p.tools) {
		end = len(p.tools)
	}
	var page []ags.SandboxTool
	if req.Offset < len(p.tools) {
		page = p.tools[req.Offset:end]
	}
	return &ags.DescribeSandboxToolListResponse{
		SandboxToolSet: page,
		TotalCount:     len(p.tools),
	}, nil
}

func makeTools(n int) []ags.SandboxTool {
	tools := make([]ags.SandboxTool, n)
	for i := range tools {
		tools[i] = ags.SandboxTool{
			ToolId:   fmt.Sprintf("tool-%d", i),
			ToolName: fmt.Sprintf("name-%d", i),
			Status:   ags.ToolStatusActive,
		}
	}
	return tools
}

func TestFetchCatalogPaginates(t *testing.T) {
	cp := &pagedCP{tools: makeTools(250), failAtOffset: -1}

	catalog, err := FetchCatalog(context.Background(), cp)
	require.NoError(t, err)
	assert.Len(t, catalog, 250)
	assert.Equal(t, "tool-137", catalog["name-137"])
	assert.Equal(t, 3, cp.pages)
}

func TestFetchCatalogShortPageTerminates(t *testing.T) {
	cp := &pagedCP{tools: makeTools(42), failAtOffset: -1}

	catalog, err := FetchCatalog(context.Background(), cp)
	require.NoError(t, err)
	assert.Len(t, catalog, 42)
	assert.Equal(t, 1, cp.pages)
}

func TestFetchCatalogExactPageBoundary(t *testing.T) {
	cp := &pagedCP{tools: makeTools(100), failAtOffset: -1}

	catalog, err := FetchCatalog(context.Background(), cp)
	require.NoError(t, err)
	assert.Len(t, catalog, 100)
	// A full page forces one more fetch to observe the end.
	assert.Equal(t, 2, cp.pages)
}

func TestFetchCatalogPartialOnPageError(t *testing.T) {
	cp := &pagedCP{tools: makeTools(250), failAtOffset: 200}

	catalog, err := FetchCatalog(context.Background(), cp)
	require.NoError(t, err)
	// First two pages made it in; the failed page just under-reports.
	assert.Len(t, catalog, 200)
}

func TestFetchCatalogCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FetchCatalog(ctx, &pagedCP{tools: makeTools(10), failAtOffset: -1})
	assert.ErrorIs(t, err, context.Canceled)
}
