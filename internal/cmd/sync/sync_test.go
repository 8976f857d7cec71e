package sync

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lirong-lirong/ags-tool/internal/cmdutil"
	"github.com/lirong-lirong/ags-tool/internal/mapping"
)

func TestNewCmdSync_RequiresSource(t *testing.T) {
	f := &cmdutil.Factory{}
	cmd := NewCmdSync(f)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)

	var flagErr *cmdutil.FlagError
	assert.ErrorAs(t, err, &flagErr)
}

func TestResolveDesired_FromMapping(t *testing.T) {
	dir := t.TempDir()
	mappingPath := filepath.Join(dir, "image_mapping.json")
	require.NoError(t, os.WriteFile(mappingPath, []byte(`{
		"docker.io/library/redis:7": "ccr.ccs.tencentyun.com/library/redis:7",
		"python:3.11": {"tool_name": "python-3-11", "tcr_image": "ccr.ccs.tencentyun.com/python:3.11"}
	}`), 0o644))

	opts := &Options{MappingPath: mappingPath, Output: filepath.Join(dir, "tool_mapping.json")}
	desired, prior, err := resolveDesired(opts, "ccr.ccs.tencentyun.com")
	require.NoError(t, err)

	assert.Empty(t, prior)
	require.Len(t, desired, 2)

	bySource := map[string]string{}
	for _, d := range desired {
		bySource[d.Source] = d.TCRImage
	}
	assert.Equal(t, "ccr.ccs.tencentyun.com/library/redis:7", bySource["docker.io/library/redis:7"])
	assert.Equal(t, "ccr.ccs.tencentyun.com/python:3.11", bySource["python:3.11"])
}

func TestResolveDesired_LegacyImageAliasRewritten(t *testing.T) {
	dir := t.TempDir()
	mappingPath := filepath.Join(dir, "image_mapping.json")
	require.NoError(t, os.WriteFile(mappingPath, []byte(`{
		"docker.io/ns/repo:tag": {"image": "docker.io/ns/repo:tag"}
	}`), 0o644))

	opts := &Options{MappingPath: mappingPath, Output: filepath.Join(dir, "tool_mapping.json")}
	desired, _, err := resolveDesired(opts, "ccr.ccs.tencentyun.com")
	require.NoError(t, err)

	require.Len(t, desired, 1)
	assert.Equal(t, "docker.io/ns/repo:tag", desired[0].Source)
	assert.Equal(t, "ccr.ccs.tencentyun.com/ns/repo:tag", desired[0].TCRImage)
}

func TestResolveDesired_FromDataset(t *testing.T) {
	dir := t.TempDir()
	datasetPath := filepath.Join(dir, "rows.jsonl")
	require.NoError(t, os.WriteFile(datasetPath, []byte(
		`{"docker_image": "namanjain12/aiohttp_final:abc"}
{"docker_image": "namanjain12/aiohttp_final:abc"}
{"image_name": "library/nginx:1.25"}
`), 0o644))

	opts := &Options{DatasetPath: datasetPath, Output: filepath.Join(dir, "tool_mapping.json")}
	desired, _, err := resolveDesired(opts, "ccr.ccs.tencentyun.com")
	require.NoError(t, err)

	require.Len(t, desired, 2)
	for _, d := range desired {
		assert.Contains(t, d.TCRImage, "ccr.ccs.tencentyun.com/")
	}
}

func TestResolveDesired_PriorMappingLoaded(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "tool_mapping.json")
	require.NoError(t, mapping.Save(output, mapping.Mapping{
		"python:3.11": {ToolName: "python-3-11", ToolID: "tool-1", TCRImage: "ccr.ccs.tencentyun.com/python:3.11"},
	}))

	datasetPath := filepath.Join(dir, "rows.json")
	require.NoError(t, os.WriteFile(datasetPath, []byte(`[{"docker_image": "python:3.11"}]`), 0o644))

	opts := &Options{DatasetPath: datasetPath, Output: output}
	_, prior, err := resolveDesired(opts, "ccr.ccs.tencentyun.com")
	require.NoError(t, err)

	require.Contains(t, prior, "python:3.11")
	assert.Equal(t, "tool-1", prior["python:3.11"].ToolID)
}

func TestResolveDesired_MalformedPriorAborts(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "tool_mapping.json")
	require.NoError(t, os.WriteFile(output, []byte("{not json"), 0o644))

	datasetPath := filepath.Join(dir, "rows.json")
	require.NoError(t, os.WriteFile(datasetPath, []byte(`[{"docker_image": "python:3.11"}]`), 0o644))

	opts := &Options{DatasetPath: datasetPath, Output: output}
	_, _, err := resolveDesired(opts, "ccr.ccs.tencentyun.com")
	require.Error(t, err)

	var parseErr *mapping.ParseError
	assert.ErrorAs(t, err, &parseErr)
}
