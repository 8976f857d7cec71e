package mapping

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tool_mapping.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadNormalizedEntries(t *testing.T) {
	path := writeFile(t, `{
		"docker.io/ns/repo:tag": {
			"tool_name": "repo-tag",
			"tool_id": "tool-1",
			"tcr_image": "ccr.ccs.tencentyun.com/ns/repo:tag"
		}
	}`)

	m, err := Load(path)
	require.NoError(t, err)
	require.Len(t, m, 1)
	entry := m["docker.io/ns/repo:tag"]
	assert.Equal(t, "repo-tag", entry.ToolName)
	assert.Equal(t, "tool-1", entry.ToolID)
	assert.Equal(t, "ccr.ccs.tencentyun.com/ns/repo:tag", entry.TCRImage)
}

func TestLoadLegacyBareStringEntries(t *testing.T) {
	path := writeFile(t, `{
		"docker.io/ns/repo:tag": "ccr.ccs.tencentyun.com/ns/repo:tag"
	}`)

	m, err := Load(path)
	require.NoError(t, err)
	entry := m["docker.io/ns/repo:tag"]
	assert.Equal(t, "ccr.ccs.tencentyun.com/ns/repo:tag", entry.TCRImage)
	assert.Empty(t, entry.ToolName)
	assert.Empty(t, entry.ToolID)
}

func TestLoadLegacyImageAlias(t *testing.T) {
	path := writeFile(t, `{
		"docker.io/ns/repo:tag": {"image": "docker.io/ns/repo:tag"}
	}`)

	m, err := Load(path)
	require.NoError(t, err)

	// The alias is a source-side reference; it must not be mistaken for an
	// already-rewritten TCR one.
	entry := m["docker.io/ns/repo:tag"]
	assert.Empty(t, entry.TCRImage)
	assert.Equal(t, "docker.io/ns/repo:tag", entry.SourceImage)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeFile(t, `{"broken":`)

	_, err := Load(path)
	require.Error(t, err)

	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
	assert.False(t, IsNotFound(err))
}

func TestMergeOverwritesByKey(t *testing.T) {
	dst := Mapping{"a": {ToolName: "old", TCRImage: "r/a:1"}}
	src := Mapping{"a": {ToolName: "new", ToolID: "tool-9", TCRImage: "r/a:1"}}

	merged := Merge(dst, src)
	assert.Equal(t, "new", merged["a"].ToolName)
	assert.Equal(t, "tool-9", merged["a"].ToolID)
}

func TestMergeNeverDropsToolID(t *testing.T) {
	dst := Mapping{"a": {ToolName: "a-1", ToolID: "tool-1", TCRImage: "r/a:1"}}
	src := Mapping{"a": {ToolName: "a-1", TCRImage: "r/a:1"}}

	merged := Merge(dst, src)
	assert.Equal(t, "tool-1", merged["a"].ToolID)
}

func TestMergeCommutativeOverDisjointKeys(t *testing.T) {
	a := Mapping{"a": {ToolName: "a-1", TCRImage: "r/a:1"}}
	b := Mapping{"b": {ToolName: "b-2", ToolID: "tool-2", TCRImage: "r/b:2"}}

	assert.Equal(t, Merge(a, b), Merge(b, a))
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tool_mapping.json")
	m := Mapping{
		"docker.io/ns/a:1": {ToolName: "a-1", ToolID: "tool-1", TCRImage: "r/ns/a:1"},
		"docker.io/ns/b:2": {ToolName: "b-2", TCRImage: "r/ns/b:2"},
	}

	require.NoError(t, Save(path, m))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, m, loaded)
}

func TestSaveReplacesExistingAtomically(t *testing.T) {
	path := writeFile(t, `{"stale": "r/stale:1"}`)

	require.NoError(t, Save(path, Mapping{"fresh": {ToolName: "fresh", TCRImage: "r/fresh:1"}}))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Contains(t, loaded, "fresh")

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestWithLockRunsFn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tool_mapping.json")
	ran := false
	require.NoError(t, WithLock(path, func() error {
		ran = true
		return nil
	}))
	assert.True(t, ran)
}
