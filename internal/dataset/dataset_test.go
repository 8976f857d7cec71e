package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDataset(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImagesFromJSONArray(t *testing.T) {
	path := writeDataset(t, "rows.json", `[
		{"docker_image": "docker.io/ns/b:2", "instance_id": "x"},
		{"docker_image": "docker.io/ns/a:1"},
		{"docker_image": "docker.io/ns/a:1"},
		{"note": "no image here"}
	]`)

	images, err := Images(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"docker.io/ns/a:1", "docker.io/ns/b:2"}, images)
}

func TestImagesFromJSONLines(t *testing.T) {
	path := writeDataset(t, "rows.jsonl", `{"docker_image": "ns/b:2"}
{"image_name": "ns/a:1"}

{"image": "ns/c:3"}
`)

	images, err := Images(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"ns/a:1", "ns/b:2", "ns/c:3"}, images)
}

func TestImagesKeyPrecedence(t *testing.T) {
	path := writeDataset(t, "rows.jsonl", `{"docker_image": "ns/first:1", "image_name": "ns/second:2"}`)

	images, err := Images(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"ns/first:1"}, images)
}

func TestImagesEmptyDataset(t *testing.T) {
	path := writeDataset(t, "rows.json", `[]`)

	images, err := Images(path)
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestImagesMalformed(t *testing.T) {
	path := writeDataset(t, "rows.json", `[{"docker_image":`)

	_, err := Images(path)
	assert.Error(t, err)
}

func TestImagesMissingFile(t *testing.T) {
	_, err := Images(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
