// Package dataset extracts container image references from exported dataset
// rows. Both a JSON array of row objects and JSON Lines are accepted.
package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/lirong-lirong/ags-tool/internal/logger"
)

// imageKeys are the recognized row fields, in precedence order.
var imageKeys = []string{"docker_image", "image_name", "image"}

// Images reads the dataset file at path and returns the unique image
// references found, sorted. Rows without any recognized image field are
// skipped, not errors.
func Images(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	rows, err := decodeRows(data)
	if err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}

	seen := make(map[string]struct{})
	skipped := 0
	for _, row := range rows {
		image := imageField(row)
		if image == "" {
			skipped++
			continue
		}
		seen[image] = struct{}{}
	}
	if skipped > 0 {
		logger.Debug().Int("rows", skipped).Msg("dataset rows without an image field skipped")
	}

	images := make([]string, 0, len(seen))
	for image := range seen {
		images = append(images, image)
	}
	sort.Strings(images)
	return images, nil
}

func decodeRows(data []byte) ([]map[string]any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	// JSON array form.
	if trimmed[0] == '[' {
		var rows []map[string]any
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return nil, err
		}
		return rows, nil
	}

	// JSON Lines form: one row object per non-empty line.
	var rows []map[string]any
	scanner := bufio.NewScanner(bytes.NewReader(trimmed))
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var row map[string]any
		if err := json.Unmarshal(line, &row); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

func imageField(row map[string]any) string {
	for _, key := range imageKeys {
		if v, ok := row[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
