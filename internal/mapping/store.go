// Package mapping owns the durable image -> tool mapping file.
//
// The on-disk format is a JSON object keyed by source image. Values are
// normalized objects {tool_name, tool_id, tcr_image}; a legacy bare string
// value (the TCR image alone) is still readable and upgraded on load.
package mapping

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Entry links one source image to its rewritten TCR image and the backing
// sandbox tool. ToolID stays empty until a creation succeeds or a matching
// tool is found; entries are never deleted automatically.
//
// SourceImage is only set for the legacy `image`-alias form: it is the
// source-side reference, not yet rewritten under the target registry, and
// the consumer owns the rewrite. TCRImage and SourceImage are never both
// set.
type Entry struct {
	ToolName    string `json:"tool_name"`
	ToolID      string `json:"tool_id,omitempty"`
	TCRImage    string `json:"tcr_image"`
	SourceImage string `json:"image,omitempty"`
}

// Mapping is the in-memory mapping keyed by source image reference.
type Mapping map[string]Entry

// ParseError reports a malformed mapping file. Loading one is fatal to the
// run: downstream state cannot be trusted.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed mapping file %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsNotFound reports whether err means the mapping file does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}

// rawEntry accepts both persisted forms of a mapping value.
type rawEntry struct {
	ToolName string `json:"tool_name"`
	ToolID   string `json:"tool_id"`
	TCRImage string `json:"tcr_image"`
	// Image is an older alias for the source-side reference some files
	// carry instead of tcr_image.
	Image string `json:"image"`
}

// Load reads and normalizes a mapping file. A missing file surfaces
// os.ErrNotExist; malformed JSON surfaces a *ParseError. There is no silent
// defaulting either way.
func Load(path string) (Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping file: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	m := make(Mapping, len(raw))
	for image, value := range raw {
		entry, err := normalize(value)
		if err != nil {
			return nil, &ParseError{Path: path, Err: fmt.Errorf("entry %q: %w", image, err)}
		}
		m[image] = entry
	}
	return m, nil
}

func normalize(value json.RawMessage) (Entry, error) {
	// Legacy form: a bare TCR image string.
	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		return Entry{TCRImage: s}, nil
	}

	var raw rawEntry
	if err := json.Unmarshal(value, &raw); err != nil {
		return Entry{}, err
	}
	entry := Entry{
		ToolName: raw.ToolName,
		ToolID:   raw.ToolID,
		TCRImage: raw.TCRImage,
	}
	if entry.TCRImage == "" {
		entry.SourceImage = raw.Image
	}
	return entry, nil
}

// Merge combines two mappings into a new one. Entries in src win by key,
// except that a present tool id never regresses to empty: if dst already
// knows the id and src does not, the merged entry keeps it. Over disjoint
// keys Merge is commutative and associative, which is what lets per-image
// results from concurrent workers be folded in any order.
func Merge(dst, src Mapping) Mapping {
	merged := make(Mapping, len(dst)+len(src))
	for k, v := range dst {
		merged[k] = v
	}
	for k, v := range src {
		if prev, ok := merged[k]; ok && v.ToolID == "" && prev.ToolID != "" {
			v.ToolID = prev.ToolID
		}
		merged[k] = v
	}
	return merged
}

// Save writes the full mapping atomically: a temp file in the target
// directory is renamed over the destination so readers never observe a
// partial write.
func Save(path string, m Mapping) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode mapping: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tool_mapping-*.json")
	if err != nil {
		return fmt.Errorf("create temp mapping file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write mapping file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close mapping file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("chmod mapping file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace mapping file: %w", err)
	}
	return nil
}

// WithLock runs fn while holding an exclusive advisory lock next to the
// mapping file, so two concurrent runs cannot interleave their
// load-modify-save cycles.
func WithLock(path string, fn func() error) error {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock mapping file: %w", err)
	}
	defer lock.Unlock()
	return fn()
}
