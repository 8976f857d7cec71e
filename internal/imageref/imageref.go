// Package imageref derives AGS tool names and TCR references from container
// image references. All functions are pure: the same input always produces
// the same output, which is what keeps repeated sync runs idempotent.
package imageref

import (
	"regexp"
	"strings"
)

// MaxToolNameLen is the AGS tool-name length ceiling.
const MaxToolNameLen = 50

// dockerHubPrefix is the well-known public-registry marker.
const dockerHubPrefix = "docker.io/"

var (
	invalidNameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)
	duplicateHyphens = regexp.MustCompile(`-{2,}`)
)

// hasRegistryHost reports whether the first path segment looks like a
// registry host. The check is heuristic: hosts contain a dot or a port
// colon, or are literally the Docker Hub marker. A two-segment reference
// like "ns/repo" never matches because stripping requires at least three
// segments, so callers must gate on segment count.
func hasRegistryHost(segment string) bool {
	return strings.ContainsAny(segment, ".:") || segment == "docker.io"
}

// stripHost removes a leading registry-host segment when one is present.
// "host/ns/repo:tag" loses "host/", but an ambiguous 2-segment "ns/repo:tag"
// is treated as host-less and kept whole.
func stripHost(image string) string {
	parts := strings.Split(image, "/")
	if len(parts) >= 3 && hasRegistryHost(parts[0]) {
		return strings.Join(parts[1:], "/")
	}
	return image
}

// Rewrite rewrites an image reference under the target registry host.
// The Docker Hub marker and any other host segment are dropped; the
// repository path and tag are preserved.
//
//	Rewrite("docker.io/ns/repo:tag", "R")        -> "R/ns/repo:tag"
//	Rewrite("host.example.com/ns/repo:tag", "R") -> "R/ns/repo:tag"
//	Rewrite("ns/repo:tag", "R")                  -> "R/ns/repo:tag"
func Rewrite(image, targetRegistry string) string {
	image = strings.TrimPrefix(image, dockerHubPrefix)
	return targetRegistry + "/" + stripHost(image)
}

// BuildToolName builds a valid AGS tool name from an image reference.
//
// Constraints: only letters, numbers, underscores, hyphens; max 50 chars;
// no leading, trailing, or duplicate hyphens. Strategy: <repo>-<tag>,
// truncating the repo part as needed to fit, and never the tag — unless the
// tag alone exceeds the ceiling, in which case the tag itself is truncated
// and the repo part dropped.
//
// Example: ccr.ccs.tencentyun.com/namanjain12/aiohttp_final:abcdef123
//	-> aiohttp_final-abcdef123
//
// No uniqueness is guaranteed: distinct images that sanitize and truncate to
// the same name collide. The reconciler warns when it sees this in a plan.
func BuildToolName(image string) string {
	repoWithTag := stripHost(image)

	repo, tag := repoWithTag, ""
	if i := strings.LastIndex(repoWithTag, ":"); i >= 0 {
		repo, tag = repoWithTag[:i], repoWithTag[i+1:]
	}

	// Only the final path segment names the tool; namespace segments are
	// covered by the tag's uniqueness in practice.
	base := repo
	if i := strings.LastIndex(repo, "/"); i >= 0 {
		base = repo[i+1:]
	}

	base = sanitize(base)
	tag = sanitize(tag)

	var name string
	switch {
	case tag == "":
		name = truncate(base, MaxToolNameLen)
	case MaxToolNameLen-len(tag)-1 < 1:
		// Tag alone exhausts the budget.
		name = truncate(tag, MaxToolNameLen)
	default:
		name = truncate(base, MaxToolNameLen-len(tag)-1) + "-" + tag
	}

	return strings.Trim(duplicateHyphens.ReplaceAllString(name, "-"), "-")
}

func sanitize(s string) string {
	return strings.Trim(invalidNameChars.ReplaceAllString(s, "-"), "-")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
