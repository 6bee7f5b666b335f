// Package filter decides whether filesystem entries participate in a snapshot.
package filter

import (
	"path/filepath"
	"strings"
)

const hiddenNamePrefix = "."

const markdownExtension = ".md"

// mediaExtensions lists file suffixes identifying binary assets that never
// belong in a text snapshot.
var mediaExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".bmp":  {},
	".webp": {},
	".svg":  {},
	".ico":  {},
	".mp3":  {},
	".wav":  {},
	".ogg":  {},
	".mp4":  {},
	".mov":  {},
	".avi":  {},
	".mpeg": {},
	".mkv":  {},
	".webm": {},
	".pdf":  {},
}

// defaultIgnoreNames holds the literal names excluded from every snapshot
// unless overridden: version-control folders, dependency folders, lockfiles,
// and license or contribution documents.
var defaultIgnoreNames = []string{
	".git",
	"node_modules",
	"vendor",
	"dist",
	"build",
	"target",
	"package-lock.json",
	"yarn.lock",
	"pnpm-lock.yaml",
	"go.sum",
	"LICENSE",
	"README.md",
	"CONTRIBUTING.md",
}

// IgnoreSet is an ordered set of literal entry names excluded from snapshots.
// Matching is exact-name, never pattern-based, and applies at any depth.
type IgnoreSet struct {
	names map[string]struct{}
}

// NewIgnoreSet constructs an IgnoreSet containing the provided literal names.
func NewIgnoreSet(names ...string) *IgnoreSet {
	ignoreSet := &IgnoreSet{names: make(map[string]struct{}, len(names))}
	ignoreSet.Add(names...)
	return ignoreSet
}

// NewDefaultIgnoreSet constructs an IgnoreSet seeded with the default ignore
// names plus any additional names supplied by configuration or flags.
func NewDefaultIgnoreSet(additionalNames ...string) *IgnoreSet {
	ignoreSet := NewIgnoreSet(defaultIgnoreNames...)
	ignoreSet.Add(additionalNames...)
	return ignoreSet
}

// Add inserts literal names into the set.
func (ignoreSet *IgnoreSet) Add(names ...string) {
	for _, name := range names {
		trimmedName := strings.TrimSpace(name)
		if trimmedName == "" {
			continue
		}
		ignoreSet.names[trimmedName] = struct{}{}
	}
}

// Contains reports whether the exact name is a member of the set.
func (ignoreSet *IgnoreSet) Contains(name string) bool {
	if ignoreSet == nil {
		return false
	}
	_, exists := ignoreSet.names[name]
	return exists
}

// DefaultIgnoreNames returns a copy of the built-in ignore list.
func DefaultIgnoreNames() []string {
	return append([]string(nil), defaultIgnoreNames...)
}

// Include reports whether the named entry participates in the snapshot.
// Rules are evaluated in order and short-circuit on the first match:
// hidden names, markdown files, media files, then exact ignore-set members.
// Excluded directories are pruned entirely by the callers.
func Include(name string, isDirectory bool, ignoreSet *IgnoreSet) bool {
	if strings.HasPrefix(name, hiddenNamePrefix) {
		return false
	}
	if !isDirectory {
		lowercasedName := strings.ToLower(name)
		if strings.HasSuffix(lowercasedName, markdownExtension) {
			return false
		}
		if _, isMedia := mediaExtensions[filepath.Ext(lowercasedName)]; isMedia {
			return false
		}
	}
	if ignoreSet.Contains(name) {
		return false
	}
	return true
}
