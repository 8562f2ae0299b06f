package discovery

import (
	"path/filepath"
	"strings"
)

// DefaultModuleExtensions are the file extensions of loadable manifest modules.
var DefaultModuleExtensions = []string{".yaml", ".yml", ".json"}

// Filter selects module files by name.
type Filter struct {
	extensions map[string]bool
}

// NewFilter creates a Filter that accepts the given extensions when no name pattern is set.
// With no extensions the defaults are used.
func NewFilter(extensions ...string) *Filter {
	if len(extensions) == 0 {
		extensions = DefaultModuleExtensions
	}
	ext := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		ext[strings.ToLower(e)] = true
	}
	return &Filter{extensions: ext}
}

// IsLoadable reports whether the file has one of the loadable extensions.
func (f *Filter) IsLoadable(path string) bool {
	return f.extensions[strings.ToLower(filepath.Ext(path))]
}

// FilterByName keeps the module paths whose base name matches pattern. An empty pattern keeps
// every loadable module. Supports patterns like "*Samples.yaml" or "*Sample*".
func (f *Filter) FilterByName(paths []string, pattern string) []string {
	var filtered []string
	for _, p := range paths {
		if f.Matches(p, pattern) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// Matches reports whether a single module path passes the filter.
func (f *Filter) Matches(path, pattern string) bool {
	name := filepath.Base(path)
	if pattern == "" {
		return f.IsLoadable(name)
	}

	if matched, err := filepath.Match(pattern, name); err == nil && matched {
		return true
	}

	if strings.ContainsAny(pattern, "*?") {
		// "*Sample*Tests*": every non-empty part must appear in the name
		parts := strings.Split(pattern, "*")
		found := false
		for _, part := range parts {
			if part == "" {
				continue
			}
			if strings.Contains(part, "?") || !strings.Contains(name, part) {
				return false
			}
			found = true
		}
		return found
	}

	return strings.Contains(name, pattern)
}
