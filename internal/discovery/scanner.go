package discovery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"atr/internal/catalog"
	"atr/internal/domain"
)

var errNotRegistered = errors.New("not registered")

// Resolver resolves the names found in manifests to callable handles.
type Resolver interface {
	LookupType(class string) (catalog.TypeHandle, bool)
	LookupMethod(class, method string) (catalog.MethodHandle, bool)
}

// Scanner scans a directory for modules and builds a test catalog from their markers.
type Scanner struct {
	resolver Resolver
	filter   *Filter
	skipDirs map[string]bool
}

// NewScanner creates a new Scanner resolving names through resolver and skipping the given
// directories.
func NewScanner(resolver Resolver, skipDirs []string) *Scanner {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	return &Scanner{resolver: resolver, filter: NewFilter(), skipDirs: skipMap}
}

// Scan builds the catalog for root. If root names a file, its directory is scanned with the
// file name as the filter. Modules that cannot be loaded, and names the resolver does not
// know, are returned as warnings and the scan goes on. The error is only for an unusable root.
func (s *Scanner) Scan(root, pattern string) (*catalog.Catalog, []error, error) {
	dir, pattern, err := s.target(root, pattern)
	if err != nil {
		return nil, nil, err
	}

	modules, warnings := s.FindModules(dir, pattern)

	cat := catalog.New()
	for _, module := range modules {
		manifest, err := LoadManifest(module)
		if err != nil {
			warnings = append(warnings, &domain.ModuleLoadError{Module: module, Err: err})
			continue
		}
		for _, entry := range manifest.Types {
			if !entry.HasMarker(MarkerTestContainer) {
				continue
			}
			d, typeWarnings, ok := s.describe(module, entry)
			warnings = append(warnings, typeWarnings...)
			if ok {
				cat.Add(d)
			}
		}
	}

	return cat, warnings, nil
}

func (s *Scanner) target(root, pattern string) (string, string, error) {
	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return "", "", fmt.Errorf("test path does not exist: %s", root)
	}
	if info.IsDir() {
		return root, pattern, nil
	}
	if !info.Mode().IsRegular() {
		return "", "", fmt.Errorf("test path is not a directory: %s", root)
	}
	return filepath.Dir(root), filepath.Base(root), nil
}

// FindModules lists the module files under root that pass the filter, in lexical walk
// order. Unreadable directories are skipped and reported.
func (s *Scanner) FindModules(root, pattern string) ([]string, []error) {
	var (
		modules  []string
		warnings []error
	)

	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			warnings = append(warnings, &domain.ModuleLoadError{Module: path, Err: err})
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			name := d.Name()
			if strings.HasPrefix(name, ".") || s.skipDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}

		if s.filter.Matches(path, pattern) {
			modules = append(modules, path)
		}
		return nil
	})

	return modules, warnings
}

func (s *Scanner) describe(module string, entry TypeEntry) (catalog.ClassDescriptor, []error, bool) {
	var warnings []error
	warn := func(err error) {
		warnings = append(warnings, &domain.ModuleLoadError{Module: module, Type: entry.Name, Err: err})
	}

	typ, ok := s.resolver.LookupType(entry.Name)
	if !ok {
		warn(errNotRegistered)
		return catalog.ClassDescriptor{}, warnings, false
	}

	d := catalog.ClassDescriptor{Module: module, Type: typ}
	for _, m := range entry.Methods {
		isTest := m.HasMarker(MarkerTest)
		isPre := m.HasMarker(MarkerPreTest)
		isPost := m.HasMarker(MarkerPostTest)
		if !isTest && !isPre && !isPost {
			continue
		}

		handle, ok := s.resolver.LookupMethod(entry.Name, m.Name)
		if !ok {
			warn(fmt.Errorf("method %s: %w", m.Name, errNotRegistered))
			continue
		}

		if isTest {
			d.Tests = append(d.Tests, handle)
		}
		if isPre {
			if d.PreTest == nil {
				h := handle
				d.PreTest = &h
			} else {
				warn(fmt.Errorf("method %s: ignoring second %s marker, %s already set", m.Name, MarkerPreTest, d.PreTest.Name))
			}
		}
		if isPost {
			if d.PostTest == nil {
				h := handle
				d.PostTest = &h
			} else {
				warn(fmt.Errorf("method %s: ignoring second %s marker, %s already set", m.Name, MarkerPostTest, d.PostTest.Name))
			}
		}
	}

	return d, warnings, true
}
