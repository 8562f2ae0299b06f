package discovery

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atr/internal/domain"
	"atr/internal/registry"
	"atr/internal/restcall"
)

type fixture struct{}

func pass(*fixture, context.Context, *restcall.Client) error { return nil }

func newRegistry() *registry.Registry {
	r := registry.New()
	newFixture := func() (*fixture, error) { return &fixture{}, nil }
	registry.Class(r, "ClassA", newFixture).
		Method("Setup", pass).
		Method("Other", pass).
		Method("First", pass).
		Method("Second", pass).
		Method("Teardown", pass)
	registry.Class(r, "ClassB", newFixture).
		Method("Only", pass)
	return r
}

const classAManifest = `types:
  - name: ClassA
    markers: [test_container]
    methods:
      - name: Setup
        markers: [pre_test]
      - name: First
        markers: [test]
      - name: Other
        markers: [pre_test]
      - name: Second
        markers: [test]
      - name: Teardown
        markers: [post_test]
  - name: Helper
    methods:
      - name: Ignored
        markers: [test]
`

const classBManifest = `{"types": [{"name": "ClassB", "markers": ["test_container"], "methods": [{"name": "Only", "markers": ["test"]}]}]}`

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func unitNames(t *testing.T, units []domain.UnitID) []string {
	t.Helper()
	names := make([]string, 0, len(units))
	for _, u := range units {
		names = append(names, u.String())
	}
	return names
}

func TestScanner_Scan(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a/classA.yaml":           classAManifest,
		"b/classB.json":           classBManifest,
		"vendor/classA.yaml":      classAManifest,
		".hidden/classB.json":     classBManifest,
		"notes.txt":               "not a module",
		"b/nested/unknown.yml":    "types:\n  - name: Missing\n    markers: [test_container]\n",
		"b/nested/malformed.yaml": "types: [unterminated\n",
	})

	scanner := NewScanner(newRegistry(), []string{"vendor"})

	cat, warnings, err := scanner.Scan(root, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"ClassA:First", "ClassA:Second", "ClassB:Only"}, unitNames(t, cat.Units()))

	require.Len(t, cat.Classes, 2)
	classA := cat.Classes[0]
	assert.Equal(t, filepath.Join(root, "a", "classA.yaml"), classA.Module)
	require.NotNil(t, classA.PreTest)
	assert.Equal(t, "Setup", classA.PreTest.Name)
	require.NotNil(t, classA.PostTest)
	assert.Equal(t, "Teardown", classA.PostTest.Name)
	assert.Nil(t, cat.Classes[1].PreTest)

	// second pre_test marker, malformed module, unknown type
	require.Len(t, warnings, 3)
	for _, w := range warnings {
		var loadErr *domain.ModuleLoadError
		assert.True(t, errors.As(w, &loadErr), "warning should be a ModuleLoadError: %v", w)
		assert.Equal(t, domain.KindModuleLoad, domain.KindOf(w))
	}

	var unknown *domain.ModuleLoadError
	require.True(t, errors.As(warnings[2], &unknown))
	assert.Equal(t, "Missing", unknown.Type)
}

func TestScanner_ScanIsDeterministic(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"z.yaml": classAManifest,
		"a.json": classBManifest,
	})
	scanner := NewScanner(newRegistry(), nil)

	first, _, err := scanner.Scan(root, "")
	require.NoError(t, err)
	second, _, err := scanner.Scan(root, "")
	require.NoError(t, err)

	assert.Equal(t, unitNames(t, first.Units()), unitNames(t, second.Units()))
	assert.Equal(t, []string{"ClassB:Only", "ClassA:First", "ClassA:Second"}, unitNames(t, first.Units()))
}

func TestScanner_UnknownMethodIsSkipped(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"b.yaml": "types:\n  - name: ClassB\n    markers: [test_container]\n    methods:\n      - name: Only\n        markers: [test]\n      - name: Gone\n        markers: [test]\n",
	})

	cat, warnings, err := NewScanner(newRegistry(), nil).Scan(root, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"ClassB:Only"}, unitNames(t, cat.Units()))
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Error(), "Gone")
}

func TestScanner_FilePathScansItsDirectory(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"classA.yaml": classAManifest,
		"classB.json": classBManifest,
	})

	cat, _, err := NewScanner(newRegistry(), nil).Scan(filepath.Join(root, "classB.json"), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"ClassB:Only"}, unitNames(t, cat.Units()))
}

func TestScanner_NamePattern(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"classA.yaml": classAManifest,
		"classB.json": classBManifest,
	})

	cat, _, err := NewScanner(newRegistry(), nil).Scan(root, "*A*")
	require.NoError(t, err)
	assert.Equal(t, []string{"ClassA:First", "ClassA:Second"}, unitNames(t, cat.Units()))
}

func TestScanner_InvalidRoot(t *testing.T) {
	_, _, err := NewScanner(newRegistry(), nil).Scan("/non/existent/path", "")
	assert.Error(t, err)
}

func TestDecodeManifest_RejectsUnnamedEntries(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unnamed type", content: "types:\n  - markers: [test_container]\n"},
		{name: "unnamed method", content: "types:\n  - name: A\n    methods:\n      - markers: [test]\n"},
		{name: "unknown field", content: "types:\n  - name: A\n    tests: []\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeManifest(stringReader(tt.content))
			assert.Error(t, err)
		})
	}

	m, err := DecodeManifest(stringReader(""))
	require.NoError(t, err)
	assert.Empty(t, m.Types)
}

func stringReader(s string) *strings.Reader {
	return strings.NewReader(s)
}
