package variables

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"atr/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContext_Resolve(t *testing.T) {
	vars := New(map[string]string{"id": "1", "host": "localhost:36146"})

	tests := []struct {
		name     string
		template string
		expected string
	}{
		{"single variable", "http://host/v1/Samples/${id}", "http://host/v1/Samples/1"},
		{"no placeholders", "http://host/v1/Samples", "http://host/v1/Samples"},
		{"repeated variable", "/${id}/${id}/${id}", "/1/1/1"},
		{"several variables", "http://${host}/v1/Samples/${id}", "http://localhost:36146/v1/Samples/1"},
		{"malformed placeholder is literal", "http://host/${not-a-name}/$id", "http://host/${not-a-name}/$id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := vars.Resolve(tt.template)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestContext_ResolveMissingVariable(t *testing.T) {
	vars := New(map[string]string{"id": "1"})

	_, err := vars.Resolve("http://${host}/v1/Samples/${id}")
	require.Error(t, err)

	var cfgErr *domain.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "host", cfgErr.Variable)
	assert.Contains(t, err.Error(), "host")
	assert.Equal(t, domain.KindConfiguration, domain.KindOf(err))
}

func TestContext_ResolveValueIsNotRescanned(t *testing.T) {
	vars := New(map[string]string{"a": "${b}", "b": "x"})

	result, err := vars.Resolve("${a}")
	require.NoError(t, err)
	assert.Equal(t, "${b}", result)
}

func TestNew_CopiesValues(t *testing.T) {
	values := map[string]string{"id": "1"}
	vars := New(values)
	values["id"] = "2"

	v, ok := vars.Lookup("id")
	assert.True(t, ok)
	assert.Equal(t, "1", v)
}

func TestParseAssignments(t *testing.T) {
	t.Run("valid assignments", func(t *testing.T) {
		vars, err := ParseAssignments([]string{"id=1", "url=http://x/?a=b", "empty="})
		require.NoError(t, err)
		assert.Equal(t, []string{"empty", "id", "url"}, vars.Names())
		v, _ := vars.Lookup("url")
		assert.Equal(t, "http://x/?a=b", v)
	})

	t.Run("missing equals sign", func(t *testing.T) {
		_, err := ParseAssignments([]string{"id"})
		assert.Error(t, err)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := ParseAssignments([]string{"=1"})
		assert.Error(t, err)
	})
}

func TestFromFilesAndMerge(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "base.env")
	second := filepath.Join(dir, "local.env")
	require.NoError(t, os.WriteFile(first, []byte("baseUrl=http://localhost:1\nid=1\n"), 0644))
	require.NoError(t, os.WriteFile(second, []byte("id=2\n"), 0644))

	fromFiles, err := FromFiles(first, second)
	require.NoError(t, err)
	id, _ := fromFiles.Lookup("id")
	assert.Equal(t, "2", id)

	flags, err := ParseAssignments([]string{"id=3"})
	require.NoError(t, err)
	merged := fromFiles.Merge(flags)
	id, _ = merged.Lookup("id")
	assert.Equal(t, "3", id)
	assert.Equal(t, 2, merged.Len())

	// the originals are untouched
	id, _ = fromFiles.Lookup("id")
	assert.Equal(t, "2", id)

	_, err = FromFiles(filepath.Join(dir, "missing.env"))
	assert.Error(t, err)
}
