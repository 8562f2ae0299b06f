package discovery

import (
	"testing"
)

func TestFilter_FilterByName(t *testing.T) {
	filter := NewFilter()

	tests := []struct {
		name     string
		paths    []string
		pattern  string
		expected int
	}{
		{
			name:     "empty pattern keeps loadable modules",
			paths:    []string{"Samples.yaml", "Orders.yml", "Users.json", "README.md", "build.sh"},
			pattern:  "",
			expected: 3,
		},
		{
			name:     "exact file name",
			paths:    []string{"Samples.yaml", "Orders.yaml"},
			pattern:  "Samples.yaml",
			expected: 1,
		},
		{
			name:     "wildcard pattern matches suffix",
			paths:    []string{"SamplesTests.yaml", "OrdersTests.yaml", "Samples.json"},
			pattern:  "*Tests.yaml",
			expected: 2,
		},
		{
			name:     "wildcard pattern matches substring",
			paths:    []string{"SamplesTests.yaml", "OrdersTests.yaml", "MoreSamples.yaml"},
			pattern:  "*Samples*",
			expected: 2,
		},
		{
			name:     "simple contains match",
			paths:    []string{"SamplesTests.yaml", "OrdersTests.yaml"},
			pattern:  "Orders",
			expected: 1,
		},
		{
			name:     "no matches",
			paths:    []string{"SamplesTests.yaml"},
			pattern:  "*Missing*",
			expected: 0,
		},
		{
			name:     "full path with wildcard",
			paths:    []string{"/path/to/SamplesTests.yaml", "/path/to/OrdersTests.yaml"},
			pattern:  "*SamplesTests.yaml",
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := filter.FilterByName(tt.paths, tt.pattern)
			if len(result) != tt.expected {
				t.Errorf("expected %d matches, got %d (%v)", tt.expected, len(result), result)
			}
		})
	}
}

func TestFilter_CustomExtensions(t *testing.T) {
	filter := NewFilter(".manifest")

	if !filter.IsLoadable("api.MANIFEST") {
		t.Error("extension match should ignore case")
	}
	if filter.IsLoadable("api.yaml") {
		t.Error("default extensions should not apply when custom ones are given")
	}
}

func TestFilter_FilterByName_EdgeCases(t *testing.T) {
	filter := NewFilter()

	t.Run("empty path list", func(t *testing.T) {
		result := filter.FilterByName([]string{}, "*.yaml")
		if len(result) != 0 {
			t.Errorf("expected empty result, got %d items", len(result))
		}
	})

	t.Run("pattern of only wildcards", func(t *testing.T) {
		result := filter.FilterByName([]string{"a.yaml", "b.txt"}, "*")
		if len(result) != 2 {
			t.Errorf("expected filepath.Match to accept everything, got %d", len(result))
		}
	})
}
