package ui

import (
	"reflect"
	"testing"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		s1       string
		s2       string
		expected int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"sys", "sysctl", 3},
		{"pgk", "pkg", 2},
		{"héllo", "hello", 1},
	}

	for _, tt := range tests {
		t.Run(tt.s1+"_"+tt.s2, func(t *testing.T) {
			result := LevenshteinDistance(tt.s1, tt.s2)
			if result != tt.expected {
				t.Errorf("LevenshteinDistance(%q, %q) = %d; want %d", tt.s1, tt.s2, result, tt.expected)
			}
		})
	}
}

func TestFindSimilar(t *testing.T) {
	candidates := []string{"pkg", "service", "sys", "sysctl", "user"}

	tests := []struct {
		name     string
		target   string
		opts     *FuzzyMatchOptions
		expected []string
	}{
		{
			name:     "exact match first then ties in candidate order",
			target:   "sys",
			opts:     nil,
			expected: []string{"sys", "pkg", "sysctl"},
		},
		{
			name:     "closest first",
			target:   "systl",
			opts:     nil,
			expected: []string{"sysctl", "sys"},
		},
		{
			name:     "case insensitive",
			target:   "PKG",
			opts:     nil,
			expected: []string{"pkg", "sys"},
		},
		{
			name:   "case sensitive",
			target: "PKG",
			opts: &FuzzyMatchOptions{
				MaxDistance:    2,
				MaxSuggestions: 3,
				CaseSensitive:  true,
			},
			expected: []string{},
		},
		{
			name:     "no match too far",
			target:   "kubernetes",
			opts:     nil,
			expected: []string{},
		},
		{
			name:   "max suggestions limit",
			target: "sys",
			opts: &FuzzyMatchOptions{
				MaxSuggestions: 1,
			},
			expected: []string{"sys"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FindSimilar(tt.target, candidates, tt.opts)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("FindSimilar(%q) = %v; want %v", tt.target, result, tt.expected)
			}
		})
	}
}

func TestFindSimilarDoesNotModifyOptions(t *testing.T) {
	opts := &FuzzyMatchOptions{}
	FindSimilar("x", []string{"y"}, opts)
	if opts.MaxDistance != 0 || opts.MaxSuggestions != 0 {
		t.Errorf("options were modified: %+v", opts)
	}
}
