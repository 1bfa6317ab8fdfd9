package sysmod

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		terms  []string
		kwargs map[string]string
	}{
		{
			name:  "nothing",
			args:  nil,
			terms: []string{},
		},
		{
			name:  "plain terms",
			args:  []string{"pkg", "sys.doc"},
			terms: []string{"pkg", "sys.doc"},
		},
		{
			name:   "garbage keyword dropped",
			args:   []string{"garbage_keyword_arg=123"},
			terms:  []string{},
			kwargs: map[string]string{"garbage_keyword_arg": "123"},
		},
		{
			name:   "mixed keeps term order",
			args:   []string{"user", "refresh=True", "pkg"},
			terms:  []string{"user", "pkg"},
			kwargs: map[string]string{"refresh": "True"},
		},
		{
			name:  "leading equals is a term",
			args:  []string{"=x"},
			terms: []string{"=x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms, kwargs := SplitArgs(tt.args)
			assert.Equal(t, tt.terms, terms)
			assert.Equal(t, tt.kwargs, kwargs)
		})
	}
}
