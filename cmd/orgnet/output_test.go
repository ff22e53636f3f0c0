package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ai4socialgood/orgnet/internal/graph"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"AutismBC", 40, "AutismBC"},
		{"Azrieli Centre for Autism Research (ACAR)", 20, "Azrieli Centre fo..."},
		{"Société québécoise de l'autisme", 12, "Société q..."},
		{"Autisme Montréal", 16, "Autisme Montréal"},
		{"AutismBC", 3, "Aut"},
		{"AutismBC", 0, ""},
		{"AutismBC", -1, ""},
	}
	for _, tt := range tests {
		if got := truncateString(tt.in, tt.maxLen); got != tt.want {
			t.Errorf("truncateString(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
		}
	}
}

func TestWrapList(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		width int
		want  string
	}{
		{"empty", nil, 20, "  (none)"},
		{"one line", []string{"a", "b"}, 20, "  a, b"},
		{"wraps", []string{"alpha", "beta", "gamma"}, 12, "  alpha, beta\n  gamma"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wrapList(tt.items, tt.width, "  "); got != tt.want {
				t.Errorf("wrapList() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("org acar: %w", graph.ErrRootNotFound), ExitRootNotFound},
		{context.Canceled, ExitError},
		{errors.New("bad line"), ExitDataError},
	}
	for _, tt := range tests {
		if got := loadExitCode(tt.err); got != tt.want {
			t.Errorf("loadExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
