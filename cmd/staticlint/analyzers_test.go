package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/analysistest"
)

func TestExitInMainAnalyzer(t *testing.T) {
	analysistest.Run(t, analysistest.TestData(), ExitInMainAnalyzer, "exitcheck", "helperexit")
}

func TestStatelessCoreAnalyzer(t *testing.T) {
	analysistest.Run(t, analysistest.TestData(), StatelessCoreAnalyzer,
		"huffpress/internal/engine",
		"huffpress/internal/lossless",
		"huffpress/internal/service",
	)
}

func TestInCodecScope(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "huffpress/internal/huffman", want: true},
		{path: "huffpress/internal/container", want: true},
		{path: "internal/engine", want: true},
		{path: "huffpress/internal/lossless", want: true},
		{path: "huffpress/internal/service", want: false},
		{path: "huffpress/internal/enginex", want: false},
		{path: "huffpress/cmd/server", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, inCodecScope(tt.path))
		})
	}
}

func TestAnalyzersRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, a := range analyzers() {
		assert.NoError(t, analysis.Validate([]*analysis.Analyzer{a}), a.Name)
		names[a.Name] = true
	}
	for _, want := range []string{"exitinmain", "statelesscore", "nilerr", "exhaustive", "SA4006", "printf"} {
		assert.True(t, names[want], want)
	}
	assert.False(t, names["ST1000"])
	assert.False(t, names["ST1003"])
	assert.False(t, names["fieldalignment"])
}
