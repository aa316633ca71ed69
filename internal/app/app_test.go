package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/strokegraph/internal/graph"
)

const strokePipeline = `
node "gegl:color" "fill" {
  arguments {
    value = "white"
  }
}

node "gegl:stroke" "outline" {
  input = "fill"
  arguments {
    radius      = 4
    grow_shape  = "square"
    grow_radius = -5
    color       = "#00ff00"
  }
}
`

func TestRun_TextOutput(t *testing.T) {
	// Arrange
	cfg := &Config{GridPath: WritePipeline(t, strokePipeline), Format: "text"}
	a, out, _ := SetupAppTest(t, cfg)

	// Act
	err := a.Run(context.Background(), cfg)

	// Assert
	require.NoError(t, err)
	text := out.String()
	assert.Contains(t, text, "node outline (gegl:stroke)")
	assert.Contains(t, text, `  grow_shape = "square"`)
	assert.Contains(t, text, "fill:output -> outline:input")
	assert.Contains(t, text, "outline.color:output -> outline.darken:aux")
	assert.Contains(t, text, "active path outline: input -> darken -> blur -> opacity -> translate -> over -> output")
}

func TestRun_OverridesApplyInOrder(t *testing.T) {
	cfg := &Config{
		GridPath: WritePipeline(t, strokePipeline),
		Format:   "text",
		Overrides: []Override{
			{Node: "outline", Property: "grow_radius", Value: "8"},
			{Node: "outline", Property: "radius", Value: "2.5"},
			{Node: "outline", Property: "color", Value: "red"},
		},
	}
	a, out, logs := SetupAppTest(t, cfg)

	require.NoError(t, a.Run(context.Background(), cfg))

	text := out.String()
	assert.Contains(t, text, "active path outline: input -> grow -> darken -> blur -> opacity -> translate -> over -> output")
	assert.Contains(t, text, "  std_dev_x = 2.5")
	assert.Contains(t, text, `  value = "rgba(1.0000, 0.0000, 0.0000, 1.0000)"`)
	assert.Contains(t, logs.String(), "Override applied.")
}

func TestRun_OverrideErrors(t *testing.T) {
	tests := []struct {
		name    string
		o       Override
		wantErr error
	}{
		{"unknown node", Override{Node: "nope", Property: "radius", Value: "1"}, graph.ErrNodeNotFound},
		{"unknown property", Override{Node: "outline", Property: "nope", Value: "1"}, graph.ErrUnknownProperty},
		{"out of range", Override{Node: "outline", Property: "opacity", Value: "3"}, graph.ErrOutOfRange},
		{"bad enum", Override{Node: "outline", Property: "grow_shape", Value: "star"}, graph.ErrInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{GridPath: WritePipeline(t, strokePipeline), Format: "text", Overrides: []Override{tt.o}}
			a, _, _ := SetupAppTest(t, cfg)

			err := a.Run(context.Background(), cfg)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRun_DOTToFile(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "graph.dot")
	cfg := &Config{GridPath: WritePipeline(t, strokePipeline), Format: "dot", OutputPath: outPath}
	a, out, _ := SetupAppTest(t, cfg)

	require.NoError(t, a.Run(context.Background(), cfg))

	assert.Empty(t, out.String(), "output goes to the file")
	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "digraph G {")
	assert.Contains(t, string(data), `subgraph "cluster_outline"`)
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr error
		wantMsg string
	}{
		{
			name:    "missing input node",
			src:     `node "gegl:stroke" "outline" { input = "ghost" }`,
			wantErr: graph.ErrNodeNotFound,
		},
		{
			name:    "unknown operation",
			src:     `node "gegl:sparkle" "s" {}`,
			wantErr: graph.ErrUnknownOperation,
		},
		{
			name: "argument out of range",
			src: `
node "gegl:stroke" "outline" {
  arguments {
    radius = 500
  }
}`,
			wantErr: graph.ErrOutOfRange,
		},
		{
			name: "undeclared argument",
			src: `
node "gegl:stroke" "outline" {
  arguments {
    thickness = 2
  }
}`,
			wantMsg: `unknown property "thickness"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{GridPath: WritePipeline(t, tt.src), Format: "text"}
			a, _, _ := SetupAppTest(t, cfg)

			_, err := a.Build(context.Background())
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestNewApp_PanicsOnInvalidPipeline(t *testing.T) {
	cfg := &Config{GridPath: WritePipeline(t, `node "gegl:stroke" "outline" {`), Format: "text"}

	assert.Panics(t, func() { SetupAppTest(t, cfg) })
}
