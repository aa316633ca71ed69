package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOverride(t *testing.T) {
	tests := []struct {
		in      string
		want    Override
		wantErr bool
	}{
		{in: "outline.grow_radius=-5", want: Override{Node: "outline", Property: "grow_radius", Value: "-5"}},
		{in: "outline.color=rgb(1, 0, 0)", want: Override{Node: "outline", Property: "color", Value: "rgb(1, 0, 0)"}},
		{in: "outline.blur.std_dev_x=3", want: Override{Node: "outline.blur", Property: "std_dev_x", Value: "3"}},
		{in: "outline.radius=", want: Override{Node: "outline", Property: "radius", Value: ""}},
		{in: "outline.radius", wantErr: true},
		{in: "radius=3", wantErr: true},
		{in: "outline.=3", wantErr: true},
		{in: "bad name!.radius=3", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOverride(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewConfig(t *testing.T) {
	cfg, err := NewConfig(Config{GridPath: "main.hcl"})
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Format)

	_, err = NewConfig(Config{})
	assert.Error(t, err)

	_, err = NewConfig(Config{GridPath: "main.hcl", Format: "png"})
	assert.Error(t, err)
}

func TestLoadFileConfig(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "strokegraph.toml")
	require.NoError(t, os.WriteFile(good, []byte(`
log_level = "debug"
log_format = "pretty"
format = "dot"
output = "out.dot"
modules_path = "extra"
`), 0o600))

	fc, err := LoadFileConfig(good)
	require.NoError(t, err)
	assert.Equal(t, &FileConfig{
		ModulesPath: "extra",
		LogFormat:   "pretty",
		LogLevel:    "debug",
		Format:      "dot",
		Output:      "out.dot",
	}, fc)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte(`workers = 10`), 0o600))
	_, err = LoadFileConfig(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown keys workers")

	_, err = LoadFileConfig(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"text", "json", "pretty"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger("warn", format, &buf)

			logger.Info("hidden")
			logger.Warn("shown", "node", "outline")

			assert.NotContains(t, buf.String(), "hidden")
			assert.Contains(t, buf.String(), "shown")
			assert.Contains(t, buf.String(), "outline")
		})
	}
}
