package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/vk/strokegraph/internal/nodeid"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	GridPath    string // pipeline .hcl file or directory
	ModulesPath string // extra operation manifests

	LogFormat string
	LogLevel  string

	// Format is the topology output format: text, dot or svg.
	Format string
	// OutputPath receives the topology; empty means the app's writer.
	OutputPath string
	// Overrides are applied in order after the pipeline is built.
	Overrides []Override
}

// Override is a single `-set node.property=value` assignment.
type Override struct {
	Node     string
	Property string
	Value    string
}

// ParseOverride splits `outline.grow_radius=-5` into its parts. The node
// address is everything before the last dot of the left-hand side.
func ParseOverride(s string) (Override, error) {
	lhs, value, ok := strings.Cut(s, "=")
	if !ok {
		return Override{}, fmt.Errorf("override %q: expected node.property=value", s)
	}
	dot := strings.LastIndexByte(lhs, '.')
	if dot <= 0 || dot == len(lhs)-1 {
		return Override{}, fmt.Errorf("override %q: expected node.property on the left of '='", s)
	}
	o := Override{Node: lhs[:dot], Property: lhs[dot+1:], Value: value}
	if _, err := nodeid.Parse(o.Node); err != nil {
		return Override{}, fmt.Errorf("override %q: %w", s, err)
	}
	return o, nil
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.GridPath == "" {
		return nil, errors.New("GridPath is a required configuration field and cannot be empty")
	}
	if cfg.Format == "" {
		cfg.Format = "text"
	}
	switch cfg.Format {
	case "text", "dot", "svg":
	default:
		return nil, fmt.Errorf("invalid format %q: must be 'text', 'dot' or 'svg'", cfg.Format)
	}
	return &cfg, nil
}

// FileConfig is the optional TOML configuration file. Every key mirrors a
// command-line flag; flags given explicitly take precedence.
type FileConfig struct {
	ModulesPath string `toml:"modules_path"`
	LogFormat   string `toml:"log_format"`
	LogLevel    string `toml:"log_level"`
	Format      string `toml:"format"`
	Output      string `toml:"output"`
}

// LoadFileConfig reads a TOML configuration file. Unknown keys are errors.
func LoadFileConfig(path string) (*FileConfig, error) {
	var fc FileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config file %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return &fc, nil
}
