package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/strokegraph/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// overrides collects repeated -set flags.
type overrides []app.Override

func (o *overrides) String() string {
	parts := make([]string, len(*o))
	for i, ov := range *o {
		parts[i] = ov.Node + "." + ov.Property + "=" + ov.Value
	}
	return strings.Join(parts, ",")
}

func (o *overrides) Set(s string) error {
	ov, err := app.ParseOverride(s)
	if err != nil {
		return err
	}
	*o = append(*o, ov)
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("strokegraph", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
strokegraph - Builds and inspects node graphs of meta operations such as gegl:stroke.

Usage:
  strokegraph [options] [GRID_PATH]

Arguments:
  GRID_PATH
    Path to a single .hcl pipeline file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	var sets overrides
	gridFlag := flagSet.String("grid", "", "Path to the pipeline file or directory.")
	gFlag := flagSet.String("g", "", "Path to the pipeline file or directory (shorthand).")
	configFlag := flagSet.String("config", "", "Path to a TOML configuration file. Explicit flags take precedence.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text', 'json' or 'pretty'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	modulesPathFlag := flagSet.String("modules-path", "", "Path to a directory containing additional operation manifests.")
	formatFlag := flagSet.String("format", "text", "Topology output format. Options: 'text', 'dot' or 'svg'.")
	outputFlag := flagSet.String("output", "", "Write the topology to this file instead of stdout.")
	flagSet.Var(&sets, "set", "Set a property after the graph is built, e.g. outline.grow_radius=-5. Repeatable; applied in order.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *gridFlag != "" {
		path = *gridFlag
	} else if *gFlag != "" {
		path = *gFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Grid path determined.", "path", path)

	if path == "" {
		slog.Debug("No grid path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	if *configFlag != "" {
		fc, err := app.LoadFileConfig(*configFlag)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		explicit := make(map[string]bool)
		flagSet.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
		fromFile := func(name string, dst *string, value string) {
			if value != "" && !explicit[name] {
				*dst = value
			}
		}
		fromFile("log-format", logFormatFlag, fc.LogFormat)
		fromFile("log-level", logLevelFlag, fc.LogLevel)
		fromFile("modules-path", modulesPathFlag, fc.ModulesPath)
		fromFile("format", formatFlag, fc.Format)
		fromFile("output", outputFlag, fc.Output)
		slog.Debug("Configuration file applied.", "path", *configFlag)
	}

	logFormat := strings.ToLower(*logFormatFlag)
	switch logFormat {
	case "text", "json", "pretty":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text', 'json' or 'pretty'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		GridPath:    path,
		ModulesPath: *modulesPathFlag,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
		Format:      strings.ToLower(*formatFlag),
		OutputPath:  *outputFlag,
		Overrides:   sets,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
