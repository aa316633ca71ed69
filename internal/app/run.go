package app

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/strokegraph/internal/ctxlog"
	"github.com/vk/strokegraph/internal/render"
)

// Run executes the main application logic based on the provided configuration.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	g, err := a.Build(ctx)
	if err != nil {
		return fmt.Errorf("failed to build graph: %w", err)
	}

	for _, o := range appConfig.Overrides {
		if err := a.ApplyOverride(ctx, g, o); err != nil {
			return err
		}
	}

	snapshot := g.Snapshot(ctx)
	if len(snapshot.Nodes) == 0 {
		a.logger.Warn("No nodes found in pipeline, nothing to render.")
	}

	var out []byte
	switch appConfig.Format {
	case "dot":
		out = []byte(render.ToDOT(snapshot))
	case "svg":
		out, err = render.RenderSVG(ctx, render.ToDOT(snapshot))
		if err != nil {
			return fmt.Errorf("failed to render svg: %w", err)
		}
	default:
		out = []byte(render.Text(snapshot))
	}

	if err := a.write(appConfig.OutputPath, out); err != nil {
		return err
	}
	a.logger.Debug("App.Run method finished.", "format", appConfig.Format, "bytes", len(out))
	return nil
}

func (a *App) write(path string, out []byte) error {
	if path == "" {
		_, err := a.outW.Write(out)
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	a.logger.Info("Topology written.", "path", path)
	return nil
}
