package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/df07/go-pathtracer/pkg/config"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// watchDebounce collapses the burst of events editors emit for one save
const watchDebounce = 200 * time.Millisecond

// renderFlags are bound to the render command line
type renderFlags struct {
	cfg        config.RenderConfig
	configPath string
	watch      bool
	noProgress bool
}

// newRenderCmd renders a preset or a YAML scene file to an image
func newRenderCmd() *cobra.Command {
	f := &renderFlags{cfg: config.Default()}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a scene to an image file",
		Example: "  pathtracer render --scene cornell --out cornell.png\n" +
			"  pathtracer render --scene scenes/example.yaml --watch",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, f)
			if err != nil {
				return err
			}
			if f.watch {
				return watchAndRender(cmd.Context(), cmd, cfg, !f.noProgress)
			}
			return renderOnce(cmd.Context(), cmd, cfg, !f.noProgress)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.configPath, "config", "c", "", "TOML render settings; flags override it")
	flags.StringVarP(&f.cfg.Scene, "scene", "s", f.cfg.Scene, "Built-in scene name or path to a .yaml scene file")
	flags.StringVarP(&f.cfg.Output, "out", "o", f.cfg.Output, "Output image (.png, .jpg, .bmp, .tiff)")
	flags.IntVar(&f.cfg.Width, "width", 0, "Image width (0 keeps the scene's)")
	flags.IntVar(&f.cfg.Height, "height", 0, "Image height (0 keeps the scene's)")
	flags.IntVar(&f.cfg.Samples, "samples", 0, "Samples per pixel (0 keeps the scene's)")
	flags.IntVar(&f.cfg.MaxDepth, "depth", f.cfg.MaxDepth, "Maximum bounces per path")
	flags.Float64Var(&f.cfg.Threshold, "threshold", f.cfg.Threshold, "Stop paths whose throughput falls below this")
	flags.BoolVar(&f.cfg.ImportanceSampling, "importance", f.cfg.ImportanceSampling, "Steer diffuse bounces toward lights and glass")
	flags.IntVarP(&f.cfg.Workers, "workers", "w", 0, "Render goroutines (0 = one per CPU)")
	flags.IntVar(&f.cfg.TileSize, "tile-size", f.cfg.TileSize, "Tile edge in pixels")
	flags.Int64Var(&f.cfg.Seed, "seed", f.cfg.Seed, "Random seed; equal seeds give identical images")
	flags.IntVar(&f.cfg.Bench, "bench", 0, "Time this many random pixels first and log an estimate")
	flags.BoolVar(&f.watch, "watch", false, "Re-render when the YAML scene file changes")
	flags.BoolVar(&f.noProgress, "no-progress", false, "Hide the progress bar")
	return cmd
}

// renderOnce loads the scene, renders it and saves the image
func renderOnce(ctx context.Context, cmd *cobra.Command, cfg config.RenderConfig, showProgress bool) error {
	logger := slog.Default().With("scene", cfg.Scene)

	job, err := newRenderJob(cfg)
	if err != nil {
		return err
	}
	tracer := cfg.Tracer()

	if cfg.Bench > 0 {
		bench := renderer.Bench(job.camera, tracer, job.preset.Scene, cfg.Bench, cfg.Seed)
		logger.Debug("benchmark",
			"pixels", bench.Pixels,
			"rate", renderer.FormatRate(bench.PixelsPerSecond)+"pixels/s",
			"estimate", bench.Estimate.Round(time.Millisecond))
	}

	opts := cfg.RenderOptions(logger)
	tiles := len(renderer.NewTileGrid(job.camera.Width(), job.camera.Height(), cfg.TileSize))
	stopProgress := func() {}
	if showProgress {
		events := make(chan renderer.TileCompletionResult, tiles)
		opts.Progress = events
		progressDone := make(chan struct{})
		go func() {
			defer close(progressDone)
			trackProgress(cmd.ErrOrStderr(), job.preset.Name, tiles, events)
		}()
		stopProgress = func() {
			close(events)
			<-progressDone
		}
	}

	img, stats, err := renderer.Render(ctx, job.preset.Scene, job.camera, tracer, opts)
	stopProgress()
	if err != nil {
		return err
	}

	if dir := filepath.Dir(cfg.Output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := loaders.SaveImage(cfg.Output, img); err != nil {
		return err
	}

	summary(cmd.OutOrStdout(), cfg.Output, stats)
	return nil
}

// trackProgress advances a progress bar once per finished tile until events closes
func trackProgress(w io.Writer, name string, tiles int, events <-chan renderer.TileCompletionResult) {
	bar := progressbar.NewOptions(tiles,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("rendering "+name),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	for range events {
		bar.Add(1)
	}
	bar.Finish()
}

// watchAndRender renders the scene file, then again after every change to
// it, until ctx is cancelled. Load and render errors are logged and the
// watch continues.
func watchAndRender(ctx context.Context, cmd *cobra.Command, cfg config.RenderConfig, showProgress bool) error {
	if !isSceneFile(cfg.Scene) {
		return fmt.Errorf("--watch needs a .yaml scene file, got %q", cfg.Scene)
	}
	path, err := filepath.Abs(cfg.Scene)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file, so watch its directory
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	rerender := func() {
		if err := renderOnce(ctx, cmd, cfg, showProgress); err != nil && !isCancelled(err) {
			slog.Error("render failed", "scene", cfg.Scene, "error", err)
		}
	}
	rerender()
	slog.Info("watching for changes", "file", path)

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				debounce = time.After(watchDebounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("file watcher error", "error", err)

		case <-debounce:
			debounce = nil
			slog.Info("scene changed, rendering again", "file", path)
			rerender()
		}
	}
}
