package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/df07/go-pathtracer/pkg/config"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
	"github.com/df07/go-pathtracer/web/server"
)

// verbosity holds the logging flags shared by every command
type verbosity struct {
	verbose  bool
	veryLoud bool
	quiet    bool
}

// levelFromFlags maps the verbosity flags to a log level. Warn is the default.
func levelFromFlags(v verbosity) slog.Level {
	switch {
	case v.veryLoud:
		return slog.LevelDebug
	case v.verbose:
		return slog.LevelInfo
	case v.quiet:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func newLogger(w io.Writer, v verbosity) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: levelFromFlags(v)}))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Running the root command renders.
func newRootCmd() *cobra.Command {
	var v verbosity

	root := &cobra.Command{
		Use:           "pathtracer",
		Short:         "Offline Monte Carlo path tracer",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(newLogger(cmd.ErrOrStderr(), v))
		},
	}
	root.PersistentFlags().BoolVarP(&v.verbose, "verbose", "v", false, "Log progress information")
	root.PersistentFlags().BoolVar(&v.veryLoud, "vv", false, "Log debug information")
	root.PersistentFlags().BoolVarP(&v.quiet, "quiet", "q", false, "Only log errors")

	render := newRenderCmd()
	root.AddCommand(render, newServeCmd(), newScenesCmd())

	// Bare invocation renders with the render flags
	root.Flags().AddFlagSet(render.Flags())
	root.RunE = render.RunE
	return root
}

// loadPreset resolves name as a YAML scene file when it looks like one,
// and as a built-in preset otherwise
func loadPreset(name string) (scene.Preset, error) {
	if name == "" {
		return scene.Preset{}, fmt.Errorf("%w: empty scene name", scene.ErrUnknownScene)
	}
	if isSceneFile(name) {
		return loaders.LoadSceneFile(name)
	}
	return scene.Load(name)
}

func isSceneFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

// newServeCmd starts the web server
func newServeCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve renders over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.NewServer(port, slog.Default()).Start(cmd.Context())
		},
	}
	cmd.Flags().IntVar(&port, "port", 8080, "Port to serve on")
	return cmd
}

// newScenesCmd lists the built-in scenes
func newScenesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenes",
		Short: "List built-in scenes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := termenv.NewOutput(cmd.OutOrStdout())
			for _, info := range scene.ListScenes() {
				name := out.String(fmt.Sprintf("%-8s", info.ID)).Bold()
				fmt.Fprintf(cmd.OutOrStdout(), "%s %4dx%-4d %5d spp  %s\n",
					name, info.Width, info.Height, info.Samples, info.Description)
			}
			return nil
		},
	}
}

// resolveConfig loads the config file if one is named and applies the
// flags the user set on top of it
func resolveConfig(cmd *cobra.Command, f *renderFlags) (config.RenderConfig, error) {
	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return config.RenderConfig{}, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("scene") {
		cfg.Scene = f.cfg.Scene
	}
	if flags.Changed("out") {
		cfg.Output = f.cfg.Output
	}
	if flags.Changed("width") {
		cfg.Width = f.cfg.Width
	}
	if flags.Changed("height") {
		cfg.Height = f.cfg.Height
	}
	if flags.Changed("samples") {
		cfg.Samples = f.cfg.Samples
	}
	if flags.Changed("depth") {
		cfg.MaxDepth = f.cfg.MaxDepth
	}
	if flags.Changed("threshold") {
		cfg.Threshold = f.cfg.Threshold
	}
	if flags.Changed("importance") {
		cfg.ImportanceSampling = f.cfg.ImportanceSampling
	}
	if flags.Changed("workers") {
		cfg.Workers = f.cfg.Workers
	}
	if flags.Changed("tile-size") {
		cfg.TileSize = f.cfg.TileSize
	}
	if flags.Changed("seed") {
		cfg.Seed = f.cfg.Seed
	}
	if flags.Changed("bench") {
		cfg.Bench = f.cfg.Bench
	}

	if err := cfg.Validate(); err != nil {
		return config.RenderConfig{}, err
	}
	return cfg, nil
}

// renderJob holds what a single render needs once the scene is loaded
type renderJob struct {
	cfg    config.RenderConfig
	preset scene.Preset
	camera *geometry.Camera
}

func newRenderJob(cfg config.RenderConfig) (*renderJob, error) {
	preset, err := loadPreset(cfg.Scene)
	if err != nil {
		return nil, err
	}
	camera, err := geometry.NewCamera(cfg.ApplyCamera(preset.Camera))
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", preset.Name, err)
	}
	return &renderJob{cfg: cfg, preset: preset, camera: camera}, nil
}

// summary prints the styled result lines
func summary(w io.Writer, path string, stats renderer.RenderStats) {
	out := termenv.NewOutput(w)
	saved := out.String("saved").Bold().Foreground(termenv.ANSIGreen)
	fmt.Fprintf(w, "%s %s\n", saved, path)
	fmt.Fprintf(w, "%s %dpx, %.0f spp, %s, %ssamples/s\n",
		out.String("stats").Faint(),
		stats.TotalPixels, stats.AverageSamples, stats.Elapsed.Round(1e6), renderer.FormatRate(stats.SamplesPerSecond()))
}

// isCancelled reports whether err only says the user interrupted the run
func isCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}
