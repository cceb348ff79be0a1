// Command raytrace is the host program embedding the path-tracing core: it
// loads a scene, drives the render, and writes the result as OpenEXR (spec
// §6). Flag surface and output plumbing are grounded on the teacher's
// main.go (progress printing, output-directory handling, debug PNG
// preview), restructured around cobra/pflag per SPEC_FULL §1 rather than
// the teacher's stdlib flag package, and around the spec's fixed
// `<scene> <output.exr>` positional contract rather than the teacher's
// named built-in-scene selector.
package main

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ashwoolford/pathforge/internal/rerrors"
	"github.com/ashwoolford/pathforge/internal/telemetry"
	"github.com/ashwoolford/pathforge/pkg/loaders"
	"github.com/ashwoolford/pathforge/pkg/renderer"
)

// flags mirrors spec §6's CLI surface.
type flags struct {
	spp      int
	maxDepth int
	seed     int64
	threads  int
	tileSize int
	debugPNG bool
}

func main() {
	var f flags

	root := &cobra.Command{
		Use:   "raytrace <scene> <output.exr>",
		Short: "Offline physically-based path tracer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args[0], args[1], f, cmd.Flags().Changed)
		},
		SilenceUsage: true,
	}

	root.Flags().IntVar(&f.spp, "spp", 16, "samples per pixel")
	root.Flags().IntVar(&f.maxDepth, "max-depth", 5, "maximum path depth")
	root.Flags().Int64Var(&f.seed, "seed", 1, "RNG seed")
	root.Flags().IntVar(&f.threads, "threads", 0, "worker thread count (0 = auto-detect CPU count)")
	root.Flags().IntVar(&f.tileSize, "tile-size", 16, "tile edge length, in pixels")
	root.Flags().BoolVar(&f.debugPNG, "debug-png", false, "also write a tonemapped PNG preview alongside the EXR output")

	if err := root.Execute(); err != nil {
		os.Exit(rerrors.ExitCode(err))
	}
}

func run(ctx context.Context, scenePath, outputPath string, f flags, changed func(string) bool) error {
	logger, zlog, err := telemetry.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer zlog.Sync() //nolint:errcheck // best-effort flush on exit

	logger.Printf("loading scene %s\n", scenePath)
	camera, sc, params, err := loaders.LoadScene(scenePath)
	if err != nil {
		return rerrors.Input(fmt.Errorf("failed to load scene: %w", err))
	}

	width, height := 1280, 720
	if params.HasWidth {
		width, height = params.Width, params.Height
	}

	config := renderer.DefaultConfig(width, height)
	config.Seed = uint64(f.seed)
	config.NumWorkers = f.threads
	config.TileSize = f.tileSize

	// CLI flags override scene-file integrator parameters, which in turn
	// override the package defaults (spec §6: the CLI is the host program's
	// surface; scene-level spp/max_depth are per-scene authoring
	// conveniences, not a replacement for it).
	if !changed("spp") && params.HasSamples {
		config.SamplesPerPixel = params.SamplesPerPixel
	} else {
		config.SamplesPerPixel = f.spp
	}
	if !changed("max-depth") && params.HasMaxDepth {
		config.MaxDepth = params.MaxDepth
	} else {
		config.MaxDepth = f.maxDepth
	}

	r := renderer.New(config, camera, sc, logger)

	film, stats, err := r.Render(ctx)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	logger.Printf("render complete: %.1f avg samples/pixel (range %d-%d), %d discarded\n",
		stats.AverageSamples, stats.MinSamplesUsed, stats.MaxSamplesUsed, stats.DiscardedSamples)

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil && filepath.Dir(outputPath) != "." {
		return rerrors.IO(fmt.Errorf("failed to create output directory: %w", err))
	}
	if err := renderer.WriteEXR(outputPath, film); err != nil {
		return rerrors.IO(fmt.Errorf("failed to write EXR output: %w", err))
	}
	logger.Printf("wrote %s\n", outputPath)

	if f.debugPNG {
		pngPath := changeExt(outputPath, ".png")
		if err := writeDebugPNG(pngPath, film); err != nil {
			return rerrors.IO(fmt.Errorf("failed to write debug PNG: %w", err))
		}
		logger.Printf("wrote debug preview %s\n", pngPath)
	}

	return nil
}

func changeExt(path, ext string) string {
	trimmed := path[:len(path)-len(filepath.Ext(path))]
	return trimmed + ext
}

// writeDebugPNG writes a tonemapped 8-bit preview of film alongside the
// mandated linear EXR output (SPEC_FULL §3's supplemented debug-preview
// feature, teacher's main.go always wrote a PNG; here it's opt-in since the
// EXR is the contractual output).
func writeDebugPNG(path string, film *renderer.Film) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return png.Encode(file, film.ToImage())
}
