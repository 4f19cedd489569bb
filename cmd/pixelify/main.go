// Command pixelify downsamples an image into blocks of averaged color
// while keeping its dimensions.
//
// Usage:
//
//	pixelify [options] <input> [options]
//	pixelify pine-forest.png -s 20 -o forest.png
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"pixelify/pkg/pixelify"
)

const (
	version    = "0.2.0"
	defaultOut = "out.png"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type config struct {
	input   string
	output  string
	overlay string
	scale   int
	strict  bool
	verbose bool
	version bool
}

// parseArgs accepts flags before and after the positional input path.
func parseArgs(args []string, stderr io.Writer) (*config, error) {
	cfg := &config{}
	fs := flag.NewFlagSet("pixelify", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.output, "o", defaultOut, `output path; the extension picks the format ("-" writes PNG to stdout)`)
	fs.StringVar(&cfg.output, "output", defaultOut, "same as -o")
	fs.IntVar(&cfg.scale, "s", pixelify.DefaultScale, "block size in pixels")
	fs.IntVar(&cfg.scale, "scale", pixelify.DefaultScale, "same as -s")
	fs.BoolVar(&cfg.strict, "strict", true, "require the scale to divide both dimensions and be at most half of each")
	fs.StringVar(&cfg.overlay, "overlay", "", "write a JPEG preview of the block grid to this path")
	fs.BoolVar(&cfg.verbose, "v", false, "log debug details to stderr")
	fs.BoolVar(&cfg.version, "version", false, "print the version and exit")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Image downsampler, pixelifies all your images!\n\nUsage:\n  pixelify [options] <input>\n\nOptions:\n")
		fs.PrintDefaults()
	}

	var positional []string
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	for fs.NArg() > 0 {
		positional = append(positional, fs.Arg(0))
		if err := fs.Parse(fs.Args()[1:]); err != nil {
			return nil, err
		}
	}

	if cfg.version {
		return cfg, nil
	}
	switch len(positional) {
	case 0:
		return nil, fmt.Errorf("missing input file\nUsage: pixelify [options] <input>")
	case 1:
		cfg.input = positional[0]
	default:
		return nil, fmt.Errorf("expected one input file, got %d: %v", len(positional), positional)
	}
	return cfg, nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}
	if cfg.version {
		fmt.Fprintf(stdout, "pixelify %s\n", version)
		return nil
	}
	if cfg.verbose {
		pixelify.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
		defer pixelify.SetLogger(nil)
	}

	// Keep stdout clean for image data.
	report := stdout
	if cfg.output == "-" {
		report = stderr
	}

	fmt.Fprintf(report, "Loading: %s\n", cfg.input)
	data, err := readInput(cfg.input, stdin)
	if err != nil {
		return err
	}

	startTime := time.Now()
	opts := pixelify.NewOptions()
	opts.Strict = cfg.strict
	result, err := pixelify.Run(data, cfg.scale, opts)
	if err != nil {
		return err
	}
	elapsed := time.Since(startTime)

	printSummary(report, result, elapsed)

	if cfg.output == "-" {
		// Bytes on stdout cannot be taken back, so the overlay goes first.
		if err := writeOverlay(cfg, result, report); err != nil {
			return err
		}
		return pixelify.Encode(stdout, result.Image, "png")
	}

	if err := pixelify.Save(result.Image, cfg.output); err != nil {
		return err
	}
	if err := writeOverlay(cfg, result, report); err != nil {
		_ = os.Remove(cfg.output)
		return err
	}
	fmt.Fprintf(report, "Saved: %s\n", cfg.output)
	return nil
}

func writeOverlay(cfg *config, result *pixelify.Result, report io.Writer) error {
	if cfg.overlay == "" {
		return nil
	}
	if err := pixelify.RenderGridOverlay(result.Image, cfg.scale, result.Metrics, cfg.overlay); err != nil {
		return fmt.Errorf("rendering overlay: %w", err)
	}
	fmt.Fprintf(report, "Overlay: %s\n", cfg.overlay)
	return nil
}

// readInput reads the whole input. "-" reads stdin.
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return data, nil
}

func printSummary(w io.Writer, result *pixelify.Result, elapsed time.Duration) {
	b := result.Image.Bounds()
	m := result.Metrics
	fmt.Fprintln(w)
	fmt.Fprintf(w, "=== Pixelation Results (%.3fs) ===\n", elapsed.Seconds())
	fmt.Fprintf(w, "  Format:          %s\n", result.Format)
	fmt.Fprintf(w, "  Image size:      %d x %d\n", b.Dx(), b.Dy())
	fmt.Fprintf(w, "  Scale:           %d\n", m.Scale)
	fmt.Fprintf(w, "  Anchors:         %d\n", m.Anchors)
	fmt.Fprintf(w, "  Blended blocks:  %d\n", m.Blended)
	fmt.Fprintf(w, "  Skipped anchors: %d\n", m.Skipped)
	if m.Empty > 0 {
		fmt.Fprintf(w, "  Empty blocks:    %d\n", m.Empty)
	}
	fmt.Fprintf(w, "  Pixels written:  %d\n", m.PixelsWritten)
	fmt.Fprintln(w, "==============================")
}
