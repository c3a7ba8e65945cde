// Package main provides the imgcompress command line interface.
//
// Compress:   imgcompress [-l level] [-t raw|lz4|zstd] [-j workers] [-q] <input> <output>
// Decompress: imgcompress -d [-f format] [-j workers] [-q] <input> <output>
//
// A path of "-" reads from stdin or writes to stdout.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/woozymasta/imgcompress"
	"github.com/woozymasta/imgcompress/imageio"
	"golang.org/x/term"
)

const stdio = "-"

type config struct {
	decode    bool
	level     int
	transport string
	format    string
	ddsFormat string
	workers   int
	quiet     bool
	input     string
	output    string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) int {
	cfg, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if cfg.decode {
		err = doDecompress(cfg, stdin, stdout, stderr)
	} else {
		err = doCompress(cfg, stdin, stdout, stderr)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

func parseArgs(args []string, stderr io.Writer) (*config, error) {
	cfg := &config{}

	fs := flag.NewFlagSet("imgcompress", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&cfg.decode, "d", false, "decompress <input> into an image file")
	fs.IntVar(&cfg.level, "l", imgcompress.DefaultLevel, "compression level (>= 1); higher keeps more detail")
	fs.StringVar(&cfg.transport, "t", "raw", "output transport: raw, lz4 or zstd")
	fs.StringVar(&cfg.format, "f", "", "output image format for -d (default from extension, png for stdout)")
	fs.StringVar(&cfg.ddsFormat, "dds", "", "DDS pixel format for -d with dds output: bgra8, rgba8, dxt1, dxt3, dxt5")
	fs.IntVar(&cfg.workers, "j", 0, "parallel workers (0 = all CPUs)")
	fs.BoolVar(&cfg.quiet, "q", false, "no progress output")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage:")
		fmt.Fprintln(stderr, "  imgcompress [-l level] [-t raw|lz4|zstd] [-j workers] [-q] <input> <output>")
		fmt.Fprintln(stderr, "  imgcompress -d [-f format] [-j workers] [-q] <input> <output>")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, `Use "-" for stdin or stdout.`)
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return nil, fmt.Errorf("expected <input> <output>, got %d arguments", fs.NArg())
	}
	cfg.input, cfg.output = fs.Arg(0), fs.Arg(1)

	if cfg.level < 1 {
		return nil, fmt.Errorf("level must be >= 1, got %d", cfg.level)
	}

	return cfg, nil
}

func doCompress(cfg *config, stdin io.Reader, stdout io.Writer, stderr io.Writer) error {
	transport, err := imgcompress.ParseTransport(cfg.transport)
	if err != nil {
		return err
	}
	if cfg.output == stdio && isTerminal(stdout) {
		return errors.New("stdout is a terminal, refusing to write binary data")
	}

	rgb, name, err := loadInput(cfg.input, stdin)
	if err != nil {
		return err
	}
	origW, origH := rgb.Width, rgb.Height
	rgb = imageio.Pad(rgb, imgcompress.BlockSize)
	if !cfg.quiet && (rgb.Width != origW || rgb.Height != origH) {
		fmt.Fprintf(stderr, "Extended %dx%d to %dx%d\n", origW, origH, rgb.Width, rgb.Height)
	}

	bar := newProgressBar(stderr, "encoding...", cfg.quiet)
	cimg, err := imgcompress.Compress(rgb.Pix, rgb.Width, rgb.Height, &imgcompress.CompressOptions{
		Level:    cfg.level,
		Workers:  cfg.workers,
		Progress: bar.update,
	})
	bar.finish()
	if err != nil {
		return err
	}

	data, err := imgcompress.Encode(cimg)
	if err != nil {
		return err
	}

	if cfg.output == stdio {
		err = imgcompress.WriteStream(stdout, data, transport)
	} else {
		err = imgcompress.WriteFileFunc(cfg.output, func(w io.Writer) error {
			return imgcompress.WriteStream(w, data, transport)
		})
	}
	if err != nil {
		return err
	}

	if !cfg.quiet {
		fmt.Fprintf(stderr, "Input:   %s (%s, %dx%d)\n", cfg.input, name, origW, origH)
		fmt.Fprintf(stderr, "Output:  %s (%d bytes, %d blocks, %s)\n", cfg.output, len(data), cimg.BlockCount(), transport)
	}

	return nil
}

func doDecompress(cfg *config, stdin io.Reader, stdout io.Writer, stderr io.Writer) error {
	format, err := outputFormat(cfg)
	if err != nil {
		return err
	}

	var data []byte
	if cfg.input == stdio {
		data, err = imgcompress.ReadStream(stdin)
	} else {
		data, err = imgcompress.ReadFile(cfg.input)
	}
	if err != nil {
		return err
	}

	cimg, err := imgcompress.Decode(data)
	if err != nil {
		return err
	}

	bar := newProgressBar(stderr, "decoding...", cfg.quiet)
	pix, err := imgcompress.Decompress(cimg, &imgcompress.DecompressOptions{
		Workers:  cfg.workers,
		Progress: bar.update,
	})
	bar.finish()
	if err != nil {
		return err
	}

	rgb := &imageio.RGB{Pix: pix, Width: int(cimg.Width), Height: int(cimg.Height)}
	save := func(w io.Writer) error {
		return imageio.Save(w, rgb, format, &imageio.SaveOptions{DDSFormat: cfg.ddsFormat})
	}
	if cfg.output == stdio {
		err = save(stdout)
	} else {
		err = imgcompress.WriteFileFunc(cfg.output, save)
	}
	if err != nil {
		return err
	}

	if !cfg.quiet {
		fmt.Fprintf(stderr, "Output:  %s (%s, %dx%d)\n", cfg.output, format, rgb.Width, rgb.Height)
	}

	return nil
}

func outputFormat(cfg *config) (imageio.Format, error) {
	if cfg.format != "" {
		return imageio.ParseFormat(cfg.format)
	}
	if cfg.output == stdio {
		return imageio.FormatPNG, nil
	}
	return imageio.FormatFromPath(cfg.output)
}

func loadInput(path string, stdin io.Reader) (*imageio.RGB, string, error) {
	if path == stdio {
		return imageio.Load(stdin, nil)
	}
	return imageio.LoadFile(path, nil)
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit in int
}

// progressBar adapts a Progress callback to a stderr progress bar.
// The bar is created on the first update, once the total is known.
type progressBar struct {
	w     io.Writer
	bar   *progressbar.ProgressBar
	title string
	quiet bool
}

const progressWidth = 40

func newProgressBar(w io.Writer, title string, quiet bool) *progressBar {
	return &progressBar{w: w, title: title, quiet: quiet}
}

func (p *progressBar) update(done, total int) {
	if p.quiet || total <= 0 {
		return
	}
	if p.bar == nil {
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(p.w),
			progressbar.OptionSetDescription(p.title),
			progressbar.OptionSetWidth(progressWidth),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "#",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		)
	}
	_ = p.bar.Set(done)
}

func (p *progressBar) finish() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Exit()
	fmt.Fprintln(p.w)
}
