package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/ikawaha/dctdnoiz.go/engine"
)

const (
	commandName  = "dctdnoiz"
	usageMessage = "%s [-i <input_file>] [-o <output_file>] [-s <sigma>] [-e <expression>] [-n <block_size_bits>] [-overlap <pixels>] [-p <parallel>] [-v]\n"
)

type option struct {
	// flagSet args
	input      string
	output     string
	sigma      float64
	expression string
	bits       int
	overlap    int
	parallel   int
	verbose    bool
	flagSet    *flag.FlagSet
}

func newOption(w io.Writer, eh flag.ErrorHandling) (o *option) {
	o = &option{
		flagSet: flag.NewFlagSet(commandName, eh),
	}
	// option settings
	o.flagSet.SetOutput(w)
	o.flagSet.StringVar(&o.input, "i", "", "input file (default stdin)")
	o.flagSet.StringVar(&o.output, "o", "", "output file, compressed with zstd if it ends with .zst (default stdout)")
	o.flagSet.Float64Var(&o.sigma, "s", 0, "noise sigma constant 0 <= s <= 999")
	o.flagSet.StringVar(&o.expression, "e", "", "coefficient factor expression of c, e.g. 'gte(c, 13.5)'")
	o.flagSet.IntVar(&o.bits, "n", 3, "block size expressed in bits, 3 (8x8) or 4 (16x16)")
	o.flagSet.IntVar(&o.overlap, "overlap", engine.MaxOverlap, "number of block overlapping pixels, -1 for block size - 1")
	o.flagSet.IntVar(&o.parallel, "p", runtime.NumCPU(), "number of block rows processed concurrently")
	o.flagSet.BoolVar(&o.verbose, "v", false, "verbose")
	return
}

func (o *option) parse(args []string) error {
	if err := o.flagSet.Parse(args); err != nil {
		return err
	}
	// validations
	if nonFlag := o.flagSet.Args(); len(nonFlag) != 0 {
		return fmt.Errorf("invalid argument: %v", nonFlag)
	}
	if o.parallel < 1 {
		return fmt.Errorf("invalid parallel, %d < 1", o.parallel)
	}
	return nil
}

func (o *option) engineOptions() []engine.Option {
	opts := []engine.Option{
		engine.BlockSizeBits(o.bits),
		engine.Overlap(o.overlap),
		engine.Sigma(o.sigma),
		engine.Parallel(o.parallel),
		engine.Verbose(o.verbose),
	}
	if o.expression != "" {
		opts = append(opts, engine.ShrinkExpression(o.expression))
	}
	return opts
}

// Usage shows a usage message.
func Usage() {
	fmt.Printf(usageMessage, commandName)
	opt := newOption(os.Stdout, flag.ContinueOnError)
	opt.flagSet.PrintDefaults()
}

func readInput(file string) ([]byte, string, error) {
	var in io.Reader = os.Stdin
	if file != "" {
		fp, err := os.Open(file)
		if err != nil {
			return nil, "", err
		}
		defer fp.Close()
		in = fp
	}
	return engine.ReadImageFile(in)
}

func decodeImage(b []byte, format string) (image.Image, error) {
	var decoder func(io.Reader) (image.Image, error)
	switch format {
	case "jpeg":
		decoder = jpeg.Decode
	case "png":
		decoder = png.Decode
	default:
		return nil, fmt.Errorf("unsupported image type: %s", format)
	}
	return decoder(bytes.NewReader(b))
}

// Run executes the dctdnoiz command. Cancelling ctx stops the denoising
// between two block rows.
func Run(ctx context.Context, args []string) error {
	opt := newOption(os.Stderr, flag.ContinueOnError)
	if err := opt.parse(args); err != nil {
		return err
	}
	b, format, err := readInput(opt.input)
	if err != nil {
		return fmt.Errorf("input error: %w", err)
	}

	d, err := engine.NewDenoiser(opt.engineOptions()...)
	if err != nil {
		return err
	}

	var encode func(io.Writer) error
	if format == "gif" {
		g, err := gif.DecodeAll(bytes.NewReader(b))
		if err != nil {
			return fmt.Errorf("input error: %w", err)
		}
		if _, err := d.DenoiseGIF(ctx, g); err != nil {
			return fmt.Errorf("calc error: %w", err)
		}
		encode = func(w io.Writer) error { return gif.EncodeAll(w, g) }
	} else {
		img, err := decodeImage(b, format)
		if err != nil {
			return fmt.Errorf("input error: %w", err)
		}
		out, err := d.Denoise(ctx, img)
		if err != nil {
			return fmt.Errorf("calc error: %w", err)
		}
		encode = func(w io.Writer) error { return png.Encode(w, out) }
	}

	var w io.Writer = os.Stdout
	if opt.output != "" {
		fp, err := os.Create(opt.output)
		if err != nil {
			return fmt.Errorf("output error: %w", err)
		}
		defer fp.Close()
		w = fp
	}
	if strings.HasSuffix(opt.output, ".zst") {
		zw, err := engine.WriteCompressed(w)
		if err != nil {
			return fmt.Errorf("output error: %w", err)
		}
		if err := encode(zw); err != nil {
			zw.Close()
			return fmt.Errorf("output error: %w", err)
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
		return nil
	}
	if err := encode(w); err != nil {
		return fmt.Errorf("output error: %w", err)
	}
	return nil
}
