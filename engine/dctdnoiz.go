package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"io"
	"os"
	"runtime"
	"sync"
)

// Option represents an option of the denoiser.
type Option func(d *Denoiser) error

// BlockSizeBits sets the block size, 1<<n; n must be 3 (8x8) or 4 (16x16).
func BlockSizeBits(n int) Option {
	return func(d *Denoiser) error {
		d.cfg.BlockSizeBits = n
		return nil
	}
}

// Overlap sets the number of pixels shared by adjacent blocks; MaxOverlap
// selects blockSize-1.
func Overlap(o int) Option {
	return func(d *Denoiser) error {
		d.cfg.Overlap = o
		return nil
	}
}

// Sigma sets the noise standard deviation.
func Sigma(s float64) Option {
	return func(d *Denoiser) error {
		d.cfg.Sigma = s
		return nil
	}
}

// ShrinkExpression sets the coefficient factor expression of c, the absolute
// coefficient value. It replaces the sigma threshold.
func ShrinkExpression(e string) Option {
	return func(d *Denoiser) error {
		d.cfg.Expression = e
		return nil
	}
}

// ShrinkFunc sets the coefficient factor function. It replaces the sigma
// threshold and any expression.
func ShrinkFunc(f RealFunction) Option {
	return func(d *Denoiser) error {
		if f == nil {
			return errors.New("nil shrinkage function")
		}
		d.cfg.Func = f
		return nil
	}
}

// Parallel sets the option that specifies the limit number of concurrency.
func Parallel(p int) Option {
	return func(d *Denoiser) error {
		if p < 1 {
			return fmt.Errorf("parallel must be >= 1, got %d", p)
		}
		d.cfg.Parallel = p
		return nil
	}
}

// Verbose sets the verbose option.
func Verbose(v bool) Option {
	return func(d *Denoiser) error {
		d.verbose = v
		return nil
	}
}

// LogOutput sets the log output destination.
func LogOutput(w io.Writer) Option {
	return func(d *Denoiser) error {
		d.logOutput = w
		return nil
	}
}

// Denoiser removes noise from frames with a 2D DCT block filter.
// A Denoiser keeps color buffers for the last frame geometry and reuses
// them while the geometry does not change. Frames are processed one at a time.
type Denoiser struct {
	cfg       Config
	filter    *PlaneFilter
	verbose   bool
	logOutput io.Writer

	mu       sync.Mutex
	width    int
	height   int
	prWidth  int
	prHeight int
	cbuf     [2][3]ImagePlane // decorrelated source and filtered planes
}

// NewDenoiser creates a Denoiser.
func NewDenoiser(opts ...Option) (*Denoiser, error) {
	d := &Denoiser{
		cfg:       DefaultConfig(),
		logOutput: os.Stderr,
	}
	d.cfg.Parallel = runtime.NumCPU()
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	f, err := NewPlaneFilter(d.cfg)
	if err != nil {
		return nil, err
	}
	d.filter = f
	return d, nil
}

// Config returns the configuration of the denoiser.
func (d *Denoiser) Config() Config {
	return d.cfg
}

func (d *Denoiser) printf(format string, a ...any) {
	if d.verbose {
		fmt.Fprintf(d.logOutput, format, a...)
	}
}

func (d *Denoiser) println(a ...any) {
	if d.verbose {
		fmt.Fprintln(d.logOutput, a...)
	}
}

// configure sizes the color buffers and the weight table for a frame
// geometry. On failure the previous geometry is kept.
func (d *Denoiser) configure(width, height int) error {
	if d.width == width && d.height == height {
		return nil
	}
	pw, ph, err := d.filter.ProcessableRegion(width, height)
	if err != nil {
		return err
	}
	if _, err := d.filter.Prepare(pw, ph); err != nil {
		return err
	}
	var cbuf [2][3]ImagePlane
	for i := range cbuf {
		for j := range cbuf[i] {
			cbuf[i][j] = NewImagePlaneWidthHeight(pw, ph)
		}
	}
	d.width, d.height = width, height
	d.prWidth, d.prHeight = pw, ph
	d.cbuf = cbuf

	d.printf("geometry %dx%d, block %v, step %d\n", width, height, d.cfg.BlockSize(), d.cfg.Step())
	if pw != width {
		d.printf("the last %d horizontal pixels won't be denoised\n", width-pw)
	}
	if ph != height {
		d.printf("the last %d vertical pixels won't be denoised\n", height-ph)
	}
	return nil
}

// Denoise denoises the image. The result is a new image; img is not modified.
func (d *Denoiser) Denoise(ctx context.Context, img image.Image) (*image.NRGBA, error) {
	ci, err := NewChannelImage(img)
	if err != nil {
		return nil, err
	}
	out, err := d.DenoiseChannelImage(ctx, ci)
	if err != nil {
		return nil, err
	}
	return out.ImageNRGBA(), nil
}

// DenoiseChannelImage denoises the channel image into a new one. Pixels
// outside the processable region and the alpha channel are copied as is.
func (d *Denoiser) DenoiseChannelImage(ctx context.Context, img ChannelImage) (ChannelImage, error) {
	if len(img.Buffer) != img.Width*img.Height*4 {
		return ChannelImage{}, fmt.Errorf("invalid channel image: width*height*4=%d <> len(buffer)=%d", img.Width*img.Height*4, len(img.Buffer))
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.configure(img.Width, img.Height); err != nil {
		return ChannelImage{}, err
	}

	d.println("decorrelating channels ...")
	Decorrelate(d.cbuf[0], img, d.prWidth, d.prHeight)

	d.println("de-noising ...")
	if err := d.filter.Run(ctx, d.cbuf[1][:], d.cbuf[0][:], d.prWidth, d.prHeight); err != nil {
		return ChannelImage{}, err
	}

	d.println("correlating channels ...")
	out := img.Clone()
	Correlate(out, d.cbuf[1], d.prWidth, d.prHeight)
	return out, nil
}

// DenoiseGIF denoises every frame of the animation in place. Frames too
// small to hold a block are kept as they are.
func (d *Denoiser) DenoiseGIF(ctx context.Context, img *gif.GIF) (*gif.GIF, error) {
	frames := make([]*image.Paletted, 0, len(img.Image))
	for i, v := range img.Image {
		d.printf("frame %d/%d\n", i+1, len(img.Image))
		ci, err := NewChannelImage(v)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		out, err := d.DenoiseChannelImage(ctx, ci)
		if errors.Is(err, ErrImageTooSmall) {
			d.printf("frame %d: %v, skipped\n", i, err)
			frames = append(frames, v)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		p := out.ImagePaletted(v.Palette)
		p.Rect = v.Rect
		frames = append(frames, p)
	}
	img.Image = frames
	return img, nil
}
