package engine

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// ChannelImage represents a discrete image of interleaved R, G, B and A bytes.
type ChannelImage struct {
	Width  int
	Height int
	Buffer []uint8
}

// NewChannelImageWidthHeight returns a channel image of specific width and height.
func NewChannelImageWidthHeight(width, height int) ChannelImage {
	return ChannelImage{
		Width:  width,
		Height: height,
		Buffer: make([]uint8, width*height*4),
	}
}

// NewChannelImage returns a channel image corresponding to the specified image.
// The pixels are copied; the image is never modified.
func NewChannelImage(img image.Image) (ChannelImage, error) {
	r := img.Bounds()
	if r.Empty() {
		return ChannelImage{}, fmt.Errorf("empty image: %v", r)
	}
	c := NewChannelImageWidthHeight(r.Dx(), r.Dy())
	switch t := img.(type) {
	case *image.NRGBA:
		for y := 0; y < c.Height; y++ {
			i := t.PixOffset(r.Min.X, r.Min.Y+y)
			copy(c.Buffer[y*c.Width*4:(y+1)*c.Width*4], t.Pix[i:i+c.Width*4])
		}
	default:
		dst := c.ImageNRGBA()
		draw.Draw(dst, dst.Bounds(), img, r.Min, draw.Src)
	}
	return c, nil
}

// Clone returns a deep copy of the channel image.
func (c ChannelImage) Clone() ChannelImage {
	b := make([]uint8, len(c.Buffer))
	copy(b, c.Buffer)
	return ChannelImage{Width: c.Width, Height: c.Height, Buffer: b}
}

// ImageNRGBA returns an image.NRGBA sharing the buffer of the channel image.
func (c ChannelImage) ImageNRGBA() *image.NRGBA {
	r := image.Rect(0, 0, c.Width, c.Height)
	return &image.NRGBA{
		Pix:    c.Buffer,
		Stride: r.Dx() * 4,
		Rect:   r,
	}
}

// ImagePaletted converts the channel image to an image.Paletted and return it.
func (c ChannelImage) ImagePaletted(p color.Palette) *image.Paletted {
	src := c.ImageNRGBA()
	ret := image.NewPaletted(src.Bounds(), p)
	draw.Draw(ret, ret.Bounds(), src, image.Point{}, draw.Src)
	return ret
}
