package imageio

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// RGB is an interleaved 8-bit RGB raster, row-major, 3 bytes per pixel.
type RGB struct {
	Pix    []byte
	Width  int
	Height int
}

// NewRGB allocates a black raster.
func NewRGB(width, height int) *RGB {
	return &RGB{
		Pix:    make([]byte, width*height*3),
		Width:  width,
		Height: height,
	}
}

// Check reports whether Pix matches the declared dimensions.
func (m *RGB) Check() error {
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrEmptyImage, m.Width, m.Height)
	}
	if want := m.Width * m.Height * 3; len(m.Pix) != want {
		return fmt.Errorf("%w: %dx%d needs %d bytes, have %d", ErrBufferSize, m.Width, m.Height, want, len(m.Pix))
	}
	return nil
}

// FromImage copies any image into an RGB raster. Alpha is dropped: the
// color channels are taken as stored, without compositing over a background.
func FromImage(src image.Image) *RGB {
	b := src.Bounds()
	dst := NewRGB(b.Dx(), b.Dy())

	// Fast path for the common in-memory layouts.
	switch s := src.(type) {
	case *image.RGBA:
		// Premultiplied values equal straight values only when opaque.
		if s.Opaque() {
			copyRGBA(dst, s.Pix, s.Stride, s.Rect.Min, b)
			return dst
		}
	case *image.NRGBA:
		copyRGBA(dst, s.Pix, s.Stride, s.Rect.Min, b)
		return dst
	}

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2] = c.R, c.G, c.B
			i += 3
		}
	}
	return dst
}

func copyRGBA(dst *RGB, pix []byte, stride int, origin image.Point, b image.Rectangle) {
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := (y-origin.Y)*stride + (b.Min.X-origin.X)*4
		for x := 0; x < b.Dx(); x++ {
			dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2] = pix[off], pix[off+1], pix[off+2]
			off += 4
			i += 3
		}
	}
}

// Image returns an opaque RGBA copy of the raster.
func (m *RGB) Image() *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, m.Width, m.Height))
	for i, j := 0, 0; i+2 < len(m.Pix) && j+3 < len(dst.Pix); i, j = i+3, j+4 {
		dst.Pix[j], dst.Pix[j+1], dst.Pix[j+2], dst.Pix[j+3] = m.Pix[i], m.Pix[i+1], m.Pix[i+2], 0xff
	}
	return dst
}

// Pad extends the raster right and down with black so both dimensions are
// multiples of multiple. The input is returned unchanged when already aligned.
func Pad(m *RGB, multiple int) *RGB {
	if multiple <= 1 {
		return m
	}
	padRight := (multiple - m.Width%multiple) % multiple
	padBottom := (multiple - m.Height%multiple) % multiple
	if padRight == 0 && padBottom == 0 {
		return m
	}

	dst := NewRGB(m.Width+padRight, m.Height+padBottom)
	rowBytes := m.Width * 3
	for y := 0; y < m.Height; y++ {
		copy(dst.Pix[y*dst.Width*3:], m.Pix[y*rowBytes:(y+1)*rowBytes])
	}
	return dst
}

// toNRGBA returns an opaque NRGBA view for encoders.
func (m *RGB) toNRGBA() *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
	draw.Draw(dst, dst.Bounds(), m.Image(), image.Point{}, draw.Src)
	return dst
}
