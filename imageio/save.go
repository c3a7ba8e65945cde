package imageio

import (
	"fmt"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/woozymasta/bcn"
	"github.com/xfmoulet/qoi"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// DefaultJPEGQuality is used when SaveOptions.JPEGQuality is zero.
const DefaultJPEGQuality = 90

// SaveOptions configures Save. Nil options use defaults.
type SaveOptions struct {
	// JPEGQuality is 1..100; zero means DefaultJPEGQuality.
	JPEGQuality int
	// DDSFormat names the DDS pixel format (see ParseDDSFormat); empty means BGRA8.
	DDSFormat string
	// DDSMipMaps limits the DDS mip chain; zero writes only the base level.
	DDSMipMaps int
	// EncodeOptions are passed to the BCn encoder for DDS output.
	EncodeOptions *bcn.EncodeOptions
}

// Save encodes the raster in the given container format.
func Save(w io.Writer, m *RGB, format Format, opts *SaveOptions) error {
	if err := m.Check(); err != nil {
		return err
	}
	if opts == nil {
		opts = &SaveOptions{}
	}

	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(w, m.Image())
	case FormatJPEG:
		quality := opts.JPEGQuality
		if quality == 0 {
			quality = DefaultJPEGQuality
		}
		err = jpeg.Encode(w, m.Image(), &jpeg.Options{Quality: quality})
	case FormatGIF:
		err = gif.Encode(w, m.Image(), nil)
	case FormatBMP:
		err = bmp.Encode(w, m.Image())
	case FormatTIFF:
		err = tiff.Encode(w, m.Image(), &tiff.Options{Compression: tiff.Deflate})
	case FormatQOI:
		err = qoi.Encode(w, m.Image())
	case FormatDDS:
		ddsFormat, err := ParseDDSFormat(opts.DDSFormat)
		if err != nil {
			return err
		}
		mipMaps := opts.DDSMipMaps
		if mipMaps <= 0 {
			mipMaps = 1
		}
		// writeDDS already wraps its errors.
		return writeDDS(w, m.toNRGBA(), ddsFormat, mipMaps, opts.EncodeOptions)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrEncodeImage, format, err)
	}

	return nil
}
