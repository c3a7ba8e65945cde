package imgcompress

import (
	"fmt"
	"image"

	"github.com/woozymasta/imgcompress/imageio"
)

// EncodeImage strips alpha, pads img to a multiple of 8 with black,
// compresses it and returns the encoded stream.
func EncodeImage(img image.Image, opts *CompressOptions) ([]byte, error) {
	if img == nil {
		return nil, ErrNilImage
	}

	rgb := imageio.FromImage(img)
	if err := rgb.Check(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDimensions, err)
	}

	return EncodeRGB(imageio.Pad(rgb, BlockSize), opts)
}

// EncodeRGB compresses and encodes an RGB raster whose dimensions are
// already multiples of 8.
func EncodeRGB(rgb *imageio.RGB, opts *CompressOptions) ([]byte, error) {
	cimg, err := Compress(rgb.Pix, rgb.Width, rgb.Height, opts)
	if err != nil {
		return nil, err
	}

	return Encode(cimg)
}

// DecodeRGB decodes and decompresses a stream into an RGB raster.
func DecodeRGB(data []byte, opts *DecompressOptions) (*imageio.RGB, error) {
	cimg, err := Decode(data)
	if err != nil {
		return nil, err
	}

	pix, err := Decompress(cimg, opts)
	if err != nil {
		return nil, err
	}

	return &imageio.RGB{Pix: pix, Width: int(cimg.Width), Height: int(cimg.Height)}, nil
}

// DecodeImage decodes and decompresses a stream into an opaque RGBA image.
func DecodeImage(data []byte, opts *DecompressOptions) (*image.RGBA, error) {
	rgb, err := DecodeRGB(data, opts)
	if err != nil {
		return nil, err
	}

	return rgb.Image(), nil
}
