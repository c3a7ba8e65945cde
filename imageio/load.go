package imageio

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"os"

	// Registered decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "github.com/xfmoulet/qoi"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/woozymasta/bcn"
)

// LoadOptions configures Load.
type LoadOptions struct {
	// DecodeOptions are passed to the BCn decoder for DDS input.
	DecodeOptions *bcn.DecodeOptions
}

// Load decodes any supported container into an RGB raster and reports the
// detected format name. Nil opts uses defaults.
func Load(r io.Reader, opts *LoadOptions) (*RGB, string, error) {
	br := bufio.NewReader(r)

	var (
		img  image.Image
		name string
		err  error
	)
	if head, _ := br.Peek(len(ddsMagic)); string(head) == ddsMagic {
		var decOpts *bcn.DecodeOptions
		if opts != nil {
			decOpts = opts.DecodeOptions
		}
		img, err = readDDS(br, decOpts)
		name = string(FormatDDS)
	} else {
		img, name, err = image.Decode(br)
		if err != nil {
			err = fmt.Errorf("%w: %v", ErrDecodeImage, err)
		}
	}
	if err != nil {
		return nil, "", err
	}

	rgb := FromImage(img)
	if err := rgb.Check(); err != nil {
		return nil, "", err
	}

	return rgb, name, nil
}

// LoadFile opens path and decodes it with Load.
func LoadFile(path string, opts *LoadOptions) (*RGB, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = f.Close() }()

	return Load(f, opts)
}
