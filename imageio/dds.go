package imageio

import (
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/woozymasta/bcn"
)

// ddsMagic opens every DDS file.
const ddsMagic = "DDS "

// maxMipMaps caps the generated mip chain.
const maxMipMaps = 11

// readDDS decodes the largest level of a DDS file.
func readDDS(r io.Reader, opts *bcn.DecodeOptions) (image.Image, error) {
	header, err := bcn.ReadDDSHeader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDDSHeaderRead, err)
	}
	dx10, err := bcn.ReadDDSHeaderDX10(r, header)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDDSDX10Read, err)
	}

	format, name := detectFormat(header, dx10)
	width, height := int(header.Width), int(header.Height)
	size := expectedDataLength(format, width, height)
	if size <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrDDSFormat, name)
	}

	// DDS stores the largest level first.
	data := make([]byte, size)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDDSDataRead, err)
	}

	img, err := bcn.DecodeImageWithOptions(data, width, height, format, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeImage, err)
	}

	return img, nil
}

// writeDDS encodes img as DDS in the given format with up to mipMaps levels.
// mipMaps=0 means full chain.
func writeDDS(w io.Writer, img image.Image, format bcn.Format, mipMaps int, opts *bcn.EncodeOptions) error {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	count, err := mipMapCount(width, height)
	if err != nil {
		return err
	}
	if mipMaps > 0 && mipMaps < count {
		count = mipMaps
	}

	mips := bcn.GenerateMipmaps(img, false)
	if len(mips) > count {
		mips = mips[:count]
	}

	payloads := make([][]byte, len(mips))
	for i, mip := range mips {
		data, _, _, err := bcn.EncodeImageWithOptions(mip, format, opts)
		if err != nil {
			return fmt.Errorf("%w: mipmap %d: %v", ErrCompressMipmap, i, err)
		}
		payloads[i] = data
	}

	w32, err := u32FromInt(width)
	if err != nil {
		return err
	}
	h32, err := u32FromInt(height)
	if err != nil {
		return err
	}
	n32, err := u32FromInt(len(payloads))
	if err != nil {
		return err
	}

	header, err := makeDDSHeader(w32, h32, n32, format)
	if err != nil {
		return err
	}

	if err := bcn.WriteDDSMagic(w); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteDDSMagic, err)
	}
	if err := bcn.WriteDDSHeader(w, header); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteDDSHeader, err)
	}
	for i, data := range payloads {
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("%w: mipmap %d: %v", ErrWriteDDSData, i, err)
		}
	}

	return nil
}

// ParseDDSFormat maps a pixel format name onto a BCn format. Empty means BGRA8.
func ParseDDSFormat(name string) (bcn.Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "bgra8":
		return bcn.FormatBGRA8, nil
	case "rgba8":
		return bcn.FormatRGBA8, nil
	case "dxt1", "bc1":
		return bcn.FormatDXT1, nil
	case "dxt3", "bc2":
		return bcn.FormatDXT3, nil
	case "dxt5", "bc3":
		return bcn.FormatDXT5, nil
	default:
		return bcn.FormatUnknown, fmt.Errorf("%w: %q", ErrDDSFormat, name)
	}
}

func detectFormat(header *bcn.DDSHeader, dx10 *bcn.DDSHeaderDX10) (bcn.Format, string) {
	if dx10 != nil {
		return mapDxgiFormat(dx10.DXGIFormat), fmt.Sprintf("DXGI %d", dx10.DXGIFormat)
	}

	pf := header.PixelFormat
	if (pf.Flags & bcn.DDSPFFourCC) != 0 {
		fourCC := fourCCString(pf.FourCC)
		switch fourCC {
		case "DXT1":
			return bcn.FormatDXT1, fourCC
		case "DXT2", "DXT3":
			return bcn.FormatDXT3, fourCC
		case "DXT4", "DXT5":
			return bcn.FormatDXT5, fourCC
		case "ATI1", "BC4U", "BC4S":
			return bcn.FormatBC4, fourCC
		case "ATI2", "BC5U", "BC5S":
			return bcn.FormatBC5, fourCC
		default:
			return bcn.FormatUnknown, fourCC
		}
	}

	if (pf.Flags&bcn.DDSPFRGB) != 0 && pf.RGBBitCount == 32 {
		switch {
		case pf.RBitMask == 0x000000ff && pf.GBitMask == 0x0000ff00 && pf.BBitMask == 0x00ff0000:
			return bcn.FormatRGBA8, "RGBA8"
		case pf.RBitMask == 0x00ff0000 && pf.GBitMask == 0x0000ff00 && pf.BBitMask == 0x000000ff:
			return bcn.FormatBGRA8, "BGRA8"
		}
	}

	return bcn.FormatUnknown, "UNKNOWN"
}

func mapDxgiFormat(dxgiFormat uint32) bcn.Format {
	switch dxgiFormat {
	case 71, 72:
		return bcn.FormatDXT1
	case 74, 75:
		return bcn.FormatDXT3
	case 77, 78:
		return bcn.FormatDXT5
	case 80:
		return bcn.FormatBC4
	case 83:
		return bcn.FormatBC5
	case 87:
		return bcn.FormatBGRA8
	case 28:
		return bcn.FormatRGBA8
	default:
		return bcn.FormatUnknown
	}
}

func fourCCString(value uint32) string {
	return string([]byte{
		byte(value),
		byte(value >> 8),
		byte(value >> 16),
		byte(value >> 24),
	})
}

func makeFourCC(a, b, c, d byte) uint32 {
	return uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24
}

// expectedDataLength returns the byte size of one level, or -1 if unknown.
func expectedDataLength(format bcn.Format, width, height int) int {
	blocksW := (width + 3) / 4
	blocksH := (height + 3) / 4
	switch format {
	case bcn.FormatDXT1, bcn.FormatBC4:
		return blocksW * blocksH * 8
	case bcn.FormatDXT3, bcn.FormatDXT5, bcn.FormatBC5:
		return blocksW * blocksH * 16
	case bcn.FormatRGBA8, bcn.FormatBGRA8:
		return width * height * 4
	default:
		return -1
	}
}

func makeDDSHeader(width, height, mipMaps uint32, format bcn.Format) (*bcn.DDSHeader, error) {
	flags := uint32(bcn.DDSFlagCaps | bcn.DDSFlagHeight | bcn.DDSFlagWidth | bcn.DDSFlagPixelFormat)
	caps := uint32(bcn.DDSCapsTexture)
	if mipMaps > 1 {
		flags |= bcn.DDSFlagMipmapCount
		caps |= bcn.DDSCapsComplex | bcn.DDSCapsMipmap
	}

	hdr := &bcn.DDSHeader{
		Size:        bcn.DDSHeaderSize,
		Flags:       flags,
		Height:      height,
		Width:       width,
		Depth:       1,
		MipMapCount: mipMaps,
		Caps:        caps,
	}
	hdr.PixelFormat.Size = bcn.DDSPixelFormatSize

	var fourCC uint32
	switch format {
	case bcn.FormatDXT1:
		fourCC = makeFourCC('D', 'X', 'T', '1')
	case bcn.FormatDXT3:
		fourCC = makeFourCC('D', 'X', 'T', '3')
	case bcn.FormatDXT5:
		fourCC = makeFourCC('D', 'X', 'T', '5')
	case bcn.FormatBC4:
		fourCC = makeFourCC('A', 'T', 'I', '1')
	case bcn.FormatBC5:
		fourCC = makeFourCC('A', 'T', 'I', '2')
	case bcn.FormatRGBA8, bcn.FormatBGRA8:
		hdr.Flags |= bcn.DDSFlagPitch
		hdr.PixelFormat.Flags = bcn.DDSPFRGB | bcn.DDSPFAlphaPixels
		hdr.PixelFormat.RGBBitCount = 32
		hdr.PixelFormat.GBitMask = 0x0000ff00
		hdr.PixelFormat.ABitMask = 0xff000000
		if format == bcn.FormatRGBA8 {
			hdr.PixelFormat.RBitMask = 0x000000ff
			hdr.PixelFormat.BBitMask = 0x00ff0000
		} else {
			hdr.PixelFormat.RBitMask = 0x00ff0000
			hdr.PixelFormat.BBitMask = 0x000000ff
		}
		hdr.PitchOrLinearSize = width * 4
		return hdr, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrDDSFormat, format)
	}

	hdr.Flags |= bcn.DDSFlagLinearSize
	hdr.PixelFormat.Flags = bcn.DDSPFFourCC
	hdr.PixelFormat.FourCC = fourCC
	return hdr, nil
}

// mipMapCount returns the number of levels down to 1x1, capped at maxMipMaps.
func mipMapCount(width, height int) (int, error) {
	w, err := u32FromInt(width)
	if err != nil {
		return 0, err
	}
	h, err := u32FromInt(height)
	if err != nil {
		return 0, err
	}

	count := 1
	for w > 1 || h > 1 {
		count++
		if w > 1 {
			w /= 2
		}
		if h > 1 {
			h /= 2
		}
	}

	return min(count, maxMipMaps), nil
}

// u32FromInt converts an int to a uint32.
func u32FromInt(n int) (uint32, error) {
	if n < 0 || uint64(n) > uint64(^uint32(0)) {
		return 0, ErrSizeOverflow
	}

	// #nosec G115 -- bounds checked above.
	return uint32(n), nil
}
