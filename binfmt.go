package imgcompress

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/woozymasta/imgcompress/internal/cursor"
)

// Magic strings framing every stream. The header embeds the format version;
// streams with any other header are rejected.
const (
	magicHeader = "this is binary image of https://github.com/bsahd/image-compress format.\n" +
		"version:230606ee9a6d0b45b71167f8faa01ed169cd96bb\n\n\n\n\n\n\n\n\n"
	magicFooter = "\n\n\nthis is binary format. read head using head command for more information.\n"
)

const (
	// fixedHeaderSize is width(2) + height(2) + block count(4).
	fixedHeaderSize = 2 + 2 + 4
	metaSize        = 7
	// blockWireSize is metadata + corners + residual bytes per block.
	blockWireSize = metaSize + CornerCount + BlockPixels
)

// EncodedSize returns the exact stream length for blockCount blocks.
func EncodedSize(blockCount int) int {
	return len(magicHeader) + fixedHeaderSize + blockCount*blockWireSize + len(magicFooter)
}

// Encode serializes img into the binary stream format.
func Encode(img *Image) ([]byte, error) {
	if img == nil {
		return nil, ErrNilImage
	}
	count, err := u32FromCount(len(img.Blocks))
	if err != nil {
		return nil, fmt.Errorf("%w: %d blocks", err, len(img.Blocks))
	}

	buf := make([]byte, EncodedSize(len(img.Blocks)))
	w := cursor.NewWriter(buf)

	// buf is sized exactly; cursor errors here would be a bug in EncodedSize.
	if err := w.WriteBytes([]byte(magicHeader)); err != nil {
		return nil, err
	}
	if err := w.WriteUint16(img.Width); err != nil {
		return nil, err
	}
	if err := w.WriteUint16(img.Height); err != nil {
		return nil, err
	}
	if err := w.WriteUint32(count); err != nil {
		return nil, err
	}

	for i := range img.Blocks {
		b := &img.Blocks[i]
		meta := [metaSize]byte{
			b.Max[ChannelY], b.Min[ChannelY],
			b.Max[ChannelU], b.Min[ChannelU],
			b.Max[ChannelV], b.Min[ChannelV],
			packInterpolate(b.Interpolate),
		}
		if err := w.WriteBytes(meta[:]); err != nil {
			return nil, err
		}
	}
	for i := range img.Blocks {
		if err := w.WriteBytes(img.Blocks[i].Corners[:]); err != nil {
			return nil, err
		}
	}
	for i := range img.Blocks {
		for row := range img.Blocks[i].Residual {
			if err := w.WriteBytes(img.Blocks[i].Residual[row][:]); err != nil {
				return nil, err
			}
		}
	}

	if err := w.WriteBytes([]byte(magicFooter)); err != nil {
		return nil, err
	}

	return w.Bytes(), nil
}

// Decode parses a binary stream. Malformed input yields an error wrapping
// ErrFormat that names the failed check; no partial image is returned.
func Decode(data []byte) (*Image, error) {
	r := cursor.NewReader(data)

	width, height, count, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	// Check the arrays fit before allocating anything sized by count.
	if need := count * blockWireSize; r.Len() < need {
		return nil, fmt.Errorf("%w: %d blocks need %d bytes, have %d", ErrTruncated, count, need, r.Len())
	}

	img := &Image{
		Width:  width,
		Height: height,
		Blocks: make([]Block, count),
	}

	meta, err := r.ReadBytes(count * metaSize)
	if err != nil {
		return nil, fmt.Errorf("%w: block metadata: %v", ErrTruncated, err)
	}
	for i := range img.Blocks {
		m := meta[i*metaSize : (i+1)*metaSize]
		b := &img.Blocks[i]
		b.Max[ChannelY], b.Min[ChannelY] = m[0], m[1]
		b.Max[ChannelU], b.Min[ChannelU] = m[2], m[3]
		b.Max[ChannelV], b.Min[ChannelV] = m[4], m[5]
		b.Interpolate = unpackInterpolate(m[6])
	}

	corners, err := r.ReadBytes(count * CornerCount)
	if err != nil {
		return nil, fmt.Errorf("%w: corners: %v", ErrTruncated, err)
	}
	for i := range img.Blocks {
		copy(img.Blocks[i].Corners[:], corners[i*CornerCount:])
	}

	residual, err := r.ReadBytes(count * BlockPixels)
	if err != nil {
		return nil, fmt.Errorf("%w: residuals: %v", ErrTruncated, err)
	}
	for i := range img.Blocks {
		src := residual[i*BlockPixels:]
		for row := range img.Blocks[i].Residual {
			copy(img.Blocks[i].Residual[row][:], src[row*BlockSize:])
		}
	}

	footer, err := r.ReadBytes(len(magicFooter))
	if err != nil {
		return nil, fmt.Errorf("%w: need %d footer bytes, have %d", ErrBadFooter, len(magicFooter), r.Len())
	}
	if !bytes.Equal(footer, []byte(magicFooter)) {
		return nil, fmt.Errorf("%w: footer mismatch at offset %d", ErrBadFooter, r.Offset()-len(magicFooter))
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes after footer", ErrBadFooter, r.Len())
	}

	return img, nil
}

// readHeader validates the magic header and reads the fixed fields.
func readHeader(r *cursor.Reader) (width, height uint16, count int, err error) {
	avail := min(r.Len(), len(magicHeader))
	head, _ := r.ReadBytes(avail)
	if !bytes.Equal(head, []byte(magicHeader[:avail])) {
		return 0, 0, 0, ErrBadHeader
	}
	if avail < len(magicHeader) {
		return 0, 0, 0, fmt.Errorf("%w: %d of %d header bytes", ErrTruncated, avail, len(magicHeader))
	}

	if width, err = r.ReadUint16(); err != nil {
		return 0, 0, 0, fmt.Errorf("%w: width", ErrTruncated)
	}
	if height, err = r.ReadUint16(); err != nil {
		return 0, 0, 0, fmt.Errorf("%w: height", ErrTruncated)
	}
	n, err := r.ReadUint32()
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: block count", ErrTruncated)
	}

	if err := checkDimensions(int(width), int(height)); err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %dx%d", ErrBadDimensions, width, height)
	}
	want := (int(width) / BlockSize) * (int(height) / BlockSize)
	if int64(n) != int64(want) {
		return 0, 0, 0, fmt.Errorf("%w: %dx%d needs %d blocks, header declares %d", ErrBlockCountMismatch, width, height, want, n)
	}

	return width, height, want, nil
}

// ReadConfig reads only the stream header and reports the image dimensions.
// Streams wrapped in an LZ4 or zstd frame are unwrapped first.
func ReadConfig(r io.Reader) (image.Config, error) {
	src, release, err := unwrapReader(r)
	if err != nil {
		return image.Config{}, err
	}
	defer release()

	head := make([]byte, len(magicHeader)+fixedHeaderSize)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return image.Config{}, fmt.Errorf("%w: %v", ErrReadHeader, err)
	}

	width, height, _, err := readHeader(cursor.NewReader(head[:n]))
	if err != nil {
		return image.Config{}, err
	}

	return image.Config{
		Width:      int(width),
		Height:     int(height),
		ColorModel: color.RGBAModel,
	}, nil
}
