package imgcompress

import "fmt"

const (
	// BlockSize is the edge length of a block in pixels.
	BlockSize = 8
	// BlockPixels is the number of pixels in a block.
	BlockPixels = BlockSize * BlockSize
	// CornerCount is the number of corner samples per block.
	CornerCount = 4
)

// Channel indexes the per-channel arrays of a Block.
const (
	ChannelY = iota
	ChannelU
	ChannelV
	channelCount
)

// Corner indexes Block.Corners.
const (
	CornerTopLeft = iota
	CornerTopRight
	CornerBottomLeft
	CornerBottomRight
)

// cornerPositions are the (row, col) pixel positions of the corners.
var cornerPositions = [CornerCount][2]int{
	{0, 0},
	{0, BlockSize - 1},
	{BlockSize - 1, 0},
	{BlockSize - 1, BlockSize - 1},
}

// Interpolation flag bits in the packed metadata byte.
const (
	flagInterpolateV = 1 << 0
	flagInterpolateU = 1 << 1
	flagInterpolateY = 1 << 2
)

// Block is one 8x8 tile of a compressed image.
type Block struct {
	// Max and Min hold the observed channel range, indexed by ChannelY/U/V.
	Max [channelCount]uint8
	Min [channelCount]uint8
	// Interpolate marks channels reconstructed only from Corners.
	Interpolate [channelCount]bool
	// Corners hold absolute quantized samples in TL, TR, BL, BR order.
	Corners [CornerCount]uint8
	// Residual holds delta codes for every pixel in raster order.
	Residual [BlockSize][BlockSize]uint8
}

// Image is the in-memory compressed representation.
type Image struct {
	Width  uint16
	Height uint16
	// Blocks are in raster order over the block grid.
	Blocks []Block
}

// BlockCount returns the number of blocks.
func (img *Image) BlockCount() int {
	return len(img.Blocks)
}

// BlocksWide returns the number of block columns.
func (img *Image) BlocksWide() int {
	return int(img.Width) / BlockSize
}

// BlocksHigh returns the number of block rows.
func (img *Image) BlocksHigh() int {
	return int(img.Height) / BlockSize
}

// Validate checks the dimension and block count invariants.
func (img *Image) Validate() error {
	if img == nil {
		return ErrNilImage
	}
	if err := checkDimensions(int(img.Width), int(img.Height)); err != nil {
		return err
	}
	if want := img.BlocksWide() * img.BlocksHigh(); len(img.Blocks) != want {
		return fmt.Errorf("%w: %dx%d needs %d blocks, have %d", ErrBlockCountMismatch, img.Width, img.Height, want, len(img.Blocks))
	}

	return nil
}

// checkDimensions reports whether width and height are usable block grid sizes.
func checkDimensions(width, height int) error {
	if width <= 0 || height <= 0 || width > maxUint16 || height > maxUint16 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if width%BlockSize != 0 || height%BlockSize != 0 {
		return fmt.Errorf("%w: %dx%d is not a multiple of %d", ErrInvalidDimensions, width, height, BlockSize)
	}

	return nil
}

// packInterpolate packs the flags as bit 2 = Y, bit 1 = U, bit 0 = V.
func packInterpolate(flags [channelCount]bool) uint8 {
	var b uint8
	if flags[ChannelY] {
		b |= flagInterpolateY
	}
	if flags[ChannelU] {
		b |= flagInterpolateU
	}
	if flags[ChannelV] {
		b |= flagInterpolateV
	}
	return b
}

// unpackInterpolate is the inverse of packInterpolate; other bits are ignored.
func unpackInterpolate(b uint8) [channelCount]bool {
	return [channelCount]bool{
		ChannelY: b&flagInterpolateY != 0,
		ChannelU: b&flagInterpolateU != 0,
		ChannelV: b&flagInterpolateV != 0,
	}
}
