package imgcompress

import (
	"fmt"
	"math"
)

// DefaultLevel is the compression level used when none is given.
const DefaultLevel = 16

// CompressOptions configures Compress.
type CompressOptions struct {
	// Level trades interpolation for delta coding. U and V interpolate when
	// their block range is below Level, Y when below Level/2. Zero means DefaultLevel.
	Level int
	// Workers limits parallel block rows. Zero means GOMAXPROCS.
	Workers int
	// Progress, when set, is called as block rows complete.
	Progress ProgressFunc
}

func (o *CompressOptions) level() int {
	if o == nil || o.Level == 0 {
		return DefaultLevel
	}
	return o.Level
}

// Compress converts an interleaved 8-bit RGB buffer into a compressed Image.
// Width and height must be multiples of 8 and pix must hold width*height*3 bytes.
func Compress(pix []byte, width, height int, opts *CompressOptions) (*Image, error) {
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	if want := width * height * 3; len(pix) != want {
		return nil, fmt.Errorf("%w: %dx%d needs %d bytes, have %d", ErrPixelBufferSize, width, height, want, len(pix))
	}
	level := opts.level()
	if level < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}

	var (
		workers  int
		progress ProgressFunc
	)
	if opts != nil {
		workers, progress = opts.Workers, opts.Progress
	}

	img := &Image{
		Width:  uint16(width),  // #nosec G115 -- checked by checkDimensions.
		Height: uint16(height), // #nosec G115 -- checked by checkDimensions.
	}
	cols, rows := img.BlocksWide(), img.BlocksHigh()
	img.Blocks = make([]Block, cols*rows)

	forEachBlockRow(rows, cols, workers, progress, func(by int) {
		for bx := 0; bx < cols; bx++ {
			var px [BlockSize][BlockSize]yuv
			loadBlock(&px, pix, width, bx*BlockSize, by*BlockSize)
			compressBlock(&img.Blocks[by*cols+bx], &px, level)
		}
	})

	return img, nil
}

// loadBlock converts the 8x8 tile at (x0, y0) into YUV.
func loadBlock(dst *[BlockSize][BlockSize]yuv, pix []byte, width, x0, y0 int) {
	for row := 0; row < BlockSize; row++ {
		off := ((y0+row)*width + x0) * 3
		for col := 0; col < BlockSize; col++ {
			p := pix[off+col*3 : off+col*3+3]
			dst[row][col] = rgbToYUV(p[0], p[1], p[2])
		}
	}
}

// compressBlock fills b from the block's YUV pixels.
func compressBlock(b *Block, px *[BlockSize][BlockSize]yuv, level int) {
	var drange [channelCount]int
	for ch := 0; ch < channelCount; ch++ {
		lo, hi := channelStats(px, ch)
		b.Min[ch], b.Max[ch] = lo, hi
		drange[ch] = int(hi) - int(lo)
	}

	b.Interpolate[ChannelY] = drange[ChannelY] < level/2
	b.Interpolate[ChannelU] = drange[ChannelU] < level
	b.Interpolate[ChannelV] = drange[ChannelV] < level

	var prev, q [channelCount]int
	for row := 0; row < BlockSize; row++ {
		for col := 0; col < BlockSize; col++ {
			for ch := 0; ch < channelCount; ch++ {
				q[ch] = 0
				if !b.Interpolate[ch] {
					q[ch] = quantize(px[row][col][ch], b.Min[ch], drange[ch], ch)
				}
			}
			b.Residual[row][col] = packCode(
				deltaEncode(prev[ChannelY], q[ChannelY], ChannelY),
				deltaEncode(prev[ChannelU], q[ChannelU], ChannelU),
				deltaEncode(prev[ChannelV], q[ChannelV], ChannelV),
			)
			prev = q
		}
	}

	for i, pos := range cornerPositions {
		c := px[pos[0]][pos[1]]
		for ch := 0; ch < channelCount; ch++ {
			if b.Interpolate[ch] {
				q[ch] = quantizeAbsolute(c[ch], ch)
			} else {
				q[ch] = quantize(c[ch], b.Min[ch], drange[ch], ch)
			}
		}
		b.Corners[i] = packCode(q[ChannelY], q[ChannelU], q[ChannelV])
	}
}

// channelStats returns floor(min) and ceil(max) of a channel, clamped to [0, 255].
func channelStats(px *[BlockSize][BlockSize]yuv, ch int) (lo, hi uint8) {
	minV, maxV := math.Inf(1), math.Inf(-1)
	for row := range px {
		for col := range px[row] {
			v := px[row][col][ch]
			minV = math.Min(minV, v)
			maxV = math.Max(maxV, v)
		}
	}
	return clampStat(math.Floor(minV)), clampStat(math.Ceil(maxV))
}

func clampStat(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
