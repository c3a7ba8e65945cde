package imgcompress

// DecompressOptions configures Decompress.
type DecompressOptions struct {
	// Workers limits parallel block rows. Zero means GOMAXPROCS.
	Workers int
	// Progress, when set, is called as block rows complete.
	Progress ProgressFunc
}

// Decompress reconstructs an interleaved 8-bit RGB buffer of
// img.Width*img.Height*3 bytes.
func Decompress(img *Image, opts *DecompressOptions) ([]byte, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}

	var (
		workers  int
		progress ProgressFunc
	)
	if opts != nil {
		workers, progress = opts.Workers, opts.Progress
	}

	width := int(img.Width)
	cols, rows := img.BlocksWide(), img.BlocksHigh()
	pix := make([]byte, width*int(img.Height)*3)

	forEachBlockRow(rows, cols, workers, progress, func(by int) {
		for bx := 0; bx < cols; bx++ {
			decompressBlock(pix, width, bx*BlockSize, by*BlockSize, &img.Blocks[by*cols+bx])
		}
	})

	return pix, nil
}

// decompressBlock writes the reconstructed 8x8 tile at (x0, y0).
func decompressBlock(pix []byte, width, x0, y0 int, b *Block) {
	var px [BlockSize][BlockSize]yuv
	reconstructBlock(&px, b)

	for row := 0; row < BlockSize; row++ {
		off := ((y0+row)*width + x0) * 3
		for col := 0; col < BlockSize; col++ {
			p := pix[off+col*3 : off+col*3+3]
			p[0], p[1], p[2] = yuvToRGB(px[row][col])
		}
	}
}

// reconstructBlock rebuilds the block's YUV pixels from corners and residual.
func reconstructBlock(dst *[BlockSize][BlockSize]yuv, b *Block) {
	var corners [CornerCount]yuv
	for i, code := range b.Corners {
		qy, qu, qv := unpackCode(code)
		corners[i] = yuv{
			ChannelY: dequantize(qy, b.Min[ChannelY], b.Max[ChannelY], ChannelY),
			ChannelU: dequantize(qu, b.Min[ChannelU], b.Max[ChannelU], ChannelU),
			ChannelV: dequantize(qv, b.Min[ChannelV], b.Max[ChannelV], ChannelV),
		}
	}

	// The running value is tracked for every channel, interpolated ones
	// included; their decoded values are never read.
	var prev [channelCount]int
	for row := 0; row < BlockSize; row++ {
		fy := float64(row) / float64(BlockSize-1)
		for col := 0; col < BlockSize; col++ {
			fx := float64(col) / float64(BlockSize-1)

			dy, du, dv := unpackCode(b.Residual[row][col])
			prev[ChannelY] = deltaDecode(prev[ChannelY], dy, ChannelY)
			prev[ChannelU] = deltaDecode(prev[ChannelU], du, ChannelU)
			prev[ChannelV] = deltaDecode(prev[ChannelV], dv, ChannelV)

			for ch := 0; ch < channelCount; ch++ {
				if b.Interpolate[ch] {
					dst[row][col][ch] = bilinear(
						corners[CornerTopLeft][ch], corners[CornerTopRight][ch],
						corners[CornerBottomLeft][ch], corners[CornerBottomRight][ch],
						fx, fy,
					)
				} else {
					dst[row][col][ch] = dequantize(prev[ch], b.Min[ch], b.Max[ch], ch)
				}
			}
		}
	}
}
