package imgcompress

import "testing"

// solidRGB returns a width x height buffer filled with one color.
func solidRGB(width, height int, r, g, b uint8) []byte {
	pix := make([]byte, width*height*3)
	for i := 0; i < len(pix); i += 3 {
		pix[i], pix[i+1], pix[i+2] = r, g, b
	}
	return pix
}

// gradientRGB returns a smooth deterministic pattern.
func gradientRGB(width, height int) []byte {
	pix := make([]byte, width*height*3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			off := (y*width + x) * 3
			pix[off] = uint8(x & 0xff)   //nolint:gosec // bounded by mask
			pix[off+1] = uint8(y & 0xff) //nolint:gosec // bounded by mask
			pix[off+2] = 128
		}
	}
	return pix
}

// noisyRGB returns a pattern with mixed low/high frequencies.
func noisyRGB(width, height int) []byte {
	pix := make([]byte, width*height*3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			off := (y*width + x) * 3
			pix[off] = uint8((x*7 + y*3) & 0xff)          //nolint:gosec // bounded by mask
			pix[off+1] = uint8((x*13 + y*5) & 0xff)       //nolint:gosec // bounded by mask
			pix[off+2] = uint8((x ^ y ^ (x >> 2)) & 0xff) //nolint:gosec // bounded by mask
		}
	}
	return pix
}

// mustCompress compresses pix or fails the test.
func mustCompress(tb testing.TB, pix []byte, width, height int, opts *CompressOptions) *Image {
	tb.Helper()

	img, err := Compress(pix, width, height, opts)
	if err != nil {
		tb.Fatalf("Compress: %v", err)
	}
	return img
}

// mustEncode encodes img or fails the test.
func mustEncode(tb testing.TB, img *Image) []byte {
	tb.Helper()

	data, err := Encode(img)
	if err != nil {
		tb.Fatalf("Encode: %v", err)
	}
	return data
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
