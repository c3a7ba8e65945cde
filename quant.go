package imgcompress

import "math"

// Quantization ranges: 4 bits for Y, 2 bits each for U and V.
const (
	rangeY  = 16
	rangeUV = 4
)

// channelRange is the modular range of each channel's quantized value.
var channelRange = [channelCount]int{rangeY, rangeUV, rangeUV}

// channelScale maps a normalized [0,1] value into the quantized range.
// It stays just under the range so a normalized 1.0 lands on the top step.
var channelScale = [channelCount]float64{15.9, 3.9, 3.9}

// yuv holds one pixel in the codec's YUV space.
type yuv [channelCount]float64

// rgbToYUV converts 8-bit RGB into YUV with U and V centered on 128.
func rgbToYUV(r, g, b uint8) yuv {
	fr, fg, fb := float64(r), float64(g), float64(b)
	return yuv{
		ChannelY: 0.299*fr + 0.587*fg + 0.114*fb,
		ChannelU: -0.169*fr - 0.331*fg + 0.5*fb + 128,
		ChannelV: 0.5*fr - 0.419*fg - 0.081*fb + 128,
	}
}

// yuvToRGB converts YUV back into clamped, rounded 8-bit RGB.
func yuvToRGB(c yuv) (r, g, b uint8) {
	y, u, v := c[ChannelY], c[ChannelU]-128, c[ChannelV]-128
	return clampByte(y + 1.402*v),
		clampByte(y - 0.344*u - 0.714*v),
		clampByte(y + 1.772*u)
}

func clampByte(v float64) uint8 {
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(math.Round(v))
}

// quantize maps value in [min, min+drange] onto the channel's quantized range.
// A zero drange quantizes to 0.
func quantize(value float64, min uint8, drange int, ch int) int {
	if drange <= 0 {
		return 0
	}
	return clampQuant(int(math.Floor((value-float64(min))/float64(drange)*channelScale[ch])), ch)
}

// quantizeAbsolute maps value in [0, 255] onto the channel's quantized range.
func quantizeAbsolute(value float64, ch int) int {
	return clampQuant(int(math.Floor(value/255.0*channelScale[ch])), ch)
}

func clampQuant(q, ch int) int {
	if q < 0 {
		return 0
	}
	if top := channelRange[ch] - 1; q > top {
		return top
	}
	return q
}

// dequantize maps q in [0, range-1] linearly onto [min, max].
func dequantize(q int, min, max uint8, ch int) float64 {
	return float64(q)/float64(channelRange[ch]-1)*(float64(max)-float64(min)) + float64(min)
}

// deltaEncode returns the non-negative modular difference cur - prev.
func deltaEncode(prev, cur, ch int) int {
	m := channelRange[ch]
	return (cur - prev + m) % m
}

// deltaDecode recovers the value from prev and a modular delta.
func deltaDecode(prev, delta, ch int) int {
	return (prev + delta) % channelRange[ch]
}

// packCode packs a (Y, U, V) triple as 4/2/2 bits.
func packCode(y, u, v int) uint8 {
	// #nosec G115 -- y < 16, u < 4, v < 4.
	return uint8((y*rangeUV+u)*rangeUV + v)
}

// unpackCode is the inverse of packCode.
func unpackCode(c uint8) (y, u, v int) {
	n := int(c)
	return n / (rangeUV * rangeUV), (n % (rangeUV * rangeUV)) / rangeUV, n % rangeUV
}

// bilinear blends the four corners at normalized position (fx, fy).
func bilinear(tl, tr, bl, br, fx, fy float64) float64 {
	top := tl*(1-fx) + tr*fx
	bottom := bl*(1-fx) + br*fx
	return top*(1-fy) + bottom*fy
}
