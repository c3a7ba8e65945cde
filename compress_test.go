package imgcompress

import (
	"errors"
	"math"
	"reflect"
	"sync"
	"testing"
)

func TestCompressBlackBlock(t *testing.T) {
	t.Parallel()

	img := mustCompress(t, solidRGB(8, 8, 0, 0, 0), 8, 8, &CompressOptions{Level: 16})
	if img.BlockCount() != 1 {
		t.Fatalf("BlockCount = %d, want 1", img.BlockCount())
	}
	b := img.Blocks[0]

	if b.Min != [3]uint8{0, 128, 128} || b.Max != [3]uint8{0, 128, 128} {
		t.Fatalf("min/max = %v/%v, want Y=0 U=128 V=128", b.Min, b.Max)
	}
	if b.Interpolate != [3]bool{true, true, true} {
		t.Fatalf("interpolate = %v, want all set", b.Interpolate)
	}
	if b.Residual != [BlockSize][BlockSize]uint8{} {
		t.Fatalf("residual not all zero: %v", b.Residual)
	}

	// Interpolated corners are quantized against the full 8-bit range:
	// Y=0 -> 0, U=V=128 -> floor(128/255*3.9) = 1.
	want := packCode(0, 1, 1)
	for i, c := range b.Corners {
		if c != want {
			t.Fatalf("corner %d = %d, want %d", i, c, want)
		}
	}
}

func TestCompressInterpolateThresholds(t *testing.T) {
	t.Parallel()

	// A horizontal gray ramp: Y spans 0..35, U and V stay flat.
	pix := make([]byte, 8*8*3)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			v := uint8(x * 5) //nolint:gosec // bounded
			off := (y*8 + x) * 3
			pix[off], pix[off+1], pix[off+2] = v, v, v
		}
	}

	tests := []struct {
		name  string
		level int
		wantY bool
	}{
		{name: "level-16", level: 16, wantY: false},
		{name: "level-70", level: 70, wantY: false},
		{name: "level-74", level: 74, wantY: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			b := mustCompress(t, pix, 8, 8, &CompressOptions{Level: tc.level}).Blocks[0]
			drange := int(b.Max[ChannelY]) - int(b.Min[ChannelY])
			if drange != 36 && drange != 35 {
				t.Fatalf("unexpected Y range %d", drange)
			}
			if got := drange < tc.level/2; got != b.Interpolate[ChannelY] {
				t.Fatalf("interpolateY = %v for drange %d level %d", b.Interpolate[ChannelY], drange, tc.level)
			}
			if b.Interpolate[ChannelY] != tc.wantY {
				t.Fatalf("interpolateY = %v at level %d, want %v", b.Interpolate[ChannelY], tc.level, tc.wantY)
			}
			if !b.Interpolate[ChannelU] || !b.Interpolate[ChannelV] {
				t.Fatalf("flat chroma should interpolate: %v", b.Interpolate)
			}
		})
	}
}

func TestCompressResidualDeltas(t *testing.T) {
	t.Parallel()

	pix := noisyRGB(8, 8)
	var px [BlockSize][BlockSize]yuv
	loadBlock(&px, pix, 8, 0, 0)

	b := mustCompress(t, pix, 8, 8, &CompressOptions{Level: 2}).Blocks[0]

	// Replaying the deltas must land on the quantized values.
	var prev [channelCount]int
	for row := 0; row < BlockSize; row++ {
		for col := 0; col < BlockSize; col++ {
			dy, du, dv := unpackCode(b.Residual[row][col])
			deltas := [channelCount]int{dy, du, dv}
			for ch := 0; ch < channelCount; ch++ {
				prev[ch] = deltaDecode(prev[ch], deltas[ch], ch)
				want := 0
				if !b.Interpolate[ch] {
					drange := int(b.Max[ch]) - int(b.Min[ch])
					want = quantize(px[row][col][ch], b.Min[ch], drange, ch)
				}
				if prev[ch] != want {
					t.Fatalf("pixel (%d,%d) channel %d: replayed %d, want %d", row, col, ch, prev[ch], want)
				}
			}
		}
	}
}

func TestCompressPreconditions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pix     []byte
		w, h    int
		opts    *CompressOptions
		wantErr error
	}{
		{name: "zero-width", pix: nil, w: 0, h: 8, wantErr: ErrInvalidDimensions},
		{name: "not-multiple", pix: make([]byte, 10*8*3), w: 10, h: 8, wantErr: ErrInvalidDimensions},
		{name: "too-wide", pix: nil, w: 1 << 17, h: 8, wantErr: ErrInvalidDimensions},
		{name: "short-buffer", pix: make([]byte, 8*8*3-1), w: 8, h: 8, wantErr: ErrPixelBufferSize},
		{name: "long-buffer", pix: make([]byte, 8*8*4), w: 8, h: 8, wantErr: ErrPixelBufferSize},
		{name: "negative-level", pix: make([]byte, 8*8*3), w: 8, h: 8, opts: &CompressOptions{Level: -1}, wantErr: ErrInvalidLevel},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Compress(tc.pix, tc.w, tc.h, tc.opts)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
			if !errors.Is(err, ErrPrecondition) {
				t.Fatalf("expected a precondition error, got %v", err)
			}
		})
	}
}

func TestCompressWorkersDeterministic(t *testing.T) {
	t.Parallel()

	pix := noisyRGB(64, 40)
	serial := mustCompress(t, pix, 64, 40, &CompressOptions{Workers: 1})

	var (
		mu    sync.Mutex
		calls []int
	)
	parallel := mustCompress(t, pix, 64, 40, &CompressOptions{
		Workers: 4,
		Progress: func(done, total int) {
			mu.Lock()
			defer mu.Unlock()
			if total != 40 {
				t.Errorf("total = %d, want 40", total)
			}
			calls = append(calls, done)
		},
	})

	if !reflect.DeepEqual(serial, parallel) {
		t.Fatalf("parallel compression differs from serial")
	}
	if len(calls) != 5 || calls[len(calls)-1] != 40 {
		t.Fatalf("progress calls = %v, want 5 rows ending at 40", calls)
	}
	for i := 1; i < len(calls); i++ {
		if calls[i] <= calls[i-1] {
			t.Fatalf("progress not increasing: %v", calls)
		}
	}
}

func TestCompressLevelOneFlatBlock(t *testing.T) {
	t.Parallel()

	// Level 1 gives a Y threshold of 0, so a flat Y channel is delta coded
	// with a zero range and must not divide by zero.
	b := mustCompress(t, solidRGB(8, 8, 0, 0, 0), 8, 8, &CompressOptions{Level: 1}).Blocks[0]
	if b.Interpolate[ChannelY] {
		t.Fatalf("Y should not interpolate at level 1")
	}
	if b.Residual != [BlockSize][BlockSize]uint8{} {
		t.Fatalf("residual not all zero")
	}
	if qy, _, _ := unpackCode(b.Corners[0]); qy != 0 {
		t.Fatalf("corner Y = %d, want 0", qy)
	}
}

func TestQuantizeHelpers(t *testing.T) {
	t.Parallel()

	if got := quantize(10, 10, 0, ChannelY); got != 0 {
		t.Fatalf("zero range quantize = %d, want 0", got)
	}
	if got := quantize(20, 10, 10, ChannelY); got != 15 {
		t.Fatalf("top of range Y = %d, want 15", got)
	}
	if got := quantize(20, 10, 10, ChannelU); got != 3 {
		t.Fatalf("top of range U = %d, want 3", got)
	}
	// 255.5 over a clamped max of 255 must stay in range.
	if got := quantize(255.5, 254, 1, ChannelU); got != 3 {
		t.Fatalf("overshoot U = %d, want 3", got)
	}
	if got := quantizeAbsolute(255, ChannelY); got != 15 {
		t.Fatalf("absolute Y = %d, want 15", got)
	}
	if got := quantizeAbsolute(255.5, ChannelV); got != 3 {
		t.Fatalf("absolute V overshoot = %d, want 3", got)
	}

	for q := 0; q < rangeY; q++ {
		if got := dequantize(q, 0, 15, ChannelY); math.Abs(got-float64(q)) > 1e-9 {
			t.Fatalf("dequantize(%d) = %v", q, got)
		}
	}
}

func TestDeltaWraparound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		ch        int
		prev, cur int
		delta     int
	}{
		{name: "y-15-to-0", ch: ChannelY, prev: 15, cur: 0, delta: 1},
		{name: "y-3-to-2", ch: ChannelY, prev: 3, cur: 2, delta: 15},
		{name: "y-0-to-15", ch: ChannelY, prev: 0, cur: 15, delta: 15},
		{name: "u-3-to-0", ch: ChannelU, prev: 3, cur: 0, delta: 1},
		{name: "v-2-to-1", ch: ChannelV, prev: 2, cur: 1, delta: 3},
		{name: "same", ch: ChannelV, prev: 2, cur: 2, delta: 0},
	}

	for _, tc := range tests {
		if got := deltaEncode(tc.prev, tc.cur, tc.ch); got != tc.delta {
			t.Fatalf("%s: deltaEncode = %d, want %d", tc.name, got, tc.delta)
		}
		if got := deltaDecode(tc.prev, tc.delta, tc.ch); got != tc.cur {
			t.Fatalf("%s: deltaDecode = %d, want %d", tc.name, got, tc.cur)
		}
	}
}

func TestPackCode(t *testing.T) {
	t.Parallel()

	for y := 0; y < rangeY; y++ {
		for u := 0; u < rangeUV; u++ {
			for v := 0; v < rangeUV; v++ {
				c := packCode(y, u, v)
				if int(c) != y*16+u*4+v {
					t.Fatalf("packCode(%d,%d,%d) = %d", y, u, v, c)
				}
				gy, gu, gv := unpackCode(c)
				if gy != y || gu != u || gv != v {
					t.Fatalf("unpackCode(%d) = %d,%d,%d", c, gy, gu, gv)
				}
			}
		}
	}
}

func TestYUVConversion(t *testing.T) {
	t.Parallel()

	c := rgbToYUV(0, 0, 0)
	if c != (yuv{0, 128, 128}) {
		t.Fatalf("black = %v, want {0 128 128}", c)
	}

	for _, rgb := range [][3]uint8{{0, 0, 0}, {255, 255, 255}, {200, 30, 90}, {12, 250, 7}} {
		r, g, b := yuvToRGB(rgbToYUV(rgb[0], rgb[1], rgb[2]))
		if absDiff(r, rgb[0]) > 2 || absDiff(g, rgb[1]) > 2 || absDiff(b, rgb[2]) > 2 {
			t.Fatalf("rgb %v -> yuv -> %d,%d,%d", rgb, r, g, b)
		}
	}
}
