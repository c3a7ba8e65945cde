package imgcompress

import (
	"bytes"
	"errors"
	"testing"
)

func TestTransportRoundTrip(t *testing.T) {
	t.Parallel()

	data := mustEncode(t, mustCompress(t, noisyRGB(64, 64), 64, 64, nil))

	for _, tr := range []Transport{TransportRaw, TransportLZ4, TransportZstd} {
		tr := tr
		t.Run(tr.String(), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := WriteStream(&buf, data, tr); err != nil {
				t.Fatalf("WriteStream: %v", err)
			}
			if got := DetectTransport(buf.Bytes()); got != tr {
				t.Fatalf("DetectTransport = %v, want %v", got, tr)
			}
			if tr != TransportRaw && bytes.Equal(buf.Bytes(), data) {
				t.Fatalf("%v output equals raw stream", tr)
			}

			got, err := ReadStream(&buf)
			if err != nil {
				t.Fatalf("ReadStream: %v", err)
			}
			if !bytes.Equal(got, data) {
				t.Fatalf("unwrapped stream differs")
			}
			if _, err := Decode(got); err != nil {
				t.Fatalf("Decode: %v", err)
			}
		})
	}
}

func TestParseTransport(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Transport
		wantErr bool
	}{
		{in: "", want: TransportRaw},
		{in: "raw", want: TransportRaw},
		{in: "none", want: TransportRaw},
		{in: "LZ4", want: TransportLZ4},
		{in: " zstd ", want: TransportZstd},
		{in: "zst", want: TransportZstd},
		{in: "gzip", wantErr: true},
	}

	for _, tc := range tests {
		got, err := ParseTransport(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrUnknownTransport) {
				t.Fatalf("ParseTransport(%q): expected ErrUnknownTransport, got %v", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseTransport(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseTransport(%q) = %v, want %v", tc.in, got, tc.want)
		}
		if back, err := ParseTransport(got.String()); err != nil || back != got {
			t.Fatalf("String() of %v does not parse back", got)
		}
	}

	if s := Transport(9).String(); s != "Transport(9)" {
		t.Fatalf("unknown transport String() = %q", s)
	}
}

func TestWriteStreamUnknownTransport(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteStream(&buf, []byte("x"), Transport(42)); !errors.Is(err, ErrUnknownTransport) {
		t.Fatalf("expected ErrUnknownTransport, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("wrote %d bytes for unknown transport", buf.Len())
	}
}

func TestUnwrapCorruptFrames(t *testing.T) {
	t.Parallel()

	data := mustEncode(t, mustCompress(t, noisyRGB(16, 16), 16, 16, nil))

	for _, tr := range []Transport{TransportLZ4, TransportZstd} {
		var buf bytes.Buffer
		if err := WriteStream(&buf, data, tr); err != nil {
			t.Fatalf("WriteStream(%v): %v", tr, err)
		}
		framed := buf.Bytes()

		// Keep the magic so detection still picks the frame type.
		if _, err := Unwrap(framed[:len(framed)/2]); !errors.Is(err, ErrTransportRead) {
			t.Fatalf("%v: truncated frame: expected ErrTransportRead, got %v", tr, err)
		}
	}
}

func TestUnwrapRawPassthrough(t *testing.T) {
	t.Parallel()

	raw := []byte(magicHeader)
	got, err := Unwrap(raw)
	if err != nil {
		t.Fatalf("Unwrap: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Fatalf("raw data changed by Unwrap")
	}
}

func TestUnwrapSizeLimit(t *testing.T) {
	t.Parallel()

	// Zeros compress well, so a small frame inflates far past the limit.
	payload := make([]byte, 4096)
	const limit = 1024

	for _, tr := range []Transport{TransportLZ4, TransportZstd} {
		var buf bytes.Buffer
		if err := WriteStream(&buf, payload, tr); err != nil {
			t.Fatalf("%v: WriteStream: %v", tr, err)
		}

		if _, err := unwrap(buf.Bytes(), limit); !errors.Is(err, ErrTransportRead) {
			t.Fatalf("%v: expected ErrTransportRead above %d bytes, got %v", tr, limit, err)
		}

		got, err := Unwrap(buf.Bytes())
		if err != nil {
			t.Fatalf("%v: Unwrap: %v", tr, err)
		}
		if !bytes.Equal(got, payload) {
			t.Fatalf("%v: unwrapped %d bytes, want %d", tr, len(got), len(payload))
		}
	}

	if maxUnwrapSize < int64(EncodedSize(1)) {
		t.Fatalf("maxUnwrapSize %d is below a one-block stream", maxUnwrapSize)
	}
}
