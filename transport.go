package imgcompress

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Transport selects an optional storage wrapper around an encoded stream.
// The codec format inside the wrapper is unchanged.
type Transport int

const (
	// TransportRaw stores the encoded stream as is.
	TransportRaw Transport = iota
	// TransportLZ4 wraps the stream in an LZ4 frame.
	TransportLZ4
	// TransportZstd wraps the stream in a zstd frame.
	TransportZstd
)

var (
	lz4FrameMagic  = []byte{0x04, 0x22, 0x4d, 0x18}
	zstdFrameMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// String returns the transport name accepted by ParseTransport.
func (t Transport) String() string {
	switch t {
	case TransportRaw:
		return "raw"
	case TransportLZ4:
		return "lz4"
	case TransportZstd:
		return "zstd"
	default:
		return fmt.Sprintf("Transport(%d)", int(t))
	}
}

// ParseTransport parses "raw", "lz4" or "zstd". An empty name is raw.
func ParseTransport(name string) (Transport, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "raw", "none":
		return TransportRaw, nil
	case "lz4":
		return TransportLZ4, nil
	case "zstd", "zst":
		return TransportZstd, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownTransport, name)
	}
}

// WriteStream writes data to w wrapped in transport t.
func WriteStream(w io.Writer, data []byte, t Transport) error {
	switch t {
	case TransportRaw:
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("%w: %v", ErrTransportWrite, err)
		}
		return nil

	case TransportLZ4:
		zw := lz4.NewWriter(w)
		if err := zw.Apply(lz4.CompressionLevelOption(lz4.Level9)); err != nil {
			return fmt.Errorf("%w: lz4 options: %v", ErrTransportWrite, err)
		}
		if _, err := zw.Write(data); err != nil {
			_ = zw.Close()
			return fmt.Errorf("%w: lz4: %v", ErrTransportWrite, err)
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("%w: lz4: %v", ErrTransportWrite, err)
		}
		return nil

	case TransportZstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			return fmt.Errorf("%w: zstd: %v", ErrTransportWrite, err)
		}
		if _, err := enc.Write(data); err != nil {
			_ = enc.Close()
			return fmt.Errorf("%w: zstd: %v", ErrTransportWrite, err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("%w: zstd: %v", ErrTransportWrite, err)
		}
		return nil

	default:
		return fmt.Errorf("%w: %v", ErrUnknownTransport, t)
	}
}

// DetectTransport reports the transport of a stream from its leading bytes.
func DetectTransport(head []byte) Transport {
	switch {
	case bytes.HasPrefix(head, lz4FrameMagic):
		return TransportLZ4
	case bytes.HasPrefix(head, zstdFrameMagic):
		return TransportZstd
	default:
		return TransportRaw
	}
}

// ReadStream reads r fully and unwraps any LZ4 or zstd frame.
func ReadStream(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransportRead, err)
	}

	return Unwrap(data)
}

// maxUnwrapSize is the largest stream the 16-bit header fields can describe.
// Framed input that inflates past it is rejected.
const maxUnwrapSize = int64(len(magicHeader)+fixedHeaderSize+len(magicFooter)) +
	int64(maxUint16/BlockSize)*int64(maxUint16/BlockSize)*blockWireSize

// Unwrap removes an LZ4 or zstd frame from data; raw data is returned as is.
func Unwrap(data []byte) ([]byte, error) {
	return unwrap(data, maxUnwrapSize)
}

// unwrap is Unwrap with an explicit bound on the decompressed size.
func unwrap(data []byte, limit int64) ([]byte, error) {
	switch DetectTransport(data) {
	case TransportLZ4:
		out, err := io.ReadAll(io.LimitReader(lz4.NewReader(bytes.NewReader(data)), limit+1))
		if err != nil {
			return nil, fmt.Errorf("%w: lz4: %v", ErrTransportRead, err)
		}
		if int64(len(out)) > limit {
			return nil, fmt.Errorf("%w: lz4: output exceeds %d bytes", ErrTransportRead, limit)
		}
		return out, nil

	case TransportZstd:
		dec, err := newZstdReader(nil, limit)
		if err != nil {
			return nil, err
		}
		defer dec.Close()

		out, err := dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %v", ErrTransportRead, err)
		}
		if int64(len(out)) > limit {
			return nil, fmt.Errorf("%w: zstd: output exceeds %d bytes", ErrTransportRead, limit)
		}
		return out, nil

	default:
		return data, nil
	}
}

// unwrapReader returns a reader yielding the unframed stream of r.
// The returned close function releases decoder resources.
func unwrapReader(r io.Reader) (io.Reader, func(), error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(len(lz4FrameMagic))

	switch DetectTransport(head) {
	case TransportLZ4:
		return io.LimitReader(lz4.NewReader(br), maxUnwrapSize), func() {}, nil

	case TransportZstd:
		dec, err := newZstdReader(br, maxUnwrapSize)
		if err != nil {
			return nil, nil, err
		}
		return dec, dec.Close, nil

	default:
		return br, func() {}, nil
	}
}

func newZstdReader(r io.Reader, limit int64) (*zstd.Decoder, error) {
	dec, err := zstd.NewReader(r, zstd.WithDecoderMaxMemory(uint64(limit))) //nolint:gosec // limit is positive
	if err != nil {
		return nil, fmt.Errorf("%w: zstd: %v", ErrTransportRead, err)
	}
	return dec, nil
}
