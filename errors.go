package imgcompress

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat is wrapped by every error describing a malformed stream.
	ErrFormat = errors.New("invalid stream format")
	// ErrPrecondition is wrapped by every error describing invalid caller input.
	ErrPrecondition = errors.New("precondition violated")
)

var (
	// ErrBadHeader indicates the stream does not start with the magic header.
	ErrBadHeader = fmt.Errorf("%w: bad header", ErrFormat)
	// ErrBadFooter indicates the stream does not end with the magic footer.
	ErrBadFooter = fmt.Errorf("%w: bad footer", ErrFormat)
	// ErrTruncated indicates the stream is shorter than its header declares.
	ErrTruncated = fmt.Errorf("%w: truncated stream", ErrFormat)
	// ErrBlockCountMismatch indicates block count does not match dimensions.
	ErrBlockCountMismatch = fmt.Errorf("%w: block count mismatch", ErrFormat)
	// ErrBadDimensions indicates the header declares an unusable width or height.
	ErrBadDimensions = fmt.Errorf("%w: bad dimensions", ErrFormat)
)

var (
	// ErrInvalidDimensions indicates width or height is zero, too large or not a multiple of 8.
	ErrInvalidDimensions = fmt.Errorf("%w: invalid dimensions", ErrPrecondition)
	// ErrPixelBufferSize indicates the pixel buffer length does not match width*height*3.
	ErrPixelBufferSize = fmt.Errorf("%w: pixel buffer size mismatch", ErrPrecondition)
	// ErrInvalidLevel indicates a non-positive compression level.
	ErrInvalidLevel = fmt.Errorf("%w: invalid compression level", ErrPrecondition)
	// ErrNilImage indicates a nil image was passed.
	ErrNilImage = fmt.Errorf("%w: nil image", ErrPrecondition)
)

var (
	// ErrSizeOverflow indicates a size or count exceeds the limits of the format.
	ErrSizeOverflow = errors.New("size overflow")
	// ErrUnknownTransport indicates an unsupported transport name.
	ErrUnknownTransport = errors.New("unknown transport")
	// ErrTransportWrite indicates wrapping the stream failed.
	ErrTransportWrite = errors.New("writing transport stream failed")
	// ErrTransportRead indicates unwrapping the stream failed.
	ErrTransportRead = errors.New("reading transport stream failed")
	// ErrCreateFile indicates the output file could not be created.
	ErrCreateFile = errors.New("create file failed")
	// ErrWriteFile indicates the output file could not be written.
	ErrWriteFile = errors.New("write file failed")
	// ErrOpenFile indicates the input file could not be opened.
	ErrOpenFile = errors.New("open file failed")
	// ErrReadHeader indicates reading the stream header failed.
	ErrReadHeader = errors.New("reading header failed")
)
