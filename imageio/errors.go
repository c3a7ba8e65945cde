package imageio

import "errors"

var (
	// ErrUnknownFormat indicates an unsupported image container format.
	ErrUnknownFormat = errors.New("unknown image format")
	// ErrDecodeImage indicates decoding the source container failed.
	ErrDecodeImage = errors.New("decode image failed")
	// ErrEncodeImage indicates encoding the output container failed.
	ErrEncodeImage = errors.New("encode image failed")
	// ErrEmptyImage indicates an image without pixels.
	ErrEmptyImage = errors.New("empty image")
	// ErrBufferSize indicates an RGB buffer whose length does not match its dimensions.
	ErrBufferSize = errors.New("rgb buffer size mismatch")
	// ErrSizeOverflow indicates a dimension exceeds supported limits.
	ErrSizeOverflow = errors.New("size overflow")
	// ErrDDSHeaderRead indicates DDS header read failed.
	ErrDDSHeaderRead = errors.New("reading DDS header failed")
	// ErrDDSDX10Read indicates DDS DX10 header read failed.
	ErrDDSDX10Read = errors.New("reading DDS DX10 header failed")
	// ErrDDSDataRead indicates the DDS top level data could not be read.
	ErrDDSDataRead = errors.New("reading DDS data failed")
	// ErrDDSFormat indicates an unsupported DDS pixel format.
	ErrDDSFormat = errors.New("unsupported DDS pixel format")
	// ErrCompressMipmap indicates mipmap compression failed.
	ErrCompressMipmap = errors.New("compress mipmap failed")
	// ErrWriteDDSMagic indicates DDS magic write failed.
	ErrWriteDDSMagic = errors.New("writing DDS magic failed")
	// ErrWriteDDSHeader indicates DDS header write failed.
	ErrWriteDDSHeader = errors.New("writing DDS header failed")
	// ErrWriteDDSData indicates DDS payload write failed.
	ErrWriteDDSData = errors.New("writing DDS data failed")
)
