/*
Package imgcompress implements a lossy block image codec and its binary
stream format.

An RGB image is split into 8x8 blocks. Each block stores its YUV channel
ranges, per-channel interpolation flags, four absolute corner samples and a
64-entry residual of 4/2/2-bit quantized deltas. Channels with a narrow range
are rebuilt from the corners by bilinear interpolation; the rest are rebuilt
from the delta stream.

The stream is a fixed magic header, big-endian width, height and block
count, the metadata, corner and residual arrays, and a fixed magic footer.
Decode rejects any stream whose header, length or footer does not match.

Typical use:

	data, err := imgcompress.EncodeImage(img, &imgcompress.CompressOptions{Level: 16})
	...
	out, err := imgcompress.DecodeImage(data, nil)

Encoded streams may be stored raw or wrapped in an LZ4 or zstd frame with
WriteStream; ReadStream and ReadFile unwrap them transparently.
*/
package imgcompress
