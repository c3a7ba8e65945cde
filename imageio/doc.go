/*
Package imageio moves pixels between standard image containers and the
interleaved 8-bit RGB buffers consumed by the imgcompress codec.

It loads PNG, JPEG, GIF, BMP, TIFF, WebP, QOI and DDS, strips alpha, pads
images to a block multiple with black, and saves RGB buffers back as PNG,
JPEG, GIF, BMP, TIFF, QOI or DDS.
*/
package imageio
