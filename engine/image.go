package engine

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/klauspost/compress/zstd"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// ReadImageFile reads an image file and returns the contents and the image format.
// A zstd compressed file is decompressed first.
func ReadImageFile(r io.Reader) ([]byte, string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, "", err
	}
	if bytes.HasPrefix(b, zstdMagic) {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, "", err
		}
		defer dec.Close()
		if b, err = dec.DecodeAll(b, nil); err != nil {
			return nil, "", err
		}
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(b))
	return b, format, err
}

// WriteCompressed returns a writer that zstd compresses into w.
// The writer must be closed to flush the frame.
func WriteCompressed(w io.Writer) (io.WriteCloser, error) {
	return zstd.NewWriter(w)
}
