package engine

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadImageFile(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 12, 9))
	var plain bytes.Buffer
	require.NoError(t, png.Encode(&plain, img))

	var compressed bytes.Buffer
	zw, err := WriteCompressed(&compressed)
	require.NoError(t, err)
	_, err = zw.Write(plain.Bytes())
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NotEqual(t, plain.Bytes(), compressed.Bytes())

	for name, r := range map[string]*bytes.Buffer{"plain": &plain, "zstd": &compressed} {
		t.Run(name, func(t *testing.T) {
			b, format, err := ReadImageFile(bytes.NewReader(r.Bytes()))
			require.NoError(t, err)
			assert.Equal(t, "png", format)
			assert.Equal(t, plain.Bytes(), b)
		})
	}

	_, _, err = ReadImageFile(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}

func TestNewChannelImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(3, 4, 7, 6))
	for i := range src.Pix {
		src.Pix[i] = uint8(i)
	}
	c, err := NewChannelImage(src)
	require.NoError(t, err)
	assert.Equal(t, 4, c.Width)
	assert.Equal(t, 2, c.Height)
	assert.Equal(t, src.Pix, c.Buffer)

	gray := image.NewGray(image.Rect(0, 0, 2, 1))
	gray.Pix[0], gray.Pix[1] = 10, 200
	c, err = NewChannelImage(gray)
	require.NoError(t, err)
	assert.Equal(t, []uint8{10, 10, 10, 255, 200, 200, 200, 255}, c.Buffer)

	_, err = NewChannelImage(image.NewNRGBA(image.Rect(0, 0, 0, 3)))
	assert.Error(t, err)
}
