package xyz_test

import (
	"bytes"
	"image"
	"image/color"
	"io"
	"testing"

	"github.com/bodgit/xyz"
	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	img := &xyz.Image{
		Width:  3,
		Height: 2,
		Buffer: []byte{0, 1, 2, 3, 4, 5},
	}
	for i := range img.Palette {
		img.Palette[i] = xyz.RGB{byte(i), byte(i / 2), byte(255 - i)}
	}

	b := new(bytes.Buffer)
	require.NoError(t, xyz.Encode(b, img))

	got, err := xyz.Decode(b)
	require.NoError(t, err)

	assert.Equal(t, img, got)
}

func TestRoundTripScenario(t *testing.T) {
	img := &xyz.Image{
		Width:  1,
		Height: 1,
		Buffer: []byte{0},
	}
	img.Palette[0] = xyz.RGB{255, 0, 0}

	b := new(bytes.Buffer)
	require.NoError(t, xyz.Encode(b, img))

	got, err := xyz.Decode(b)
	require.NoError(t, err)

	assert.Equal(t, []byte{0}, got.Buffer)
	assert.Equal(t, xyz.RGB{255, 0, 0}, got.Palette[0])
}

func TestEncodeZeroSize(t *testing.T) {
	img := &xyz.Image{}
	for i := range img.Palette {
		img.Palette[i] = xyz.RGB{byte(i), byte(i), byte(i)}
	}

	b := new(bytes.Buffer)
	require.NoError(t, xyz.Encode(b, img))

	// Inflate the body behind the 8 byte header; it should be exactly
	// the palette with nothing after it
	z, err := zlib.NewReader(bytes.NewReader(b.Bytes()[8:]))
	require.NoError(t, err)
	defer z.Close()

	body, err := io.ReadAll(z)
	require.NoError(t, err)
	assert.Len(t, body, 768)

	got, err := xyz.Decode(bytes.NewReader(b.Bytes()))
	require.NoError(t, err)
	assert.Empty(t, got.Buffer)
}

func TestEncodeMismatchedBuffer(t *testing.T) {
	// Encode does not police the buffer length but the result must not
	// decode again
	img := &xyz.Image{
		Width:  1,
		Height: 1,
		Buffer: []byte{0, 1, 2},
	}

	b := new(bytes.Buffer)
	require.NoError(t, xyz.Encode(b, img))

	_, err := xyz.Decode(b)
	assert.ErrorIs(t, err, xyz.ErrTrailingData)
}

func TestEncodeImagePaletted(t *testing.T) {
	palette := color.Palette{
		color.RGBA{0, 0, 0, 0xff},
		color.RGBA{255, 0, 0, 0xff},
		color.RGBA{0, 255, 0, 0xff},
	}

	pm := image.NewPaletted(image.Rect(0, 0, 2, 2), palette)
	pm.SetColorIndex(0, 0, 1)
	pm.SetColorIndex(1, 0, 2)
	pm.SetColorIndex(0, 1, 0)
	pm.SetColorIndex(1, 1, 1)

	b := new(bytes.Buffer)
	require.NoError(t, xyz.EncodeImage(b, pm))

	got, err := xyz.Decode(b)
	require.NoError(t, err)

	assert.Equal(t, uint16(2), got.Width)
	assert.Equal(t, uint16(2), got.Height)
	assert.Equal(t, []byte{1, 2, 0, 1}, got.Buffer)
	assert.Equal(t, xyz.RGB{255, 0, 0}, got.Palette[1])
	assert.Equal(t, xyz.RGB{0, 255, 0}, got.Palette[2])
}

func TestEncodeImageQuantized(t *testing.T) {
	// More than 256 distinct colors forces quantization
	m := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			m.Set(x, y, color.RGBA{uint8(x * 8), uint8(y * 8), uint8(x + y), 0xff})
		}
	}

	b := new(bytes.Buffer)
	require.NoError(t, xyz.EncodeImage(b, m))

	got, err := xyz.Decode(b)
	require.NoError(t, err)

	assert.Equal(t, uint16(32), got.Width)
	assert.Equal(t, uint16(32), got.Height)
	assert.Len(t, got.Buffer, 32*32)
}

func TestEncodeImageSubImage(t *testing.T) {
	palette := color.Palette{
		color.RGBA{0, 0, 0, 0xff},
		color.RGBA{255, 255, 255, 0xff},
	}

	pm := image.NewPaletted(image.Rect(0, 0, 4, 4), palette)
	pm.SetColorIndex(1, 1, 1)

	sub, ok := pm.SubImage(image.Rect(1, 1, 3, 3)).(*image.Paletted)
	require.True(t, ok)

	b := new(bytes.Buffer)
	require.NoError(t, xyz.EncodeImage(b, sub))

	got, err := xyz.Decode(b)
	require.NoError(t, err)

	assert.Equal(t, uint16(2), got.Width)
	assert.Equal(t, uint16(2), got.Height)
	assert.Equal(t, []byte{1, 0, 0, 0}, got.Buffer)
}

func TestEncodeImageTooBig(t *testing.T) {
	m := image.NewRGBA(image.Rect(0, 0, 1<<16, 1))

	err := xyz.EncodeImage(new(bytes.Buffer), m)
	assert.Error(t, err)
}
