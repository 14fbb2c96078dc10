package xyz

import (
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/klauspost/compress/zlib"
)

var errTooBig = errors.New("xyz: image dimensions exceed 16 bits")

type encoder struct {
	w io.Writer
}

func (e *encoder) writeHeader(m *Image) error {
	var tmp [headerBytes]byte
	binary.LittleEndian.PutUint32(tmp[0:4], magic)
	binary.LittleEndian.PutUint16(tmp[4:6], m.Width)
	binary.LittleEndian.PutUint16(tmp[6:8], m.Height)
	_, err := e.w.Write(tmp[:])
	return err
}

func (e *encoder) encode(m *Image) error {
	if err := e.writeHeader(m); err != nil {
		return err
	}

	z := zlib.NewWriter(e.w)

	for i := range m.Palette {
		if _, err := z.Write(m.Palette[i][:]); err != nil {
			return err
		}
	}

	if _, err := z.Write(m.Buffer); err != nil {
		return err
	}

	return z.Close()
}

// Encode writes the image m to w in XYZ format. The pixel buffer is
// written as-is; it is the caller's responsibility that it holds exactly
// Width * Height bytes, one palette index per pixel. An image with a
// mismatched buffer still encodes but will fail to decode again.
func Encode(w io.Writer, m *Image) error {
	e := encoder{w: w}
	return e.encode(m)
}

// EncodeImage converts m to a 256 color indexed image and writes it to w
// in XYZ format. Images with more colors are quantized first.
func EncodeImage(w io.Writer, m image.Image) error {
	b := m.Bounds()
	if b.Dx() > maxDimension || b.Dy() > maxDimension {
		return errTooBig
	}

	pm, _ := m.(*image.Paletted)
	if pm == nil {
		if cp, ok := m.ColorModel().(color.Palette); ok && len(cp) <= paletteEntries {
			pm = image.NewPaletted(b, cp)
			draw.Draw(pm, b, m, b.Min, draw.Src)
		}
	}

	if pm == nil || len(pm.Palette) > paletteEntries {
		q := quantize.MedianCutQuantizer{}
		pm = image.NewPaletted(b, q.Quantize(make(color.Palette, 0, paletteEntries), m))
		draw.Draw(pm, b, m, b.Min, draw.Src)
	}

	img := &Image{
		Width:  uint16(b.Dx()),
		Height: uint16(b.Dy()),
		Buffer: make([]byte, 0, b.Dx()*b.Dy()),
	}

	for i, c := range pm.Palette {
		r, g, b, _ := c.RGBA()
		img.Palette[i] = RGB{byte(r >> 8), byte(g >> 8), byte(b >> 8)}
	}

	for y := 0; y < b.Dy(); y++ {
		img.Buffer = append(img.Buffer, pm.Pix[y*pm.Stride:y*pm.Stride+b.Dx()]...)
	}

	return Encode(w, img)
}
