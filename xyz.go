/*
Package xyz implements an RPG Maker XYZ image decoder and encoder.

The file starts with the four byte magic number "XYZ1" followed by the
image width and height, each as a little-endian 16-bit value. The rest of
the file is a single zlib stream which inflates to a 256 entry palette of
RGB triples followed by one palette index per pixel, width x height bytes
in row-major order. There is no padding or trailer after the pixel data so
the inflated body is always exactly 768 + width x height bytes.
*/
package xyz

import (
	"image"
	"image/color"
)

const (
	// "XYZ1" read as a little-endian 32-bit value
	magic uint32 = 0x315a5958

	paletteEntries = 256
	headerBytes    = 8

	maxDimension = 1<<16 - 1
)

// RGB is a single palette entry; red, green and blue channel values in
// that order.
type RGB [3]byte

// Image is a decoded XYZ image. Buffer holds one palette index per pixel
// in row-major order, Width * Height bytes in total.
type Image struct {
	Width   uint16
	Height  uint16
	Palette [paletteEntries]RGB
	Buffer  []byte
}

// ToRGB returns the pixels as a flat buffer of RGB channel values, three
// bytes per pixel, in the same row-major order as Buffer.
func (m *Image) ToRGB() []byte {
	b := make([]byte, 0, 3*len(m.Buffer))
	for _, i := range m.Buffer {
		b = append(b, m.Palette[i][:]...)
	}
	return b
}

// ColorModel implements the image.Image interface.
func (m *Image) ColorModel() color.Model {
	return m.colorPalette()
}

// Bounds implements the image.Image interface.
func (m *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, int(m.Width), int(m.Height))
}

// At implements the image.Image interface.
func (m *Image) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(m.Bounds())) {
		return color.RGBA{}
	}
	c := m.Palette[m.Buffer[y*int(m.Width)+x]]
	return color.RGBA{c[0], c[1], c[2], 0xff}
}

func (m *Image) colorPalette() color.Palette {
	p := make(color.Palette, paletteEntries)
	for i, c := range m.Palette {
		p[i] = color.RGBA{c[0], c[1], c[2], 0xff}
	}
	return p
}
