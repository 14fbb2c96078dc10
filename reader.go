package xyz

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/klauspost/compress/zlib"
)

var (
	// ErrInvalidHeader is returned when a stream does not start with
	// the "XYZ1" magic number.
	ErrInvalidHeader = errors.New("xyz: invalid header")

	// ErrTruncated is returned when the inflated body is too short to
	// hold the palette or the pixel data.
	ErrTruncated = errors.New("xyz: truncated body")

	// ErrTrailingData is returned when the inflated body extends
	// beyond the pixel data.
	ErrTrailingData = errors.New("xyz: trailing data")
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

type decoder struct {
	r io.Reader

	img *Image
}

func (d *decoder) readHeader() error {
	var tmp [headerBytes]byte

	if err := readFull(d.r, tmp[:4]); err != nil {
		return err
	}
	if binary.LittleEndian.Uint32(tmp[:4]) != magic {
		return ErrInvalidHeader
	}

	if err := readFull(d.r, tmp[4:]); err != nil {
		return err
	}
	d.img = &Image{
		Width:  binary.LittleEndian.Uint16(tmp[4:6]),
		Height: binary.LittleEndian.Uint16(tmp[6:8]),
	}

	return nil
}

func (d *decoder) readPalette(r io.Reader) error {
	for i := range d.img.Palette {
		if err := readFull(r, d.img.Palette[i][:]); err != nil {
			if err == io.ErrUnexpectedEOF {
				return fmt.Errorf("%w: palette", ErrTruncated)
			}
			return err
		}
	}
	return nil
}

func (d *decoder) readBuffer(r io.Reader) error {
	d.img.Buffer = make([]byte, int(d.img.Width)*int(d.img.Height))
	if err := readFull(r, d.img.Buffer); err != nil {
		if err == io.ErrUnexpectedEOF {
			return fmt.Errorf("%w: pixel data", ErrTruncated)
		}
		return err
	}
	return nil
}

func (d *decoder) decode(r io.Reader, configOnly bool) error {
	d.r = r

	if err := d.readHeader(); err != nil {
		return err
	}

	z, err := zlib.NewReader(d.r)
	if err != nil {
		return err
	}
	defer z.Close()

	if err := d.readPalette(z); err != nil {
		return err
	}

	if configOnly {
		return nil
	}

	if err := d.readBuffer(z); err != nil {
		return err
	}

	// The body must end exactly at the pixel data
	var tmp [1]byte
	if n, err := z.Read(tmp[:]); n != 0 {
		return ErrTrailingData
	} else if err != io.EOF {
		if err != nil {
			return err
		}
		return ErrTrailingData
	}

	return nil
}

// Decode reads an XYZ image from r. The reader is consumed to the end of
// the compressed stream.
func Decode(r io.Reader) (*Image, error) {
	var d decoder
	if err := d.decode(r, false); err != nil {
		return nil, err
	}
	return d.img, nil
}

// DecodeConfig returns the color model and dimensions of an XYZ image
// without decoding the pixel data.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var d decoder
	if err := d.decode(r, true); err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: d.img.colorPalette(),
		Width:      int(d.img.Width),
		Height:     int(d.img.Height),
	}, nil
}

func decodeImage(r io.Reader) (image.Image, error) {
	return Decode(r)
}

func init() {
	image.RegisterFormat("xyz", "XYZ1", decodeImage, DecodeConfig)
}
