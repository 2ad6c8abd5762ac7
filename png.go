package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
)

// Indexed-colour PNG reader. Only 8-bit palette images are accepted and only
// the raw palette indices are returned; the palette itself is ignored.
// API: Decode(path) and DecodeBytes(name, data).

const pngHeader = "\x89PNG\r\n\x1a\n"

const (
	ctPaletted  = 3
	ihdrLength  = 13
	pngBitDepth = 8
)

// ImageHeader holds the IHDR fields this decoder looks at.
type ImageHeader struct {
	Width     int
	Height    int
	BitDepth  int
	ColorType int
	Interlace int
}

// PixelBuffer is a decoded image: one palette index per pixel, row-major,
// top row first. len(Indices) == Width*Height.
type PixelBuffer struct {
	Filename string
	Width    int
	Height   int
	Indices  []byte
}

// DecodeOptions tightens input validation beyond the default behaviour, which
// neither checks chunk CRCs nor rejects interlaced images.
type DecodeOptions struct {
	VerifyChecksums  bool
	RejectInterlaced bool
}

// Decode reads the PNG at path and returns its palette indices.
func Decode(path string) (*PixelBuffer, error) {
	return DecodeWithOptions(path, DecodeOptions{})
}

func DecodeWithOptions(path string, opts DecodeOptions) (*PixelBuffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, newDecodeError(path, fmt.Errorf("%w: %w", ErrNotFound, err))
		}
		return nil, newDecodeError(path, fmt.Errorf("%w: %w", ErrIO, err))
	}
	return DecodeBytesWithOptions(path, data, opts)
}

// DecodeBytes decodes an in-memory PNG. name is only used to label the
// result and any error.
func DecodeBytes(name string, data []byte) (*PixelBuffer, error) {
	return DecodeBytesWithOptions(name, data, DecodeOptions{})
}

func DecodeBytesWithOptions(name string, data []byte, opts DecodeOptions) (*PixelBuffer, error) {
	d := decoder{name: name, opts: opts}
	pb, err := d.decode(data)
	if err != nil {
		return nil, newDecodeError(name, err)
	}
	return pb, nil
}

type decoder struct {
	name       string
	opts       DecodeOptions
	header     ImageHeader
	seenHeader bool
	idat       bytes.Buffer
}

func (d *decoder) decode(data []byte) (*PixelBuffer, error) {
	if len(data) < len(pngHeader) || string(data[:len(pngHeader)]) != pngHeader {
		return nil, ErrBadSignature
	}

	r := newChunkReader(data[len(pngHeader):])
	for {
		h, payload, err := r.next(d.opts.VerifyChecksums)
		if err != nil {
			return nil, err
		}

		switch h.String() {
		case "IHDR":
			if d.seenHeader {
				continue
			}
			if err := d.parseIHDR(payload); err != nil {
				return nil, err
			}
			d.seenHeader = true
		case "IDAT":
			d.idat.Write(payload)
		case "IEND":
			// Anything after IEND is never looked at.
			return d.finish()
		}
	}
}

func (d *decoder) parseIHDR(payload []byte) error {
	if len(payload) != ihdrLength {
		return fmt.Errorf("%w: IHDR is %d bytes, want %d", ErrCorruptStream, len(payload), ihdrLength)
	}

	w := int32(binary.BigEndian.Uint32(payload[0:4]))
	h := int32(binary.BigEndian.Uint32(payload[4:8]))
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: non-positive dimension %dx%d", ErrCorruptStream, w, h)
	}
	if (int64(w)+1)*int64(h) > math.MaxInt {
		return fmt.Errorf("%w: dimension overflow %dx%d", ErrUnsupportedFormat, w, h)
	}

	hdr := ImageHeader{
		Width:     int(w),
		Height:    int(h),
		BitDepth:  int(payload[8]),
		ColorType: int(payload[9]),
		Interlace: int(payload[12]),
	}
	if hdr.BitDepth != pngBitDepth || hdr.ColorType != ctPaletted {
		return fmt.Errorf("%w: bit depth %d, color type %d (want 8-bit indexed)", ErrUnsupportedFormat, hdr.BitDepth, hdr.ColorType)
	}
	if d.opts.RejectInterlaced && hdr.Interlace != 0 {
		return fmt.Errorf("%w: interlace method %d", ErrInterlaceUnsupported, hdr.Interlace)
	}

	d.header = hdr
	return nil
}

func (d *decoder) finish() (*PixelBuffer, error) {
	if !d.seenHeader {
		return nil, fmt.Errorf("%w: IEND before IHDR", ErrCorruptStream)
	}
	if d.idat.Len() == 0 {
		return nil, fmt.Errorf("%w: no IDAT data before IEND", ErrCorruptStream)
	}

	w, h := d.header.Width, d.header.Height
	raw, err := inflate(d.idat.Bytes(), (w+1)*h)
	d.idat = bytes.Buffer{}
	if err != nil {
		return nil, err
	}

	pix, err := reconstruct(raw, w, h)
	if err != nil {
		return nil, err
	}
	return &PixelBuffer{Filename: d.name, Width: w, Height: h, Indices: pix}, nil
}
