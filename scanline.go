package main

import (
	"fmt"
	"math"
)

// Filter type, as per the PNG spec.
const (
	ftNone    = 0
	ftSub     = 1
	ftUp      = 2
	ftAverage = 3
	ftPaeth   = 4
)

// Reconstruct undoes the per-row filters of a decompressed 8-bit indexed
// image. decompressed must hold exactly height rows of 1+width bytes.
func Reconstruct(name string, decompressed []byte, width, height int) (*PixelBuffer, error) {
	pix, err := reconstruct(decompressed, width, height)
	if err != nil {
		return nil, newDecodeError(name, err)
	}
	return &PixelBuffer{Filename: name, Width: width, Height: height, Indices: pix}, nil
}

func reconstruct(decompressed []byte, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 || (int64(width)+1)*int64(height) > math.MaxInt {
		return nil, fmt.Errorf("%w: bad dimensions %dx%d", ErrSizeMismatch, width, height)
	}
	stride := width + 1
	if want := stride * height; len(decompressed) != want {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrSizeMismatch, len(decompressed), want)
	}

	pix := make([]byte, width*height)
	for y := 0; y < height; y++ {
		row := decompressed[y*stride : (y+1)*stride]
		if err := unfilterRow(pix, width, y, row[0], row[1:]); err != nil {
			return nil, err
		}
	}
	return pix, nil
}

// unfilterRow writes row y of pix from its filtered bytes. Rows above y must
// already be reconstructed.
func unfilterRow(pix []byte, width, y int, filter byte, cdat []byte) error {
	out := pix[y*width : (y+1)*width]
	switch filter {
	case ftNone:
		copy(out, cdat)
	case ftSub:
		for x, v := range cdat {
			out[x] = v + pixelAt(pix, width, x-1, y)
		}
	case ftUp:
		for x, v := range cdat {
			out[x] = v + pixelAt(pix, width, x, y-1)
		}
	case ftAverage:
		for x, v := range cdat {
			left := int(pixelAt(pix, width, x-1, y))
			up := int(pixelAt(pix, width, x, y-1))
			out[x] = v + uint8((left+up)/2)
		}
	case ftPaeth:
		for x, v := range cdat {
			left := pixelAt(pix, width, x-1, y)
			up := pixelAt(pix, width, x, y-1)
			upLeft := pixelAt(pix, width, x-1, y-1)
			out[x] = v + paeth(left, up, upLeft)
		}
	default:
		return fmt.Errorf("%w: %d on row %d", ErrUnknownFilterType, filter, y)
	}
	return nil
}

// pixelAt returns the reconstructed index at (x, y), or 0 outside the image.
func pixelAt(pix []byte, width, x, y int) byte {
	if x < 0 || y < 0 || x >= width {
		return 0
	}
	i := y*width + x
	if i >= len(pix) {
		return 0
	}
	return pix[i]
}
