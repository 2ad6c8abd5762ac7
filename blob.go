package main

import (
	"bytes"
	"fmt"
	"math"
)

// Index blob: a decoded PixelBuffer stored for later packing.
// Layout: magic(4) + width(uint32 BE) + height(uint32 BE) + zstd frame with
// width*height palette indices.

const magicBlob = "L65I"

// EncodeBlob serialises pb into the index blob format.
func EncodeBlob(pb *PixelBuffer) ([]byte, error) {
	if pb.Width <= 0 || pb.Height <= 0 || int64(pb.Width) > math.MaxUint32 || int64(pb.Height) > math.MaxUint32 {
		return nil, fmt.Errorf("l65i: bad dimensions %dx%d", pb.Width, pb.Height)
	}
	if len(pb.Indices) != pb.Width*pb.Height {
		return nil, fmt.Errorf("%w: %d indices for %dx%d", ErrSizeMismatch, len(pb.Indices), pb.Width, pb.Height)
	}

	b := &bytes.Buffer{}
	if err := writeBlobHeader(b, uint32(pb.Width), uint32(pb.Height)); err != nil {
		return nil, err
	}
	if err := encodeZstd(b, pb.Indices); err != nil {
		return nil, fmt.Errorf("zstd encode: %w", err)
	}
	return b.Bytes(), nil
}

// DecodeBlob reads data produced by EncodeBlob.
func DecodeBlob(name string, data []byte) (*PixelBuffer, error) {
	r := bytes.NewReader(data)
	w, h, err := readBlobHeader(r)
	if err != nil {
		return nil, newDecodeError(name, err)
	}
	if w <= 0 || h <= 0 || int64(w)*int64(h) > math.MaxInt32 {
		return nil, newDecodeError(name, fmt.Errorf("%w: blob dimensions %dx%d", ErrCorruptStream, w, h))
	}

	n := w * h
	pix, err := decodeZstd(r, n)
	if err != nil {
		return nil, newDecodeError(name, fmt.Errorf("%w: %w", ErrDecompression, err))
	}
	if len(pix) != n {
		return nil, newDecodeError(name, fmt.Errorf("%w: got %d indices, want %d", ErrSizeMismatch, len(pix), n))
	}
	return &PixelBuffer{Filename: name, Width: w, Height: h, Indices: pix}, nil
}
