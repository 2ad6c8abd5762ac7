package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// maxPresize caps how much memory a size hint taken from an untrusted IHDR
// may reserve before any data has actually been inflated.
const maxPresize = 64 << 20

// inflate decompresses a zlib stream. sizeHint is the expected output size;
// at most sizeHint+1 bytes are produced so an oversized stream still shows up
// as a length mismatch without being inflated in full.
func inflate(compressed []byte, sizeHint int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecompression, err)
	}
	defer zr.Close()

	var out bytes.Buffer
	out.Grow(min(sizeHint, maxPresize))
	if _, err := io.Copy(&out, io.LimitReader(zr, int64(sizeHint)+1)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecompression, err)
	}
	return out.Bytes(), nil
}
