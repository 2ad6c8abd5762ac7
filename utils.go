package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// paeth picks whichever of left (a), up (b) and up-left (c) is closest to
// a+b-c. Ties go to a, then b.
func paeth(a, b, c uint8) uint8 {
	p := int(a) + int(b) - int(c)
	pa := absInt(p - int(a))
	pb := absInt(p - int(b))
	pc := absInt(p - int(c))

	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func writeBlobHeader(b *bytes.Buffer, w, h uint32) error {
	// Header: magic(4) + width(uint32) + height(uint32)
	if _, err := b.Write([]byte(magicBlob)); err != nil {
		return err
	}
	if err := binary.Write(b, binary.BigEndian, w); err != nil {
		return err
	}
	if err := binary.Write(b, binary.BigEndian, h); err != nil {
		return err
	}
	return nil
}

func readBlobHeader(r *bytes.Reader) (w, h int, err error) {
	magic := make([]byte, len(magicBlob))
	if _, err = io.ReadFull(r, magic); err != nil {
		return 0, 0, fmt.Errorf("%w: blob header", ErrTruncatedStream)
	}
	if string(magic) != magicBlob {
		return 0, 0, ErrInvalidMagic
	}

	var w32, h32 uint32
	if err = binary.Read(r, binary.BigEndian, &w32); err != nil {
		return 0, 0, fmt.Errorf("%w: blob width", ErrTruncatedStream)
	}
	if err = binary.Read(r, binary.BigEndian, &h32); err != nil {
		return 0, 0, fmt.Errorf("%w: blob height", ErrTruncatedStream)
	}
	return int(w32), int(h32), nil
}

func encodeZstd(b io.Writer, raw []byte) error {
	enc, err := zstd.NewWriter(b, zstd.WithEncoderConcurrency(runtime.NumCPU()))
	if err != nil {
		return err
	}
	if _, err := enc.Write(raw); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// decodeZstd inflates at most limit+1 bytes, enough for the caller to spot
// an oversized payload.
func decodeZstd(r io.Reader, limit int) ([]byte, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	return io.ReadAll(io.LimitReader(dec, int64(limit)+1))
}

// cIdentifier turns a file name into something usable as a C identifier:
// "gfx/logo.png" becomes "logo_png".
func cIdentifier(path string) string {
	base := filepath.Base(path)
	var sb strings.Builder
	for i, c := range base {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
			sb.WriteRune(c)
		case c >= '0' && c <= '9':
			if i == 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(c)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}
