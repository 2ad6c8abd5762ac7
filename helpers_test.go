package main

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/require"
)

// -----------------------------
// PNG builders
// -----------------------------

func makeChunk(kind string, data []byte) []byte {
	var b bytes.Buffer
	binary.Write(&b, binary.BigEndian, uint32(len(data)))
	b.WriteString(kind)
	b.Write(data)
	crc := crc32.NewIEEE()
	crc.Write([]byte(kind))
	crc.Write(data)
	binary.Write(&b, binary.BigEndian, crc.Sum32())
	return b.Bytes()
}

func makeIHDR(w, h uint32, depth, colorType, interlace byte) []byte {
	data := make([]byte, ihdrLength)
	binary.BigEndian.PutUint32(data[0:4], w)
	binary.BigEndian.PutUint32(data[4:8], h)
	data[8] = depth
	data[9] = colorType
	data[12] = interlace
	return makeChunk("IHDR", data)
}

func zlibBytes(t testing.TB, raw []byte) []byte {
	t.Helper()
	var b bytes.Buffer
	zw := zlib.NewWriter(&b)
	_, err := zw.Write(raw)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return b.Bytes()
}

// splitN cuts b into n consecutive pieces of roughly equal size.
func splitN(b []byte, n int) [][]byte {
	var parts [][]byte
	size := (len(b) + n - 1) / n
	for len(b) > 0 {
		k := min(size, len(b))
		parts = append(parts, b[:k])
		b = b[k:]
	}
	return parts
}

func assemble(chunks ...[]byte) []byte {
	out := []byte(pngHeader)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}

// makePNG builds an indexed PNG around already-filtered scanlines, spreading
// the compressed data over idatChunks IDAT chunks.
func makePNG(t testing.TB, w, h int, scanlines []byte, idatChunks int) []byte {
	t.Helper()
	chunks := [][]byte{
		makeIHDR(uint32(w), uint32(h), 8, ctPaletted, 0),
		makeChunk("PLTE", make([]byte, 3*256)),
	}
	for _, part := range splitN(zlibBytes(t, scanlines), idatChunks) {
		chunks = append(chunks, makeChunk("IDAT", part))
	}
	chunks = append(chunks, makeChunk("IEND", nil))
	return assemble(chunks...)
}

// filterRows applies the PNG filters to pix, cycling through filters one row
// at a time. It is the encoder-side inverse of reconstruct.
func filterRows(pix []byte, width, height int, filters []byte) []byte {
	at := func(x, y int) int {
		if x < 0 || y < 0 {
			return 0
		}
		return int(pix[y*width+x])
	}

	out := make([]byte, 0, (width+1)*height)
	for y := 0; y < height; y++ {
		ft := filters[y%len(filters)]
		out = append(out, ft)
		for x := 0; x < width; x++ {
			left, up, upLeft := at(x-1, y), at(x, y-1), at(x-1, y-1)
			var pred int
			switch ft {
			case ftSub:
				pred = left
			case ftUp:
				pred = up
			case ftAverage:
				pred = (left + up) / 2
			case ftPaeth:
				pred = int(paeth(uint8(left), uint8(up), uint8(upLeft)))
			}
			out = append(out, byte(at(x, y)-pred))
		}
	}
	return out
}

func makeTestIndices(w, h int) []byte {
	pix := make([]byte, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pix[y*w+x] = uint8((x * 17) ^ (y * 31) + (x*y)%7)
		}
	}
	return pix
}

func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}
