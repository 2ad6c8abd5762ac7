package main

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

// chunkHeader is the length and type prefix of a PNG chunk.
type chunkHeader struct {
	length uint32
	kind   [4]byte
}

func (h chunkHeader) String() string {
	return string(h.kind[:])
}

// chunkReader walks the chunk sequence of an in-memory PNG. Every read is
// checked against the bytes that remain, so a short file surfaces as
// ErrTruncatedStream rather than an out-of-range slice.
type chunkReader struct {
	data []byte
	pos  int
}

func newChunkReader(data []byte) *chunkReader {
	return &chunkReader{data: data}
}

func (r *chunkReader) remaining() int {
	return len(r.data) - r.pos
}

func (r *chunkReader) atEnd() bool {
	return r.pos >= len(r.data)
}

func (r *chunkReader) take(n uint32, what string) ([]byte, error) {
	if uint64(n) > uint64(r.remaining()) {
		return nil, fmt.Errorf("%w: %s needs %d bytes, %d left", ErrTruncatedStream, what, n, r.remaining())
	}
	b := r.data[r.pos : r.pos+int(n)]
	r.pos += int(n)
	return b, nil
}

func (r *chunkReader) readUint32(what string) (uint32, error) {
	b, err := r.take(4, what)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// next reads one complete chunk. The payload aliases the reader's buffer.
// When verify is set, the stored CRC-32 over type and payload must match.
func (r *chunkReader) next(verify bool) (chunkHeader, []byte, error) {
	var h chunkHeader
	if r.atEnd() {
		return h, nil, fmt.Errorf("%w: stream ended without IEND", ErrTruncatedStream)
	}

	var err error
	if h.length, err = r.readUint32("chunk length"); err != nil {
		return h, nil, err
	}
	kind, err := r.take(4, "chunk type")
	if err != nil {
		return h, nil, err
	}
	copy(h.kind[:], kind)

	payload, err := r.take(h.length, h.String()+" payload")
	if err != nil {
		return h, nil, err
	}
	crc, err := r.readUint32(h.String() + " checksum")
	if err != nil {
		return h, nil, err
	}

	if verify {
		sum := crc32.NewIEEE()
		sum.Write(kind)
		sum.Write(payload)
		if got := sum.Sum32(); got != crc {
			return h, nil, fmt.Errorf("%w: %s stores %08x, computed %08x", ErrChecksumMismatch, h, crc, got)
		}
	}
	return h, payload, nil
}
