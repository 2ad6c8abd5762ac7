package main

import "errors"

var (
	ErrNotFound             = errors.New("png: file not found")
	ErrIO                   = errors.New("png: read failed")
	ErrBadSignature         = errors.New("png: not a PNG file")
	ErrUnsupportedFormat    = errors.New("png: unsupported format")
	ErrInterlaceUnsupported = errors.New("png: interlaced images are not supported")
	ErrTruncatedStream      = errors.New("png: truncated chunk stream")
	ErrCorruptStream        = errors.New("png: corrupt chunk stream")
	ErrChecksumMismatch     = errors.New("png: chunk checksum mismatch")
	ErrDecompression        = errors.New("png: decompression failed")
	ErrSizeMismatch         = errors.New("png: decompressed size mismatch")
	ErrUnknownFilterType    = errors.New("png: unknown filter type")

	ErrInvalidMagic = errors.New("l65i: invalid magic")
)

// DecodeError ties a failure to the file it came from. Err wraps one of the
// sentinel errors above, so callers can test the kind with errors.Is.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func newDecodeError(path string, err error) error {
	var de *DecodeError
	if errors.As(err, &de) {
		return err
	}
	return &DecodeError{Path: path, Err: err}
}
