package main

import (
	"fmt"
	"io"
)

const bytesPerLine = 16

// WriteCArray writes data as a C byte array named name, followed by a
// name_len constant holding its size.
func WriteCArray(w io.Writer, name string, data []byte) error {
	if _, err := fmt.Fprintf(w, "const unsigned char %s[] = {\n", name); err != nil {
		return err
	}
	col, err := writeCBytes(w, data, 0)
	if err != nil {
		return err
	}
	if col != 0 {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(w, "};\nconst unsigned int %s_len = %d;\n", name, len(data))
	return err
}

// writeCBytes writes each byte as a hex literal and returns the updated
// column, which callers pass back in on the next call. A line is broken
// after every bytesPerLine values.
func writeCBytes(w io.Writer, data []byte, col int) (int, error) {
	for _, v := range data {
		prefix := " "
		if col == 0 {
			prefix = "\t"
		}
		if _, err := fmt.Fprintf(w, "%s0x%02x,", prefix, v); err != nil {
			return col, err
		}
		col++
		if col == bytesPerLine {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return col, err
			}
			col = 0
		}
	}
	return col, nil
}
