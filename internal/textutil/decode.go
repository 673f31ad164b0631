package textutil

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Decode returns data as a UTF-8 string. Valid UTF-8 is returned as is (a
// leading byte order mark is dropped); anything else is decoded as
// Windows-1252. The boolean reports whether the fallback was used.
func Decode(data []byte) (string, bool, error) {
	if utf8.Valid(data) {
		if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
			data = data[3:]
		}
		return string(data), false, nil
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", true, fmt.Errorf("decode windows-1252: %w", err)
	}
	return string(out), true, nil
}
