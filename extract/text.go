package extract

import (
	"bytes"
	"unicode/utf8"

	"github.com/vinayprograms/resumerag/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// extractText validates UTF-8 and drops a leading byte order mark.
func extractText(filename string, data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errors.Extraction(filename, "text file is not valid UTF-8")
	}
	return string(bytes.TrimPrefix(data, utf8BOM)), nil
}
