// Package encoding normalizes uploaded bank statements to UTF-8. Banks
// export CSVs in whatever charset their backoffice grew up with, so every
// upload goes through detection before parsing.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffLen = 4096

// NewUTF8Reader wraps r so that its content reads as UTF-8. A UTF-8 BOM is
// stripped; UTF-16 BOMs select the matching decoder; BOM-less content that
// validates as UTF-8 passes through; anything else goes through chardet with
// Windows-1252 as the final fallback.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	head, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("peek: %w", err)
	}

	if bytes.HasPrefix(head, []byte{0xEF, 0xBB, 0xBF}) {
		_, _ = br.Discard(3)
		return br, nil
	}

	if bytes.HasPrefix(head, []byte{0xFF, 0xFE}) {
		return decodeWith(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)), nil
	}

	if bytes.HasPrefix(head, []byte{0xFE, 0xFF}) {
		return decodeWith(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM)), nil
	}

	if utf8.Valid(head) {
		return br, nil
	}

	return decodeWith(br, detectLegacyCharset(head)), nil
}

func decodeWith(r io.Reader, enc encoding.Encoding) io.Reader {
	return transform.NewReader(r, enc.NewDecoder())
}

// detectLegacyCharset guesses among the single-byte charsets that actually
// show up in bank exports.
func detectLegacyCharset(head []byte) encoding.Encoding {
	result, err := chardet.NewTextDetector().DetectBest(head)
	if err != nil {
		return charmap.Windows1252
	}

	switch result.Charset {
	case "ISO-8859-9":
		return charmap.ISO8859_9
	case "ISO-8859-15":
		return charmap.ISO8859_15
	default:
		return charmap.Windows1252
	}
}
