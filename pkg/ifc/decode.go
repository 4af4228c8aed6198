package ifc

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

var (
	directiveEnd = []byte(`\X0\`)

	ucs2 = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	ucs4 = utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM)
)

// decodeString resolves the ISO 10303-21 control directives of a string
// literal into UTF-8. Bytes outside directives are kept as they are, so
// exporters that write raw UTF-8 come through unchanged.
//
// Supported: \\ \S\c \X\hh \X2\hhhh..\X0\ \X4\hhhhhhhh..\X0\ and \Px\ page
// switches (ignored; only the ISO 8859-1 page is used).
func decodeString(raw []byte) (string, error) {
	if bytes.IndexByte(raw, '\\') < 0 {
		return string(raw), nil
	}

	var b strings.Builder
	for i := 0; i < len(raw); {
		if raw[i] != '\\' {
			b.WriteByte(raw[i])
			i++
			continue
		}

		rest := raw[i:]
		switch {
		case bytes.HasPrefix(rest, []byte(`\\`)):
			b.WriteByte('\\')
			i += 2

		case bytes.HasPrefix(rest, []byte(`\S\`)) && len(rest) >= 4:
			b.WriteRune(charmap.ISO8859_1.DecodeByte(rest[3] + 0x80))
			i += 4

		case bytes.HasPrefix(rest, []byte(`\X2\`)), bytes.HasPrefix(rest, []byte(`\X4\`)):
			end := bytes.Index(rest[4:], directiveEnd)
			if end < 0 {
				return "", fmt.Errorf("unterminated %s directive", rest[:4])
			}
			text, err := decodeWide(rest[1:3], rest[4:4+end])
			if err != nil {
				return "", err
			}
			b.WriteString(text)
			i += 4 + end + len(directiveEnd)

		case bytes.HasPrefix(rest, []byte(`\X\`)) && len(rest) >= 5:
			var octet [1]byte
			if _, err := hex.Decode(octet[:], rest[3:5]); err != nil {
				return "", fmt.Errorf("invalid \\X\\ directive %q: %w", rest[:5], err)
			}
			b.WriteRune(charmap.ISO8859_1.DecodeByte(octet[0]))
			i += 5

		case bytes.HasPrefix(rest, []byte(`\P`)) && len(rest) >= 4 && rest[3] == '\\':
			i += 4

		default:
			b.WriteByte('\\')
			i++
		}
	}

	return b.String(), nil
}

func decodeWide(directive, digits []byte) (string, error) {
	encoded := make([]byte, hex.DecodedLen(len(digits)))
	if _, err := hex.Decode(encoded, digits); err != nil {
		return "", fmt.Errorf("invalid \\%s\\ directive: %w", directive, err)
	}

	decoder := ucs2.NewDecoder()
	if string(directive) == "X4" {
		decoder = ucs4.NewDecoder()
	}

	text, err := decoder.Bytes(encoded)
	if err != nil {
		return "", fmt.Errorf("decoding \\%s\\ directive: %w", directive, err)
	}
	return string(text), nil
}
