// Package export renders generated study material as downloadable documents.
package export

import (
	"strings"
	"unicode"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// pdfCharset is the single-byte encoding of the PDF core fonts.
var pdfCharset = charmap.Windows1252

// Sanitize reduces text to runes the PDF core fonts can draw. Characters
// outside Windows-1252 are replaced by their compatibility decomposition
// when that is representable (ś becomes s) and dropped otherwise. Control
// characters other than newline and tab are dropped. Sanitize never fails.
func Sanitize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = norm.NFC.String(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\n' || r == '\t':
			b.WriteRune(r)
		case unicode.IsControl(r):
		case encodable(r):
			b.WriteRune(r)
		default:
			for _, d := range norm.NFKD.String(string(r)) {
				if !unicode.Is(unicode.Mn, d) && !unicode.IsControl(d) && encodable(d) {
					b.WriteRune(d)
				}
			}
		}
	}
	return b.String()
}

func encodable(r rune) bool {
	_, ok := pdfCharset.EncodeRune(r)
	return ok
}

// encode converts sanitized text to Windows-1252 bytes.
func encode(text string) string {
	out, err := pdfCharset.NewEncoder().String(Sanitize(text))
	if err != nil {
		// Sanitize leaves only encodable runes, so this is not expected.
		return strings.Map(func(r rune) rune {
			if r > unicode.MaxASCII {
				return -1
			}
			return r
		}, text)
	}
	return out
}
