package mailparser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var softBreak = strings.NewReplacer("=\r\n", "", "=\n", "")

// accentReplacer handles the UTF-8 French accents that show up most in CRM
// mail. It runs before the generic decoder, which never sees its output.
var accentReplacer = strings.NewReplacer(
	"=C3=A9", "é", "=C3=A8", "è", "=C3=A7", "ç",
	"=C3=A0", "à", "=C3=B4", "ô", "=C3=AA", "ê",
	"=c3=a9", "é", "=c3=a8", "è", "=c3=a7", "ç",
	"=c3=a0", "à", "=c3=b4", "ô", "=c3=aa", "ê",
)

var escapeRun = regexp.MustCompile(`(?:=[0-9A-Fa-f]{2})+`)

// DecodeQuotedPrintable decodes soft line breaks and =XX escapes. It never
// fails: escapes that are not exactly two hex digits are kept verbatim.
func DecodeQuotedPrintable(s string) string {
	s = softBreak.Replace(s)
	s = accentReplacer.Replace(s)
	return escapeRun.ReplaceAllStringFunc(s, decodeEscapeRun)
}

// decodeEscapeRun turns a run such as "=E2=82=AC" into text. Bytes that do
// not form valid UTF-8 are read as Windows-1252, so "caf=E9" still decodes.
func decodeEscapeRun(run string) string {
	raw := make([]byte, 0, len(run)/3)
	for i := 0; i+2 < len(run); i += 3 {
		raw = append(raw, unhex(run[i+1])<<4|unhex(run[i+2]))
	}

	var b strings.Builder
	for len(raw) > 0 {
		r, size := utf8.DecodeRune(raw)
		if r == utf8.RuneError && size <= 1 {
			b.WriteRune(charmap.Windows1252.DecodeByte(raw[0]))
			raw = raw[1:]
			continue
		}
		b.WriteRune(r)
		raw = raw[size:]
	}
	return b.String()
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}
