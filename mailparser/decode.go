package mailparser

import (
	"io"
	"mime"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// WordDecoder returns an RFC 2047 decoder that understands the charsets
// seen in French and Japanese mail. It is shared with the IMAP client.
func WordDecoder() *mime.WordDecoder {
	return &mime.WordDecoder{CharsetReader: charsetReader}
}

func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "", "utf-8", "us-ascii":
		return input, nil
	case "iso-2022-jp":
		return japanese.ISO2022JP.NewDecoder().Reader(input), nil
	}
	enc, err := ianaindex.IANA.Encoding(strings.ToLower(charset))
	if err != nil || enc == nil {
		return input, nil
	}
	return transform.NewReader(input, enc.NewDecoder()), nil
}

func DecodeHeader(header string) (string, error) {
	decoded, err := WordDecoder().DecodeHeader(header)
	if err != nil {
		return "", err
	}
	return decoded, nil
}

// DecodeHeaderOrRaw never fails: undecodable headers are returned as is.
func DecodeHeaderOrRaw(header string) string {
	decoded, err := DecodeHeader(header)
	if err != nil {
		return header
	}
	return decoded
}
