package cryptoutils

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Strict rejects non-zero trailing bits, so every accepted string is the
// canonical encoding of its bytes.
var textEncoding = base64.StdEncoding.Strict()

// Encode maps bytes to RFC 4648 standard base-64 with '=' padding.
func Encode(data []byte) string {
	return textEncoding.EncodeToString(data)
}

// Decode is the inverse of Encode. It fails with ErrMalformedEncoding for
// characters outside the alphabet, line breaks, a bad padding length or
// non-canonical trailing bits.
func Decode(text string) ([]byte, error) {
	// The stdlib decoder silently skips CR and LF.
	if strings.ContainsAny(text, "\r\n") {
		return nil, fmt.Errorf("%w: line breaks are not allowed", ErrMalformedEncoding)
	}

	data, err := textEncoding.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEncoding, err)
	}
	return data, nil
}
