package cryptoutils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	testCases := []struct {
		name    string
		data    []byte
		encoded string
	}{
		{name: "Empty", data: []byte{}, encoded: ""},
		{name: "One byte", data: []byte("f"), encoded: "Zg=="},
		{name: "Two bytes", data: []byte("fo"), encoded: "Zm8="},
		{name: "Three bytes", data: []byte("foo"), encoded: "Zm9v"},
		{name: "Six bytes", data: []byte("foobar"), encoded: "Zm9vYmFy"},
		{name: "Binary data", data: []byte{0x00, 0xFF, 0xFE, 0x80, 0x7F}, encoded: "AP/+gH8="},
		{name: "Standard alphabet", data: []byte{0xFB, 0xFF}, encoded: "+/8="},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			encoded := Encode(tc.data)
			require.Equal(t, tc.encoded, encoded)

			decoded, err := Decode(encoded)
			require.NoError(t, err)
			require.Equal(t, tc.data, decoded)

			// Canonical text survives a decode/encode cycle unchanged
			require.Equal(t, tc.encoded, Encode(decoded))
		})
	}
}

func TestDecodeAllByteValues(t *testing.T) {
	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(i)
	}

	for n := 0; n <= len(data); n++ {
		decoded, err := Decode(Encode(data[:n]))
		require.NoError(t, err)
		require.Equal(t, data[:n], decoded)
	}
}

func TestDecodeMalformed(t *testing.T) {
	testCases := []struct {
		name string
		text string
	}{
		{name: "Character outside alphabet", text: "Zm9v!mFy"},
		{name: "URL-safe alphabet", text: "-_8="},
		{name: "Missing padding", text: "Zg"},
		{name: "Bad padding length", text: "Zg="},
		{name: "Truncated quantum", text: "Zm9"},
		{name: "Line break", text: "Zm9v\nYmFy"},
		{name: "Carriage return", text: "Zm9v\r\nYmFy"},
		{name: "Non-canonical trailing bits", text: "Zh=="},
		{name: "Whitespace", text: "Zm9v YmFy"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.text)
			require.ErrorIs(t, err, ErrMalformedEncoding)
		})
	}
}
