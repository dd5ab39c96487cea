// Package b64url implements the text codec used by HoloHash strings:
// unpadded URL-safe base64 behind the multibase "u" discriminator.
package b64url

import (
	"fmt"
	"strings"

	"github.com/multiformats/go-multibase"
)

// Prefix is the leading discriminator character of the text form. It is the
// multibase code for unpadded base64url.
const Prefix = byte(multibase.Base64url)

var (
	encoder = multibase.MustNewEncoder(multibase.Base64url)

	toURL = strings.NewReplacer("+", "-", "/", "_")
	toStd = strings.NewReplacer("-", "+", "_", "/")
)

// URLEncode rewrites standard base64 text into the URL-safe alphabet.
func URLEncode(b64 string) string {
	return toURL.Replace(b64)
}

// URLDecode rewrites URL-safe base64 text into the standard alphabet.
func URLDecode(b64 string) string {
	return toStd.Replace(b64)
}

// Encode returns "u" followed by the unpadded URL-safe base64 of data.
func Encode(data []byte) string {
	return encoder.Encode(data)
}

// EncodeRaw is Encode without the leading discriminator.
func EncodeRaw(data []byte) string {
	return Encode(data)[1:]
}

// Decode decodes text produced by Encode. The leading "u" is required.
func Decode(s string) ([]byte, error) {
	if s == "" || s[0] != Prefix {
		return nil, fmt.Errorf("b64url: missing %q prefix", Prefix)
	}
	return DecodeRaw(s[1:])
}

// DecodeRaw decodes base64 text without a discriminator. Standard-alphabet
// characters and trailing padding are accepted.
func DecodeRaw(s string) ([]byte, error) {
	s = URLEncode(strings.TrimRight(s, "="))
	enc, data, err := multibase.Decode(string(Prefix) + s)
	if err != nil {
		return nil, fmt.Errorf("b64url: %w", err)
	}
	if enc != multibase.Base64url {
		return nil, fmt.Errorf("b64url: unexpected multibase encoding %q", rune(enc))
	}
	return data, nil
}

// EncodedLen returns the length of EncodeRaw output for n input bytes.
func EncodedLen(n int) int {
	return (n*8 + 5) / 6
}
