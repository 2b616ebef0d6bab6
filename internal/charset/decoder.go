// Package charset converts legacy-encoded vendor feeds to UTF-8.
package charset

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding represents a text encoding
type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingUTF16LE     Encoding = "utf-16le"
	EncodingUTF16BE     Encoding = "utf-16be"
	EncodingWindows1250 Encoding = "windows-1250"
	EncodingWindows1252 Encoding = "windows-1252"
	EncodingISO88592    Encoding = "iso-8859-2"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// ParseEncoding maps a configured name to an Encoding. Empty means auto-detect.
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return "", nil
	case "utf-8", "utf8":
		return EncodingUTF8, nil
	case "utf-16le":
		return EncodingUTF16LE, nil
	case "utf-16be":
		return EncodingUTF16BE, nil
	case "windows-1250", "cp1250":
		return EncodingWindows1250, nil
	case "windows-1252", "cp1252":
		return EncodingWindows1252, nil
	case "iso-8859-2", "latin2":
		return EncodingISO88592, nil
	default:
		return "", fmt.Errorf("unsupported encoding %q", name)
	}
}

// DetectEncoding detects the encoding of a byte buffer. Valid UTF-8 always
// wins; anything else is treated as Windows-1250, the usual export
// encoding of Central European vendor systems.
func DetectEncoding(data []byte) Encoding {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return EncodingUTF8
	case bytes.HasPrefix(data, bomUTF16LE):
		return EncodingUTF16LE
	case bytes.HasPrefix(data, bomUTF16BE):
		return EncodingUTF16BE
	case utf8.Valid(data):
		return EncodingUTF8
	default:
		return EncodingWindows1250
	}
}

// Decode converts a byte buffer from the given encoding to a UTF-8 string.
// An empty encoding is detected. A leading UTF-8 BOM is stripped.
func Decode(data []byte, enc Encoding) (string, error) {
	if enc == "" {
		enc = DetectEncoding(data)
	}

	if enc == EncodingUTF8 {
		// Files labelled legacy by an operator are often UTF-8 after all.
		if utf8.Valid(data) {
			return string(bytes.TrimPrefix(data, bomUTF8)), nil
		}
		enc = EncodingWindows1250
	}

	decoder, err := decoderFor(enc)
	if err != nil {
		return "", err
	}
	out, _, err := transform.Bytes(decoder.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", enc, err)
	}
	return string(out), nil
}

// ToUTF8Reader wraps a reader with a decoder to convert to UTF-8
func ToUTF8Reader(r io.Reader, enc Encoding) (io.Reader, error) {
	if enc == EncodingUTF8 || enc == "" {
		return r, nil
	}
	decoder, err := decoderFor(enc)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(r, decoder.NewDecoder()), nil
}

func decoderFor(enc Encoding) (encoding.Encoding, error) {
	switch enc {
	case EncodingWindows1250:
		return charmap.Windows1250, nil
	case EncodingWindows1252:
		return charmap.Windows1252, nil
	case EncodingISO88592:
		return charmap.ISO8859_2, nil
	case EncodingUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), nil
	case EncodingUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", enc)
	}
}
