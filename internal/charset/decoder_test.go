package charset

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectEncoding(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected Encoding
	}{
		{"plain ascii", []byte("vendor,price"), EncodingUTF8},
		{"utf8 with diacritics", []byte("Čokolada,2.50"), EncodingUTF8},
		{"utf8 bom", []byte("\xEF\xBB\xBFname"), EncodingUTF8},
		{"utf16 le bom", []byte("\xFF\xFEn\x00"), EncodingUTF16LE},
		{"windows-1250", []byte("\xC8okolada,2.50"), EncodingWindows1250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectEncoding(tt.data))
		})
	}
}

func TestDecode(t *testing.T) {
	t.Run("windows-1250", func(t *testing.T) {
		got, err := Decode([]byte("\xC8okolada \x9Aljiva \x9Eito"), EncodingWindows1250)
		require.NoError(t, err)
		assert.Equal(t, "Čokolada šljiva žito", got)
	})

	t.Run("auto detects legacy", func(t *testing.T) {
		got, err := Decode([]byte("\xC6evapi"), "")
		require.NoError(t, err)
		assert.Equal(t, "Ćevapi", got)
	})

	t.Run("utf8 label on legacy bytes", func(t *testing.T) {
		got, err := Decode([]byte("\xF0ak"), EncodingUTF8)
		require.NoError(t, err)
		assert.Equal(t, "đak", got)
	})

	t.Run("strips utf8 bom", func(t *testing.T) {
		got, err := Decode([]byte("\xEF\xBB\xBFname"), "")
		require.NoError(t, err)
		assert.Equal(t, "name", got)
	})

	t.Run("iso-8859-2", func(t *testing.T) {
		got, err := Decode([]byte("\xA9unka"), EncodingISO88592)
		require.NoError(t, err)
		assert.Equal(t, "Šunka", got)
	})

	t.Run("utf16 le", func(t *testing.T) {
		got, err := Decode([]byte("\xFF\xFEh\x00i\x00"), "")
		require.NoError(t, err)
		assert.Equal(t, "hi", got)
	})
}

func TestParseEncoding(t *testing.T) {
	enc, err := ParseEncoding("CP1250")
	require.NoError(t, err)
	assert.Equal(t, EncodingWindows1250, enc)

	enc, err = ParseEncoding("auto")
	require.NoError(t, err)
	assert.Equal(t, Encoding(""), enc)

	_, err = ParseEncoding("ebcdic")
	assert.Error(t, err)
}

func TestToUTF8Reader(t *testing.T) {
	r, err := ToUTF8Reader(strings.NewReader("\x8Aampon"), EncodingWindows1250)
	require.NoError(t, err)
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Šampon", string(out))
}
