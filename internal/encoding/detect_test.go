package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/finboard/internal/encoding"
)

const statement = "Descrição;Montante\nCafé;12,50\nOperação;-3,00\n"

func TestNewUTF8Reader(t *testing.T) {
	latin1, err := charmap.Windows1252.NewEncoder().Bytes([]byte(statement))
	require.NoError(t, err)

	utf16le, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(statement))
	require.NoError(t, err)

	utf16be, err := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(statement))
	require.NoError(t, err)

	type testCase struct {
		name        string
		input       []byte
		wantCharset encoding.Charset
	}

	tests := []testCase{
		{name: "UTF8Passthrough", input: []byte(statement), wantCharset: encoding.UTF8},
		{name: "UTF8BOMStripped", input: append([]byte{0xEF, 0xBB, 0xBF}, statement...), wantCharset: encoding.UTF8},
		{name: "Latin1", input: latin1},
		{name: "UTF16LE", input: utf16le, wantCharset: encoding.UTF16LE},
		{name: "UTF16BE", input: utf16be, wantCharset: encoding.UTF16BE},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, charset, err := encoding.NewUTF8Reader(bytes.NewReader(tc.input))
			require.NoError(t, err)

			if tc.wantCharset == "" {
				assert.Contains(t, []encoding.Charset{encoding.Windows1252, encoding.ISO88599}, charset)
			} else {
				assert.Equal(t, tc.wantCharset, charset)
			}

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, statement, string(got))
		})
	}
}

func TestNewUTF8Reader_Empty(t *testing.T) {
	r, charset, err := encoding.NewUTF8Reader(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Equal(t, encoding.UTF8, charset)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDetect_TruncatedRune(t *testing.T) {
	prefix := []byte("Operação")
	cut := prefix[:len(prefix)-2] // drops the second byte of "ã" and the "o"

	assert.Equal(t, encoding.UTF8, encoding.Detect(cut))
}

func TestNewUTF8Reader_LongInput(t *testing.T) {
	long := bytes.Repeat([]byte("abc;1,00\n"), 2000)

	r, charset, err := encoding.NewUTF8Reader(bytes.NewReader(long))
	require.NoError(t, err)
	assert.Equal(t, encoding.UTF8, charset)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, long, got)
}
