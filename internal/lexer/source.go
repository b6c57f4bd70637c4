package lexer

import (
	"bytes"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// LoadSource normalizes raw script bytes to a UTF-8 string, transcoding
// UTF-16 (LE or BE) source that starts with a BOM and stripping a UTF-8 BOM.
// UTF-16 without a BOM is not detected and is returned unchanged.
// Mirrors the teacher lexer's BOM-stripping behavior (lexer_bom_test.go)
// but generalizes it to the encodings a host might hand the engine when
// reading a script file from disk.
func LoadSource(raw []byte) (string, error) {
	switch {
	case bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}):
		return string(raw[3:]), nil
	case bytes.HasPrefix(raw, []byte{0xFF, 0xFE}), bytes.HasPrefix(raw, []byte{0xFE, 0xFF}):
		dec := unicode.BOMOverride(unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder())
		out, _, err := transform.Bytes(dec, raw)
		if err != nil {
			return "", err
		}
		return string(out), nil
	default:
		return string(raw), nil
	}
}

// LoadSourceReader is the streaming variant used by the CLI when reading
// from stdin, where the whole input need not be buffered up front by the
// caller before encoding detection.
func LoadSourceReader(r io.Reader) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return LoadSource(raw)
}
