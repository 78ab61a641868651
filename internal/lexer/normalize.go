package lexer

import (
	"bytes"

	"golang.org/x/text/unicode/norm"
)

// bomUTF8 is the UTF-8 Byte Order Mark.
var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// Normalize performs input normalization at the lexer boundary:
//  1. Strips a UTF-8 BOM if present.
//  2. Strips `\r` so `\r\n` line endings are tolerated as `\n`.
//  3. Applies Unicode NFC normalization.
//
// This ensures that lexically equivalent source code produces identical
// token streams regardless of encoding variation, which matters here
// because spec.md treats any codepoint above U+007F as an identifier
// continuation character.
func Normalize(src []byte) []byte {
	src = bytes.TrimPrefix(src, bomUTF8)
	src = bytes.ReplaceAll(src, []byte{'\r'}, nil)
	if !norm.NFC.IsNormal(src) {
		src = norm.NFC.Bytes(src)
	}
	return src
}
