// Package finalizer prepares raw document bytes for parsing: byte order
// marks are removed or decoded and line endings are unified so that line
// numbers count the same on every platform.
package finalizer

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// NormalizeLineEndings converts all line endings to the specified style
func NormalizeLineEndings(input []byte, targetEnding string) (out []byte, changed bool, err error) {
	if len(input) == 0 {
		return input, false, nil
	}

	// Check for binary content
	if bytes.Contains(input, []byte{0}) {
		return input, false, nil
	}

	content := string(input)
	originalContent := content

	content = strings.ReplaceAll(content, "\r\n", "\n") // CRLF -> LF
	content = strings.ReplaceAll(content, "\r", "\n")   // CR -> LF

	if targetEnding == "\r\n" {
		content = strings.ReplaceAll(content, "\n", "\r\n")
	}

	if content != originalContent {
		changed = true
	}

	return []byte(content), changed, nil
}

// GetBOMInfo returns information about detected BOM
func GetBOMInfo(input []byte) (encoding string, bomSize int, found bool) {
	switch {
	case bytes.HasPrefix(input, []byte{0x00, 0x00, 0xFE, 0xFF}):
		return "UTF-32BE", 4, true
	case bytes.HasPrefix(input, []byte{0xFF, 0xFE, 0x00, 0x00}):
		return "UTF-32LE", 4, true
	case bytes.HasPrefix(input, []byte{0xEF, 0xBB, 0xBF}):
		return "UTF-8", 3, true
	case bytes.HasPrefix(input, []byte{0xFE, 0xFF}):
		return "UTF-16BE", 2, true
	case bytes.HasPrefix(input, []byte{0xFF, 0xFE}):
		return "UTF-16LE", 2, true
	}
	return "", 0, false
}

// DecodeText returns input as UTF-8 without a byte order mark. UTF-16 input
// is transcoded; UTF-32 is rejected.
func DecodeText(input []byte) (out []byte, changed bool, err error) {
	enc, size, found := GetBOMInfo(input)
	if !found {
		return input, false, nil
	}
	switch enc {
	case "UTF-8":
		return input[size:], true, nil
	case "UTF-16BE", "UTF-16LE":
		decoded, _, err := transform.Bytes(unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder(), input)
		if err != nil {
			return input, false, fmt.Errorf("failed to decode %s: %w", enc, err)
		}
		return decoded, true, nil
	default:
		return input, false, fmt.Errorf("unsupported encoding %s", enc)
	}
}

// PrepareDocument decodes input and converts its line endings to LF.
func PrepareDocument(input []byte) ([]byte, error) {
	out, _, err := DecodeText(input)
	if err != nil {
		return nil, err
	}
	out, _, err = NormalizeLineEndings(out, "\n")
	return out, err
}
