package workspace

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeText converts raw file bytes to UTF-8. A UTF-8 or UTF-16 byte order
// mark selects the source encoding and is stripped; input without a BOM is
// passed through so an XML encoding declaration can still apply.
func DecodeText(data []byte) ([]byte, error) {
	out, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode text: %w", err)
	}
	return out, nil
}

// NewXMLDecoder returns a decoder for already-decoded text that also accepts
// documents declaring a legacy encoding such as windows-1252.
func NewXMLDecoder(r io.Reader) *xml.Decoder {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charsetReader
	return decoder
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "utf-8", "utf8", "utf-16", "utf-16le", "utf-16be", "unicode":
		// DecodeText already produced UTF-8
		return input, nil
	}
	return charset.NewReaderLabel(label, input)
}
