// string_parser.go - Parser for string/text and binary column types
package column

import (
	"github.com/wilhasse/innospace/schema"
)

// StringParser handles CHAR, VARCHAR, TEXT and the binary families.
// Values come back as raw bytes for the binary family and strings for
// the text family; stripping trailing CHAR padding is the caller's
// concern.
type StringParser struct {
	BaseParser
}

// Parse parses string value based on column type
func (p *StringParser) Parse(input []byte, offset int, col *schema.Column, varLen int) (interface{}, int, error) {
	switch col.Type {
	case schema.TypeChar:
		// CHAR is stored variable length under multi-byte charsets
		length := col.Length
		if col.IsVariableLength() {
			length = varLen
		}
		if length <= 0 {
			return "", 0, nil
		}
		data, err := p.readBytes(input, offset, length)
		if err != nil {
			return nil, 0, err
		}
		return string(data), length, nil

	case schema.TypeVarchar, schema.TypeText, schema.TypeTinyText,
		schema.TypeMediumText, schema.TypeLongText:
		if varLen <= 0 {
			return "", 0, nil
		}
		data, err := p.readBytes(input, offset, varLen)
		if err != nil {
			return nil, 0, err
		}
		return string(data), varLen, nil

	case schema.TypeBinary:
		data, err := p.readBytes(input, offset, col.Length)
		if err != nil {
			return nil, 0, err
		}
		return data, col.Length, nil

	case schema.TypeVarBinary, schema.TypeBlob, schema.TypeTinyBlob,
		schema.TypeMediumBlob, schema.TypeLongBlob:
		if varLen <= 0 {
			return []byte{}, 0, nil
		}
		data, err := p.readBytes(input, offset, varLen)
		if err != nil {
			return nil, 0, err
		}
		return data, varLen, nil

	default:
		return nil, 0, schema.ErrUnsupportedType
	}
}

// Skip skips string value without parsing
func (p *StringParser) Skip(input []byte, offset int, col *schema.Column, varLen int) (int, error) {
	switch col.Type {
	case schema.TypeChar:
		if col.IsVariableLength() {
			return varLen, nil
		}
		return col.Length, nil

	case schema.TypeVarchar, schema.TypeText, schema.TypeTinyText,
		schema.TypeMediumText, schema.TypeLongText,
		schema.TypeVarBinary, schema.TypeBlob, schema.TypeTinyBlob,
		schema.TypeMediumBlob, schema.TypeLongBlob:
		return varLen, nil

	case schema.TypeBinary:
		return col.Length, nil

	default:
		return 0, schema.ErrUnsupportedType
	}
}
