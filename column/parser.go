// parser.go - Column parser interface and base implementation
package column

import (
	"github.com/wilhasse/innospace/format"
	"github.com/wilhasse/innospace/schema"
)

// Parser interface for parsing column values from raw bytes
type Parser interface {
	// Parse reads and parses column value from input
	Parse(input []byte, offset int, col *schema.Column, varLen int) (value interface{}, bytesRead int, err error)

	// Skip skips column value in input without parsing
	Skip(input []byte, offset int, col *schema.Column, varLen int) (bytesRead int, err error)
}

// BaseParser provides common functionality for column parsers
type BaseParser struct{}

// readBytes reads specified number of bytes from input
func (p *BaseParser) readBytes(input []byte, offset, length int) ([]byte, error) {
	if offset < 0 || offset+length > len(input) {
		return nil, format.ErrShortRead
	}
	return input[offset : offset+length], nil
}

// readUint8 reads an unsigned 8-bit integer
func (p *BaseParser) readUint8(input []byte, offset int) (uint8, error) {
	if offset+1 > len(input) {
		return 0, format.ErrShortRead
	}
	return input[offset], nil
}

// readUint16 reads an unsigned 16-bit integer (big-endian)
func (p *BaseParser) readUint16(input []byte, offset int) (uint16, error) {
	return format.Be16(input, offset)
}

// readUint24 reads an unsigned 24-bit integer (big-endian)
func (p *BaseParser) readUint24(input []byte, offset int) (uint32, error) {
	return format.Be24(input, offset)
}

// readUint32 reads an unsigned 32-bit integer (big-endian)
func (p *BaseParser) readUint32(input []byte, offset int) (uint32, error) {
	return format.Be32(input, offset)
}

// readUint48 reads an unsigned 48-bit integer (big-endian)
func (p *BaseParser) readUint48(input []byte, offset int) (uint64, error) {
	return format.Be48(input, offset)
}

// readUint64 reads an unsigned 64-bit integer (big-endian)
func (p *BaseParser) readUint64(input []byte, offset int) (uint64, error) {
	return format.Be64(input, offset)
}

// Signed integers are stored with the sign bit flipped so values sort
// as unsigned byte strings; XOR restores two's complement.

func (p *BaseParser) readInt8(input []byte, offset int) (int8, error) {
	val, err := p.readUint8(input, offset)
	if err != nil {
		return 0, err
	}
	return int8(val ^ 0x80), nil
}

func (p *BaseParser) readInt16(input []byte, offset int) (int16, error) {
	val, err := p.readUint16(input, offset)
	if err != nil {
		return 0, err
	}
	return int16(val ^ 0x8000), nil
}

func (p *BaseParser) readInt24(input []byte, offset int) (int32, error) {
	val, err := p.readUint24(input, offset)
	if err != nil {
		return 0, err
	}
	val ^= 0x800000
	if val&0x800000 != 0 {
		val |= 0xFF000000
	}
	return int32(val), nil
}

func (p *BaseParser) readInt32(input []byte, offset int) (int32, error) {
	val, err := p.readUint32(input, offset)
	if err != nil {
		return 0, err
	}
	return int32(val ^ 0x80000000), nil
}

func (p *BaseParser) readInt64(input []byte, offset int) (int64, error) {
	val, err := p.readUint64(input, offset)
	if err != nil {
		return 0, err
	}
	return int64(val ^ 0x8000000000000000), nil
}
