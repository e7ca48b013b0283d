// time.go - Parser for date and time column types
package column

import (
	"fmt"

	"github.com/wilhasse/innospace/format"
	"github.com/wilhasse/innospace/schema"
)

// TimeParser handles DATE, TIME, DATETIME, TIMESTAMP.
type TimeParser struct {
	BaseParser
}

// Parse parses date/time value based on column type
func (p *TimeParser) Parse(input []byte, offset int, col *schema.Column, varLen int) (interface{}, int, error) {
	switch col.Type {
	case schema.TypeDate:
		// 3-byte integer: 15 bits year, 4 bits month, 5 bits day,
		// stored with the sign bit flipped
		val, err := p.readUint24(input, offset)
		if err != nil {
			return nil, 0, err
		}
		val ^= 0x800000
		day := val & 0x1F
		val >>= 5
		month := val & 0x0F
		val >>= 4
		year := val
		return fmt.Sprintf("%04d-%02d-%02d", year, month, day), 3, nil

	case schema.TypeTimestamp:
		// 4-byte big-endian epoch seconds plus optional fraction
		val, err := p.readUint32(input, offset)
		if err != nil {
			return nil, 0, err
		}
		n := 4
		frac := 0
		if col.Precision > 0 {
			frac, err = p.readFraction(input, offset+4, col.Precision)
			if err != nil {
				return nil, 0, err
			}
			n += (col.Precision + 1) / 2
		}
		if col.Precision > 0 {
			return fmt.Sprintf("%d%s", val, fracString(frac, col.Precision)), n, nil
		}
		return val, n, nil

	case schema.TypeDateTime:
		// 5 bytes big-endian: 1 sign bit, 17 bits year*13+month,
		// 5 bits day, 5 bits hour, 6 bits minute, 6 bits second
		if offset+5 > len(input) {
			return nil, 0, format.ErrShortRead
		}
		packed := uint64(0)
		for i := 0; i < 5; i++ {
			packed = packed<<8 | uint64(input[offset+i])
		}
		second := int(packed & 0x3F)
		packed >>= 6
		minute := int(packed & 0x3F)
		packed >>= 6
		hour := int(packed & 0x1F)
		packed >>= 5
		day := int(packed & 0x1F)
		packed >>= 5
		yearMonth := int(packed & 0x1FFFF)
		month := yearMonth % 13
		year := yearMonth / 13

		n := 5
		fracStr := ""
		if col.Precision > 0 {
			frac, err := p.readFraction(input, offset+5, col.Precision)
			if err != nil {
				return nil, 0, err
			}
			fracStr = fracString(frac, col.Precision)
			n += (col.Precision + 1) / 2
		}
		return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d%s",
			year, month, day, hour, minute, second, fracStr), n, nil

	case schema.TypeTime:
		// 3 bytes big-endian: 1 sign bit, 1 unused, 10 bits hour,
		// 6 bits minute, 6 bits second
		packed, err := p.readUint24(input, offset)
		if err != nil {
			return nil, 0, err
		}
		neg := packed&0x800000 == 0
		if neg {
			packed = 0x800000 - (packed & 0x7FFFFF)
		} else {
			packed &= 0x7FFFFF
		}
		second := int(packed & 0x3F)
		packed >>= 6
		minute := int(packed & 0x3F)
		packed >>= 6
		hour := int(packed & 0x3FF)

		n := 3 + (col.Precision+1)/2
		sign := ""
		if neg {
			sign = "-"
		}
		return fmt.Sprintf("%s%02d:%02d:%02d", sign, hour, minute, second), n, nil

	default:
		return nil, 0, schema.ErrUnsupportedType
	}
}

// Skip skips date/time value without parsing
func (p *TimeParser) Skip(input []byte, offset int, col *schema.Column, varLen int) (int, error) {
	switch col.Type {
	case schema.TypeDate:
		return 3, nil
	case schema.TypeTimestamp:
		return 4 + (col.Precision+1)/2, nil
	case schema.TypeDateTime:
		return 5 + (col.Precision+1)/2, nil
	case schema.TypeTime:
		return 3 + (col.Precision+1)/2, nil
	default:
		return 0, schema.ErrUnsupportedType
	}
}

// readFraction reads big-endian fractional seconds, normalized to
// microseconds.
func (p *TimeParser) readFraction(input []byte, offset, precision int) (int, error) {
	bufsz := (precision + 1) / 2
	if bufsz == 0 {
		return 0, nil
	}
	if offset+bufsz > len(input) {
		return 0, format.ErrShortRead
	}
	usec := uint64(0)
	for i := 0; i < bufsz; i++ {
		usec = usec<<8 | uint64(input[offset+i])
	}
	for prec := 2 * bufsz; prec < 6; prec += 2 {
		usec *= 100
	}
	return int(usec), nil
}

func fracString(usec, precision int) string {
	if precision <= 0 {
		return ""
	}
	return fmt.Sprintf(".%06d", usec)[:precision+1]
}
