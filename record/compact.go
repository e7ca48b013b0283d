// compact.go - Describer-driven decoder for the compact record format
package record

// Compact layout, low addresses first:
//   [varlen vector][NULL bitmap][5B header] origin [column data...]
// The varlen vector and bitmap grow leftward from the header; lengths
// for columns in declaration order sit right-to-left.
import (
	"fmt"

	"github.com/wilhasse/innospace/column"
	"github.com/wilhasse/innospace/format"
	"github.com/wilhasse/innospace/schema"
)

const (
	trxIDSize   = 6
	rollPtrSize = 7
)

// CompactDecoder decodes records using a caller-supplied describer.
// Clustered selects the clustered-index layout, where leaf records
// carry the transaction id and roll pointer between key and row.
type CompactDecoder struct {
	Desc      schema.Describer
	Clustered bool
}

func NewCompactDecoder(desc schema.Describer) *CompactDecoder {
	return &CompactDecoder{Desc: desc, Clustered: true}
}

// Decode parses the record at gr's origin. level is the page level;
// node-pointer records carry key columns plus a child page number.
func (d *CompactDecoder) Decode(pageData []byte, gr GenericRecord, level uint16) (*Record, error) {
	if d.Desc == nil {
		return nil, fmt.Errorf("no describer for record at %d", gr.Pos)
	}
	rec := &Record{GenericRecord: gr}
	switch gr.Header.Type {
	case format.RecInfimum, format.RecSupremum:
		return rec, nil
	}
	leaf := level == 0
	// Any user record on a non-leaf page carries a child pointer.
	nodePtr := gr.Header.Type == format.RecNodePointer || !leaf

	cols := d.Desc.KeyColumns()
	if leaf && !nodePtr {
		cols = schema.Columns(d.Desc)
	}

	nulls, varLens, err := d.parsePrefix(pageData, gr.Pos, cols)
	if err != nil {
		return nil, err
	}

	pos := gr.Pos
	readField := func(col *schema.Column) (FieldValue, error) {
		if nulls[col] {
			return FieldValue{Column: col, Null: true}, nil
		}
		val, n, err := column.ParseColumn(pageData, pos, col, varLens[col])
		if err != nil {
			return FieldValue{}, fmt.Errorf("parse column %s: %w", col.Name, err)
		}
		pos += n
		return FieldValue{Column: col, Value: val}, nil
	}

	for _, col := range d.Desc.KeyColumns() {
		f, err := readField(col)
		if err != nil {
			return nil, err
		}
		rec.Key = append(rec.Key, f)
	}

	if nodePtr {
		child, err := format.Be32(pageData, pos)
		if err != nil {
			return nil, fmt.Errorf("node pointer child at %d: %w", pos, err)
		}
		rec.ChildPageNumber = &child
		return rec, nil
	}

	if leaf {
		if d.Clustered {
			if rec.TrxID, err = format.Be48(pageData, pos); err != nil {
				return nil, err
			}
			pos += trxIDSize
			if rec.RollPtr, err = format.Be56(pageData, pos); err != nil {
				return nil, err
			}
			pos += rollPtrSize
		}
		for _, col := range d.Desc.RowColumns() {
			f, err := readField(col)
			if err != nil {
				return nil, err
			}
			rec.Row = append(rec.Row, f)
		}
	}

	if end := pos; end > gr.Pos && end <= len(pageData) {
		rec.Data = pageData[gr.Pos:end]
	}
	return rec, nil
}

// parsePrefix reads the NULL bitmap and variable-length vector that
// precede the record header, for the columns the record carries.
func (d *CompactDecoder) parsePrefix(pageData []byte, origin int, cols []*schema.Column) (map[*schema.Column]bool, map[*schema.Column]int, error) {
	nulls := make(map[*schema.Column]bool)
	varLens := make(map[*schema.Column]int)

	var nullable []*schema.Column
	for _, col := range cols {
		if col.Nullable {
			nullable = append(nullable, col)
		}
	}

	headerPos := origin - format.RecordHeaderSize
	bitmapSize := (len(nullable) + 7) / 8
	bitmapPos := headerPos - bitmapSize
	if bitmapPos < 0 {
		return nil, nil, fmt.Errorf("NULL bitmap underruns page at record %d", origin)
	}
	// Bits are assigned in declaration order, LSB first within each
	// byte.
	for i, col := range nullable {
		b := pageData[bitmapPos+i/8]
		if b&(1<<uint(i%8)) != 0 {
			nulls[col] = true
		}
	}

	// Lengths for columns in declaration order are stored
	// right-to-left immediately before the bitmap.
	pos := bitmapPos
	for _, col := range cols {
		if !col.IsVariableLength() || nulls[col] {
			continue
		}
		pos--
		if pos < 0 {
			return nil, nil, fmt.Errorf("varlen vector underruns page at record %d", origin)
		}
		b0 := int(pageData[pos])
		length := b0
		if col.MaxByteSize() > 255 && b0 > 127 {
			pos--
			if pos < 0 {
				return nil, nil, fmt.Errorf("varlen vector underruns page at record %d", origin)
			}
			if b0&0x40 != 0 {
				return nil, nil, fmt.Errorf("column %s overflows to external pages", col.Name)
			}
			length = (b0&0x3F)<<8 | int(pageData[pos])
		}
		varLens[col] = length
	}
	return nulls, varLens, nil
}
