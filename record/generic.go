// generic.go - Record structures: raw chain entries and decoded rows
package record

import "github.com/wilhasse/innospace/schema"

// GenericRecord holds the header and the position of the record
// origin (the byte immediately after the header).
type GenericRecord struct {
	PageNumber uint32
	Header     RecordHeader
	Pos        int    // absolute offset of the record origin
	Data       []byte // raw record bytes from the origin, when known
}

func (r GenericRecord) NextRecordPos() int {
	return r.Pos + r.Header.NextRecOffset
}

func (r GenericRecord) Deleted() bool { return r.Header.FlagsDeleted }

// FieldValue is one decoded column.
type FieldValue struct {
	Column *schema.Column
	Value  interface{}
	Null   bool
}

// Record is a schema-decoded record: key columns, non-key columns,
// and the child page number on node pointers.
type Record struct {
	GenericRecord
	Key             []FieldValue
	Row             []FieldValue
	ChildPageNumber *uint32
	TrxID           uint64 // clustered leaf records only
	RollPtr         uint64
}

// Field returns a decoded column by name, searching key then row.
func (r *Record) Field(name string) (FieldValue, bool) {
	for _, f := range r.Key {
		if f.Column.Name == name {
			return f, true
		}
	}
	for _, f := range r.Row {
		if f.Column.Name == name {
			return f, true
		}
	}
	return FieldValue{}, false
}

// KeyValues returns the key column values in declaration order.
func (r *Record) KeyValues() []interface{} {
	out := make([]interface{}, len(r.Key))
	for i, f := range r.Key {
		out[i] = f.Value
	}
	return out
}
