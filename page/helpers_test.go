package page

import (
	"encoding/binary"

	"github.com/wilhasse/innospace/format"
)

// Test helpers assembling raw pages at exact on-disk offsets.

func blankPage() []byte {
	return make([]byte, format.DefaultPageSize)
}

func put16(b []byte, off int, v uint16) { binary.BigEndian.PutUint16(b[off:], v) }
func put32(b []byte, off int, v uint32) { binary.BigEndian.PutUint32(b[off:], v) }
func put64(b []byte, off int, v uint64) { binary.BigEndian.PutUint64(b[off:], v) }

func putFil(b []byte, pageNo uint32, t format.PageType, prev, next uint32, lsn uint64, spaceID uint32) {
	put32(b, 4, pageNo)
	put32(b, 8, prev)
	put32(b, 12, next)
	put64(b, 16, lsn)
	put16(b, 24, uint16(t))
	put32(b, 34, spaceID)
	put32(b, len(b)-4, uint32(lsn))
}

func putAddr(b []byte, off int, a Addr) {
	put32(b, off, a.PageNo)
	put16(b, off+4, a.Offset)
}

func putBase(b []byte, off int, length uint32, first, last Addr) {
	put32(b, off, length)
	putAddr(b, off+4, first)
	putAddr(b, off+10, last)
}

var testNil = Addr{PageNo: format.PageNoNil}

func seal(b []byte) {
	put32(b, 0, ChecksumInnodb(b))
	put32(b, len(b)-8, ChecksumInnodb(b))
}
