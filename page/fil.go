// fil.go - FIL header and trailer parsing for InnoDB pages
package page

import (
	"fmt"

	"github.com/wilhasse/innospace/format"
)

type FilHeader struct {
	Checksum   uint32
	PageNumber uint32
	Prev       *uint32
	Next       *uint32
	LastModLSN uint64
	PageType   format.PageType
	FlushLSN   uint64
	SpaceID    uint32
}

func ParseFilHeader(p []byte) (FilHeader, error) {
	if len(p) < format.FilHeaderSize {
		return FilHeader{}, fmt.Errorf("short page: %d", len(p))
	}
	chk, _ := format.Be32(p, 0)
	pg, _ := format.Be32(p, 4)
	prev, _ := format.Be32(p, 8)
	next, _ := format.Be32(p, 12)
	lsn, _ := format.Be64(p, 16)
	pt, _ := format.Be16(p, 24)
	flush, _ := format.Be64(p, 26)
	space, _ := format.Be32(p, 34)
	var prevPtr, nextPtr *uint32
	if prev != format.PageNoNil {
		prevPtr = &prev
	}
	if next != format.PageNoNil {
		nextPtr = &next
	}
	return FilHeader{
		Checksum: chk, PageNumber: pg, Prev: prevPtr, Next: nextPtr,
		LastModLSN: lsn, PageType: format.PageType(pt), FlushLSN: flush, SpaceID: space,
	}, nil
}

type FilTrailer struct {
	Checksum uint32
	Low32LSN uint32
}

func ParseFilTrailer(p []byte) (FilTrailer, error) {
	if len(p) < format.FilTrailerSize {
		return FilTrailer{}, fmt.Errorf("short trailer")
	}
	off := len(p) - format.FilTrailerSize
	chk, _ := format.Be32(p, off+0)
	lsn, _ := format.Be32(p, off+4)
	return FilTrailer{Checksum: chk, Low32LSN: lsn}, nil
}

// Page = FIL header + body + FIL trailer. Size is the space's page
// size; typed views borrow Data and never copy it.
type Page struct {
	PageNo  uint32
	Size    int
	FIL     FilHeader
	Trailer FilTrailer
	Data    []byte
}

func NewPage(pageNo uint32, data []byte) (*Page, error) {
	switch len(data) {
	case 1024, 2048, 4096, 8192, 16384:
	default:
		return nil, fmt.Errorf("unsupported page size %d", len(data))
	}
	h, err := ParseFilHeader(data)
	if err != nil {
		return nil, err
	}
	t, err := ParseFilTrailer(data)
	if err != nil {
		return nil, err
	}
	return &Page{PageNo: pageNo, Size: len(data), FIL: h, Trailer: t, Data: data}, nil
}

func (p *Page) PageType() format.PageType { return p.FIL.PageType }

// LSNConsistent reports whether the trailer's low 32 LSN bits match
// the header. A mismatch usually means a torn or stale page; advisory
// only, never fatal.
func (p *Page) LSNConsistent() bool {
	return uint32(p.FIL.LastModLSN&0xffffffff) == p.Trailer.Low32LSN
}

// Body returns the page bytes between FIL header and trailer.
func (p *Page) Body() []byte {
	return p.Data[format.FilHeaderSize : p.Size-format.FilTrailerSize]
}

// Cursor returns a cursor over the full page buffer positioned at off.
func (p *Page) Cursor(off int) *format.Cursor {
	return format.NewCursor(p.Data, off)
}
