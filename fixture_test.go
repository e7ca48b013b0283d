package innospace

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/wilhasse/innospace/format"
	"github.com/wilhasse/innospace/page"
)

// Test fixtures are synthesized byte-exact pages: every offset below
// mirrors the on-disk layout the parsers read back.

type pageBuf struct {
	b []byte
}

func newPageBuf() *pageBuf {
	return &pageBuf{b: make([]byte, format.DefaultPageSize)}
}

func (p *pageBuf) u8(off int, v uint8)   { p.b[off] = v }
func (p *pageBuf) u16(off int, v uint16) { binary.BigEndian.PutUint16(p.b[off:], v) }
func (p *pageBuf) u32(off int, v uint32) { binary.BigEndian.PutUint32(p.b[off:], v) }
func (p *pageBuf) u64(off int, v uint64) { binary.BigEndian.PutUint64(p.b[off:], v) }

func (p *pageBuf) u48(off int, v uint64) {
	for i := 0; i < 6; i++ {
		p.b[off+i] = byte(v >> uint(8*(5-i)))
	}
}

func (p *pageBuf) bytes(off int, v []byte) { copy(p.b[off:], v) }

const nilPage = format.PageNoNil

// fil writes the FIL header; prev/next of nilPage mean no sibling.
func (p *pageBuf) fil(pageNo uint32, t format.PageType, prev, next uint32, lsn uint64, spaceID uint32) {
	p.u32(4, pageNo)
	p.u32(8, prev)
	p.u32(12, next)
	p.u64(16, lsn)
	p.u16(24, uint16(t))
	p.u32(34, spaceID)
	// consistent trailer
	p.u32(len(p.b)-4, uint32(lsn))
}

// seal computes and stores the classic checksum.
func (p *pageBuf) seal() {
	p.u32(0, page.ChecksumInnodb(p.b))
	p.u32(len(p.b)-8, page.ChecksumInnodb(p.b))
}

func (p *pageBuf) addr(off int, a page.Addr) {
	p.u32(off, a.PageNo)
	p.u16(off+4, a.Offset)
}

func (p *pageBuf) baseNode(off int, length uint32, first, last page.Addr) {
	p.u32(off, length)
	p.addr(off+4, first)
	p.addr(off+10, last)
}

func (p *pageBuf) listNode(off int, prev, next page.Addr) {
	p.addr(off, prev)
	p.addr(off+6, next)
}

var nilAddr = page.Addr{PageNo: nilPage}

// xdesEntry writes descriptor i; usedPages marks free bits clear for
// the first usedPages pages of the extent.
func (p *pageBuf) xdesEntry(i int, fsegID uint64, state format.XdesState, prev, next page.Addr, usedPages int) {
	off := format.XdesArrayOff + i*format.XdesEntrySize
	p.u64(off, fsegID)
	p.listNode(off+8, prev, next)
	p.u32(off+20, uint32(state))
	for pg := 0; pg < format.PagesPerExtent; pg++ {
		if pg >= usedPages {
			// free bit, MSB-first pair per page
			p.b[off+24+pg/4] |= 0x2 << uint(6-2*(pg%4))
		}
	}
}

// inodeEntry writes segment descriptor slot i on an INODE page.
func (p *pageBuf) inodeEntry(i int, fsegID uint64, fragPages []uint32) int {
	off := format.InodeArrayOff + i*format.InodeEntrySize
	p.u64(off, fsegID)
	p.u32(off+8, 0) // not_full_n_used
	p.baseNode(off+12, 0, nilAddr, nilAddr)
	p.baseNode(off+28, 0, nilAddr, nilAddr)
	p.baseNode(off+44, 0, nilAddr, nilAddr)
	p.u32(off+60, format.FsegMagic)
	for s := 0; s < format.FragArraySlots; s++ {
		pg := nilPage
		if s < len(fragPages) {
			pg = fragPages[s]
		}
		p.u32(off+64+s*4, pg)
	}
	return off
}

// indexRecord is one synthetic user record for buildIndexPage.
type indexRecord struct {
	prefix  []byte // varlen vector + NULL bitmap, highest address last
	data    []byte // bytes from the origin
	recType format.RecordType
	deleted bool
}

// buildIndexPage lays out an INDEX page: sentinels, a chained heap,
// and a two-slot directory.
func buildIndexPage(pageNo uint32, prev, next uint32, level uint16, indexID uint64, spaceID uint32, fseg *page.FsegHeader, recs []indexRecord) *pageBuf {
	p := newPageBuf()
	p.fil(pageNo, format.PageTypeIndex, prev, next, 4200, spaceID)

	// record header bytes at origin-5
	writeRecHdr := func(origin int, flags uint8, nOwned uint8, heap uint16, rt format.RecordType, nextOrigin int) {
		off := origin - format.RecordHeaderSize
		p.u8(off, flags<<4|nOwned)
		p.u16(off+1, heap<<3|uint16(rt))
		rel := 0
		if nextOrigin != 0 {
			rel = nextOrigin - origin
		}
		p.u16(off+3, uint16(int16(rel)))
	}

	infOrigin := format.PageDataOff + format.RecordHeaderSize // 99
	supOrigin := infOrigin + format.SystemRecordSize + format.RecordHeaderSize
	p.bytes(infOrigin, format.LitInfimum)
	p.bytes(supOrigin, format.LitSupremum)

	// heap records after the supremum literal
	heapPos := supOrigin + format.SystemRecordSize
	origins := make([]int, len(recs))
	for i, r := range recs {
		pos := heapPos + len(r.prefix) + format.RecordHeaderSize
		origins[i] = pos
		p.bytes(heapPos, r.prefix)
		p.bytes(pos, r.data)
		heapPos = pos + len(r.data)
	}

	// chain: infimum -> recs... -> supremum
	firstNext := supOrigin
	if len(recs) > 0 {
		firstNext = origins[0]
	}
	writeRecHdr(infOrigin, 0, 1, 0, format.RecInfimum, firstNext)
	for i, r := range recs {
		nxt := supOrigin
		if i+1 < len(recs) {
			nxt = origins[i+1]
		}
		var flags uint8
		if r.deleted {
			flags |= 0x2
		}
		writeRecHdr(origins[i], flags, 0, uint16(2+i), r.recType, nxt)
	}
	writeRecHdr(supOrigin, 0, uint8(1+len(recs)), 1, format.RecSupremum, 0)

	// index header
	p.u16(38, 2)                        // dir slots
	p.u16(40, uint16(heapPos))          // heap top
	p.u16(42, 0x8000|uint16(2+len(recs))) // compact + heap records
	p.u16(50, 5)                        // no direction
	p.u16(54, uint16(len(recs)))        // user records
	p.u16(64, level)
	p.u64(66, indexID)
	if fseg != nil {
		p.u32(74, fseg.LeafInodeSpace)
		p.u32(78, fseg.LeafInodePage)
		p.u16(82, fseg.LeafInodeOff)
		p.u32(84, fseg.NonLeafInodeSpace)
		p.u32(88, fseg.NonLeafInodePage)
		p.u16(92, fseg.NonLeafInodeOff)
	}

	// directory: slot 0 (infimum) nearest the trailer
	dirStart := format.DefaultPageSize - format.FilTrailerSize - 2*format.PageDirSlotSize
	p.u16(dirStart, uint16(supOrigin))
	p.u16(dirStart+2, uint16(infOrigin))

	p.seal()
	return p
}

// i32 encodes a signed 32-bit column value as stored (sign bit
// flipped).
func i32(v int32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v)^0x80000000)
	return b[:]
}

func u32be(v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return b[:]
}

func u64be(v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return b[:]
}

func cat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// writeSpaceFile writes the pages to a temp file and returns its path.
func writeSpaceFile(t *testing.T, pages []*pageBuf) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.ibd")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	for _, p := range pages {
		if _, err := f.Write(p.b); err != nil {
			t.Fatal(err)
		}
	}
	return path
}

const (
	fixSpaceID = 100
	fixIndexID = 500
)

// buildEmptyTableSpace synthesizes the canonical 4-page standalone
// space: FSP_HDR, IBUF_BITMAP, INODE, and an empty INDEX root.
func buildEmptyTableSpace(t *testing.T) string {
	t.Helper()

	// page 0: FSP_HDR
	p0 := newPageBuf()
	p0.fil(0, format.PageTypeFspHdr, nilPage, nilPage, 4100, fixSpaceID)
	p0.u32(38, fixSpaceID)
	p0.u32(46, 4)  // size in pages
	p0.u32(50, 64) // free limit
	p0.u32(58, 4)  // frag_n_used
	entry0Node := page.Addr{PageNo: 0, Offset: format.XdesArrayOff + 8}
	entry1Node := page.Addr{PageNo: 0, Offset: format.XdesArrayOff + 1*format.XdesEntrySize + 8}
	entry2Node := page.Addr{PageNo: 0, Offset: format.XdesArrayOff + 2*format.XdesEntrySize + 8}
	// free: extents 1 and 2, exercising forward and reverse walks
	p0.baseNode(62, 2, entry1Node, entry2Node)  // free
	p0.baseNode(78, 1, entry0Node, entry0Node)  // free_frag
	p0.baseNode(94, 0, nilAddr, nilAddr)        // full_frag
	p0.u64(110, 3)                              // next seg id
	p0.baseNode(118, 0, nilAddr, nilAddr)       // full_inodes
	inodeNode := page.Addr{PageNo: 2, Offset: format.FilHeaderSize}
	p0.baseNode(134, 1, inodeNode, inodeNode) // free_inodes
	p0.xdesEntry(0, 0, format.XdesFreeFrag, nilAddr, nilAddr, 4)
	p0.xdesEntry(1, 0, format.XdesFree, nilAddr, entry2Node, 0)
	p0.xdesEntry(2, 0, format.XdesFree, entry1Node, nilAddr, 0)
	p0.seal()

	// page 1: IBUF_BITMAP
	p1 := newPageBuf()
	p1.fil(1, format.PageTypeIbufBitmap, nilPage, nilPage, 4101, fixSpaceID)
	p1.seal()

	// page 2: INODE with leaf and internal segments; the root page is
	// fragment page 0 of the leaf segment
	p2 := newPageBuf()
	p2.fil(2, format.PageTypeInode, nilPage, nilPage, 4102, fixSpaceID)
	p2.listNode(38, nilAddr, nilAddr)
	leafOff := p2.inodeEntry(0, 1, []uint32{3})
	internalOff := p2.inodeEntry(1, 2, nil)
	p2.seal()

	// page 3: empty INDEX root
	fseg := &page.FsegHeader{
		LeafInodeSpace: fixSpaceID, LeafInodePage: 2, LeafInodeOff: uint16(leafOff),
		NonLeafInodeSpace: fixSpaceID, NonLeafInodePage: 2, NonLeafInodeOff: uint16(internalOff),
	}
	p3 := buildIndexPage(3, nilPage, nilPage, 0, fixIndexID, fixSpaceID, fseg, nil)

	return writeSpaceFile(t, []*pageBuf{p0, p1, p2, p3})
}
