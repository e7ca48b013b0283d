// fsp.go - FSP header and extent descriptor (XDES) page parsing
package page

import (
	"fmt"

	"github.com/wilhasse/innospace/format"
)

// FspHeader is the tablespace-level header at offset 38 of page 0.
type FspHeader struct {
	SpaceID       uint32
	Unused        uint32
	Size          uint32 // space size in pages
	FreeLimit     uint32
	Flags         uint32
	FragNUsed     uint32
	Free          ListBaseNode
	FreeFrag      ListBaseNode
	FullFrag      ListBaseNode
	NextSegID     uint64
	FullInodes    ListBaseNode
	FreeInodes    ListBaseNode
}

func ParseFspHeader(p []byte) (FspHeader, error) {
	if len(p) < format.XdesArrayOff {
		return FspHeader{}, fmt.Errorf("short FSP header: %d", len(p))
	}
	c := format.NewCursor(p, format.FspHeaderOff).PushName("fsp")
	var h FspHeader
	var err error
	if h.SpaceID, err = c.Uint32(); err != nil {
		return h, err
	}
	if h.Unused, err = c.Uint32(); err != nil {
		return h, err
	}
	if h.Size, err = c.Uint32(); err != nil {
		return h, err
	}
	if h.FreeLimit, err = c.Uint32(); err != nil {
		return h, err
	}
	if h.Flags, err = c.Uint32(); err != nil {
		return h, err
	}
	if h.FragNUsed, err = c.Uint32(); err != nil {
		return h, err
	}
	if h.Free, err = ParseListBaseNode(c); err != nil {
		return h, err
	}
	if h.FreeFrag, err = ParseListBaseNode(c); err != nil {
		return h, err
	}
	if h.FullFrag, err = ParseListBaseNode(c); err != nil {
		return h, err
	}
	if h.NextSegID, err = c.Uint64(); err != nil {
		return h, err
	}
	if h.FullInodes, err = ParseListBaseNode(c); err != nil {
		return h, err
	}
	if h.FreeInodes, err = ParseListBaseNode(c); err != nil {
		return h, err
	}
	return h, nil
}

// EachList yields the space-level list base nodes by name.
func (h FspHeader) EachList(fn func(name string, base ListBaseNode)) {
	fn("free", h.Free)
	fn("free_frag", h.FreeFrag)
	fn("full_frag", h.FullFrag)
	fn("full_inodes", h.FullInodes)
	fn("free_inodes", h.FreeInodes)
}

// List returns the named space-level list base node.
func (h FspHeader) List(name string) (ListBaseNode, bool) {
	switch name {
	case "free":
		return h.Free, true
	case "free_frag":
		return h.FreeFrag, true
	case "full_frag":
		return h.FullFrag, true
	case "full_inodes":
		return h.FullInodes, true
	case "free_inodes":
		return h.FreeInodes, true
	}
	return ListBaseNode{}, false
}

// PageState is the two-bit per-page state from an XDES bitmap.
type PageState struct {
	Free  bool
	Clean bool
}

// XdesEntry is one 40-byte extent descriptor.
type XdesEntry struct {
	PageNo  uint32 // page holding this descriptor
	Offset  uint16 // byte offset of the descriptor within the page
	FsegID  uint64 // 0 when the extent belongs to no segment
	Node    ListNode
	State   format.XdesState
	Bitmap  []byte // 16 bytes, 2 bits per page
	StartPage uint32 // first page of the described extent
}

func ParseXdesEntry(pageNo uint32, p []byte, off int, startPage uint32) (XdesEntry, error) {
	if off+format.XdesEntrySize > len(p) {
		return XdesEntry{}, fmt.Errorf("short XDES entry at %d", off)
	}
	c := format.NewCursor(p, off).PushName("xdes")
	var e XdesEntry
	e.PageNo = pageNo
	e.Offset = uint16(off)
	e.StartPage = startPage
	var err error
	if e.FsegID, err = c.Uint64(); err != nil {
		return e, err
	}
	if e.Node, err = ParseListNode(c); err != nil {
		return e, err
	}
	st, err := c.Uint32()
	if err != nil {
		return e, err
	}
	e.State = format.XdesState(st)
	if e.Bitmap, err = c.Bytes(16); err != nil {
		return e, err
	}
	return e, nil
}

// AllocatedToFseg reports whether the extent is owned by a segment.
func (e XdesEntry) AllocatedToFseg() bool {
	return e.State == format.XdesFseg && e.FsegID != 0
}

// Contains reports whether page n falls in this extent.
func (e XdesEntry) Contains(n uint32) bool {
	return n >= e.StartPage && n < e.StartPage+format.PagesPerExtent
}

// PageStateAt returns the (free, clean) bits for the i-th page of the
// extent. Pairs are packed MSB-first, free bit first.
func (e XdesEntry) PageStateAt(i int) (PageState, error) {
	if i < 0 || i >= format.PagesPerExtent {
		return PageState{}, fmt.Errorf("page index %d outside extent", i)
	}
	b := e.Bitmap[i/4]
	pair := (b >> uint(6-2*(i%4))) & 0x3
	return PageState{Free: pair&0x2 != 0, Clean: pair&0x1 != 0}, nil
}

// FreePages counts pages with the free bit set.
func (e XdesEntry) FreePages() int {
	n := 0
	for i := 0; i < format.PagesPerExtent; i++ {
		st, _ := e.PageStateAt(i)
		if st.Free {
			n++
		}
	}
	return n
}

// XdesEntriesPerPage is the descriptor count carried by one FSP_HDR
// or XDES page.
func XdesEntriesPerPage(pageSize int) int {
	return pageSize / format.PagesPerExtent
}

// PagesPerXdesPage is the page span described by one XDES page.
func PagesPerXdesPage(pageSize int) uint32 {
	return uint32(XdesEntriesPerPage(pageSize) * format.PagesPerExtent)
}

// XdesPageForPage returns the page number of the FSP_HDR/XDES page
// holding the descriptor for page n.
func XdesPageForPage(pageSize int, n uint32) uint32 {
	stride := PagesPerXdesPage(pageSize)
	return n - n%stride
}

// XdesPage wraps an FSP_HDR or XDES page and exposes its descriptor
// array. On FSP_HDR pages the space header is populated too.
type XdesPage struct {
	Inner *Page
	Fsp   *FspHeader // nil on pure XDES pages
}

func ParseXdesPage(ip *Page) (*XdesPage, error) {
	switch ip.FIL.PageType {
	case format.PageTypeFspHdr:
		h, err := ParseFspHeader(ip.Data)
		if err != nil {
			return nil, err
		}
		return &XdesPage{Inner: ip, Fsp: &h}, nil
	case format.PageTypeXdes:
		return &XdesPage{Inner: ip}, nil
	}
	return nil, fmt.Errorf("not an FSP_HDR/XDES page: type=%d", ip.FIL.PageType)
}

// Entry returns the i-th descriptor on this page.
func (xp *XdesPage) Entry(i int) (XdesEntry, error) {
	if i < 0 || i >= XdesEntriesPerPage(xp.Inner.Size) {
		return XdesEntry{}, fmt.Errorf("xdes entry %d out of range", i)
	}
	off := format.XdesArrayOff + i*format.XdesEntrySize
	start := xp.Inner.PageNo + uint32(i)*format.PagesPerExtent
	return ParseXdesEntry(xp.Inner.PageNo, xp.Inner.Data, off, start)
}

// EachEntry yields descriptors for extents starting below limit (or
// all of them when limit is zero). Iteration stops when fn returns
// false.
func (xp *XdesPage) EachEntry(limit uint32, fn func(XdesEntry) bool) error {
	n := XdesEntriesPerPage(xp.Inner.Size)
	for i := 0; i < n; i++ {
		e, err := xp.Entry(i)
		if err != nil {
			return err
		}
		if limit > 0 && e.StartPage >= limit {
			return nil
		}
		if !fn(e) {
			return nil
		}
	}
	return nil
}
