// inode.go - INODE page and file segment (FSEG) descriptor parsing
package page

import (
	"fmt"

	"github.com/wilhasse/innospace/format"
)

// InodeEntry is one 192-byte file segment descriptor.
type InodeEntry struct {
	PageNo       uint32 // page holding this entry
	Offset       uint16 // byte offset within the page
	FsegID       uint64 // 0 when the slot is unused
	NotFullNUsed uint32 // pages used on extents of the NOT_FULL list
	Free         ListBaseNode
	NotFull      ListBaseNode
	Full         ListBaseNode
	MagicN       uint32
	FragArray    []uint32 // 32 fragment page slots, PageNoNil when empty
}

func ParseInodeEntry(pageNo uint32, p []byte, off int) (InodeEntry, error) {
	if off+format.InodeEntrySize > len(p) {
		return InodeEntry{}, fmt.Errorf("short INODE entry at %d", off)
	}
	c := format.NewCursor(p, off).PushName("inode")
	var e InodeEntry
	e.PageNo = pageNo
	e.Offset = uint16(off)
	var err error
	if e.FsegID, err = c.Uint64(); err != nil {
		return e, err
	}
	if e.NotFullNUsed, err = c.Uint32(); err != nil {
		return e, err
	}
	if e.Free, err = ParseListBaseNode(c); err != nil {
		return e, err
	}
	if e.NotFull, err = ParseListBaseNode(c); err != nil {
		return e, err
	}
	if e.Full, err = ParseListBaseNode(c); err != nil {
		return e, err
	}
	if e.MagicN, err = c.Uint32(); err != nil {
		return e, err
	}
	e.FragArray = make([]uint32, format.FragArraySlots)
	for i := range e.FragArray {
		if e.FragArray[i], err = c.Uint32(); err != nil {
			return e, err
		}
	}
	return e, nil
}

// InUse reports whether the slot describes a live segment.
func (e InodeEntry) InUse() bool {
	return e.FsegID != 0 && e.MagicN == format.FsegMagic
}

// FragPages returns the occupied fragment page numbers in slot order.
func (e InodeEntry) FragPages() []uint32 {
	var out []uint32
	for _, pg := range e.FragArray {
		if pg != format.PageNoNil {
			out = append(out, pg)
		}
	}
	return out
}

// FragArrayNUsed counts occupied fragment slots.
func (e InodeEntry) FragArrayNUsed() int { return len(e.FragPages()) }

// TotalPages is every page allocated to the segment: fragment pages
// plus one extent per list entry.
func (e InodeEntry) TotalPages() uint64 {
	extents := uint64(e.Free.Length) + uint64(e.NotFull.Length) + uint64(e.Full.Length)
	return uint64(e.FragArrayNUsed()) + extents*format.PagesPerExtent
}

// UsedPages is the subset of TotalPages actually carrying data.
func (e InodeEntry) UsedPages() uint64 {
	return uint64(e.FragArrayNUsed()) + uint64(e.NotFullNUsed) +
		uint64(e.Full.Length)*format.PagesPerExtent
}

// FillFactor = used / allocated, 0 when the segment is empty.
func (e InodeEntry) FillFactor() float64 {
	total := e.TotalPages()
	if total == 0 {
		return 0
	}
	return float64(e.UsedPages()) / float64(total)
}

// EachList yields the segment's extent lists by name.
func (e InodeEntry) EachList(fn func(name string, base ListBaseNode)) {
	fn("free", e.Free)
	fn("not_full", e.NotFull)
	fn("full", e.Full)
}

// List returns the named segment list base node.
func (e InodeEntry) List(name string) (ListBaseNode, bool) {
	switch name {
	case "free":
		return e.Free, true
	case "not_full":
		return e.NotFull, true
	case "full":
		return e.Full, true
	}
	return ListBaseNode{}, false
}

// InodeEntriesPerPage for a given page size (85 at 16 KiB).
func InodeEntriesPerPage(pageSize int) int {
	return (pageSize - format.InodeArrayOff - format.FilTrailerSize) / format.InodeEntrySize
}

// InodePage carries a list node linking it into the space's inode
// page lists, then an array of segment descriptors.
type InodePage struct {
	Inner *Page
	Node  ListNode
}

func ParseInodePage(ip *Page) (*InodePage, error) {
	if ip.FIL.PageType != format.PageTypeInode {
		return nil, fmt.Errorf("not an INODE page: type=%d", ip.FIL.PageType)
	}
	c := format.NewCursor(ip.Data, format.FilHeaderSize).PushName("inode_page")
	node, err := ParseListNode(c)
	if err != nil {
		return nil, err
	}
	return &InodePage{Inner: ip, Node: node}, nil
}

// Entry returns the i-th descriptor slot.
func (p *InodePage) Entry(i int) (InodeEntry, error) {
	if i < 0 || i >= InodeEntriesPerPage(p.Inner.Size) {
		return InodeEntry{}, fmt.Errorf("inode entry %d out of range", i)
	}
	off := format.InodeArrayOff + i*format.InodeEntrySize
	return ParseInodeEntry(p.Inner.PageNo, p.Inner.Data, off)
}

// EachEntry yields descriptors for slots in use. Iteration stops when
// fn returns false.
func (p *InodePage) EachEntry(fn func(InodeEntry) bool) error {
	n := InodeEntriesPerPage(p.Inner.Size)
	for i := 0; i < n; i++ {
		e, err := p.Entry(i)
		if err != nil {
			return err
		}
		if !e.InUse() {
			continue
		}
		if !fn(e) {
			return nil
		}
	}
	return nil
}

// EntryAt returns the descriptor at a byte offset, for list node
// decoding and fseg header resolution.
func (p *InodePage) EntryAt(off uint16) (InodeEntry, error) {
	rel := int(off) - format.InodeArrayOff
	if rel < 0 || rel%format.InodeEntrySize != 0 {
		return InodeEntry{}, fmt.Errorf("offset %d is not an inode entry", off)
	}
	return p.Entry(rel / format.InodeEntrySize)
}
