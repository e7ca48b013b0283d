// index.go - INDEX page parsing with records and directory
package page

import (
	"bytes"
	"fmt"

	"github.com/wilhasse/innospace/format"
	"github.com/wilhasse/innospace/record"
)

type IndexPage struct {
	Inner    *Page
	Hdr      record.IndexHeader
	Fseg     FsegHeader
	Infimum  record.GenericRecord
	Supremum record.GenericRecord
	DirSlots []uint16 // dirSlots[0] is the first slot (reversed from end of page)
}

func ParseIndexPage(ip *Page) (*IndexPage, error) {
	if ip.FIL.PageType != format.PageTypeIndex {
		return nil, fmt.Errorf("not an INDEX page: type=%d", ip.FIL.PageType)
	}
	hdr, err := record.ParseIndexHeader(ip.Data, format.FilHeaderSize)
	if err != nil {
		return nil, err
	}
	if hdr.Format != format.FormatCompact {
		return nil, fmt.Errorf("only compact pages supported (format=%d)", hdr.Format)
	}
	fseg, err := ParseFsegHeader(ip.Data, format.FilHeaderSize+format.IndexHeaderSize)
	if err != nil {
		return nil, err
	}

	cur := format.FilHeaderSize + format.PageHeaderSize

	// INFIMUM
	infHdr, err := record.ParseRecordHeader(ip.Data, cur)
	if err != nil {
		return nil, err
	}
	cur += format.RecordHeaderSize
	if !bytes.Equal(ip.Data[cur:cur+format.SystemRecordSize], format.LitInfimum) {
		return nil, fmt.Errorf("INFIMUM literal mismatch at %d", cur)
	}
	inf := record.GenericRecord{PageNumber: ip.PageNo, Header: infHdr, Pos: cur}
	cur += format.SystemRecordSize

	// SUPREMUM
	supHdr, err := record.ParseRecordHeader(ip.Data, cur)
	if err != nil {
		return nil, err
	}
	cur += format.RecordHeaderSize
	if !bytes.Equal(ip.Data[cur:cur+format.SystemRecordSize], format.LitSupremum) {
		return nil, fmt.Errorf("SUPREMUM literal mismatch at %d", cur)
	}
	sup := record.GenericRecord{PageNumber: ip.PageNo, Header: supHdr, Pos: cur}
	cur += format.SystemRecordSize

	// Directory slots read from the end of page and reversed
	n := int(hdr.NumDirSlots)
	start := ip.Size - format.FilTrailerSize - n*format.PageDirSlotSize
	if start < cur {
		return nil, fmt.Errorf("page directory overlaps heap: %d slots", n)
	}
	dir := make([]uint16, n)
	for i := 0; i < n; i++ {
		val, _ := format.Be16(ip.Data, start+i*2)
		dir[n-i-1] = val
	}

	return &IndexPage{
		Inner: ip, Hdr: hdr, Fseg: fseg,
		Infimum: inf, Supremum: sup, DirSlots: dir,
	}, nil
}

func (p *IndexPage) IsLeaf() bool { return p.Hdr.PageLevel == 0 }

func (p *IndexPage) Level() uint16 { return p.Hdr.PageLevel }

func (p *IndexPage) IndexID() uint64 { return p.Hdr.IndexID }

// IsRoot: the root is the only INDEX page with neither sibling.
func (p *IndexPage) IsRoot() bool { return p.Inner.FIL.Prev == nil && p.Inner.FIL.Next == nil }

// UsedBytes is the occupied byte count: heap top plus trailer and
// directory, minus reclaimable garbage.
func (p *IndexPage) UsedBytes() int {
	return int(p.Hdr.HeapTop) + format.FilTrailerSize +
		int(p.Hdr.NumDirSlots)*format.PageDirSlotSize - int(p.Hdr.GarbageSpace)
}

// WalkRecords follows the record chain from infimum. If skipSystem is
// true, INFIMUM and SUPREMUM are not returned. Deleted records stay in
// the chain and are returned.
func (p *IndexPage) WalkRecords(max int, skipSystem bool) ([]record.GenericRecord, error) {
	return record.WalkRecords(p.Inner.PageNo, p.Inner.Data, p.Inner.Size, p.Infimum, max, skipSystem)
}

// RecordChainLength counts chain entries from infimum to supremum,
// inclusive of both sentinels.
func (p *IndexPage) RecordChainLength() (int, error) {
	recs, err := record.WalkRecords(p.Inner.PageNo, p.Inner.Data, p.Inner.Size, p.Infimum, p.Inner.Size, false)
	if err != nil {
		return 0, err
	}
	return len(recs), nil
}
