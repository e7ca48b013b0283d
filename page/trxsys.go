// trxsys.go - TRX_SYS and data-dictionary header pages (system space)
package page

import (
	"fmt"

	"github.com/wilhasse/innospace/format"
)

// RsegSlot locates one rollback segment header page.
type RsegSlot struct {
	SpaceID uint32
	PageNo  uint32
}

func (s RsegSlot) IsNil() bool { return s.PageNo == format.PageNoNil }

// Doublewrite is the doublewrite-buffer bookkeeping near the end of
// the TRX_SYS page.
type Doublewrite struct {
	Fseg   FsegSlot
	Magic  uint32
	Block1 uint32
	Block2 uint32
}

// FsegSlot is a 10-byte (space, page, offset) inode pointer.
type FsegSlot struct {
	SpaceID uint32
	PageNo  uint32
	Offset  uint16
}

func parseFsegSlot(c *format.Cursor) (FsegSlot, error) {
	var s FsegSlot
	var err error
	if s.SpaceID, err = c.Uint32(); err != nil {
		return s, err
	}
	if s.PageNo, err = c.Uint32(); err != nil {
		return s, err
	}
	if s.Offset, err = c.Uint16(); err != nil {
		return s, err
	}
	return s, nil
}

// TrxSysPage is page 5 of the system space.
type TrxSysPage struct {
	Inner       *Page
	TrxID       uint64
	Fseg        FsegSlot
	Rsegs       []RsegSlot // 128 slots
	Doublewrite Doublewrite
}

func ParseTrxSysPage(ip *Page) (*TrxSysPage, error) {
	if ip.FIL.PageType != format.PageTypeTrxSys {
		return nil, fmt.Errorf("not a TRX_SYS page: type=%d", ip.FIL.PageType)
	}
	c := format.NewCursor(ip.Data, format.TrxSysOff).PushName("trx_sys")
	p := &TrxSysPage{Inner: ip}
	var err error
	if p.TrxID, err = c.Uint64(); err != nil {
		return nil, err
	}
	if p.Fseg, err = parseFsegSlot(c); err != nil {
		return nil, err
	}
	p.Rsegs = make([]RsegSlot, format.TrxSysRsegSlots)
	for i := range p.Rsegs {
		if p.Rsegs[i].SpaceID, err = c.Uint32(); err != nil {
			return nil, err
		}
		if p.Rsegs[i].PageNo, err = c.Uint32(); err != nil {
			return nil, err
		}
	}

	dw := format.NewCursor(ip.Data, ip.Size-format.DoublewriteRelOff).PushName("doublewrite")
	if p.Doublewrite.Fseg, err = parseFsegSlot(dw); err != nil {
		return nil, err
	}
	if p.Doublewrite.Magic, err = dw.Uint32(); err != nil {
		return nil, err
	}
	if p.Doublewrite.Block1, err = dw.Uint32(); err != nil {
		return nil, err
	}
	if p.Doublewrite.Block2, err = dw.Uint32(); err != nil {
		return nil, err
	}
	return p, nil
}

// ActiveRsegs returns the occupied rollback segment slots.
func (p *TrxSysPage) ActiveRsegs() []RsegSlot {
	var out []RsegSlot
	for _, s := range p.Rsegs {
		if !s.IsNil() {
			out = append(out, s)
		}
	}
	return out
}

// DictHeaderPage is page 7 of the system space: id high-water marks
// and the root pages of the bootstrap indexes (the clustered indexes of
// SYS_TABLES, SYS_COLUMNS, SYS_INDEXES and SYS_FIELDS, plus the
// SYS_TABLES id index).
type DictHeaderPage struct {
	Inner      *Page
	MaxRowID   uint64
	MaxTableID uint64
	MaxIndexID uint64
	MaxSpaceID uint32
	Tables     uint32 // SYS_TABLES clustered root
	TableIDs   uint32 // SYS_TABLES secondary (ID) root
	Columns    uint32 // SYS_COLUMNS root
	Indexes    uint32 // SYS_INDEXES root
	Fields     uint32 // SYS_FIELDS root
}

func ParseDictHeaderPage(ip *Page) (*DictHeaderPage, error) {
	if ip.FIL.PageType != format.PageTypeSys {
		return nil, fmt.Errorf("not a SYS page: type=%d", ip.FIL.PageType)
	}
	c := format.NewCursor(ip.Data, format.DictHeaderOff).PushName("dict_hdr")
	p := &DictHeaderPage{Inner: ip}
	var err error
	if p.MaxRowID, err = c.Uint64(); err != nil {
		return nil, err
	}
	if p.MaxTableID, err = c.Uint64(); err != nil {
		return nil, err
	}
	if p.MaxIndexID, err = c.Uint64(); err != nil {
		return nil, err
	}
	if p.MaxSpaceID, err = c.Uint32(); err != nil {
		return nil, err
	}
	// 4 unused bytes (mix id low)
	c.Adjust(4)
	if p.Tables, err = c.Uint32(); err != nil {
		return nil, err
	}
	if p.TableIDs, err = c.Uint32(); err != nil {
		return nil, err
	}
	if p.Columns, err = c.Uint32(); err != nil {
		return nil, err
	}
	if p.Indexes, err = c.Uint32(); err != nil {
		return nil, err
	}
	if p.Fields, err = c.Uint32(); err != nil {
		return nil, err
	}
	return p, nil
}

// EachIndexRoot yields the bootstrap index roots by name.
func (p *DictHeaderPage) EachIndexRoot(fn func(name string, root uint32)) {
	fn("SYS_TABLES", p.Tables)
	fn("SYS_TABLE_IDS", p.TableIDs)
	fn("SYS_COLUMNS", p.Columns)
	fn("SYS_INDEXES", p.Indexes)
	fn("SYS_FIELDS", p.Fields)
}
