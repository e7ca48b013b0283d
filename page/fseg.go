// fseg.go - Inline file segment header parsing
package page

import (
	"fmt"

	"github.com/wilhasse/innospace/format"
)

// 20-byte file segment header (root pages use it; others are usually
// zero-filled). Each half names the INODE entry for one segment.
type FsegHeader struct {
	LeafInodeSpace    uint32
	LeafInodePage     uint32
	LeafInodeOff      uint16
	NonLeafInodeSpace uint32
	NonLeafInodePage  uint32
	NonLeafInodeOff   uint16
}

func ParseFsegHeader(p []byte, off int) (FsegHeader, error) {
	if off+format.FsegHeaderSize > len(p) {
		return FsegHeader{}, fmt.Errorf("short fseg header")
	}
	lsp, _ := format.Be32(p, off+0)
	lpg, _ := format.Be32(p, off+4)
	lof, _ := format.Be16(p, off+8)
	nsp, _ := format.Be32(p, off+10)
	npg, _ := format.Be32(p, off+14)
	nof, _ := format.Be16(p, off+18)
	return FsegHeader{
		LeafInodeSpace: lsp, LeafInodePage: lpg, LeafInodeOff: lof,
		NonLeafInodeSpace: nsp, NonLeafInodePage: npg, NonLeafInodeOff: nof,
	}, nil
}

// Leaf and NonLeaf return the inode entry addresses, nil when the
// header is zero-filled.
func (h FsegHeader) Leaf() Addr {
	if h.LeafInodePage == 0 && h.LeafInodeOff == 0 {
		return Addr{PageNo: format.PageNoNil}
	}
	return Addr{PageNo: h.LeafInodePage, Offset: h.LeafInodeOff}
}

func (h FsegHeader) NonLeaf() Addr {
	if h.NonLeafInodePage == 0 && h.NonLeafInodeOff == 0 {
		return Addr{PageNo: format.PageNoNil}
	}
	return Addr{PageNo: h.NonLeafInodePage, Offset: h.NonLeafInodeOff}
}
