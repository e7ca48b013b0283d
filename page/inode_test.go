package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wilhasse/innospace/format"
)

func buildInodePage() []byte {
	b := blankPage()
	putFil(b, 2, format.PageTypeInode, format.PageNoNil, format.PageNoNil, 700, 11)
	putAddr(b, 38, testNil)
	putAddr(b, 44, Addr{PageNo: 4, Offset: 38})

	// slot 0: live segment with two fragment pages and one full extent
	off := format.InodeArrayOff
	put64(b, off, 6)
	put32(b, off+8, 12) // not_full_n_used
	putBase(b, off+12, 0, testNil, testNil)
	putBase(b, off+28, 1, Addr{PageNo: 0, Offset: 198}, Addr{PageNo: 0, Offset: 198})
	putBase(b, off+44, 1, Addr{PageNo: 0, Offset: 238}, Addr{PageNo: 0, Offset: 238})
	put32(b, off+60, format.FsegMagic)
	for s := 0; s < format.FragArraySlots; s++ {
		put32(b, off+64+s*4, format.PageNoNil)
	}
	put32(b, off+64, 3)
	put32(b, off+68, 4)

	// remaining slots unused
	for i := 1; i < InodeEntriesPerPage(len(b)); i++ {
		o := format.InodeArrayOff + i*format.InodeEntrySize
		for s := 0; s < format.FragArraySlots; s++ {
			put32(b, o+64+s*4, format.PageNoNil)
		}
	}
	return b
}

func TestParseInodePage(t *testing.T) {
	p, err := NewPage(2, buildInodePage())
	require.NoError(t, err)
	ip, err := ParseInodePage(p)
	require.NoError(t, err)

	assert.True(t, ip.Node.Prev.IsNil())
	assert.Equal(t, uint32(4), ip.Node.Next.PageNo)

	e, err := ip.Entry(0)
	require.NoError(t, err)
	assert.True(t, e.InUse())
	assert.Equal(t, uint64(6), e.FsegID)
	assert.Equal(t, uint32(12), e.NotFullNUsed)
	assert.Equal(t, []uint32{3, 4}, e.FragPages())
	assert.Equal(t, 2, e.FragArrayNUsed())

	// 2 frag pages + (0 free + 1 not_full + 1 full) * 64
	assert.Equal(t, uint64(130), e.TotalPages())
	// 2 frag + 12 on not_full + 64 on full
	assert.Equal(t, uint64(78), e.UsedPages())
	assert.InDelta(t, 0.6, e.FillFactor(), 0.001)

	names := []string{}
	e.EachList(func(name string, base ListBaseNode) {
		names = append(names, name)
	})
	assert.Equal(t, []string{"free", "not_full", "full"}, names)

	nf, ok := e.List("not_full")
	require.True(t, ok)
	assert.Equal(t, uint32(1), nf.Length)
	_, ok = e.List("frag")
	assert.False(t, ok)
}

func TestInodePageEachEntrySkipsUnused(t *testing.T) {
	p, err := NewPage(2, buildInodePage())
	require.NoError(t, err)
	ip, err := ParseInodePage(p)
	require.NoError(t, err)

	var ids []uint64
	require.NoError(t, ip.EachEntry(func(e InodeEntry) bool {
		ids = append(ids, e.FsegID)
		return true
	}))
	assert.Equal(t, []uint64{6}, ids)
}

func TestInodeEntryAt(t *testing.T) {
	p, err := NewPage(2, buildInodePage())
	require.NoError(t, err)
	ip, err := ParseInodePage(p)
	require.NoError(t, err)

	e, err := ip.EntryAt(uint16(format.InodeArrayOff))
	require.NoError(t, err)
	assert.Equal(t, uint64(6), e.FsegID)

	_, err = ip.EntryAt(51)
	require.Error(t, err)
}

func TestInodeGeometry(t *testing.T) {
	assert.Equal(t, 85, InodeEntriesPerPage(16384))
}
