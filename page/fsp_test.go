package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wilhasse/innospace/format"
)

func buildFspPage() []byte {
	b := blankPage()
	putFil(b, 0, format.PageTypeFspHdr, format.PageNoNil, format.PageNoNil, 900, 11)
	put32(b, 38, 11)  // space id
	put32(b, 46, 576) // size
	put32(b, 50, 128) // free limit
	put32(b, 54, 0x21)
	put32(b, 58, 3) // frag_n_used
	putBase(b, 62, 2, Addr{PageNo: 0, Offset: 198}, Addr{PageNo: 0, Offset: 238})
	putBase(b, 78, 1, Addr{PageNo: 0, Offset: 158}, Addr{PageNo: 0, Offset: 158})
	putBase(b, 94, 0, testNil, testNil)
	put64(b, 110, 5)
	putBase(b, 118, 0, testNil, testNil)
	putBase(b, 134, 1, Addr{PageNo: 2, Offset: 38}, Addr{PageNo: 2, Offset: 38})
	return b
}

func TestParseFspHeader(t *testing.T) {
	h, err := ParseFspHeader(buildFspPage())
	require.NoError(t, err)

	assert.Equal(t, uint32(11), h.SpaceID)
	assert.Equal(t, uint32(576), h.Size)
	assert.Equal(t, uint32(128), h.FreeLimit)
	assert.Equal(t, uint32(0x21), h.Flags)
	assert.Equal(t, uint32(3), h.FragNUsed)
	assert.Equal(t, uint64(5), h.NextSegID)
	assert.Equal(t, uint32(2), h.Free.Length)
	assert.Equal(t, uint16(198), h.Free.First.Offset)
	assert.Equal(t, uint32(1), h.FreeFrag.Length)
	assert.True(t, h.FullFrag.First.IsNil())
	assert.Equal(t, uint32(2), h.FreeInodes.First.PageNo)

	names := []string{}
	h.EachList(func(name string, base ListBaseNode) {
		names = append(names, name)
	})
	assert.Equal(t, []string{"free", "free_frag", "full_frag", "full_inodes", "free_inodes"}, names)

	_, ok := h.List("free_frag")
	assert.True(t, ok)
	_, ok = h.List("bogus")
	assert.False(t, ok)
}

func TestXdesEntry(t *testing.T) {
	b := buildFspPage()
	off := format.XdesArrayOff
	put64(b, off, 9) // fseg id
	putAddr(b, off+8, Addr{PageNo: 0, Offset: 198})
	putAddr(b, off+14, testNil)
	put32(b, off+20, uint32(format.XdesFseg))
	// pages 0..2 used, the rest free
	for pg := 3; pg < format.PagesPerExtent; pg++ {
		b[off+24+pg/4] |= 0x2 << uint(6-2*(pg%4))
	}

	p, err := NewPage(0, b)
	require.NoError(t, err)
	xp, err := ParseXdesPage(p)
	require.NoError(t, err)
	require.NotNil(t, xp.Fsp)

	e, err := xp.Entry(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), e.FsegID)
	assert.Equal(t, format.XdesFseg, e.State)
	assert.True(t, e.AllocatedToFseg())
	assert.Equal(t, uint32(0), e.StartPage)
	assert.True(t, e.Contains(63))
	assert.False(t, e.Contains(64))
	assert.Equal(t, uint16(198), e.Node.Prev.Offset)
	assert.True(t, e.Node.Next.IsNil())

	for i := 0; i < 3; i++ {
		st, err := e.PageStateAt(i)
		require.NoError(t, err)
		assert.False(t, st.Free, "page %d", i)
	}
	st, err := e.PageStateAt(3)
	require.NoError(t, err)
	assert.True(t, st.Free)
	assert.Equal(t, 61, e.FreePages())

	_, err = e.PageStateAt(64)
	require.Error(t, err)
}

func TestXdesGeometry(t *testing.T) {
	assert.Equal(t, 256, XdesEntriesPerPage(16384))
	assert.Equal(t, uint32(16384), PagesPerXdesPage(16384))
	assert.Equal(t, uint32(0), XdesPageForPage(16384, 5000))
	assert.Equal(t, uint32(16384), XdesPageForPage(16384, 16385))
	assert.Equal(t, 64, XdesEntriesPerPage(4096))
}

func TestXdesPageRejectsWrongType(t *testing.T) {
	b := blankPage()
	putFil(b, 3, format.PageTypeIndex, format.PageNoNil, format.PageNoNil, 1, 0)
	p, err := NewPage(3, b)
	require.NoError(t, err)
	_, err = ParseXdesPage(p)
	require.Error(t, err)
}
