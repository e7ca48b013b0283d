package innospace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wilhasse/innospace/format"
	"github.com/wilhasse/innospace/page"
	"github.com/wilhasse/innospace/record"
	"github.com/wilhasse/innospace/schema"
)

// testTableDef is the two-column schema the tree fixtures use:
// id INT PRIMARY KEY, a INT NULL.
func testTableDef(t *testing.T) *schema.TableDef {
	t.Helper()
	td := schema.NewTableDef("t")
	require.NoError(t, td.AddColumn(&schema.Column{Name: "id", Type: schema.TypeInt}))
	require.NoError(t, td.AddColumn(&schema.Column{Name: "a", Type: schema.TypeInt, Nullable: true}))
	require.NoError(t, td.SetPrimaryKeys([]string{"id"}))
	return td
}

// leafRec encodes a clustered leaf record: NULL bitmap, key, trx+roll,
// row.
func leafRec(id, a int32) indexRecord {
	return indexRecord{
		prefix:  []byte{0x00},
		data:    cat(i32(id), make([]byte, 13), i32(a)),
		recType: format.RecConventional,
	}
}

// nodeRec encodes a node pointer: key then child page number.
func nodeRec(id int32, child uint32) indexRecord {
	return indexRecord{
		data:    cat(i32(id), u32be(child)),
		recType: format.RecNodePointer,
	}
}

// buildTwoLevelTree synthesizes a root with two leaves holding ids
// 1..4. leaf2ID overrides the second leaf's index id to provoke
// corruption handling.
func buildTwoLevelTree(t *testing.T, leaf2ID uint64) string {
	t.Helper()

	p0 := newPageBuf()
	p0.fil(0, format.PageTypeFspHdr, nilPage, nilPage, 4100, fixSpaceID)
	p0.u32(38, fixSpaceID)
	p0.u32(46, 6)
	p0.baseNode(62, 0, nilAddr, nilAddr)
	p0.baseNode(78, 0, nilAddr, nilAddr)
	p0.baseNode(94, 0, nilAddr, nilAddr)
	p0.baseNode(118, 0, nilAddr, nilAddr)
	p0.baseNode(134, 0, nilAddr, nilAddr)
	p0.xdesEntry(0, 0, format.XdesFreeFrag, nilAddr, nilAddr, 6)
	p0.seal()

	p1 := newPageBuf()
	p1.fil(1, format.PageTypeIbufBitmap, nilPage, nilPage, 4101, fixSpaceID)
	p1.seal()

	p2 := newPageBuf()
	p2.fil(2, format.PageTypeInode, nilPage, nilPage, 4102, fixSpaceID)
	p2.listNode(38, nilAddr, nilAddr)
	p2.inodeEntry(0, 1, []uint32{3, 4, 5})
	p2.seal()

	root := buildIndexPage(3, nilPage, nilPage, 1, fixIndexID, fixSpaceID, nil,
		[]indexRecord{nodeRec(1, 4), nodeRec(3, 5)})
	leaf1 := buildIndexPage(4, nilPage, 5, 0, fixIndexID, fixSpaceID, nil,
		[]indexRecord{leafRec(1, 10), leafRec(2, 20)})
	leaf2 := buildIndexPage(5, 4, nilPage, 0, leaf2ID, fixSpaceID, nil,
		[]indexRecord{leafRec(3, 30), leafRec(4, 40)})

	return writeSpaceFile(t, []*pageBuf{p0, p1, p2, root, leaf1, leaf2})
}

func TestIndexRecurse(t *testing.T) {
	path := buildTwoLevelTree(t, fixIndexID)
	s, err := OpenSpace(path)
	require.NoError(t, err)
	defer s.Close()

	ix, err := s.Index(3, testTableDef(t))
	require.NoError(t, err)
	assert.Equal(t, uint16(2), ix.Height())

	type visit struct {
		pageNo uint32
		depth  int
	}
	type link struct {
		parent uint32
		child  uint32
		minKey interface{}
		depth  int
	}
	var pages []visit
	var links []link
	err = ix.Recurse(
		func(ip *page.IndexPage, depth int) {
			pages = append(pages, visit{ip.Inner.PageNo, depth})
		},
		func(parent *page.IndexPage, child uint32, key []record.FieldValue, depth int) {
			links = append(links, link{parent.Inner.PageNo, child, key[0].Value, depth})
		},
	)
	require.NoError(t, err)

	assert.Equal(t, []visit{{3, 0}, {4, 1}, {5, 1}}, pages)
	assert.Equal(t, []link{
		{3, 4, int32(1), 0},
		{3, 5, int32(3), 0},
	}, links)
}

func TestIndexEachPageAtLevel(t *testing.T) {
	path := buildTwoLevelTree(t, fixIndexID)
	s, err := OpenSpace(path)
	require.NoError(t, err)
	defer s.Close()

	ix, err := s.Index(3, testTableDef(t))
	require.NoError(t, err)

	t.Run("level 1 is the root", func(t *testing.T) {
		var got []uint32
		require.NoError(t, ix.EachPageAtLevel(1, func(ip *page.IndexPage) bool {
			got = append(got, ip.Inner.PageNo)
			return true
		}))
		assert.Equal(t, []uint32{3}, got)
	})

	t.Run("level 0 equals the leaf chain", func(t *testing.T) {
		var got []uint32
		var firstKeys []interface{}
		require.NoError(t, ix.EachPageAtLevel(0, func(ip *page.IndexPage) bool {
			got = append(got, ip.Inner.PageNo)
			recs, err := ip.WalkRecords(ip.Inner.Size, true)
			require.NoError(t, err)
			r, err := record.NewCompactDecoder(testTableDef(t)).Decode(ip.Inner.Data, recs[0], 0)
			require.NoError(t, err)
			firstKeys = append(firstKeys, r.Key[0].Value)
			return true
		}))
		assert.Equal(t, []uint32{4, 5}, got)
		assert.Equal(t, []interface{}{int32(1), int32(3)}, firstKeys)
	})

	t.Run("level above the root", func(t *testing.T) {
		err := ix.EachPageAtLevel(7, func(*page.IndexPage) bool { return true })
		require.Error(t, err)
	})
}

func TestIndexEachRecord(t *testing.T) {
	path := buildTwoLevelTree(t, fixIndexID)
	s, err := OpenSpace(path)
	require.NoError(t, err)
	defer s.Close()

	ix, err := s.Index(3, testTableDef(t))
	require.NoError(t, err)

	var ids, rows []int32
	require.NoError(t, ix.EachRecord(func(r *record.Record) bool {
		ids = append(ids, r.Key[0].Value.(int32))
		rows = append(rows, r.Row[0].Value.(int32))
		return true
	}))
	assert.Equal(t, []int32{1, 2, 3, 4}, ids)
	assert.Equal(t, []int32{10, 20, 30, 40}, rows)
}

func TestIndexWithoutDescriber(t *testing.T) {
	path := buildTwoLevelTree(t, fixIndexID)
	s, err := OpenSpace(path)
	require.NoError(t, err)
	defer s.Close()

	ix, err := s.Index(3, nil)
	require.NoError(t, err)
	err = ix.Recurse(func(*page.IndexPage, int) {}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "describer")
}

func TestIndexIDMismatchIsCorruption(t *testing.T) {
	path := buildTwoLevelTree(t, 999)
	s, err := OpenSpace(path)
	require.NoError(t, err)
	defer s.Close()

	ix, err := s.Index(3, testTableDef(t))
	require.NoError(t, err)

	var visited []uint32
	err = ix.EachPageAtLevel(0, func(ip *page.IndexPage) bool {
		visited = append(visited, ip.Inner.PageNo)
		return true
	})
	require.Error(t, err)
	var corrupt *CorruptError
	require.ErrorAs(t, err, &corrupt)
	assert.Equal(t, uint32(5), corrupt.PageNo)
	assert.Equal(t, []uint32{4}, visited)
}

func TestSingleRowIndex(t *testing.T) {
	p0 := newPageBuf()
	p0.fil(0, format.PageTypeFspHdr, nilPage, nilPage, 4100, fixSpaceID)
	p0.u32(38, fixSpaceID)
	p0.u32(46, 4)
	p0.xdesEntry(0, 0, format.XdesFreeFrag, nilAddr, nilAddr, 4)
	p0.seal()
	p1 := newPageBuf()
	p1.fil(1, format.PageTypeIbufBitmap, nilPage, nilPage, 4101, fixSpaceID)
	p1.seal()
	p2 := newPageBuf()
	p2.fil(2, format.PageTypeInode, nilPage, nilPage, 4102, fixSpaceID)
	p2.listNode(38, nilAddr, nilAddr)
	p2.seal()
	root := buildIndexPage(3, nilPage, nilPage, 0, fixIndexID, fixSpaceID, nil,
		[]indexRecord{leafRec(1, 1)})
	path := writeSpaceFile(t, []*pageBuf{p0, p1, p2, root})

	s, err := OpenSpace(path)
	require.NoError(t, err)
	defer s.Close()

	ix, err := s.Index(3, testTableDef(t))
	require.NoError(t, err)
	assert.True(t, ix.Root().IsLeaf())

	var leaves int
	var recs []*record.Record
	require.NoError(t, ix.Recurse(
		func(ip *page.IndexPage, depth int) {
			if ip.IsLeaf() {
				leaves++
			}
		}, nil))
	require.NoError(t, ix.EachRecord(func(r *record.Record) bool {
		recs = append(recs, r)
		return true
	}))

	assert.Equal(t, 1, leaves)
	require.Len(t, recs, 1)
	assert.Equal(t, int32(1), recs[0].Key[0].Value)
	assert.Equal(t, "id", recs[0].Key[0].Column.Name)
	assert.Equal(t, int32(1), recs[0].Row[0].Value)
	assert.Equal(t, "a", recs[0].Row[0].Column.Name)
}
