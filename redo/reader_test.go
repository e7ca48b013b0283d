package redo

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// logBlock builds one 512-byte block with the given header fields and
// record bytes placed at firstRecGroup.
func logBlock(blockNo uint32, flush bool, dataLen, firstRecGroup uint16, rec []byte) []byte {
	b := make([]byte, BlockSize)
	raw := blockNo
	if flush {
		raw |= flushFlagMask
	}
	binary.BigEndian.PutUint32(b[0:], raw)
	binary.BigEndian.PutUint16(b[4:], dataLen)
	binary.BigEndian.PutUint16(b[6:], firstRecGroup)
	binary.BigEndian.PutUint32(b[8:], 7) // checkpoint no
	if rec != nil {
		copy(b[firstRecGroup:], rec)
	}
	binary.BigEndian.PutUint32(b[TrailerOffset:], 0xCAFE)
	return b
}

// logFile prepends the 4-block file header.
func logFile(blocks ...[]byte) []byte {
	out := make([]byte, FileHeaderBlocks*BlockSize)
	for _, b := range blocks {
		out = append(out, b...)
	}
	return out
}

func TestParseBlockHeader(t *testing.T) {
	b, err := ParseBlock(logBlock(9, true, 200, 0, nil))
	require.NoError(t, err)
	assert.Equal(t, uint32(9), b.Header.BlockNumber)
	assert.True(t, b.Header.Flush)
	assert.Equal(t, uint16(200), b.Header.DataLength)
	assert.Equal(t, uint32(7), b.Header.CheckpointNo)
	assert.Equal(t, uint32(0xCAFE), b.Trailer.Checksum)

	_, err = ParseBlock(make([]byte, 100))
	require.Error(t, err)
}

func TestBlockRecord(t *testing.T) {
	t.Run("header-only block yields no record", func(t *testing.T) {
		b, err := ParseBlock(logBlock(1, false, BlockHeaderSize, 12, nil))
		require.NoError(t, err)
		rec, err := b.Record()
		require.NoError(t, err)
		assert.Nil(t, rec)
	})

	t.Run("zero first_rec_group yields no record", func(t *testing.T) {
		b, err := ParseBlock(logBlock(1, false, 300, 0, nil))
		require.NoError(t, err)
		rec, err := b.Record()
		require.NoError(t, err)
		assert.Nil(t, rec)
	})

	t.Run("insert record", func(t *testing.T) {
		// type MLOG_REC_INSERT with the single-record flag, then
		// compressed space 5 and page 300
		recBytes := []byte{byte(MlogRecInsert) | MlogSingleRecFlag, 0x05, 0x81, 0x2C}
		b, err := ParseBlock(logBlock(2, false, 100, 12, recBytes))
		require.NoError(t, err)
		rec, err := b.Record()
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, MlogRecInsert, rec.Type)
		assert.True(t, rec.SingleRec)
		assert.Equal(t, uint32(5), rec.SpaceID)
		assert.Equal(t, uint32(300), rec.PageNumber)
	})

	t.Run("multi-rec end has no operands", func(t *testing.T) {
		b, err := ParseBlock(logBlock(3, false, 20, 12, []byte{byte(MlogMultiRecEnd)}))
		require.NoError(t, err)
		rec, err := b.Record()
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, MlogMultiRecEnd, rec.Type)
		assert.Equal(t, uint32(0), rec.SpaceID)
	})

	t.Run("bad first_rec_group", func(t *testing.T) {
		b, err := ParseBlock(logBlock(4, false, 100, 600, nil))
		require.NoError(t, err)
		_, err = b.Record()
		require.Error(t, err)
	})
}

func TestReaderEachBlock(t *testing.T) {
	data := logFile(
		logBlock(1, false, BlockHeaderSize, 0, nil),
		logBlock(2, false, 100, 12, []byte{byte(MlogWrite4Bytes), 0x02, 0x10}),
	)
	r := NewReader(bytes.NewReader(data), int64(len(data)))
	require.Equal(t, uint32(2), r.Blocks())

	var nums []uint32
	var recs []*Record
	require.NoError(t, r.EachBlock(func(b *Block) bool {
		nums = append(nums, b.Header.BlockNumber)
		rec, err := b.Record()
		require.NoError(t, err)
		recs = append(recs, rec)
		return true
	}))
	assert.Equal(t, []uint32{1, 2}, nums)
	require.Len(t, recs, 2)
	assert.Nil(t, recs[0])
	require.NotNil(t, recs[1])
	assert.Equal(t, MlogWrite4Bytes, recs[1].Type)
	assert.Equal(t, uint32(2), recs[1].SpaceID)
	assert.Equal(t, uint32(16), recs[1].PageNumber)

	t.Run("block out of range", func(t *testing.T) {
		_, err := r.Block(0)
		require.Error(t, err)
		_, err = r.Block(3)
		require.Error(t, err)
	})
}
