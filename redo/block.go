// block.go - Redo log block parsing
package redo

import (
	"fmt"

	"github.com/wilhasse/innospace/format"
)

const (
	BlockSize        = 512
	BlockHeaderSize  = 12
	BlockTrailerSize = 4
	TrailerOffset    = BlockSize - BlockTrailerSize

	// The file opens with a fixed 4-block header; data blocks and
	// their numbering start after it.
	FileHeaderBlocks = 4

	flushFlagMask = 0x80000000
)

// BlockHeader is the 12-byte header of one 512-byte log block.
type BlockHeader struct {
	BlockNumber   uint32
	Flush         bool // high bit of the stored block number
	DataLength    uint16
	FirstRecGroup uint16
	CheckpointNo  uint32
}

// BlockTrailer carries the block checksum.
type BlockTrailer struct {
	Checksum uint32
}

// Record is the lightweight view of the first log record group in a
// block: just enough to say which page it touches.
type Record struct {
	Type       RecordType
	SingleRec  bool
	SpaceID    uint32
	PageNumber uint32
}

// Block is one parsed 512-byte log block.
type Block struct {
	Header  BlockHeader
	Trailer BlockTrailer
	Data    []byte // full block bytes
}

func ParseBlock(data []byte) (*Block, error) {
	if len(data) != BlockSize {
		return nil, fmt.Errorf("log block must be %d bytes, got %d", BlockSize, len(data))
	}
	c := format.NewCursor(data, 0).PushName("log_block")
	raw, err := c.Uint32()
	if err != nil {
		return nil, err
	}
	hdr := BlockHeader{
		BlockNumber: raw &^ flushFlagMask,
		Flush:       raw&flushFlagMask != 0,
	}
	if hdr.DataLength, err = c.Uint16(); err != nil {
		return nil, err
	}
	if hdr.FirstRecGroup, err = c.Uint16(); err != nil {
		return nil, err
	}
	if hdr.CheckpointNo, err = c.Uint32(); err != nil {
		return nil, err
	}
	chk, err := format.Be32(data, TrailerOffset)
	if err != nil {
		return nil, err
	}
	return &Block{Header: hdr, Trailer: BlockTrailer{Checksum: chk}, Data: data}, nil
}

// Record decodes the (type, space, page) triple of the first log
// record group. It returns nil when the block holds no record start:
// first_rec_group of 0, or a block carrying only its header.
func (b *Block) Record() (*Record, error) {
	off := int(b.Header.FirstRecGroup)
	if off == 0 || b.Header.DataLength == BlockHeaderSize {
		return nil, nil
	}
	if off < BlockHeaderSize || off >= TrailerOffset {
		return nil, fmt.Errorf("first_rec_group %d outside block data", off)
	}
	c := format.NewCursor(b.Data, off).PushName("log_record")
	tb, err := c.Uint8()
	if err != nil {
		return nil, err
	}
	rec := &Record{
		Type:      RecordType(tb &^ MlogSingleRecFlag),
		SingleRec: tb&MlogSingleRecFlag != 0,
	}
	switch rec.Type {
	case MlogMultiRecEnd, MlogDummyRecord:
		// No space or page operands.
		return rec, nil
	}
	if rec.SpaceID, err = c.ICUint32(); err != nil {
		return nil, err
	}
	if rec.PageNumber, err = c.ICUint32(); err != nil {
		return nil, err
	}
	return rec, nil
}
