// reader.go - Redo log file reader
package redo

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// Reader walks a redo log file as a sequence of 512-byte blocks,
// skipping the 4-block file header. Block numbering starts at 1 at
// the first data block.
type Reader struct {
	r      io.ReaderAt
	blocks uint32 // data blocks
}

func NewReader(r io.ReaderAt, size int64) *Reader {
	blocks := size / BlockSize
	if blocks > FileHeaderBlocks {
		blocks -= FileHeaderBlocks
	} else {
		blocks = 0
	}
	return &Reader{r: r, blocks: uint32(blocks)}
}

// Open opens a redo log file from disk.
func Open(path string) (*Reader, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open log %s", path)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, errors.Wrapf(err, "stat log %s", path)
	}
	return NewReader(f, st.Size()), f, nil
}

// Blocks is the number of data blocks past the file header.
func (r *Reader) Blocks() uint32 { return r.blocks }

// Block reads the n-th data block, n starting at 1.
func (r *Reader) Block(n uint32) (*Block, error) {
	if n < 1 || n > r.blocks {
		return nil, errors.Errorf("log block %d out of range [1,%d]", n, r.blocks)
	}
	buf := make([]byte, BlockSize)
	off := int64(FileHeaderBlocks+n-1) * BlockSize
	if _, err := r.r.ReadAt(buf, off); err != nil {
		return nil, errors.Wrapf(err, "read log block %d", n)
	}
	return ParseBlock(buf)
}

// EachBlock yields data blocks in order. Iteration stops when fn
// returns false.
func (r *Reader) EachBlock(fn func(*Block) bool) error {
	for n := uint32(1); n <= r.blocks; n++ {
		b, err := r.Block(n)
		if err != nil {
			return err
		}
		if !fn(b) {
			return nil
		}
	}
	return nil
}
