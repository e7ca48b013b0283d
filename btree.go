// btree.go - B-tree traversal over INDEX pages
package innospace

import (
	"fmt"

	"github.com/wilhasse/innospace/page"
	"github.com/wilhasse/innospace/record"
	"github.com/wilhasse/innospace/schema"
)

// Index wraps a B-tree root and walks the tree through the space's
// page reader. Record and child-pointer decoding needs a describer;
// purely structural walks do not.
type Index struct {
	space *Space
	root  *page.IndexPage
	desc  schema.Describer
	dec   *record.CompactDecoder
}

// Index constructs an Index over the tree rooted at root. desc may be
// nil when only structure is needed.
func (s *Space) Index(root uint32, desc schema.Describer) (*Index, error) {
	p, err := s.Page(root)
	if err != nil {
		return nil, err
	}
	ip, err := page.ParseIndexPage(p)
	if err != nil {
		return nil, err
	}
	ix := &Index{space: s, root: ip}
	ix.SetDescriber(desc)
	return ix, nil
}

func (ix *Index) Root() *page.IndexPage { return ix.root }
func (ix *Index) ID() uint64            { return ix.root.IndexID() }
func (ix *Index) Height() uint16        { return ix.root.Level() + 1 }

func (ix *Index) Describer() schema.Describer { return ix.desc }

func (ix *Index) SetDescriber(desc schema.Describer) {
	ix.desc = desc
	if desc != nil {
		ix.dec = record.NewCompactDecoder(desc)
	} else {
		ix.dec = nil
	}
}

// page reads an INDEX page of this tree, surfacing an index id
// mismatch as corruption.
func (ix *Index) page(n uint32) (*page.IndexPage, error) {
	p, err := ix.space.Page(n)
	if err != nil {
		return nil, err
	}
	ip, err := page.ParseIndexPage(p)
	if err != nil {
		return nil, err
	}
	if ip.IndexID() != ix.root.IndexID() {
		return nil, corruptf(n, 0, "index id %d does not match root's %d",
			ip.IndexID(), ix.root.IndexID())
	}
	return ip, nil
}

// decode runs the record decoder for a page of this tree.
func (ix *Index) decode(ip *page.IndexPage, gr record.GenericRecord) (*record.Record, error) {
	if ix.dec == nil {
		return nil, fmt.Errorf("index %d has no describer", ix.ID())
	}
	return ix.dec.Decode(ip.Inner.Data, gr, ip.Level())
}

// EachChildPage yields (child page number, child minimum key) for
// every record on a non-leaf page, in key order.
func (ix *Index) EachChildPage(ip *page.IndexPage, fn func(child uint32, key []record.FieldValue) bool) error {
	if ip.IsLeaf() {
		return nil
	}
	recs, err := ip.WalkRecords(ip.Inner.Size, true)
	if err != nil {
		return err
	}
	for _, gr := range recs {
		r, err := ix.decode(ip, gr)
		if err != nil {
			return err
		}
		if r.ChildPageNumber == nil {
			return corruptf(ip.Inner.PageNo, gr.Pos, "non-leaf record without child pointer")
		}
		if !fn(*r.ChildPageNumber, r.Key) {
			return nil
		}
	}
	return nil
}

// Recurse walks the tree depth-first in preorder. onPage sees every
// page with its depth below the root; onLink sees every parent→child
// edge with the child's minimum key.
func (ix *Index) Recurse(
	onPage func(ip *page.IndexPage, depth int),
	onLink func(parent *page.IndexPage, child uint32, childKey []record.FieldValue, depth int),
) error {
	return ix.recurse(ix.root, 0, onPage, onLink)
}

func (ix *Index) recurse(
	ip *page.IndexPage, depth int,
	onPage func(*page.IndexPage, int),
	onLink func(*page.IndexPage, uint32, []record.FieldValue, int),
) error {
	if onPage != nil {
		onPage(ip, depth)
	}
	if ip.IsLeaf() {
		return nil
	}
	var children []uint32
	err := ix.EachChildPage(ip, func(child uint32, key []record.FieldValue) bool {
		if onLink != nil {
			onLink(ip, child, key, depth)
		}
		children = append(children, child)
		return true
	})
	if err != nil {
		return err
	}
	for _, child := range children {
		cp, err := ix.page(child)
		if err != nil {
			return err
		}
		if err := ix.recurse(cp, depth+1, onPage, onLink); err != nil {
			return err
		}
	}
	return nil
}

// leftmostAtLevel descends the leftmost child pointers until level.
func (ix *Index) leftmostAtLevel(level uint16) (*page.IndexPage, error) {
	if level > ix.root.Level() {
		return nil, fmt.Errorf("level %d above root level %d", level, ix.root.Level())
	}
	ip := ix.root
	for ip.Level() > level {
		var first *uint32
		err := ix.EachChildPage(ip, func(child uint32, _ []record.FieldValue) bool {
			first = &child
			return false
		})
		if err != nil {
			return nil, err
		}
		if first == nil {
			return nil, corruptf(ip.Inner.PageNo, 0, "non-leaf page with no children")
		}
		cp, err := ix.page(*first)
		if err != nil {
			return nil, err
		}
		ip = cp
	}
	return ip, nil
}

// EachPageAtLevel walks level L left to right: descend to the
// leftmost page, then follow FIL next pointers while the level holds.
func (ix *Index) EachPageAtLevel(level uint16, fn func(*page.IndexPage) bool) error {
	ip, err := ix.leftmostAtLevel(level)
	if err != nil {
		return err
	}
	for {
		if ip.Level() != level {
			return nil
		}
		if !fn(ip) {
			return nil
		}
		next := ip.Inner.FIL.Next
		if next == nil {
			return nil
		}
		if ip, err = ix.page(*next); err != nil {
			return err
		}
	}
}

// EachRecord yields decoded user records in key order by walking the
// leaf chain. Deleted records are yielded with their flag set.
func (ix *Index) EachRecord(fn func(*record.Record) bool) error {
	var walkErr error
	err := ix.EachPageAtLevel(0, func(ip *page.IndexPage) bool {
		recs, err := ip.WalkRecords(ip.Inner.Size, true)
		if err != nil {
			walkErr = err
			return false
		}
		for _, gr := range recs {
			r, err := ix.decode(ip, gr)
			if err != nil {
				walkErr = err
				return false
			}
			if !fn(r) {
				return false
			}
		}
		return true
	})
	if walkErr != nil {
		return walkErr
	}
	return err
}

// FsegInodes resolves the root's inline fseg header to the internal
// and leaf inode entries, when present.
func (ix *Index) FsegInodes() (internal, leaf *page.InodeEntry, err error) {
	fseg := ix.root.Fseg
	if addr := fseg.NonLeaf(); !addr.IsNil() {
		e, err := ix.space.InodeAt(addr)
		if err != nil {
			return nil, nil, err
		}
		internal = &e
	}
	if addr := fseg.Leaf(); !addr.IsNil() {
		e, err := ix.space.InodeAt(addr)
		if err != nil {
			return nil, nil, err
		}
		leaf = &e
	}
	return internal, leaf, nil
}
