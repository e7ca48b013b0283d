// list.go - Traversal of doubly linked lists embedded in pages
package innospace

import (
	"github.com/wilhasse/innospace/page"
)

// NodeDecoder resolves a list address to a typed entry and the list
// node embedded in it. Entries are owned by their pages; the list is
// only a lookup protocol threaded through them.
type NodeDecoder[T any] func(addr page.Addr) (T, page.ListNode, error)

// List pairs a base node with a decoder. Forward iteration is bounded
// by the base length, so a cycle surfaces as a corruption error
// instead of a hang.
type List[T any] struct {
	Name   string
	Base   page.ListBaseNode
	Decode NodeDecoder[T]
}

// Each yields entries first→next* until nil. Walking past the base
// length is corruption.
func (l List[T]) Each(fn func(T) error) error {
	addr := l.Base.First
	for n := uint32(0); !addr.IsNil(); n++ {
		if n >= l.Base.Length {
			return corruptf(addr.PageNo, int(addr.Offset),
				"list %s longer than its base length %d", l.Name, l.Base.Length)
		}
		entry, node, err := l.Decode(addr)
		if err != nil {
			return err
		}
		if err := fn(entry); err != nil {
			return err
		}
		addr = node.Next
	}
	return nil
}

// EachReverse yields entries last→prev* until nil, for verifying the
// forward walk.
func (l List[T]) EachReverse(fn func(T) error) error {
	addr := l.Base.Last
	for n := uint32(0); !addr.IsNil(); n++ {
		if n >= l.Base.Length {
			return corruptf(addr.PageNo, int(addr.Offset),
				"list %s longer than its base length %d", l.Name, l.Base.Length)
		}
		entry, node, err := l.Decode(addr)
		if err != nil {
			return err
		}
		if err := fn(entry); err != nil {
			return err
		}
		addr = node.Prev
	}
	return nil
}

// Entries collects the forward walk.
func (l List[T]) Entries() ([]T, error) {
	var out []T
	err := l.Each(func(e T) error {
		out = append(out, e)
		return nil
	})
	return out, err
}

// Include reports whether any entry satisfies pred. O(length).
func (l List[T]) Include(pred func(T) bool) (bool, error) {
	found := false
	err := l.Each(func(e T) error {
		if pred(e) {
			found = true
		}
		return nil
	})
	return found, err
}
