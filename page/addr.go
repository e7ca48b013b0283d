// addr.go - File addresses and embedded list nodes
package page

import (
	"fmt"

	"github.com/wilhasse/innospace/format"
)

// Addr locates a byte within a space: page number plus offset. A nil
// address has page number 0xFFFFFFFF.
type Addr struct {
	PageNo uint32
	Offset uint16
}

func (a Addr) IsNil() bool { return a.PageNo == format.PageNoNil }

func (a Addr) String() string {
	if a.IsNil() {
		return "nil"
	}
	return fmt.Sprintf("(%d,%d)", a.PageNo, a.Offset)
}

func ParseAddr(c *format.Cursor) (Addr, error) {
	pg, err := c.Uint32()
	if err != nil {
		return Addr{}, err
	}
	off, err := c.Uint16()
	if err != nil {
		return Addr{}, err
	}
	return Addr{PageNo: pg, Offset: off}, nil
}

// ListBaseNode heads an embedded doubly linked list: a length and
// first/last addresses of the node structures threaded through pages.
type ListBaseNode struct {
	Length uint32
	First  Addr
	Last   Addr
}

func ParseListBaseNode(c *format.Cursor) (ListBaseNode, error) {
	length, err := c.Uint32()
	if err != nil {
		return ListBaseNode{}, err
	}
	first, err := ParseAddr(c)
	if err != nil {
		return ListBaseNode{}, err
	}
	last, err := ParseAddr(c)
	if err != nil {
		return ListBaseNode{}, err
	}
	return ListBaseNode{Length: length, First: first, Last: last}, nil
}

// ListNode is the per-entry prev/next pair embedded in a list member.
type ListNode struct {
	Prev Addr
	Next Addr
}

func ParseListNode(c *format.Cursor) (ListNode, error) {
	prev, err := ParseAddr(c)
	if err != nil {
		return ListNode{}, err
	}
	next, err := ParseAddr(c)
	if err != nil {
		return ListNode{}, err
	}
	return ListNode{Prev: prev, Next: next}, nil
}
