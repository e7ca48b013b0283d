// errors.go - Structural corruption errors
package innospace

import "fmt"

// CorruptError marks a structural impossibility on disk: bad offsets,
// inconsistent list lengths, an index id that changes mid-tree. It is
// distinct from I/O failures and from advisory checksum mismatches.
type CorruptError struct {
	PageNo uint32
	Offset int
	Detail string
}

func (e *CorruptError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("corrupt page %d at offset %d: %s", e.PageNo, e.Offset, e.Detail)
	}
	return fmt.Sprintf("corrupt page %d: %s", e.PageNo, e.Detail)
}

func corruptf(pageNo uint32, offset int, format string, args ...interface{}) *CorruptError {
	return &CorruptError{PageNo: pageNo, Offset: offset, Detail: fmt.Sprintf(format, args...)}
}
