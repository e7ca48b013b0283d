// reader.go - Page reader and typed page factory
package innospace

import (
	"io"

	"github.com/pkg/errors"

	"github.com/wilhasse/innospace/format"
	"github.com/wilhasse/innospace/page"
)

// PageReader reads fixed-size pages from an io.ReaderAt.
type PageReader struct {
	r        io.ReaderAt
	pageSize int
}

func NewPageReader(r io.ReaderAt, pageSize int) *PageReader {
	if pageSize == 0 {
		pageSize = format.DefaultPageSize
	}
	return &PageReader{r: r, pageSize: pageSize}
}

func (pr *PageReader) PageSize() int { return pr.pageSize }

func (pr *PageReader) ReadPage(pageNo uint32) (*page.Page, error) {
	buf := make([]byte, pr.pageSize)
	off := int64(pageNo) * int64(pr.pageSize)
	if _, err := pr.r.ReadAt(buf, off); err != nil {
		return nil, errors.Wrapf(err, "read page %d", pageNo)
	}
	return page.NewPage(pageNo, buf)
}

// ParseTyped dispatches a framed page to its specific view by FIL
// type. Unknown types come back as the framed page itself. Parsers
// operate on the already-read buffer and never touch the file.
func ParseTyped(p *page.Page) (interface{}, error) {
	switch p.FIL.PageType {
	case format.PageTypeIndex:
		return page.ParseIndexPage(p)
	case format.PageTypeFspHdr, format.PageTypeXdes:
		return page.ParseXdesPage(p)
	case format.PageTypeInode:
		return page.ParseInodePage(p)
	case format.PageTypeTrxSys:
		return page.ParseTrxSysPage(p)
	case format.PageTypeSys:
		if p.PageNo == format.DictHeaderPageNo {
			return page.ParseDictHeaderPage(p)
		}
		return p, nil
	default:
		return p, nil
	}
}
