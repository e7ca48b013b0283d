// iterator.go - Record chain iteration
package record

import (
	"fmt"

	"github.com/wilhasse/innospace/format"
)

// WalkRecords walks a page's record chain following the compact
// header's relative next offset, starting at infimum. If skipSystem is
// true, INFIMUM and SUPREMUM are not returned. max bounds the
// traversal; a chain longer than max is reported as corrupt. Deleted
// records remain in the chain and are returned.
func WalkRecords(pageNo uint32, pageData []byte, pageSize int, infimum GenericRecord, max int, skipSystem bool) ([]GenericRecord, error) {
	var out []GenericRecord
	cur := infimum
	if !skipSystem {
		out = append(out, cur)
	}
	for steps := 0; ; steps++ {
		if steps >= max {
			return out, fmt.Errorf("record chain on page %d exceeds %d entries", pageNo, max)
		}
		if cur.Header.NextRecOffset == 0 {
			break // SUPREMUM carries next==0
		}
		nextOrigin := cur.NextRecordPos()
		if nextOrigin < format.FilHeaderSize+format.PageHeaderSize || nextOrigin >= pageSize-format.FilTrailerSize {
			return out, fmt.Errorf("next record origin out of bounds: %d", nextOrigin)
		}
		hdr, err := ParseRecordHeader(pageData, nextOrigin-format.RecordHeaderSize)
		if err != nil {
			return out, err
		}
		rec := GenericRecord{PageNumber: pageNo, Header: hdr, Pos: nextOrigin}

		// Without a schema the record length is unknown; the distance
		// to the next record is a best effort, and the last record in
		// the chain gets a bounded slice.
		dataEnd := nextOrigin
		if hdr.NextRecOffset > format.RecordHeaderSize {
			dataEnd = nextOrigin + hdr.NextRecOffset - format.RecordHeaderSize
		} else if hdr.Type == format.RecSupremum {
			dataEnd = nextOrigin + format.SystemRecordSize
		} else {
			dataEnd = nextOrigin + 100
		}
		if dataEnd > len(pageData) {
			dataEnd = len(pageData)
		}
		if dataEnd > nextOrigin {
			rec.Data = pageData[nextOrigin:dataEnd]
		}

		if hdr.Type == format.RecSupremum {
			if !skipSystem {
				out = append(out, rec)
			}
			break
		}
		out = append(out, rec)
		cur = rec
	}
	return out, nil
}
