// checksum.go - Page checksum calculation (classic innodb and crc32c)
package page

import (
	"hash/crc32"

	"github.com/wilhasse/innospace/format"
)

const (
	hashMask1 = 1463735687
	hashMask2 = 1653893711
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// foldPair is ut_fold_ulint_pair with 32-bit wrapping.
func foldPair(n1, n2 uint32) uint32 {
	return ((((n1 ^ n2 ^ hashMask2) << 8) + n1) ^ hashMask1) + n2
}

func foldBytes(b []byte) uint32 {
	fold := uint32(0)
	for _, by := range b {
		fold = foldPair(fold, uint32(by))
	}
	return fold
}

// ChecksumInnodb computes the classic folded checksum over the page:
// header bytes after the checksum slot plus the body.
func ChecksumInnodb(data []byte) uint32 {
	hdr := foldBytes(data[4:26])
	body := foldBytes(data[format.FilHeaderSize : len(data)-format.FilTrailerSize])
	return hdr + body
}

// ChecksumCRC32 computes the crc32c page checksum.
func ChecksumCRC32(data []byte) uint32 {
	hdr := crc32.Checksum(data[4:26], castagnoli)
	body := crc32.Checksum(data[format.FilHeaderSize:len(data)-format.FilTrailerSize], castagnoli)
	return hdr ^ body
}

// ChecksumOK reports whether the stored FIL checksum matches either
// supported algorithm. Many legitimate dumps are checksum-stale, so
// callers treat a false result as a warning.
func (p *Page) ChecksumOK() bool {
	stored := p.FIL.Checksum
	if stored == 0 || stored == format.PageNoNil {
		// BUF_NO_CHECKSUM_MAGIC and zeroed pages
		return true
	}
	return stored == ChecksumInnodb(p.Data) || stored == ChecksumCRC32(p.Data)
}
