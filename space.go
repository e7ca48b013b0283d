// space.go - File-scoped tablespace API
package innospace

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/wilhasse/innospace/format"
	"github.com/wilhasse/innospace/page"
	"github.com/wilhasse/innospace/record"
	"github.com/wilhasse/innospace/schema"
)

// Space is a read-only view of one tablespace file as an addressable
// sequence of pages. A Space is owned by one caller at a time;
// distinct Spaces are independent.
type Space struct {
	path     string
	f        *os.File
	reader   *PageReader
	pageSize int
	pages    uint32
	fsp      *page.FspHeader
	log      log.FieldLogger
}

type spaceOptions struct {
	pageSize int
	logger   log.FieldLogger
}

type Option func(*spaceOptions)

// WithPageSize pins the page size instead of autodetecting it.
func WithPageSize(n int) Option {
	return func(o *spaceOptions) { o.pageSize = n }
}

// WithLogger routes skip diagnostics somewhere other than the
// standard logger.
func WithLogger(l log.FieldLogger) Option {
	return func(o *spaceOptions) { o.logger = l }
}

var pageSizes = []int{16384, 8192, 4096, 2048, 1024}

// OpenSpace opens a tablespace file. Without an explicit page size it
// reads page 0 at 16 KiB and falls back to smaller sizes until the
// FSP header shape is possible. Sizes below 16 KiB are tolerated, not
// guaranteed.
func OpenSpace(path string, opts ...Option) (*Space, error) {
	var o spaceOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.StandardLogger()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open space %s", path)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "stat space %s", path)
	}

	sizes := pageSizes
	if o.pageSize != 0 {
		sizes = []int{o.pageSize}
	}
	for _, ps := range sizes {
		if st.Size() < int64(ps) {
			continue
		}
		reader := NewPageReader(f, ps)
		p0, err := reader.ReadPage(0)
		if err != nil {
			continue
		}
		fsp, err := page.ParseFspHeader(p0.Data)
		if err != nil {
			continue
		}
		if !fspPlausible(p0, fsp) {
			continue
		}
		return &Space{
			path:     path,
			f:        f,
			reader:   reader,
			pageSize: ps,
			pages:    uint32(st.Size() / int64(ps)),
			fsp:      &fsp,
			log:      o.logger,
		}, nil
	}
	f.Close()
	return nil, fmt.Errorf("%s: no page size in %v yields a valid FSP header", path, sizes)
}

// fspPlausible rejects page-size guesses whose header cannot be real.
// At a wrong size the trailer lands mid-page, so the LSN redundancy
// check discriminates between candidate sizes.
func fspPlausible(p0 *page.Page, fsp page.FspHeader) bool {
	if p0.FIL.PageType != format.PageTypeFspHdr {
		return false
	}
	if fsp.SpaceID != p0.FIL.SpaceID {
		return false
	}
	return p0.LSNConsistent()
}

func (s *Space) Close() error { return s.f.Close() }

func (s *Space) Path() string       { return s.path }
func (s *Space) PageSize() int      { return s.pageSize }
func (s *Space) Pages() uint32      { return s.pages }
func (s *Space) SpaceID() uint32    { return s.fsp.SpaceID }
func (s *Space) Fsp() page.FspHeader { return *s.fsp }

// IsSystemSpace reports whether this is the space holding the data
// dictionary and rollback segments.
func (s *Space) IsSystemSpace() bool { return s.fsp.SpaceID == format.SysSpaceID }

// Page reads page n. Out-of-range n is a usage error, not corruption.
func (s *Space) Page(n uint32) (*page.Page, error) {
	if n >= s.pages {
		return nil, fmt.Errorf("page %d out of range [0,%d)", n, s.pages)
	}
	return s.reader.ReadPage(n)
}

// TypedPage reads page n and dispatches it to its specific view.
func (s *Space) TypedPage(n uint32) (interface{}, error) {
	p, err := s.Page(n)
	if err != nil {
		return nil, err
	}
	return ParseTyped(p)
}

// EachPage yields every page from start upward in page-number order.
// Unreadable pages are skipped with a diagnostic. Iteration stops
// when fn returns false.
func (s *Space) EachPage(start uint32, fn func(*page.Page) bool) error {
	for n := start; n < s.pages; n++ {
		p, err := s.Page(n)
		if err != nil {
			s.log.WithError(err).WithField("page", n).Warn("skipping unreadable page")
			continue
		}
		if !fn(p) {
			return nil
		}
	}
	return nil
}

// Region is a run of consecutive pages sharing one FIL type.
type Region struct {
	Start uint32
	End   uint32
	Count uint32
	Type  format.PageType
}

// EachPageTypeRegion collapses the page sequence into runs of equal
// type.
func (s *Space) EachPageTypeRegion(fn func(Region) bool) error {
	var cur *Region
	err := s.EachPage(0, func(p *page.Page) bool {
		t := p.FIL.PageType
		if cur != nil && cur.Type == t {
			cur.End = p.PageNo
			cur.Count++
			return true
		}
		if cur != nil && !fn(*cur) {
			cur = nil
			return false
		}
		cur = &Region{Start: p.PageNo, End: p.PageNo, Count: 1, Type: t}
		return true
	})
	if err != nil {
		return err
	}
	if cur != nil {
		fn(*cur)
	}
	return nil
}

// xdesPage reads and parses the FSP_HDR/XDES page holding descriptors
// for the extent run starting at base.
func (s *Space) xdesPage(base uint32) (*page.XdesPage, error) {
	p, err := s.Page(base)
	if err != nil {
		return nil, err
	}
	return page.ParseXdesPage(p)
}

// EachXdes yields every extent descriptor covering pages of the
// space, ascending.
func (s *Space) EachXdes(fn func(page.XdesEntry) bool) error {
	stride := page.PagesPerXdesPage(s.pageSize)
	for base := uint32(0); base < s.pages; base += stride {
		xp, err := s.xdesPage(base)
		if err != nil {
			return err
		}
		stop := false
		err = xp.EachEntry(s.pages, func(e page.XdesEntry) bool {
			if !fn(e) {
				stop = true
				return false
			}
			return true
		})
		if err != nil || stop {
			return err
		}
	}
	return nil
}

// XdesForPage returns the descriptor of the extent containing page n.
func (s *Space) XdesForPage(n uint32) (page.XdesEntry, error) {
	if n >= s.pages {
		return page.XdesEntry{}, fmt.Errorf("page %d out of range [0,%d)", n, s.pages)
	}
	base := page.XdesPageForPage(s.pageSize, n)
	xp, err := s.xdesPage(base)
	if err != nil {
		return page.XdesEntry{}, err
	}
	idx := int((n - base) / format.PagesPerExtent)
	return xp.Entry(idx)
}

// PageStatus returns the (free, clean) bits recorded for page n in
// its extent descriptor.
func (s *Space) PageStatus(n uint32) (page.PageState, error) {
	x, err := s.XdesForPage(n)
	if err != nil {
		return page.PageState{}, err
	}
	return x.PageStateAt(int(n % format.PagesPerExtent))
}

// XdesDecoder decodes XDES list nodes: list addresses point at the
// node embedded 8 bytes into the 40-byte descriptor.
func (s *Space) XdesDecoder() NodeDecoder[page.XdesEntry] {
	return func(addr page.Addr) (page.XdesEntry, page.ListNode, error) {
		entryOff := int(addr.Offset) - 8
		rel := entryOff - format.XdesArrayOff
		if rel < 0 || rel%format.XdesEntrySize != 0 {
			return page.XdesEntry{}, page.ListNode{},
				corruptf(addr.PageNo, int(addr.Offset), "address is not an XDES node")
		}
		xp, err := s.xdesPage(addr.PageNo)
		if err != nil {
			return page.XdesEntry{}, page.ListNode{}, err
		}
		e, err := xp.Entry(rel / format.XdesEntrySize)
		if err != nil {
			return page.XdesEntry{}, page.ListNode{}, err
		}
		return e, e.Node, nil
	}
}

// XdesList returns a space-level extent list ("free", "free_frag",
// "full_frag") ready to walk.
func (s *Space) XdesList(name string) (List[page.XdesEntry], error) {
	base, ok := s.fsp.List(name)
	if !ok || name == "full_inodes" || name == "free_inodes" {
		return List[page.XdesEntry]{}, fmt.Errorf("no XDES list named %q", name)
	}
	return List[page.XdesEntry]{Name: name, Base: base, Decode: s.XdesDecoder()}, nil
}

// EachXdesList yields the three space-level extent lists.
func (s *Space) EachXdesList(fn func(List[page.XdesEntry]) bool) {
	for _, name := range []string{"free", "free_frag", "full_frag"} {
		l, err := s.XdesList(name)
		if err != nil {
			continue
		}
		if !fn(l) {
			return
		}
	}
}

// InodePageDecoder decodes the inode-page lists: addresses point at
// the list node right after the FIL header.
func (s *Space) InodePageDecoder() NodeDecoder[*page.InodePage] {
	return func(addr page.Addr) (*page.InodePage, page.ListNode, error) {
		if int(addr.Offset) != format.FilHeaderSize {
			return nil, page.ListNode{},
				corruptf(addr.PageNo, int(addr.Offset), "address is not an inode page node")
		}
		p, err := s.Page(addr.PageNo)
		if err != nil {
			return nil, page.ListNode{}, err
		}
		ip, err := page.ParseInodePage(p)
		if err != nil {
			return nil, page.ListNode{}, err
		}
		return ip, ip.Node, nil
	}
}

// InodePagesList returns "full_inodes" or "free_inodes".
func (s *Space) InodePagesList(name string) (List[*page.InodePage], error) {
	if name != "full_inodes" && name != "free_inodes" {
		return List[*page.InodePage]{}, fmt.Errorf("no inode list named %q", name)
	}
	base, _ := s.fsp.List(name)
	return List[*page.InodePage]{Name: name, Base: base, Decode: s.InodePageDecoder()}, nil
}

// EachInode yields every file segment descriptor in use, walking the
// space's inode page lists.
func (s *Space) EachInode(fn func(page.InodeEntry) bool) error {
	stopped := false
	for _, name := range []string{"full_inodes", "free_inodes"} {
		if stopped {
			return nil
		}
		l, err := s.InodePagesList(name)
		if err != nil {
			return err
		}
		err = l.Each(func(ip *page.InodePage) error {
			if stopped {
				return nil
			}
			return ip.EachEntry(func(e page.InodeEntry) bool {
				if !fn(e) {
					stopped = true
					return false
				}
				return true
			})
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// InodeAt resolves an inode entry address from an fseg header.
func (s *Space) InodeAt(addr page.Addr) (page.InodeEntry, error) {
	p, err := s.Page(addr.PageNo)
	if err != nil {
		return page.InodeEntry{}, err
	}
	ip, err := page.ParseInodePage(p)
	if err != nil {
		return page.InodeEntry{}, err
	}
	return ip.EntryAt(addr.Offset)
}

// FsegExtentList returns one of an inode entry's extent lists
// ("free", "not_full", "full").
func (s *Space) FsegExtentList(e page.InodeEntry, name string) (List[page.XdesEntry], error) {
	base, ok := e.List(name)
	if !ok {
		return List[page.XdesEntry]{}, fmt.Errorf("no fseg list named %q", name)
	}
	return List[page.XdesEntry]{Name: name, Base: base, Decode: s.XdesDecoder()}, nil
}

// TrxSys parses page 5 of the system space.
func (s *Space) TrxSys() (*page.TrxSysPage, error) {
	if !s.IsSystemSpace() {
		return nil, fmt.Errorf("space %d is not the system space", s.fsp.SpaceID)
	}
	p, err := s.Page(format.TrxSysPageNo)
	if err != nil {
		return nil, err
	}
	return page.ParseTrxSysPage(p)
}

// DictHeader parses page 7 of the system space.
func (s *Space) DictHeader() (*page.DictHeaderPage, error) {
	if !s.IsSystemSpace() {
		return nil, fmt.Errorf("space %d is not the system space", s.fsp.SpaceID)
	}
	p, err := s.Page(format.DictHeaderPageNo)
	if err != nil {
		return nil, err
	}
	return page.ParseDictHeaderPage(p)
}

// EachIndex yields the indexes rooted in this space. In the system
// space the data dictionary is walked; elsewhere INDEX pages with no
// siblings are taken as roots.
func (s *Space) EachIndex(fn func(*Index) bool) error {
	if s.IsSystemSpace() {
		return s.eachIndexDict(fn)
	}
	seen := make(map[uint64]bool)
	return s.EachPage(0, func(p *page.Page) bool {
		if p.FIL.PageType != format.PageTypeIndex {
			return true
		}
		ip, err := page.ParseIndexPage(p)
		if err != nil || !ip.IsRoot() || seen[ip.IndexID()] {
			return true
		}
		seen[ip.IndexID()] = true
		ix := &Index{space: s, root: ip}
		return fn(ix)
	})
}

// eachIndexDict walks SYS_INDEXES with its bootstrap describer and
// yields an Index per record rooted in this space.
func (s *Space) eachIndexDict(fn func(*Index) bool) error {
	dict, err := s.DictHeader()
	if err != nil {
		return err
	}
	sysIndexes, err := s.Index(dict.Indexes, schema.SysIndexesDescriber())
	if err != nil {
		return err
	}
	stopped := false
	err = sysIndexes.EachRecord(func(r *record.Record) bool {
		space, _ := r.Field("SPACE")
		pageNo, _ := r.Field("PAGE_NO")
		name, _ := r.Field("NAME")
		spaceID, ok1 := space.Value.(uint32)
		root, ok2 := pageNo.Value.(uint32)
		if !ok1 || !ok2 || spaceID != s.fsp.SpaceID || root >= s.pages {
			return true
		}
		var desc schema.Describer
		if n, ok := name.Value.(string); ok {
			desc = schema.SysDescriber(n)
		}
		ix, err := s.Index(root, desc)
		if err != nil {
			s.log.WithError(err).WithField("root", root).Warn("skipping unreadable index root")
			return true
		}
		if !fn(ix) {
			stopped = true
			return false
		}
		return true
	})
	if stopped {
		return nil
	}
	return err
}

// PageAccount reports where one page sits in the space's bookkeeping.
type PageAccount struct {
	PageNo      uint32
	Type        format.PageType
	Xdes        page.XdesEntry
	State       format.XdesState
	FsegID      uint64
	Inode       *page.InodeEntry
	InodeList   string // "full", "not_full", "free", or "" when not listed
	FragSlot    int    // fragment array slot, -1 when not a fragment page
	IndexID     uint64 // owning index when resolvable, else 0
	IndexRoot   uint32
}

// Account locates page n in its extent, segment, and index.
func (s *Space) Account(n uint32) (*PageAccount, error) {
	p, err := s.Page(n)
	if err != nil {
		return nil, err
	}
	x, err := s.XdesForPage(n)
	if err != nil {
		return nil, err
	}
	acct := &PageAccount{
		PageNo:   n,
		Type:     p.FIL.PageType,
		Xdes:     x,
		State:    x.State,
		FsegID:   x.FsegID,
		FragSlot: -1,
	}

	// Locate the owning segment: by extent ownership, or through the
	// fragment arrays for pages on shared extents.
	err = s.EachInode(func(e page.InodeEntry) bool {
		if x.AllocatedToFseg() && e.FsegID == x.FsegID {
			ecopy := e
			acct.Inode = &ecopy
			return false
		}
		for i, pg := range e.FragArray {
			if pg == n {
				ecopy := e
				acct.Inode = &ecopy
				acct.FsegID = e.FsegID
				acct.FragSlot = i
				return false
			}
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	if acct.Inode != nil && acct.FragSlot < 0 {
		for _, name := range []string{"full", "not_full", "free"} {
			l, err := s.FsegExtentList(*acct.Inode, name)
			if err != nil {
				continue
			}
			found, err := l.Include(func(e page.XdesEntry) bool { return e.Contains(n) })
			if err != nil {
				return nil, err
			}
			if found {
				acct.InodeList = name
				break
			}
		}
	}

	if acct.Inode != nil {
		if err := s.accountIndex(acct); err != nil {
			return nil, err
		}
	}
	return acct, nil
}

// accountIndex matches the owning inode back to an index root via the
// root's inline fseg header.
func (s *Space) accountIndex(acct *PageAccount) error {
	inodeAddr := page.Addr{PageNo: acct.Inode.PageNo, Offset: acct.Inode.Offset}
	stopped := false
	err := s.EachIndex(func(ix *Index) bool {
		fseg := ix.Root().Fseg
		if fseg.Leaf() == inodeAddr || fseg.NonLeaf() == inodeAddr {
			acct.IndexID = ix.ID()
			acct.IndexRoot = ix.Root().Inner.PageNo
			stopped = true
			return false
		}
		return true
	})
	_ = stopped
	return err
}
