package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wilhasse/innospace/format"
	"github.com/wilhasse/innospace/page"
	"github.com/wilhasse/innospace/record"
)

var pageNum uint32

var pageDumpCmd = &cobra.Command{
	Use:   "page-dump",
	Short: "Decode one page and print its typed view",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSpace()
		if err != nil {
			return err
		}
		defer s.Close()

		p, err := s.Page(pageNum)
		if err != nil {
			return err
		}
		printFil(p)

		typed, err := s.TypedPage(pageNum)
		if err != nil {
			return err
		}
		switch tp := typed.(type) {
		case *page.IndexPage:
			return dumpIndexPage(tp)
		case *page.XdesPage:
			return dumpXdesPage(tp, s.Pages())
		case *page.InodePage:
			return dumpInodePage(tp)
		case *page.TrxSysPage:
			fmt.Printf("\nTRX_SYS: trx id %d, %d active rsegs\n", tp.TrxID, len(tp.ActiveRsegs()))
			fmt.Printf("doublewrite: magic %d blocks %d,%d\n",
				tp.Doublewrite.Magic, tp.Doublewrite.Block1, tp.Doublewrite.Block2)
		case *page.DictHeaderPage:
			fmt.Printf("\ndictionary header: max table id %d, max index id %d\n",
				tp.MaxTableID, tp.MaxIndexID)
			tp.EachIndexRoot(func(name string, root uint32) {
				fmt.Printf("  %-14s root %d\n", name, root)
			})
		}
		return nil
	},
}

func printFil(p *page.Page) {
	fmt.Printf("=== Page %d ===\n", p.PageNo)
	fmt.Printf("type:      %s (%d)\n", p.FIL.PageType, uint16(p.FIL.PageType))
	fmt.Printf("space id:  %d\n", p.FIL.SpaceID)
	fmt.Printf("lsn:       %d\n", p.FIL.LastModLSN)
	if p.FIL.Prev != nil {
		fmt.Printf("prev:      %d\n", *p.FIL.Prev)
	} else {
		fmt.Printf("prev:      nil\n")
	}
	if p.FIL.Next != nil {
		fmt.Printf("next:      %d\n", *p.FIL.Next)
	} else {
		fmt.Printf("next:      nil\n")
	}
	if !p.ChecksumOK() {
		fmt.Printf("warning: stored checksum %#x matches no known algorithm\n", p.FIL.Checksum)
	}
	if !p.LSNConsistent() {
		fmt.Printf("warning: trailer LSN does not match header\n")
	}
}

func dumpIndexPage(ip *page.IndexPage) error {
	fmt.Printf("\nindex id:  %d\n", ip.IndexID())
	fmt.Printf("level:     %d\n", ip.Level())
	fmt.Printf("records:   %d (heap %d)\n", ip.Hdr.NumUserRecs, ip.Hdr.NumHeapRecs)
	fmt.Printf("dir slots: %d\n", ip.Hdr.NumDirSlots)
	fmt.Printf("used:      %d bytes\n", ip.UsedBytes())

	desc, err := describer()
	if err != nil {
		return err
	}
	recs, err := ip.WalkRecords(ip.Inner.Size, true)
	if err != nil {
		return err
	}
	if desc == nil {
		for _, r := range recs {
			fmt.Printf("  rec heap#%d %s next %+d deleted=%v\n",
				r.Header.HeapNumber, r.Header.Type, r.Header.NextRecOffset, r.Deleted())
		}
		return nil
	}
	dec := record.NewCompactDecoder(desc)
	for _, gr := range recs {
		r, err := dec.Decode(ip.Inner.Data, gr, ip.Level())
		if err != nil {
			return err
		}
		fmt.Printf("  rec heap#%d key=%v", r.Header.HeapNumber, r.KeyValues())
		if r.ChildPageNumber != nil {
			fmt.Printf(" child=%d", *r.ChildPageNumber)
		}
		for _, f := range r.Row {
			fmt.Printf(" %s=%v", f.Column.Name, f.Value)
		}
		if r.Deleted() {
			fmt.Printf(" (deleted)")
		}
		fmt.Println()
	}
	return nil
}

func dumpXdesPage(xp *page.XdesPage, pages uint32) error {
	if xp.Fsp != nil {
		fmt.Printf("\nFSP: space %d size %d free limit %d\n",
			xp.Fsp.SpaceID, xp.Fsp.Size, xp.Fsp.FreeLimit)
	}
	return xp.EachEntry(pages, func(e page.XdesEntry) bool {
		fmt.Printf("  extent %d-%d state %s fseg %d free %d\n",
			e.StartPage, e.StartPage+format.PagesPerExtent-1, e.State, e.FsegID, e.FreePages())
		return true
	})
}

func dumpInodePage(ip *page.InodePage) error {
	fmt.Printf("\ninode list node: prev %s next %s\n", ip.Node.Prev, ip.Node.Next)
	return ip.EachEntry(func(e page.InodeEntry) bool {
		fmt.Printf("  fseg %d at (%d,%d): frag %v free %d not_full %d full %d\n",
			e.FsegID, e.PageNo, e.Offset, e.FragPages(),
			e.Free.Length, e.NotFull.Length, e.Full.Length)
		return true
	})
}

var pageAccountCmd = &cobra.Command{
	Use:   "page-account",
	Short: "Report where a page sits in the space's bookkeeping",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSpace()
		if err != nil {
			return err
		}
		defer s.Close()

		acct, err := s.Account(pageNum)
		if err != nil {
			return err
		}
		fmt.Printf("page %d (%s)\n", acct.PageNo, acct.Type)
		fmt.Printf("  xdes at (%d,%d), extent %d-%d, state %s\n",
			acct.Xdes.PageNo, acct.Xdes.Offset,
			acct.Xdes.StartPage, acct.Xdes.StartPage+format.PagesPerExtent-1, acct.State)
		if acct.FsegID != 0 {
			fmt.Printf("  fseg %d", acct.FsegID)
			if acct.Inode != nil {
				fmt.Printf(" inode at (%d,%d)", acct.Inode.PageNo, acct.Inode.Offset)
			}
			if acct.FragSlot >= 0 {
				fmt.Printf(", fragment array slot %d", acct.FragSlot)
			} else if acct.InodeList != "" {
				fmt.Printf(", %s list", acct.InodeList)
			}
			fmt.Println()
		}
		if acct.IndexID != 0 {
			fmt.Printf("  index %d rooted at page %d\n", acct.IndexID, acct.IndexRoot)
		}
		return nil
	},
}

func init() {
	pageDumpCmd.Flags().Uint32Var(&pageNum, "page", 0, "page `number`")
	pageAccountCmd.Flags().Uint32Var(&pageNum, "page", 0, "page `number`")
	rootCmd.AddCommand(pageDumpCmd, pageAccountCmd)
}
