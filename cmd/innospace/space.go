package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/wilhasse/innospace"
	"github.com/wilhasse/innospace/page"
)

var spaceSummaryCmd = &cobra.Command{
	Use:   "space-summary",
	Short: "Print the FSP header and per-list lengths",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSpace()
		if err != nil {
			return err
		}
		defer s.Close()

		fsp := s.Fsp()
		fmt.Printf("space id:    %d\n", fsp.SpaceID)
		fmt.Printf("page size:   %d\n", s.PageSize())
		fmt.Printf("pages:       %d (header says %d)\n", s.Pages(), fsp.Size)
		fmt.Printf("free limit:  %d\n", fsp.FreeLimit)
		fmt.Printf("flags:       %#x\n", fsp.Flags)
		fmt.Printf("frag used:   %d\n", fsp.FragNUsed)
		fmt.Printf("system:      %v\n", s.IsSystemSpace())

		tw := tablewriter.NewWriter(os.Stdout)
		tw.SetHeader([]string{"List", "Length", "First", "Last"})
		fsp.EachList(func(name string, base page.ListBaseNode) {
			tw.Append([]string{name, fmt.Sprint(base.Length), base.First.String(), base.Last.String()})
		})
		tw.Render()
		return nil
	},
}

var spacePageTypesCmd = &cobra.Command{
	Use:   "space-page-types",
	Short: "Collapse the page sequence into runs of equal type",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSpace()
		if err != nil {
			return err
		}
		defer s.Close()

		tw := tablewriter.NewWriter(os.Stdout)
		tw.SetHeader([]string{"Start", "End", "Count", "Type"})
		err = s.EachPageTypeRegion(func(r innospace.Region) bool {
			tw.Append([]string{
				fmt.Sprint(r.Start), fmt.Sprint(r.End), fmt.Sprint(r.Count), r.Type.String(),
			})
			return true
		})
		if err != nil {
			return err
		}
		tw.Render()
		return nil
	},
}

var spaceListCmd = &cobra.Command{
	Use:   "space-list-iterate",
	Short: "Walk one space-level extent list",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := cmd.Flags().GetString("list")
		if err != nil || name == "" {
			return fmt.Errorf("innospace: --list is required")
		}
		s, err := openSpace()
		if err != nil {
			return err
		}
		defer s.Close()

		l, err := s.XdesList(name)
		if err != nil {
			return err
		}
		fmt.Printf("list %s: length %d\n", name, l.Base.Length)
		return l.Each(func(e page.XdesEntry) error {
			fmt.Printf("  extent %d-%d state %s fseg %d free %d\n",
				e.StartPage, e.StartPage+63, e.State, e.FsegID, e.FreePages())
			return nil
		})
	},
}

var spaceInodesCmd = &cobra.Command{
	Use:   "space-inodes",
	Short: "List every file segment descriptor in use",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSpace()
		if err != nil {
			return err
		}
		defer s.Close()

		tw := tablewriter.NewWriter(os.Stdout)
		tw.SetHeader([]string{"Fseg", "Location", "Frag", "Free", "Not full", "Full", "Fill"})
		err = s.EachInode(func(e page.InodeEntry) bool {
			tw.Append([]string{
				fmt.Sprint(e.FsegID),
				fmt.Sprintf("(%d,%d)", e.PageNo, e.Offset),
				fmt.Sprint(e.FragArrayNUsed()),
				fmt.Sprint(e.Free.Length),
				fmt.Sprint(e.NotFull.Length),
				fmt.Sprint(e.Full.Length),
				fmt.Sprintf("%.2f", e.FillFactor()),
			})
			return true
		})
		if err != nil {
			return err
		}
		tw.Render()
		return nil
	},
}

var spaceIndexesCmd = &cobra.Command{
	Use:   "space-indexes",
	Short: "Enumerate the indexes rooted in this space",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSpace()
		if err != nil {
			return err
		}
		defer s.Close()

		tw := tablewriter.NewWriter(os.Stdout)
		tw.SetHeader([]string{"Index ID", "Root", "Level", "Records"})
		err = s.EachIndex(func(ix *innospace.Index) bool {
			root := ix.Root()
			tw.Append([]string{
				fmt.Sprint(ix.ID()),
				fmt.Sprint(root.Inner.PageNo),
				fmt.Sprint(root.Level()),
				fmt.Sprint(root.Hdr.NumUserRecs),
			})
			return true
		})
		if err != nil {
			return err
		}
		tw.Render()
		return nil
	},
}

func init() {
	spaceListCmd.Flags().String("list", "", "list `name`: free, free_frag, or full_frag")
	rootCmd.AddCommand(spaceSummaryCmd, spacePageTypesCmd, spaceListCmd, spaceInodesCmd, spaceIndexesCmd)
}
