package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wilhasse/innospace"
	"github.com/wilhasse/innospace/page"
	"github.com/wilhasse/innospace/record"
)

var (
	indexRoot  uint32
	treeLevel  uint16
	maxRecords int
)

var indexRecurseCmd = &cobra.Command{
	Use:   "index-recurse",
	Short: "Walk a B-tree depth-first from its root",
	RunE: func(cmd *cobra.Command, args []string) error {
		ix, s, err := openIndex()
		if err != nil {
			return err
		}
		defer s.Close()

		return ix.Recurse(
			func(ip *page.IndexPage, depth int) {
				kind := "node"
				if ip.IsLeaf() {
					kind = "leaf"
				}
				fmt.Printf("%s%s page %d level %d records %d\n",
					strings.Repeat("  ", depth), kind,
					ip.Inner.PageNo, ip.Level(), ip.Hdr.NumUserRecs)
			},
			func(parent *page.IndexPage, child uint32, key []record.FieldValue, depth int) {
				fmt.Printf("%s-> child %d min key %v\n",
					strings.Repeat("  ", depth+1), child, keyString(key))
			},
		)
	},
}

var indexLevelCmd = &cobra.Command{
	Use:   "index-level",
	Short: "Walk one level of a B-tree left to right",
	RunE: func(cmd *cobra.Command, args []string) error {
		ix, s, err := openIndex()
		if err != nil {
			return err
		}
		defer s.Close()

		return ix.EachPageAtLevel(treeLevel, func(ip *page.IndexPage) bool {
			fmt.Printf("page %d level %d records %d\n",
				ip.Inner.PageNo, ip.Level(), ip.Hdr.NumUserRecs)
			return true
		})
	},
}

var indexDotCmd = &cobra.Command{
	Use:   "index-dot",
	Short: "Emit a B-tree as a DOT graph",
	RunE: func(cmd *cobra.Command, args []string) error {
		ix, s, err := openIndex()
		if err != nil {
			return err
		}
		defer s.Close()

		fmt.Printf("digraph index_%d {\n", ix.ID())
		fmt.Println("  node [shape=record];")
		err = ix.Recurse(
			func(ip *page.IndexPage, depth int) {
				fmt.Printf("  page_%d [label=\"page %d|level %d|%d recs\"];\n",
					ip.Inner.PageNo, ip.Inner.PageNo, ip.Level(), ip.Hdr.NumUserRecs)
			},
			func(parent *page.IndexPage, child uint32, key []record.FieldValue, depth int) {
				fmt.Printf("  page_%d -> page_%d [label=\"%s\"];\n",
					parent.Inner.PageNo, child, keyString(key))
			},
		)
		if err != nil {
			return err
		}
		fmt.Println("}")
		return nil
	},
}

var indexRecordsCmd = &cobra.Command{
	Use:   "index-records",
	Short: "Print a B-tree's records in key order",
	RunE: func(cmd *cobra.Command, args []string) error {
		ix, s, err := openIndex()
		if err != nil {
			return err
		}
		defer s.Close()

		n := 0
		return ix.EachRecord(func(r *record.Record) bool {
			fmt.Printf("key=%v", keyString(r.Key))
			for _, f := range r.Row {
				fmt.Printf(" %s=%v", f.Column.Name, f.Value)
			}
			if r.Deleted() {
				fmt.Printf(" (deleted)")
			}
			fmt.Println()
			n++
			return maxRecords == 0 || n < maxRecords
		})
	},
}

func openIndex() (*innospace.Index, *innospace.Space, error) {
	sp, err := openSpace()
	if err != nil {
		return nil, nil, err
	}
	desc, err := describer()
	if err != nil {
		sp.Close()
		return nil, nil, err
	}
	index, err := sp.Index(indexRoot, desc)
	if err != nil {
		sp.Close()
		return nil, nil, err
	}
	return index, sp, nil
}

func keyString(key []record.FieldValue) string {
	parts := make([]string, len(key))
	for i, f := range key {
		parts[i] = fmt.Sprintf("%s=%v", f.Column.Name, f.Value)
	}
	return strings.Join(parts, ",")
}

func init() {
	for _, c := range []*cobra.Command{indexRecurseCmd, indexLevelCmd, indexDotCmd, indexRecordsCmd} {
		c.Flags().Uint32Var(&indexRoot, "page", 0, "root page `number`")
	}
	indexLevelCmd.Flags().Uint16Var(&treeLevel, "level", 0, "tree `level` to walk")
	indexRecordsCmd.Flags().IntVar(&maxRecords, "max-records", 0, "stop after `n` records (0 = all)")
	rootCmd.AddCommand(indexRecurseCmd, indexLevelCmd, indexDotCmd, indexRecordsCmd)
}
