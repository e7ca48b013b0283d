package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/wilhasse/innospace/redo"
)

var logBlocksCmd = &cobra.Command{
	Use:   "log-blocks",
	Short: "Scan a redo log file block by block",
	RunE: func(cmd *cobra.Command, args []string) error {
		if filePath == "" {
			return fmt.Errorf("innospace: --file is required")
		}
		r, f, err := redo.Open(filePath)
		if err != nil {
			return err
		}
		defer f.Close()

		tw := tablewriter.NewWriter(os.Stdout)
		tw.SetHeader([]string{"Block", "Data len", "First group", "Record", "Space", "Page"})
		err = r.EachBlock(func(b *redo.Block) bool {
			rec, err := b.Record()
			recType, space, pageNo := "-", "-", "-"
			if err == nil && rec != nil {
				recType = rec.Type.String()
				space = fmt.Sprint(rec.SpaceID)
				pageNo = fmt.Sprint(rec.PageNumber)
			}
			tw.Append([]string{
				fmt.Sprint(b.Header.BlockNumber),
				fmt.Sprint(b.Header.DataLength),
				fmt.Sprint(b.Header.FirstRecGroup),
				recType, space, pageNo,
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
	rootCmd.AddCommand(logBlocksCmd)
}
