// Package innospace is a read-only forensic library for the InnoDB
// tablespace on-disk format. It parses and navigates pages, extents,
// file segments, index B-trees and records, and never writes.
//
// The library is organized into logical groups of functionality:
//
// Core Types and Utilities:
//   - format: on-disk constants, big-endian helpers, and the Cursor
//     positioned reader (typed reads, compressed integers, bit fields)
//
// Page Structure Components:
//   - page: FIL header/trailer framing, checksums, INDEX pages,
//     FSP header and XDES extent descriptors, INODE segment entries,
//     TRX_SYS and data-dictionary header pages
//
// Record Handling:
//   - record: compact record headers, chain iteration, and the
//     describer-driven record decoder
//   - column: typed column value parsers
//   - schema: table definitions, CREATE TABLE and TOML loaders, and
//     the built-in SYS_* dictionary describers
//
// Log Handling:
//   - redo: 512-byte log block parsing and record scanning
//
// The root package composes these into Space (a file-scoped view of a
// tablespace) and Index (B-tree traversal).
//
// Basic usage:
//
//	space, _ := innospace.OpenSpace("table.ibd")
//	defer space.Close()
//
//	td, _ := schema.ParseTableDefFromSQLFile("table.sql")
//	space.EachIndex(func(ix *innospace.Index) bool {
//		ix.SetDescriber(td)
//		ix.EachRecord(func(r *record.Record) bool {
//			fmt.Println(r.KeyValues())
//			return true
//		})
//		return true
//	})
package innospace
