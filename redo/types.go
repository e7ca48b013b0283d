// types.go - Redo log record type taxonomy
package redo

// RecordType is the MLOG_* type byte of a log record.
type RecordType uint8

const (
	MlogWrite1Byte         RecordType = 1
	MlogWrite2Bytes        RecordType = 2
	MlogWrite4Bytes        RecordType = 4
	MlogWrite8Bytes        RecordType = 8
	MlogRecInsert          RecordType = 9
	MlogRecClustDeleteMark RecordType = 10
	MlogRecSecDeleteMark   RecordType = 11
	MlogRecUpdateInPlace   RecordType = 13
	MlogRecDelete          RecordType = 14
	MlogListEndDelete      RecordType = 15
	MlogListStartDelete    RecordType = 16
	MlogListEndCopyCreated RecordType = 17
	MlogPageReorganize     RecordType = 18
	MlogPageCreate         RecordType = 19
	MlogUndoInsert         RecordType = 20
	MlogUndoEraseEnd       RecordType = 21
	MlogUndoInit           RecordType = 22
	MlogUndoHdrDiscard     RecordType = 23
	MlogUndoHdrReuse       RecordType = 24
	MlogUndoHdrCreate      RecordType = 25
	MlogRecMinMark         RecordType = 26
	MlogIbufBitmapInit     RecordType = 27
	MlogInitFilePage       RecordType = 29
	MlogWriteString        RecordType = 30
	MlogMultiRecEnd        RecordType = 31
	MlogDummyRecord        RecordType = 32
	MlogFileCreate         RecordType = 33
	MlogFileRename         RecordType = 34
	MlogFileDelete         RecordType = 35
	MlogCompRecMinMark     RecordType = 36
	MlogCompPageCreate     RecordType = 37
	MlogCompRecInsert      RecordType = 38
	MlogCompRecClustDelete RecordType = 39
	MlogCompRecSecDelete   RecordType = 40
	MlogCompRecUpdate      RecordType = 41
	MlogCompRecDelete      RecordType = 42
	MlogCompListEndDelete  RecordType = 43
	MlogCompListStartDel   RecordType = 44
	MlogCompListEndCopy    RecordType = 45
	MlogCompPageReorganize RecordType = 46
	MlogFileCreate2        RecordType = 47
	MlogZipWriteNodePtr    RecordType = 48
	MlogZipWriteBlobPtr    RecordType = 49
	MlogZipWriteHeader     RecordType = 50
	MlogZipPageCompress    RecordType = 51

	// ORed onto the type when an mtr wrote a single record for a
	// single page.
	MlogSingleRecFlag = 128
)

func (t RecordType) String() string {
	switch t {
	case MlogWrite1Byte:
		return "MLOG_1BYTE"
	case MlogWrite2Bytes:
		return "MLOG_2BYTES"
	case MlogWrite4Bytes:
		return "MLOG_4BYTES"
	case MlogWrite8Bytes:
		return "MLOG_8BYTES"
	case MlogRecInsert:
		return "MLOG_REC_INSERT"
	case MlogRecClustDeleteMark:
		return "MLOG_REC_CLUST_DELETE_MARK"
	case MlogRecSecDeleteMark:
		return "MLOG_REC_SEC_DELETE_MARK"
	case MlogRecUpdateInPlace:
		return "MLOG_REC_UPDATE_IN_PLACE"
	case MlogRecDelete:
		return "MLOG_REC_DELETE"
	case MlogListEndDelete:
		return "MLOG_LIST_END_DELETE"
	case MlogListStartDelete:
		return "MLOG_LIST_START_DELETE"
	case MlogListEndCopyCreated:
		return "MLOG_LIST_END_COPY_CREATED"
	case MlogPageReorganize:
		return "MLOG_PAGE_REORGANIZE"
	case MlogPageCreate:
		return "MLOG_PAGE_CREATE"
	case MlogUndoInsert:
		return "MLOG_UNDO_INSERT"
	case MlogUndoEraseEnd:
		return "MLOG_UNDO_ERASE_END"
	case MlogUndoInit:
		return "MLOG_UNDO_INIT"
	case MlogUndoHdrDiscard:
		return "MLOG_UNDO_HDR_DISCARD"
	case MlogUndoHdrReuse:
		return "MLOG_UNDO_HDR_REUSE"
	case MlogUndoHdrCreate:
		return "MLOG_UNDO_HDR_CREATE"
	case MlogRecMinMark:
		return "MLOG_REC_MIN_MARK"
	case MlogIbufBitmapInit:
		return "MLOG_IBUF_BITMAP_INIT"
	case MlogInitFilePage:
		return "MLOG_INIT_FILE_PAGE"
	case MlogWriteString:
		return "MLOG_WRITE_STRING"
	case MlogMultiRecEnd:
		return "MLOG_MULTI_REC_END"
	case MlogDummyRecord:
		return "MLOG_DUMMY_RECORD"
	case MlogFileCreate:
		return "MLOG_FILE_CREATE"
	case MlogFileRename:
		return "MLOG_FILE_RENAME"
	case MlogFileDelete:
		return "MLOG_FILE_DELETE"
	case MlogCompRecMinMark:
		return "MLOG_COMP_REC_MIN_MARK"
	case MlogCompPageCreate:
		return "MLOG_COMP_PAGE_CREATE"
	case MlogCompRecInsert:
		return "MLOG_COMP_REC_INSERT"
	case MlogCompRecClustDelete:
		return "MLOG_COMP_REC_CLUST_DELETE_MARK"
	case MlogCompRecSecDelete:
		return "MLOG_COMP_REC_SEC_DELETE_MARK"
	case MlogCompRecUpdate:
		return "MLOG_COMP_REC_UPDATE_IN_PLACE"
	case MlogCompRecDelete:
		return "MLOG_COMP_REC_DELETE"
	case MlogCompListEndDelete:
		return "MLOG_COMP_LIST_END_DELETE"
	case MlogCompListStartDel:
		return "MLOG_COMP_LIST_START_DELETE"
	case MlogCompListEndCopy:
		return "MLOG_COMP_LIST_END_COPY_CREATED"
	case MlogCompPageReorganize:
		return "MLOG_COMP_PAGE_REORGANIZE"
	case MlogFileCreate2:
		return "MLOG_FILE_CREATE2"
	case MlogZipWriteNodePtr:
		return "MLOG_ZIP_WRITE_NODE_PTR"
	case MlogZipWriteBlobPtr:
		return "MLOG_ZIP_WRITE_BLOB_PTR"
	case MlogZipWriteHeader:
		return "MLOG_ZIP_WRITE_HEADER"
	case MlogZipPageCompress:
		return "MLOG_ZIP_PAGE_COMPRESS"
	}
	return "MLOG_UNKNOWN"
}
