// sys.go - Built-in describers for the system-space bootstrap indexes
package schema

func u64col(name string) *Column {
	return &Column{Name: name, Type: TypeBigInt, Unsigned: true}
}

func u32col(name string) *Column {
	return &Column{Name: name, Type: TypeInt, Unsigned: true}
}

func namecol(name string) *Column {
	// Dictionary strings are stored in the system charset, one byte
	// per character.
	return &Column{Name: name, Type: TypeVarchar, Length: 100, Charset: "latin1"}
}

// SysTablesDescriber describes the SYS_TABLES clustered index.
func SysTablesDescriber() Describer {
	return &StaticDescriber{
		Name: "SYS_TABLES",
		Key:  []*Column{namecol("NAME")},
		Row: []*Column{
			u64col("ID"),
			u32col("N_COLS"),
			u32col("TYPE"),
			u64col("MIX_ID"),
			u32col("MIX_LEN"),
			namecol("CLUSTER_NAME"),
			u32col("SPACE"),
		},
	}
}

// SysColumnsDescriber describes the SYS_COLUMNS clustered index.
func SysColumnsDescriber() Describer {
	return &StaticDescriber{
		Name: "SYS_COLUMNS",
		Key:  []*Column{u64col("TABLE_ID"), u32col("POS")},
		Row: []*Column{
			namecol("NAME"),
			u32col("MTYPE"),
			u32col("PRTYPE"),
			u32col("LEN"),
			u32col("PREC"),
		},
	}
}

// SysIndexesDescriber describes the SYS_INDEXES clustered index.
func SysIndexesDescriber() Describer {
	return &StaticDescriber{
		Name: "SYS_INDEXES",
		Key:  []*Column{u64col("TABLE_ID"), u64col("ID")},
		Row: []*Column{
			namecol("NAME"),
			u32col("N_FIELDS"),
			u32col("TYPE"),
			u32col("SPACE"),
			u32col("PAGE_NO"),
		},
	}
}

// SysFieldsDescriber describes the SYS_FIELDS clustered index.
func SysFieldsDescriber() Describer {
	return &StaticDescriber{
		Name: "SYS_FIELDS",
		Key:  []*Column{u64col("INDEX_ID"), u32col("POS")},
		Row:  []*Column{namecol("COL_NAME")},
	}
}

// SysDescriber returns the bootstrap describer by index name, nil if
// unknown.
func SysDescriber(name string) Describer {
	switch name {
	case "SYS_TABLES":
		return SysTablesDescriber()
	case "SYS_COLUMNS":
		return SysColumnsDescriber()
	case "SYS_INDEXES":
		return SysIndexesDescriber()
	case "SYS_FIELDS":
		return SysFieldsDescriber()
	}
	return nil
}
