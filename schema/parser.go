// parser.go - Build table definitions from CREATE TABLE statements
package schema

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xwb1989/sqlparser"
)

// ParseTableDefFromSQL parses a CREATE TABLE statement into a
// TableDef usable as a record describer.
func ParseTableDefFromSQL(sql string) (*TableDef, error) {
	stmt, err := sqlparser.Parse(sql)
	if err != nil {
		return nil, fmt.Errorf("parse SQL failed: %w", err)
	}

	ddl, ok := stmt.(*sqlparser.DDL)
	if !ok || ddl.Action != sqlparser.CreateStr {
		return nil, fmt.Errorf("statement is not CREATE TABLE")
	}
	if ddl.TableSpec == nil {
		return nil, fmt.Errorf("no table spec in CREATE TABLE")
	}

	td := NewTableDef(ddl.NewName.Name.String())
	td.Engine = "InnoDB"
	td.Charset = "utf8mb4"

	for _, col := range ddl.TableSpec.Columns {
		column, err := parseColumn(col)
		if err != nil {
			return nil, fmt.Errorf("parse column %s failed: %w", col.Name, err)
		}
		if err := td.AddColumn(column); err != nil {
			return nil, err
		}
	}

	// The primary key arrives as an index definition, not on the
	// column clauses.
	var primaryKeys []string
	for _, idx := range ddl.TableSpec.Indexes {
		if idx.Info.Primary {
			primaryKeys = nil
			for _, col := range idx.Columns {
				primaryKeys = append(primaryKeys, col.Column.String())
			}
		}
	}
	if len(primaryKeys) > 0 {
		if err := td.SetPrimaryKeys(primaryKeys); err != nil {
			return nil, err
		}
	}

	return td, nil
}

// ParseTableDefFromSQLFile reads and parses CREATE TABLE from a SQL file
func ParseTableDefFromSQLFile(filename string) (*TableDef, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read SQL file failed: %w", err)
	}
	return ParseTableDefFromSQL(string(content))
}

// parseColumn converts a sqlparser column definition to a Column
func parseColumn(col *sqlparser.ColumnDefinition) (*Column, error) {
	column := &Column{
		Name: col.Name.String(),
		Type: ColumnType(strings.ToUpper(col.Type.Type)),
	}

	if col.Type.Length != nil {
		if length, err := strconv.Atoi(string(col.Type.Length.Val)); err == nil {
			column.Length = length
			column.Precision = length
		}
	}
	if col.Type.Scale != nil {
		if scale, err := strconv.Atoi(string(col.Type.Scale.Val)); err == nil {
			column.Scale = scale
		}
	}

	column.Unsigned = bool(col.Type.Unsigned)
	column.Nullable = !bool(col.Type.NotNull)
	column.AutoIncrement = bool(col.Type.Autoincrement)
	column.Charset = col.Type.Charset
	column.Collation = col.Type.Collate
	if col.Type.Default != nil {
		column.DefaultValue = sqlparser.String(col.Type.Default)
	}

	if column.Type == TypeEnum {
		for _, val := range col.Type.EnumValues {
			column.EnumValues = append(column.EnumValues, strings.Trim(val, "'\""))
		}
	}

	column.Type = normalizeColumnType(column.Type, column.Length)
	if column.Charset == "" && isTextType(column.Type) {
		column.Charset = "utf8mb4"
	}
	return column, nil
}

// normalizeColumnType maps SQL aliases onto the canonical type names
func normalizeColumnType(colType ColumnType, length int) ColumnType {
	switch strings.ToUpper(string(colType)) {
	case "INTEGER":
		return TypeInt
	case "DOUBLE PRECISION", "REAL":
		return TypeDouble
	case "DEC":
		return TypeDecimal
	case "BOOL":
		return TypeBoolean
	case "TINYINT":
		if length == 1 {
			return TypeBoolean // TINYINT(1) is conventionally a boolean
		}
		return TypeTinyInt
	default:
		return colType
	}
}

func isTextType(colType ColumnType) bool {
	switch colType {
	case TypeChar, TypeVarchar,
		TypeText, TypeTinyText, TypeMediumText, TypeLongText:
		return true
	default:
		return false
	}
}
