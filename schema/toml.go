// toml.go - Load a table definition from a TOML schema file
package schema

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
)

// tomlTable mirrors the on-file layout:
//
//	name = "t"
//	primary_key = ["id"]
//
//	[[column]]
//	name = "id"
//	type = "INT"
//	[[column]]
//	name = "a"
//	type = "VARCHAR"
//	length = 64
//	nullable = true
type tomlTable struct {
	Name       string       `toml:"name"`
	PrimaryKey []string     `toml:"primary_key"`
	Charset    string       `toml:"charset"`
	Columns    []tomlColumn `toml:"column"`
}

type tomlColumn struct {
	Name     string `toml:"name"`
	Type     string `toml:"type"`
	Length   int    `toml:"length"`
	Nullable bool   `toml:"nullable"`
	Unsigned bool   `toml:"unsigned"`
	Charset  string `toml:"charset"`
}

// ParseTableDefTOML builds a TableDef from TOML bytes.
func ParseTableDefTOML(data []byte) (*TableDef, error) {
	var tt tomlTable
	if err := toml.Unmarshal(data, &tt); err != nil {
		return nil, fmt.Errorf("parse TOML schema: %w", err)
	}
	if tt.Name == "" {
		return nil, fmt.Errorf("TOML schema missing table name")
	}
	td := NewTableDef(tt.Name)
	td.Charset = tt.Charset
	for _, tc := range tt.Columns {
		if tc.Name == "" || tc.Type == "" {
			return nil, fmt.Errorf("TOML schema column missing name or type")
		}
		charset := tc.Charset
		if charset == "" {
			charset = tt.Charset
		}
		err := td.AddColumn(&Column{
			Name:     tc.Name,
			Type:     ColumnType(tc.Type),
			Length:   tc.Length,
			Nullable: tc.Nullable,
			Unsigned: tc.Unsigned,
			Charset:  charset,
		})
		if err != nil {
			return nil, err
		}
	}
	if len(tt.PrimaryKey) > 0 {
		if err := td.SetPrimaryKeys(tt.PrimaryKey); err != nil {
			return nil, err
		}
	}
	return td, nil
}

// LoadTableDefTOML reads and parses a TOML table definition file.
func LoadTableDefTOML(path string) (*TableDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read TOML schema %s: %w", path, err)
	}
	return ParseTableDefTOML(data)
}
