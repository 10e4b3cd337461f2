package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// jsonField mirrors Field for JSON purposes only; Datatype is spelled as
// its string name on the wire.
type jsonField struct {
	Name     string `json:"name"`
	Datatype string `json:"datatype"`
	Nullable bool   `json:"nullable"`
}

// MarshalJSON emits the schema as {"fields": [...]} walking the ordered
// field slice directly. Go's encoding/json does not preserve map key
// order, and field order is semantic here, so this bypasses any
// map[string]Field intermediate entirely.
func (s *TableSchema) MarshalJSON() ([]byte, error) {
	out := struct {
		Fields []jsonField `json:"fields"`
	}{Fields: make([]jsonField, len(s.fields))}

	for i, f := range s.fields {
		out.Fields[i] = jsonField{Name: f.Name, Datatype: f.Datatype.String(), Nullable: f.Nullable}
	}

	return json.Marshal(out)
}

// UnmarshalJSON restores the schema from its {"fields": [...]} form,
// rebuilding the name index and re-running NewTableSchema's validation.
func (s *TableSchema) UnmarshalJSON(data []byte) error {
	var in struct {
		Fields []jsonField `json:"fields"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&in); err != nil {
		return fmt.Errorf("%w: decoding schema: %v", ErrSchemaError, err)
	}

	fields := make([]Field, len(in.Fields))
	for i, jf := range in.Fields {
		dt, err := ParseDataType(jf.Datatype)
		if err != nil {
			return err
		}
		fields[i] = Field{Name: jf.Name, Datatype: dt, Nullable: jf.Nullable}
	}

	built, err := NewTableSchema(fields)
	if err != nil {
		return err
	}
	*s = *built
	return nil
}

// TableMeta is one table's catalog entry: its name, its data-file
// filename, and a copy of its schema. The schema here and the schema held
// by the live *Table are independently owned copies (Database clones the
// schema for each at create and open time) rather than aliased, so a change
// to one does not reach the other.
type TableMeta struct {
	Name     string       `json:"name"`
	Filename string       `json:"filename"`
	Schema   *TableSchema `json:"schema"`
}

// Metadata is the full on-disk catalog: every table this database knows
// about.
type Metadata struct {
	Tables []TableMeta `json:"tables"`
}
