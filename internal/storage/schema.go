package storage

import "fmt"

// Field describes a single column in a table schema.
type Field struct {
	Name     string
	Datatype DataType
	Nullable bool
}

// TableSchema is an ordered collection of fields. Order is semantic (it
// determines on-disk field order in every record) and is preserved across
// construction, JSON round-tripping, and lookup.
type TableSchema struct {
	fields  []Field
	byName  map[string]int
}

// NewTableSchema builds a schema from fields in the given order, enforcing
// the canonical validation rule: at least one field, and exactly one field
// named "id" of type Int.
func NewTableSchema(fields []Field) (*TableSchema, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: schema must declare at least one field", ErrSchemaError)
	}

	byName := make(map[string]int, len(fields))
	idCount := 0
	for i, f := range fields {
		if _, dup := byName[f.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate field name %q", ErrSchemaError, f.Name)
		}
		byName[f.Name] = i
		if f.Name == "id" {
			idCount++
			if f.Datatype != TypeInt {
				return nil, fmt.Errorf("%w: field \"id\" must be of type Int", ErrSchemaError)
			}
		}
	}
	if idCount != 1 {
		return nil, fmt.Errorf("%w: schema must declare exactly one field named \"id\"", ErrSchemaError)
	}

	cp := make([]Field, len(fields))
	copy(cp, fields)
	return &TableSchema{fields: cp, byName: byName}, nil
}

// Fields returns the schema's fields in declaration order. The returned
// slice is a copy; mutating it does not affect the schema.
func (s *TableSchema) Fields() []Field {
	cp := make([]Field, len(s.fields))
	copy(cp, s.fields)
	return cp
}

// Len returns the number of fields in the schema.
func (s *TableSchema) Len() int {
	return len(s.fields)
}

// FieldAt returns the field at the given schema-order position.
func (s *TableSchema) FieldAt(i int) (Field, bool) {
	if i < 0 || i >= len(s.fields) {
		return Field{}, false
	}
	return s.fields[i], true
}

// IndexOf returns the schema-order position of the named field.
func (s *TableSchema) IndexOf(name string) (int, bool) {
	i, ok := s.byName[name]
	return i, ok
}

// IDIndex returns the schema-order position of the mandatory "id" field.
func (s *TableSchema) IDIndex() int {
	i, ok := s.byName["id"]
	if !ok {
		panic("storage: schema invariant violated: no id field")
	}
	return i
}

// Clone returns a deep copy of the schema, used when a schema value needs
// to be owned independently by more than one holder (e.g. Table and its
// TableMeta entry in the catalog).
func (s *TableSchema) Clone() *TableSchema {
	fields := make([]Field, len(s.fields))
	copy(fields, s.fields)
	byName := make(map[string]int, len(s.byName))
	for k, v := range s.byName {
		byName[k] = v
	}
	return &TableSchema{fields: fields, byName: byName}
}
