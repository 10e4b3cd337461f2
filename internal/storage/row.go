package storage

import "fmt"

// Row is a tuple of values positioned according to a TableSchema.
type Row struct {
	Schema *TableSchema
	Values []Value
}

// NewRow builds a row, validating that values has one entry per schema
// field and that each value's type matches its field's declared type.
func NewRow(schema *TableSchema, values []Value) (Row, error) {
	if len(values) != schema.Len() {
		return Row{}, fmt.Errorf("%w: expected %d values, got %d", ErrSchemaError, schema.Len(), len(values))
	}
	for i, v := range values {
		f, _ := schema.FieldAt(i)
		if v.Type != f.Datatype {
			return Row{}, fmt.Errorf("%w: field %q expects %v, got %v", ErrSchemaError, f.Name, f.Datatype, v.Type)
		}
	}
	return Row{Schema: schema, Values: values}, nil
}

// Get returns the value of the named field.
func (r Row) Get(name string) (Value, bool) {
	i, ok := r.Schema.IndexOf(name)
	if !ok {
		return Value{}, false
	}
	return r.Values[i], true
}

// Set returns a copy of the row with the named field replaced by v.
func (r Row) Set(name string, v Value) (Row, error) {
	i, ok := r.Schema.IndexOf(name)
	if !ok {
		return Row{}, fmt.Errorf("%w: no such field %q", ErrSchemaError, name)
	}
	f, _ := r.Schema.FieldAt(i)
	if v.Type != f.Datatype {
		return Row{}, fmt.Errorf("%w: field %q expects %v, got %v", ErrSchemaError, name, f.Datatype, v.Type)
	}
	cp := make([]Value, len(r.Values))
	copy(cp, r.Values)
	cp[i] = v
	return Row{Schema: r.Schema, Values: cp}, nil
}

// ID returns the row's mandatory id field.
func (r Row) ID() int32 {
	return r.Values[r.Schema.IDIndex()].Int
}

// Equal reports whether two rows hold the same values in the same order.
func (r Row) Equal(o Row) bool {
	if len(r.Values) != len(o.Values) {
		return false
	}
	for i := range r.Values {
		if !r.Values[i].Equal(o.Values[i]) {
			return false
		}
	}
	return true
}
