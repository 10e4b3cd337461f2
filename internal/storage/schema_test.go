package storage

import "testing"

func TestNewTableSchemaRequiresIDField(t *testing.T) {
	_, err := NewTableSchema([]Field{{Name: "name", Datatype: TypeStr}})
	if err == nil {
		t.Fatal("expected an error for a schema with no id field")
	}
}

func TestNewTableSchemaRequiresIDIsInt(t *testing.T) {
	_, err := NewTableSchema([]Field{{Name: "id", Datatype: TypeStr}})
	if err == nil {
		t.Fatal("expected an error for an id field that isn't Int")
	}
}

func TestNewTableSchemaRejectsDuplicateNames(t *testing.T) {
	_, err := NewTableSchema([]Field{
		{Name: "id", Datatype: TypeInt},
		{Name: "name", Datatype: TypeStr},
		{Name: "name", Datatype: TypeStr},
	})
	if err == nil {
		t.Fatal("expected an error for duplicate field names")
	}
}

func TestTableSchemaPreservesFieldOrder(t *testing.T) {
	s, err := NewTableSchema([]Field{
		{Name: "id", Datatype: TypeInt},
		{Name: "b", Datatype: TypeStr},
		{Name: "a", Datatype: TypeStr},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fields := s.Fields()
	if fields[1].Name != "b" || fields[2].Name != "a" {
		t.Fatalf("expected declaration order to be preserved, got %+v", fields)
	}
}

func TestTableSchemaJSONRoundTrip(t *testing.T) {
	s, err := NewTableSchema([]Field{
		{Name: "id", Datatype: TypeInt},
		{Name: "b", Datatype: TypeStr},
		{Name: "a", Datatype: TypeBool},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := s.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got TableSchema
	if err := got.UnmarshalJSON(data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	gotFields := got.Fields()
	wantFields := s.Fields()
	if len(gotFields) != len(wantFields) {
		t.Fatalf("field count mismatch: got %d want %d", len(gotFields), len(wantFields))
	}
	for i := range wantFields {
		if gotFields[i] != wantFields[i] {
			t.Fatalf("field %d mismatch: got %+v want %+v", i, gotFields[i], wantFields[i])
		}
	}
}
