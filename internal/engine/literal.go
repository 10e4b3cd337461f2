package engine

import (
	"fmt"
	"time"

	"rowkeep/internal/sql"
	"rowkeep/internal/storage"
)

// coerceLiteral converts a parsed literal into a storage.Value matching
// field's declared type, mirroring the original implementation's
// value_to_dtype coercion.
func coerceLiteral(lit sql.Literal, field storage.Field) (storage.Value, error) {
	switch field.Datatype {
	case storage.TypeInt:
		if lit.Kind != sql.LitInt {
			return storage.Value{}, fmt.Errorf("%w: field %q expects an Int literal", storage.ErrInvalidValue, field.Name)
		}
		return storage.EncodeInt64(lit.Int)
	case storage.TypeBool:
		if lit.Kind != sql.LitBool {
			return storage.Value{}, fmt.Errorf("%w: field %q expects a Bool literal", storage.ErrInvalidValue, field.Name)
		}
		return storage.BoolValue(lit.Bool), nil
	case storage.TypeStr:
		if lit.Kind != sql.LitStr {
			return storage.Value{}, fmt.Errorf("%w: field %q expects a Str literal", storage.ErrInvalidValue, field.Name)
		}
		return storage.StrValue(lit.Str), nil
	case storage.TypeDateTime:
		if lit.Kind != sql.LitDateTime {
			return storage.Value{}, fmt.Errorf("%w: field %q expects a DateTime literal", storage.ErrInvalidValue, field.Name)
		}
		ts, err := time.Parse("2006-01-02T15:04:05", lit.DateTime)
		if err != nil {
			return storage.Value{}, fmt.Errorf("%w: malformed datetime %q", storage.ErrInvalidValue, lit.DateTime)
		}
		return storage.DateTimeValue(ts.UTC()), nil
	default:
		return storage.Value{}, fmt.Errorf("%w: unknown field type for %q", storage.ErrSchemaError, field.Name)
	}
}
