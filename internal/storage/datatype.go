package storage

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

// DataType is the logical type tag of a stored value. Each variant has a
// fixed on-disk encoding except Str, whose length is implicit from the
// enclosing TableFile record framing (see tablefile.go).
type DataType int

const (
	TypeInt DataType = iota
	TypeBool
	TypeStr
	TypeDateTime
)

func (t DataType) String() string {
	switch t {
	case TypeInt:
		return "Int"
	case TypeBool:
		return "Bool"
	case TypeStr:
		return "Str"
	case TypeDateTime:
		return "DateTime"
	default:
		return fmt.Sprintf("DataType(%d)", int(t))
	}
}

// ParseDataType resolves the JSON/SQL spelling of a type tag back to a
// DataType, the inverse of String.
func ParseDataType(s string) (DataType, error) {
	switch s {
	case "Int":
		return TypeInt, nil
	case "Bool":
		return TypeBool, nil
	case "Str":
		return TypeStr, nil
	case "DateTime":
		return TypeDateTime, nil
	default:
		return 0, fmt.Errorf("%w: unknown datatype %q", ErrSchemaError, s)
	}
}

// Value is a tagged union holding exactly one variant, selected by Type.
// Only the field matching Type is meaningful.
type Value struct {
	Type     DataType
	Int      int32
	Bool     bool
	Str      string
	DateTime time.Time
}

// IntValue, BoolValue, StrValue and DateTimeValue build a tagged Value of
// the matching variant; they exist so call sites read as what they store
// rather than a bare struct literal.
func IntValue(v int32) Value      { return Value{Type: TypeInt, Int: v} }
func BoolValue(v bool) Value      { return Value{Type: TypeBool, Bool: v} }
func StrValue(v string) Value     { return Value{Type: TypeStr, Str: v} }
func DateTimeValue(v time.Time) Value { return Value{Type: TypeDateTime, DateTime: v} }

// Equal reports whether two values have the same type and contents.
func (v Value) Equal(o Value) bool {
	if v.Type != o.Type {
		return false
	}
	switch v.Type {
	case TypeInt:
		return v.Int == o.Int
	case TypeBool:
		return v.Bool == o.Bool
	case TypeStr:
		return v.Str == o.Str
	case TypeDateTime:
		return v.DateTime.Unix() == o.DateTime.Unix()
	default:
		return false
	}
}

// Encode serializes a value per its variant's fixed (or, for Str,
// framing-dependent) encoding.
//
// Int: 4 bytes big-endian two's complement.
// Bool: 1 byte, 0x00 or 0x01 (mirrors Python's struct "?" layout).
// DateTime: 8 bytes big-endian signed seconds since epoch, truncated to
// whole seconds.
// Str: raw UTF-8 bytes, no length prefix — the caller (TableFile) supplies
// framing. A Str whose bytes contain either delimiter pattern is rejected
// as a corruption hazard.
func Encode(v Value) ([]byte, error) {
	switch v.Type {
	case TypeInt:
		buf := make([]byte, 4)
		binary.BigEndian.PutUint32(buf, uint32(v.Int))
		return buf, nil
	case TypeBool:
		if v.Bool {
			return []byte{0x01}, nil
		}
		return []byte{0x00}, nil
	case TypeDateTime:
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, uint64(v.DateTime.Unix()))
		return buf, nil
	case TypeStr:
		b := []byte(v.Str)
		if bytes.Contains(b, fieldsDelimiter) || bytes.Contains(b, rowsDelimiter) {
			return nil, fmt.Errorf("%w: string value contains a reserved delimiter pattern", ErrInvalidValue)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%w: unknown datatype %v", ErrEncoding, v.Type)
	}
}

// Decode deserializes raw into a value of the given variant. For Int/Bool/
// DateTime, raw must be exactly the fixed width for that variant; for Str,
// raw is taken verbatim as UTF-8 (callers must already have split the
// field out of its framing before calling Decode).
func Decode(t DataType, raw []byte) (Value, error) {
	switch t {
	case TypeInt:
		if len(raw) != 4 {
			return Value{}, fmt.Errorf("%w: Int requires 4 bytes, got %d", ErrEncoding, len(raw))
		}
		return IntValue(int32(binary.BigEndian.Uint32(raw))), nil
	case TypeBool:
		if len(raw) != 1 {
			return Value{}, fmt.Errorf("%w: Bool requires 1 byte, got %d", ErrEncoding, len(raw))
		}
		return BoolValue(raw[0] != 0x00), nil
	case TypeDateTime:
		if len(raw) != 8 {
			return Value{}, fmt.Errorf("%w: DateTime requires 8 bytes, got %d", ErrEncoding, len(raw))
		}
		secs := int64(binary.BigEndian.Uint64(raw))
		return DateTimeValue(time.Unix(secs, 0).UTC()), nil
	case TypeStr:
		return StrValue(string(raw)), nil
	default:
		return Value{}, fmt.Errorf("%w: unknown datatype %v", ErrEncoding, t)
	}
}

// EncodeInt64 validates that v fits in a signed 32-bit Int before encoding,
// for callers (e.g. the SQL literal coercer) that parse integers wider
// than the storage width.
func EncodeInt64(v int64) (Value, error) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return Value{}, fmt.Errorf("%w: Int value %d out of 32-bit range", ErrInvalidValue, v)
	}
	return IntValue(int32(v)), nil
}
