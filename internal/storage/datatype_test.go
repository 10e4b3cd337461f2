package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []Value{
		IntValue(42),
		IntValue(-1),
		BoolValue(true),
		BoolValue(false),
		StrValue("hello"),
		DateTimeValue(time.Unix(1700000000, 0).UTC()),
	}

	for _, v := range cases {
		raw, err := Encode(v)
		require.NoError(t, err)
		got, err := Decode(v.Type, raw)
		require.NoError(t, err)
		assert.True(t, v.Equal(got))
	}
}

func TestIntEncodingIsBigEndianFourBytes(t *testing.T) {
	raw, err := Encode(IntValue(1))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x01}, raw)
}

func TestBoolEncodingIsSingleByte(t *testing.T) {
	raw, err := Encode(BoolValue(true))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01}, raw)

	raw, err = Encode(BoolValue(false))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00}, raw)
}

func TestStrRejectsEmbeddedDelimiter(t *testing.T) {
	bad := string(fieldsDelimiter) + "oops"
	_, err := Encode(StrValue(bad))
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestEncodeInt64RejectsOutOfRange(t *testing.T) {
	_, err := EncodeInt64(1 << 40)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestDateTimeTruncatesSubSecond(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 999999999, time.UTC)
	raw, err := Encode(DateTimeValue(ts))
	require.NoError(t, err)
	got, err := Decode(TypeDateTime, raw)
	require.NoError(t, err)
	assert.Equal(t, 0, got.DateTime.Nanosecond())
	assert.Equal(t, ts.Unix(), got.DateTime.Unix())
}

func TestDecodeRejectsWrongWidth(t *testing.T) {
	_, err := Decode(TypeInt, []byte{0x01, 0x02})
	assert.ErrorIs(t, err, ErrEncoding)
}
