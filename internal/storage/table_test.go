package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestTable(t *testing.T) *Table {
	t.Helper()
	schema, err := NewTableSchema([]Field{
		{Name: "id", Datatype: TypeInt},
		{Name: "name", Datatype: TypeStr},
	})
	require.NoError(t, err)

	dir := t.TempDir()
	tbl, err := OpenTable("users", schema, filepath.Join(dir, "users.dat"), filepath.Join(dir, "users.dat.idx"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { tbl.Close() })
	return tbl
}

func TestTableCreateAssignsSequentialIDs(t *testing.T) {
	tbl := openTestTable(t)

	r0, err := tbl.Create(map[string]Value{"name": StrValue("ada")})
	require.NoError(t, err)
	r1, err := tbl.Create(map[string]Value{"name": StrValue("grace")})
	require.NoError(t, err)

	assert.Equal(t, int32(0), r0.ID())
	assert.Equal(t, int32(1), r1.ID())
}

func TestTableGetRoundTrip(t *testing.T) {
	tbl := openTestTable(t)
	created, err := tbl.Create(map[string]Value{"name": StrValue("ada")})
	require.NoError(t, err)

	got, err := tbl.Get(created.ID())
	require.NoError(t, err)
	assert.True(t, got.Equal(created))
}

func TestTableGetNotFound(t *testing.T) {
	tbl := openTestTable(t)
	_, err := tbl.Get(99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTableUpdateRejectsIDField(t *testing.T) {
	tbl := openTestTable(t)
	row, err := tbl.Create(map[string]Value{"name": StrValue("ada")})
	require.NoError(t, err)

	_, err = tbl.Update(row.ID(), map[string]Value{"id": IntValue(5)})
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestTableUpdateChangesValue(t *testing.T) {
	tbl := openTestTable(t)
	row, err := tbl.Create(map[string]Value{"name": StrValue("ada")})
	require.NoError(t, err)

	updated, err := tbl.Update(row.ID(), map[string]Value{"name": StrValue("grace")})
	require.NoError(t, err)

	v, ok := updated.Get("name")
	require.True(t, ok)
	assert.Equal(t, "grace", v.Str)

	refetched, err := tbl.Get(row.ID())
	require.NoError(t, err)
	v, _ = refetched.Get("name")
	assert.Equal(t, "grace", v.Str)
}

func TestTableDeleteThenGetFails(t *testing.T) {
	tbl := openTestTable(t)
	row, err := tbl.Create(map[string]Value{"name": StrValue("ada")})
	require.NoError(t, err)

	require.NoError(t, tbl.Delete(row.ID()))
	_, err = tbl.Get(row.ID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTableDeleteMiddlePreservesOthers(t *testing.T) {
	tbl := openTestTable(t)
	rows := make([]Row, 3)
	for i, name := range []string{"ada", "grace", "margaret"} {
		r, err := tbl.Create(map[string]Value{"name": StrValue(name)})
		require.NoError(t, err)
		rows[i] = r
	}

	require.NoError(t, tbl.Delete(rows[1].ID()))

	_, err := tbl.Get(rows[1].ID())
	assert.ErrorIs(t, err, ErrNotFound)

	first, err := tbl.Get(rows[0].ID())
	require.NoError(t, err)
	v, _ := first.Get("name")
	assert.Equal(t, "ada", v.Str)

	last, err := tbl.Get(rows[2].ID())
	require.NoError(t, err)
	v, _ = last.Get("name")
	assert.Equal(t, "margaret", v.Str)
}

func TestTableSelectFiltersRows(t *testing.T) {
	tbl := openTestTable(t)
	tbl.Create(map[string]Value{"name": StrValue("ada")})
	tbl.Create(map[string]Value{"name": StrValue("grace")})

	rows, err := tbl.Select(func(r Row) bool {
		v, _ := r.Get("name")
		return v.Str == "grace"
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	v, _ := rows[0].Get("name")
	assert.Equal(t, "grace", v.Str)
}

func TestTableFindReturnsFirstMatch(t *testing.T) {
	tbl := openTestTable(t)
	tbl.Create(map[string]Value{"name": StrValue("ada")})
	tbl.Create(map[string]Value{"name": StrValue("grace")})

	row, err := tbl.Find(func(r Row) bool {
		v, _ := r.Get("name")
		return v.Str == "grace"
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), row.ID())
}

func TestTableSelectSortedByIDAfterUpdateRelocatesRow(t *testing.T) {
	tbl := openTestTable(t)
	for _, name := range []string{"ada", "grace", "margaret"} {
		_, err := tbl.Create(map[string]Value{"name": StrValue(name)})
		require.NoError(t, err)
	}

	_, err := tbl.Update(0, map[string]Value{"name": StrValue("ada2")})
	require.NoError(t, err)

	rows, err := tbl.Select(nil)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []int32{0, 1, 2}, []int32{rows[0].ID(), rows[1].ID(), rows[2].ID()})
}

func TestTableFindNotFound(t *testing.T) {
	tbl := openTestTable(t)
	_, err := tbl.Find(func(Row) bool { return false })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTableCloseIsIdempotent(t *testing.T) {
	tbl := openTestTable(t)
	require.NoError(t, tbl.Close())
	require.NoError(t, tbl.Close())
}

func TestTableOperationsFailAfterClose(t *testing.T) {
	tbl := openTestTable(t)
	require.NoError(t, tbl.Close())

	_, err := tbl.Get(0)
	assert.ErrorIs(t, err, ErrClosed)
}
