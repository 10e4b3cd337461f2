package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelect(t *testing.T) {
	stmt, err := Parse("SELECT id, name FROM users WHERE id = 3 AND active = true")
	require.NoError(t, err)

	sel, ok := stmt.(*SelectStmt)
	require.True(t, ok)
	assert.Equal(t, "users", sel.Table)
	assert.Equal(t, []string{"id", "name"}, sel.Fields)
	require.Len(t, sel.Conditions, 2)
	assert.Equal(t, "id", sel.Conditions[0].Column)
	assert.Equal(t, int64(3), sel.Conditions[0].Literal.Int)
	assert.Equal(t, "active", sel.Conditions[1].Column)
	assert.True(t, sel.Conditions[1].Literal.Bool)
}

func TestParseSelectNoWhere(t *testing.T) {
	stmt, err := Parse("SELECT id FROM users")
	require.NoError(t, err)
	sel := stmt.(*SelectStmt)
	assert.Equal(t, "users", sel.Table)
	assert.Equal(t, []string{"id"}, sel.Fields)
	assert.Empty(t, sel.Conditions)
}

func TestParseSelectSingleField(t *testing.T) {
	stmt, err := Parse("SELECT id FROM users WHERE name = 'Alice'")
	require.NoError(t, err)
	sel := stmt.(*SelectStmt)
	assert.Equal(t, []string{"id"}, sel.Fields)
	require.Len(t, sel.Conditions, 1)
	assert.Equal(t, "name", sel.Conditions[0].Column)
	assert.Equal(t, "Alice", sel.Conditions[0].Literal.Str)
}

func TestParseSelectRequiresAtLeastOneField(t *testing.T) {
	_, err := Parse("SELECT FROM users")
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestParseInsert(t *testing.T) {
	stmt, err := Parse("INSERT INTO users name = 'ada', age = 36")
	require.NoError(t, err)

	ins, ok := stmt.(*InsertStmt)
	require.True(t, ok)
	assert.Equal(t, "users", ins.Table)
	require.Len(t, ins.Assignments, 2)
	assert.Equal(t, "name", ins.Assignments[0].Column)
	assert.Equal(t, "ada", ins.Assignments[0].Literal.Str)
	assert.Equal(t, "age", ins.Assignments[1].Column)
	assert.Equal(t, int64(36), ins.Assignments[1].Literal.Int)
}

func TestParseInsertSingleAssignment(t *testing.T) {
	stmt, err := Parse("INSERT INTO t name = 'Zoe'")
	require.NoError(t, err)
	ins := stmt.(*InsertStmt)
	assert.Equal(t, "t", ins.Table)
	require.Len(t, ins.Assignments, 1)
	assert.Equal(t, "name", ins.Assignments[0].Column)
	assert.Equal(t, "Zoe", ins.Assignments[0].Literal.Str)
}

func TestParseUpdate(t *testing.T) {
	stmt, err := Parse("UPDATE users SET name = 'grace', age = 40 WHERE id = 7")
	require.NoError(t, err)

	upd, ok := stmt.(*UpdateStmt)
	require.True(t, ok)
	assert.Equal(t, "users", upd.Table)
	assert.Equal(t, int32(7), upd.ID)
	require.Len(t, upd.Assignments, 2)
	assert.Equal(t, "name", upd.Assignments[0].Column)
}

func TestParseUpdateRejectsNonIDWhere(t *testing.T) {
	_, err := Parse("UPDATE users SET name = 'grace' WHERE name = 'ada'")
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestParseDelete(t *testing.T) {
	stmt, err := Parse("DELETE FROM users WHERE id = 12")
	require.NoError(t, err)
	del, ok := stmt.(*DeleteStmt)
	require.True(t, ok)
	assert.Equal(t, "users", del.Table)
	assert.Equal(t, int32(12), del.ID)
}

func TestParseCreateTable(t *testing.T) {
	stmt, err := Parse("CREATE TABLE users (id: Int, name: Str, active: Bool)")
	require.NoError(t, err)

	ct, ok := stmt.(*CreateTableStmt)
	require.True(t, ok)
	assert.Equal(t, "users", ct.Table)
	require.Len(t, ct.Columns, 3)
	assert.Equal(t, ColumnDef{Name: "id", Type: "Int"}, ct.Columns[0])
	assert.Equal(t, ColumnDef{Name: "active", Type: "Bool"}, ct.Columns[2])
}

func TestParseDropTable(t *testing.T) {
	stmt, err := Parse("DROP TABLE users")
	require.NoError(t, err)
	dt, ok := stmt.(*DropTableStmt)
	require.True(t, ok)
	assert.Equal(t, "users", dt.Table)
}

func TestParseDateTimeLiteral(t *testing.T) {
	stmt, err := Parse("INSERT INTO events id = 1, at = 2024-01-02T15:04:05")
	require.NoError(t, err)
	ins := stmt.(*InsertStmt)
	require.Len(t, ins.Assignments, 2)
	assert.Equal(t, LitDateTime, ins.Assignments[1].Literal.Kind)
	assert.Equal(t, "2024-01-02T15:04:05", ins.Assignments[1].Literal.DateTime)
}

func TestParseTrailingTokensRejected(t *testing.T) {
	_, err := Parse("SELECT id FROM users EXTRA")
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestParseUnknownStatement(t *testing.T) {
	_, err := Parse("MERGE users")
	assert.ErrorIs(t, err, ErrSyntax)
}
