// Package engine executes parsed query statements against the storage
// catalog: it routes each sql.Statement to the matching storage.Database/
// storage.Table operation, coercing literals into typed storage.Values and
// formatting rows back into a displayable Result.
package engine

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"rowkeep/internal/sql"
	"rowkeep/internal/storage"
)

// Engine binds a catalog to a logger and dispatches statements to it.
type Engine struct {
	db  *storage.Database
	log *zap.Logger
}

// New builds an Engine over an already-open database.
func New(db *storage.Database, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{db: db, log: log}
}

// Result is the outcome of executing one statement: either a row set (for
// SELECT) or a plain status message (for everything else).
type Result struct {
	Columns []string
	Rows    []storage.Row
	Message string
}

// ListTables returns every known table name, for the REPL's .tables
// command.
func (e *Engine) ListTables() []string {
	return e.db.ListTables()
}

// DescribeTable renders a table's schema as "name type[, name type ...]",
// for the REPL's .schema command.
func (e *Engine) DescribeTable(name string) string {
	table, err := e.db.GetTable(name)
	if err != nil {
		return err.Error()
	}
	parts := make([]string, 0, table.Schema.Len())
	for _, f := range table.Schema.Fields() {
		parts = append(parts, fmt.Sprintf("%s %s", f.Name, f.Datatype))
	}
	return strings.Join(parts, ", ")
}

// Execute routes stmt to its handler.
func (e *Engine) Execute(stmt sql.Statement) (Result, error) {
	switch s := stmt.(type) {
	case *sql.SelectStmt:
		return e.execSelect(s)
	case *sql.InsertStmt:
		return e.execInsert(s)
	case *sql.UpdateStmt:
		return e.execUpdate(s)
	case *sql.DeleteStmt:
		return e.execDelete(s)
	case *sql.CreateTableStmt:
		return e.execCreateTable(s)
	case *sql.DropTableStmt:
		return e.execDropTable(s)
	default:
		return Result{}, fmt.Errorf("engine: unsupported statement type %T", stmt)
	}
}
