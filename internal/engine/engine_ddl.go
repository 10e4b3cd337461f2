package engine

import (
	"fmt"

	"go.uber.org/zap"

	"rowkeep/internal/sql"
	"rowkeep/internal/storage"
)

func (e *Engine) execCreateTable(s *sql.CreateTableStmt) (Result, error) {
	fields := make([]storage.Field, len(s.Columns))
	for i, c := range s.Columns {
		dt, err := storage.ParseDataType(c.Type)
		if err != nil {
			return Result{}, err
		}
		fields[i] = storage.Field{Name: c.Name, Datatype: dt}
	}

	schema, err := storage.NewTableSchema(fields)
	if err != nil {
		return Result{}, err
	}

	if _, err := e.db.CreateTable(s.Table, schema); err != nil {
		return Result{}, fmt.Errorf("engine: create table %q: %w", s.Table, err)
	}

	e.log.Info("table created", zap.String("table", s.Table))
	return Result{Message: fmt.Sprintf("table %q created", s.Table)}, nil
}

func (e *Engine) execDropTable(s *sql.DropTableStmt) (Result, error) {
	if err := e.db.DropTable(s.Table); err != nil {
		return Result{}, fmt.Errorf("engine: drop table %q: %w", s.Table, err)
	}
	e.log.Info("table dropped", zap.String("table", s.Table))
	return Result{Message: fmt.Sprintf("table %q dropped", s.Table)}, nil
}
