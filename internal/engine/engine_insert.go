package engine

import (
	"fmt"

	"rowkeep/internal/sql"
	"rowkeep/internal/storage"
)

func (e *Engine) execInsert(s *sql.InsertStmt) (Result, error) {
	table, err := e.db.GetTable(s.Table)
	if err != nil {
		return Result{}, err
	}

	values := make(map[string]storage.Value, len(s.Assignments))
	for _, a := range s.Assignments {
		if a.Column == "id" {
			return Result{}, fmt.Errorf("%w: field \"id\" is assigned automatically and may not be inserted", storage.ErrInvalidValue)
		}
		idx, ok := table.Schema.IndexOf(a.Column)
		if !ok {
			return Result{}, fmt.Errorf("%w: no such column %q", storage.ErrSchemaError, a.Column)
		}
		f, _ := table.Schema.FieldAt(idx)
		v, err := coerceLiteral(a.Literal, f)
		if err != nil {
			return Result{}, err
		}
		values[a.Column] = v
	}

	row, err := table.Create(values)
	if err != nil {
		return Result{}, fmt.Errorf("engine: insert into %q: %w", s.Table, err)
	}

	e.log.Info("row inserted", zapFields(s.Table, row.ID())...)
	return Result{Message: fmt.Sprintf("1 row inserted with id %d", row.ID())}, nil
}
