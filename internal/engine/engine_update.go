package engine

import (
	"errors"
	"fmt"

	"rowkeep/internal/sql"
	"rowkeep/internal/storage"
)

func (e *Engine) execUpdate(s *sql.UpdateStmt) (Result, error) {
	table, err := e.db.GetTable(s.Table)
	if err != nil {
		return Result{}, err
	}

	values := make(map[string]storage.Value, len(s.Assignments))
	for _, a := range s.Assignments {
		if a.Column == "id" {
			return Result{}, fmt.Errorf("%w: field \"id\" is immutable", storage.ErrInvalidValue)
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

	if _, err := table.Update(s.ID, values); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Result{Message: "0 entries updated!"}, nil
		}
		return Result{}, fmt.Errorf("engine: update %q id %d: %w", s.Table, s.ID, err)
	}

	e.log.Info("row updated", zapFields(s.Table, s.ID)...)
	return Result{Message: "1 entry updated!"}, nil
}
