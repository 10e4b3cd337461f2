package engine

import (
	"errors"
	"fmt"

	"rowkeep/internal/sql"
	"rowkeep/internal/storage"
)

func (e *Engine) execDelete(s *sql.DeleteStmt) (Result, error) {
	table, err := e.db.GetTable(s.Table)
	if err != nil {
		return Result{}, err
	}

	if err := table.Delete(s.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Result{Message: "0 entries deleted!"}, nil
		}
		return Result{}, fmt.Errorf("engine: delete from %q id %d: %w", s.Table, s.ID, err)
	}

	e.log.Info("row deleted", zapFields(s.Table, s.ID)...)
	return Result{Message: "1 entry deleted!"}, nil
}
