package engine

import (
	"fmt"

	"rowkeep/internal/sql"
	"rowkeep/internal/storage"
)

func (e *Engine) execSelect(s *sql.SelectStmt) (Result, error) {
	table, err := e.db.GetTable(s.Table)
	if err != nil {
		return Result{}, err
	}

	keep, err := buildConditionPredicate(table.Schema, s.Conditions)
	if err != nil {
		return Result{}, err
	}

	for _, name := range s.Fields {
		if _, ok := table.Schema.IndexOf(name); !ok {
			return Result{}, fmt.Errorf("%w: no such column %q", storage.ErrSchemaError, name)
		}
	}

	rows, err := table.Select(keep)
	if err != nil {
		return Result{}, fmt.Errorf("engine: select from %q: %w", s.Table, err)
	}

	return Result{Columns: s.Fields, Rows: rows}, nil
}

// buildConditionPredicate compiles a chain of AND-ed equality conditions
// into a single Row predicate, coercing each condition's literal against
// its column's declared type up front so a type mismatch surfaces before
// any scanning happens.
func buildConditionPredicate(schema *storage.TableSchema, conds []sql.Condition) (func(storage.Row) bool, error) {
	if len(conds) == 0 {
		return nil, nil
	}

	type compiled struct {
		index int
		want  storage.Value
	}
	checks := make([]compiled, len(conds))
	for i, c := range conds {
		idx, ok := schema.IndexOf(c.Column)
		if !ok {
			return nil, fmt.Errorf("%w: no such column %q", storage.ErrSchemaError, c.Column)
		}
		f, _ := schema.FieldAt(idx)
		v, err := coerceLiteral(c.Literal, f)
		if err != nil {
			return nil, err
		}
		checks[i] = compiled{index: idx, want: v}
	}

	return func(row storage.Row) bool {
		for _, c := range checks {
			if !row.Values[c.index].Equal(c.want) {
				return false
			}
		}
		return true
	}, nil
}
