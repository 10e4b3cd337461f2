package storage

import (
	"fmt"
	"io"
	"sort"

	"go.uber.org/zap"
)

type tableState int

const (
	stateOpen tableState = iota
	stateClosed
)

// Table coordinates a TableFile and a TableIndex to provide row-level CRUD
// atop the raw byte stream. Construction, id assignment and the
// open/closed lifecycle live here; framing lives in TableFile and id→offset
// bookkeeping lives in TableIndex.
type Table struct {
	Name   string
	Schema *TableSchema

	file  *TableFile
	index *TableIndex
	state tableState
	log   *zap.Logger
}

// OpenTable opens (or creates) the data and index files for a table.
func OpenTable(name string, schema *TableSchema, dataPath, indexPath string, log *zap.Logger) (*Table, error) {
	file, err := OpenTableFile(dataPath, schema)
	if err != nil {
		return nil, err
	}
	index, err := OpenTableIndex(indexPath)
	if err != nil {
		file.Close()
		return nil, err
	}
	return &Table{
		Name:   name,
		Schema: schema,
		file:   file,
		index:  index,
		state:  stateOpen,
		log:    log,
	}, nil
}

func (t *Table) requireOpen() error {
	if t.state == stateClosed {
		return fmt.Errorf("%w: table %q", ErrClosed, t.Name)
	}
	return nil
}

// Close flushes and closes the table's file and index. Close is
// idempotent: calling it on an already-closed table is a no-op.
func (t *Table) Close() error {
	if t.state == stateClosed {
		return nil
	}
	t.state = stateClosed
	if err := t.file.Close(); err != nil {
		if t.log != nil {
			t.log.Warn("table close: data file flush failed", zap.String("table", t.Name), zap.Error(err))
		}
		return err
	}
	return nil
}

// Get returns the row with the given id.
func (t *Table) Get(id int32) (Row, error) {
	if err := t.requireOpen(); err != nil {
		return Row{}, err
	}

	offset, ok := t.index.Get(id)
	if !ok {
		return Row{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}

	if err := t.file.Seek(int64(offset)); err != nil {
		return Row{}, err
	}
	row, err := t.file.ReadRow()
	if err != nil {
		return Row{}, fmt.Errorf("storage: reading row %d at offset %d: %w", id, offset, err)
	}
	if row.ID() != id {
		return Row{}, &IndexCorruptError{ID: id, Offset: int64(offset), FoundID: row.ID()}
	}
	return row, nil
}

// Select scans every row in the table, invoking keep for each, and returns
// the matches sorted by id ascending. File order tracks insertion/update
// history rather than id order (Update relocates rows to end-of-file), so
// the sort is required, not cosmetic.
func (t *Table) Select(keep func(Row) bool) ([]Row, error) {
	if err := t.requireOpen(); err != nil {
		return nil, err
	}

	if err := t.file.AtBeginning(); err != nil {
		return nil, err
	}

	var out []Row
	for {
		row, err := t.file.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if keep == nil || keep(row) {
			out = append(out, row)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

// Create inserts a new row, assigning it the next available id, and
// returns the row as stored (with its id field populated).
func (t *Table) Create(values map[string]Value) (Row, error) {
	if err := t.requireOpen(); err != nil {
		return Row{}, err
	}

	id := t.index.GetNextID()
	fields := t.Schema.Fields()
	rowValues := make([]Value, len(fields))
	for i, f := range fields {
		if f.Name == "id" {
			rowValues[i] = IntValue(id)
			continue
		}
		v, ok := values[f.Name]
		if !ok {
			return Row{}, fmt.Errorf("%w: missing value for field %q", ErrSchemaError, f.Name)
		}
		if v.Type != f.Datatype {
			return Row{}, fmt.Errorf("%w: field %q expects %v, got %v", ErrSchemaError, f.Name, f.Datatype, v.Type)
		}
		rowValues[i] = v
	}

	row, err := NewRow(t.Schema, rowValues)
	if err != nil {
		return Row{}, err
	}

	if _, err := t.file.AtEnd(); err != nil {
		return Row{}, err
	}
	offset, err := t.file.WriteRow(row)
	if err != nil {
		return Row{}, err
	}
	if err := t.index.Set(id, uint64(offset)); err != nil {
		return Row{}, err
	}

	return row, nil
}

// Update replaces every field in values on the row with the given id. The
// "id" field is immutable: values containing it fail with ErrInvalidValue
// and nothing is written. Because the new record's encoded length
// can differ from the old one's, the update is performed as an erase of
// the old record followed by an append of the new one, then a single
// index entry update — it never overwrites bytes in place.
func (t *Table) Update(id int32, values map[string]Value) (Row, error) {
	if err := t.requireOpen(); err != nil {
		return Row{}, err
	}
	if _, immutable := values["id"]; immutable {
		return Row{}, fmt.Errorf("%w: field \"id\" is immutable", ErrInvalidValue)
	}

	old, offset, err := t.findOffset(id)
	if err != nil {
		return Row{}, err
	}

	oldLen, err := RecordLen(old)
	if err != nil {
		return Row{}, err
	}

	newValues := make([]Value, len(old.Values))
	copy(newValues, old.Values)
	for name, v := range values {
		i, ok := t.Schema.IndexOf(name)
		if !ok {
			return Row{}, fmt.Errorf("%w: no such field %q", ErrSchemaError, name)
		}
		f, _ := t.Schema.FieldAt(i)
		if v.Type != f.Datatype {
			return Row{}, fmt.Errorf("%w: field %q expects %v, got %v", ErrSchemaError, name, f.Datatype, v.Type)
		}
		newValues[i] = v
	}

	newRow, err := NewRow(t.Schema, newValues)
	if err != nil {
		return Row{}, err
	}

	if err := t.file.Erase(offset, oldLen); err != nil {
		return Row{}, err
	}
	if err := t.refreshIndexes(); err != nil {
		return Row{}, err
	}

	if _, err := t.file.AtEnd(); err != nil {
		return Row{}, err
	}
	newOffset, err := t.file.WriteRow(newRow)
	if err != nil {
		return Row{}, err
	}
	if err := t.index.Set(id, uint64(newOffset)); err != nil {
		return Row{}, err
	}

	return newRow, nil
}

// Delete removes the row with the given id. Because erasing a record
// shifts every byte after it, every offset recorded for later records is
// invalidated, so Delete rebuilds the whole index via refreshIndexes
// rather than trying to patch individual entries.
func (t *Table) Delete(id int32) error {
	if err := t.requireOpen(); err != nil {
		return err
	}

	row, offset, err := t.findOffset(id)
	if err != nil {
		return err
	}
	recLen, err := RecordLen(row)
	if err != nil {
		return err
	}

	if err := t.file.Erase(offset, recLen); err != nil {
		return err
	}
	return t.refreshIndexes()
}

// Find returns the first row for which pred returns true, scanning in file
// order, or ErrNotFound if none match.
func (t *Table) Find(pred func(Row) bool) (Row, error) {
	if err := t.requireOpen(); err != nil {
		return Row{}, err
	}
	if err := t.file.AtBeginning(); err != nil {
		return Row{}, err
	}
	for {
		row, err := t.file.ReadRow()
		if err == io.EOF {
			return Row{}, fmt.Errorf("%w: no matching row", ErrNotFound)
		}
		if err != nil {
			return Row{}, err
		}
		if pred(row) {
			return row, nil
		}
	}
}

// findOffset scans the data file from the beginning for the row with the
// given id, like Find, but also returns its byte offset. Delete and
// Update's erase step go through this linear scan rather than the index
// deliberately: it validates that the file itself, not just the index,
// agrees a row with this id exists at this position.
func (t *Table) findOffset(id int32) (Row, int64, error) {
	if err := t.file.AtBeginning(); err != nil {
		return Row{}, 0, err
	}
	for {
		off, err := t.file.Position()
		if err != nil {
			return Row{}, 0, err
		}
		row, err := t.file.ReadRow()
		if err == io.EOF {
			return Row{}, 0, fmt.Errorf("%w: id %d", ErrNotFound, id)
		}
		if err != nil {
			return Row{}, 0, err
		}
		if row.ID() == id {
			return row, off, nil
		}
	}
}

// refreshIndexes rebuilds the id→offset index by scanning the entire data
// file from the start. This is the O(n) rebuild Delete and Update rely on
// after erasing a record shifts subsequent offsets.
func (t *Table) refreshIndexes() error {
	if err := t.file.AtBeginning(); err != nil {
		return err
	}

	entries := make(map[int32]uint64)
	for {
		off, err := t.file.Position()
		if err != nil {
			return err
		}
		row, err := t.file.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		entries[row.ID()] = uint64(off)
	}

	return t.index.Replace(entries)
}
