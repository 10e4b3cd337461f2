package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

const metaFileName = "meta.json"

// Database is the catalog: it owns the on-disk metadata describing which
// tables exist and owns their underlying Table handles: every listed table
// is opened when the database is opened, and stays open until it is
// dropped or the database is closed.
type Database struct {
	dataRoot     string
	metadataPath string
	log          *zap.Logger

	tables map[string]*Table
	meta   Metadata
}

// OpenDatabase loads (or initializes) the catalog rooted at dataRoot,
// opening every table it lists.
func OpenDatabase(dataRoot string, log *zap.Logger) (*Database, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(dataRoot, 0o755); err != nil {
		return nil, fmt.Errorf("storage: creating data root %s: %w", dataRoot, err)
	}

	db := &Database{
		dataRoot:     dataRoot,
		metadataPath: filepath.Join(dataRoot, metaFileName),
		log:          log,
		tables:       make(map[string]*Table),
	}

	if err := db.readMetadata(); err != nil {
		return nil, err
	}
	if err := db.initTables(); err != nil {
		return nil, err
	}

	log.Info("database opened", zap.String("data_root", dataRoot), zap.Int("tables", len(db.meta.Tables)))
	return db, nil
}

func (db *Database) readMetadata() error {
	data, err := os.ReadFile(db.metadataPath)
	if err != nil {
		if os.IsNotExist(err) {
			db.meta = Metadata{Tables: nil}
			return db.writeMetadata()
		}
		return fmt.Errorf("storage: reading catalog %s: %w", db.metadataPath, err)
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return fmt.Errorf("%w: decoding catalog %s: %v", ErrSchemaError, db.metadataPath, err)
	}
	db.meta = meta
	return nil
}

func (db *Database) writeMetadata() error {
	data, err := json.MarshalIndent(db.meta, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encoding catalog: %w", err)
	}
	if err := os.WriteFile(db.metadataPath, data, 0o644); err != nil {
		return fmt.Errorf("storage: writing catalog %s: %w", db.metadataPath, err)
	}
	return nil
}

func (db *Database) initTables() error {
	for _, m := range db.meta.Tables {
		t, err := OpenTable(m.Name, m.Schema.Clone(), db.dataFilePath(m.Filename), db.indexFilePath(m.Filename), db.log)
		if err != nil {
			return fmt.Errorf("storage: opening table %q: %w", m.Name, err)
		}
		db.tables[m.Name] = t
	}
	return nil
}

func (db *Database) dataFilePath(filename string) string {
	return filepath.Join(db.dataRoot, filename)
}

func (db *Database) indexFilePath(filename string) string {
	return filepath.Join(db.dataRoot, filename+".idx")
}

// CreateTable registers a new table under name with the given schema,
// opens its files, and persists the updated catalog.
func (db *Database) CreateTable(name string, schema *TableSchema) (*Table, error) {
	if _, exists := db.tables[name]; exists {
		return nil, fmt.Errorf("%w: table %q", ErrAlreadyExists, name)
	}

	filename := "table_" + name + ".dat"
	meta := TableMeta{Name: name, Filename: filename, Schema: schema.Clone()}

	t, err := OpenTable(name, schema.Clone(), db.dataFilePath(filename), db.indexFilePath(filename), db.log)
	if err != nil {
		return nil, err
	}

	db.meta.Tables = append(db.meta.Tables, meta)
	if err := db.writeMetadata(); err != nil {
		t.Close()
		db.meta.Tables = db.meta.Tables[:len(db.meta.Tables)-1]
		return nil, err
	}

	db.tables[name] = t
	db.log.Info("table created", zap.String("table", name))
	return t, nil
}

// GetTable returns the open Table for name.
func (db *Database) GetTable(name string) (*Table, error) {
	t, ok := db.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: table %q", ErrNoSuchTable, name)
	}
	return t, nil
}

// ListTables returns every known table name, in catalog order.
func (db *Database) ListTables() []string {
	names := make([]string, len(db.meta.Tables))
	for i, m := range db.meta.Tables {
		names[i] = m.Name
	}
	return names
}

// DropTable closes a table's files, removes them from disk, and drops its
// catalog entry.
func (db *Database) DropTable(name string) error {
	t, ok := db.tables[name]
	if !ok {
		return fmt.Errorf("%w: table %q", ErrNoSuchTable, name)
	}

	if err := t.Close(); err != nil {
		return err
	}

	var filename string
	kept := db.meta.Tables[:0]
	for _, m := range db.meta.Tables {
		if m.Name == name {
			filename = m.Filename
			continue
		}
		kept = append(kept, m)
	}
	db.meta.Tables = kept
	delete(db.tables, name)

	if err := os.Remove(db.dataFilePath(filename)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: removing data file for %q: %w", name, err)
	}
	if err := os.Remove(db.indexFilePath(filename)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: removing index file for %q: %w", name, err)
	}

	if err := db.writeMetadata(); err != nil {
		return err
	}
	db.log.Info("table dropped", zap.String("table", name))
	return nil
}

// Close closes every open table.
func (db *Database) Close() error {
	var firstErr error
	for name, t := range db.tables {
		if err := t.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("storage: closing table %q: %w", name, err)
		}
	}
	return firstErr
}
