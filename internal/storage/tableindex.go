package storage

import (
	"encoding/binary"
	"fmt"
	"os"
	"sort"
)

// indexEntrySize is the fixed width of one (id, offset) pair on disk: a
// 4-byte signed little-endian id followed by an 8-byte unsigned
// little-endian offset. There is no header and no delimiter between
// entries.
const indexEntrySize = 12

// TableIndex is a persistent sorted mapping from row id to byte offset
// within the table's data file. It is dumped in full on every mutation;
// for the row counts this store targets, the O(n) rewrite is simpler and
// plenty fast compared to maintaining an in-place on-disk structure.
type TableIndex struct {
	path    string
	entries map[int32]uint64
}

// OpenTableIndex loads path if it exists, or starts empty if it doesn't.
func OpenTableIndex(path string) (*TableIndex, error) {
	idx := &TableIndex{path: path, entries: make(map[int32]uint64)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return idx, nil
		}
		return nil, fmt.Errorf("storage: reading index file %s: %w", path, err)
	}

	if len(data)%indexEntrySize != 0 {
		return nil, fmt.Errorf("%w: index file %s length %d is not a multiple of %d", ErrEncoding, path, len(data), indexEntrySize)
	}

	for off := 0; off < len(data); off += indexEntrySize {
		chunk := data[off : off+indexEntrySize]
		id := int32(binary.LittleEndian.Uint32(chunk[0:4]))
		offset := binary.LittleEndian.Uint64(chunk[4:12])
		idx.entries[id] = offset
	}

	return idx, nil
}

// dump rewrites the entire index file from the in-memory map, sorted by
// id, matching the original implementation's SortedDict-backed dump.
func (idx *TableIndex) dump() error {
	ids := make([]int32, 0, len(idx.entries))
	for id := range idx.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	buf := make([]byte, 0, len(ids)*indexEntrySize)
	for _, id := range ids {
		chunk := make([]byte, indexEntrySize)
		binary.LittleEndian.PutUint32(chunk[0:4], uint32(id))
		binary.LittleEndian.PutUint64(chunk[4:12], idx.entries[id])
		buf = append(buf, chunk...)
	}

	if err := os.WriteFile(idx.path, buf, 0o644); err != nil {
		return fmt.Errorf("storage: writing index file %s: %w", idx.path, err)
	}
	return nil
}

// Exists reports whether id has an index entry.
func (idx *TableIndex) Exists(id int32) bool {
	_, ok := idx.entries[id]
	return ok
}

// Get returns the byte offset stored for id.
func (idx *TableIndex) Get(id int32) (uint64, bool) {
	off, ok := idx.entries[id]
	return off, ok
}

// GetNextID returns one greater than the current maximum id, or 0 if the
// index is empty.
func (idx *TableIndex) GetNextID() int32 {
	if len(idx.entries) == 0 {
		return 0
	}
	var max int32
	first := true
	for id := range idx.entries {
		if first || id > max {
			max = id
			first = false
		}
	}
	return max + 1
}

// Set records id's offset and persists the index.
func (idx *TableIndex) Set(id int32, offset uint64) error {
	idx.entries[id] = offset
	return idx.dump()
}

// Delete removes id's entry and persists the index.
func (idx *TableIndex) Delete(id int32) error {
	delete(idx.entries, id)
	return idx.dump()
}

// Clear drops every entry and persists the (now empty) index.
func (idx *TableIndex) Clear() error {
	idx.entries = make(map[int32]uint64)
	return idx.dump()
}

// Replace atomically swaps the index contents for newEntries and persists
// the result, used by Table.refreshIndexes after a full rebuild scan.
func (idx *TableIndex) Replace(newEntries map[int32]uint64) error {
	idx.entries = newEntries
	return idx.dump()
}

// Len returns the number of indexed ids.
func (idx *TableIndex) Len() int {
	return len(idx.entries)
}

// Close is a no-op placeholder mirroring the original's file-handle
// lifecycle; TableIndex keeps no open handle between mutations.
func (idx *TableIndex) Close() error {
	return nil
}
