package storage

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// fieldsDelimiter separates consecutive field values within one record.
// rowsDelimiter terminates a record. Neither pattern may appear inside a
// Str value (see Encode), so a byte-by-byte scan can never misidentify a
// delimiter embedded in field data.
var (
	fieldsDelimiter = []byte{0xFF, 0x00, 0xFF, 0x00, 0xFF, 0x00, 0xFF, 0x00}
	rowsDelimiter   = []byte{0x00, 0x7F, 0x00, 0xFF, 0x00, 0x7F, 0x00, 0xFF}
)

const delimiterSize = 8

// TableFile is the append-style byte stream backing one table's rows. It
// frames and decodes records against the schema it was opened with;
// Table is responsible for id assignment and id→offset bookkeeping.
type TableFile struct {
	path   string
	file   *os.File
	schema *TableSchema
}

// OpenTableFile opens (creating if absent) the file at path in read/write
// mode, unbuffered. The file is not opened with O_APPEND: callers seek to
// the end (AtEnd) before appending, and Erase rewrites bytes with WriteAt.
func OpenTableFile(path string, schema *TableSchema) (*TableFile, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("storage: opening table file %s: %w", path, err)
	}
	return &TableFile{path: path, file: f, schema: schema}, nil
}

// Close flushes and closes the underlying file.
func (tf *TableFile) Close() error {
	if err := tf.file.Sync(); err != nil {
		return fmt.Errorf("storage: syncing table file %s: %w", tf.path, err)
	}
	if err := tf.file.Close(); err != nil {
		return fmt.Errorf("storage: closing table file %s: %w", tf.path, err)
	}
	return nil
}

// Position returns the current read/write offset.
func (tf *TableFile) Position() (int64, error) {
	off, err := tf.file.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPosition, err)
	}
	return off, nil
}

// Seek moves the read/write offset to an absolute position.
func (tf *TableFile) Seek(offset int64) error {
	if offset < 0 {
		return fmt.Errorf("%w: negative offset %d", ErrInvalidPosition, offset)
	}
	if _, err := tf.file.Seek(offset, io.SeekStart); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPosition, err)
	}
	return nil
}

// AtBeginning seeks to the start of the file.
func (tf *TableFile) AtBeginning() error {
	return tf.Seek(0)
}

// AtEnd seeks to the end of the file and returns the resulting offset.
func (tf *TableFile) AtEnd() (int64, error) {
	off, err := tf.file.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPosition, err)
	}
	return off, nil
}

// readDelimited reads bytes one at a time until the trailing window
// matches delim, returning the bytes read before the delimiter (with the
// delimiter itself consumed but not included). io.EOF with no bytes read
// at all is returned verbatim so callers can detect end-of-file cleanly;
// any other premature end is a corruption.
func (tf *TableFile) readDelimited(delim []byte) ([]byte, error) {
	var out []byte
	window := make([]byte, 0, len(delim))
	buf := make([]byte, 1)

	for {
		n, err := tf.file.Read(buf)
		if n == 0 && err != nil {
			if err == io.EOF && len(out) == 0 && len(window) == 0 {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("storage: reading table file %s: %w", tf.path, err)
		}

		b := buf[0]
		window = append(window, b)
		if len(window) > len(delim) {
			out = append(out, window[0])
			window = window[1:]
		}
		if bytes.Equal(window, delim) {
			return out, nil
		}
	}
}

// validatePrecedingDelimiter checks that the 8 bytes immediately before pos
// are ROWS_DELIMITER, i.e. that pos genuinely begins a record rather than
// landing mid-record. Called whenever ReadRow starts somewhere other than
// the very beginning of the file.
func (tf *TableFile) validatePrecedingDelimiter(pos int64) error {
	if pos < delimiterSize {
		return &FilePointerCorruptError{Offset: pos}
	}
	buf := make([]byte, delimiterSize)
	if _, err := tf.file.ReadAt(buf, pos-delimiterSize); err != nil {
		return fmt.Errorf("storage: validating file pointer at %d: %w", pos, err)
	}
	if !bytes.Equal(buf, rowsDelimiter) {
		return &FilePointerCorruptError{Offset: pos}
	}
	return nil
}

// ReadRow reads one field-delimited, row-terminated record starting at the
// current position and decodes it against the file's schema. Returns
// io.EOF if called exactly at end-of-file.
func (tf *TableFile) ReadRow() (Row, error) {
	pos, err := tf.Position()
	if err != nil {
		return Row{}, err
	}
	if pos > 0 {
		if err := tf.validatePrecedingDelimiter(pos); err != nil {
			return Row{}, err
		}
	}

	fields := make([]Value, 0, tf.schema.Len())

	for i := 0; i < tf.schema.Len(); i++ {
		f, _ := tf.schema.FieldAt(i)
		last := i == tf.schema.Len()-1

		delim := fieldsDelimiter
		if last {
			delim = rowsDelimiter
		}

		raw, err := tf.readDelimited(delim)
		if err != nil {
			if err == io.EOF && i == 0 {
				return Row{}, io.EOF
			}
			return Row{}, fmt.Errorf("storage: reading record field %d (%s): %w", i, f.Name, err)
		}

		v, err := Decode(f.Datatype, raw)
		if err != nil {
			pos, _ := tf.Position()
			return Row{}, &CorruptRecordError{Offset: pos, Reason: err.Error()}
		}
		fields = append(fields, v)
	}

	return Row{Schema: tf.schema, Values: fields}, nil
}

// WriteRow appends row at the current position, field-delimited and
// row-terminated, and returns the offset the row was written at.
func (tf *TableFile) WriteRow(row Row) (int64, error) {
	off, err := tf.Position()
	if err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	for i, v := range row.Values {
		raw, err := Encode(v)
		if err != nil {
			return 0, fmt.Errorf("storage: encoding field %d: %w", i, err)
		}
		buf.Write(raw)
		if i == len(row.Values)-1 {
			buf.Write(rowsDelimiter)
		} else {
			buf.Write(fieldsDelimiter)
		}
	}

	if _, err := tf.file.Write(buf.Bytes()); err != nil {
		return 0, fmt.Errorf("storage: writing table file %s: %w", tf.path, err)
	}
	return off, nil
}

// Erase removes the record starting at offset by truncating it out of the
// file and shifting every subsequent byte back to fill the hole. This
// invalidates every offset recorded for records after the hole, which is
// why Table.refreshIndexes does a full index rebuild after any delete.
func (tf *TableFile) Erase(offset int64, recordLen int64) error {
	end, err := tf.AtEnd()
	if err != nil {
		return err
	}
	if offset < 0 || offset+recordLen > end {
		return fmt.Errorf("%w: erase range [%d,%d) exceeds file length %d", ErrInvalidPosition, offset, offset+recordLen, end)
	}

	tail := make([]byte, end-(offset+recordLen))
	if len(tail) > 0 {
		if _, err := tf.file.ReadAt(tail, offset+recordLen); err != nil {
			return fmt.Errorf("storage: reading tail for erase: %w", err)
		}
		if _, err := tf.file.WriteAt(tail, offset); err != nil {
			return fmt.Errorf("storage: rewriting tail for erase: %w", err)
		}
	}

	if err := tf.file.Truncate(offset + int64(len(tail))); err != nil {
		return fmt.Errorf("storage: truncating table file %s: %w", tf.path, err)
	}
	return nil
}

// RecordLen returns the on-disk byte length of row as it would be (or was)
// written, including delimiters — used by callers computing an erase range.
func RecordLen(row Row) (int64, error) {
	var n int64
	for i, v := range row.Values {
		raw, err := Encode(v)
		if err != nil {
			return 0, err
		}
		n += int64(len(raw))
		if i == len(row.Values)-1 {
			n += delimiterSize
		} else {
			n += delimiterSize
		}
	}
	return n, nil
}
