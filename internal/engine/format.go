package engine

import (
	"fmt"
	"strconv"
	"strings"

	"rowkeep/internal/storage"
)

// FormatValue renders a single value the way the REPL prints it: ints and
// bools in their natural form, strings unquoted, datetimes in ISO-8601.
func FormatValue(v storage.Value) string {
	switch v.Type {
	case storage.TypeInt:
		return strconv.FormatInt(int64(v.Int), 10)
	case storage.TypeBool:
		return strconv.FormatBool(v.Bool)
	case storage.TypeStr:
		return v.Str
	case storage.TypeDateTime:
		return v.DateTime.Format("2006-01-02T15:04:05")
	default:
		return fmt.Sprintf("%v", v)
	}
}

// FormatTable renders a Result's rows as a column-width-aligned table,
// descended from the original implementation's print_rows helper: each
// column is padded to the widest value (including its header) seen in
// that column.
func FormatTable(res Result) string {
	if len(res.Columns) == 0 {
		return ""
	}

	widths := make([]int, len(res.Columns))
	for i, c := range res.Columns {
		widths[i] = len(c)
	}

	cells := make([][]string, len(res.Rows))
	for r, row := range res.Rows {
		cells[r] = make([]string, len(res.Columns))
		for i, c := range res.Columns {
			v, _ := row.Get(c)
			s := FormatValue(v)
			cells[r][i] = s
			if len(s) > widths[i] {
				widths[i] = len(s)
			}
		}
	}

	var b strings.Builder
	writeRow := func(fields []string) {
		parts := make([]string, len(fields))
		for i, f := range fields {
			parts[i] = padRight(f, widths[i])
		}
		b.WriteString(strings.Join(parts, " | "))
		b.WriteByte('\n')
	}

	writeRow(res.Columns)

	sepParts := make([]string, len(widths))
	for i, w := range widths {
		sepParts[i] = strings.Repeat("-", w)
	}
	b.WriteString(strings.Join(sepParts, "-+-"))
	b.WriteByte('\n')

	for _, row := range cells {
		writeRow(row)
	}

	return strings.TrimRight(b.String(), "\n")
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
