package postgres

import sq "github.com/Masterminds/squirrel"

// maxRowsPerInsert keeps multi-row inserts well under the 65535 bind
// parameter limit for the widest table.
const maxRowsPerInsert = 1000

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func chunks[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = maxRowsPerInsert
	}
	var out [][]T
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		out = append(out, items[start:end])
	}
	return out
}
