package plugin

import (
	"context"
	"strconv"

	"github.com/dbforge-labs/dbforge/pkg/conn"
	"github.com/dbforge-labs/dbforge/pkg/core"
)

// Catalog row helpers shared by the dialect plugins. Catalog queries come
// back as [][]*string; these flatten the optional cells with zero-value
// defaults so the mapping code stays linear.

// QueryRows runs a catalog query and returns its raw rows.
func QueryRows(ctx context.Context, c conn.Connection, sqlStr string) ([][]*string, error) {
	res, err := c.Query(ctx, sqlStr)
	if err != nil {
		return nil, err
	}
	return res.Rows, nil
}

// Str returns the cell at i, or "" when the cell is missing or NULL.
func Str(row []*string, i int) string {
	if i < 0 || i >= len(row) || row[i] == nil {
		return ""
	}
	return *row[i]
}

// Int64 returns the cell at i parsed as an integer, or 0.
func Int64(row []*string, i int) int64 {
	v, err := strconv.ParseInt(Str(row, i), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// Flag returns whether the cell at i equals the truthy marker.
func Flag(row []*string, i int, truthy string) bool {
	return Str(row, i) == truthy
}

// FirstColumn flattens a single-column result into a string slice,
// skipping NULL cells.
func FirstColumn(rows [][]*string) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) > 0 && row[0] != nil {
			out = append(out, *row[0])
		}
	}
	return out
}

// ColumnInfoFromRow builds a ColumnInfo with the derived FieldType filled in.
func ColumnInfoFromRow(name, dbType string, nullable, primaryKey bool, defaultValue, comment string, ordinal int) core.ColumnInfo {
	return core.ColumnInfo{
		Name:         name,
		DBType:       dbType,
		FieldType:    core.FieldTypeFromDBType(dbType),
		Nullable:     nullable,
		IsPrimaryKey: primaryKey,
		DefaultValue: defaultValue,
		HasDefault:   defaultValue != "",
		Comment:      comment,
		Ordinal:      ordinal,
	}
}

// GroupIndexRows folds (index_name, column_name, unique, type) rows into
// IndexInfo records, preserving first-seen index order.
func GroupIndexRows(rows [][]*string, isUnique func(row []*string) bool) []core.IndexInfo {
	var order []string
	byName := make(map[string]*core.IndexInfo)

	for _, row := range rows {
		name := Str(row, 0)
		if name == "" {
			continue
		}
		idx, ok := byName[name]
		if !ok {
			idx = &core.IndexInfo{
				Name:      name,
				IsUnique:  isUnique(row),
				IsPrimary: name == "PRIMARY",
				IndexType: Str(row, 3),
			}
			byName[name] = idx
			order = append(order, name)
		}
		idx.Columns = append(idx.Columns, Str(row, 1))
	}

	out := make([]core.IndexInfo, 0, len(order))
	for _, name := range order {
		out = append(out, *byName[name])
	}
	return out
}
