package plugin

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dbforge-labs/dbforge/pkg/conn"
	"github.com/dbforge-labs/dbforge/pkg/core"
)

// Base carries the quoting rule and shared SQL generation every dialect
// plugin embeds. Concrete plugins set the quote pair and delegate the
// mechanics here.
type Base struct {
	QuoteStart string
	QuoteEnd   string

	// SingleRow narrows an all-cells WHERE predicate so UPDATE/DELETE touch
	// at most one row when no key identifies it. table is the quoted table
	// reference. Nil keeps the predicate as is.
	SingleRow func(table, predicate string) string
	// RowLimit is inserted after the UPDATE/DELETE verb for the same
	// fallback (T-SQL TOP). Empty for most dialects.
	RowLimit string
}

// QuoteIdentifier wraps name in the dialect quote pair, doubling any closing
// quote character inside the name.
func (b Base) QuoteIdentifier(name string) string {
	escaped := strings.ReplaceAll(name, b.QuoteEnd, b.QuoteEnd+b.QuoteEnd)
	return b.QuoteStart + escaped + b.QuoteEnd
}

// QuoteLiteral renders value as a single-quoted SQL string literal.
func (b Base) QuoteLiteral(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

// QualifyTable renders an optionally schema-qualified table reference.
func (b Base) QualifyTable(schema, table string) string {
	if schema == "" {
		return b.QuoteIdentifier(table)
	}
	return b.QuoteIdentifier(schema) + "." + b.QuoteIdentifier(table)
}

// QuoteAll quotes every name in order.
func (b Base) QuoteAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = b.QuoteIdentifier(n)
	}
	return out
}

// WhereClause renders the request's filter state as a WHERE clause, or ""
// when unfiltered. A raw WhereClause on the request wins over Filters.
func (b Base) WhereClause(req core.TableDataRequest) string {
	if req.WhereClause != "" {
		return " WHERE " + req.WhereClause
	}
	if len(req.Filters) == 0 {
		return ""
	}
	parts := make([]string, 0, len(req.Filters))
	for _, f := range req.Filters {
		parts = append(parts, b.FilterPredicate(f))
	}
	return " WHERE " + strings.Join(parts, " AND ")
}

// FilterPredicate renders one filter condition.
func (b Base) FilterPredicate(f core.FilterCondition) string {
	col := b.QuoteIdentifier(f.Column)
	if !f.Operator.NeedsValue() {
		return fmt.Sprintf("%s %s", col, f.Operator)
	}
	switch f.Operator {
	case core.OpIn, core.OpNotIn:
		values := strings.Split(f.Value, ",")
		for i, v := range values {
			values[i] = b.QuoteLiteral(strings.TrimSpace(v))
		}
		return fmt.Sprintf("%s %s (%s)", col, f.Operator, strings.Join(values, ", "))
	default:
		return fmt.Sprintf("%s %s %s", col, f.Operator, b.QuoteLiteral(f.Value))
	}
}

// OrderClause renders the request's sort state as an ORDER BY clause, or ""
// when unsorted. A raw OrderClause on the request wins over Sorts.
func (b Base) OrderClause(req core.TableDataRequest) string {
	if req.OrderClause != "" {
		return " ORDER BY " + req.OrderClause
	}
	if len(req.Sorts) == 0 {
		return ""
	}
	parts := make([]string, 0, len(req.Sorts))
	for _, s := range req.Sorts {
		dir := "ASC"
		if s.Descending {
			dir = "DESC"
		}
		parts = append(parts, b.QuoteIdentifier(s.Column)+" "+dir)
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

// LimitOffsetPage appends the standard LIMIT/OFFSET paging clause. Dialects
// with other paging syntax pass their own pager to FetchTableData.
func (b Base) LimitOffsetPage(sql string, page, size int) string {
	if size <= 0 {
		return sql
	}
	offset := (page - 1) * size
	return fmt.Sprintf("%s LIMIT %d OFFSET %d", sql, size, offset)
}

// TableQuery describes one paginated table read for FetchTableData.
type TableQuery struct {
	// Table is the fully quoted, optionally qualified table reference.
	Table string
	// Page appends the dialect paging clause; nil uses LIMIT/OFFSET.
	Page func(sql string, page, size int) string
}

// FetchTableData runs the shared paginated read: the data page and the total
// count execute concurrently against the same WHERE. Column metadata and key
// indices come from the passed catalog records.
func (b Base) FetchTableData(
	ctx context.Context,
	c conn.Connection,
	req core.TableDataRequest,
	q TableQuery,
	columns []core.ColumnInfo,
	indexes []core.IndexInfo,
) (*core.TableDataResponse, error) {
	where := b.WhereClause(req)
	order := b.OrderClause(req)

	pager := q.Page
	if pager == nil {
		pager = b.LimitOffsetPage
	}
	page := req.Page
	if page < 1 {
		page = 1
	}

	dataSQL := pager("SELECT * FROM "+q.Table+where+order, page, req.PageSize)
	countSQL := "SELECT COUNT(*) FROM " + q.Table + where

	var (
		data  *core.QueryResult
		count int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := c.Query(gctx, dataSQL)
		if err != nil {
			return err
		}
		data = res
		return nil
	})
	g.Go(func() error {
		res, err := c.Query(gctx, countSQL)
		if err != nil {
			return err
		}
		if len(res.Rows) > 0 && len(res.Rows[0]) > 0 && res.Rows[0][0] != nil {
			if _, err := fmt.Sscan(*res.Rows[0][0], &count); err != nil {
				return core.DBWrapf(core.InternalError, err, "parse row count")
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp := &core.TableDataResponse{
		Rows:        data.Rows,
		TotalCount:  count,
		Page:        page,
		PageSize:    req.PageSize,
		ExecutedSQL: dataSQL,
		Elapsed:     data.Elapsed,
	}
	resp.Columns = matchColumnMeta(data.Columns, columns)
	resp.PrimaryKeyIdx, resp.UniqueKeyIdx = keyIndices(resp.Columns, indexes)
	return resp, nil
}

// matchColumnMeta pairs result columns with catalog records by
// case-insensitive name.
func matchColumnMeta(resultColumns []string, catalog []core.ColumnInfo) []core.ColumnMeta {
	byName := make(map[string]core.ColumnInfo, len(catalog))
	for _, col := range catalog {
		byName[strings.ToLower(col.Name)] = col
	}

	metas := make([]core.ColumnMeta, len(resultColumns))
	for i, name := range resultColumns {
		meta := core.ColumnMeta{Name: name, FieldType: core.FieldOther, Ordinal: i}
		if col, ok := byName[strings.ToLower(name)]; ok {
			meta.DBType = col.DBType
			meta.FieldType = col.FieldType
			if meta.FieldType == "" {
				meta.FieldType = core.FieldTypeFromDBType(col.DBType)
			}
			meta.Nullable = col.Nullable
			meta.IsPrimaryKey = col.IsPrimaryKey
		}
		metas[i] = meta
	}
	return metas
}

// keyIndices finds the primary key column positions, falling back to the
// first unique index when the table has no primary key.
func keyIndices(columns []core.ColumnMeta, indexes []core.IndexInfo) (pk, unique []int) {
	pos := make(map[string]int, len(columns))
	for i, col := range columns {
		pos[strings.ToLower(col.Name)] = i
	}

	for i, col := range columns {
		if col.IsPrimaryKey {
			pk = append(pk, i)
		}
	}
	if len(pk) > 0 {
		return pk, nil
	}

	for _, idx := range indexes {
		if !idx.IsUnique {
			continue
		}
		var found []int
		complete := true
		for _, name := range idx.Columns {
			i, ok := pos[strings.ToLower(name)]
			if !ok {
				complete = false
				break
			}
			found = append(found, i)
		}
		if complete && len(found) > 0 {
			return nil, found
		}
	}
	return nil, nil
}

// BuildTableChangeSQL renders grid edits as one statement per row change.
// Updated and deleted rows are located by the table's primary key when every
// key cell is present, then by the first complete unique key, then by
// equality on every original cell with the dialect's single-row limit.
func (b Base) BuildTableChangeSQL(req core.TableSaveRequest) ([]string, error) {
	table := b.QualifyTable(req.Schema, req.Table)

	statements := make([]string, 0, len(req.Changes))
	for _, change := range req.Changes {
		switch change.Kind {
		case core.RowAdded:
			stmt, err := b.insertRowSQL(table, change)
			if err != nil {
				return nil, err
			}
			statements = append(statements, stmt)
		case core.RowUpdated:
			stmt, err := b.updateRowSQL(table, req, change)
			if err != nil {
				return nil, err
			}
			statements = append(statements, stmt)
		case core.RowDeleted:
			where, keyed, err := b.locateRow(req, change)
			if err != nil {
				return nil, err
			}
			where, limit := b.narrowToOneRow(table, where, keyed)
			statements = append(statements, fmt.Sprintf("DELETE %sFROM %s WHERE %s;", limit, table, where))
		default:
			return nil, core.DBErrorf(core.InternalError, "unknown row change kind %d", change.Kind)
		}
	}
	return statements, nil
}

func (b Base) insertRowSQL(table string, change core.RowChange) (string, error) {
	if len(change.Cells) == 0 {
		return "", core.DBErrorf(core.InternalError, "added row has no cells")
	}
	cols := make([]string, 0, len(change.Cells))
	vals := make([]string, 0, len(change.Cells))
	for _, cell := range change.Cells {
		cols = append(cols, b.QuoteIdentifier(cell.Column))
		vals = append(vals, b.cellValue(cell.NewValue))
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);",
		table, strings.Join(cols, ", "), strings.Join(vals, ", ")), nil
}

func (b Base) updateRowSQL(table string, req core.TableSaveRequest, change core.RowChange) (string, error) {
	if len(change.Cells) == 0 {
		return "", core.DBErrorf(core.InternalError, "updated row has no cells")
	}
	where, keyed, err := b.locateRow(req, change)
	if err != nil {
		return "", err
	}
	where, limit := b.narrowToOneRow(table, where, keyed)
	sets := make([]string, 0, len(change.Cells))
	for _, cell := range change.Cells {
		sets = append(sets, fmt.Sprintf("%s = %s", b.QuoteIdentifier(cell.Column), b.cellValue(cell.NewValue)))
	}
	return fmt.Sprintf("UPDATE %s%s SET %s WHERE %s;", limit, table, strings.Join(sets, ", "), where), nil
}

// locateRow builds the row identity predicate: primary key cells when all
// present, then the first complete unique key, then every original cell in
// column-name order. keyed reports whether a key produced the predicate.
func (b Base) locateRow(req core.TableSaveRequest, change core.RowChange) (where string, keyed bool, err error) {
	if len(change.Original) == 0 {
		return "", false, core.DBErrorf(core.InternalError, "row change carries no original values")
	}
	if pred, ok := b.keyPredicate(change.Original, req.PrimaryKeys); ok {
		return pred, true, nil
	}
	for _, key := range req.UniqueKeys {
		if pred, ok := b.keyPredicate(change.Original, key); ok {
			return pred, true, nil
		}
	}

	names := make([]string, 0, len(change.Original))
	for name := range change.Original {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		value := change.Original[name]
		if value == nil {
			parts = append(parts, b.QuoteIdentifier(name)+" IS NULL")
		} else {
			parts = append(parts, fmt.Sprintf("%s = %s", b.QuoteIdentifier(name), b.QuoteLiteral(*value)))
		}
	}
	return strings.Join(parts, " AND "), false, nil
}

// keyPredicate renders equality on the key columns. A missing or NULL key
// cell disqualifies the key: NULLs do not identify a row.
func (b Base) keyPredicate(original map[string]*string, key []string) (string, bool) {
	if len(key) == 0 {
		return "", false
	}
	parts := make([]string, 0, len(key))
	for _, name := range key {
		value, ok := original[name]
		if !ok || value == nil {
			return "", false
		}
		parts = append(parts, fmt.Sprintf("%s = %s", b.QuoteIdentifier(name), b.QuoteLiteral(*value)))
	}
	return strings.Join(parts, " AND "), true
}

// narrowToOneRow applies the dialect single-row fallback to an unkeyed
// predicate. A keyed predicate already matches at most one row.
func (b Base) narrowToOneRow(table, where string, keyed bool) (string, string) {
	if keyed {
		return where, ""
	}
	if b.SingleRow != nil {
		where = b.SingleRow(table, where)
	}
	return where, b.RowLimit
}

func (b Base) cellValue(v *string) string {
	if v == nil {
		return "NULL"
	}
	return b.QuoteLiteral(*v)
}
