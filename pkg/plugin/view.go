package plugin

import (
	"strconv"

	"github.com/dbforge-labs/dbforge/pkg/core"
)

// ObjectView converters: catalog records projected to column/row grids for
// tabular display. Dashes mark fields the dialect did not supply.

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func count(n int64) string {
	if n == 0 {
		return "-"
	}
	return strconv.FormatInt(n, 10)
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}

// DatabasesView projects DatabaseInfo records.
func DatabasesView(dbs []core.DatabaseInfo) core.ObjectView {
	v := core.ObjectView{Columns: []string{"Name", "Charset", "Collation", "Size", "Comment"}}
	for _, db := range dbs {
		v.Rows = append(v.Rows, []string{
			db.Name, dash(db.Charset), dash(db.Collation), count(db.SizeBytes), db.Comment,
		})
	}
	return v
}

// SchemasView projects SchemaInfo records.
func SchemasView(schemas []core.SchemaInfo) core.ObjectView {
	v := core.ObjectView{Columns: []string{"Name", "Owner", "Comment"}}
	for _, s := range schemas {
		v.Rows = append(v.Rows, []string{s.Name, dash(s.Owner), s.Comment})
	}
	return v
}

// TablesView projects TableInfo records.
func TablesView(tables []core.TableInfo) core.ObjectView {
	v := core.ObjectView{Columns: []string{"Name", "Engine", "Rows", "Created", "Comment"}}
	for _, t := range tables {
		v.Rows = append(v.Rows, []string{
			t.Name, dash(t.Engine), count(t.RowCount), dash(t.CreatedAt), t.Comment,
		})
	}
	return v
}

// ColumnsView projects ColumnInfo records.
func ColumnsView(columns []core.ColumnInfo) core.ObjectView {
	v := core.ObjectView{Columns: []string{"Name", "Type", "Nullable", "Key", "Default", "Comment"}}
	for _, c := range columns {
		key := ""
		if c.IsPrimaryKey {
			key = "PRI"
		}
		v.Rows = append(v.Rows, []string{
			c.Name, c.DBType, yesNo(c.Nullable), key, c.DefaultValue, c.Comment,
		})
	}
	return v
}

// IndexesView projects IndexInfo records.
func IndexesView(indexes []core.IndexInfo) core.ObjectView {
	v := core.ObjectView{Columns: []string{"Name", "Columns", "Unique", "Type"}}
	for _, idx := range indexes {
		cols := ""
		for i, c := range idx.Columns {
			if i > 0 {
				cols += ", "
			}
			cols += c
		}
		v.Rows = append(v.Rows, []string{idx.Name, cols, yesNo(idx.IsUnique), dash(idx.IndexType)})
	}
	return v
}

// ViewsView projects ViewInfo records.
func ViewsView(views []core.ViewInfo) core.ObjectView {
	v := core.ObjectView{Columns: []string{"Name", "Definition"}}
	for _, vw := range views {
		v.Rows = append(v.Rows, []string{vw.Name, vw.Definition})
	}
	return v
}

// RoutinesView projects RoutineInfo records (functions and procedures).
func RoutinesView(routines []core.RoutineInfo) core.ObjectView {
	v := core.ObjectView{Columns: []string{"Name", "Return Type", "Language"}}
	for _, r := range routines {
		v.Rows = append(v.Rows, []string{r.Name, dash(r.ReturnType), dash(r.Language)})
	}
	return v
}

// TriggersView projects TriggerInfo records.
func TriggersView(triggers []core.TriggerInfo) core.ObjectView {
	v := core.ObjectView{Columns: []string{"Name", "Table", "Event", "Timing"}}
	for _, t := range triggers {
		v.Rows = append(v.Rows, []string{t.Name, t.Table, t.Event, t.Timing})
	}
	return v
}

// SequencesView projects SequenceInfo records.
func SequencesView(sequences []core.SequenceInfo) core.ObjectView {
	v := core.ObjectView{Columns: []string{"Name", "Start", "Increment", "Last Value"}}
	for _, s := range sequences {
		v.Rows = append(v.Rows, []string{
			s.Name,
			strconv.FormatInt(s.StartWith, 10),
			strconv.FormatInt(s.Increment, 10),
			strconv.FormatInt(s.LastValue, 10),
		})
	}
	return v
}
