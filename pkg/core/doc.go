// Package core defines the shared language of the dbforge client core.
//
// This package contains:
//   - Connection configuration (ConnConfig, DatabaseType)
//   - Catalog records (DatabaseInfo, TableInfo, ColumnInfo, ...)
//   - Designer types (TableDesign, ColumnDefinition, IndexDefinition)
//   - Data-read requests and results (TableDataRequest, SQLResult)
//   - The error taxonomy (DBError)
//
// The Golden Rule: pkg/core imports ONLY stdlib. All other packages depend
// on core, not the reverse. Every type here is an owned value type; catalog
// records never hold a reference back to the connection that produced them.
package core
