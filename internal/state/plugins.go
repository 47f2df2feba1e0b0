package state

// Pull in every built-in dialect so any registered config can resolve.
import (
	_ "github.com/dbforge-labs/dbforge/pkg/plugins/mssql"
	_ "github.com/dbforge-labs/dbforge/pkg/plugins/mysql"
	_ "github.com/dbforge-labs/dbforge/pkg/plugins/oracle"
	_ "github.com/dbforge-labs/dbforge/pkg/plugins/postgres"
	_ "github.com/dbforge-labs/dbforge/pkg/plugins/sqlite"
)
