// Command dbforge is the multi-database client toolkit CLI.
package main

import (
	"os"

	"github.com/dbforge-labs/dbforge/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
