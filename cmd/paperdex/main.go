// Command paperdex indexes research papers for semantic search.
package main

import (
	"os"

	"github.com/custodia-labs/paperdex/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
