// Command sakuraflow manages a shared task checklist stored in a JSON file.
package main

import (
	"os"

	"github.com/mesh-intelligence/sakuraflow/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
