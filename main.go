// Command gitdu lists the pack size of files and folders in a git repository.
package main

import (
	"fmt"
	"os"

	"github.com/idelchi/gitdu/internal/cli"
)

// version is set at build time.
var version = "unknown - built from source"

func main() {
	if err := cli.New(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
