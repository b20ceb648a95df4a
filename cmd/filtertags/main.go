// filtertags derives dismissible filter tags from list form state.
package main

import (
	"os"

	"github.com/goliatone/go-filtertags/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
