// Command energy-ledger records energy trades and reports on them.
package main

import (
	"fmt"
	"os"

	"github.com/eunmann/energy-ledger/internal/cli"
)

func main() {
	if err := cli.Run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
