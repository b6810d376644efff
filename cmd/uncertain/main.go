// Command uncertain aggregates YAML datasets of uncertain measurements.
package main

import (
	"fmt"
	"os"

	"github.com/katalvlaran/uncertain/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
