package main

import (
	"fmt"
	"os"

	"github.com/naifuru/naifuru/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "naifuru: %v\n", err)
		os.Exit(cli.ExitCodeFor(err))
	}
}
