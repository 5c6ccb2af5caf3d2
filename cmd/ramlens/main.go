package main

import (
	"fmt"
	"os"

	"github.com/ramlens/ramlens/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ramlens: %v\n", err)
		os.Exit(1)
	}
}
