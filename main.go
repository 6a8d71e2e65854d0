package main

import (
	"fmt"
	"os"

	"github.com/rarotec/relatorios/cli"
)

func main() {
	if err := cli.NewCLI(cli.Options{}).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
