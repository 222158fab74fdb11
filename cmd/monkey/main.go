// Package main provides the entry point for the containers monkey tester.
package main

import (
	"fmt"
	"os"

	"github.com/Sumatoshi-tech/containers/cmd/monkey/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
