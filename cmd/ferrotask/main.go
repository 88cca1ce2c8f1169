// Command ferrotask is the entry point for the token expansion engine CLI.
package main

import (
	"os"

	"github.com/ferrotask/ferrotask/internal/cmd"
)

// version is overridden at build time via:
//
//	go build -ldflags "-X main.version=..."
var version = "dev"

func main() {
	os.Exit(cmd.RunWithArgs(os.Args[1:], version))
}
