// Package main provides the tangle CLI.
package main

import (
	"github.com/alexradu95/tangle/internal/cli"
)

func main() {
	cli.Execute()
}
