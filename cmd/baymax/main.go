// Package main provides the Baymax CLI.
//
// Usage:
//
//	baymax [flags] <command> [args]
//
// Commands:
//
//	ask     - answer one message and exit
//	chat    - interactive terminal chat
//	mcp     - serve chat and capabilities as MCP tools over stdio
//	models  - list the model catalog
//	init    - write a default config file
package main

import (
	"fmt"
	"os"

	"github.com/flynn-ai/baymax/cmd/baymax/commands"
	"github.com/flynn-ai/baymax/internal/errors"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", errors.FormatUserMessage(err))
		os.Exit(1)
	}
}
