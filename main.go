// ABOUTME: Entry point for the howudoin CLI
// ABOUTME: Terminal client for the Howudoin messaging service

package main

import (
	"fmt"
	"os"

	"github.com/howudoin/howudoin-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
