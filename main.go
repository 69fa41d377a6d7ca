// main is the entry point for the reflex CLI.
package main

import (
	"github.com/wikireflex/reflex/cmd"
	"github.com/wikireflex/reflex/internal"
)

func main() {
	if err := cmd.Execute(); err != nil {
		internal.FatalError("Command failed", err)
	}
}
