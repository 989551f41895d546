// Command keyforge is the CLI surface spec.md §6 describes as an
// external collaborator of the core engine: it acquires a seed, reads
// optional per-site configuration, and drives internal/driver to emit
// one password to stdout.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/keyforge/internal/redact"
)

func main() {
	scrubber := redact.New(os.Stderr)
	defer scrubber.Close()

	root := newRootCommand(scrubber)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(scrubber, "Error: %s\n", err)
		scrubber.Close() // os.Exit skips the deferred Close
		os.Exit(1)
	}
}
