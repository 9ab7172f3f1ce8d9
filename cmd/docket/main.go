// Command docket is the terminal dashboard and CLI for legal-process
// batches: browse and annotate processes, watch imports, export Excel.
package main

import "github.com/mesh-intelligence/docket/internal/cli"

func main() {
	cli.Execute()
}
