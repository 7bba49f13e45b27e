// Command dsa runs, records and plays back data structure and algorithm
// visualizations.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonhuth/dsa/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
