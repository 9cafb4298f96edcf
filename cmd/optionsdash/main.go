// Command optionsdash serves and prints options chain analytics.
package main

import (
	"context"
	"fmt"
	"os"

	"options-dashboard/internal/cli"
)

func main() {
	app := &cli.App{}
	if err := cli.NewRootCmd(app).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
