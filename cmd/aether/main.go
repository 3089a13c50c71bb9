// Command aether serves the AetherVision artifact dashboard.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/aethervision/internal/cli"
)

func main() {
	err := cli.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
