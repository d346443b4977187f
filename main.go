package main

import (
	"fmt"
	"os"

	"agora/cli"
	"agora/cli/app"
)

func main() {
	if err := cli.NewCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, app.FormatError(err))
		os.Exit(1)
	}
}
