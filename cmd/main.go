package main

import (
	"os"

	"apttool/internal/cli"
	"apttool/internal/ui"
)

func main() {
	if err := cli.Execute(); err != nil {
		ui.ErrorMsg("%v", err)
		os.Exit(1)
	}
}
