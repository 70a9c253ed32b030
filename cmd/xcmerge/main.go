package main

import (
	"os"

	"xcmerge/internal/adapters/cli"
)

func main() {
	os.Exit(cli.Execute())
}
