package main

import (
	"os"

	"github.com/anita-prover/anita/cli"
)

func main() {
	os.Exit(cli.Execute())
}
