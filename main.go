package main

import (
	_ "modernc.org/sqlite"

	"github.com/relctl/relctl/cmd"
)

func main() {
	cmd.Execute()
}
