package main

import (
	"github.com/cimendes/gambitcore/cmd"
)

func main() {
	cmd.Execute() // initialize cobra commands
}
