package main

import (
	"github.com/inferlab/ortbench/cli"
)

func main() {
	cli.Execute()
}
