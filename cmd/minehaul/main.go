package main

import (
	"github.com/andrescamacho/minehaul-go/internal/adapters/cli"
)

func main() {
	cli.Execute()
}
