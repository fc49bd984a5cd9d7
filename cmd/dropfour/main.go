package main

import (
	"github.com/tomkite/dropfour/internal/cli"
)

func main() {
	cli.Execute()
}
