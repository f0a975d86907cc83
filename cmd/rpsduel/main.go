package main

import (
	"github.com/rpsduel/rpsduel-go/internal/cli"
)

func main() {
	cli.Execute()
}
