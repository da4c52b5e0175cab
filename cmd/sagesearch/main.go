package main

import (
	"github.com/custodia-labs/sagesearch/internal/adapters/driving/cli"
)

func main() {
	cli.Execute()
}
