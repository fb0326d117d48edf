package main

import (
	"github.com/asad/storagegateway/internal/cli"
)

// main hands off to the cobra command tree in internal/cli.
func main() {
	cli.Execute()
}
