package main

import (
	"github.com/relayhq/chatrelay/internal/cli"
)

func main() {
	cli.Execute()
}
