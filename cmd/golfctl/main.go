package main

import "github.com/mcoot/minigolf-go/internal/cli"

func main() {
	cli.Execute()
}
