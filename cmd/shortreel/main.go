package main

import "github.com/forPelevin/shortreel/internal/cli"

func main() {
	cli.Main()
}
