package main

import "tenk/internal/cli"

func main() {
	cli.Execute()
}
