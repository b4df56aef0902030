package main

import "github.com/declaim/declaim/internal/cli"

func main() {
	cli.Execute()
}
