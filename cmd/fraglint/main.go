package main

import "github.com/mvp-joe/fragment-lint/internal/cli"

func main() {
	cli.Execute()
}
