package main

import (
	"codeappraise/internal/cli"
)

func main() {
	cli.Execute()
}
