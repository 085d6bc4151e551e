package main

import "github.com/vietddude/rnsdash/internal/cli"

func main() {
	cli.Execute()
}
