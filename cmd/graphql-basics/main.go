package main

import "github.com/hermdev/graphql-basics/internal/cli"

func main() {
	cli.Execute()
}
