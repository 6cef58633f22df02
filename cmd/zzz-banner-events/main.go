package main

import "github.com/zzztools/banner-events/internal/cli"

func main() {
	cli.Execute()
}
