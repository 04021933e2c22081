// Package main is the entry point for pc.
package main

import "github.com/sharkusmanch/pc/internal/cli"

func main() {
	cli.Execute()
}
