// Package main provides the rolodex CLI entry point.
package main

import "github.com/rkarimi/rolodex/cmd"

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cmd.Execute(version)
}
