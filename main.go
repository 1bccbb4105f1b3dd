package main

import "github.com/djcass44/rdb-diff/cmd"

// populated by the build via -ldflags
var version = "dev"

func main() {
	cmd.Execute(version)
}
