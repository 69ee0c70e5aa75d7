// Command nativepassdemo renders frames through a pipeline extended with the
// native plugin pass and the sample triangle plugin.
package main

import (
	"os"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := NewRootCommand(version, commit, date).Execute(); err != nil {
		os.Exit(1)
	}
}
