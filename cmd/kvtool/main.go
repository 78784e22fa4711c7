package main

import (
	"os"

	"github.com/mantoudev/hbase/cmd/kvtool/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
