//go:build cli
// +build cli

package main

import (
	_ "stroyassist.GO/custom"

	"stroyassist.GO/cmd"
	"stroyassist.GO/config"
)

func main() {
	config.LoadEnv()
	cmd.Execute()
}
