package cmd

import (
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"

	"stroyassist.GO/config"
)

var rootCmd = &cobra.Command{
	Use:   "stroyassist",
	Short: "Catalog sync, search and order pricing backend",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadAppConfig()
		name := config.AppConfig.AppName
		if name == "" {
			name = "stroyassist"
		}
		figure.NewFigure(name, "", true).Print()
	},
}

// Execute runs the CLI. Registered custom commands are applied first.
func Execute() {
	Apply()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
