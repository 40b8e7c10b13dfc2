package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/errand"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of errand",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("errand version %s\n", strings.TrimSpace(errand.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
