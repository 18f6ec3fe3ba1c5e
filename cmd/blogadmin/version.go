package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/blogadmin"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of blogadmin",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("blogadmin version %s\n", strings.TrimSpace(blogadmin.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
