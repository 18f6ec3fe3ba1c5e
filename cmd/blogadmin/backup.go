package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Copy userconf.py into the backups directory",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := mustOpenApp(cmd)
		path, err := app.Service.Backup(cmd.Context())
		if err != nil {
			fatal("Failed to back up configuration", err)
		}
		if mustEmit(map[string]string{"path": path}) {
			return
		}
		fmt.Printf("Backup written to %s\n", path)
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
}
