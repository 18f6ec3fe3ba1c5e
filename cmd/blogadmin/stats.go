package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show post statistics",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := mustOpenApp(cmd)
		stats, err := app.Service.Stats(cmd.Context())
		if err != nil {
			fatal("Failed to compute statistics", err)
		}
		if mustEmit(stats) {
			return
		}

		fmt.Printf("Posts: %d  Categories: %d  Authors: %d\n\n", stats.TotalPosts, stats.TotalCategories, stats.TotalAuthors)

		tw := newTable(os.Stdout)
		fmt.Fprintln(tw, "CATEGORY\tPOSTS")
		for _, k := range sortedKeys(stats.PostsByCategory) {
			fmt.Fprintf(tw, "%s\t%d\n", k, stats.PostsByCategory[k])
		}
		tw.Flush()

		fmt.Println()
		tw = newTable(os.Stdout)
		fmt.Fprintln(tw, "MONTH\tPOSTS")
		for _, k := range sortedKeys(stats.PostsByMonth) {
			fmt.Fprintf(tw, "%s\t%d\n", k, stats.PostsByMonth[k])
		}
		tw.Flush()

		fmt.Println("\nRecent posts:")
		for _, p := range stats.RecentPosts {
			fmt.Printf("  %s  %s (%s)\n", p.ModTime.Format("2006-01-02 15:04"), p.Title, p.Category)
		}
	},
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
