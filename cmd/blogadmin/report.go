package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/blogadmin/pkg/core"
)

var failOnIssues bool

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Check categories across posts, folders and userconf.py",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := mustOpenApp(cmd)
		report := app.Service.Report(cmd.Context())

		if !mustEmit(report) {
			printReport(os.Stdout, report)
		}
		if report.Summary.Error != "" {
			os.Exit(1)
		}
		if failOnIssues && report.HasIssues() {
			os.Exit(2)
		}
	},
}

func printReport(w io.Writer, r core.ConsistencyReport) {
	if r.Summary.Error != "" {
		fmt.Fprintf(w, "Report failed: %s\n", r.Summary.Error)
		return
	}
	section := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(w, "%s (%d):\n", title, len(items))
		for _, it := range items {
			fmt.Fprintf(w, "  - %s\n", it)
		}
	}
	section("Used in posts but not declared", r.MissingInConfig)
	section("Declared but unused", r.MissingInFiles)
	section("Folders without a declared category", r.OrphanedFolders)
	section("Post categories matching no id, display name or alias", r.Unmapped)
	section("Configuration problems", r.CatalogProblems)

	s := r.Summary
	fmt.Fprintf(w, "Categories: %d in posts, %d folders, %d declared. Issues: %d\n",
		s.TotalFileCategories, s.TotalFolderCategories, s.TotalDeclaredCategories, s.IssuesCount)
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().BoolVar(&failOnIssues, "fail-on-issues", false, "Exit with status 2 when the report has issues")
}
