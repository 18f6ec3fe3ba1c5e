package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/blogadmin/pkg/core"
)

var (
	authorName    string
	authorStatus  string
	authorDefault bool
)

var authorCmd = &cobra.Command{
	Use:     "author",
	Aliases: []string{"authors"},
	Short:   "Manage declared authors",
}

var authorListCmd = &cobra.Command{
	Use:   "list",
	Short: "List authors with their post counts",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := mustOpenApp(cmd)
		ctx := cmd.Context()
		snap, err := app.Service.Snapshot(ctx)
		if err != nil {
			fatal("Failed to load configuration", err)
		}
		counts, err := app.Service.Counts(ctx)
		if err != nil {
			fatal("Failed to count posts", err)
		}

		type row struct {
			core.Author `yaml:",inline"`
			Default     bool `json:"default" yaml:"default"`
			Posts       int  `json:"posts" yaml:"posts"`
		}
		rows := make([]row, 0, len(snap.Authors))
		for _, a := range snap.Authors {
			rows = append(rows, row{Author: a, Default: a.Name == snap.DefaultAuthor, Posts: counts.Authors[a.Name]})
		}
		if mustEmit(rows) {
			return
		}

		tw := newTable(os.Stdout)
		fmt.Fprintln(tw, "NAME\tSTATUS\tDEFAULT\tPOSTS")
		for _, r := range rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", r.Name, r.Status, yesNo(r.Default), r.Posts)
		}
		tw.Flush()
	},
}

var authorAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Declare a new author",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := mustOpenApp(cmd)
		in := core.AuthorInput{Name: args[0], Status: core.Status(authorStatus), IsDefault: authorDefault}
		printResult(app.Service.AddAuthor(mutationContext(cmd.Context()), in))
	},
}

var authorEditCmd = &cobra.Command{
	Use:   "edit <name>",
	Short: "Rename an author or change its status or default flag",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := mustOpenApp(cmd)
		ctx := cmd.Context()
		snap, err := app.Service.Snapshot(ctx)
		if err != nil {
			fatal("Failed to load configuration", err)
		}
		cur, ok := snap.Author(args[0])
		if !ok {
			fatal("Operation rejected", core.NotFoundError("edit author", "author", args[0]))
		}

		in := core.AuthorInput{Name: cur.Name, Status: cur.Status, IsDefault: cur.Name == snap.DefaultAuthor}
		flags := cmd.Flags()
		if flags.Changed("name") {
			in.Name = authorName
		}
		if flags.Changed("status") {
			in.Status = core.Status(authorStatus)
		}
		if flags.Changed("default") {
			in.IsDefault = authorDefault
		}
		printResult(app.Service.EditAuthor(mutationContext(ctx), args[0], in))
	},
}

var authorDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Remove an author",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := mustOpenApp(cmd)
		printResult(app.Service.DeleteAuthor(mutationContext(cmd.Context()), args[0]))
	},
}

func init() {
	rootCmd.AddCommand(authorCmd)
	authorCmd.AddCommand(authorListCmd, authorAddCmd, authorEditCmd, authorDeleteCmd)
	addChangeFlags(authorCmd)

	authorAddCmd.Flags().StringVar(&authorStatus, "status", "", "active or inactive")
	authorAddCmd.Flags().BoolVar(&authorDefault, "default", false, "Make this the default author")

	authorEditCmd.Flags().StringVar(&authorName, "name", "", "New display name")
	authorEditCmd.Flags().StringVar(&authorStatus, "status", "", "active or inactive")
	authorEditCmd.Flags().BoolVar(&authorDefault, "default", false, "Make this the default author")
}
