package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/blogadmin/pkg/core"
)

var (
	catID          string
	catName        string
	catStatus      string
	catDefault     bool
	catMode        string
	catReplacement string
)

var categoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"categories", "cat"},
	Short:   "Manage declared categories",
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories with their post counts",
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
			core.Category `yaml:",inline"`
			Default       bool `json:"default" yaml:"default"`
			Posts         int  `json:"posts" yaml:"posts"`
		}
		rows := make([]row, 0, len(snap.Categories))
		for _, c := range snap.Categories {
			rows = append(rows, row{Category: c, Default: c.ID == snap.DefaultCategory, Posts: counts.Categories[c.ID]})
		}
		if mustEmit(rows) {
			return
		}

		tw := newTable(os.Stdout)
		fmt.Fprintln(tw, "ID\tDISPLAY NAME\tSTATUS\tDEFAULT\tPOSTS")
		for _, r := range rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", r.ID, r.DisplayName, r.Status, yesNo(r.Default), r.Posts)
		}
		tw.Flush()
	},
}

var categoryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Declare a new category",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := mustOpenApp(cmd)
		in := core.CategoryInput{
			ID:          catID,
			DisplayName: catName,
			Status:      core.Status(catStatus),
			IsDefault:   catDefault,
		}
		printResult(app.Service.AddCategory(mutationContext(cmd.Context()), in))
	},
}

var categoryEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a category's id, display name, status or default flag",
	Long: `Change a category. Flags that are not given keep their current value.
Posts are not rewritten when the id changes; run 'report' afterwards.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := mustOpenApp(cmd)
		ctx := cmd.Context()
		snap, err := app.Service.Snapshot(ctx)
		if err != nil {
			fatal("Failed to load configuration", err)
		}
		cur, ok := snap.Category(args[0])
		if !ok {
			fatal("Operation rejected", core.NotFoundError("edit category", "category", args[0]))
		}

		in := core.CategoryInput{
			ID:          cur.ID,
			DisplayName: cur.DisplayName,
			Status:      cur.Status,
			IsDefault:   cur.ID == snap.DefaultCategory,
		}
		flags := cmd.Flags()
		if flags.Changed("id") {
			in.ID = catID
		}
		if flags.Changed("name") {
			in.DisplayName = catName
		}
		if flags.Changed("status") {
			in.Status = core.Status(catStatus)
		}
		if flags.Changed("default") {
			in.IsDefault = catDefault
		}
		printResult(app.Service.EditCategory(mutationContext(ctx), args[0], in))
	},
}

var categoryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a category, migrating its posts",
	Long: `Remove a category. When posts still use it, --mode decides what happens:
  keep         leave the posts untouched
  default      rewrite them to the default category
  replacement  rewrite them to --replacement`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := mustOpenApp(cmd)
		mode, err := core.ParseMigrationMode(catMode)
		if err != nil {
			fatal("Invalid --mode", err)
		}
		m := core.Migration{Mode: mode, Replacement: catReplacement}
		printResult(app.Service.DeleteCategory(mutationContext(cmd.Context()), args[0], m))
	},
}

func init() {
	rootCmd.AddCommand(categoryCmd)
	categoryCmd.AddCommand(categoryListCmd, categoryAddCmd, categoryEditCmd, categoryDeleteCmd)
	addChangeFlags(categoryCmd)

	for _, c := range []*cobra.Command{categoryAddCmd, categoryEditCmd} {
		c.Flags().StringVar(&catID, "id", "", "Technical id (English letters, digits, underscore)")
		c.Flags().StringVar(&catName, "name", "", "Display name")
		c.Flags().StringVar(&catStatus, "status", "", "active or inactive")
		c.Flags().BoolVar(&catDefault, "default", false, "Make this the default category")
	}
	categoryAddCmd.MarkFlagRequired("id")
	categoryAddCmd.MarkFlagRequired("name")

	categoryDeleteCmd.Flags().StringVar(&catMode, "mode", "", "Post migration: keep, default or replacement")
	categoryDeleteCmd.Flags().StringVar(&catReplacement, "replacement", "", "Target category id for --mode replacement")
}
