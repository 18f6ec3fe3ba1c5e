package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/blogadmin"
	"github.com/aretw0/blogadmin/pkg/core"
)

var (
	changeReason string
	commitType   string
	commitScope  string
)

// addChangeFlags registers the commit message flags on a command group.
func addChangeFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&changeReason, "message", "m", "", "Commit message when git versioning is enabled")
	pf.StringVar(&commitType, "type", "", "Conventional commit type (feat, fix, refactor, chore)")
	pf.StringVar(&commitScope, "scope", "", "Conventional commit scope")
}

// mutationContext attaches the commit message built from the flags.
// Without flags the service derives the message from the operation.
func mutationContext(ctx context.Context) context.Context {
	var msg string
	switch {
	case commitType != "":
		subject := changeReason
		if subject == "" {
			subject = "update configuration"
		}
		msg = blogadmin.FormatChangeReason(commitType, commitScope, subject, "")
	case changeReason != "":
		msg = blogadmin.AppendFooter(changeReason)
	default:
		return ctx
	}
	return blogadmin.WithChangeReason(ctx, msg)
}

// printResult prints the outcome of a mutation.
func printResult(res core.Result, err error) {
	if err != nil {
		fatal(fmt.Sprintf("Operation rejected (%s)", core.KindOf(err)), err)
	}
	if mustEmit(res) {
		return
	}
	fmt.Println(res.Message)
}
