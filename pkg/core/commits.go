package core

import (
	"fmt"
	"strings"
)

// Conventional commit types used for versioned admin mutations.
const (
	CommitTypeFeat     = "feat"
	CommitTypeFix      = "fix"
	CommitTypeRefactor = "refactor"
	CommitTypeChore    = "chore"
)

// CommitTrailer marks commits written by blogadmin.
const CommitTrailer = "Managed-by: blogadmin"

// FormatCommitMessage renders "type(scope): subject", an optional body and
// the blogadmin trailer. An empty type means chore.
func FormatCommitMessage(ctype, scope, subject, body string) string {
	if ctype == "" {
		ctype = CommitTypeChore
	}
	header := ctype + ": " + subject
	if scope != "" {
		header = fmt.Sprintf("%s(%s): %s", ctype, scope, subject)
	}

	parts := []string{header}
	if b := strings.TrimSpace(body); b != "" {
		parts = append(parts, b)
	}
	parts = append(parts, CommitTrailer)
	return strings.Join(parts, "\n\n")
}

// AppendFooter adds the trailer to a free-form change reason, separated by a
// blank line, unless it is already there.
func AppendFooter(msg string) string {
	if strings.Contains(msg, CommitTrailer) {
		return msg
	}
	return strings.TrimRight(msg, "\n") + "\n\n" + CommitTrailer
}
