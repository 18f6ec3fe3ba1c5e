package core

import (
	"context"
	"iter"
	"time"
)

// ConfigStore loads and persists the declarative configuration snapshot.
// Implementations must re-read the backing file on every Load.
type ConfigStore interface {
	// Load reads a fresh snapshot.
	Load(ctx context.Context) (Snapshot, error)

	// Save persists snap. Fields that did not change are left untouched.
	Save(ctx context.Context, snap Snapshot) error
}

// ContentStore gives read access to the content tree and stages category migrations.
type ContentStore interface {
	// Documents returns a lazy sequence over every document under the root.
	// Unreadable files are skipped; the error covers only an unusable root.
	Documents(ctx context.Context) (iter.Seq[Document], error)

	// Folders lists the immediate subdirectory names of the root.
	Folders(ctx context.Context) ([]string, error)

	// PlanCategoryMigration computes, without writing, the document rewrites
	// needed to move every document of move.From to move.To.
	PlanCategoryMigration(ctx context.Context, move CategoryMove) (MigrationPlan, error)
}

// MigrationPlan is a staged set of document rewrites.
type MigrationPlan interface {
	// Len is the number of documents the plan rewrites.
	Len() int

	// Paths lists the documents the plan rewrites.
	Paths() []string

	// Commit writes every staged document.
	Commit(ctx context.Context) error

	// Rollback restores documents already written by Commit.
	Rollback(ctx context.Context) error
}

// Backuper is implemented by config stores that can snapshot their file.
type Backuper interface {
	Backup(ctx context.Context, now time.Time) (string, error)
}

// Versioner records a mutation in version control.
type Versioner interface {
	Commit(ctx context.Context, message string, paths ...string) error
}

// Recorder receives operation metrics. See pkg/metrics.
type Recorder interface {
	ObserveOperation(op string, outcome string, d time.Duration)
	SetReportIssues(n int)
	AddMigratedDocuments(n int)
}

type noopRecorder struct{}

func (noopRecorder) ObserveOperation(string, string, time.Duration) {}
func (noopRecorder) SetReportIssues(int)                            {}
func (noopRecorder) AddMigratedDocuments(int)                       {}

type contextKey string

// ChangeReasonKey is the context key for a caller-supplied commit message.
const ChangeReasonKey contextKey = "change_reason"
