package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Service runs the reconciliation report and the administrative mutations.
// Every call loads a fresh snapshot; nothing is cached between calls.
type Service struct {
	config    ConfigStore
	content   ContentStore
	aliases   map[string]string
	logger    *slog.Logger
	recorder  Recorder
	versioner Versioner
	now       func() time.Time

	// mu serializes mutations issued through this Service value.
	mu sync.Mutex
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithAliases installs an alias -> category id table used when resolving
// document categories.
func WithAliases(aliases map[string]string) ServiceOption {
	return func(s *Service) {
		s.aliases = aliases
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) ServiceOption {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithVersioner commits every successful mutation through v.
func WithVersioner(v Versioner) ServiceOption {
	return func(s *Service) {
		s.versioner = v
	}
}

// WithClock overrides the time source (backups, metrics).
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a new Service.
func NewService(config ConfigStore, content ContentStore, opts ...ServiceOption) *Service {
	s := &Service{
		config:   config,
		content:  content,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		recorder: noopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot loads the current configuration.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	snap, err := s.config.Load(ctx)
	if err != nil {
		return Snapshot{}, s.ioFailure("load config", err)
	}
	return snap, nil
}

// Report reconciles document, folder and declared categories. It never
// fails: read errors end up in the summary.
func (s *Service) Report(ctx context.Context) ConsistencyReport {
	start := s.now()
	report := s.report(ctx)
	outcome := "ok"
	if report.Summary.Error != "" {
		outcome = "error"
	}
	s.recorder.ObserveOperation("report", outcome, s.now().Sub(start))
	s.recorder.SetReportIssues(report.Summary.IssuesCount)
	return report
}

func (s *Service) report(ctx context.Context) ConsistencyReport {
	snap, err := s.config.Load(ctx)
	if err != nil {
		s.logger.Error("failed to read declared categories", "error", err)
		return FailedReport(fmt.Errorf("read declared categories: %w", err))
	}
	cat := NewCatalog(snap, s.aliases)

	docs, err := s.content.Documents(ctx)
	if err != nil {
		s.logger.Error("failed to scan content", "error", err)
		return FailedReport(fmt.Errorf("scan content: %w", err))
	}
	raw := FileCategories(docs)
	if err := ctx.Err(); err != nil {
		return FailedReport(err)
	}

	folderNames, err := s.content.Folders(ctx)
	if err != nil {
		s.logger.Warn("failed to list content folders", "error", err)
	}

	fileIDs, unmapped := ResolveFileCategories(raw, cat)
	report := Reconcile(fileIDs, NewSet(folderNames...), cat.DeclaredIDs())
	report.Unmapped = unmapped
	report.CatalogProblems = cat.Problems()
	for _, u := range unmapped {
		s.logger.Warn("document category matches no declared category", "category", u)
	}
	return report
}

// Counts tallies documents per category id and per author.
func (s *Service) Counts(ctx context.Context) (Counts, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return Counts{}, err
	}
	docs, err := s.content.Documents(ctx)
	if err != nil {
		return Counts{}, s.ioFailure("scan content", err)
	}
	return CountDocuments(docs, NewCatalog(snap, s.aliases)), nil
}

// Stats computes the dashboard summary.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return Stats{}, err
	}
	docs, err := s.content.Documents(ctx)
	if err != nil {
		return Stats{}, s.ioFailure("scan content", err)
	}
	return ComputeStats(docs, snap), nil
}

// AddCategory declares a new category.
func (s *Service) AddCategory(ctx context.Context, in CategoryInput) (Result, error) {
	return s.mutate(ctx, "add_category", func(snap Snapshot) (Snapshot, string, error) {
		next, err := snap.AddCategory(in)
		if err != nil {
			return snap, "", err
		}
		return next, fmt.Sprintf("category %s added", in.normalize().ID), nil
	})
}

// EditCategory updates the category oldID.
func (s *Service) EditCategory(ctx context.Context, oldID string, in CategoryInput) (Result, error) {
	return s.mutate(ctx, "edit_category", func(snap Snapshot) (Snapshot, string, error) {
		next, err := snap.EditCategory(oldID, in)
		if err != nil {
			return snap, "", err
		}
		return next, fmt.Sprintf("category %s updated", oldID), nil
	})
}

// DeleteCategory removes a category, migrating its documents according to m.
// The document rewrites and the config write succeed or fail together.
func (s *Service) DeleteCategory(ctx context.Context, id string, m Migration) (Result, error) {
	const op = "delete_category"
	s.mu.Lock()
	defer s.mu.Unlock()
	start := s.now()

	res, paths, err := s.deleteCategory(ctx, id, m)
	s.finish(ctx, op, start, err, res.Message, paths)
	return res, err
}

func (s *Service) deleteCategory(ctx context.Context, id string, m Migration) (Result, []string, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return Result{}, nil, err
	}
	docs, err := s.content.Documents(ctx)
	if err != nil {
		return Result{}, nil, s.ioFailure("scan content", err)
	}
	cat := NewCatalog(snap, s.aliases)
	counts := CountDocuments(docs, cat)

	next, move, err := snap.DeleteCategory(id, counts.Categories[id], m)
	if err != nil {
		return Result{}, nil, err
	}
	if move != nil {
		move.Aliases = cat.AliasesOf(move.From.ID)
	}

	var plan MigrationPlan
	if move != nil {
		plan, err = s.content.PlanCategoryMigration(ctx, *move)
		if err != nil {
			return Result{}, nil, s.ioFailure("plan migration", err)
		}
		if err := plan.Commit(ctx); err != nil {
			if rbErr := plan.Rollback(ctx); rbErr != nil {
				s.logger.Error("rollback after failed migration", "error", rbErr)
			}
			return Result{}, nil, s.ioFailure("migrate documents", err)
		}
	}

	if err := s.config.Save(ctx, next); err != nil {
		if plan != nil {
			if rbErr := plan.Rollback(ctx); rbErr != nil {
				s.logger.Error("rollback after failed config write", "error", rbErr)
			}
		}
		return Result{}, nil, s.ioFailure("save config", err)
	}

	res := Result{Snapshot: next, Message: fmt.Sprintf("category %s deleted", id)}
	var paths []string
	if plan != nil {
		res.Migrated = plan.Len()
		res.Message += "; " + describeMove(move, plan.Len())
		paths = plan.Paths()
		s.recorder.AddMigratedDocuments(plan.Len())
	}
	return res, paths, nil
}

// AddAuthor declares a new author.
func (s *Service) AddAuthor(ctx context.Context, in AuthorInput) (Result, error) {
	return s.mutate(ctx, "add_author", func(snap Snapshot) (Snapshot, string, error) {
		next, err := snap.AddAuthor(in)
		if err != nil {
			return snap, "", err
		}
		return next, fmt.Sprintf("author %s added", in.normalize().Name), nil
	})
}

// EditAuthor renames or changes the status of an author.
func (s *Service) EditAuthor(ctx context.Context, oldName string, in AuthorInput) (Result, error) {
	return s.mutate(ctx, "edit_author", func(snap Snapshot) (Snapshot, string, error) {
		next, err := snap.EditAuthor(oldName, in)
		if err != nil {
			return snap, "", err
		}
		return next, fmt.Sprintf("author %s updated", oldName), nil
	})
}

// DeleteAuthor removes an author.
func (s *Service) DeleteAuthor(ctx context.Context, name string) (Result, error) {
	return s.mutate(ctx, "delete_author", func(snap Snapshot) (Snapshot, string, error) {
		next, err := snap.DeleteAuthor(name)
		if err != nil {
			return snap, "", err
		}
		return next, fmt.Sprintf("author %s deleted", name), nil
	})
}

// Backup copies the configuration file aside and returns the copy's path.
func (s *Service) Backup(ctx context.Context) (string, error) {
	start := s.now()
	b, ok := s.config.(Backuper)
	if !ok {
		err := errors.New("config store does not support backups")
		s.recorder.ObserveOperation("backup", "error", 0)
		return "", &Error{Kind: KindInternal, Op: "backup", Message: err.Error()}
	}
	path, err := b.Backup(ctx, start)
	if err != nil {
		s.recorder.ObserveOperation("backup", "error", s.now().Sub(start))
		return "", s.ioFailure("backup", err)
	}
	s.logger.Info("backup created", "path", path)
	s.recorder.ObserveOperation("backup", "ok", s.now().Sub(start))
	return path, nil
}

// mutate runs the load -> validate+mutate -> persist cycle.
func (s *Service) mutate(ctx context.Context, op string, fn func(Snapshot) (Snapshot, string, error)) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := s.now()

	res, err := func() (Result, error) {
		snap, err := s.Snapshot(ctx)
		if err != nil {
			return Result{}, err
		}
		next, msg, err := fn(snap)
		if err != nil {
			return Result{}, err
		}
		if err := s.config.Save(ctx, next); err != nil {
			return Result{}, s.ioFailure("save config", err)
		}
		return Result{Snapshot: next, Message: msg}, nil
	}()

	s.finish(ctx, op, start, err, res.Message, nil)
	return res, err
}

// finish logs, records metrics and, on success, versions the change.
func (s *Service) finish(ctx context.Context, op string, start time.Time, err error, msg string, extra []string) {
	elapsed := s.now().Sub(start)
	if err != nil {
		s.recorder.ObserveOperation(op, string(KindOf(err)), elapsed)
		s.logger.Warn("mutation rejected", "op", op, "error", err)
		return
	}
	s.recorder.ObserveOperation(op, "ok", elapsed)
	s.logger.Info("mutation applied", "op", op, "message", msg)

	if s.versioner == nil {
		return
	}
	paths := append([]string(nil), extra...)
	if p, ok := s.config.(interface{ Path() string }); ok {
		paths = append(paths, p.Path())
	}
	commitMsg := FormatCommitMessage(CommitTypeChore, "admin", msg, "")
	if reason, ok := ctx.Value(ChangeReasonKey).(string); ok && reason != "" {
		commitMsg = AppendFooter(reason)
	}
	if err := s.versioner.Commit(ctx, commitMsg, paths...); err != nil {
		// The mutation is already on disk; a failed commit is reported, not undone.
		s.logger.Error("failed to version mutation", "op", op, "error", err)
	}
}

func (s *Service) ioFailure(op string, err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	s.logger.Error("i/o failure", "op", op, "error", err)
	return IOError(op, err)
}
