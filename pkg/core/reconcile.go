package core

import (
	"iter"
	"sort"
)

// Set is an unordered collection of category identifiers.
type Set map[string]struct{}

// NewSet builds a set from the given items.
func NewSet(items ...string) Set {
	s := make(Set, len(items))
	for _, it := range items {
		s.Add(it)
	}
	return s
}

func (s Set) Add(v string) { s[v] = struct{}{} }

func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Minus returns s − other.
func (s Set) Minus(other Set) Set {
	out := make(Set)
	for v := range s {
		if !other.Has(v) {
			out.Add(v)
		}
	}
	return out
}

// Sorted returns the members in lexical order. Never nil.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// ReportSummary aggregates the counts of a ConsistencyReport.
type ReportSummary struct {
	TotalFileCategories     int    `json:"total_file_categories" yaml:"total_file_categories"`
	TotalFolderCategories   int    `json:"total_folder_categories" yaml:"total_folder_categories"`
	TotalDeclaredCategories int    `json:"total_declared_categories" yaml:"total_declared_categories"`
	IssuesCount             int    `json:"issues_count" yaml:"issues_count"`
	Error                   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// ConsistencyReport lists the discrepancies between document categories,
// folder layout and declared configuration.
type ConsistencyReport struct {
	MissingInConfig []string      `json:"missing_in_config" yaml:"missing_in_config"`
	MissingInFiles  []string      `json:"missing_in_files" yaml:"missing_in_files"`
	OrphanedFolders []string      `json:"orphaned_folders" yaml:"orphaned_folders"`
	Summary         ReportSummary `json:"summary" yaml:"summary"`

	// Informational; not part of IssuesCount.
	Unmapped        []string `json:"unmapped" yaml:"unmapped"`
	CatalogProblems []string `json:"catalog_problems" yaml:"catalog_problems"`
}

// HasIssues reports whether any of the three discrepancy lists is non-empty.
func (r ConsistencyReport) HasIssues() bool {
	return r.Summary.IssuesCount > 0
}

// Reconcile diffs the three category sources with plain set differences.
func Reconcile(file, folder, declared Set) ConsistencyReport {
	r := ConsistencyReport{
		MissingInConfig: file.Minus(declared).Sorted(),
		MissingInFiles:  declared.Minus(file).Sorted(),
		OrphanedFolders: folder.Minus(declared).Sorted(),
		Unmapped:        []string{},
		CatalogProblems: []string{},
	}
	r.Summary = ReportSummary{
		TotalFileCategories:     len(file),
		TotalFolderCategories:   len(folder),
		TotalDeclaredCategories: len(declared),
		IssuesCount:             len(r.MissingInConfig) + len(r.MissingInFiles) + len(r.OrphanedFolders),
	}
	return r
}

// FailedReport is returned when the declared categories cannot be read.
// Lists stay empty; the error travels in the summary.
func FailedReport(err error) ConsistencyReport {
	return ConsistencyReport{
		MissingInConfig: []string{},
		MissingInFiles:  []string{},
		OrphanedFolders: []string{},
		Unmapped:        []string{},
		CatalogProblems: []string{},
		Summary:         ReportSummary{Error: err.Error()},
	}
}

// ResolveFileCategories maps the raw document category strings to declared
// ids through the catalog. Unresolved strings are kept verbatim and also
// returned as unmapped.
func ResolveFileCategories(raw Set, cat *Catalog) (resolved Set, unmapped []string) {
	resolved = make(Set, len(raw))
	miss := make(Set)
	for v := range raw {
		if id, ok := cat.Resolve(v); ok {
			resolved.Add(id)
			continue
		}
		resolved.Add(v)
		miss.Add(v)
	}
	return resolved, miss.Sorted()
}

// FileCategories collects the non-empty category strings used by docs.
func FileCategories(docs iter.Seq[Document]) Set {
	s := make(Set)
	for d := range docs {
		if c := d.Category(); c != "" {
			s.Add(c)
		}
	}
	return s
}
