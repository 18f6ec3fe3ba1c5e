package fs

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/aretw0/blogadmin/pkg/core"
)

func writeDoc(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func collect(t *testing.T, repo *Repository) map[string]core.Document {
	t.Helper()
	docs, err := repo.Documents(context.Background())
	if err != nil {
		t.Fatalf("Documents: %v", err)
	}
	out := map[string]core.Document{}
	for d := range docs {
		out[d.RelPath] = d
	}
	return out
}

func TestParseFrontMatter(t *testing.T) {
	src := "\ufeffTitle: سلام دنیا\nDate: 2024-01-15 10:00\nCategory:  فناوری \nURL: https://example.com/a:b\nno colon here\ncategory: Tech\n\nBody: not metadata\n"
	meta, err := ParseFrontMatter(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if meta["title"] != "سلام دنیا" {
		t.Errorf("title = %q", meta["title"])
	}
	if meta["url"] != "https://example.com/a:b" {
		t.Errorf("value must keep colons after the first, got %q", meta["url"])
	}
	if meta["category"] != "Tech" {
		t.Errorf("last duplicate should win, got %q", meta["category"])
	}
	if _, ok := meta["body"]; ok {
		t.Error("header must stop at the first blank line")
	}
}

func TestParseFrontMatterInvalidUTF8(t *testing.T) {
	if _, err := ParseFrontMatter(strings.NewReader("Title: \xff\xfe\n")); err == nil {
		t.Fatal("expected error for invalid UTF-8")
	}
}

func TestDocumentsScan(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "Tech/2024/01/hello.md", "Title: Hello\nSlug: hello-world\nCategory: Tech\n\nbody")
	writeDoc(t, root, "Diary/no-slug.md", "Title: Dear diary\nCategory: روزنوشت\n")
	writeDoc(t, root, "Diary/bad.md", "Title: \xff\n")
	writeDoc(t, root, ".drafts/hidden.md", "Category: Secret\n")
	writeDoc(t, root, "__pycache__/x.md", "Category: Cache\n")
	writeDoc(t, root, "Tech/readme.txt", "Category: NotMarkdown\n")
	writeDoc(t, root, "Tech/"+TempFilePrefix+"1.md", "Category: Temp\n")

	repo := NewRepository(Config{Root: root})
	docs := collect(t, repo)

	var got []string
	for rel := range docs {
		got = append(got, rel)
	}
	slices.Sort(got)
	want := []string{"Diary/no-slug.md", "Tech/2024/01/hello.md"}
	if !slices.Equal(got, want) {
		t.Fatalf("documents = %v, want %v", got, want)
	}
	if s := docs["Tech/2024/01/hello.md"].Slug(); s != "hello-world" {
		t.Errorf("slug = %q", s)
	}
	if s := docs["Diary/no-slug.md"].Slug(); s != "no-slug" {
		t.Errorf("slug fallback = %q", s)
	}
	if docs["Diary/no-slug.md"].ModTime.IsZero() {
		t.Error("mod time not set")
	}

	state := repo.State().(RepositoryState)
	if state.LastScan == nil || state.LastScanned != 2 {
		t.Errorf("scan not recorded: %+v", state)
	}
}

func TestDocumentsPattern(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "Tech/a.md", "Category: Tech\n")
	writeDoc(t, root, "Tech/b.markdown", "Category: Tech\n")
	writeDoc(t, root, "pages/about.md", "Title: About\n")

	repo := NewRepository(Config{Root: root, Pattern: "Tech/**/*.{md,markdown}"})
	docs := collect(t, repo)
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if _, ok := docs["pages/about.md"]; ok {
		t.Error("pattern should exclude pages/")
	}
}

func TestDocumentsMissingRoot(t *testing.T) {
	repo := NewRepository(Config{Root: filepath.Join(t.TempDir(), "nope")})
	if _, err := repo.Documents(context.Background()); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestDocumentsEarlyStop(t *testing.T) {
	root := t.TempDir()
	for _, n := range []string{"a", "b", "c"} {
		writeDoc(t, root, "Tech/"+n+".md", "Category: Tech\n")
	}
	repo := NewRepository(Config{Root: root})
	docs, err := repo.Documents(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	n := 0
	for range docs {
		n++
		break
	}
	if n != 1 {
		t.Fatalf("expected to stop after one document, got %d", n)
	}
}

func TestDocumentsUsesCache(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "Tech/a.md", "Category: Tech\n")
	index := filepath.Join(t.TempDir(), "index.json")

	repo := NewRepository(Config{Root: root, IndexPath: index})
	collect(t, repo)
	collect(t, repo)

	state := repo.State().(RepositoryState)
	if state.CacheEntries != 1 || state.CacheHits != 1 || state.CacheMisses != 1 {
		t.Fatalf("unexpected cache stats: %+v", state)
	}
	if _, err := os.Stat(index); err != nil {
		t.Fatalf("index not persisted: %v", err)
	}

	// A fresh repository starts warm from the persisted index.
	warm := NewRepository(Config{Root: root, IndexPath: index})
	docs := collect(t, warm)
	if docs["Tech/a.md"].Category() != "Tech" {
		t.Fatalf("unexpected metadata from cache: %v", docs["Tech/a.md"].Metadata)
	}
	if state := warm.State().(RepositoryState); state.CacheHits != 1 {
		t.Fatalf("expected a cache hit, got %+v", state)
	}

	// Removed documents are pruned after a complete scan.
	if err := os.Remove(filepath.Join(root, "Tech", "a.md")); err != nil {
		t.Fatal(err)
	}
	collect(t, warm)
	if state := warm.State().(RepositoryState); state.CacheEntries != 0 {
		t.Fatalf("expected pruned cache, got %+v", state)
	}
}

// rewriteKeepingStat replaces a document with same-size content and puts
// its mtime back, the worst case for an mtime+size cache.
func rewriteKeepingStat(t *testing.T, path, content string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if int64(len(content)) != info.Size() {
		t.Fatalf("content must keep size %d", info.Size())
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, info.ModTime(), info.ModTime()); err != nil {
		t.Fatal(err)
	}
}

func TestDocumentsWithoutIndexRereadEveryScan(t *testing.T) {
	root := t.TempDir()
	a := writeDoc(t, root, "Tech/a.md", "Category: Tech\n")
	repo := NewRepository(Config{Root: root})

	if got := collect(t, repo)["Tech/a.md"].Category(); got != "Tech" {
		t.Fatalf("category = %q", got)
	}
	rewriteKeepingStat(t, a, "Category: Misc\n")
	if got := collect(t, repo)["Tech/a.md"].Category(); got != "Misc" {
		t.Fatalf("stale category %q after rewrite", got)
	}
	if state := repo.State().(RepositoryState); state.CacheEntries != 0 || state.CacheHits != 0 {
		t.Fatalf("cache should be disabled, got %+v", state)
	}
}

func TestMigrationEvictsCachedDocuments(t *testing.T) {
	root := t.TempDir()
	a := writeDoc(t, root, "Tech/a.md", "Category: Tech\n")
	repo := NewRepository(Config{Root: root, IndexPath: filepath.Join(t.TempDir(), "index.json")})
	collect(t, repo)

	before, err := os.Stat(a)
	if err != nil {
		t.Fatal(err)
	}
	move := core.CategoryMove{From: core.Category{ID: "Tech"}, To: core.Category{ID: "Misc"}}
	plan, err := repo.PlanCategoryMigration(context.Background(), move)
	if err != nil {
		t.Fatal(err)
	}
	if err := plan.Commit(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(a, before.ModTime(), before.ModTime()); err != nil {
		t.Fatal(err)
	}

	if got := collect(t, repo)["Tech/a.md"].Category(); got != "Misc" {
		t.Fatalf("stale category %q after migration", got)
	}
}

func TestCacheCorruptIndexIsIgnored(t *testing.T) {
	index := filepath.Join(t.TempDir(), "index.json")
	if err := os.WriteFile(index, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := newCache(index)
	if err := c.load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.len() != 0 {
		t.Fatalf("expected empty cache, got %d entries", c.len())
	}
}

func TestFolders(t *testing.T) {
	root := t.TempDir()
	for _, d := range []string{"Tech", "Legacy", ".git", "__pycache__", "روزنوشت"} {
		if err := os.Mkdir(filepath.Join(root, d), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	writeDoc(t, root, "stray.md", "Category: Tech\n")

	repo := NewRepository(Config{Root: root})
	got, err := repo.Folders(context.Background())
	if err != nil {
		t.Fatalf("Folders: %v", err)
	}
	want := []string{"Legacy", "Tech", "روزنوشت"}
	if !slices.Equal(got, want) {
		t.Fatalf("folders = %v, want %v", got, want)
	}
}
