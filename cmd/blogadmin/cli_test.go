package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/blogadmin"
	"github.com/aretw0/blogadmin/pkg/core"
)

func resetOutputFlags(t *testing.T) {
	t.Cleanup(func() {
		jsonOutput = false
		outputFormat = "text"
		changeReason, commitType, commitScope = "", "", ""
	})
}

func TestEmitFormats(t *testing.T) {
	resetOutputFlags(t)
	report := core.Reconcile(core.NewSet("Tech"), core.NewSet("Legacy"), core.NewSet("Tech"))

	var buf bytes.Buffer
	outputFormat = "text"
	done, err := emit(&buf, report)
	require.NoError(t, err)
	assert.False(t, done)

	outputFormat = "yaml"
	done, err = emit(&buf, report)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Contains(t, buf.String(), "orphaned_folders:")
	assert.Contains(t, buf.String(), "- Legacy")

	buf.Reset()
	jsonOutput = true
	_, err = emit(&buf, report)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"issues_count": 1`)

	jsonOutput = false
	outputFormat = "xml"
	_, err = emit(&buf, report)
	assert.Error(t, err)
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	printReport(&buf, core.Reconcile(core.NewSet("Tech", "Draft"), core.NewSet("Tech", "Legacy"), core.NewSet("Tech", "Diary")))
	out := buf.String()
	assert.Contains(t, out, "Used in posts but not declared (1):\n  - Draft")
	assert.Contains(t, out, "Declared but unused (1):\n  - Diary")
	assert.Contains(t, out, "Folders without a declared category (1):\n  - Legacy")
	assert.True(t, strings.HasSuffix(out, "Issues: 3\n"))
}

func TestMutationContext(t *testing.T) {
	resetOutputFlags(t)
	ctx := context.Background()

	assert.Nil(t, mutationContext(ctx).Value(core.ChangeReasonKey))

	changeReason = "tidy categories"
	msg, _ := mutationContext(ctx).Value(core.ChangeReasonKey).(string)
	assert.Equal(t, "tidy categories\n\nManaged-by: blogadmin", msg)

	commitType, commitScope = "feat", "categories"
	msg, _ = mutationContext(ctx).Value(core.ChangeReasonKey).(string)
	assert.True(t, strings.HasPrefix(msg, "feat(categories): tidy categories"), msg)
}

func writeBlogFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestResolveSettingsFromContentSubdirectory(t *testing.T) {
	blog := t.TempDir()
	writeBlogFile(t, filepath.Join(blog, "userconf.py"),
		"AUTHORS = ['Guest']\nCATEGORIES = {\"cat_list\": [(\"Tech\", \"Tech\")], \"default_category\": \"Tech\", \"status\": {}}\n")
	writeBlogFile(t, filepath.Join(blog, "content", "Tech", "2024", "01", "a.md"), "Category: Tech\n")
	wd := filepath.Join(blog, "content", "Tech")

	s, settingsFile, err := resolveSettings(wd, "")
	require.NoError(t, err)
	assert.Empty(t, settingsFile)
	assert.Equal(t, filepath.Join(blog, "userconf.py"), s.ConfigPath)
	assert.Equal(t, filepath.Join(blog, "content"), s.ContentRoot)

	app, err := blogadmin.New(context.Background(), s)
	require.NoError(t, err)
	report := app.Service.Report(context.Background())
	assert.Empty(t, report.Summary.Error)
	assert.Zero(t, report.Summary.IssuesCount)
}

func TestResolveSettingsAnchorsAtSettingsFile(t *testing.T) {
	blog := t.TempDir()
	writeBlogFile(t, filepath.Join(blog, "blogadmin.yaml"), "content: posts\nindex: .cache/index.json\n")
	require.NoError(t, os.MkdirAll(filepath.Join(blog, "posts", "Tech"), 0o755))

	s, settingsFile, err := resolveSettings(filepath.Join(blog, "posts", "Tech"), "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(blog, "blogadmin.yaml"), settingsFile)
	assert.Equal(t, filepath.Join(blog, "posts"), s.ContentRoot)
	assert.Equal(t, filepath.Join(blog, ".cache", "index.json"), s.IndexPath)
	assert.Equal(t, filepath.Join(blog, "userconf.py"), s.ConfigPath)

	other := t.TempDir()
	s, _, err = resolveSettings(other, filepath.Join(blog, "blogadmin.yaml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(blog, "posts"), s.ContentRoot)
}
