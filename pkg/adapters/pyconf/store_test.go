package pyconf_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/blogadmin/pkg/adapters/pyconf"
	"github.com/aretw0/blogadmin/pkg/core"
)

const userconf = `# Blog configuration
USER_DIR = "/srv/blog"

AUTHORS = ['مجتبی بنائی', 'Guest']

CATEGORIES = {
    "cat_list": [
        ("Tech", "فناوری"),
        ("Diary", "روزنوشت")
    ],
    "default_category": "Diary",
    "status": {
        "Tech": "active",
        "Diary": "active"
    }
}

DEFAULT_AUTHOR = "مجتبی بنائی"

AUTHOR_STATUS = {'مجتبی بنائی': 'active', 'Guest': 'inactive'}

SITE_REPO = "https://example.org/site.git"
`

func writeConf(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "userconf.py")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestStore_Load(t *testing.T) {
	store := pyconf.NewStore(writeConf(t, userconf))

	snap, err := store.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []core.Author{
		{Name: "مجتبی بنائی", Status: core.StatusActive},
		{Name: "Guest", Status: core.StatusInactive},
	}, snap.Authors)
	assert.Equal(t, "مجتبی بنائی", snap.DefaultAuthor)
	assert.Equal(t, []core.Category{
		{ID: "Tech", DisplayName: "فناوری", Status: core.StatusActive},
		{ID: "Diary", DisplayName: "روزنوشت", Status: core.StatusActive},
	}, snap.Categories)
	assert.Equal(t, "Diary", snap.DefaultCategory)
}

func TestStore_LoadMissingFields(t *testing.T) {
	store := pyconf.NewStore(writeConf(t, "AUTHORS = ['Solo']\n"))

	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []core.Author{{Name: "Solo", Status: core.StatusActive}}, snap.Authors)
	assert.Empty(t, snap.Categories)
	assert.Empty(t, snap.DefaultCategory)
}

func TestStore_LoadRejectsUnknownStatus(t *testing.T) {
	tests := []struct {
		name    string
		replace string
		with    string
		want    string
	}{
		{"author", `'Guest': 'inactive'`, `'Guest': 'disabled'`, `author "Guest"`},
		{"category", `"Tech": "active"`, `"Tech": "archived"`, `category "Tech"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := pyconf.NewStore(writeConf(t, strings.Replace(userconf, tt.replace, tt.with, 1)))
			_, err := store.Load(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Contains(t, err.Error(), "unknown status")
		})
	}
}

func TestStore_LoadNormalizesStatusCase(t *testing.T) {
	store := pyconf.NewStore(writeConf(t, strings.Replace(userconf, `'Guest': 'inactive'`, `'Guest': ' Inactive '`, 1)))
	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.StatusInactive, snap.Authors[1].Status)
}

func TestStore_LoadMissingFile(t *testing.T) {
	store := pyconf.NewStore(filepath.Join(t.TempDir(), "nope.py"))
	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStore_SaveUnchangedIsByteIdentical(t *testing.T) {
	path := writeConf(t, userconf)
	store := pyconf.NewStore(path)
	ctx := context.Background()

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, snap))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, userconf, string(got))
}

func TestStore_SaveAddCategory(t *testing.T) {
	path := writeConf(t, userconf)
	store := pyconf.NewStore(path)
	ctx := context.Background()

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	next, err := snap.AddCategory(core.CategoryInput{ID: "fan_tech2", DisplayName: "فناوری نو", Status: core.StatusInactive})
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, next))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(got)

	assert.Contains(t, text, "        (\"Diary\", \"روزنوشت\"),\n        (\"fan_tech2\", \"فناوری نو\")\n    ],")
	assert.Contains(t, text, "        \"Diary\": \"active\",\n        \"fan_tech2\": \"inactive\"\n    }")

	// Unmanaged and untouched assignments are preserved verbatim.
	for _, line := range []string{
		"# Blog configuration\nUSER_DIR = \"/srv/blog\"\n",
		"AUTHORS = ['مجتبی بنائی', 'Guest']\n",
		"DEFAULT_AUTHOR = \"مجتبی بنائی\"\n",
		"AUTHOR_STATUS = {'مجتبی بنائی': 'active', 'Guest': 'inactive'}\n",
		"SITE_REPO = \"https://example.org/site.git\"\n",
	} {
		assert.Contains(t, text, line)
	}

	reloaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, next, reloaded)
}

func TestStore_SaveIdempotent(t *testing.T) {
	path := writeConf(t, userconf)
	store := pyconf.NewStore(path)
	ctx := context.Background()

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	next, err := snap.EditAuthor("Guest", core.AuthorInput{Name: "Guest Writer", Status: core.StatusActive})
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, next))
	once, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, next))
	twice, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, string(once), string(twice))
	assert.Contains(t, string(once), "AUTHORS = ['مجتبی بنائی', 'Guest Writer']")
	assert.Contains(t, string(once), "AUTHOR_STATUS = {'مجتبی بنائی': 'active', 'Guest Writer': 'active'}")
}

func TestStore_SaveRemovesStatusKeys(t *testing.T) {
	path := writeConf(t, userconf)
	store := pyconf.NewStore(path)
	ctx := context.Background()

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	next, _, err := snap.DeleteCategory("Tech", 0, core.Migration{})
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, next))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(got), `"Tech"`)
	assert.Contains(t, string(got), "    \"status\": {\n        \"Diary\": \"active\"\n    }\n}")
}

func TestStore_Backup(t *testing.T) {
	path := writeConf(t, userconf)
	store := pyconf.NewStore(path)

	at := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	dst, err := store.Backup(context.Background(), at)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(filepath.Dir(path), "backups", "userconf_20240309_140507.py"), dst)
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, userconf, string(got))
}

func TestStore_State(t *testing.T) {
	path := writeConf(t, userconf)
	store := pyconf.NewStore(path)

	st, ok := store.State().(pyconf.StoreState)
	require.True(t, ok)
	assert.True(t, st.Exists)
	assert.True(t, strings.HasSuffix(st.BackupDir, "backups"))
	assert.Equal(t, "pyconf", store.ComponentType())
}
