package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/blogadmin/internal/config"
)

func TestFindRoot(t *testing.T) {
	// base/
	//   blog/ (userconf.py)
	//     content/Tech/2024/
	//     site/ (blogadmin.yaml)
	//       drafts/
	//   elsewhere/
	base := t.TempDir()
	blog := filepath.Join(base, "blog")
	deep := filepath.Join(blog, "content", "Tech", "2024")
	site := filepath.Join(blog, "site")
	drafts := filepath.Join(site, "drafts")
	elsewhere := filepath.Join(base, "elsewhere")

	for _, dir := range []string{deep, drafts, elsewhere} {
		require.NoError(t, os.MkdirAll(dir, 0o755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(blog, "userconf.py"), []byte("AUTHORS = []\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(site, config.DefaultSettingsFile), []byte("git: false\n"), 0o644))

	tests := []struct {
		name  string
		start string
		want  string
	}{
		{"config at start", blog, blog},
		{"inside content tree", deep, blog},
		{"settings file wins when nearer", drafts, site},
		{"no marker", elsewhere, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindRoot(tt.start)
			if tt.want == "" {
				// The temp dir may itself sit below a directory holding a
				// marker; only assert that the blog is not found.
				if err == nil {
					assert.NotEqual(t, blog, got)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.Clean(tt.want), filepath.Clean(got))
		})
	}
}
