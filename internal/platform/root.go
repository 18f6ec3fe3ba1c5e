package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/blogadmin/internal/config"
)

// rootMarkers identify the top of a blog checkout.
var rootMarkers = []string{config.DefaultSettingsFile, "userconf.py"}

// FindRoot looks upwards from startDir for a directory holding a settings
// file or a userconf.py and returns its absolute path.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		for _, m := range rootMarkers {
			if hasFile(dir, m) {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("blog root not found from %s", abs)
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
