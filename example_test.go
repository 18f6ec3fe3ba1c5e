package blogadmin_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/aretw0/blogadmin"
	"github.com/aretw0/blogadmin/pkg/core"
)

// Example_report builds a tiny blog and prints its consistency report.
func Example_report() {
	root, err := os.MkdirTemp("", "blogadmin-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(root)

	conf := `AUTHORS = ['Gopher']
CATEGORIES = {"cat_list": [("Tech", "Technology"), ("Diary", "Diary")], "default_category": "Diary", "status": {}}
DEFAULT_AUTHOR = 'Gopher'
AUTHOR_STATUS = {'Gopher': 'active'}
`
	doc := "Title: Hello\nCategory: Technology\n\nFirst post.\n"
	must(os.WriteFile(filepath.Join(root, "userconf.py"), []byte(conf), 0o644))
	must(os.MkdirAll(filepath.Join(root, "content", "Tech"), 0o755))
	must(os.MkdirAll(filepath.Join(root, "content", "Legacy"), 0o755))
	must(os.WriteFile(filepath.Join(root, "content", "Tech", "hello.md"), []byte(doc), 0o644))

	settings := blogadmin.DefaultSettings()
	settings.ConfigPath = filepath.Join(root, "userconf.py")
	settings.ContentRoot = filepath.Join(root, "content")

	ctx := context.Background()
	app, err := blogadmin.New(ctx, settings)
	if err != nil {
		log.Fatal(err)
	}

	report := app.Service.Report(ctx)
	fmt.Println("missing in files:", report.MissingInFiles)
	fmt.Println("orphaned folders:", report.OrphanedFolders)
	fmt.Println("issues:", report.Summary.IssuesCount)

	res, err := app.Service.AddCategory(ctx, core.CategoryInput{ID: "Books", DisplayName: "Books"})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.Message)

	// Output:
	// missing in files: [Diary]
	// orphaned folders: [Legacy]
	// issues: 2
	// category Books added
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
