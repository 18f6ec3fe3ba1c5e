// Package blogadmin is the composition root of the blog admin tool.
//
// It wires the core domain (categories, authors and the consistency report)
// to its adapters: Markdown front matter on the file system, the
// userconf.py configuration file, optional git versioning and Prometheus
// metrics.
//
// Features:
//
//   - Consistency report between document categories, category folders and
//     declared categories.
//   - Category and author administration with layout-preserving edits of
//     userconf.py.
//   - Document migration when a category is deleted.
//   - Dashboard statistics and configuration backups.
//
// Usage:
//
//	settings, err := blogadmin.LoadSettings("")
//	app, err := blogadmin.New(ctx, settings, blogadmin.WithLogger(logger))
//	report := app.Service.Report(ctx)
package blogadmin
