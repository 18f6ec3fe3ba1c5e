package core

import (
	"iter"
	"sort"
	"strings"
	"time"
)

// RecentLimit is the number of posts reported as recently modified.
const RecentLimit = 5

// Counts tallies documents per resolved category id and per author.
type Counts struct {
	Categories map[string]int `json:"categories" yaml:"categories"`
	Authors    map[string]int `json:"authors" yaml:"authors"`
}

// PostInfo is the listing view of a document.
type PostInfo struct {
	Title    string    `json:"title" yaml:"title"`
	Slug     string    `json:"slug" yaml:"slug"`
	Date     string    `json:"date" yaml:"date"`
	Category string    `json:"category" yaml:"category"`
	Authors  []string  `json:"authors" yaml:"authors"`
	Path     string    `json:"path" yaml:"path"`
	ModTime  time.Time `json:"mtime" yaml:"mtime"`
}

// Stats is the dashboard summary of the content tree.
type Stats struct {
	TotalPosts      int            `json:"total_posts" yaml:"total_posts"`
	TotalCategories int            `json:"total_categories" yaml:"total_categories"`
	TotalAuthors    int            `json:"total_authors" yaml:"total_authors"`
	PostsByCategory map[string]int `json:"posts_by_category" yaml:"posts_by_category"`
	PostsByMonth    map[string]int `json:"posts_by_month" yaml:"posts_by_month"`
	RecentPosts     []PostInfo     `json:"recent_posts" yaml:"recent_posts"`
}

// isoLayouts are the date forms accepted for the by-month breakdown.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// MonthKey returns "YYYY-MM" for an ISO date string, or false when the date
// is not ISO (for instance a Jalali date written in Persian digits).
func MonthKey(date string) (string, bool) {
	date = strings.TrimSpace(date)
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Format("2006-01"), true
		}
	}
	return "", false
}

// CountDocuments tallies docs per category id (via the catalog) and per author.
func CountDocuments(docs iter.Seq[Document], cat *Catalog) Counts {
	c := Counts{Categories: map[string]int{}, Authors: map[string]int{}}
	for d := range docs {
		if raw := d.Category(); raw != "" {
			key := raw
			if id, ok := cat.Resolve(raw); ok {
				key = id
			}
			c.Categories[key]++
		}
		for _, a := range d.Authors() {
			c.Authors[a]++
		}
	}
	return c
}

// ComputeStats builds the dashboard summary. Category counts use the raw
// document strings, as shown to the operator.
func ComputeStats(docs iter.Seq[Document], snap Snapshot) Stats {
	st := Stats{
		TotalCategories: len(snap.Categories),
		TotalAuthors:    len(snap.Authors),
		PostsByCategory: map[string]int{},
		PostsByMonth:    map[string]int{},
	}
	var posts []PostInfo
	for d := range docs {
		posts = append(posts, PostInfo{
			Title:    d.Title(),
			Slug:     d.Slug(),
			Date:     d.Date(),
			Category: d.Category(),
			Authors:  d.Authors(),
			Path:     d.RelPath,
			ModTime:  d.ModTime,
		})
		if c := d.Category(); c != "" {
			st.PostsByCategory[c]++
		}
		if m, ok := MonthKey(d.Date()); ok {
			st.PostsByMonth[m]++
		}
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].ModTime.After(posts[j].ModTime)
	})
	st.TotalPosts = len(posts)
	if len(posts) > RecentLimit {
		posts = posts[:RecentLimit]
	}
	st.RecentPosts = posts
	if st.RecentPosts == nil {
		st.RecentPosts = []PostInfo{}
	}
	return st
}
