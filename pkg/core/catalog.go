package core

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// arabicFolds maps Arabic code points that Persian keyboards routinely emit
// to their Persian equivalents.
var arabicFolds = strings.NewReplacer(
	"ي", "ی", // ARABIC YEH -> FARSI YEH
	"ى", "ی", // ALEF MAKSURA -> FARSI YEH
	"ك", "ک", // ARABIC KAF -> KEHEH
)

// NormalizeName folds a display string into its comparison form.
func NormalizeName(s string) string {
	return arabicFolds.Replace(norm.NFC.String(strings.TrimSpace(s)))
}

// Catalog is the bidirectional id <-> display-name table of the declared
// categories, plus an optional alias table. Build it once per operation.
type Catalog struct {
	byID      map[string]Category
	byDisplay map[string]string // normalized display name -> id
	aliases   map[string]string // normalized alias -> id
	problems  []string
}

// NewCatalog builds the lookup tables and records data-quality problems
// (duplicate display names, aliases that target undeclared ids).
func NewCatalog(snap Snapshot, aliases map[string]string) *Catalog {
	c := &Catalog{
		byID:      make(map[string]Category, len(snap.Categories)),
		byDisplay: make(map[string]string, len(snap.Categories)),
		aliases:   make(map[string]string, len(aliases)),
	}

	for _, cat := range snap.Categories {
		c.byID[cat.ID] = cat
		key := NormalizeName(cat.DisplayName)
		if prev, dup := c.byDisplay[key]; dup && prev != cat.ID {
			c.problems = append(c.problems,
				fmt.Sprintf("display name %q is shared by categories %q and %q", cat.DisplayName, prev, cat.ID))
			continue
		}
		c.byDisplay[key] = cat.ID
	}

	aliasKeys := make([]string, 0, len(aliases))
	for k := range aliases {
		aliasKeys = append(aliasKeys, k)
	}
	sort.Strings(aliasKeys)
	for _, alias := range aliasKeys {
		target := aliases[alias]
		if _, ok := c.byID[target]; !ok {
			c.problems = append(c.problems,
				fmt.Sprintf("alias %q points at undeclared category %q", alias, target))
			continue
		}
		c.aliases[NormalizeName(alias)] = target
	}

	return c
}

// Resolve maps a category string found in a document to a declared id.
// Ids win over display names, display names over aliases.
func (c *Catalog) Resolve(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if _, ok := c.byID[trimmed]; ok {
		return trimmed, true
	}
	key := NormalizeName(trimmed)
	if id, ok := c.byDisplay[key]; ok {
		return id, true
	}
	if id, ok := c.aliases[key]; ok {
		return id, true
	}
	return "", false
}

// DeclaredIDs returns the set of declared ids.
func (c *Catalog) DeclaredIDs() Set {
	s := make(Set, len(c.byID))
	for id := range c.byID {
		s.Add(id)
	}
	return s
}

// AliasesOf returns the normalized aliases that resolve to id, sorted.
func (c *Catalog) AliasesOf(id string) []string {
	var out []string
	for alias, target := range c.aliases {
		if target == id {
			out = append(out, alias)
		}
	}
	sort.Strings(out)
	return out
}

// Problems lists the data-quality problems found while building the
// catalog. It is never nil.
func (c *Catalog) Problems() []string {
	return append([]string{}, c.problems...)
}
