package core

import (
	"fmt"
	"slices"
	"strings"
)

// MigrationMode selects what happens to documents of a deleted category.
type MigrationMode string

const (
	MigrateUnspecified   MigrationMode = ""
	MigrateKeep          MigrationMode = "keep"
	MigrateToDefault     MigrationMode = "default"
	MigrateToReplacement MigrationMode = "replacement"
)

// ParseMigrationMode accepts the CLI/API spellings of a migration mode.
func ParseMigrationMode(s string) (MigrationMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return MigrateUnspecified, nil
	case "keep":
		return MigrateKeep, nil
	case "default", "move-to-default", "move_to_default":
		return MigrateToDefault, nil
	case "replacement", "replace", "move-to-replacement", "move_to_replacement":
		return MigrateToReplacement, nil
	}
	return MigrateUnspecified, ValidationError("parse migration", "unknown migration mode %q", s)
}

// Migration is the caller's choice for the documents of a deleted category.
type Migration struct {
	Mode        MigrationMode `json:"mode"`
	Replacement string        `json:"replacement,omitempty"`
}

// CategoryMove describes a front-matter rewrite from one category to another.
// Both the id and the display name of each side are carried, since documents
// reference categories by either.
type CategoryMove struct {
	From Category
	To   Category

	// Aliases are the alias names that resolve to From, in normalized form.
	// Documents using them are moved to To's id.
	Aliases []string
}

// HasAlias reports whether raw names From through an alias.
func (m CategoryMove) HasAlias(raw string) bool {
	return slices.Contains(m.Aliases, NormalizeName(raw))
}

func (s *Snapshot) hasDisplayName(name, exceptID string) bool {
	key := NormalizeName(name)
	for _, c := range s.Categories {
		if c.ID != exceptID && NormalizeName(c.DisplayName) == key {
			return true
		}
	}
	return false
}

// AddCategory validates in and appends it to a copy of the snapshot.
func (s Snapshot) AddCategory(in CategoryInput) (Snapshot, error) {
	const op = "add category"
	in = in.normalize()
	if err := in.Validate(); err != nil {
		return s, asValidationError(op, err)
	}
	if _, exists := s.Category(in.ID); exists {
		return s, ValidationError(op, "category id %q already exists", in.ID)
	}
	if s.hasDisplayName(in.DisplayName, "") {
		return s, ValidationError(op, "display name %q already exists", in.DisplayName)
	}
	if in.IsDefault && in.Status != StatusActive {
		return s, ValidationError(op, "default category must be active")
	}

	out := s.Clone()
	out.Categories = append(out.Categories, Category{ID: in.ID, DisplayName: in.DisplayName, Status: in.Status})
	switch {
	case in.IsDefault:
		out.DefaultCategory = in.ID
	case out.DefaultCategory == "" && in.Status == StatusActive:
		out.DefaultCategory = in.ID
	}
	return out, nil
}

// EditCategory replaces the category oldID in place. A rename keeps the
// position in the declaration order.
func (s Snapshot) EditCategory(oldID string, in CategoryInput) (Snapshot, error) {
	const op = "edit category"
	oldID = strings.TrimSpace(oldID)
	idx := s.categoryIndex(oldID)
	if idx < 0 {
		return s, NotFoundError(op, "category", oldID)
	}
	in = in.normalize()
	if err := in.Validate(); err != nil {
		return s, asValidationError(op, err)
	}
	if in.ID != oldID {
		if _, exists := s.Category(in.ID); exists {
			return s, ValidationError(op, "category id %q already exists", in.ID)
		}
	}
	if s.hasDisplayName(in.DisplayName, oldID) {
		return s, ValidationError(op, "display name %q already exists", in.DisplayName)
	}
	if in.IsDefault && in.Status != StatusActive {
		return s, ValidationError(op, "default category must be active")
	}

	out := s.Clone()
	out.Categories[idx] = Category{ID: in.ID, DisplayName: in.DisplayName, Status: in.Status}
	switch {
	case in.IsDefault:
		out.DefaultCategory = in.ID
	case s.DefaultCategory == oldID:
		out.DefaultCategory = ""
	}
	return out, nil
}

// DeleteCategory removes id from a copy of the snapshot. documents is the
// number of documents currently filed under the category; when non-zero the
// migration must be explicit. The returned move is nil when no document
// rewrite is required.
func (s Snapshot) DeleteCategory(id string, documents int, m Migration) (Snapshot, *CategoryMove, error) {
	const op = "delete category"
	id = strings.TrimSpace(id)
	idx := s.categoryIndex(id)
	if idx < 0 {
		return s, nil, NotFoundError(op, "category", id)
	}
	victim := s.Categories[idx]
	if s.DefaultCategory == id && len(s.Categories) > 1 {
		return s, nil, ValidationError(op,
			"category %q is the default; choose another default before deleting it", id)
	}

	var move *CategoryMove
	if documents > 0 {
		switch m.Mode {
		case MigrateKeep:
		case MigrateToDefault:
			target, ok := s.Category(s.DefaultCategory)
			if !ok || target.ID == id {
				return s, nil, MigrationError(op, "no valid default category to move %d document(s) to", documents)
			}
			move = &CategoryMove{From: victim, To: target}
		case MigrateToReplacement:
			target, ok := s.Category(strings.TrimSpace(m.Replacement))
			if !ok {
				return s, nil, MigrationError(op, "replacement category %q does not exist", m.Replacement)
			}
			if target.ID == id {
				return s, nil, MigrationError(op, "replacement category must differ from %q", id)
			}
			move = &CategoryMove{From: victim, To: target}
		default:
			return s, nil, ValidationError(op,
				"category %q has %d document(s); a migration choice (keep, default, replacement) is required", id, documents).
				WithContext("documents", documents)
		}
	}

	out := s.Clone()
	out.Categories = append(out.Categories[:idx], out.Categories[idx+1:]...)
	if out.DefaultCategory == id {
		out.DefaultCategory = ""
	}
	return out, move, nil
}

// describeMove renders a short human message for a category migration.
func describeMove(move *CategoryMove, migrated int) string {
	if move == nil {
		return ""
	}
	return fmt.Sprintf("moved %d document(s) from %s to %s", migrated, move.From.ID, move.To.ID)
}
