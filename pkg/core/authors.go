package core

import "strings"

// AddAuthor appends a new author. The first active author becomes the
// default when none is set.
func (s Snapshot) AddAuthor(in AuthorInput) (Snapshot, error) {
	const op = "add author"
	in = in.normalize()
	if err := in.Validate(); err != nil {
		return s, asValidationError(op, err)
	}
	if _, exists := s.Author(in.Name); exists {
		return s, ValidationError(op, "author %q already exists", in.Name)
	}
	if in.IsDefault && in.Status != StatusActive {
		return s, ValidationError(op, "default author must be active")
	}

	out := s.Clone()
	out.Authors = append(out.Authors, Author{Name: in.Name, Status: in.Status})
	switch {
	case in.IsDefault:
		out.DefaultAuthor = in.Name
	case out.DefaultAuthor == "" && in.Status == StatusActive:
		out.DefaultAuthor = in.Name
	}
	return out, nil
}

// EditAuthor renames and/or changes the status of oldName.
func (s Snapshot) EditAuthor(oldName string, in AuthorInput) (Snapshot, error) {
	const op = "edit author"
	oldName = strings.TrimSpace(oldName)
	idx := s.authorIndex(oldName)
	if idx < 0 {
		return s, NotFoundError(op, "author", oldName)
	}
	in = in.normalize()
	if err := in.Validate(); err != nil {
		return s, asValidationError(op, err)
	}
	if in.Name != oldName {
		if _, exists := s.Author(in.Name); exists {
			return s, ValidationError(op, "author %q already exists", in.Name)
		}
	}
	if in.IsDefault && in.Status != StatusActive {
		return s, ValidationError(op, "default author must be active")
	}
	if in.Status == StatusInactive && s.Authors[idx].Status != StatusInactive && len(s.ActiveAuthors()) == 1 {
		return s, ValidationError(op, "%q is the only active author", oldName)
	}

	out := s.Clone()
	out.Authors[idx] = Author{Name: in.Name, Status: in.Status}
	wasDefault := s.DefaultAuthor == oldName
	switch {
	case in.IsDefault:
		out.DefaultAuthor = in.Name
	case wasDefault && in.Status == StatusActive:
		out.DefaultAuthor = in.Name
	case wasDefault:
		out.DefaultAuthor = out.firstActiveExcept(in.Name)
	}
	return out, nil
}

// DeleteAuthor removes name. The sole active author cannot be removed; a
// default author hands the default to another active author first.
func (s Snapshot) DeleteAuthor(name string) (Snapshot, error) {
	const op = "delete author"
	name = strings.TrimSpace(name)
	idx := s.authorIndex(name)
	if idx < 0 {
		return s, NotFoundError(op, "author", name)
	}
	active := s.ActiveAuthors()
	if s.Authors[idx].Status != StatusInactive && len(active) == 1 {
		return s, ValidationError(op, "cannot delete %q: it is the only active author", name)
	}

	out := s.Clone()
	if s.DefaultAuthor == name {
		next := out.firstActiveExcept(name)
		if next == "" {
			return s, ValidationError(op, "cannot delete default author %q: no other active author to promote", name)
		}
		out.DefaultAuthor = next
	}
	out.Authors = append(out.Authors[:idx], out.Authors[idx+1:]...)
	if out.DefaultAuthor == "" {
		if act := out.ActiveAuthors(); len(act) > 0 {
			out.DefaultAuthor = act[0]
		} else if len(out.Authors) > 0 {
			out.DefaultAuthor = out.Authors[0].Name
		}
	}
	return out, nil
}

func (s Snapshot) firstActiveExcept(name string) string {
	for _, a := range s.Authors {
		if a.Name != name && a.Status != StatusInactive {
			return a.Name
		}
	}
	return ""
}
