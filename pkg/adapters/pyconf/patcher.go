package pyconf

import (
	"bytes"
	"fmt"
	"strings"
)

// Field paths managed by the store. A dotted path addresses a key inside a
// top-level dict assignment.
const (
	FieldAuthors         = "AUTHORS"
	FieldAuthorStatus    = "AUTHOR_STATUS"
	FieldDefaultAuthor   = "DEFAULT_AUTHOR"
	FieldCategoryList    = "CATEGORIES.cat_list"
	FieldCategoryStatus  = "CATEGORIES.status"
	FieldDefaultCategory = "CATEGORIES.default_category"
)

// Pair is a two-string tuple, as in ("Tech", "فناوری").
type Pair struct {
	First, Second string
}

// Item is a string-keyed, string-valued dict entry.
type Item struct {
	Key, Value string
}

const indentUnit = "    "

// GetField locates the literal assigned to path. ok is false when the
// assignment (or a nested key) does not exist.
func GetField(src []byte, path string) (v Value, ok bool, err error) {
	parts := strings.Split(path, ".")
	off, found, err := findAssignment(src, parts[0])
	if err != nil || !found {
		return Value{}, false, err
	}
	p := &parser{src: src}
	v, err = p.parseValue(off)
	if err != nil {
		return Value{}, false, fmt.Errorf("parse %s: %w", parts[0], err)
	}
	for _, key := range parts[1:] {
		if v.Kind != KindDict {
			return Value{}, false, nil
		}
		if v, ok = v.Lookup(key); !ok {
			return Value{}, false, nil
		}
	}
	return v, true, nil
}

// SetField replaces the literal assigned to path with the serialization of
// val, which must be a string, []string, []Pair or []Item. Every byte
// outside the replaced span is preserved. A missing field is skipped and
// reported with changed == false.
func SetField(src []byte, path string, val any) (out []byte, changed bool, err error) {
	cur, ok, err := GetField(src, path)
	if err != nil || !ok {
		return src, false, err
	}
	text, err := encode(val, styleOf(src, cur))
	if err != nil {
		return src, false, fmt.Errorf("encode %s: %w", path, err)
	}
	if string(src[cur.Start:cur.End]) == text {
		return src, false, nil
	}
	out = make([]byte, 0, len(src)-(cur.End-cur.Start)+len(text))
	out = append(out, src[:cur.Start]...)
	out = append(out, text...)
	out = append(out, src[cur.End:]...)
	return out, true, nil
}

// style is the layout of the literal being replaced.
type style struct {
	quote     byte
	multiline bool
	indent    string
}

func styleOf(src []byte, v Value) style {
	st := style{quote: '"'}
	if q := firstQuote(v); q != 0 {
		st.quote = q
	}
	st.multiline = bytes.IndexByte(src[v.Start:v.End], '\n') >= 0

	lineStart := bytes.LastIndexByte(src[:v.Start], '\n') + 1
	line := src[lineStart:v.Start]
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	st.indent = string(line[:n])
	return st
}

func firstQuote(v Value) byte {
	switch v.Kind {
	case KindString:
		return v.Quote
	case KindList, KindTuple:
		for _, it := range v.Items {
			if q := firstQuote(it); q != 0 {
				return q
			}
		}
	case KindDict:
		for _, e := range v.Entries {
			if q := firstQuote(e.Key); q != 0 {
				return q
			}
		}
	}
	return 0
}

func encode(val any, st style) (string, error) {
	q := func(s string) string { return quote(s, st.quote) }
	switch v := val.(type) {
	case string:
		return q(v), nil
	case []string:
		items := make([]string, len(v))
		for i, s := range v {
			items[i] = q(s)
		}
		return st.seq("[", "]", items), nil
	case []Pair:
		items := make([]string, len(v))
		for i, p := range v {
			items[i] = "(" + q(p.First) + ", " + q(p.Second) + ")"
		}
		return st.seq("[", "]", items), nil
	case []Item:
		items := make([]string, len(v))
		for i, it := range v {
			items[i] = q(it.Key) + ": " + q(it.Value)
		}
		return st.seq("{", "}", items), nil
	}
	return "", fmt.Errorf("unsupported value type %T", val)
}

func (st style) seq(opener, closer string, items []string) string {
	if len(items) == 0 {
		return opener + closer
	}
	if !st.multiline {
		return opener + strings.Join(items, ", ") + closer
	}
	var sb strings.Builder
	sb.WriteString(opener)
	sb.WriteByte('\n')
	for i, it := range items {
		sb.WriteString(st.indent)
		sb.WriteString(indentUnit)
		sb.WriteString(it)
		if i < len(items)-1 {
			sb.WriteByte(',')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(st.indent)
	sb.WriteString(closer)
	return sb.String()
}

var escapes = map[rune]string{'\\': `\\`, '\n': `\n`, '\r': `\r`, '\t': `\t`}

func quote(s string, q byte) string {
	var sb strings.Builder
	sb.WriteByte(q)
	for _, r := range s {
		if e, ok := escapes[r]; ok {
			sb.WriteString(e)
			continue
		}
		if r == rune(q) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	sb.WriteByte(q)
	return sb.String()
}

// AsString decodes a string literal. None decodes to "".
func (v Value) AsString(src []byte) (string, error) {
	switch {
	case v.Kind == KindString:
		return v.Str, nil
	case v.Kind == KindOther && string(src[v.Start:v.End]) == "None":
		return "", nil
	}
	return "", fmt.Errorf("expected string, found %s", v.Kind)
}

// AsStrings decodes a list or tuple of strings.
func (v Value) AsStrings() ([]string, error) {
	if v.Kind != KindList && v.Kind != KindTuple {
		return nil, fmt.Errorf("expected list, found %s", v.Kind)
	}
	out := make([]string, 0, len(v.Items))
	for _, it := range v.Items {
		if it.Kind != KindString {
			return nil, fmt.Errorf("expected string item, found %s", it.Kind)
		}
		out = append(out, it.Str)
	}
	return out, nil
}

// AsPairs decodes a list of two-string tuples.
func (v Value) AsPairs() ([]Pair, error) {
	if v.Kind != KindList && v.Kind != KindTuple {
		return nil, fmt.Errorf("expected list, found %s", v.Kind)
	}
	out := make([]Pair, 0, len(v.Items))
	for _, it := range v.Items {
		strs, err := it.AsStrings()
		if err != nil {
			return nil, err
		}
		if len(strs) != 2 {
			return nil, fmt.Errorf("expected a pair, found %d items", len(strs))
		}
		out = append(out, Pair{strs[0], strs[1]})
	}
	return out, nil
}

// AsItems decodes a dict of string keys to string values, in source order.
func (v Value) AsItems() ([]Item, error) {
	if v.Kind != KindDict {
		return nil, fmt.Errorf("expected dict, found %s", v.Kind)
	}
	out := make([]Item, 0, len(v.Entries))
	for _, e := range v.Entries {
		if e.Key.Kind != KindString || e.Value.Kind != KindString {
			return nil, fmt.Errorf("expected string entries in dict")
		}
		out = append(out, Item{e.Key.Str, e.Value.Str})
	}
	return out, nil
}
