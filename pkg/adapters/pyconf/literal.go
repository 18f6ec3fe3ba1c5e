package pyconf

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Kind is the syntactic class of a literal.
type Kind int

const (
	KindOther Kind = iota // names, numbers, calls: carried as raw text
	KindString
	KindList
	KindTuple
	KindDict
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindTuple:
		return "tuple"
	case KindDict:
		return "dict"
	}
	return "expression"
}

// Value is a parsed literal together with its byte span [Start, End) in the source.
type Value struct {
	Kind    Kind
	Start   int
	End     int
	Str     string  // decoded content, KindString only
	Quote   byte    // quote character, KindString only
	Items   []Value // KindList, KindTuple
	Entries []Entry // KindDict, in source order
}

// Entry is one key: value pair of a dict literal.
type Entry struct {
	Key   Value
	Value Value
}

// Lookup returns the value of the first entry whose key is the string key.
func (v Value) Lookup(key string) (Value, bool) {
	for _, e := range v.Entries {
		if e.Key.Kind == KindString && e.Key.Str == key {
			return e.Value, true
		}
	}
	return Value{}, false
}

// SyntaxError reports a malformed literal.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at byte %d: %s", e.Offset, e.Msg)
}

var errUnterminated = errors.New("unterminated string")

// parser reads literals from src. It understands exactly what the
// configuration file uses: strings, lists, tuples, dicts, comments.
type parser struct {
	src []byte
}

func (p *parser) errorf(off int, format string, args ...any) error {
	return &SyntaxError{Offset: off, Msg: fmt.Sprintf(format, args...)}
}

// skipSpace skips blanks, newlines and comments.
func (p *parser) skipSpace(i int) int {
	for i < len(p.src) {
		switch p.src[i] {
		case ' ', '\t', '\r', '\n', '\f':
			i++
		case '#':
			for i < len(p.src) && p.src[i] != '\n' {
				i++
			}
		case '\\':
			// explicit line continuation
			if i+1 < len(p.src) && (p.src[i+1] == '\n' || p.src[i+1] == '\r') {
				i += 2
				continue
			}
			return i
		default:
			return i
		}
	}
	return i
}

// parseValue parses one literal starting at i.
func (p *parser) parseValue(i int) (Value, error) {
	if i >= len(p.src) {
		return Value{}, p.errorf(i, "unexpected end of input")
	}
	if q, n := stringPrefix(p.src[i:]); q != 0 {
		return p.parseString(i, n)
	}
	switch p.src[i] {
	case '[':
		return p.parseSeq(i, ']', KindList)
	case '(':
		return p.parseSeq(i, ')', KindTuple)
	case '{':
		return p.parseDict(i)
	}
	return p.parseOther(i)
}

// stringPrefix detects an optional r/u/b/f prefix followed by a quote.
// It returns the quote byte and the prefix length.
func stringPrefix(b []byte) (byte, int) {
	n := 0
	for n < len(b) && n < 2 && strings.IndexByte("rRuUbBfF", b[n]) >= 0 {
		n++
	}
	if n < len(b) && (b[n] == '"' || b[n] == '\'') {
		return b[n], n
	}
	return 0, 0
}

func (p *parser) parseString(start, prefixLen int) (Value, error) {
	raw := strings.ContainsAny(string(p.src[start:start+prefixLen]), "rR")
	q := p.src[start+prefixLen]
	body := start + prefixLen + 1

	if strings.HasPrefix(string(p.src[body-1:min(body+2, len(p.src))]), strings.Repeat(string(q), 3)) {
		return p.parseTripleString(start, body+2, q, raw)
	}

	var sb strings.Builder
	for i := body; i < len(p.src); {
		c := p.src[i]
		switch {
		case c == q:
			return Value{Kind: KindString, Start: start, End: i + 1, Str: sb.String(), Quote: q}, nil
		case c == '\n':
			return Value{}, p.errorf(start, "%v", errUnterminated)
		case c == '\\' && i+1 < len(p.src):
			if raw {
				sb.WriteByte(c)
				sb.WriteByte(p.src[i+1])
				i += 2
				continue
			}
			n, err := unescape(&sb, p.src[i:])
			if err != nil {
				return Value{}, p.errorf(i, "%v", err)
			}
			i += n
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return Value{}, p.errorf(start, "%v", errUnterminated)
}

func (p *parser) parseTripleString(start, body int, q byte, raw bool) (Value, error) {
	closing := strings.Repeat(string(q), 3)
	for i := body; i < len(p.src); i++ {
		if p.src[i] == '\\' {
			i++
			continue
		}
		if strings.HasPrefix(string(p.src[i:min(i+3, len(p.src))]), closing) {
			text := string(p.src[body:i])
			if !raw {
				var sb strings.Builder
				for j := 0; j < len(text); {
					if text[j] == '\\' && j+1 < len(text) {
						n, err := unescape(&sb, []byte(text[j:]))
						if err != nil {
							return Value{}, p.errorf(body+j, "%v", err)
						}
						j += n
						continue
					}
					sb.WriteByte(text[j])
					j++
				}
				text = sb.String()
			}
			return Value{Kind: KindString, Start: start, End: i + 3, Str: text, Quote: q}, nil
		}
	}
	return Value{}, p.errorf(start, "%v", errUnterminated)
}

// unescape decodes one backslash escape at the head of b and returns the
// number of bytes consumed.
func unescape(sb *strings.Builder, b []byte) (int, error) {
	switch b[1] {
	case '\\', '\'', '"':
		sb.WriteByte(b[1])
		return 2, nil
	case 'n':
		sb.WriteByte('\n')
		return 2, nil
	case 't':
		sb.WriteByte('\t')
		return 2, nil
	case 'r':
		sb.WriteByte('\r')
		return 2, nil
	case '\n':
		return 2, nil
	case 'x', 'u', 'U':
		width := map[byte]int{'x': 2, 'u': 4, 'U': 8}[b[1]]
		if len(b) < 2+width {
			return 0, fmt.Errorf("truncated \\%c escape", b[1])
		}
		r, err := strconv.ParseUint(string(b[2:2+width]), 16, 32)
		if err != nil || !utf8.ValidRune(rune(r)) {
			return 0, fmt.Errorf("invalid \\%c escape", b[1])
		}
		sb.WriteRune(rune(r))
		return 2 + width, nil
	}
	// Unknown escapes are kept verbatim.
	sb.WriteByte('\\')
	sb.WriteByte(b[1])
	return 2, nil
}

func (p *parser) parseSeq(start int, closer byte, kind Kind) (Value, error) {
	v := Value{Kind: kind, Start: start}
	i := p.skipSpace(start + 1)
	for {
		if i >= len(p.src) {
			return Value{}, p.errorf(start, "unclosed %s", kind)
		}
		if p.src[i] == closer {
			v.End = i + 1
			return v, nil
		}
		item, err := p.parseValue(i)
		if err != nil {
			return Value{}, err
		}
		v.Items = append(v.Items, item)
		i = p.skipSpace(item.End)
		if i < len(p.src) && p.src[i] == ',' {
			i = p.skipSpace(i + 1)
			continue
		}
		if i < len(p.src) && p.src[i] == closer {
			continue
		}
		return Value{}, p.errorf(i, "expected ',' or %q in %s", closer, kind)
	}
}

func (p *parser) parseDict(start int) (Value, error) {
	v := Value{Kind: KindDict, Start: start}
	i := p.skipSpace(start + 1)
	for {
		if i >= len(p.src) {
			return Value{}, p.errorf(start, "unclosed dict")
		}
		if p.src[i] == '}' {
			v.End = i + 1
			return v, nil
		}
		key, err := p.parseValue(i)
		if err != nil {
			return Value{}, err
		}
		i = p.skipSpace(key.End)
		if i >= len(p.src) || p.src[i] != ':' {
			return Value{}, p.errorf(i, "expected ':' after dict key")
		}
		val, err := p.parseValue(p.skipSpace(i + 1))
		if err != nil {
			return Value{}, err
		}
		v.Entries = append(v.Entries, Entry{Key: key, Value: val})
		i = p.skipSpace(val.End)
		if i < len(p.src) && p.src[i] == ',' {
			i = p.skipSpace(i + 1)
			continue
		}
		if i < len(p.src) && p.src[i] == '}' {
			continue
		}
		return Value{}, p.errorf(i, "expected ',' or '}' in dict")
	}
}

// parseOther consumes an arbitrary expression up to the next separator at
// depth zero: a comma, a closing bracket, a colon, a newline or a comment.
func (p *parser) parseOther(start int) (Value, error) {
	depth := 0
	i := start
	for i < len(p.src) {
		c := p.src[i]
		if q, n := stringPrefix(p.src[i:]); q != 0 && (n == 0 || !isIdentByte(prevByte(p.src, i))) {
			end, err := skipString(p.src, i+n)
			if err != nil {
				return Value{}, p.errorf(i, "%v", err)
			}
			i = end
			continue
		}
		switch c {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth == 0 {
				return p.other(start, i)
			}
			depth--
		case ',', ':':
			if depth == 0 {
				return p.other(start, i)
			}
		case '\n', '#':
			if depth == 0 {
				return p.other(start, i)
			}
		}
		i++
	}
	return p.other(start, i)
}

func (p *parser) other(start, end int) (Value, error) {
	trimmed := strings.TrimRight(string(p.src[start:end]), " \t\r")
	if trimmed == "" {
		return Value{}, p.errorf(start, "expected a value")
	}
	return Value{Kind: KindOther, Start: start, End: start + len(trimmed)}, nil
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func prevByte(b []byte, i int) byte {
	if i == 0 {
		return 0
	}
	return b[i-1]
}

// skipString returns the offset just past the string whose opening quote is at i.
func skipString(src []byte, i int) (int, error) {
	q := src[i]
	triple := i+2 < len(src) && src[i+1] == q && src[i+2] == q
	if triple {
		for j := i + 3; j+2 < len(src); j++ {
			if src[j] == '\\' {
				j++
				continue
			}
			if src[j] == q && src[j+1] == q && src[j+2] == q {
				return j + 3, nil
			}
		}
		return 0, errUnterminated
	}
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case q:
			return j + 1, nil
		case '\n':
			return 0, errUnterminated
		}
	}
	return 0, errUnterminated
}

// findAssignment returns the offset of the value assigned to name by a
// top-level statement "name = ...". Occurrences inside strings, comments
// or brackets do not count.
func findAssignment(src []byte, name string) (int, bool, error) {
	depth := 0
	lineStart := true
	for i := 0; i < len(src); {
		if lineStart && depth == 0 {
			if off, ok := matchAssignment(src, i, name); ok {
				return off, true, nil
			}
		}
		lineStart = false
		c := src[i]
		if q, n := stringPrefix(src[i:]); q != 0 && (n == 0 || !isIdentByte(prevByte(src, i))) {
			end, err := skipString(src, i+n)
			if err != nil {
				return 0, false, &SyntaxError{Offset: i, Msg: err.Error()}
			}
			i = end
			continue
		}
		switch c {
		case '#':
			for i < len(src) && src[i] != '\n' {
				i++
			}
			continue
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case '\n':
			lineStart = true
		}
		i++
	}
	return 0, false, nil
}

// matchAssignment checks for `name =` at a line start (no indentation) and
// returns the offset of the first byte of the value.
func matchAssignment(src []byte, i int, name string) (int, bool) {
	if !strings.HasPrefix(string(src[i:min(i+len(name), len(src))]), name) {
		return 0, false
	}
	j := i + len(name)
	for j < len(src) && (src[j] == ' ' || src[j] == '\t') {
		j++
	}
	if j >= len(src) || src[j] != '=' || (j+1 < len(src) && src[j+1] == '=') {
		return 0, false
	}
	j++
	for j < len(src) && (src[j] == ' ' || src[j] == '\t') {
		j++
	}
	return j, true
}
