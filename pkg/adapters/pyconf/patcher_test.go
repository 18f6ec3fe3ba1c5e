package pyconf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConf = `"""
Sample user configuration.

The admin expects these assignments:
AUTHORS = ["decoy"]
"""

from pathlib import Path

# Local path to the Pelican project
USER_DIR = r"e:\Projects\blog\user_area"

CONTENT_DIR = str(Path(USER_DIR) / "content")

# Author list used by the admin form
AUTHORS = ['مجتبی بنائی']

CATEGORIES = {
    "cat_list": [
        ("Culture", "فرهنگ و جامعه"),
        ("Diary", "روزنوشت"),
        ("Tech", "فناوری")
    ],
    "default_category": "Diary",
    "status": {
        "Culture": "active",
        "Diary": "active",
        "Tech": "inactive"
    }
}

# Default author for new articles
DEFAULT_AUTHOR = "مجتبی بنائی"

AUTHOR_STATUS = {'مجتبی بنائی': 'active'}

SITE_REPO = "https://github.com/example/example.github.io"
`

func TestGetField(t *testing.T) {
	src := []byte(sampleConf)

	v, ok, err := GetField(src, FieldAuthors)
	require.NoError(t, err)
	require.True(t, ok)
	authors, err := v.AsStrings()
	require.NoError(t, err)
	assert.Equal(t, []string{"مجتبی بنائی"}, authors, "docstring decoy must not match")

	v, ok, err = GetField(src, FieldCategoryList)
	require.NoError(t, err)
	require.True(t, ok)
	pairs, err := v.AsPairs()
	require.NoError(t, err)
	assert.Equal(t, []Pair{{"Culture", "فرهنگ و جامعه"}, {"Diary", "روزنوشت"}, {"Tech", "فناوری"}}, pairs)

	v, ok, err = GetField(src, FieldCategoryStatus)
	require.NoError(t, err)
	require.True(t, ok)
	items, err := v.AsItems()
	require.NoError(t, err)
	assert.Equal(t, Item{"Tech", "inactive"}, items[2])
	assert.Equal(t, "}", string(src[v.End-1]))
	assert.True(t, strings.HasPrefix(string(src[v.End:]), "\n}"), "status span ends at its own brace")

	v, ok, err = GetField(src, FieldDefaultCategory)
	require.NoError(t, err)
	require.True(t, ok)
	s, err := v.AsString(src)
	require.NoError(t, err)
	assert.Equal(t, "Diary", s)

	_, ok, err = GetField(src, "CATEGORIES.missing")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = GetField(src, "NOT_THERE")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetField_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		value any
	}{
		{"authors list", FieldAuthors, []string{"مجتبی بنائی", "سارا"}},
		{"author status", FieldAuthorStatus, []Item{{"مجتبی بنائی", "inactive"}}},
		{"default author", FieldDefaultAuthor, "سارا"},
		{"category list", FieldCategoryList, []Pair{{"Diary", "روزنوشت"}, {"News", "اخبار"}}},
		{"category status", FieldCategoryStatus, []Item{{"Diary", "active"}, {"News", "inactive"}}},
		{"default category", FieldDefaultCategory, "News"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := []byte(sampleConf)
			before, ok, err := GetField(src, tt.path)
			require.NoError(t, err)
			require.True(t, ok)

			out, changed, err := SetField(src, tt.path, tt.value)
			require.NoError(t, err)
			require.True(t, changed)

			after, ok, err := GetField(out, tt.path)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tt.value, decodeAs(t, out, after, tt.value))

			// Everything outside the replaced span is byte-identical.
			assert.Equal(t, string(src[:before.Start]), string(out[:after.Start]))
			assert.Equal(t, string(src[before.End:]), string(out[after.End:]))

			// Every other managed field still decodes to the same value.
			for _, other := range tests {
				if other.path == tt.path {
					continue
				}
				a, _, err := GetField(src, other.path)
				require.NoError(t, err)
				b, _, err := GetField(out, other.path)
				require.NoError(t, err)
				assert.Equal(t, string(src[a.Start:a.End]), string(out[b.Start:b.End]), other.path)
			}
		})
	}
}

func decodeAs(t *testing.T, src []byte, v Value, like any) any {
	t.Helper()
	var (
		out any
		err error
	)
	switch like.(type) {
	case string:
		out, err = v.AsString(src)
	case []string:
		out, err = v.AsStrings()
	case []Pair:
		out, err = v.AsPairs()
	case []Item:
		out, err = v.AsItems()
	}
	require.NoError(t, err)
	return out
}

func TestSetField_PreservesLayout(t *testing.T) {
	src := []byte(sampleConf)

	out, _, err := SetField(src, FieldAuthors, []string{"مجتبی بنائی", "O'Neil"})
	require.NoError(t, err)
	assert.Contains(t, string(out), `AUTHORS = ['مجتبی بنائی', 'O\'Neil']`+"\n")

	out, _, err = SetField(src, FieldCategoryList, []Pair{{"Diary", "روزنوشت"}, {"News", "اخبار"}})
	require.NoError(t, err)
	assert.Contains(t, string(out), "    \"cat_list\": [\n"+
		"        (\"Diary\", \"روزنوشت\"),\n"+
		"        (\"News\", \"اخبار\")\n"+
		"    ],\n")

	out, _, err = SetField(src, FieldCategoryStatus, []Item{})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"status": {}`+"\n}")

	out, _, err = SetField(src, FieldDefaultAuthor, `say "hi"`)
	require.NoError(t, err)
	assert.Contains(t, string(out), `DEFAULT_AUTHOR = "say \"hi\""`)
}

func TestSetField_SameValueIsNoop(t *testing.T) {
	src := []byte(sampleConf)

	out, changed, err := SetField(src, FieldCategoryList, []Pair{
		{"Culture", "فرهنگ و جامعه"}, {"Diary", "روزنوشت"}, {"Tech", "فناوری"},
	})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, sampleConf, string(out))
}

func TestSetField_MissingFieldSkipped(t *testing.T) {
	src := []byte("AUTHORS = ['a']\n")

	out, changed, err := SetField(src, FieldCategoryStatus, []Item{{"x", "active"}})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, string(src), string(out))
}

func TestSetField_UnsupportedType(t *testing.T) {
	_, _, err := SetField([]byte(sampleConf), FieldAuthors, 42)
	assert.Error(t, err)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unclosed list", "AUTHORS = ['a', 'b'\n"},
		{"unterminated string", "AUTHORS = ['a]\n"},
		{"missing colon", "AUTHOR_STATUS = {'a' 'active'}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := FieldAuthors
			if strings.HasPrefix(tt.src, "AUTHOR_STATUS") {
				path = FieldAuthorStatus
			}
			_, _, err := GetField([]byte(tt.src), path)
			var se *SyntaxError
			assert.ErrorAs(t, err, &se)
		})
	}
}

func TestParse_CommentsAndTrailingCommas(t *testing.T) {
	src := []byte(`CATEGORIES = {
    # ids must be ASCII
    "cat_list": [
        ("Tech", "فناوری"),  # main
        ('Diary', 'روز\u200cنوشت'),
    ],
    "default_category": None,
}
`)
	v, ok, err := GetField(src, FieldCategoryList)
	require.NoError(t, err)
	require.True(t, ok)
	pairs, err := v.AsPairs()
	require.NoError(t, err)
	assert.Equal(t, []Pair{{"Tech", "فناوری"}, {"Diary", "روز\u200cنوشت"}}, pairs)

	v, ok, err = GetField(src, FieldDefaultCategory)
	require.NoError(t, err)
	require.True(t, ok)
	s, err := v.AsString(src)
	require.NoError(t, err)
	assert.Empty(t, s)
}
