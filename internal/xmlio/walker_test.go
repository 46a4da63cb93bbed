// SPDX-License-Identifier: MIT
package xmlio

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot(t *testing.T) {
	w := NewWalker(strings.NewReader(`<?xml version="1.0"?><rss version="2.0"><channel/></rss>`), Limits{})
	root, err := w.Root()
	require.NoError(t, err)

	ns, tag := root.NSAndTag()
	assert.Empty(t, ns)
	assert.Equal(t, "rss", tag)

	v, ok := root.Attr("version")
	require.True(t, ok)
	assert.Equal(t, "2.0", v)
}

func TestRoot_Empty(t *testing.T) {
	w := NewWalker(strings.NewReader(""), Limits{})
	_, err := w.Root()
	require.ErrorIs(t, err, ErrNoRoot)
}

func TestChildren_DocumentOrder(t *testing.T) {
	doc := `<root><a k="1"/><b><nested/></b><a k="2"/></root>`
	w := NewWalker(strings.NewReader(doc), Limits{})
	root, err := w.Root()
	require.NoError(t, err)

	var seen []string
	err = root.Children(func(e *Element) error {
		_, tag := e.NSAndTag()
		if v, ok := e.Attr("k"); ok {
			tag += v
		}
		seen = append(seen, tag)
		return nil
	})
	require.NoError(t, err)
	// Direct children only; b's subtree is skipped, not surfaced.
	assert.Equal(t, []string{"a1", "b", "a2"}, seen)
}

func TestChildren_NamespaceResolution(t *testing.T) {
	doc := `<root xmlns:media="http://search.yahoo.com/mrss/"><media:title/><title/></root>`
	w := NewWalker(strings.NewReader(doc), Limits{})
	root, err := w.Root()
	require.NoError(t, err)

	var spaces []string
	err = root.Children(func(e *Element) error {
		ns, _ := e.NSAndTag()
		spaces = append(spaces, ns)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"http://search.yahoo.com/mrss/", ""}, spaces)
}

func TestChildren_CallbackError(t *testing.T) {
	doc := `<root><a/><b/></root>`
	w := NewWalker(strings.NewReader(doc), Limits{})
	root, err := w.Root()
	require.NoError(t, err)

	sentinel := errors.New("stop")
	calls := 0
	err = root.Children(func(e *Element) error {
		calls++
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, calls, "iteration must short-circuit on the first failure")
}

func TestChildren_MalformedXML(t *testing.T) {
	doc := `<root><a></root>`
	w := NewWalker(strings.NewReader(doc), Limits{})
	root, err := w.Root()
	require.NoError(t, err)

	err = root.Children(func(e *Element) error { return nil })
	require.Error(t, err)
}

func TestChildAsText(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
		ok   bool
	}{
		{"simple", `<c>Jane Doe</c>`, "Jane Doe", true},
		{"nested markup flattened", `<c>one <b>two</b> three</c>`, "one two three", true},
		{"empty", `<c></c>`, "", false},
		{"whitespace only", "<c>\n\t  </c>", "", false},
		{"trimmed", "<c>\n  padded \n</c>", "padded", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWalker(strings.NewReader(tt.doc), Limits{})
			root, err := w.Root()
			require.NoError(t, err)

			got, ok, err := root.ChildAsText()
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChildrenAsString(t *testing.T) {
	doc := `<t>before <b class="x">bold &amp; brave</b> after</t>`
	w := NewWalker(strings.NewReader(doc), Limits{})
	root, err := w.Root()
	require.NoError(t, err)

	got, ok, err := root.ChildrenAsString()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `before <b class="x">bold &amp; brave</b> after`, got)
}

func TestChildrenAsString_Empty(t *testing.T) {
	w := NewWalker(strings.NewReader(`<t></t>`), Limits{})
	root, err := w.Root()
	require.NoError(t, err)

	_, ok, err := root.ChildrenAsString()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDepthLimit(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 10; i++ {
		b.WriteString("<d>")
	}
	for i := 0; i < 10; i++ {
		b.WriteString("</d>")
	}

	w := NewWalker(strings.NewReader(b.String()), Limits{MaxDepth: 4})
	root, err := w.Root()
	require.NoError(t, err)

	err = root.Children(func(e *Element) error {
		return e.Children(func(e2 *Element) error {
			return e2.skip()
		})
	})
	require.ErrorIs(t, err, ErrTooDeep)
}

func TestEntityExpansionDisabled(t *testing.T) {
	doc := `<!DOCTYPE r [<!ENTITY x "boom">]><r>&x;</r>`
	w := NewWalker(strings.NewReader(doc), Limits{})
	root, err := w.Root()
	require.NoError(t, err)

	_, _, err = root.ChildAsText()
	require.Error(t, err, "custom entities must be rejected, not expanded")
}

func TestDocumentSizeCap(t *testing.T) {
	doc := `<r>` + strings.Repeat("a", 128) + `</r>`
	w := NewWalker(strings.NewReader(doc), Limits{MaxDocumentBytes: 16})
	root, err := w.Root()
	require.NoError(t, err)

	_, _, err = root.ChildAsText()
	require.Error(t, err, "input past the cap must surface as a decode failure")
}

func TestCharsetTranscoding(t *testing.T) {
	// "café" in ISO-8859-1: é is a single 0xE9 byte.
	doc := append([]byte(`<?xml version="1.0" encoding="ISO-8859-1"?><r>caf`), 0xE9)
	doc = append(doc, []byte(`</r>`)...)

	w := NewWalker(strings.NewReader(string(doc)), Limits{})
	root, err := w.Root()
	require.NoError(t, err)

	got, ok, err := root.ChildAsText()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "café", got)
}
