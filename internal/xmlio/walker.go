// SPDX-License-Identifier: MIT

// Package xmlio exposes a namespace-aware, depth-first view over an XML
// document: each element offers its attributes up front and a lazy,
// single-pass iteration over its direct children.
package xmlio

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

const (
	// DefaultMaxDocumentBytes caps how much of the input is consumed.
	DefaultMaxDocumentBytes = 50 * 1024 * 1024
	// DefaultMaxDepth caps element nesting before the walk is aborted.
	DefaultMaxDepth = 128
)

var (
	// ErrTooDeep is returned when element nesting exceeds the configured limit.
	ErrTooDeep = errors.New("xmlio: element nesting exceeds depth limit")
	// ErrNoRoot is returned when the document contains no root element.
	ErrNoRoot = errors.New("xmlio: document has no root element")
)

// Limits bounds resource consumption while walking a document.
// Zero values select the package defaults.
type Limits struct {
	MaxDocumentBytes int64
	MaxDepth         int
}

// Attr is one attribute of an element, in document order.
type Attr struct {
	Name  string
	Value string
}

// Walker drives a strict XML token stream. Entity expansion is disabled and
// the input is size-capped, so hostile documents fail instead of expanding.
type Walker struct {
	dec      *xml.Decoder
	maxDepth int
	depth    int
}

// NewWalker wraps r in a hardened XML decoder. Non-UTF-8 documents are
// transcoded based on their declared encoding.
func NewWalker(r io.Reader, lim Limits) *Walker {
	if lim.MaxDocumentBytes <= 0 {
		lim.MaxDocumentBytes = DefaultMaxDocumentBytes
	}
	if lim.MaxDepth <= 0 {
		lim.MaxDepth = DefaultMaxDepth
	}

	dec := xml.NewDecoder(io.LimitReader(r, lim.MaxDocumentBytes))
	dec.Strict = true
	dec.CharsetReader = charset.NewReaderLabel
	// Disable entity expansion to prevent XXE and entity-bomb inputs.
	dec.Entity = map[string]string{}

	return &Walker{dec: dec, maxDepth: lim.MaxDepth}
}

// Root advances to the document's root element.
func (w *Walker) Root() (*Element, error) {
	for {
		tok, err := w.dec.Token()
		if errors.Is(err, io.EOF) {
			return nil, ErrNoRoot
		}
		if err != nil {
			return nil, fmt.Errorf("xmlio: read token: %w", err)
		}
		if st, ok := tok.(xml.StartElement); ok {
			w.depth = 1
			return w.newElement(st), nil
		}
	}
}

func (w *Walker) newElement(st xml.StartElement) *Element {
	attrs := make([]Attr, 0, len(st.Attr))
	for _, a := range st.Attr {
		// Namespace declarations are resolved by the decoder already.
		if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
			continue
		}
		attrs = append(attrs, Attr{Name: a.Name.Local, Value: a.Value})
	}
	return &Element{w: w, ns: st.Name.Space, tag: st.Name.Local, Attrs: attrs, depth: w.depth}
}

// Element is one XML element whose start tag has been consumed. Its subtree
// may be visited exactly once, through Children, ChildAsText or
// ChildrenAsString; afterwards the element is exhausted.
type Element struct {
	w     *Walker
	ns    string
	tag   string
	Attrs []Attr
	depth int
	done  bool
}

// NSAndTag returns the element's resolved namespace URI and local tag name.
func (e *Element) NSAndTag() (string, string) {
	return e.ns, e.tag
}

// Attr returns the value of the first attribute with the given local name.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Children calls fn for each direct child in document order. Whatever part of
// a child's subtree fn leaves unread is skipped before the next child is
// produced. The iteration is not restartable; a decoder failure or an error
// from fn aborts the walk immediately.
func (e *Element) Children(fn func(*Element) error) error {
	if e.done {
		return nil
	}
	w := e.w
	for {
		tok, err := w.dec.Token()
		if err != nil {
			return fmt.Errorf("xmlio: read token: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			w.depth++
			if w.depth > w.maxDepth {
				return ErrTooDeep
			}
			child := w.newElement(t)
			if err := fn(child); err != nil {
				return err
			}
			if err := child.skip(); err != nil {
				return err
			}
		case xml.EndElement:
			w.depth--
			if w.depth < e.depth {
				e.done = true
				return nil
			}
		}
	}
}

// skip consumes the remainder of the element's subtree.
func (e *Element) skip() error {
	if e.done {
		return nil
	}
	w := e.w
	for {
		tok, err := w.dec.Token()
		if err != nil {
			return fmt.Errorf("xmlio: read token: %w", err)
		}
		switch tok.(type) {
		case xml.StartElement:
			w.depth++
			if w.depth > w.maxDepth {
				return ErrTooDeep
			}
		case xml.EndElement:
			w.depth--
			if w.depth < e.depth {
				e.done = true
				return nil
			}
		}
	}
}

// ChildAsText consumes the element's subtree and returns the concatenated
// character data beneath it, trimmed. ok is false when no text was found.
func (e *Element) ChildAsText() (text string, ok bool, err error) {
	if e.done {
		return "", false, nil
	}
	w := e.w
	var b strings.Builder
	for {
		tok, err := w.dec.Token()
		if err != nil {
			return "", false, fmt.Errorf("xmlio: read token: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			w.depth++
			if w.depth > w.maxDepth {
				return "", false, ErrTooDeep
			}
		case xml.EndElement:
			w.depth--
			if w.depth < e.depth {
				e.done = true
				s := strings.TrimSpace(b.String())
				return s, s != "", nil
			}
		case xml.CharData:
			b.Write(t)
		}
	}
}

// ChildrenAsString consumes the element's subtree and returns it re-serialized
// as an XML fragment, nested markup included. Namespace prefixes are dropped;
// tags are emitted with their local names. ok is false when the element body
// is empty or whitespace.
func (e *Element) ChildrenAsString() (fragment string, ok bool, err error) {
	if e.done {
		return "", false, nil
	}
	w := e.w
	var b strings.Builder
	for {
		tok, err := w.dec.Token()
		if err != nil {
			return "", false, fmt.Errorf("xmlio: read token: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			w.depth++
			if w.depth > w.maxDepth {
				return "", false, ErrTooDeep
			}
			writeStartTag(&b, t)
		case xml.EndElement:
			w.depth--
			if w.depth < e.depth {
				e.done = true
				s := strings.TrimSpace(b.String())
				return s, s != "", nil
			}
			b.WriteString("</")
			b.WriteString(t.Name.Local)
			b.WriteString(">")
		case xml.CharData:
			_ = xml.EscapeText(&b, t)
		}
	}
}

func writeStartTag(b *strings.Builder, st xml.StartElement) {
	b.WriteString("<")
	b.WriteString(st.Name.Local)
	for _, a := range st.Attr {
		if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
			continue
		}
		b.WriteString(" ")
		b.WriteString(a.Name.Local)
		b.WriteString(`="`)
		_ = xml.EscapeText(b, []byte(a.Value))
		b.WriteString(`"`)
	}
	b.WriteString(">")
}
