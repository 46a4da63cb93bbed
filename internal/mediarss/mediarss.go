// SPDX-License-Identifier: MIT

// Package mediarss decodes the MediaRSS extension vocabulary found inside
// RSS items, either wrapped in a media:group element or inline among item
// children. Decorative fields (numbers, durations, URLs of optional records)
// degrade silently when malformed; narrative fields (title, description) are
// strict and abort the enclosing parse.
package mediarss

import (
	"mime"
	"strconv"
	"time"

	"github.com/feedkit/mediascan/internal/xmlio"
)

// Namespace URIs under which MediaRSS elements are published.
const (
	Namespace      = "http://search.yahoo.com/mrss/"
	namespaceAlias = "http://search.yahoo.com/mrss"
)

// IsNamespace reports whether uri is a MediaRSS namespace.
func IsNamespace(uri string) bool {
	return uri == Namespace || uri == namespaceAlias
}

// elementKind is the closed set of MediaRSS elements the decoder understands.
// Anything else maps to kindUnknown and is skipped, which keeps the decoder
// forward compatible with vocabulary extensions.
type elementKind int

const (
	kindUnknown elementKind = iota
	kindTitle
	kindContent
	kindThumbnail
	kindDescription
	kindCommunity
	kindCredit
	kindText
)

func kindOf(ns, tag string) elementKind {
	if !IsNamespace(ns) {
		return kindUnknown
	}
	switch tag {
	case "title":
		return kindTitle
	case "content":
		return kindContent
	case "thumbnail":
		return kindThumbnail
	case "description":
		return kindDescription
	case "community":
		return kindCommunity
	case "credit":
		return kindCredit
	case "text":
		return kindText
	}
	return kindUnknown
}

// HandleGroup decodes a media:group wrapper into a fresh MediaObject. An
// empty group yields an all-default object, never nil. Hard faults from
// nested strict handlers or from the token stream propagate.
func HandleGroup(el *xmlio.Element) (*MediaObject, error) {
	obj := &MediaObject{}
	err := el.Children(func(child *xmlio.Element) error {
		ns, _ := child.NSAndTag()
		if !IsNamespace(ns) {
			return nil
		}
		return HandleElement(child, obj)
	})
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// HandleElement decodes one MediaRSS element into the supplied accumulator.
// MediaRSS has a strange shape (content within group, with other elements as
// peers, or no group and elements directly under the item), so the
// accumulator is caller-owned: a group passes its own, the item level passes
// a fallback one. Singular fields are last-write-wins; list fields append.
func HandleElement(el *xmlio.Element, obj *MediaObject) error {
	ns, tag := el.NSAndTag()
	switch kindOf(ns, tag) {
	case kindTitle:
		text, err := handleText(el, "title")
		if err != nil {
			return err
		}
		obj.Title = text

	case kindContent:
		return handleContent(el, obj)

	case kindThumbnail:
		if th := handleThumbnail(el); th != nil {
			obj.Thumbnails = append(obj.Thumbnails, *th)
		}

	case kindDescription:
		text, err := handleText(el, "description")
		if err != nil {
			return err
		}
		obj.Description = text

	case kindCommunity:
		community, err := handleCommunity(el)
		if err != nil {
			return err
		}
		obj.Community = community

	case kindCredit:
		credit, err := handleCredit(el)
		if err != nil {
			return err
		}
		if credit != nil {
			obj.Credits = append(obj.Credits, *credit)
		}

	case kindText:
		caption, err := handleCaption(el)
		if err != nil {
			return err
		}
		if caption != nil {
			obj.Captions = append(obj.Captions, *caption)
		}

	case kindUnknown:
		// Nothing required for unknown elements.
	}
	return nil
}

// handleContent reads the core attributes of media:content. Without a url the
// element is discarded wholesale. With one, nested MediaRSS children are fed
// back through HandleElement first (media:content may itself carry titles,
// thumbnails and so on), then the content record is committed.
func handleContent(el *xmlio.Element, obj *MediaObject) error {
	var content Content
	for _, attr := range el.Attrs {
		switch attr.Name {
		case "url":
			content.URL = attr.Value
		case "type":
			if mt, _, err := mime.ParseMediaType(attr.Value); err == nil {
				content.ContentType = mt
			}
		case "width":
			if v, err := strconv.ParseUint(attr.Value, 10, 32); err == nil {
				content.Width = int(v)
			}
		case "height":
			if v, err := strconv.ParseUint(attr.Value, 10, 32); err == nil {
				content.Height = int(v)
			}
		}
	}

	if content.URL == "" {
		return nil
	}

	err := el.Children(func(child *xmlio.Element) error {
		ns, _ := child.NSAndTag()
		if !IsNamespace(ns) {
			return nil
		}
		return HandleElement(child, obj)
	})
	if err != nil {
		return err
	}

	obj.Content = &content
	return nil
}

// handleThumbnail builds a Thumbnail from attributes alone. A missing url
// drops the record; a malformed time attribute drops only the offset.
func handleThumbnail(el *xmlio.Element) *Thumbnail {
	var (
		url           string
		width, height int
		offset        *time.Duration
	)
	for _, attr := range el.Attrs {
		switch attr.Name {
		case "url":
			url = attr.Value
		case "width":
			if v, err := strconv.ParseUint(attr.Value, 10, 32); err == nil {
				width = int(v)
			}
		case "height":
			if v, err := strconv.ParseUint(attr.Value, 10, 32); err == nil {
				height = int(v)
			}
		case "time":
			if d, ok := ParseNPT(attr.Value); ok {
				offset = &d
			}
		}
	}

	if url == "" {
		return nil
	}
	return &Thumbnail{
		Image: Image{URL: url, Width: width, Height: height},
		Time:  offset,
	}
}

// handleCommunity aggregates media:starRating and media:statistics children.
// It always produces a record, even when no child matched.
func handleCommunity(el *xmlio.Element) (*Community, error) {
	community := &Community{}
	err := el.Children(func(child *xmlio.Element) error {
		ns, tag := child.NSAndTag()
		if !IsNamespace(ns) {
			return nil
		}
		switch tag {
		case "starRating":
			for _, attr := range child.Attrs {
				switch attr.Name {
				case "average":
					if v, err := strconv.ParseFloat(attr.Value, 64); err == nil {
						community.StarsAvg = v
					}
				case "count":
					if v, err := strconv.ParseUint(attr.Value, 10, 64); err == nil {
						community.StarsCount = v
					}
				case "min":
					if v, err := strconv.ParseUint(attr.Value, 10, 64); err == nil {
						community.StarsMin = v
					}
				case "max":
					if v, err := strconv.ParseUint(attr.Value, 10, 64); err == nil {
						community.StarsMax = v
					}
				}
			}
		case "statistics":
			for _, attr := range child.Attrs {
				switch attr.Name {
				case "views":
					if v, err := strconv.ParseUint(attr.Value, 10, 64); err == nil {
						community.StatsViews = v
					}
				case "favorites":
					if v, err := strconv.ParseUint(attr.Value, 10, 64); err == nil {
						community.StatsFavorites = v
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return community, nil
}

// handleCredit wraps the element text in a Credit, or drops the record when
// the element is empty.
func handleCredit(el *xmlio.Element) (*Credit, error) {
	text, ok, err := el.ChildAsText()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &Credit{Entity: text}, nil
}

// handleCaption builds a timed text record from media:text. Unlike titles and
// descriptions, an unsupported type attribute falls back to plain text here.
func handleCaption(el *xmlio.Element) (*Caption, error) {
	var start, end *time.Duration
	contentType := TextPlain
	for _, attr := range el.Attrs {
		switch attr.Name {
		case "start":
			if d, ok := ParseNPT(attr.Value); ok {
				start = &d
			}
		case "end":
			if d, ok := ParseNPT(attr.Value); ok {
				end = &d
			}
		case "type":
			switch attr.Value {
			case "plain":
				contentType = TextPlain
			case "html":
				contentType = TextHTML
			}
		}
	}

	body, ok, err := el.ChildAsText()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &Caption{
		Text:  Text{Value: body, ContentType: contentType},
		Start: start,
		End:   end,
	}, nil
}

// handleText decodes a media:title or media:description. The type attribute
// defaults to plain but rejects anything outside plain/html, and the body is
// mandatory: both failures are hard faults that abort the enclosing parse.
func handleText(el *xmlio.Element, which string) (*Text, error) {
	typeAttr := "plain"
	if v, ok := el.Attr("type"); ok {
		typeAttr = v
	}

	var contentType string
	switch typeAttr {
	case "plain":
		contentType = TextPlain
	case "html":
		contentType = TextHTML
	default:
		return nil, &UnknownMimeTypeError{Value: typeAttr}
	}

	// The full serialized body, nested markup included.
	body, ok, err := el.ChildrenAsString()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &MissingContentError{Element: which}
	}
	return &Text{Value: body, ContentType: contentType}, nil
}
