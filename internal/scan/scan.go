// SPDX-License-Identifier: MIT

// Package scan walks whole RSS documents and extracts the MediaRSS payload
// of each item. It deliberately ignores the rest of the RSS model: only the
// channel/item skeleton is traversed, plus item title and guid for
// reporting.
package scan

import (
	"io"

	"github.com/feedkit/mediascan/internal/mediarss"
	"github.com/feedkit/mediascan/internal/xmlio"
)

// Item is one feed entry together with the rich-media metadata found in it.
// Media holds one object per media:group, plus a trailing object for inline
// MediaRSS elements when any were present outside a group.
type Item struct {
	Title string                 `json:"title,omitempty"`
	GUID  string                 `json:"guid,omitempty"`
	Media []mediarss.MediaObject `json:"media,omitempty"`
}

// Document reads an RSS document from r and extracts every item's MediaRSS
// payload. Structural faults (malformed XML, oversized or over-nested input,
// strict narrative failures) abort with an error; decorative malformations
// never do.
func Document(r io.Reader, lim xmlio.Limits) ([]Item, error) {
	w := xmlio.NewWalker(r, lim)
	root, err := w.Root()
	if err != nil {
		return nil, err
	}

	var items []Item
	collect := func(item *xmlio.Element) error {
		it, err := scanItem(item)
		if err != nil {
			return err
		}
		items = append(items, *it)
		return nil
	}

	scanChannel := func(ch *xmlio.Element) error {
		return ch.Children(func(el *xmlio.Element) error {
			if _, tag := el.NSAndTag(); tag == "item" {
				return collect(el)
			}
			return nil
		})
	}

	if _, tag := root.NSAndTag(); tag == "channel" {
		if err := scanChannel(root); err != nil {
			return nil, err
		}
		return items, nil
	}

	err = root.Children(func(el *xmlio.Element) error {
		if _, tag := el.NSAndTag(); tag == "channel" {
			return scanChannel(el)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func scanItem(el *xmlio.Element) (*Item, error) {
	item := &Item{}
	// Fallback accumulator for MediaRSS elements outside any group.
	inline := &mediarss.MediaObject{}

	err := el.Children(func(child *xmlio.Element) error {
		ns, tag := child.NSAndTag()
		switch {
		case mediarss.IsNamespace(ns) && tag == "group":
			obj, err := mediarss.HandleGroup(child)
			if err != nil {
				return err
			}
			item.Media = append(item.Media, *obj)

		case mediarss.IsNamespace(ns):
			return mediarss.HandleElement(child, inline)

		case ns == "" && tag == "title":
			text, ok, err := child.ChildAsText()
			if err != nil {
				return err
			}
			if ok {
				item.Title = text
			}

		case ns == "" && tag == "guid":
			text, ok, err := child.ChildAsText()
			if err != nil {
				return err
			}
			if ok {
				item.GUID = text
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !inline.IsZero() {
		item.Media = append(item.Media, *inline)
	}
	return item, nil
}
