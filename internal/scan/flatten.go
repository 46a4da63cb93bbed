// SPDX-License-Identifier: MIT

package scan

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/feedkit/mediascan/internal/mediarss"
)

// Flatten strips markup from an HTML fragment and returns its text content.
// Unparsable fragments are returned unchanged.
func Flatten(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	return strings.TrimSpace(doc.Text())
}

// FlattenItem rewrites every HTML-typed narrative field of the item's media
// objects to plain text. Used for report output where markup is noise.
func FlattenItem(item *Item) {
	for i := range item.Media {
		flattenObject(&item.Media[i])
	}
}

func flattenObject(obj *mediarss.MediaObject) {
	flattenText(obj.Title)
	flattenText(obj.Description)
	for i := range obj.Captions {
		flattenText(&obj.Captions[i].Text)
	}
}

func flattenText(t *mediarss.Text) {
	if t == nil || t.ContentType != mediarss.TextHTML {
		return
	}
	t.Value = Flatten(t.Value)
	t.ContentType = mediarss.TextPlain
}
