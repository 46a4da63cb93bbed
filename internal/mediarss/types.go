// SPDX-License-Identifier: MIT

package mediarss

import "time"

// MIME types accepted for narrative text elements.
const (
	TextPlain = "text/plain"
	TextHTML  = "text/html"
)

// Text is a narrative value together with its MIME type.
type Text struct {
	Value       string `json:"value"`
	ContentType string `json:"contentType"`
}

// Content describes the primary media resource of a scope. URL is always
// present; a Content without one is never emitted.
type Content struct {
	URL         string `json:"url"`
	ContentType string `json:"contentType,omitempty"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
}

// Image is a referenced image with optional dimensions.
type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Thumbnail is a preview image, optionally anchored to an offset within the
// media timeline.
type Thumbnail struct {
	Image Image          `json:"image"`
	Time  *time.Duration `json:"time,omitempty"`
}

// Community aggregates viewer ratings and statistics. Every field is
// best-effort: values that fail to parse stay at zero.
type Community struct {
	StarsAvg       float64 `json:"starsAvg"`
	StarsCount     uint64  `json:"starsCount"`
	StarsMin       uint64  `json:"starsMin"`
	StarsMax       uint64  `json:"starsMax"`
	StatsViews     uint64  `json:"statsViews"`
	StatsFavorites uint64  `json:"statsFavorites"`
}

// Credit names a contributor to the media.
type Credit struct {
	Entity string `json:"entity"`
}

// Caption is a timed text fragment, such as a subtitle or transcript piece.
type Caption struct {
	Text  Text           `json:"text"`
	Start *time.Duration `json:"start,omitempty"`
	End   *time.Duration `json:"end,omitempty"`
}

// MediaObject accumulates the rich-media metadata of one scope: a grouping
// wrapper, or a single item when no wrapper is present. It is populated
// incrementally by HandleElement and owned exclusively by its creator.
type MediaObject struct {
	Title       *Text       `json:"title,omitempty"`
	Description *Text       `json:"description,omitempty"`
	Content     *Content    `json:"content,omitempty"`
	Thumbnails  []Thumbnail `json:"thumbnails,omitempty"`
	Community   *Community  `json:"community,omitempty"`
	Credits     []Credit    `json:"credits,omitempty"`
	Captions    []Caption   `json:"captions,omitempty"`
}

// IsZero reports whether nothing has been populated.
func (m *MediaObject) IsZero() bool {
	return m.Title == nil &&
		m.Description == nil &&
		m.Content == nil &&
		len(m.Thumbnails) == 0 &&
		m.Community == nil &&
		len(m.Credits) == 0 &&
		len(m.Captions) == 0
}
