// SPDX-License-Identifier: MIT

package mediarss

import "fmt"

// UnknownMimeTypeError reports a title or description whose type attribute is
// outside the supported plain/html set. This aborts the enclosing parse:
// narrative elements are structural, not decorative.
type UnknownMimeTypeError struct {
	Value string
}

func (e *UnknownMimeTypeError) Error() string {
	return fmt.Sprintf("mediarss: unknown mime type %q", e.Value)
}

// MissingContentError reports a narrative element without a text body.
type MissingContentError struct {
	Element string
}

func (e *MissingContentError) Error() string {
	return fmt.Sprintf("mediarss: missing content in media:%s", e.Element)
}
