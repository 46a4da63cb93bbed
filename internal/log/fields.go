// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	FieldComponent = "component"
	FieldPath      = "path"
	FieldItems     = "items"
	FieldMedia     = "media"
	FieldURL       = "url"
	FieldDuration  = "duration"
	FieldDB        = "db"
	FieldOutput    = "output"
)
