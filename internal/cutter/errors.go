package cutter

import (
	"fmt"
	"image"
)

// GeometryError reports a mismatch between the configured tile geometry and
// the actual source sheet: wrong sheet dimensions, a crop outside the sheet
// bounds, or a corner type with no configured column. It carries enough
// context to diagnose the config without re-running in debug mode.
type GeometryError struct {
	Detail string
	Rect   image.Rectangle // offending crop, zero when not applicable
}

func (e *GeometryError) Error() string {
	if e.Rect != (image.Rectangle{}) {
		return fmt.Sprintf("geometry error: %s (rect %v)", e.Detail, e.Rect)
	}
	return "geometry error: " + e.Detail
}

func geometryErrorf(format string, args ...any) *GeometryError {
	return &GeometryError{Detail: fmt.Sprintf(format, args...)}
}

// ConfigError reports a semantically invalid configuration document, after
// syntax and template resolution have already succeeded.
type ConfigError struct {
	Field  string
	Detail string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s: %s", e.Field, e.Detail)
}
