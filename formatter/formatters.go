/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package formatter

import (
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
)

// DateTime stores time.Time fields as RFC 3339 date-time strings. Parse
// accepts both the stored string form and an already-parsed time.Time, so
// applying it twice is a no-op. Values of any other type pass through
// unchanged.
type DateTime struct{}

func (DateTime) Format(value any) any {
	switch v := value.(type) {
	case time.Time:
		return strfmt.DateTime(v).String()
	case *time.Time:
		if v == nil {
			return nil
		}
		return strfmt.DateTime(*v).String()
	case strfmt.DateTime:
		return v.String()
	default:
		return value
	}
}

func (DateTime) Parse(value any) any {
	switch v := value.(type) {
	case string:
		dt, err := strfmt.ParseDateTime(v)
		if err != nil {
			return value
		}
		return time.Time(dt)
	case strfmt.DateTime:
		return time.Time(v)
	default:
		return value
	}
}

// Lowercase case-folds string fields on the way in and out of storage. It is
// a normalizing formatter: Parse(Format(v)) need not equal v, but it is
// idempotent.
type Lowercase struct{}

func (Lowercase) Format(value any) any {
	if s, ok := value.(string); ok {
		return strings.ToLower(s)
	}
	return value
}

func (Lowercase) Parse(value any) any {
	if s, ok := value.(string); ok {
		return strings.ToLower(s)
	}
	return value
}

// TrimSpace strips surrounding whitespace from string fields. Like Lowercase
// it normalizes rather than round-trips.
type TrimSpace struct{}

func (TrimSpace) Format(value any) any {
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s)
	}
	return value
}

func (TrimSpace) Parse(value any) any {
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s)
	}
	return value
}
