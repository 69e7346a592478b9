/*
validate.go - Primitive validators and sanitizers

PURPOSE:
  Pure functions that turn untrusted values (decoded JSON of unknown
  provenance: older app versions, hand-edited storage, corruption) into
  typed values or an explicit "absent". Nothing here has side effects and
  nothing here panics.

ABSENT vs NULL:
  NormalizeCoords distinguishes two non-value outcomes:
  - (nil, true):  the input was an explicit null, meaning "deliberately
                  cleared"
  - (nil, false): the input shape was unrecognized, meaning "don't touch
                  this field"
  Callers that conflate the two lose the ability to clear coordinates.

SEE ALSO:
  - normalize.go: Combines these into whole-record canonicalization
*/
package scouting

import (
	"math"
	"strings"
	"time"
)

// timestampLayouts are the accepted ISO-8601 renderings, most specific
// first. Older app versions wrote millisecond precision; hand-edited files
// often carry date-only values.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// SanitizeString trims v and returns it, or ok=false when v is not a string
// or trims to empty.
func SanitizeString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}

// ParseTimestamp parses an ISO-8601 string into a time.Time.
func ParseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsValidTimestamp reports whether v is a string parseable as a date.
func IsValidTimestamp(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	_, ok = ParseTimestamp(s)
	return ok
}

// NormalizeTimestamp returns v when it is a valid timestamp string, else
// fallback.
func NormalizeTimestamp(v any, fallback string) string {
	if s, ok := v.(string); ok && IsValidTimestamp(s) {
		return s
	}
	return fallback
}

// NormalizeStatus maps the four known status spellings (including the legacy
// "sin_evaluar") onto the three canonical statuses. Anything else is absent.
func NormalizeStatus(v any) Status {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	switch Status(s) {
	case StatusSuitable, StatusUnsuitable, StatusPending:
		return Status(s)
	}
	if s == statusLegacyUnevaluated {
		return StatusPending
	}
	return ""
}

// NormalizeCoords accepts either the canonical {lat,lng} or the legacy
// {latitude,longitude} naming and requires both components to be finite
// numbers.
//
// Returns (nil, true) for an explicit null (cleared), (coords, true) for a
// recognized pair, and (nil, false) when the shape is unrecognized. A
// recognized pair with non-finite components resolves to null rather than
/// absent: the writer clearly meant to set coordinates and failed.
func NormalizeCoords(v any) (*Coords, bool) {
	if v == nil {
		return nil, true
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}

	lat, latOK := coordNumber(m, "lat", "latitude")
	lng, lngOK := coordNumber(m, "lng", "longitude")
	if !latOK || !lngOK {
		return nil, false
	}
	if !isFinite(lat) || !isFinite(lng) {
		return nil, true
	}
	return &Coords{Lat: lat, Lng: lng}, true
}

func coordNumber(m map[string]any, canonical, legacy string) (float64, bool) {
	if f, ok := jsonNumber(m[canonical]); ok {
		return f, true
	}
	return jsonNumber(m[legacy])
}

func jsonNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// NormalizePhotoList accepts a sequence of bare reference strings or of
// richer objects carrying a "url" field, and returns an order-preserving,
// de-duplicated list of bare references. Non-array input yields an empty
// list.
func NormalizePhotoList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}

	var refs []string
	seen := make(map[string]bool)
	for _, item := range items {
		ref := ""
		if s, ok := SanitizeString(item); ok {
			ref = s
		} else if m, ok := item.(map[string]any); ok {
			if s, ok := SanitizeString(m["url"]); ok {
				ref = s
			}
		}
		if ref == "" || seen[ref] {
			continue
		}
		seen[ref] = true
		refs = append(refs, ref)
	}
	return refs
}

// extractLegacyPhotos keeps the richer photo objects from a legacy-shaped
// list. Entries without a usable URL are dropped.
func extractLegacyPhotos(v any) []LegacyPhoto {
	items, ok := v.([]any)
	if !ok {
		return nil
	}

	var photos []LegacyPhoto
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		url, ok := SanitizeString(m["url"])
		if !ok {
			continue
		}
		photo := LegacyPhoto{URL: url}
		if s, ok := m["id"].(string); ok {
			photo.ID = s
		}
		if s, ok := m["caption"].(string); ok {
			photo.Caption = s
		}
		if s, ok := m["timestamp"].(string); ok {
			photo.Timestamp = s
		}
		if n, ok := jsonNumber(m["fileSize"]); ok {
			photo.FileSize = int64(n)
		}
		photos = append(photos, photo)
	}
	return photos
}
