/*
normalize.go - Canonicalization of arbitrary location-set records

PURPOSE:
  NormalizeLocationSet converts any partial/untyped object purporting to be
  a location-set - of either supported schema generation - into one
  canonical LocationSet. It never fails: worst case it fabricates
  placeholder values. Every read path funnels through here, which is what
  lets the rest of the system assume a consistent shape.

FIELD RESOLUTION:
  id          generated when absent
  name/title  mutual fallback, explicit name preferred, placeholder last
  createdAt   falls back to now; updatedAt falls back to createdAt
  status      explicit status wins over legacy evaluation; evaluation is
              overwritten to match (no silent divergence)
  coords      canonical field wins when the key is present at all; else the
              legacy coordinates shape may seed it; resolves to null last
  photos      union of canonical references and legacy object URLs,
              canonical order first, de-duplicated
  notes       canonical wins when non-empty, else legacy noiseObservations

IDEMPOTENCY:
  normalize(normalize(x)) == normalize(x). Tests rely on this; so does the
  reconciler's change detection.

SEE ALSO:
  - validate.go: The primitive validators used here
  - merge.go: Re-normalizes its output through this
*/
package scouting

import (
	"encoding/json"
	"time"
)

// NormalizeLocationSet converts raw (a decoded JSON object of either schema
// generation) into a canonical LocationSet. Missing timestamps are stamped
// relative to the current time.
func NormalizeLocationSet(raw map[string]any) LocationSet {
	return normalizeLocationSetAt(raw, time.Now())
}

func normalizeLocationSetAt(raw map[string]any, now time.Time) LocationSet {
	nowISO := isoTimestamp(now)

	id, ok := SanitizeString(raw["id"])
	if !ok {
		id = NewID()
	}

	name, hasName := SanitizeString(raw["name"])
	title, hasTitle := SanitizeString(raw["title"])
	if !hasName {
		if hasTitle {
			name = title
		} else {
			name = PlaceholderName
		}
	}
	if !hasTitle {
		title = name
	}

	createdAt := NormalizeTimestamp(raw["createdAt"], nowISO)
	updatedAt := NormalizeTimestamp(raw["updatedAt"], createdAt)

	// The canonical key wins when present at all, even when malformed; the
	// legacy shape only seeds coords when the canonical key is missing.
	var coords *Coords
	if v, present := raw["coords"]; present {
		coords, _ = NormalizeCoords(v)
	} else {
		coords, _ = NormalizeCoords(raw["coordinates"])
	}

	photos := unionRefs(NormalizePhotoList(raw["photos"]), NormalizePhotoList(raw["legacyPhotos"]))

	status := NormalizeStatus(raw["status"])
	if status == "" {
		status = NormalizeStatus(raw["evaluation"])
	}

	var legacyPhotos []LegacyPhoto
	if v, present := raw["legacyPhotos"]; present && v != nil {
		legacyPhotos = extractLegacyPhotos(v)
	} else {
		legacyPhotos = extractLegacyPhotos(raw["photos"])
	}

	tags := []string{}
	if items, ok := raw["tags"].([]any); ok {
		for _, item := range items {
			if s, ok := item.(string); ok {
				tags = append(tags, s)
			}
		}
	}

	noise := stringOrEmpty(raw["noiseObservations"])
	notes := ""
	if s, ok := raw["notes"].(string); ok && s != "" {
		notes = s
	} else {
		notes = noise
	}

	projectID, _ := SanitizeString(raw["projectId"])

	return LocationSet{
		ID:        id,
		Name:      name,
		Notes:     notes,
		Coords:    coords,
		Photos:    photos,
		Status:    status,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,

		Title:                 title,
		Tags:                  tags,
		NoiseObservations:     noise,
		TechnicalRequirements: stringOrEmpty(raw["technicalRequirements"]),
		Evaluation:            status,
		ProjectID:             projectID,
		Coordinates:           decodeLegacyCoordinates(raw["coordinates"]),
		LegacyPhotos:          legacyPhotos,
	}
}

// decodeLegacyCoordinates keeps the legacy coordinate record when it holds a
// usable pair. Garbage records are dropped rather than carried as zeros.
func decodeLegacyCoordinates(v any) *LegacyCoordinates {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	lat, latOK := jsonNumber(m["latitude"])
	lng, lngOK := jsonNumber(m["longitude"])
	if !latOK || !lngOK || !isFinite(lat) || !isFinite(lng) {
		return nil
	}
	lc := &LegacyCoordinates{Latitude: lat, Longitude: lng}
	if acc, ok := jsonNumber(m["accuracy"]); ok {
		lc.Accuracy = acc
	}
	if ts, ok := m["timestamp"].(string); ok {
		lc.Timestamp = ts
	}
	return lc
}

func stringOrEmpty(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// unionRefs concatenates b onto a, preserving order and dropping duplicates.
func unionRefs(a, b []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, ref := range a {
		if !seen[ref] {
			seen[ref] = true
			out = append(out, ref)
		}
	}
	for _, ref := range b {
		if !seen[ref] {
			seen[ref] = true
			out = append(out, ref)
		}
	}
	return out
}

// isoTimestamp renders t the way every generated timestamp in the document
// is rendered.
func isoTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// rawRecord converts a typed value back into the decoded-JSON form the
// normalizer consumes. Used to overlay partial updates and to compare a raw
// record against its canonical form.
func rawRecord(v any) map[string]any {
	data, err := json.Marshal(v)
	if err != nil {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return map[string]any{}
	}
	return m
}
