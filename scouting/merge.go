/*
merge.go - Last-writer-wins reconciliation of divergent record copies

PURPOSE:
  MergeLocationSets combines two normalized records believed to describe the
  same entity (same id), typically a stale in-memory copy plus newly
  persisted state. There are no locks in this system; the merge engine is
  the sole correctness mechanism standing in for them, making every write a
  compare-and-merge against persisted state rather than a blind overwrite.

POLICY:
  - The record with the later updatedAt is primary. On an exact tie the
    incoming record is primary (deterministic, tested).
  - Scalar and enum fields take the primary's value when present, else the
    secondary's.
  - Photo references are unioned regardless of which side is primary. A
    photo the user captured is never dropped because another write touched
    a different field.
  - createdAt takes the earliest of the two. Creation time is immutable
    once set.
  - The result is re-normalized, so merge output satisfies the same
    invariants as fresh normalization.
*/
package scouting

import "time"

// MergeLocationSets merges incoming into existing under the
// last-writer-wins policy. Both inputs are expected to be normalized; the
// result always is.
func MergeLocationSets(existing, incoming LocationSet) LocationSet {
	return mergeLocationSetsAt(existing, incoming, time.Now())
}

func mergeLocationSetsAt(existing, incoming LocationSet, now time.Time) LocationSet {
	primary, secondary := incoming, existing
	if updateTime(existing).After(updateTime(incoming)) {
		primary, secondary = existing, incoming
	}

	merged := primary

	// Photos are unioned, never overwritten. Secondary first keeps the
	// older capture order stable across repeated merges.
	merged.Photos = unionRefs(secondary.Photos, primary.Photos)

	if len(merged.LegacyPhotos) == 0 {
		merged.LegacyPhotos = secondary.LegacyPhotos
	}
	if merged.Coords == nil {
		merged.Coords = secondary.Coords
	}
	if merged.Coordinates == nil {
		merged.Coordinates = secondary.Coordinates
	}
	if merged.Notes == "" {
		merged.Notes = secondary.Notes
	}
	if merged.NoiseObservations == "" {
		merged.NoiseObservations = secondary.NoiseObservations
	}
	if merged.TechnicalRequirements == "" {
		merged.TechnicalRequirements = secondary.TechnicalRequirements
	}
	if merged.Tags == nil {
		merged.Tags = secondary.Tags
	}
	if merged.Status == "" {
		merged.Status = secondary.Status
	}
	merged.Evaluation = merged.Status
	if merged.Title == "" {
		merged.Title = secondary.Title
	}
	if merged.ProjectID == "" {
		merged.ProjectID = secondary.ProjectID
	}

	merged.CreatedAt = earliestTimestamp(existing.CreatedAt, incoming.CreatedAt)
	merged.UpdatedAt = primary.UpdatedAt

	return normalizeLocationSetAt(rawRecord(merged), now)
}

// updateTime resolves the merge-precedence instant for a record, falling
// back to createdAt when updatedAt is unusable.
func updateTime(set LocationSet) time.Time {
	if t, ok := ParseTimestamp(set.UpdatedAt); ok {
		return t
	}
	if t, ok := ParseTimestamp(set.CreatedAt); ok {
		return t
	}
	return time.Time{}
}

func earliestTimestamp(a, b string) string {
	ta, okA := ParseTimestamp(a)
	tb, okB := ParseTimestamp(b)
	switch {
	case okA && okB:
		if tb.Before(ta) {
			return b
		}
		return a
	case okA:
		return a
	case okB:
		return b
	default:
		return a
	}
}
