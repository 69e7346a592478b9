/*
reconcile.go - Collection-level repair, dedupe and structural healing

PURPOSE:
  Applies the normalizer and merge engine across a whole project's set
  collection and across the whole document. Structural damage (non-array
  fields, missing sub-objects, invalid project timestamps) is silently
  repaired; entries sharing an id are folded together through the merge
  engine, first occurrence position retained.

MUTATION FLAG:
  Every function here reports whether anything changed so the caller can
  decide to persist. This is how corruption self-heals on first read: load
  -> reconcile -> persist-if-mutated. Change is detected by comparing each
  raw record against the canonical form of its normalization, which is the
  order-independent equivalent of serializing before and after.

NO DATA LOSS:
  Reconciling never reduces the count of distinct location-set ids in a
  project. Unrecognizable elements become placeholder records rather than
  being dropped.

SEE ALSO:
  - docstore.go: Calls ReconcileDocument on every load
*/
package scouting

import (
	"reflect"
	"time"
)

// ReconcileDocument rebuilds a typed Document from a decoded JSON object of
// unknown provenance, repairing whatever is malformed. The returned flag
// reports whether the canonical form differs from the input, meaning the
// caller should persist the repaired document.
func ReconcileDocument(raw map[string]any) (*Document, bool) {
	return reconcileDocumentAt(raw, time.Now())
}

func reconcileDocumentAt(raw map[string]any, now time.Time) (*Document, bool) {
	mutated := false
	doc := &Document{Projects: []Project{}}

	projectsRaw, ok := raw["projects"].([]any)
	if !ok {
		mutated = true
	}
	for _, item := range projectsRaw {
		pm, ok := item.(map[string]any)
		if !ok {
			mutated = true
			continue
		}
		project, changed := reconcileRawProject(pm, now)
		if changed {
			mutated = true
		}
		doc.Projects = append(doc.Projects, project)
	}

	if cur, ok := SanitizeString(raw["currentProjectId"]); ok {
		doc.CurrentProjectID = cur
	}

	if pm, ok := raw["technicianProfile"].(map[string]any); ok {
		doc.TechnicianProfile = decodeProfile(pm, now)
	} else {
		doc.TechnicianProfile = defaultProfile(now)
		mutated = true
	}

	return doc, mutated
}

// ReconcileProjectSets repairs a single project's set collection in place:
// non-array damage, per-record normalization, and dedupe-by-id. Reports
// whether the collection changed.
func ReconcileProjectSets(project *Project) bool {
	return reconcileProjectSetsAt(project, time.Now())
}

func reconcileProjectSetsAt(project *Project, now time.Time) bool {
	if project.Sets == nil {
		project.Sets = []LocationSet{}
		return true
	}

	items := make([]any, len(project.Sets))
	for i, set := range project.Sets {
		items[i] = rawRecord(set)
	}
	sets, _ := reconcileRawSets(items, now)
	if reflect.DeepEqual(project.Sets, sets) {
		return false
	}
	project.Sets = sets
	return true
}

func reconcileRawProject(pm map[string]any, now time.Time) (Project, bool) {
	changed := false

	id, ok := SanitizeString(pm["id"])
	if !ok {
		id = NewID()
		changed = true
	}
	name, ok := SanitizeString(pm["name"])
	if !ok {
		name = PlaceholderProjectName
		changed = true
	}

	createdAt := pm["createdAt"]
	createdAtStr, ok := createdAt.(string)
	if !ok || !IsValidTimestamp(createdAtStr) {
		createdAtStr = isoTimestamp(now)
		changed = true
	}
	updatedAtStr, ok := pm["updatedAt"].(string)
	if !ok || !IsValidTimestamp(updatedAtStr) {
		updatedAtStr = createdAtStr
		changed = true
	}

	sets := []LocationSet{}
	if items, ok := pm["sets"].([]any); ok {
		var setsChanged bool
		sets, setsChanged = reconcileRawSets(items, now)
		if setsChanged {
			changed = true
		}
	} else {
		changed = true
	}

	return Project{
		ID:        id,
		Name:      name,
		CreatedAt: createdAtStr,
		UpdatedAt: updatedAtStr,
		Sets:      sets,
	}, changed
}

// reconcileRawSets normalizes every element and folds duplicates (same id)
// through the merge engine. Fold order: first occurrence position retained,
// later duplicate merged in.
func reconcileRawSets(items []any, now time.Time) ([]LocationSet, bool) {
	changed := false
	order := make([]string, 0, len(items))
	byID := make(map[string]LocationSet, len(items))

	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			// Unrecognizable element: fabricate a placeholder record
			// instead of dropping data we cannot interpret.
			m = map[string]any{}
			changed = true
		}
		normalized := normalizeLocationSetAt(m, now)
		if !changed && !reflect.DeepEqual(m, rawRecord(normalized)) {
			changed = true
		}

		if current, dup := byID[normalized.ID]; dup {
			byID[normalized.ID] = mergeLocationSetsAt(current, normalized, now)
			changed = true
		} else {
			byID[normalized.ID] = normalized
			order = append(order, normalized.ID)
		}
	}

	sets := make([]LocationSet, 0, len(order))
	for _, id := range order {
		sets = append(sets, byID[id])
	}
	return sets, changed
}

func decodeProfile(pm map[string]any, now time.Time) TechnicianProfile {
	profile := defaultProfile(now)
	if s, ok := SanitizeString(pm["id"]); ok {
		profile.ID = s
	}
	profile.FullName = stringOrEmpty(pm["fullName"])
	profile.Company = stringOrEmpty(pm["company"])
	profile.Email = stringOrEmpty(pm["email"])
	profile.Phone = stringOrEmpty(pm["phone"])
	profile.UpdatedAt = NormalizeTimestamp(pm["updatedAt"], isoTimestamp(now))
	return profile
}

func defaultProfile(now time.Time) TechnicianProfile {
	return TechnicianProfile{ID: "default", UpdatedAt: isoTimestamp(now)}
}

// DefaultDocument is what reads degrade to when storage is missing,
// unparseable or unavailable.
func DefaultDocument() *Document {
	return defaultDocumentAt(time.Now())
}

func defaultDocumentAt(now time.Time) *Document {
	return &Document{
		Projects:          []Project{},
		TechnicianProfile: defaultProfile(now),
	}
}
