/*
docstore.go - Public operations over the stored document

PURPOSE:
  DocumentStore is the only permitted point of translation between the
  persisted shapes and the canonical model. Every operation follows the
  same cycle:

    load -> reconcile (persist if anything was repaired, so corruption
    self-heals on first read) -> apply the requested mutation ->
    re-normalize the affected entity -> persist the whole document ->
    return the resulting entity or a boolean

  There is no partial write and no transaction log. Logical concurrency
  (two stale in-memory copies written back independently) is absorbed by
  the merge engine, not by locks.

FAILURE SEMANTICS:
  Not-found returns nil or false; nothing here panics or returns an error
  across the public boundary. When the backend is unavailable, reads
  degrade to the in-memory default document and writes become no-ops,
  reported through the diagnostic sink only.

SEE ALSO:
  - backend.go: The persistence contract
  - reconcile.go: Structural repair applied on every load
*/
package scouting

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// DocumentStore owns the on-device document. Construct with New; the zero
// value is not usable.
type DocumentStore struct {
	backend Backend
	sink    Sink
	now     func() time.Time
}

// Option configures a DocumentStore.
type Option func(*DocumentStore)

// WithSink routes diagnostic events to s instead of discarding them.
func WithSink(s Sink) Option {
	return func(ds *DocumentStore) { ds.sink = s }
}

// WithClock overrides the time source. Tests use this to pin timestamps.
func WithClock(now func() time.Time) Option {
	return func(ds *DocumentStore) { ds.now = now }
}

// New creates a DocumentStore over the given backend.
func New(backend Backend, opts ...Option) *DocumentStore {
	ds := &DocumentStore{
		backend: backend,
		sink:    NopSink{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(ds)
	}
	return ds
}

// =============================================================================
// LOAD / PERSIST CYCLE
// =============================================================================

// load reads, decodes and reconciles the stored document. Any failure
// resolves to the default document; a repaired document is persisted back
// immediately so the damage does not survive the next read.
func (ds *DocumentStore) load(ctx context.Context) *Document {
	now := ds.now()

	data, err := ds.backend.Load(ctx)
	if errors.Is(err, ErrNoDocument) {
		return defaultDocumentAt(now)
	}
	if err != nil {
		ds.sink.Notify(EventLoadFailed, map[string]any{"error": err.Error()})
		return defaultDocumentAt(now)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		ds.sink.Notify(EventDecodeFailed, map[string]any{"error": err.Error()})
		return defaultDocumentAt(now)
	}

	doc, mutated := reconcileDocumentAt(raw, now)
	if mutated {
		ds.sink.Notify(EventRepaired, map[string]any{"projects": len(doc.Projects)})
		ds.persist(ctx, doc)
	}
	return doc
}

func (ds *DocumentStore) persist(ctx context.Context, doc *Document) bool {
	data, err := json.Marshal(doc)
	if err != nil {
		ds.sink.Notify(EventSaveFailed, map[string]any{"error": err.Error()})
		return false
	}
	if err := ds.backend.Save(ctx, data); err != nil {
		ds.sink.Notify(EventSaveFailed, map[string]any{"error": err.Error()})
		return false
	}
	return true
}

// =============================================================================
// DOCUMENT
// =============================================================================

// Document returns the whole reconciled document. Missing or unparseable
// storage yields a fresh default document, never an error.
func (ds *DocumentStore) Document(ctx context.Context) *Document {
	return ds.load(ctx)
}

// Export returns the full serialized snapshot of the reconciled document.
func (ds *DocumentStore) Export(ctx context.Context) string {
	doc := ds.load(ctx)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}

// Import replaces the stored document with the given serialized snapshot.
// On parse failure it returns false and leaves existing state untouched.
func (ds *DocumentStore) Import(ctx context.Context, payload string) bool {
	var raw map[string]any
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		ds.sink.Notify(EventImportFailed, map[string]any{"error": err.Error()})
		return false
	}
	doc, _ := reconcileDocumentAt(raw, ds.now())
	ds.persist(ctx, doc)
	return true
}

// Clear resets the stored document to the default empty document.
func (ds *DocumentStore) Clear(ctx context.Context) bool {
	return ds.persist(ctx, defaultDocumentAt(ds.now()))
}

// =============================================================================
// PROJECTS
// =============================================================================

// Projects lists every project in insertion order.
func (ds *DocumentStore) Projects(ctx context.Context) []Project {
	return ds.load(ctx).Projects
}

// Project returns the project with the given id, or nil.
func (ds *DocumentStore) Project(ctx context.Context, id string) *Project {
	doc := ds.load(ctx)
	idx := findProject(doc, id)
	if idx == -1 {
		return nil
	}
	project := doc.Projects[idx]
	return &project
}

// CreateProject appends a new empty project and makes it current.
func (ds *DocumentStore) CreateProject(ctx context.Context, name string) *Project {
	doc := ds.load(ctx)
	nowISO := isoTimestamp(ds.now())

	projectName, ok := SanitizeString(name)
	if !ok {
		projectName = PlaceholderProjectName
	}
	project := Project{
		ID:        NewID(),
		Name:      projectName,
		CreatedAt: nowISO,
		UpdatedAt: nowISO,
		Sets:      []LocationSet{},
	}

	doc.Projects = append(doc.Projects, project)
	doc.CurrentProjectID = project.ID
	ds.persist(ctx, doc)
	return &project
}

// RenameProject renames an existing project. An unusable name or unknown id
// returns nil.
func (ds *DocumentStore) RenameProject(ctx context.Context, id, name string) *Project {
	projectName, ok := SanitizeString(name)
	if !ok {
		return nil
	}

	doc := ds.load(ctx)
	idx := findProject(doc, id)
	if idx == -1 {
		return nil
	}

	doc.Projects[idx].Name = projectName
	doc.Projects[idx].UpdatedAt = isoTimestamp(ds.now())
	ds.persist(ctx, doc)

	project := doc.Projects[idx]
	return &project
}

// DeleteProject removes a project by id. When the current project is
// deleted, the first remaining project becomes current, or none.
func (ds *DocumentStore) DeleteProject(ctx context.Context, id string) bool {
	doc := ds.load(ctx)
	idx := findProject(doc, id)
	if idx == -1 {
		return false
	}

	doc.Projects = append(doc.Projects[:idx], doc.Projects[idx+1:]...)
	if doc.CurrentProjectID == id {
		doc.CurrentProjectID = ""
		if len(doc.Projects) > 0 {
			doc.CurrentProjectID = doc.Projects[0].ID
		}
	}
	ds.persist(ctx, doc)
	return true
}

// SetCurrentProject records the last-viewed project. A dangling id is
// tolerated and simply resolves to no current project on read.
func (ds *DocumentStore) SetCurrentProject(ctx context.Context, id string) {
	doc := ds.load(ctx)
	doc.CurrentProjectID = id
	ds.persist(ctx, doc)
}

// CurrentProject returns the last-viewed project, or nil when none is
// recorded or the reference dangles.
func (ds *DocumentStore) CurrentProject(ctx context.Context) *Project {
	doc := ds.load(ctx)
	if doc.CurrentProjectID == "" {
		return nil
	}
	idx := findProject(doc, doc.CurrentProjectID)
	if idx == -1 {
		return nil
	}
	project := doc.Projects[idx]
	return &project
}

// =============================================================================
// LOCATION SETS
// =============================================================================

// CreateLocationSet normalizes input into a full record and appends it to
// the project's collection. A generated-id collision (pathological) merges
// into the existing record instead of duplicating or overwriting it.
func (ds *DocumentStore) CreateLocationSet(ctx context.Context, projectID string, input map[string]any) *LocationSet {
	doc := ds.load(ctx)
	idx := findProject(doc, projectID)
	if idx == -1 {
		return nil
	}

	now := ds.now()
	nowISO := isoTimestamp(now)

	raw := make(map[string]any, len(input)+3)
	for k, v := range input {
		raw[k] = v
	}
	raw["id"] = NewID()
	raw["createdAt"] = nowISO
	raw["updatedAt"] = nowISO
	set := normalizeLocationSetAt(raw, now)

	project := &doc.Projects[idx]
	if dup := findSet(project, set.ID); dup != -1 {
		project.Sets[dup] = mergeLocationSetsAt(project.Sets[dup], set, now)
		set = project.Sets[dup]
	} else {
		project.Sets = append(project.Sets, set)
	}
	project.UpdatedAt = nowISO

	ds.persist(ctx, doc)
	return &set
}

// UpdateLocationSet overlays partial fields onto the current record,
// re-stamps updatedAt and persists. Identity and creation time cannot be
// changed through an update.
func (ds *DocumentStore) UpdateLocationSet(ctx context.Context, projectID, setID string, updates map[string]any) *LocationSet {
	doc := ds.load(ctx)
	idx := findProject(doc, projectID)
	if idx == -1 {
		return nil
	}
	project := &doc.Projects[idx]
	sIdx := findSet(project, setID)
	if sIdx == -1 {
		return nil
	}

	now := ds.now()
	nowISO := isoTimestamp(now)
	current := project.Sets[sIdx]

	raw := rawRecord(current)
	for k, v := range updates {
		raw[k] = v
	}
	raw["id"] = current.ID
	raw["createdAt"] = current.CreatedAt
	raw["updatedAt"] = nowISO

	updated := normalizeLocationSetAt(raw, now)
	project.Sets[sIdx] = updated
	project.UpdatedAt = nowISO

	ds.persist(ctx, doc)
	return &updated
}

// DeleteLocationSet removes a set by id.
func (ds *DocumentStore) DeleteLocationSet(ctx context.Context, projectID, setID string) bool {
	doc := ds.load(ctx)
	idx := findProject(doc, projectID)
	if idx == -1 {
		return false
	}
	project := &doc.Projects[idx]
	sIdx := findSet(project, setID)
	if sIdx == -1 {
		return false
	}

	project.Sets = append(project.Sets[:sIdx], project.Sets[sIdx+1:]...)
	project.UpdatedAt = isoTimestamp(ds.now())
	ds.persist(ctx, doc)
	return true
}

// AddPhoto appends a photo reference to a set. Idempotent: adding the same
// reference twice does not duplicate it.
func (ds *DocumentStore) AddPhoto(ctx context.Context, projectID, setID, photoRef string) *LocationSet {
	ref, ok := SanitizeString(photoRef)
	if !ok {
		return nil
	}
	return ds.mutateSet(ctx, projectID, setID, func(set *LocationSet) {
		set.Photos = unionRefs(set.Photos, []string{ref})
	})
}

// SetCoordinates sets or clears (nil) a set's canonical coordinates.
// Non-finite components are rejected.
func (ds *DocumentStore) SetCoordinates(ctx context.Context, projectID, setID string, coords *Coords) *LocationSet {
	if coords != nil && (!isFinite(coords.Lat) || !isFinite(coords.Lng)) {
		return nil
	}
	return ds.mutateSet(ctx, projectID, setID, func(set *LocationSet) {
		if coords == nil {
			set.Coords = nil
			return
		}
		c := *coords
		set.Coords = &c
	})
}

// SetStatus records an evaluation verdict. The legacy spelling is accepted;
// unknown spellings are rejected.
func (ds *DocumentStore) SetStatus(ctx context.Context, projectID, setID string, status Status) *LocationSet {
	normalized := NormalizeStatus(string(status))
	if normalized == "" {
		return nil
	}
	return ds.mutateSet(ctx, projectID, setID, func(set *LocationSet) {
		set.Status = normalized
		set.Evaluation = normalized
	})
}

// SetNotes replaces a set's free-text notes.
func (ds *DocumentStore) SetNotes(ctx context.Context, projectID, setID, notes string) *LocationSet {
	return ds.mutateSet(ctx, projectID, setID, func(set *LocationSet) {
		set.Notes = notes
	})
}

// mutateSet runs the targeted-mutation cycle shared by the single-field set
// operations: locate, mutate, re-stamp, re-normalize, persist.
func (ds *DocumentStore) mutateSet(ctx context.Context, projectID, setID string, mutate func(*LocationSet)) *LocationSet {
	doc := ds.load(ctx)
	idx := findProject(doc, projectID)
	if idx == -1 {
		return nil
	}
	project := &doc.Projects[idx]
	sIdx := findSet(project, setID)
	if sIdx == -1 {
		return nil
	}

	now := ds.now()
	nowISO := isoTimestamp(now)

	current := project.Sets[sIdx]
	mutate(&current)
	current.UpdatedAt = nowISO

	updated := normalizeLocationSetAt(rawRecord(current), now)
	project.Sets[sIdx] = updated
	project.UpdatedAt = nowISO

	ds.persist(ctx, doc)
	return &updated
}

// =============================================================================
// TECHNICIAN PROFILE
// =============================================================================

// Technician returns the singleton technician profile.
func (ds *DocumentStore) Technician(ctx context.Context) TechnicianProfile {
	return ds.load(ctx).TechnicianProfile
}

// UpdateTechnician overlays partial fields onto the profile and re-stamps
// updatedAt.
func (ds *DocumentStore) UpdateTechnician(ctx context.Context, updates map[string]any) TechnicianProfile {
	doc := ds.load(ctx)
	now := ds.now()

	raw := rawRecord(doc.TechnicianProfile)
	for k, v := range updates {
		raw[k] = v
	}
	profile := decodeProfile(raw, now)
	profile.UpdatedAt = isoTimestamp(now)

	doc.TechnicianProfile = profile
	ds.persist(ctx, doc)
	return profile
}

// =============================================================================
// LOOKUP HELPERS
// =============================================================================

func findProject(doc *Document, id string) int {
	for i := range doc.Projects {
		if doc.Projects[i].ID == id {
			return i
		}
	}
	return -1
}

func findSet(project *Project, id string) int {
	for i := range project.Sets {
		if project.Sets[i].ID == id {
			return i
		}
	}
	return -1
}
