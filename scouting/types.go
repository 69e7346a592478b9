/*
Package scouting provides the core document model and store for the
sound-scouting application.

PURPOSE:
  This package owns the on-device record of projects and location-sets:
  reading, writing, repairing, deduplicating and merging it. Two historical
  schema generations coexist in shipped data, so every read normalizes into
  one canonical in-memory shape. The UI, photo capture, geolocation and
  report rendering are external collaborators that only ever observe the
  canonical shape returned by store reads.

KEY CONCEPTS IN THIS FILE (types.go):
  - Document: The root record, one per device
  - Project: A named collection of location-sets for one production
  - LocationSet: A candidate filming location (the two-generation entity)
  - TechnicianProfile: Singleton contact record
  - Status: Evaluation status with a legacy fourth spelling mapped on input

DESIGN PRINCIPLES:
  1. Normalize on read: persisted shape is never trusted to match the
     canonical type; legacy fields are permanent optional inputs, not a
     one-time migration
  2. Whole-document writes: no partial writes, no transaction log
  3. No exceptions across the public boundary: failure modes live in
     return values

SEE ALSO:
  - normalize.go: Canonicalization of arbitrary/partial records
  - merge.go: Last-writer-wins reconciliation of divergent copies
  - reconcile.go: Collection-level repair and dedupe
  - docstore.go: Public operations built on the above
*/
package scouting

// =============================================================================
// STATUS - Evaluation status for a location-set
// =============================================================================

// Status is the evaluation verdict for a location. The empty string means
// "not evaluated yet" (absent); it is a valid canonical state, distinct from
// StatusPending which is an explicit user choice.
type Status string

const (
	StatusSuitable   Status = "apto"
	StatusUnsuitable Status = "no_apto"
	StatusPending    Status = "pendiente"
)

// statusLegacyUnevaluated is accepted on input only and maps to StatusPending.
const statusLegacyUnevaluated = "sin_evaluar"

// Valid reports whether s is one of the three canonical statuses.
func (s Status) Valid() bool {
	return s == StatusSuitable || s == StatusUnsuitable || s == StatusPending
}

// Label returns the display label for s. Absent statuses display as pending.
func (s Status) Label() string {
	switch s {
	case StatusSuitable:
		return "Apto"
	case StatusUnsuitable:
		return "No apto"
	default:
		return "Pendiente"
	}
}

// =============================================================================
// COORDINATES - Canonical and legacy shapes
// =============================================================================

// Coords is the canonical coordinate pair. A nil *Coords on a LocationSet
// means "deliberately not set" and serializes as JSON null.
type Coords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// LegacyCoordinates is the older-generation coordinate shape, retained
// verbatim so legacy readers keep working. It may seed the canonical Coords
// during normalization but is never preferred for new writes.
type LegacyCoordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy,omitempty"`
	Timestamp string  `json:"timestamp,omitempty"`
}

// =============================================================================
// PHOTOS
// =============================================================================

// LegacyPhoto is the older-generation rich photo object. The canonical photo
// field is a de-duplicated list of bare reference strings; legacy photos
// contribute their URL to that list on every normalization pass.
type LegacyPhoto struct {
	ID        string `json:"id,omitempty"`
	URL       string `json:"url"`
	Caption   string `json:"caption,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	FileSize  int64  `json:"fileSize,omitempty"`
}

// =============================================================================
// LOCATION SET - The two-generation entity
// =============================================================================

// PlaceholderName is assigned when neither name nor title yields a usable
// display name.
const PlaceholderName = "Unnamed location"

// LocationSet is a candidate filming location. Canonical fields and their
// legacy aliases are both carried so that either schema generation can read
// the persisted record; normalization keeps the pairs consistent:
//
//	Name   <-> Title
//	Status <-> Evaluation (Status authoritative when both present)
//	Coords <-> Coordinates
//	Photos <-> LegacyPhotos (union of references, never dropped)
//
// ProjectID is informational only. Ownership is positional: a set belongs to
// the project whose Sets collection contains it.
type LocationSet struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Notes     string   `json:"notes,omitempty"`
	Coords    *Coords  `json:"coords"`
	Photos    []string `json:"photos,omitempty"`
	Status    Status   `json:"status,omitempty"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`

	// Legacy-generation fields, kept in sync on every normalization.
	Title                 string             `json:"title"`
	Tags                  []string           `json:"tags"`
	NoiseObservations     string             `json:"noiseObservations"`
	TechnicalRequirements string             `json:"technicalRequirements"`
	Evaluation            Status             `json:"evaluation,omitempty"`
	ProjectID             string             `json:"projectId,omitempty"`
	Coordinates           *LegacyCoordinates `json:"coordinates,omitempty"`
	LegacyPhotos          []LegacyPhoto      `json:"legacyPhotos,omitempty"`
}

// =============================================================================
// PROJECT / PROFILE / DOCUMENT
// =============================================================================

// PlaceholderProjectName is assigned when a persisted project carries no
// usable name.
const PlaceholderProjectName = "Unnamed project"

// Project is a named collection of location-sets for one production.
// After reconciliation Sets is always non-nil, even if the persisted value
// was malformed.
type Project struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	CreatedAt string        `json:"createdAt"`
	UpdatedAt string        `json:"updatedAt"`
	Sets      []LocationSet `json:"sets"`
}

// TechnicianProfile is the singleton contact record stamped onto reports.
// It is always present after reconciliation, never nil.
type TechnicianProfile struct {
	ID        string `json:"id"`
	FullName  string `json:"fullName"`
	Company   string `json:"company"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	UpdatedAt string `json:"updatedAt"`
}

// Document is the root record, one per device. CurrentProjectID may dangle
// (reference a deleted project); readers treat a dangling reference as
// "none".
type Document struct {
	Projects          []Project         `json:"projects"`
	CurrentProjectID  string            `json:"currentProjectId,omitempty"`
	TechnicianProfile TechnicianProfile `json:"technicianProfile"`
}
