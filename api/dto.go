/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Location-sets and the
  technician profile cross the wire in their canonical shape (the store is
  the only permitted point of schema translation, and its output is already
  the external contract), so DTOs here exist for the places the API shape
  differs from the model: list summaries, request bodies, and the report
  payload consumed by the external renderer.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import "github.com/warp/scout-engine/scouting"

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// ProjectSummaryDTO is the list-view projection of a project.
type ProjectSummaryDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
	SetCount  int    `json:"setCount"`
	Current   bool   `json:"current"`
}

// CreateProjectRequest creates a new project.
type CreateProjectRequest struct {
	Name string `json:"name"`
}

// RenameProjectRequest renames an existing project.
type RenameProjectRequest struct {
	Name string `json:"name"`
}

// AddPhotoRequest attaches a photo reference produced by the capture
// collaborator.
type AddPhotoRequest struct {
	URL string `json:"url"`
}

// SetStatusRequest records an evaluation verdict.
type SetStatusRequest struct {
	Status string `json:"status"`
}

// SetNotesRequest replaces a set's notes.
type SetNotesRequest struct {
	Notes string `json:"notes"`
}

// ImportRequest carries a full serialized document snapshot.
type ImportRequest struct {
	Data string `json:"data"`
}

// ReportDTO is the read-only payload the external report renderer consumes.
type ReportDTO struct {
	ID          string                     `json:"id"`
	ProjectID   string                     `json:"projectId"`
	ProjectName string                     `json:"projectName"`
	Technician  scouting.TechnicianProfile `json:"technician"`
	GeneratedAt string                     `json:"generatedAt"`
	Sets        []scouting.LocationSet     `json:"sets"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
