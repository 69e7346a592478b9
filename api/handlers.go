/*
handlers.go - HTTP API handlers for the scouting document store

PURPOSE:
  Exposes the document store via REST for the out-of-process UI. Handles
  HTTP request/response and JSON serialization, and delegates everything
  else to the store.

ENDPOINTS:
  Projects:
    GET    /api/projects                     List project summaries
    POST   /api/projects                     Create project
    GET    /api/projects/{id}                Get project with sets
    PUT    /api/projects/{id}                Rename project
    DELETE /api/projects/{id}                Delete project
    PUT    /api/projects/{id}/current        Mark as last-viewed
    GET    /api/projects/{id}/report         Report payload for the renderer

  Location sets:
    POST   /api/projects/{id}/sets                   Create set
    PUT    /api/projects/{id}/sets/{setID}           Partial update
    DELETE /api/projects/{id}/sets/{setID}           Delete set
    POST   /api/projects/{id}/sets/{setID}/photos    Add photo reference
    PUT    /api/projects/{id}/sets/{setID}/coords    Set/clear coordinates
    PUT    /api/projects/{id}/sets/{setID}/status    Set evaluation status
    PUT    /api/projects/{id}/sets/{setID}/notes     Set notes

  Document:
    GET    /api/technician        PUT /api/technician
    GET    /api/export            POST /api/import
    GET    /api/health

ERROR HANDLING:
  The store never errors; its nil/false returns map to HTTP status:
  - 400: Undecodable body, rejected input (bad status spelling, bad coords)
  - 404: Unknown project or set id
  The only 500 is a request body that cannot be read.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - scenarios.go: Demo data loader
*/
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/warp/scout-engine/scouting"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Docs *scouting.DocumentStore

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler over the given document store.
func NewHandler(docs *scouting.DocumentStore) *Handler {
	return &Handler{Docs: docs}
}

// =============================================================================
// PROJECT HANDLERS
// =============================================================================

// ListProjects returns summaries of every project in insertion order.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	doc := h.Docs.Document(r.Context())

	dtos := make([]ProjectSummaryDTO, len(doc.Projects))
	for i, p := range doc.Projects {
		dtos[i] = ProjectSummaryDTO{
			ID:        p.ID,
			Name:      p.Name,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
			SetCount:  len(p.Sets),
			Current:   p.ID == doc.CurrentProjectID,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetProject returns a single project including its sets.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	project := h.Docs.Project(r.Context(), chi.URLParam(r, "id"))
	if project == nil {
		writeError(w, http.StatusNotFound, "Project not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// CreateProject creates a new project and makes it current.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	project := h.Docs.CreateProject(r.Context(), req.Name)
	writeJSON(w, http.StatusCreated, project)
}

// RenameProject renames an existing project.
func (h *Handler) RenameProject(w http.ResponseWriter, r *http.Request) {
	var req RenameProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if _, ok := scouting.SanitizeString(req.Name); !ok {
		writeError(w, http.StatusBadRequest, "Project name must not be empty", nil)
		return
	}
	project := h.Docs.RenameProject(r.Context(), chi.URLParam(r, "id"), req.Name)
	if project == nil {
		writeError(w, http.StatusNotFound, "Project not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// DeleteProject removes a project.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if !h.Docs.DeleteProject(r.Context(), chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, "Project not found", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetCurrentProject marks a project as last-viewed.
func (h *Handler) SetCurrentProject(w http.ResponseWriter, r *http.Request) {
	h.Docs.SetCurrentProject(r.Context(), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// GetReport returns the read-only report payload for the external renderer.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	project := h.Docs.Project(ctx, chi.URLParam(r, "id"))
	if project == nil {
		writeError(w, http.StatusNotFound, "Project not found", nil)
		return
	}

	writeJSON(w, http.StatusOK, ReportDTO{
		ID:          scouting.NewID(),
		ProjectID:   project.ID,
		ProjectName: project.Name,
		Technician:  h.Docs.Technician(ctx),
		GeneratedAt: nowISO(),
		Sets:        project.Sets,
	})
}

// =============================================================================
// LOCATION SET HANDLERS
// =============================================================================

// CreateSet creates a location-set from a partial record of either schema
// generation.
func (h *Handler) CreateSet(w http.ResponseWriter, r *http.Request) {
	var input map[string]any
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	set := h.Docs.CreateLocationSet(r.Context(), chi.URLParam(r, "id"), input)
	if set == nil {
		writeError(w, http.StatusNotFound, "Project not found", nil)
		return
	}
	writeJSON(w, http.StatusCreated, set)
}

// UpdateSet overlays partial fields onto an existing set.
func (h *Handler) UpdateSet(w http.ResponseWriter, r *http.Request) {
	var updates map[string]any
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	set := h.Docs.UpdateLocationSet(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "setID"), updates)
	if set == nil {
		writeError(w, http.StatusNotFound, "Project or set not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

// DeleteSet removes a set.
func (h *Handler) DeleteSet(w http.ResponseWriter, r *http.Request) {
	if !h.Docs.DeleteLocationSet(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "setID")) {
		writeError(w, http.StatusNotFound, "Project or set not found", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddPhoto attaches a photo reference. Idempotent.
func (h *Handler) AddPhoto(w http.ResponseWriter, r *http.Request) {
	var req AddPhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if _, ok := scouting.SanitizeString(req.URL); !ok {
		writeError(w, http.StatusBadRequest, "Photo reference must not be empty", nil)
		return
	}
	set := h.Docs.AddPhoto(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "setID"), req.URL)
	if set == nil {
		writeError(w, http.StatusNotFound, "Project or set not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

// SetCoords sets or clears coordinates. The body is either a JSON null
// (clear) or a coordinate pair in canonical or legacy naming.
func (h *Handler) SetCoords(w http.ResponseWriter, r *http.Request) {
	var body any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	coords, ok := scouting.NormalizeCoords(body)
	if !ok {
		writeError(w, http.StatusBadRequest, "Expected a coordinate pair or null", nil)
		return
	}
	set := h.Docs.SetCoordinates(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "setID"), coords)
	if set == nil {
		writeError(w, http.StatusNotFound, "Project or set not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

// SetStatus records an evaluation verdict.
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if scouting.NormalizeStatus(req.Status) == "" {
		writeError(w, http.StatusBadRequest, "Unknown status", nil)
		return
	}
	set := h.Docs.SetStatus(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "setID"), scouting.Status(req.Status))
	if set == nil {
		writeError(w, http.StatusNotFound, "Project or set not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

// SetNotes replaces a set's notes.
func (h *Handler) SetNotes(w http.ResponseWriter, r *http.Request) {
	var req SetNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	set := h.Docs.SetNotes(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "setID"), req.Notes)
	if set == nil {
		writeError(w, http.StatusNotFound, "Project or set not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

// =============================================================================
// TECHNICIAN / DOCUMENT HANDLERS
// =============================================================================

// GetTechnician returns the technician profile.
func (h *Handler) GetTechnician(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Docs.Technician(r.Context()))
}

// UpdateTechnician overlays partial fields onto the technician profile.
func (h *Handler) UpdateTechnician(w http.ResponseWriter, r *http.Request) {
	var updates map[string]any
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	writeJSON(w, http.StatusOK, h.Docs.UpdateTechnician(r.Context(), updates))
}

// ExportDocument returns the full serialized snapshot.
func (h *Handler) ExportDocument(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="sound-scouting-export.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(h.Docs.Export(r.Context())))
}

// ImportDocument replaces the stored document with an uploaded snapshot.
func (h *Handler) ImportDocument(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if !h.Docs.Import(r.Context(), req.Data) {
		writeError(w, http.StatusBadRequest, "Import payload is not a valid document", nil)
		return
	}
	writeJSON(w, http.StatusOK, h.Docs.Document(r.Context()))
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
