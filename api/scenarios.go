/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Populates the document with realistic data for demos. Each scenario
	replaces the stored document, so only use these in development.

AVAILABLE SCENARIOS:

	night-shoot:    One project mid-evaluation, mixed statuses
	legacy-import:  A document written by the previous app generation,
	                demonstrating normalize-on-read

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "night-shoot"}

SEE ALSO:
  - handlers.go: Shares the Handler context
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/warp/scout-engine/scouting"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

// ScenarioDTO describes a loadable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

var scenarios = []ScenarioDTO{
	{
		ID:          "night-shoot",
		Name:        "Night Shoot",
		Description: "One project with evaluated, rejected and pending locations",
	},
	{
		ID:          "legacy-import",
		Name:        "Legacy Import",
		Description: "A document written by the previous app generation, repaired on load",
	},
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns the available demo scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the most recently loaded scenario id, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"scenario_id": h.currentScenario})
}

// LoadScenario replaces the stored document with a demo scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	var err error
	switch req.ScenarioID {
	case "night-shoot":
		err = loadNightShootScenario(ctx, h)
	case "legacy-import":
		err = loadLegacyImportScenario(ctx, h)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario: %s", req.ScenarioID), nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, h.Docs.Document(ctx))
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func loadNightShootScenario(ctx context.Context, h *Handler) error {
	h.Docs.Clear(ctx)

	h.Docs.UpdateTechnician(ctx, map[string]any{
		"fullName": "Marta Iglesias",
		"company":  "Foley & Field S.L.",
		"email":    "marta@foleyfield.example",
		"phone":    "+34 600 000 001",
	})

	project := h.Docs.CreateProject(ctx, "Night Shoot")
	if project == nil {
		return fmt.Errorf("scenario: project not created")
	}

	warehouse := h.Docs.CreateLocationSet(ctx, project.ID, map[string]any{
		"name":                  "Riverside warehouse",
		"status":                string(scouting.StatusSuitable),
		"notes":                 "Dead quiet after 22:00, good natural reverb",
		"technicalRequirements": "Generator access, two line runs",
		"tags":                  []any{"interior", "reverb"},
		"coords":                map[string]any{"lat": 40.4168, "lng": -3.7038},
	})
	if warehouse != nil {
		h.Docs.AddPhoto(ctx, project.ID, warehouse.ID, "img://warehouse/entrance")
		h.Docs.AddPhoto(ctx, project.ID, warehouse.ID, "img://warehouse/main-floor")
	}

	h.Docs.CreateLocationSet(ctx, project.ID, map[string]any{
		"name":   "Ring road underpass",
		"status": string(scouting.StatusUnsuitable),
		"notes":  "Constant traffic drone, unusable for dialogue",
		"tags":   []any{"exterior", "traffic"},
	})

	h.Docs.CreateLocationSet(ctx, project.ID, map[string]any{
		"name": "Old grain mill",
		"tags": []any{"exterior", "pending-visit"},
	})

	return nil
}

// loadLegacyImportScenario stores a document in the previous generation's
// shape and lets the first read repair it.
func loadLegacyImportScenario(ctx context.Context, h *Handler) error {
	legacy := `{
	  "projects": [{
	    "id": "legacy-project",
	    "name": "Coastal Drama",
	    "createdAt": "2023-05-02T10:00:00Z",
	    "updatedAt": "not-a-date",
	    "sets": [{
	      "id": "legacy-set",
	      "title": "Lighthouse interior",
	      "evaluation": "sin_evaluar",
	      "tags": ["interior"],
	      "noiseObservations": "Gull colony audible through the lantern room",
	      "technicalRequirements": "",
	      "photos": [{"id": "p1", "url": "img://lighthouse/stairs", "timestamp": "2023-05-02T10:05:00Z", "fileSize": 204800}],
	      "coordinates": {"latitude": 43.385, "longitude": -8.406, "accuracy": 12, "timestamp": "2023-05-02T10:04:00Z"},
	      "createdAt": "2023-05-02T10:03:00Z",
	      "updatedAt": "2023-05-02T10:05:00Z"
	    }]
	  }]
	}`

	if !h.Docs.Import(ctx, legacy) {
		return fmt.Errorf("scenario: legacy document rejected")
	}
	return nil
}
