package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/scout-engine/scouting"
	"github.com/warp/scout-engine/scouting/store"
)

// =============================================================================
// TEST HARNESS
// =============================================================================

func newTestAPI(t *testing.T) (*chiRouter, *scouting.DocumentStore) {
	t.Helper()
	docs := scouting.New(store.NewMemory())
	router := NewRouter(NewHandler(docs))
	return &chiRouter{router}, docs
}

// chiRouter wraps the mux with request helpers shared by every test.
type chiRouter struct {
	http.Handler
}

func (r *chiRouter) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func (r *chiRouter) doRaw(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func createProject(t *testing.T, r *chiRouter, name string) scouting.Project {
	t.Helper()
	rec := r.do(t, http.MethodPost, "/api/projects", CreateProjectRequest{Name: name})
	require.Equal(t, http.StatusCreated, rec.Code)
	return decodeBody[scouting.Project](t, rec)
}

func createSet(t *testing.T, r *chiRouter, projectID string, input map[string]any) scouting.LocationSet {
	t.Helper()
	rec := r.do(t, http.MethodPost, "/api/projects/"+projectID+"/sets", input)
	require.Equal(t, http.StatusCreated, rec.Code)
	return decodeBody[scouting.LocationSet](t, rec)
}

// =============================================================================
// HEALTH
// =============================================================================

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestAPI(t)

	rec := router.do(t, http.MethodGet, "/api/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{"status": "ok"}, decodeBody[map[string]string](t, rec))
}

// =============================================================================
// PROJECT ENDPOINTS
// =============================================================================

func TestCreateAndListProjects(t *testing.T) {
	router, _ := newTestAPI(t)

	first := createProject(t, router, "First")
	second := createProject(t, router, "Second")

	rec := router.do(t, http.MethodGet, "/api/projects", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	summaries := decodeBody[[]ProjectSummaryDTO](t, rec)
	require.Len(t, summaries, 2)
	assert.Equal(t, first.ID, summaries[0].ID)
	assert.False(t, summaries[0].Current)
	assert.Equal(t, second.ID, summaries[1].ID)
	assert.True(t, summaries[1].Current)
}

func TestGetProjectNotFound(t *testing.T) {
	router, _ := newTestAPI(t)

	rec := router.do(t, http.MethodGet, "/api/projects/missing", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRenameProject(t *testing.T) {
	router, _ := newTestAPI(t)
	project := createProject(t, router, "Before")

	rec := router.do(t, http.MethodPut, "/api/projects/"+project.ID, RenameProjectRequest{Name: "After"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "After", decodeBody[scouting.Project](t, rec).Name)

	// Empty names are rejected before touching the store.
	rec = router.do(t, http.MethodPut, "/api/projects/"+project.ID, RenameProjectRequest{Name: "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = router.do(t, http.MethodPut, "/api/projects/missing", RenameProjectRequest{Name: "After"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteProject(t *testing.T) {
	router, _ := newTestAPI(t)
	project := createProject(t, router, "Doomed")

	rec := router.do(t, http.MethodDelete, "/api/projects/"+project.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = router.do(t, http.MethodDelete, "/api/projects/"+project.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetCurrentProject(t *testing.T) {
	router, _ := newTestAPI(t)
	first := createProject(t, router, "First")
	createProject(t, router, "Second")

	rec := router.do(t, http.MethodPut, "/api/projects/"+first.ID+"/current", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	summaries := decodeBody[[]ProjectSummaryDTO](t, router.do(t, http.MethodGet, "/api/projects", nil))
	assert.True(t, summaries[0].Current)
	assert.False(t, summaries[1].Current)
}

func TestGetReport(t *testing.T) {
	router, _ := newTestAPI(t)
	project := createProject(t, router, "Night Shoot")
	createSet(t, router, project.ID, map[string]any{"name": "Warehouse", "status": "apto"})

	rec := router.do(t, http.MethodPut, "/api/technician", map[string]any{"fullName": "Marta Iglesias"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = router.do(t, http.MethodGet, "/api/projects/"+project.ID+"/report", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	report := decodeBody[ReportDTO](t, rec)
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, project.ID, report.ProjectID)
	assert.Equal(t, "Night Shoot", report.ProjectName)
	assert.Equal(t, "Marta Iglesias", report.Technician.FullName)
	require.Len(t, report.Sets, 1)
	assert.Equal(t, scouting.StatusSuitable, report.Sets[0].Status)
}

// =============================================================================
// LOCATION SET ENDPOINTS
// =============================================================================

func TestCreateSetNormalizesLegacyBody(t *testing.T) {
	router, _ := newTestAPI(t)
	project := createProject(t, router, "P")

	set := createSet(t, router, project.ID, map[string]any{
		"title":       "Lighthouse interior",
		"evaluation":  "sin_evaluar",
		"coordinates": map[string]any{"latitude": 43.385, "longitude": -8.406},
	})

	assert.Equal(t, "Lighthouse interior", set.Name)
	assert.Equal(t, "Lighthouse interior", set.Title)
	assert.Equal(t, scouting.StatusPending, set.Status)
	require.NotNil(t, set.Coords)
	assert.Equal(t, 43.385, set.Coords.Lat)
}

func TestCreateSetUnknownProject(t *testing.T) {
	router, _ := newTestAPI(t)

	rec := router.do(t, http.MethodPost, "/api/projects/missing/sets", map[string]any{"name": "X"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateSet(t *testing.T) {
	router, _ := newTestAPI(t)
	project := createProject(t, router, "P")
	set := createSet(t, router, project.ID, map[string]any{"name": "Rooftop"})

	rec := router.do(t, http.MethodPut, "/api/projects/"+project.ID+"/sets/"+set.ID,
		map[string]any{"name": "Rooftop east", "notes": "wind exposure"})
	require.Equal(t, http.StatusOK, rec.Code)

	updated := decodeBody[scouting.LocationSet](t, rec)
	assert.Equal(t, set.ID, updated.ID)
	assert.Equal(t, "Rooftop east", updated.Name)
	assert.Equal(t, "wind exposure", updated.Notes)

	rec = router.do(t, http.MethodPut, "/api/projects/"+project.ID+"/sets/missing", map[string]any{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteSet(t *testing.T) {
	router, _ := newTestAPI(t)
	project := createProject(t, router, "P")
	set := createSet(t, router, project.ID, map[string]any{"name": "Rooftop"})

	rec := router.do(t, http.MethodDelete, "/api/projects/"+project.ID+"/sets/"+set.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = router.do(t, http.MethodDelete, "/api/projects/"+project.ID+"/sets/"+set.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddPhoto(t *testing.T) {
	router, _ := newTestAPI(t)
	project := createProject(t, router, "P")
	set := createSet(t, router, project.ID, map[string]any{"name": "Rooftop"})
	path := "/api/projects/" + project.ID + "/sets/" + set.ID + "/photos"

	rec := router.do(t, http.MethodPost, path, AddPhotoRequest{URL: "img://roof"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"img://roof"}, decodeBody[scouting.LocationSet](t, rec).Photos)

	// Same reference again: no duplicate.
	rec = router.do(t, http.MethodPost, path, AddPhotoRequest{URL: "img://roof"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"img://roof"}, decodeBody[scouting.LocationSet](t, rec).Photos)

	rec = router.do(t, http.MethodPost, path, AddPhotoRequest{URL: "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetCoords(t *testing.T) {
	router, _ := newTestAPI(t)
	project := createProject(t, router, "P")
	set := createSet(t, router, project.ID, map[string]any{"name": "Rooftop"})
	path := "/api/projects/" + project.ID + "/sets/" + set.ID + "/coords"

	// Legacy naming is accepted.
	rec := router.doRaw(t, http.MethodPut, path, `{"latitude": 40.4, "longitude": -3.7}`)
	require.Equal(t, http.StatusOK, rec.Code)
	located := decodeBody[scouting.LocationSet](t, rec)
	require.NotNil(t, located.Coords)
	assert.Equal(t, 40.4, located.Coords.Lat)

	// A JSON null body clears coordinates.
	rec = router.doRaw(t, http.MethodPut, path, `null`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decodeBody[scouting.LocationSet](t, rec).Coords)

	// An unrecognizable shape is rejected.
	rec = router.doRaw(t, http.MethodPut, path, `"somewhere nice"`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetStatus(t *testing.T) {
	router, _ := newTestAPI(t)
	project := createProject(t, router, "P")
	set := createSet(t, router, project.ID, map[string]any{"name": "Rooftop"})
	path := "/api/projects/" + project.ID + "/sets/" + set.ID + "/status"

	// The legacy spelling maps to pending.
	rec := router.do(t, http.MethodPut, path, SetStatusRequest{Status: "sin_evaluar"})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeBody[scouting.LocationSet](t, rec)
	assert.Equal(t, scouting.StatusPending, updated.Status)
	assert.Equal(t, scouting.StatusPending, updated.Evaluation)

	rec = router.do(t, http.MethodPut, path, SetStatusRequest{Status: "great"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetNotes(t *testing.T) {
	router, _ := newTestAPI(t)
	project := createProject(t, router, "P")
	set := createSet(t, router, project.ID, map[string]any{"name": "Rooftop"})

	rec := router.do(t, http.MethodPut, "/api/projects/"+project.ID+"/sets/"+set.ID+"/notes",
		SetNotesRequest{Notes: "HVAC hum on the east side"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HVAC hum on the east side", decodeBody[scouting.LocationSet](t, rec).Notes)
}

// =============================================================================
// TECHNICIAN / DOCUMENT ENDPOINTS
// =============================================================================

func TestTechnicianEndpoints(t *testing.T) {
	router, _ := newTestAPI(t)

	rec := router.do(t, http.MethodGet, "/api/technician", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "default", decodeBody[scouting.TechnicianProfile](t, rec).ID)

	rec = router.do(t, http.MethodPut, "/api/technician", map[string]any{"fullName": "Ana Ruiz"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ana Ruiz", decodeBody[scouting.TechnicianProfile](t, rec).FullName)
}

func TestExportImportRoundTrip(t *testing.T) {
	router, _ := newTestAPI(t)
	project := createProject(t, router, "Portable")
	createSet(t, router, project.ID, map[string]any{"name": "Rooftop"})

	rec := router.do(t, http.MethodGet, "/api/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	snapshot := rec.Body.String()

	// Importing into a fresh server restores the same projects.
	fresh, _ := newTestAPI(t)
	rec = fresh.do(t, http.MethodPost, "/api/import", ImportRequest{Data: snapshot})
	require.Equal(t, http.StatusOK, rec.Code)

	doc := decodeBody[scouting.Document](t, rec)
	require.Len(t, doc.Projects, 1)
	assert.Equal(t, "Portable", doc.Projects[0].Name)
	require.Len(t, doc.Projects[0].Sets, 1)
}

func TestImportRejectsUnparseablePayload(t *testing.T) {
	router, _ := newTestAPI(t)

	rec := router.do(t, http.MethodPost, "/api/import", ImportRequest{Data: "{not json"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// SCENARIO ENDPOINTS
// =============================================================================

func TestListScenarios(t *testing.T) {
	router, _ := newTestAPI(t)

	rec := router.do(t, http.MethodGet, "/api/scenarios", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	list := decodeBody[[]ScenarioDTO](t, rec)
	require.Len(t, list, 2)
	assert.Equal(t, "night-shoot", list[0].ID)
	assert.Equal(t, "legacy-import", list[1].ID)
}

func TestLoadNightShootScenario(t *testing.T) {
	router, _ := newTestAPI(t)

	rec := router.do(t, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "night-shoot"})
	require.Equal(t, http.StatusOK, rec.Code)

	doc := decodeBody[scouting.Document](t, rec)
	require.Len(t, doc.Projects, 1)
	assert.Equal(t, "Night Shoot", doc.Projects[0].Name)
	assert.Len(t, doc.Projects[0].Sets, 3)
	assert.Equal(t, "Marta Iglesias", doc.TechnicianProfile.FullName)

	rec = router.do(t, http.MethodGet, "/api/scenarios/current", nil)
	assert.Equal(t, map[string]string{"scenario_id": "night-shoot"}, decodeBody[map[string]string](t, rec))
}

func TestLoadLegacyImportScenarioRepairsOnRead(t *testing.T) {
	router, _ := newTestAPI(t)

	rec := router.do(t, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "legacy-import"})
	require.Equal(t, http.StatusOK, rec.Code)

	doc := decodeBody[scouting.Document](t, rec)
	require.Len(t, doc.Projects, 1)
	require.Len(t, doc.Projects[0].Sets, 1)

	set := doc.Projects[0].Sets[0]
	assert.Equal(t, "Lighthouse interior", set.Name)
	assert.Equal(t, scouting.StatusPending, set.Status)
	require.NotNil(t, set.Coords)
	assert.Equal(t, 43.385, set.Coords.Lat)
	assert.Equal(t, []string{"img://lighthouse/stairs"}, set.Photos)
	require.Len(t, set.LegacyPhotos, 1)
	assert.Equal(t, int64(204800), set.LegacyPhotos[0].FileSize)
}

func TestLoadUnknownScenario(t *testing.T) {
	router, _ := newTestAPI(t)

	rec := router.do(t, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "nope"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
