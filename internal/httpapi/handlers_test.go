package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wikireflex/reflex/internal/contract"
	"github.com/wikireflex/reflex/schema"
)

func newTestServer(store contract.Store) *Server {
	cfg := &schema.Config{ListenAddr: ":0", AllowOrigin: "*"}
	s := NewServer(cfg, store)
	s.now = func() time.Time {
		return time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	}
	return s
}

func doRequest(t *testing.T, s *Server, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHandleEdits(t *testing.T) {
	store := &contract.MockStore{}
	store.On("Edits", mock.Anything, mock.AnythingOfType("*schema.EditRequest")).
		Return([]schema.EditRow{{UserID: 7, UserName: "Alice", Edits: 3}}, nil).Once()

	rec, body := doRequest(t, newTestServer(store), "/api/getEdits?user=Alice")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "success", body["errorstatus"])
	assert.Equal(t, "Fetched 1 rows", body["message"])

	result := body["result"].([]any)
	require.Len(t, result, 1)
	row := result[0].(map[string]any)
	assert.Equal(t, "Alice", row["tu_name"])
	assert.Equal(t, float64(3), row["rc_edits"])
	// Ungrouped dimensions stay out of the payload entirely.
	assert.NotContains(t, row, "rc_page_id")
	store.AssertExpectations(t)
}

func TestHandleEditsAssessmentParam(t *testing.T) {
	store := &contract.MockStore{}
	store.On("Edits", mock.Anything, mock.MatchedBy(func(req *schema.EditRequest) bool {
		return req.Assessment
	})).Return([]schema.EditRow{{UserID: 7, UserName: "Alice", Edits: 3, Assessment: "B"}}, nil).Once()

	// assessment=1 fetches assessments even when the grouping key omits them.
	_, body := doRequest(t, newTestServer(store), "/api/getEdits?user=Alice&group=page|user&assessment=1")
	assert.Equal(t, "success", body["errorstatus"])

	result := body["result"].([]any)
	require.Len(t, result, 1)
	row := result[0].(map[string]any)
	assert.Equal(t, "B", row["pa_assessment"])
	store.AssertExpectations(t)
}

func TestHandleEditsMissingDimension(t *testing.T) {
	_, body := doRequest(t, newTestServer(&contract.MockStore{}), "/api/getEdits")
	assert.Equal(t, "fail", body["errorstatus"])
	assert.NotContains(t, body, "result")
}

func TestHandleRevertsRequiresUser(t *testing.T) {
	_, body := doRequest(t, newTestServer(&contract.MockStore{}), "/api/getReverts")
	assert.Equal(t, "fail", body["errorstatus"])
	assert.Equal(t, "'user' argument is required", body["message"])
}

func TestHandleProjects(t *testing.T) {
	store := &contract.MockStore{}
	store.On("Projects", mock.Anything, "Chess").
		Return([]schema.Project{{ID: 1, Title: "WikiProject_Chess", Created: "2007-03-01 00:00:00"}}, nil).Once()

	_, body := doRequest(t, newTestServer(store), "/api/getProjects?title=Chess")
	assert.Equal(t, "success", body["errorstatus"])
	assert.Equal(t, "Fetched 1 rows", body["message"])
	store.AssertExpectations(t)
}

func TestHandleProjectPages(t *testing.T) {
	store := &contract.MockStore{}
	store.On("ProjectPages", mock.Anything, mock.MatchedBy(func(req *schema.ProjectPagesRequest) bool {
		return req.PageID == 42
	})).Return([]schema.ProjectPage{{ID: 9, ProjectID: 42, Title: "Chess", Namespace: 0}}, nil).Once()

	_, body := doRequest(t, newTestServer(store), "/api/getProjectPages?pageid=42")
	assert.Equal(t, "success", body["errorstatus"])
	result := body["result"].(map[string]any)
	require.Contains(t, result, "42")
	assert.Len(t, result["42"].([]any), 1)

	_, body = doRequest(t, newTestServer(&contract.MockStore{}), "/api/getProjectPages")
	assert.Equal(t, "fail", body["errorstatus"])
	assert.Equal(t, "Must include either project or pageid argument", body["message"])
}

func TestHandleActiveProjectsCompress(t *testing.T) {
	store := &contract.MockStore{}
	store.On("LatestActivityWeek", mock.Anything).Return(int64(700), nil).Once()
	store.On("ProjectActivity", mock.Anything, mock.MatchedBy(func(req *schema.ActivityRequest) bool {
		return req.Week == 700 && !req.IncludePages
	})).Return([]schema.ActivityRow{
		{ProjectID: 1, ProjectTitle: "Chess", Created: "2007-03-01 00:00:00", Namespace: 0, Edits: 10, Pages: 4},
		{ProjectID: 1, ProjectTitle: "Chess", Created: "2007-03-01 00:00:00", Namespace: 4, Edits: 2, Pages: 1},
	}, nil).Once()

	_, body := doRequest(t, newTestServer(store), "/api/getActiveProjects?group=project|namespace&compress=project")
	assert.Equal(t, "success", body["errorstatus"])
	assert.Equal(t, "Fetched 1 projects", body["message"])

	result := body["result"].([]any)
	require.Len(t, result, 1)
	record := result[0].(map[string]any)
	assert.Equal(t, float64(12), record["total_edits"])
	assert.Equal(t, float64(1), record["total_project_pages"])
	assert.Equal(t, float64(10), record["0"])
	assert.Equal(t, float64(0), record["2600"])
	store.AssertExpectations(t)
}

func TestHandleActiveProjectPagesValidation(t *testing.T) {
	_, body := doRequest(t, newTestServer(&contract.MockStore{}), "/api/getActiveProjectPages")
	assert.Equal(t, "fail", body["errorstatus"])
	assert.Equal(t, "Either project or project_id is required", body["message"])
}

func TestHandleProjectMembers(t *testing.T) {
	store := &contract.MockStore{}
	store.On("ProjectPageIDs", mock.Anything, "WikiProject_Chess").Return([]int64{42}, nil).Once()
	store.On("LinkEvents", mock.Anything, []int64{42}, mock.AnythingOfType("int")).
		Return([]schema.LinkEvent{{
			PageID: 42, UserID: 7, UserName: "Alice", Week: 510,
			Timestamp: "2010-10-10 10:00:00", PageTitle: "WikiProject_Chess", PageNamespace: 4,
		}}, nil).Once()

	_, body := doRequest(t, newTestServer(store), "/api/getProjectMembers?project=WikiProject_Chess")
	assert.Equal(t, "success", body["errorstatus"])
	assert.Equal(t, "Fetched 1 members", body["message"])

	result := body["result"].(map[string]any)
	require.Contains(t, result, "Alice")
	pages := result["Alice"].(map[string]any)
	require.Contains(t, pages, "42")
	record := pages["42"].(map[string]any)
	assert.Equal(t, "current", record["member_to"])
	store.AssertExpectations(t)
}

func TestHandleAnonCoordsValidation(t *testing.T) {
	_, body := doRequest(t, newTestServer(&contract.MockStore{}), "/api/getAnonCoords?page=Chess")
	assert.Equal(t, "fail", body["errorstatus"])
	assert.Equal(t, "'page' and 'namespace' arguments are required.", body["message"])
}
