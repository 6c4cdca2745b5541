package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vihaanharrison/portfolio-backend/database"
	"github.com/vihaanharrison/portfolio-backend/models"
	"github.com/vihaanharrison/portfolio-backend/services"
)

type stubExtractor struct {
	entries []services.Entry
	err     error
}

func (s stubExtractor) Extract(ctx context.Context, content string) ([]services.Entry, error) {
	return s.entries, s.err
}

type stubUploader struct{}

func (stubUploader) Upload(ctx context.Context, file services.File) (string, error) {
	return "https://cdn.test/" + file.Name, nil
}

type testEnv struct {
	server *httptest.Server
	db     database.Database
	auth   *services.AuthService
}

func newTestEnv(t *testing.T, extractor services.Extractor) testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	currentDB := database.New(db)

	cfg := map[string]string{
		"ADMIN_ALLOWED_EMAILS":    "owner@example.com",
		"ADMIN_FALLBACK_PASSWORD": "fallback-secret",
		"ADMIN_ACCESS_CODE":       "open-sesame",
		"JWT_SECRET":              "test-signing-key",
	}
	auth, err := services.NewAuthService(currentDB, cfg)
	require.NoError(t, err)

	router := newRouter(currentDB, auth, extractor, stubUploader{}, withConfig(cfg), withStartupTime(time.Now()))
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return testEnv{server: server, db: currentDB, auth: auth}
}

func (e testEnv) request(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// adminToken signs in as the allow-listed owner and returns a bearer token.
func (e testEnv) adminToken(t *testing.T) string {
	t.Helper()

	resp := e.request(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "owner@example.com",
		"password": "fallback-secret",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

// nonAdminToken creates an account outside the allow-list and issues a
// token for it directly, bypassing sign-in.
func (e testEnv) nonAdminToken(t *testing.T) string {
	t.Helper()

	account := &models.Account{ID: uuid.New(), Email: "visitor@example.com", CreatedAt: time.Now()}
	require.NoError(t, account.SetPassword("pw"))
	require.NoError(t, e.db.AccountRepo().Add(account))

	token, err := e.auth.IssueToken(account)
	require.NoError(t, err)
	return token
}

func TestLoginRefusesDisallowedEmail(t *testing.T) {
	env := newTestEnv(t, stubExtractor{})

	resp := env.request(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "stranger@example.com",
		"password": "fallback-secret",
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t, stubExtractor{})
	env.adminToken(t) // provisions the account

	resp := env.request(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "owner@example.com",
		"password": "wrong",
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMeReflectsRoleTable(t *testing.T) {
	env := newTestEnv(t, stubExtractor{})
	token := env.adminToken(t)

	resp := env.request(t, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "owner@example.com", body["email"])
	assert.Equal(t, true, body["is_admin"])

	visitor := env.nonAdminToken(t)
	resp = env.request(t, http.MethodGet, "/auth/me", visitor, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, false, body["is_admin"])
}

func TestAccessCodeSignIn(t *testing.T) {
	env := newTestEnv(t, stubExtractor{})

	resp := env.request(t, http.MethodPost, "/auth/access-code", "", map[string]string{"code": "wrong"})
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.request(t, http.MethodPost, "/auth/access-code", "", map[string]string{"code": "open-sesame"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "owner@example.com", body["email"])
	assert.NotEmpty(t, body["token"])
}

func TestManageProjectsRequiresIdentityThenRole(t *testing.T) {
	env := newTestEnv(t, stubExtractor{})
	payload := map[string]interface{}{"action": "create", "projectData": map[string]string{"title": "X"}}

	// No token at all.
	resp := env.request(t, http.MethodPost, "/manage/projects", "", payload)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Authenticated but not an admin.
	resp = env.request(t, http.MethodPost, "/manage/projects", env.nonAdminToken(t), payload)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestManageProjectsUnknownAction(t *testing.T) {
	env := newTestEnv(t, stubExtractor{})
	token := env.adminToken(t)

	resp := env.request(t, http.MethodPost, "/manage/projects", token, map[string]string{"action": "explode"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
	body := decodeBody(t, resp)
	assert.Equal(t, false, body["success"])
}

func TestManageProjectsCreateUpdateDelete(t *testing.T) {
	env := newTestEnv(t, stubExtractor{})
	token := env.adminToken(t)

	resp := env.request(t, http.MethodPost, "/manage/projects", token, map[string]interface{}{
		"action": "create",
		"projectData": map[string]interface{}{
			"title":       "Portfolio site",
			"category":    models.CategoryTechnology,
			"description": "Built this site",
			"start_date":  "2024-01-01",
			"tags":        []string{"go", "chi"},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	require.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	projectID := data["id"].(string)
	assert.Equal(t, []interface{}{"go", "chi"}, data["tags"])

	// Update swaps the tags and title.
	resp = env.request(t, http.MethodPost, "/manage/projects", token, map[string]interface{}{
		"action":    "update",
		"projectId": projectID,
		"projectData": map[string]interface{}{
			"title":       "Portfolio site v2",
			"category":    models.CategoryTechnology,
			"description": "Rebuilt it",
			"start_date":  "2024-01-01",
			"tags":        []string{"go"},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, "Portfolio site v2", data["title"])
	assert.Equal(t, []interface{}{"go"}, data["tags"])

	// Delete, then the public read no longer sees it.
	resp = env.request(t, http.MethodPost, "/manage/projects", token, map[string]interface{}{
		"action":    "delete",
		"projectId": projectID,
	})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/projects/"+projectID, "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestToggleFeaturedEnforcesCap(t *testing.T) {
	env := newTestEnv(t, stubExtractor{})
	token := env.adminToken(t)
	projects := env.db.ProjectRepo()

	for i := 0; i < models.MaxFeaturedProjects; i++ {
		require.NoError(t, projects.Add(&models.Project{
			ID:          uuid.New(),
			Title:       fmt.Sprintf("featured %d", i),
			Category:    models.CategoryTechnology,
			Description: "d",
			StartDate:   "2024-01-01",
			IsFeatured:  true,
		}))
	}
	seventh := &models.Project{
		ID:          uuid.New(),
		Title:       "the seventh",
		Category:    models.CategoryTechnology,
		Description: "d",
		StartDate:   "2024-01-01",
	}
	require.NoError(t, projects.Add(seventh))

	resp := env.request(t, http.MethodPost, "/manage/projects", token, map[string]interface{}{
		"action":    "toggleFeatured",
		"projectId": seventh.ID.String(),
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Maximum 6 featured projects allowed", body["error"])

	// The flag was left untouched.
	found, err := projects.FindByID(seventh.ID)
	require.NoError(t, err)
	assert.False(t, found.IsFeatured)

	// Unfeaturing one makes room; the toggle then succeeds.
	all, err := projects.FindFiltered(database.ProjectFilter{FeaturedOnly: true})
	require.NoError(t, err)
	require.NoError(t, projects.SetFeatured(all[0].ID, false))

	resp = env.request(t, http.MethodPost, "/manage/projects", token, map[string]interface{}{
		"action":    "toggleFeatured",
		"projectId": seventh.ID.String(),
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestManageActivities(t *testing.T) {
	env := newTestEnv(t, stubExtractor{})
	token := env.adminToken(t)

	resp := env.request(t, http.MethodPost, "/manage/activities", token, map[string]interface{}{
		"action": "create",
		"activityData": map[string]interface{}{
			"title":       "Started university",
			"category":    "Education",
			"description": "d",
			"start_date":  "2024-09-01",
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	require.Equal(t, true, body["success"])

	resp = env.request(t, http.MethodGet, "/activities?category=Education", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	listBody := decodeBody(t, resp)
	assert.Equal(t, float64(1), listBody["total"])
}

func TestProcessContent(t *testing.T) {
	env := newTestEnv(t, stubExtractor{entries: []services.Entry{
		{Title: "Extracted", Category: models.CategoryTechnology, Description: "d"},
	}})
	token := env.adminToken(t)

	resp := env.request(t, http.MethodPost, "/process-content", token, map[string]string{"content": "   "})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.request(t, http.MethodPost, "/process-content", token, map[string]string{"content": "my resume"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	projects := body["projects"].([]interface{})
	require.Len(t, projects, 1)
	assert.Equal(t, "Extracted", projects[0].(map[string]interface{})["title"])
}

func TestUploadsValidatePerFile(t *testing.T) {
	env := newTestEnv(t, stubExtractor{})
	token := env.adminToken(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {`form-data; name="files"; filename="ok.png"`},
		"Content-Type":        {"image/png"},
	})
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte{1}, 64))
	require.NoError(t, err)

	part, err = writer.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {`form-data; name="files"; filename="notes.txt"`},
		"Content-Type":        {"text/plain"},
	})
	require.NoError(t, err)
	_, err = part.Write([]byte("not an image"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/uploads", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	urls := body["urls"].([]interface{})
	require.Len(t, urls, 1)
	assert.Equal(t, "https://cdn.test/ok.png", urls[0])

	rejected := body["rejected"].([]interface{})
	require.Len(t, rejected, 1)
	assert.Equal(t, "notes.txt", rejected[0].(map[string]interface{})["name"])
}

func TestImportSessionFlow(t *testing.T) {
	env := newTestEnv(t, stubExtractor{entries: []services.Entry{
		{Title: "Imported", Category: models.CategoryTechnology, Description: "d", StartDate: "2024-02-01"},
	}})
	token := env.adminToken(t)

	resp := env.request(t, http.MethodPost, "/import/sessions", token, map[string]interface{}{
		"content": "resume text",
		"is_work": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "review", body["step"])
	sessionID := body["id"].(string)

	resp = env.request(t, http.MethodPost, "/import/sessions/"+sessionID+"/details", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, "details", body["step"])

	resp = env.request(t, http.MethodPost, "/import/sessions/"+sessionID+"/skip", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, "complete", body["step"])
	assert.Equal(t, "Saved 1 project(s) to Work", body["summary"])

	// The imported project landed in storage.
	all, err := env.db.ProjectRepo().FindAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Imported", all[0].Title)
	assert.True(t, all[0].IsWork)
	assert.Equal(t, "2024-02-01", all[0].StartDate)
}

func TestImportSessionRequiresAdmin(t *testing.T) {
	env := newTestEnv(t, stubExtractor{})

	resp := env.request(t, http.MethodPost, "/import/sessions", env.nonAdminToken(t), map[string]string{"content": "x"})
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestPublicReadsNeedNoAuth(t *testing.T) {
	env := newTestEnv(t, stubExtractor{})

	resp := env.request(t, http.MethodGet, "/projects", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, float64(0), body["total"])

	resp = env.request(t, http.MethodGet, "/activities", "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
