package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/server/models"
	"github.com/dmitrijs2005/portfolio/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----
// Each fake embeds its interface; calling an unstubbed method panics.

type fakeAuth struct {
	AuthService
	tokens   map[string]*models.Account
	loginRes *services.LoginResult
	loginErr error

	roleChecks int
}

func (f *fakeAuth) Verify(ctx context.Context, token string) (*models.Account, error) {
	if acc, ok := f.tokens[token]; ok {
		return acc, nil
	}
	return nil, common.ErrInvalidToken
}

func (f *fakeAuth) RequireRole(ctx context.Context, token, role string) (*models.Account, error) {
	f.roleChecks++
	acc, err := f.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	if acc.Role != role {
		return nil, fmt.Errorf("%w: %s role required", common.ErrForbidden, role)
	}
	return acc, nil
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (*services.LoginResult, error) {
	return f.loginRes, f.loginErr
}

func (f *fakeAuth) Profile(ctx context.Context, accountID string) (*models.Account, error) {
	for _, acc := range f.tokens {
		if acc.ID == accountID {
			return acc, nil
		}
	}
	return nil, common.ErrAccountNotFound
}

type fakeBlobs struct {
	BlobService
	uploaded  *services.UploadInput
	uploadErr error
	content   *models.AssetContent
	fetchErr  error
	active    *models.Asset
	activeErr error
	deleteErr error
	page      *models.Page[models.Asset]
}

func (f *fakeBlobs) Upload(ctx context.Context, in services.UploadInput) (*models.Asset, error) {
	f.uploaded = &in
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return &models.Asset{ID: "a1", Kind: in.Kind, MimeType: in.MimeType, Size: int64(len(in.Data))}, nil
}

func (f *fakeBlobs) Fetch(ctx context.Context, kind models.AssetKind, id string) (*models.AssetContent, error) {
	return f.content, f.fetchErr
}

func (f *fakeBlobs) FetchActiveResume(ctx context.Context) (*models.AssetContent, error) {
	return f.content, f.fetchErr
}

func (f *fakeBlobs) ActiveResume(ctx context.Context) (*models.Asset, error) {
	return f.active, f.activeErr
}

func (f *fakeBlobs) SoftDelete(ctx context.Context, imageID string) error {
	return f.deleteErr
}

func (f *fakeBlobs) List(ctx context.Context, kind models.AssetKind, filter models.AssetFilter, page, pageSize int) (*models.Page[models.Asset], error) {
	return f.page, nil
}

type fakeProjects struct {
	ProjectService
	items     []models.Project
	filter    models.ProjectFilter
	createErr error
}

func (f *fakeProjects) List(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error) {
	f.filter = filter
	return f.items, nil
}

func (f *fakeProjects) Create(ctx context.Context, in services.ProjectInput) (*models.Project, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Project{ID: "p1", Title: in.Title}, nil
}

type fakeContacts struct {
	ContactService
	client services.Client
}

func (f *fakeContacts) Submit(ctx context.Context, in services.ContactInput, client services.Client) (*models.Contact, error) {
	f.client = client
	return &models.Contact{ID: "c1", CreatedAt: time.Now()}, nil
}

type fakeDashboard struct {
	DashboardService
}

func (fakeDashboard) Health(ctx context.Context) *services.HealthReport {
	return &services.HealthReport{Status: "unhealthy", Database: "disconnected"}
}

// ---- helpers ----

var (
	admin  = &models.Account{ID: "u-admin", Email: "admin@example.com", Role: models.RoleAdmin, IsActive: true}
	viewer = &models.Account{ID: "u-user", Email: "user@example.com", Role: models.RoleUser, IsActive: true}
)

type testAPI struct {
	*API
	auth      *fakeAuth
	blobs     *fakeBlobs
	projects  *fakeProjects
	contacts  *fakeContacts
	dashboard *fakeDashboard
}

func newTestAPI() *testAPI {
	t := &testAPI{
		API:       NewAPI(logging.Nop{}),
		auth:      &fakeAuth{tokens: map[string]*models.Account{"admin-token": admin, "user-token": viewer}},
		blobs:     &fakeBlobs{},
		projects:  &fakeProjects{},
		contacts:  &fakeContacts{},
		dashboard: &fakeDashboard{},
	}
	t.Auth = t.auth
	t.Blobs = t.blobs
	t.Projects = t.projects
	t.Contacts = t.contacts
	t.Dashboard = t.dashboard
	t.Environment = "test"
	return t
}

func do(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, target, token string, body any) *http.Request {
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func multipartRequest(t *testing.T, target, token, field, filename string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

// ---- tests ----

func TestHealth(t *testing.T) {
	api := newTestAPI()

	rec := do(t, api.Routes(), httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "test", body["environment"])
}

func TestUnknownRoute_Returns404(t *testing.T) {
	api := newTestAPI()

	rec := do(t, api.Routes(), httptest.NewRequest(http.MethodGet, "/api/nope", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route /api/nope not found", decodeBody(t, rec)["error"])
}

func TestAdminRoutes_Gating(t *testing.T) {
	api := newTestAPI()
	api.blobs.page = models.NewPage([]models.Asset{}, 0, 1, 10)
	h := api.Routes()

	tests := []struct {
		name   string
		header string
		want   int
		msg    string
	}{
		{"no header", "", http.StatusUnauthorized, "No token provided"},
		{"not bearer", "Basic abc", http.StatusUnauthorized, "No token provided"},
		{"unknown token", "Bearer bogus", http.StatusUnauthorized, "Invalid token"},
		{"user role", "Bearer user-token", http.StatusForbidden, "Access denied"},
		{"admin", "Bearer admin-token", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/images/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := do(t, h, req)
			require.Equal(t, tt.want, rec.Code)
			body := decodeBody(t, rec)
			if tt.msg != "" {
				assert.Equal(t, tt.msg, body["error"])
				assert.Equal(t, false, body["success"])
			} else {
				assert.Equal(t, true, body["success"])
			}
		})
	}
}

func TestAdminGate_UsesRoleCheck(t *testing.T) {
	api := newTestAPI()
	api.blobs.page = models.NewPage([]models.Asset{}, 0, 1, 10)
	h := api.Routes()

	rec := do(t, h, jsonRequest(http.MethodGet, "/api/images/", "admin-token", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, api.auth.roleChecks)

	rec = do(t, h, jsonRequest(http.MethodPost, "/api/auth/register", "user-token", map[string]string{"email": "x@y.io"}))
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, 2, api.auth.roleChecks)

	rec = do(t, h, jsonRequest(http.MethodGet, "/api/auth/profile", "user-token", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, api.auth.roleChecks)
}

func TestLogin(t *testing.T) {
	api := newTestAPI()
	api.auth.loginRes = &services.LoginResult{Token: "tok", Account: admin}

	rec := do(t, api.Routes(), jsonRequest(http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": "admin@example.com", "password": "secret1"}))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Login successful", body["message"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "tok", data["token"])
	assert.Equal(t, "admin@example.com", data["user"].(map[string]any)["email"])
}

func TestLogin_LockedAccount(t *testing.T) {
	api := newTestAPI()
	api.auth.loginErr = common.ErrAccountLocked

	rec := do(t, api.Routes(), jsonRequest(http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": "admin@example.com", "password": "x"}))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "locked")
}

func TestLogin_EmptyBody(t *testing.T) {
	api := newTestAPI()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", http.NoBody)
	rec := do(t, api.Routes(), req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Validation failed", body["error"])
	assert.Equal(t, "is required", body["details"].(map[string]any)["body"])
}

func TestProfile_UsesAuthenticatedAccount(t *testing.T) {
	api := newTestAPI()

	rec := do(t, api.Routes(), jsonRequest(http.MethodGet, "/api/auth/profile", "user-token", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user@example.com", decodeBody(t, rec)["data"].(map[string]any)["email"])
}

func TestLogout(t *testing.T) {
	api := newTestAPI()

	rec := do(t, api.Routes(), jsonRequest(http.MethodPost, "/api/auth/logout", "", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logout successful", decodeBody(t, rec)["message"])
}

func TestGetImage_SetsCacheHeaders(t *testing.T) {
	api := newTestAPI()
	api.blobs.content = &models.AssetContent{
		Asset: &models.Asset{ID: "img-1", MimeType: "image/png"},
		Data:  pngHeader,
	}

	rec := do(t, api.Routes(), httptest.NewRequest(http.MethodGet, "/api/images/img-1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, fmt.Sprint(len(pngHeader)), rec.Header().Get("Content-Length"))
	assert.Equal(t, "public, max-age=31536000", rec.Header().Get("Cache-Control"))
	assert.Equal(t, `"img-1"`, rec.Header().Get("ETag"))
	assert.Equal(t, pngHeader, rec.Body.Bytes())
}

func TestGetImage_NotFound(t *testing.T) {
	api := newTestAPI()
	api.blobs.fetchErr = common.ErrorNotFound

	rec := do(t, api.Routes(), httptest.NewRequest(http.MethodGet, "/api/images/gone", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadImage_DetectsMimeType(t *testing.T) {
	api := newTestAPI()

	rec := do(t, api.Routes(), multipartRequest(t, "/api/images/upload", "admin-token", "image", "logo.png", pngHeader))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NotNil(t, api.blobs.uploaded)
	assert.Equal(t, "image/png", api.blobs.uploaded.MimeType)
	assert.Equal(t, "logo.png", api.blobs.uploaded.OriginalName)
	assert.Equal(t, admin.ID, api.blobs.uploaded.UploadedBy)
	assert.Equal(t, pngHeader, api.blobs.uploaded.Data)
}

func TestUploadImage_MissingField(t *testing.T) {
	api := newTestAPI()

	rec := do(t, api.Routes(), multipartRequest(t, "/api/images/upload", "admin-token", "file", "logo.png", pngHeader))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, api.blobs.uploaded)
	assert.Equal(t, "no file uploaded", decodeBody(t, rec)["details"].(map[string]any)["image"])
}

func TestUploadImage_TooLarge(t *testing.T) {
	api := newTestAPI()
	big := bytes.Repeat([]byte{0}, 7<<20)

	rec := do(t, api.Routes(), multipartRequest(t, "/api/images/upload", "admin-token", "image", "big.png", big))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, api.blobs.uploaded)
}

func TestUploadImage_ServiceValidation(t *testing.T) {
	api := newTestAPI()
	api.blobs.uploadErr = &services.ValidationError{Violations: map[string]string{"mimeType": "not allowed"}}

	rec := do(t, api.Routes(), multipartRequest(t, "/api/images/upload", "admin-token", "image", "a.txt", []byte("hello")))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "not allowed", decodeBody(t, rec)["details"].(map[string]any)["mimeType"])
}

func TestDeleteImage_Conflict(t *testing.T) {
	api := newTestAPI()
	api.blobs.deleteErr = fmt.Errorf("%w: image is used by a project", common.ErrConflict)

	rec := do(t, api.Routes(), jsonRequest(http.MethodDelete, "/api/images/img-1", "admin-token", nil))

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "image is used by a project", decodeBody(t, rec)["error"])
}

func TestListImages_Pagination(t *testing.T) {
	api := newTestAPI()
	api.blobs.page = models.NewPage([]models.Asset{{ID: "a"}, {ID: "b"}}, 12, 2, 5)

	rec := do(t, api.Routes(), jsonRequest(http.MethodGet, "/api/images/?page=2&limit=5", "admin-token", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Len(t, body["data"], 2)
	p := body["pagination"].(map[string]any)
	assert.EqualValues(t, 2, p["page"])
	assert.EqualValues(t, 5, p["limit"])
	assert.EqualValues(t, 12, p["total"])
	assert.EqualValues(t, 3, p["totalPages"])
	assert.Equal(t, true, p["hasNext"])
	assert.Equal(t, true, p["hasPrev"])
}

func TestResumeInfo_NoActiveResume(t *testing.T) {
	api := newTestAPI()
	api.blobs.activeErr = common.ErrorNotFound

	rec := do(t, api.Routes(), httptest.NewRequest(http.MethodGet, "/api/resume/info", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body, "data")
	assert.Nil(t, body["data"])
}

func TestDownloadActiveResume_Attachment(t *testing.T) {
	api := newTestAPI()
	api.blobs.content = &models.AssetContent{
		Asset: &models.Asset{ID: "r1", MimeType: "application/pdf", OriginalName: "cv.pdf"},
		Data:  []byte("%PDF-1.4"),
	}

	rec := do(t, api.Routes(), httptest.NewRequest(http.MethodGet, "/api/resume/download", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=cv.pdf", rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "%PDF-1.4", rec.Body.String())
}

func TestListProjects_QueryAndCount(t *testing.T) {
	api := newTestAPI()
	api.projects.items = []models.Project{{ID: "p1"}, {ID: "p2"}}

	rec := do(t, api.Routes(), httptest.NewRequest(http.MethodGet, "/api/projects/?featured=true&limit=3&status=all", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.ProjectFilter{Status: "all", FeaturedOnly: true, Limit: 3}, api.projects.filter)
	body := decodeBody(t, rec)
	assert.EqualValues(t, 2, body["count"])
}

func TestCreateProject_RequiresAdmin(t *testing.T) {
	api := newTestAPI()

	rec := do(t, api.Routes(), jsonRequest(http.MethodPost, "/api/projects/", "user-token",
		map[string]any{"title": "Portfolio"}))

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateProject_ValidationDetails(t *testing.T) {
	api := newTestAPI()
	api.projects.createErr = &services.ValidationError{Violations: map[string]string{"title": "is required"}}

	rec := do(t, api.Routes(), jsonRequest(http.MethodPost, "/api/projects/", "admin-token", map[string]any{}))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "is required", decodeBody(t, rec)["details"].(map[string]any)["title"])
}

func TestSubmitContact_RecordsClient(t *testing.T) {
	api := newTestAPI()

	req := jsonRequest(http.MethodPost, "/api/contact/", "", map[string]string{"firstName": "Ada"})
	req.Header.Set("X-Real-IP", "203.0.113.7")
	req.Header.Set("User-Agent", "test-agent")
	rec := do(t, api.Routes(), req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, services.Client{IP: "203.0.113.7", UserAgent: "test-agent"}, api.contacts.client)
}

func TestDashboardHealth_AlwaysOK(t *testing.T) {
	api := newTestAPI()

	rec := do(t, api.Routes(), jsonRequest(http.MethodGet, "/api/dashboard/health", "admin-token", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "unhealthy", decodeBody(t, rec)["data"].(map[string]any)["status"])
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&services.ValidationError{Violations: map[string]string{"a": "b"}}, http.StatusBadRequest},
		{common.ErrInvalidCredentials, http.StatusUnauthorized},
		{common.ErrAccountNotFound, http.StatusUnauthorized},
		{common.ErrTokenExpired, http.StatusUnauthorized},
		{fmt.Errorf("%w: admin", common.ErrForbidden), http.StatusForbidden},
		{fmt.Errorf("db error: %w", common.ErrorNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: email already registered", common.ErrConflict), http.StatusConflict},
		{context.DeadlineExceeded, http.StatusServiceUnavailable},
		{common.ErrUnavailable, http.StatusServiceUnavailable},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			got, _ := errorStatus(tt.err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConflictMessage(t *testing.T) {
	assert.Equal(t, "email already registered",
		conflictMessage(fmt.Errorf("%w: email already registered", common.ErrConflict)))
	assert.Equal(t, "Conflict", conflictMessage(common.ErrConflict))
}
