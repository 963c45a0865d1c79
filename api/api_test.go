package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/database/databasetest"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
)

const (
	testUsername = "admin"
	testPassword = "correct-horse-battery"
)

type testEnv struct {
	router http.Handler
	db     database.Database
	userID uuid.UUID
}

type fakeNotifier struct {
	calls []models.ContactMessage
	err   error
}

func (f *fakeNotifier) NotifyContact(ctx context.Context, msg models.ContactMessage) error {
	f.calls = append(f.calls, msg)
	return f.err
}

type fakeImages struct {
	filename    string
	contentType string
	body        []byte
}

func (f *fakeImages) Put(ctx context.Context, filename, contentType string, body io.Reader) (services.StoredImage, error) {
	f.filename = filename
	f.contentType = contentType
	f.body, _ = io.ReadAll(body)
	return services.StoredImage{Key: "portfolio/abc.png", URL: "https://cdn.example.com/portfolio/abc.png"}, nil
}

func newTestEnv(t *testing.T, opts ...func(*Dependencies)) testEnv {
	t.Helper()

	db := database.New(databasetest.New(t))
	tokens, err := auth.NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)

	authService := services.NewAdminAuthService(db.AdminUserRepo(), tokens)
	_, err = authService.SeedAdmin(context.Background(), services.SeedInput{
		Username: testUsername,
		Email:    "admin@example.com",
		Password: testPassword,
	})
	require.NoError(t, err)
	user, err := db.AdminUserRepo().FindByUsername(context.Background(), testUsername)
	require.NoError(t, err)

	deps := Dependencies{
		Config:     config.Config{Environment: config.EnvDevelopment},
		Database:   db,
		Sessions:   tokens,
		Auth:       authService,
		SessionTTL: tokens.TTL(),
	}
	for _, opt := range opts {
		opt(&deps)
	}

	router, err := newRouter(deps)
	require.NoError(t, err)
	return testEnv{router: router, db: db, userID: user.ID}
}

type requestOption func(*http.Request)

func withBearer(token string) requestOption {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func withCookie(token string) requestOption {
	return func(r *http.Request) { r.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token}) }
}

func (e testEnv) do(t *testing.T, method, path string, body any, opts ...requestOption) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e testEnv) login(t *testing.T) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/admin/auth/login", loginRequest{Username: testUsername, Password: testPassword})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestLoginThenMe(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/admin/auth/login", loginRequest{Username: testUsername, Password: testPassword})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[loginResponse](t, rec)
	assert.Equal(t, "Login successful", resp.Message)
	assert.Equal(t, env.userID, resp.User.ID)
	assert.Equal(t, testUsername, resp.User.Username)
	assert.NotContains(t, rec.Body.String(), "password")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, sessionCookieName, cookie.Name)
	assert.Equal(t, resp.Token, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, int(time.Hour.Seconds()), cookie.MaxAge)
	assert.False(t, cookie.Secure)

	me := env.do(t, http.MethodGet, "/api/admin/auth/me", nil, withCookie(resp.Token))
	require.Equal(t, http.StatusOK, me.Code)
	assert.Equal(t, env.userID, decode[meResponse](t, me).User.ID)

	stored, err := env.db.AdminUserRepo().FindByID(context.Background(), env.userID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLogin)
}

func TestLoginCookieSecureInProduction(t *testing.T) {
	env := newTestEnv(t, func(d *Dependencies) { d.Config.Environment = config.EnvProduction })

	rec := env.do(t, http.MethodPost, "/api/admin/auth/login", loginRequest{Username: testUsername, Password: testPassword})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, rec.Result().Cookies(), 1)
	assert.True(t, rec.Result().Cookies()[0].Secure)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	env := newTestEnv(t)

	var bodies []string
	for i := 0; i < 3; i++ {
		rec := env.do(t, http.MethodPost, "/api/admin/auth/login", loginRequest{Username: testUsername, Password: "wrong-password"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, rec.Result().Cookies())
		bodies = append(bodies, rec.Body.String())
	}
	unknown := env.do(t, http.MethodPost, "/api/admin/auth/login", loginRequest{Username: "nobody", Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	bodies = append(bodies, unknown.Body.String())

	for _, body := range bodies[1:] {
		assert.Equal(t, bodies[0], body)
	}
	assert.Equal(t, "invalid credentials", decode[ErrorResponse](t, unknown).Error)
}

func TestLoginRequiresBothFields(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/admin/auth/login", loginRequest{Username: testUsername})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/admin/auth/login", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/admin/auth/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logout successful", decode[messageResponse](t, rec).Message)

	setCookie := rec.Header().Get("Set-Cookie")
	assert.Contains(t, setCookie, sessionCookieName+"=;")
	assert.Contains(t, setCookie, "Max-Age=0")
	assert.Contains(t, setCookie, "HttpOnly")
}

func TestSessionTokenSources(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/api/admin/stats", nil).Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/admin/stats", nil, withBearer(token)).Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/admin/stats", nil, withCookie(token)).Code)

	// The header wins over the cookie.
	assert.Equal(t, http.StatusOK,
		env.do(t, http.MethodGet, "/api/admin/stats", nil, withBearer(token), withCookie("garbage")).Code)
	assert.Equal(t, http.StatusUnauthorized,
		env.do(t, http.MethodGet, "/api/admin/stats", nil, withBearer("garbage"), withCookie(token)).Code)

	rec := env.do(t, http.MethodGet, "/api/admin/projects", nil, withCookie("garbage"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decode[ErrorResponse](t, rec).Error)
}

func TestProjectCRUD(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	rec := env.do(t, http.MethodPost, "/api/admin/projects", map[string]any{
		"id":           "00000000-0000-0000-0000-000000000001",
		"title":        "Portfolio",
		"description":  "Personal site",
		"category":     models.CategoryFullStack,
		"technologies": []string{"React", "Node", "AWS"},
		"featured":     true,
	}, withBearer(token))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[createdResponse](t, rec)
	assert.Equal(t, "Project created successfully", created.Message)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000001", created.ID)

	rec = env.do(t, http.MethodGet, "/api/admin/projects/"+created.ID, nil, withBearer(token))
	require.Equal(t, http.StatusOK, rec.Code)
	before := decode[models.Project](t, rec)
	assert.Equal(t, "Portfolio", before.Title)

	time.Sleep(10 * time.Millisecond)
	rec = env.do(t, http.MethodPut, "/api/admin/projects/"+created.ID, map[string]any{"title": "Portfolio v2"}, withBearer(token))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Project updated successfully", decode[messageResponse](t, rec).Message)

	rec = env.do(t, http.MethodGet, "/api/admin/projects/"+created.ID, nil, withBearer(token))
	after := decode[models.Project](t, rec)
	assert.Equal(t, "Portfolio v2", after.Title)
	assert.Equal(t, "Personal site", after.Description)
	assert.Equal(t, []string{"React", "Node", "AWS"}, []string(after.Technologies))
	assert.True(t, after.CreatedAt.Equal(before.CreatedAt))
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))

	rec = env.do(t, http.MethodGet, "/api/projects", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	public := decode[map[string][]models.Project](t, rec)["projects"]
	require.Len(t, public, 1)
	assert.Equal(t, []string{"React", "Node", "AWS"}, []string(public[0].Technologies))

	rec = env.do(t, http.MethodDelete, "/api/admin/projects/"+created.ID, nil, withBearer(token))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Project deleted successfully", decode[messageResponse](t, rec).Message)

	rec = env.do(t, http.MethodDelete, "/api/admin/projects/"+created.ID, nil, withBearer(token))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "project not found", decode[ErrorResponse](t, rec).Error)
}

func TestContentIdentifiers(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	missing := uuid.NewString()
	for _, path := range []string{"/api/admin/projects/", "/api/admin/certificates/", "/api/admin/skills/"} {
		assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, path+missing, nil, withBearer(token)).Code, path)
		assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, path+"not-a-uuid", nil, withBearer(token)).Code, path)
		assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPut, path+"not-a-uuid", map[string]any{}, withBearer(token)).Code, path)
		assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodDelete, path+"not-a-uuid", nil, withBearer(token)).Code, path)
		assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, path+missing, nil, withBearer(token)).Code, path)
		assert.Equal(t, http.StatusNotFound,
			env.do(t, http.MethodPut, path+missing, map[string]any{"title": "x"}, withBearer(token)).Code, path)
	}
}

func TestProjectValidation(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	rec := env.do(t, http.MethodPost, "/api/admin/projects", map[string]any{
		"title": "Portfolio", "description": "Site", "category": "Blockchain",
	}, withBearer(token))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "category", decode[ErrorResponse](t, rec).Field)

	rec = env.do(t, http.MethodPost, "/api/admin/projects", map[string]any{
		"description": "Site", "category": models.CategoryBackend,
	}, withBearer(token))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "title", decode[ErrorResponse](t, rec).Field)
}

func TestCertificateCRUD(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	rec := env.do(t, http.MethodPost, "/api/admin/certificates", map[string]any{
		"title":  "AWS Solutions Architect",
		"issuer": "Amazon",
		"skills": []string{"EC2", "S3"},
	}, withBearer(token))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decode[createdResponse](t, rec).ID

	rec = env.do(t, http.MethodGet, "/api/certifications", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	certs := decode[map[string][]models.Certificate](t, rec)["certificates"]
	require.Len(t, certs, 1)
	assert.Equal(t, id, certs[0].ID.String())

	rec = env.do(t, http.MethodPost, "/api/admin/certificates", map[string]any{"title": "No issuer"}, withBearer(token))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSkillValidation(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	valid := map[string]any{
		"category": "Backend",
		"icon":     models.IconServer,
		"skills":   []map[string]any{{"name": "Go", "level": 90}},
	}
	rec := env.do(t, http.MethodPost, "/api/admin/skills", valid, withBearer(token))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decode[createdResponse](t, rec).ID

	rec = env.do(t, http.MethodPut, "/api/admin/skills/"+id, map[string]any{"skills": []any{}}, withBearer(token))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "skills", decode[ErrorResponse](t, rec).Field)

	cases := map[string]map[string]any{
		"empty skills": {"category": "Backend", "icon": models.IconServer, "skills": []any{}},
		"level zero":   {"category": "Backend", "icon": models.IconServer, "skills": []map[string]any{{"name": "Go", "level": 0}}},
		"level 101":    {"category": "Backend", "icon": models.IconServer, "skills": []map[string]any{{"name": "Go", "level": 101}}},
		"unknown icon": {"category": "Backend", "icon": "Rocket", "skills": []map[string]any{{"name": "Go", "level": 50}}},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/admin/skills", body, withBearer(token))
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}

	rec = env.do(t, http.MethodPost, "/api/admin/skills", cases["level zero"], withBearer(token))
	assert.Equal(t, "skills[0].level", decode[ErrorResponse](t, rec).Field)

	rec = env.do(t, http.MethodGet, "/api/skills", nil)
	assert.Len(t, decode[map[string][]models.SkillCategory](t, rec)["skills"], 1)
}

func TestContactFlow(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New("resend down")}
	env := newTestEnv(t, func(d *Dependencies) { d.Notifier = notifier })

	rec := env.do(t, http.MethodPost, "/api/contact", map[string]any{
		"name": "Ann", "email": "ann@x.com", "subject": "Hi", "message": "Hello",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[createdResponse](t, rec)
	assert.Equal(t, "Message sent successfully", created.Message)
	require.Len(t, notifier.calls, 1)
	assert.Equal(t, "Ann", notifier.calls[0].Name)

	rec = env.do(t, http.MethodPost, "/api/contact", map[string]any{"name": "Ann", "email": "ann@x.com", "subject": "Hi"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "message", decode[ErrorResponse](t, rec).Field)

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/api/admin/contact", nil).Code)

	token := env.login(t)
	rec = env.do(t, http.MethodGet, "/api/admin/contact", nil, withBearer(token))
	require.Equal(t, http.StatusOK, rec.Code)
	contacts := decode[map[string][]models.ContactMessage](t, rec)["contacts"]
	require.Len(t, contacts, 1)
	assert.Equal(t, created.ID, contacts[0].ID.String())
	assert.Equal(t, "Hello", contacts[0].Message)

	rec = env.do(t, http.MethodDelete, "/api/admin/contact/"+created.ID, nil, withBearer(token))
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodDelete, "/api/admin/contact/"+created.ID, nil, withBearer(token))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStats(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)
	ctx := context.Background()

	require.NoError(t, env.db.ProjectRepo().Add(ctx, &models.Project{Title: "a", Description: "a", Category: models.CategoryFrontend}))
	require.NoError(t, env.db.ProjectRepo().Add(ctx, &models.Project{Title: "b", Description: "b", Category: models.CategoryMobile}))
	require.NoError(t, env.db.ContactRepo().Add(ctx, &models.ContactMessage{Name: "n", Email: "e", Subject: "s", Message: "m"}))

	rec := env.do(t, http.MethodGet, "/api/admin/stats", nil, withBearer(token))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, StatsResponse{Projects: 2, Contacts: 1}, decode[StatsResponse](t, rec))
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[healthResponse](t, rec).Status)

	require.NoError(t, env.db.Close())
	rec = env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unreachable", decode[healthResponse](t, rec).Database)
}

func TestServerErrorsHideCause(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.db.Close())

	rec := env.do(t, http.MethodGet, "/api/projects", nil)
	assert.GreaterOrEqual(t, rec.Code, http.StatusInternalServerError)
	body := decode[ErrorResponse](t, rec)
	assert.Equal(t, strings.ToLower(http.StatusText(rec.Code)), body.Error)
	assert.NotContains(t, rec.Body.String(), "closed")
	assert.NotContains(t, rec.Body.String(), "sql")
}

func TestLoginRateLimit(t *testing.T) {
	env := newTestEnv(t, func(d *Dependencies) { d.Config.Server.LoginRateLimit = "2-M" })

	for i := 0; i < 2; i++ {
		rec := env.do(t, http.MethodPost, "/api/admin/auth/login", loginRequest{Username: "nobody", Password: "x"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	rec := env.do(t, http.MethodPost, "/api/admin/auth/login", loginRequest{Username: testUsername, Password: testPassword})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "too many requests", decode[ErrorResponse](t, rec).Error)
}

func TestInvalidRateLimitConfig(t *testing.T) {
	var cfg config.Config
	cfg.Server.LoginRateLimit = "lots"

	_, err := newRouter(Dependencies{Config: cfg})
	assert.Error(t, err)
}

func multipartUpload(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestUploadImage(t *testing.T) {
	images := &fakeImages{}
	env := newTestEnv(t, func(d *Dependencies) { d.Images = images })
	token := env.login(t)

	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)
	body, contentType := multipartUpload(t, "shot.png", png)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/uploads", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	stored := decode[services.StoredImage](t, rec)
	assert.Equal(t, "https://cdn.example.com/portfolio/abc.png", stored.URL)
	assert.Equal(t, "shot.png", images.filename)
	assert.Equal(t, "image/png", images.contentType)
	assert.Equal(t, png, images.body)

	body, contentType = multipartUpload(t, "notes.png", []byte("just some text"))
	req = httptest.NewRequest(http.MethodPost, "/api/admin/uploads", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestUploadRouteAbsentWithoutStorage(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	rec := env.do(t, http.MethodPost, "/api/admin/uploads", nil, withBearer(token))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, func(d *Dependencies) { d.Config.Server.MetricsEnabled = true })
	env.login(t)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/api/admin/auth/login", "{not json").Code)

	rec := env.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `portfolio_admin_login_attempts_total{outcome="malformed"}`)
	assert.Contains(t, rec.Body.String(), `portfolio_admin_login_attempts_total{outcome="success"}`)
	assert.Contains(t, rec.Body.String(), `route="/api/admin/auth/login"`)
}

func TestSkillUpdateReplacesList(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	rec := env.do(t, http.MethodPost, "/api/admin/skills", map[string]any{
		"category": "Backend",
		"icon":     models.IconServer,
		"skills":   []map[string]any{{"name": "Go", "level": 90}, {"name": "SQL", "level": 70}},
	}, withBearer(token))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decode[createdResponse](t, rec).ID

	// A level is not carried over from the element previously at the same index.
	rec = env.do(t, http.MethodPut, "/api/admin/skills/"+id, map[string]any{
		"skills": []map[string]any{{"name": "Rust"}},
	}, withBearer(token))
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Equal(t, "skills[0].level", decode[ErrorResponse](t, rec).Field)

	rec = env.do(t, http.MethodPut, "/api/admin/skills/"+id, map[string]any{
		"skills": []map[string]any{{"name": "Rust", "level": 40}},
	}, withBearer(token))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/admin/skills/"+id, nil, withBearer(token))
	require.Equal(t, http.StatusOK, rec.Code)
	stored := decode[models.SkillCategory](t, rec)
	assert.Equal(t, []models.SkillLevel{{Name: "Rust", Level: 40}}, []models.SkillLevel(stored.Skills))
	assert.Equal(t, "Backend", stored.Category)
	assert.Equal(t, models.IconServer, stored.Icon)
}

func TestSessionRejectionReasonIsLoggedNotReturned(t *testing.T) {
	tokens, err := auth.NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)

	var logs bytes.Buffer
	logger := zerolog.New(&logs)
	session := sessionMiddleware{responder: NewResponder(logger), logger: logger, sessions: tokens}
	handler := session.authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a valid session")
	}))

	missing := httptest.NewRecorder()
	handler.ServeHTTP(missing, httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil))
	assert.Contains(t, logs.String(), errs.ErrMissingToken.Error())

	logs.Reset()
	invalid := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	handler.ServeHTTP(invalid, req)
	assert.Contains(t, logs.String(), errs.ErrInvalidToken.Error())

	assert.Equal(t, http.StatusUnauthorized, missing.Code)
	assert.Equal(t, http.StatusUnauthorized, invalid.Code)
	assert.Equal(t, missing.Body.String(), invalid.Body.String())
	assert.NotContains(t, invalid.Body.String(), "access token")
}

func TestServerShutdownDoesNotReportClosed(t *testing.T) {
	tokens, err := auth.NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)

	var cfg config.Config
	cfg.Server.Port = "0"
	server, err := NewServer(Dependencies{
		Config:   cfg,
		Database: database.New(databasetest.New(t)),
		Sessions: tokens,
	})
	require.NoError(t, err)
	server.Addr = "127.0.0.1:0"

	errChannel := make(chan error)
	done := make(chan struct{})
	go func() {
		server.Start(errChannel)
		close(done)
	}()

	server.ShutdownGracefully(time.Second)

	select {
	case <-done:
	case err := <-errChannel:
		t.Fatalf("unexpected server error: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after shutdown")
	}
}

func TestUploadRejectsNonMultipartBody(t *testing.T) {
	env := newTestEnv(t, func(d *Dependencies) { d.Images = &fakeImages{} })
	token := env.login(t)

	rec := env.do(t, http.MethodPost, "/api/admin/uploads", map[string]any{"file": "x"}, withBearer(token))
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	big := bytes.Repeat([]byte{0}, maxUploadSize+4096)
	body, contentType := multipartUpload(t, "big.png", append([]byte("\x89PNG\r\n\x1a\n"), big...))
	req := httptest.NewRequest(http.MethodPost, "/api/admin/uploads", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	tooLarge := httptest.NewRecorder()
	env.router.ServeHTTP(tooLarge, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, tooLarge.Code, tooLarge.Body.String())
}
