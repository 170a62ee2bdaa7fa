package bootstrap

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medilink-api/config"
	"medilink-api/internal/domain/entity"
	"medilink-api/internal/service"
	"medilink-api/internal/testutil"
	"medilink-api/pkg/metrics"
	"medilink-api/pkg/storage"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type testServer struct {
	t       *testing.T
	db      *gorm.DB
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	db := testutil.NewDB(t)
	cfg := &config.Config{
		App: config.AppConfig{Env: "test", CORSOrigin: "*"},
		JWT: config.JWTConfig{
			Secret:        "test-secret",
			AccessExpiry:  time.Minute,
			RefreshExpiry: time.Hour,
		},
	}

	handler := NewHandler(Dependencies{
		Config:   cfg,
		DB:       db,
		Log:      testutil.NewLogger(),
		Sessions: service.NewMemorySessionStore(cache.New(time.Hour, time.Hour)),
		Files:    storage.New(afero.NewMemMapFs(), "/storage"),
		Metrics:  metrics.NewMetrics("test"),
	})

	return &testServer{t: t, db: db, handler: handler}
}

func (s *testServer) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) json(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return s.do(req, token)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func (s *testServer) register(roleID int, email string) (string, map[string]interface{}) {
	rec := s.json(http.MethodPost, "/api/v1/register", "", map[string]interface{}{
		"name":     "User " + email,
		"email":    email,
		"password": "password123",
		"phone":    "0600000000",
		"role_id":  roleID,
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(s.t, rec)
	return body["token"].(string), body["user"].(map[string]interface{})
}

func (s *testServer) login(email string) string {
	rec := s.json(http.MethodPost, "/api/v1/login", "", map[string]string{"email": email, "password": "password123"})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode(s.t, rec)["token"].(string)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = s.do(httptest.NewRequest(http.MethodGet, "/metrics", nil), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_http_requests_total")
}

func TestPreflight(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(httptest.NewRequest(http.MethodOptions, "/api/v1/appointments", nil), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRegisterLoginLogout(t *testing.T) {
	s := newTestServer(t)

	rec := s.json(http.MethodPost, "/api/v1/register", "", map[string]interface{}{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "password123",
		"phone":    "0600000000",
		"role_id":  entity.RoleIDPatient,
		"age":      30,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "Registration successful", body["message"])
	assert.NotEmpty(t, body["refresh_token"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "patient", user["role"])
	assert.NotContains(t, user, "password")

	token := body["token"].(string)
	rec = s.json(http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "alice@example.com", decode(t, rec)["data"].(map[string]interface{})["email"])

	rec = s.json(http.MethodPost, "/api/v1/check-email", "", map[string]string{"email": "alice@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["exists"])

	rec = s.json(http.MethodPost, "/api/v1/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.json(http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.json(http.MethodPost, "/api/v1/login", "", map[string]string{"email": "alice@example.com", "password": "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t)

	rec := s.json(http.MethodPost, "/api/v1/register", "", map[string]interface{}{
		"name":     "",
		"email":    "not-an-email",
		"password": "short",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

	body := decode(t, rec)
	fields := body["error"].(map[string]interface{})["fields"].(map[string]interface{})
	for _, field := range []string{"name", "email", "password", "phone", "role_id"} {
		assert.Contains(t, fields, field)
	}

	s.register(entity.RoleIDPatient, "dup@example.com")
	rec = s.json(http.MethodPost, "/api/v1/register", "", map[string]interface{}{
		"name":     "Again",
		"email":    "dup@example.com",
		"password": "password123",
		"phone":    "0600000000",
		"role_id":  entity.RoleIDPatient,
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	errBody := decode(t, rec)["error"].(map[string]interface{})
	assert.Equal(t, "validation", errBody["kind"])
	assert.Contains(t, errBody["fields"], "email")

	rec = s.json(http.MethodPost, "/api/v1/register", "", map[string]interface{}{
		"name":     "Admin",
		"email":    "admin@example.com",
		"password": "password123",
		"phone":    "0600000000",
		"role_id":  entity.RoleIDAdmin,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterListsEveryFailingField(t *testing.T) {
	s := newTestServer(t)

	fieldsOf := func(rec *httptest.ResponseRecorder) map[string]interface{} {
		t.Helper()
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
		return decode(t, rec)["error"].(map[string]interface{})["fields"].(map[string]interface{})
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, value := range map[string]string{
		"email":    "not-an-email",
		"password": "short",
		"role_id":  "abc",
		"age":      "old",
	} {
		require.NoError(t, mw.WriteField(key, value))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/register", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	fields := fieldsOf(s.do(req, ""))
	for _, field := range []string{"name", "email", "password", "phone", "role_id", "age"} {
		assert.Contains(t, fields, field)
	}
	assert.Equal(t, "role_id must be an integer", fields["role_id"])

	fields = fieldsOf(s.json(http.MethodPost, "/api/v1/register", "", map[string]interface{}{
		"email":    "not-an-email",
		"password": "password123",
		"role_id":  "3",
	}))
	for _, field := range []string{"name", "email", "phone", "role_id"} {
		assert.Contains(t, fields, field)
	}
	assert.NotContains(t, fields, "password")
	assert.Equal(t, "role_id must be of type int", fields["role_id"])

	rec := s.do(httptest.NewRequest(http.MethodPost, "/api/v1/register", bytes.NewBufferString("{not json")), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, int64(0), countUsers(t, s.db))
}

func countUsers(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&entity.User{}).Count(&n).Error)
	return n
}

func TestRegisterMultipartWithDiploma(t *testing.T) {
	s := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, value := range map[string]string{
		"name":            "Dr Multipart",
		"email":           "multi@example.com",
		"password":        "password123",
		"phone":           "0600000000",
		"role_id":         "3",
		"specialty":       `["Cardiologie","Autres"]`,
		"other_specialty": "Rythmologie",
		"horaire_start":   "08:00",
		"horaire_end":     "16:00",
	} {
		require.NoError(t, mw.WriteField(key, value))
	}
	part, err := mw.CreateFormFile("diplomas[]", "diplome.png")
	require.NoError(t, err)
	_, err = part.Write(pngBytes)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/register", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := s.do(req, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	profile := decode(t, rec)["user"].(map[string]interface{})["profile"].(map[string]interface{})
	assert.Equal(t, "Cardiologie, Rythmologie", profile["specialty"])
	diplomas := profile["diplomas"].([]interface{})
	require.Len(t, diplomas, 1)

	rec = s.do(httptest.NewRequest(http.MethodGet, diplomas[0].(string), nil), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pngBytes, rec.Body.Bytes())
}

func TestAppointmentFlow(t *testing.T) {
	s := newTestServer(t)
	patientToken, _ := s.register(entity.RoleIDPatient, "patient@example.com")
	doctorToken, doctor := s.register(entity.RoleIDMedecin, "doctor@example.com")

	rec := s.json(http.MethodPost, "/api/v1/appointments", patientToken, map[string]string{
		"doctor_id": doctor["id"].(string),
		"date":      "2030-06-01",
		"time":      "10:15",
		"reason":    "Checkup",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	appointmentID := decode(t, rec)["data"].(map[string]interface{})["id"].(string)

	rec = s.json(http.MethodGet, "/api/v1/doctor/stats", patientToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.json(http.MethodPut, "/api/v1/doctor/appointments/"+appointmentID, doctorToken, map[string]string{"status": "completed"})
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	rec = s.json(http.MethodPut, "/api/v1/doctor/appointments/"+appointmentID, doctorToken, map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.json(http.MethodGet, "/api/v1/doctor/stats", doctorToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode(t, rec)
	assert.Equal(t, float64(1), stats["totalAppointments"])
	assert.Equal(t, float64(1), stats["totalPatients"])

	rec = s.json(http.MethodGet, "/api/v1/notifications", patientToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decode(t, rec)["data"].(map[string]interface{})["unread_count"])

	rec = s.json(http.MethodPut, "/api/v1/appointments/"+appointmentID+"/cancel", doctorToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.json(http.MethodPut, "/api/v1/appointments/"+appointmentID+"/cancel", patientToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.json(http.MethodPut, "/api/v1/appointments/not-a-uuid/cancel", patientToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnnonceRoutes(t *testing.T) {
	s := newTestServer(t)
	ownerToken, _ := s.register(entity.RoleIDPharmacie, "pharma@example.com")
	patientToken, _ := s.register(entity.RoleIDPatient, "patient@example.com")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, value := range map[string]string{
		"title":                 "Gants",
		"description":           "Boîte de 100 gants",
		"price":                 "100",
		"address":               "Rue 1",
		"phone":                 "0500000000",
		"email":                 "pharma@example.com",
		"is_active":             "true",
		"pourcentage_reduction": "150",
	} {
		require.NoError(t, mw.WriteField(key, value))
	}
	part, err := mw.CreateFormFile("images[]", "gants.png")
	require.NoError(t, err)
	_, err = part.Write(pngBytes)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/doctor/annonces", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := s.do(req, ownerToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	annonce := decode(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, float64(20), annonce["pourcentage_reduction"])
	assert.True(t, decimal.RequireFromString(annonce["discounted_price"].(string)).Equal(decimal.NewFromInt(80)))

	rec = s.json(http.MethodPost, "/api/v1/doctor/annonces", patientToken, map[string]string{"title": "x"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/annonces?search=gants", nil), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["data"].([]interface{}), 1)

	id := annonce["id"].(string)
	rec = s.json(http.MethodPut, "/api/v1/doctor/annonces/"+id+"/toggle-status", ownerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, false, decode(t, rec)["data"].(map[string]interface{})["is_active"])

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/annonces", nil), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode(t, rec)["data"])

	rec = s.json(http.MethodDelete, "/api/v1/doctor/annonces/"+id, ownerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestAdminAuditLogs(t *testing.T) {
	s := newTestServer(t)
	patientToken, _ := s.register(entity.RoleIDPatient, "patient@example.com")
	testutil.CreateUser(t, s.db, entity.RoleIDAdmin, "Admin", "admin@example.com")
	adminToken := s.login("admin@example.com")

	rec := s.json(http.MethodGet, "/api/v1/admin/audit-logs", patientToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.json(http.MethodGet, "/api/v1/admin/audit-logs?action=user.register&limit=5", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Len(t, body["data"], 1)
	assert.Equal(t, float64(5), body["meta"].(map[string]interface{})["limit"])

	rec = s.json(http.MethodGet, "/api/v1/admin/audit-logs?page=abc", adminToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
