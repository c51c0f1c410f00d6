package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"municipalink/config"
	"municipalink/controllers"
	"municipalink/database"
	"municipalink/routes"
	"municipalink/testutil"
	"municipalink/utils"
)

const testOrigin = "http://localhost:8080"

func init() {
	gin.SetMode(gin.TestMode)
}

// fixedNow is the clock every handler sees in these tests.
var fixedNow = time.Date(2026, time.March, 15, 9, 30, 0, 0, time.UTC)

type testEnv struct {
	t   *testing.T
	db  *gorm.DB
	ctl *controllers.Controller
	r   *gin.Engine
}

func setupEnv(t *testing.T, demo bool) *testEnv {
	t.Helper()

	prev := config.AppConfig
	config.AppConfig.JWTSecret = "0123456789abcdef0123456789abcdef"
	config.AppConfig.JWTExpiryHours = 24
	config.AppConfig.DemoLoginEnabled = demo
	config.AppConfig.Environment = "test"
	t.Cleanup(func() { config.AppConfig = prev })

	db := testutil.OpenTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	ctl := controllers.New(db, database.NewReports(sqlDB))
	ctl.Now = func() time.Time { return fixedNow }

	return &testEnv{t: t, db: db, ctl: ctl, r: routes.NewRouter(ctl, testOrigin)}
}

// userToken stores an active user with role and returns a signed token for it.
func (e *testEnv) userToken(email, role string) (database.User, string) {
	e.t.Helper()
	hash, err := utils.HashPassword("password123")
	require.NoError(e.t, err)

	user := database.User{Email: email, Name: role + " user", PasswordHash: hash, Role: role, IsActive: true}
	require.NoError(e.t, e.db.Create(&user).Error)

	token, err := utils.GenerateJWT(user.ID, user.Email, user.Name, user.Role, time.Now().Add(time.Hour))
	require.NoError(e.t, err)
	return user, token
}

func (e *testEnv) adminToken() string {
	_, token := e.userToken("admin@commune.tn", database.RoleAdmin)
	return token
}

func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch v := body.(type) {
		case string:
			buf.WriteString(v)
		default:
			require.NoError(e.t, json.NewEncoder(&buf).Encode(v))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type created struct {
	Message string `json:"message"`
	ID      uint   `json:"id"`
}

type apiError struct {
	Error string `json:"error"`
}

// createBien posts a Bien through the API and returns its id.
func (e *testEnv) createBien(token, name, status string) uint {
	e.t.Helper()
	w := e.do(http.MethodPost, "/api/biens", token, map[string]any{
		"name":        name,
		"type":        database.BienTypeLocal,
		"status":      status,
		"address":     "Avenue Habib Bourguiba",
		"surface":     80,
		"monthlyRent": 450,
	})
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[created](e.t, w).ID
}

func (e *testEnv) createLocation(token string, bienID uint) uint {
	e.t.Helper()
	w := e.do(http.MethodPost, "/api/locations", token, map[string]any{
		"bienId":      bienID,
		"locataire":   "Amine Trabelsi",
		"startDate":   "2026-01-01",
		"endDate":     "2026-12-31",
		"monthlyRent": 500,
	})
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[created](e.t, w).ID
}

func (e *testEnv) bienStatus(id uint) string {
	e.t.Helper()
	var bien database.Bien
	require.NoError(e.t, e.db.First(&bien, id).Error)
	return bien.Status
}

func newRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

func serve(e *testEnv, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}
