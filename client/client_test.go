package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"municipalink/client"
	"municipalink/config"
	"municipalink/controllers"
	"municipalink/database"
	"municipalink/routes"
	"municipalink/testutil"
	"municipalink/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newServer runs the real API on an in-memory database.
func newServer(t *testing.T, demo bool) (*httptest.Server, *client.Client) {
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

	hash, err := utils.HashPassword("password123")
	require.NoError(t, err)
	require.NoError(t, db.Create(&database.User{
		Email: "admin@commune.tn", Name: "Admin", PasswordHash: hash, Role: database.RoleAdmin, IsActive: true,
	}).Error)

	ctl := controllers.New(db, database.NewReports(sqlDB))
	srv := httptest.NewServer(routes.NewRouter(ctl, "http://localhost:8080"))
	t.Cleanup(srv.Close)

	c, err := client.New(srv.URL + "/api")
	require.NoError(t, err)
	return srv, c
}

func TestClientWorkflow(t *testing.T) {
	_, c := newServer(t, false)
	ctx := context.Background()

	res, err := c.Login(ctx, "admin@commune.tn", "password123")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, res.Token, c.Session.Token())
	require.NotNil(t, c.Session.User())
	assert.Equal(t, "admin", c.Session.User().Role)

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Len(t, me.Sections, 6)

	rent := 600.0
	bienID, err := c.CreateBien(ctx, client.BienInput{
		Name: "Café du Lac", Type: "cafe", Address: "Berges du Lac", Surface: 90, MonthlyRent: &rent,
	})
	require.NoError(t, err)

	locID, err := c.CreateLocation(ctx, client.LocationInput{
		BienID: bienID, Locataire: "Yassine", StartDate: "2026-01-01", EndDate: "2099-01-01", MonthlyRent: 600,
	})
	require.NoError(t, err)

	bien, err := c.GetBien(ctx, bienID)
	require.NoError(t, err)
	assert.Equal(t, "loue", bien.Status)

	locs, err := c.ListLocations(ctx, client.LocationFilter{BienID: bienID})
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, "Café du Lac", locs[0].BienName)
	assert.NotEmpty(t, locs[0].RemainingTime)

	payID, err := c.CreatePaiement(ctx, client.PaiementInput{
		LocationID: locID, Amount: 600, DueDate: "2026-01-05", Month: "Janvier 2026",
	})
	require.NoError(t, err)
	require.NoError(t, c.UpdatePaiement(ctx, payID, client.PaiementUpdate{Status: "paid"}))

	p, err := c.GetPaiement(ctx, payID)
	require.NoError(t, err)
	assert.Equal(t, "paid", p.Status)
	require.NotNil(t, p.PaidDate)

	err = c.UpdatePaiement(ctx, payID, client.PaiementUpdate{Status: "pending"})
	assert.True(t, client.IsStatus(err, http.StatusConflict))

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalBiens)
	assert.Equal(t, 600.0, stats.RevenusMensuels)

	require.NoError(t, c.DeleteLocation(ctx, locID))
	bien, err = c.GetBien(ctx, bienID)
	require.NoError(t, err)
	assert.Equal(t, "disponible", bien.Status)

	logs, err := c.AuditLogs(ctx, client.AuditFilter{EntityType: "location"})
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestClientAPIErrorCarriesServerMessage(t *testing.T) {
	_, c := newServer(t, false)
	ctx := context.Background()
	_, err := c.Login(ctx, "admin@commune.tn", "password123")
	require.NoError(t, err)

	_, err = c.GetBien(ctx, 404)
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Bien not found", apiErr.Message)
	assert.NotEmpty(t, c.Session.Token(), "only a 401 ends the session")
}

func TestClientClearsSessionOn401(t *testing.T) {
	_, c := newServer(t, false)

	calls := 0
	c.OnUnauthorized = func() { calls++ }
	c.Session.Set("expired.or.forged", &client.User{Name: "Ghost"})

	_, err := c.ListBiens(context.Background(), client.BienFilter{})
	assert.True(t, client.IsStatus(err, http.StatusUnauthorized))
	assert.Empty(t, c.Session.Token())
	assert.Nil(t, c.Session.User())
	assert.Equal(t, 1, calls)
}

func TestClientLoginFailureDoesNotFireHook(t *testing.T) {
	_, c := newServer(t, false)

	calls := 0
	c.OnUnauthorized = func() { calls++ }
	_, err := c.Login(context.Background(), "admin@commune.tn", "wrong")
	assert.True(t, client.IsStatus(err, http.StatusUnauthorized))
	assert.Zero(t, calls)
}

func TestClientDemoLogin(t *testing.T) {
	_, c := newServer(t, true)
	ctx := context.Background()

	res, err := c.Login(ctx, "admin@test.tn", "test1234")
	require.NoError(t, err)
	assert.Equal(t, utils.DemoToken, res.Token)
	assert.Equal(t, "0", res.User.ID.String())

	_, err = c.Stats(ctx)
	require.NoError(t, err)
}

func TestClientNetworkError(t *testing.T) {
	srv, c := newServer(t, false)
	srv.Close()

	c.HTTPClient = &http.Client{Timeout: 2 * time.Second}
	_, err := c.Stats(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, client.ErrNetwork))
	assert.Equal(t, "Impossible de contacter le serveur", err.Error())

	var netErr *client.NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.NotNil(t, netErr.Err)
}

func TestClientSendsBearerAndJSONHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c, err := client.New(srv.URL + "/api/")
	require.NoError(t, err)
	c.Session.Set("abc.def.ghi", nil)

	_, err = c.ListVentes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc.def.ghi", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
}
