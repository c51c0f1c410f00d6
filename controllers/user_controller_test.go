package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"municipalink/database"
	"municipalink/utils"
)

func TestCreateUser(t *testing.T) {
	e := setupEnv(t, false)
	token := e.adminToken()

	w := e.do(http.MethodPost, "/api/users", token, map[string]any{
		"name":     "Leila Ben Salah",
		"email":    "Leila@Commune.tn",
		"password": "s3cretpass",
		"role":     database.RoleFinance,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode[created](t, w).ID

	var user database.User
	require.NoError(t, e.db.First(&user, id).Error)
	assert.Equal(t, "leila@commune.tn", user.Email)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "s3cretpass", user.PasswordHash)
	assert.True(t, utils.CheckPasswordHash("s3cretpass", user.PasswordHash))

	w = e.do(http.MethodGet, fmt.Sprintf("/api/users/%d", id), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password")

	w = e.do(http.MethodPost, "/api/users", token, map[string]any{
		"name":     "Autre",
		"email":    "leila@commune.tn",
		"password": "s3cretpass",
		"role":     database.RoleEmployee,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = e.do(http.MethodPost, "/api/users", token, map[string]any{
		"name":     "Court",
		"email":    "court@commune.tn",
		"password": "short",
		"role":     database.RoleEmployee,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateUserKeepsPasswordWhenEmpty(t *testing.T) {
	e := setupEnv(t, false)
	token := e.adminToken()
	user, _ := e.userToken("agent@commune.tn", database.RoleEmployee)

	w := e.do(http.MethodPut, fmt.Sprintf("/api/users/%d", user.ID), token, map[string]any{
		"name":  "Agent Principal",
		"email": "agent@commune.tn",
		"role":  database.RoleFinance,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored database.User
	require.NoError(t, e.db.First(&stored, user.ID).Error)
	assert.Equal(t, "Agent Principal", stored.Name)
	assert.Equal(t, database.RoleFinance, stored.Role)
	assert.True(t, stored.IsActive)
	assert.True(t, utils.CheckPasswordHash("password123", stored.PasswordHash))

	w = e.do(http.MethodPut, "/api/users", token, map[string]any{
		"id":       user.ID,
		"name":     "Agent Principal",
		"email":    "admin@commune.tn",
		"role":     database.RoleFinance,
		"password": "newpassword",
	})
	assert.Equal(t, http.StatusConflict, w.Code, "email belongs to the admin")
}

func TestToggleActiveAndRole(t *testing.T) {
	e := setupEnv(t, false)
	token := e.adminToken()
	user, _ := e.userToken("agent@commune.tn", database.RoleEmployee)

	w := e.do(http.MethodPatch, fmt.Sprintf("/api/users/%d/toggle-active", user.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode[map[string]any](t, w)["isActive"])

	w = e.do(http.MethodPatch, fmt.Sprintf("/api/users/%d/toggle-active", user.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode[map[string]any](t, w)["isActive"])

	w = e.do(http.MethodPatch, fmt.Sprintf("/api/users/%d/role", user.ID), token, map[string]string{"role": database.RoleAdmin})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, database.RoleAdmin, decode[map[string]any](t, w)["role"])

	w = e.do(http.MethodPatch, fmt.Sprintf("/api/users/%d/role", user.ID), token, map[string]string{"role": "mayor"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(http.MethodPatch, "/api/users/999/toggle-active", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminCannotLockThemselvesOut(t *testing.T) {
	e := setupEnv(t, false)
	admin, token := e.userToken("root@commune.tn", database.RoleAdmin)

	w := e.do(http.MethodPatch, fmt.Sprintf("/api/users/%d/toggle-active", admin.ID), token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = e.do(http.MethodPatch, fmt.Sprintf("/api/users/%d/role", admin.ID), token, map[string]string{"role": database.RoleEmployee})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = e.do(http.MethodPut, fmt.Sprintf("/api/users/%d", admin.ID), token, map[string]any{
		"name":     "Root",
		"email":    "root@commune.tn",
		"role":     database.RoleAdmin,
		"isActive": false,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	var stored database.User
	require.NoError(t, e.db.First(&stored, admin.ID).Error)
	assert.True(t, stored.IsActive)
	assert.Equal(t, database.RoleAdmin, stored.Role)
}

func TestUsersAreAdminOnlyAndNeverDeleted(t *testing.T) {
	e := setupEnv(t, false)
	token := e.adminToken()
	user, employee := e.userToken("agent@commune.tn", database.RoleEmployee)

	w := e.do(http.MethodGet, "/api/users", employee, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(http.MethodGet, "/api/users", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]database.User](t, w), 2)

	w = e.do(http.MethodDelete, fmt.Sprintf("/api/users/%d", user.ID), token, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestDeactivationAndDemotionRevokeAccess(t *testing.T) {
	e := setupEnv(t, false)
	token := e.adminToken()
	agent, agentToken := e.userToken("agent@commune.tn", database.RoleEmployee)
	chef, chefToken := e.userToken("chef@commune.tn", database.RoleAdmin)

	w := e.do(http.MethodPatch, fmt.Sprintf("/api/users/%d/toggle-active", agent.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(http.MethodPost, "/api/biens", agentToken, map[string]any{
		"name": "Kiosque", "type": database.BienTypeLocal, "address": "Place de la Kasbah", "surface": 12,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var count int64
	require.NoError(t, e.db.Model(&database.Bien{}).Count(&count).Error)
	assert.Zero(t, count)

	w = e.do(http.MethodGet, "/api/users", chefToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(http.MethodPatch, fmt.Sprintf("/api/users/%d/role", chef.ID), token, map[string]string{"role": database.RoleEmployee})
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(http.MethodGet, "/api/users", chefToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = e.do(http.MethodGet, "/api/biens", chefToken, nil)
	assert.Equal(t, http.StatusOK, w.Code, "employee sections stay open")
}
