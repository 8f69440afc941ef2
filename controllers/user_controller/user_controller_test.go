package user_controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renthub/renthub/repository"
	"github.com/renthub/renthub/repository/jsonfile"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *repository.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := jsonfile.NewStore(t.TempDir())
	require.NoError(t, err)

	controller, err := NewUserController(store)
	require.NoError(t, err)

	r := gin.New()
	api := r.Group("/api/auth")
	{
		api.POST("/register", controller.Register)
		api.POST("/admin/register", controller.RegisterAdmin)
		api.POST("/login", controller.Login)
		api.POST("/admin/login", controller.AdminLogin)
	}
	return r, store
}

func post(r *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	data, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", path, bytes.NewBuffer(data))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerPayload() map[string]interface{} {
	return map[string]interface{}{
		"fullName":    "Asha Verma",
		"email":       "asha@example.com",
		"phoneNumber": "9876543210",
		"password":    "secret123",
	}
}

func TestRegister(t *testing.T) {
	t.Run("creates an account and returns a token", func(t *testing.T) {
		r, _ := newAuthRouter(t)

		w := post(r, "/api/auth/register", registerPayload())
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp struct {
			Success bool                   `json:"success"`
			Token   string                 `json:"token"`
			User    map[string]interface{} `json:"user"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "asha@example.com", resp.User["email"])
		// the password hash must never leave the server
		assert.NotContains(t, w.Body.String(), "secret123")
		assert.NotContains(t, w.Body.String(), "password")
	})

	t.Run("duplicate email answers 409", func(t *testing.T) {
		r, _ := newAuthRouter(t)

		w := post(r, "/api/auth/register", registerPayload())
		require.Equal(t, http.StatusCreated, w.Code)

		w = post(r, "/api/auth/register", registerPayload())
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		r, _ := newAuthRouter(t)

		payload := registerPayload()
		payload["email"] = "not-an-email"
		w := post(r, "/api/auth/register", payload)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		payload = registerPayload()
		payload["password"] = "abc"
		w = post(r, "/api/auth/register", payload)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAdminRegister(t *testing.T) {
	t.Run("requires the security code", func(t *testing.T) {
		r, _ := newAuthRouter(t)

		payload := registerPayload()
		payload["adminId"] = "ADM-1"
		payload["securityCode"] = "wrong"
		w := post(r, "/api/auth/admin/register", payload)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("creates an admin with the right code", func(t *testing.T) {
		r, _ := newAuthRouter(t)
		t.Setenv("ADMIN_SECURITY_CODE", "1575")

		payload := registerPayload()
		payload["adminId"] = "ADM-1"
		payload["securityCode"] = "1575"
		w := post(r, "/api/auth/admin/register", payload)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"isAdmin":true`)
	})
}

func TestLogin(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		r, _ := newAuthRouter(t)
		require.Equal(t, http.StatusCreated, post(r, "/api/auth/register", registerPayload()).Code)

		w := post(r, "/api/auth/login", map[string]string{
			"email":    "asha@example.com",
			"password": "secret123",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), "token")
	})

	t.Run("wrong password", func(t *testing.T) {
		r, _ := newAuthRouter(t)
		require.Equal(t, http.StatusCreated, post(r, "/api/auth/register", registerPayload()).Code)

		w := post(r, "/api/auth/login", map[string]string{
			"email":    "asha@example.com",
			"password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown account", func(t *testing.T) {
		r, _ := newAuthRouter(t)

		w := post(r, "/api/auth/login", map[string]string{
			"email":    "ghost@example.com",
			"password": "whatever",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("regular user cannot use admin login", func(t *testing.T) {
		r, _ := newAuthRouter(t)
		require.Equal(t, http.StatusCreated, post(r, "/api/auth/register", registerPayload()).Code)

		w := post(r, "/api/auth/admin/login", map[string]string{
			"email":    "asha@example.com",
			"password": "secret123",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("blocked user cannot log in", func(t *testing.T) {
		r, store := newAuthRouter(t)
		w := post(r, "/api/auth/register", registerPayload())
		require.Equal(t, http.StatusCreated, w.Code)

		user, err := store.Users.GetByEmail(context.Background(), "asha@example.com")
		require.NoError(t, err)
		require.NoError(t, store.Users.SetBlocked(context.Background(), user.ID, true))

		w = post(r, "/api/auth/login", map[string]string{
			"email":    "asha@example.com",
			"password": "secret123",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
