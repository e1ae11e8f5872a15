package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// Binding rejections happen before any store access.

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSignupValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/auth/signup", Signup(testConfig()))

	tests := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"missing password", `{"username":"jane","email":"jane@example.com"}`},
		{"malformed email", `{"username":"jane","email":"not-an-email","password":"secret1"}`},
		{"short password", `{"username":"jane","email":"jane@example.com","password":"abc"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, r, "/api/auth/signup", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}

func TestLoginValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/auth/login", Login(testConfig()))

	w := postJSON(t, r, "/api/auth/login", `{"username":"jane"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Username and password required")
}

func TestAdminLoginValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/admin/login", AdminLogin(testConfig()))

	w := postJSON(t, r, "/api/admin/login", `{"password":"hunter2"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Username and password required")
}

func TestRecordDonationValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/donation", RecordDonation(testConfig()))

	t.Run("missing email", func(t *testing.T) {
		w := postJSON(t, r, "/api/donation", `{"amount":500}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("negative amount", func(t *testing.T) {
		w := postJSON(t, r, "/api/donation", `{"email":"jane@example.com","amount":-100}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Amount must be greater than 0")
	})
}
