package controllers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	config "github.com/kamande/community-events-go/config"
	middleware "github.com/kamande/community-events-go/middleware"
	models "github.com/kamande/community-events-go/models"
)

// Validation-path tests: every request here must be rejected before any
// store access, so no Mongo connection is involved.

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret: "test-secret",
		Logger:    zap.NewNop(),
	}
}

func asUser(userID primitive.ObjectID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID.Hex())
		c.Set(middleware.ContextRole, models.RoleUser)
	}
}

func multipartBody(t *testing.T, fields map[string]string, withImage bool) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if withImage {
		part, err := w.CreateFormFile("image", "poster.jpg")
		require.NoError(t, err)
		_, err = part.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func validEventFields() map[string]string {
	return map[string]string{
		"name":             "Park Cleanup",
		"code":             "CLEANUP1",
		"date":             "2030-05-01",
		"location":         "Riverside Park",
		"category":         primitive.NewObjectID().Hex(),
		"max_participants": "50",
	}
}

func TestCreateEventValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	userID := primitive.NewObjectID()

	r := gin.New()
	r.POST("/api/event", asUser(userID), CreateEvent(cfg))

	tests := []struct {
		name        string
		mutate      func(map[string]string)
		withImage   bool
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "missing required field",
			mutate:      func(f map[string]string) { delete(f, "location") },
			withImage:   true,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "All required fields must be provided",
		},
		{
			name:        "code too short",
			mutate:      func(f map[string]string) { f["code"] = "SHORT" },
			withImage:   true,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Event code must be 8 characters",
		},
		{
			name:        "code too long",
			mutate:      func(f map[string]string) { f["code"] = "WAYTOOLONG" },
			withImage:   true,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Event code must be 8 characters",
		},
		{
			name:        "negative capacity",
			mutate:      func(f map[string]string) { f["max_participants"] = "-1" },
			withImage:   true,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Max participants cannot be negative",
		},
		{
			name:        "unparseable date",
			mutate:      func(f map[string]string) { f["date"] = "next tuesday" },
			withImage:   true,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "invalid date format",
		},
		{
			name:        "malformed category id",
			mutate:      func(f map[string]string) { f["category"] = "not-an-oid" },
			withImage:   true,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid or inactive category",
		},
		{
			name:        "missing image",
			mutate:      func(f map[string]string) {},
			withImage:   false,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Event image is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := validEventFields()
			tt.mutate(fields)
			body, contentType := multipartBody(t, fields, tt.withImage)

			req := httptest.NewRequest(http.MethodPost, "/api/event", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantMessage)
		})
	}
}

func TestCreateEventRequiresAuthenticatedUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/event", CreateEvent(testConfig())) // no user in context

	body, contentType := multipartBody(t, validEventFields(), true)
	req := httptest.NewRequest(http.MethodPost, "/api/event", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestToggleEventValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	userID := primitive.NewObjectID()

	r := gin.New()
	r.PATCH("/api/event/:id/disable", asUser(userID), DisableEventByUser(cfg))

	t.Run("invalid event id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPatch, "/api/event/nope/disable",
			strings.NewReader(`{"disable": true}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid event id")
	})

	t.Run("missing disable flag", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPatch,
			"/api/event/"+primitive.NewObjectID().Hex()+"/disable",
			strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "disable is required")
	})
}
