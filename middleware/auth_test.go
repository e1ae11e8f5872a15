package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	config "github.com/kamande/community-events-go/config"
	models "github.com/kamande/community-events-go/models"
	utils "github.com/kamande/community-events-go/utils"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		UserTokenTTLHours:  1,
		AdminTokenTTLHours: 24,
		Logger:             zap.NewNop(),
	}
}

func testRouter(cfg *config.Config, adminOnly bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := []gin.HandlerFunc{Auth(cfg)}
	if adminOnly {
		handlers = append(handlers, AdminOnly())
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString(ContextUserID),
			"role":    c.GetString(ContextRole),
			"email":   c.GetString(ContextEmail),
		})
	})
	r.GET("/probe", handlers...)
	return r
}

func TestAuthRejectsMissingOrBadHeader(t *testing.T) {
	r := testRouter(testConfig(), false)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc123"},
		{"garbage token", "Bearer not.a.jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuthSetsClaimsInContext(t *testing.T) {
	cfg := testConfig()
	r := testRouter(cfg, false)

	user := models.User{ID: primitive.NewObjectID(), Email: "jane@example.com", Role: models.RoleUser}
	token, err := utils.GenerateUserToken(cfg, user)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), user.ID.Hex())
	assert.Contains(t, w.Body.String(), "jane@example.com")
}

func TestAdminOnlyGate(t *testing.T) {
	cfg := testConfig()
	r := testRouter(cfg, true)

	userToken, err := utils.GenerateUserToken(cfg, models.User{ID: primitive.NewObjectID(), Role: models.RoleUser})
	require.NoError(t, err)
	adminToken, err := utils.GenerateAdminToken(cfg, models.Admin{ID: primitive.NewObjectID(), Username: "root"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
