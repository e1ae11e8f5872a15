package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	config "github.com/kamande/community-events-go/config"
	models "github.com/kamande/community-events-go/models"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		UserTokenTTLHours:  1,
		AdminTokenTTLHours: 7 * 24,
		Logger:             zap.NewNop(),
	}
}

func TestUserTokenRoundTrip(t *testing.T) {
	cfg := testConfig()
	user := models.User{
		ID:    primitive.NewObjectID(),
		Email: "jane@example.com",
		Role:  models.RoleUser,
	}

	token, err := GenerateUserToken(cfg, user)
	require.NoError(t, err)

	claims, err := ParseToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.ID)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, models.RoleUser, claims.Role)
	assert.Empty(t, claims.Username)

	oid, err := claims.SubjectID()
	require.NoError(t, err)
	assert.Equal(t, user.ID, oid)
}

func TestAdminTokenClaims(t *testing.T) {
	cfg := testConfig()
	admin := models.Admin{ID: primitive.NewObjectID(), Username: "root"}

	token, err := GenerateAdminToken(cfg, admin)
	require.NoError(t, err)

	claims, err := ParseToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "root", claims.Username)
	assert.Empty(t, claims.Email)

	// Admin tokens are longer-lived than user tokens.
	require.NotNil(t, claims.ExpiresAt)
	assert.Greater(t, claims.ExpiresAt.Unix(), time.Now().Add(6*24*time.Hour).Unix())
}

func TestParseTokenRejectsBadInput(t *testing.T) {
	cfg := testConfig()

	_, err := ParseToken(cfg, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	token, err := GenerateUserToken(cfg, models.User{ID: primitive.NewObjectID(), Role: models.RoleUser})
	require.NoError(t, err)

	other := testConfig()
	other.JWTSecret = "different-secret"
	_, err = ParseToken(other, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
