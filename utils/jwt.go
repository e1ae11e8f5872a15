package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	config "github.com/kamande/community-events-go/config"
	models "github.com/kamande/community-events-go/models"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims are the session claims carried by both user and admin tokens.
// User tokens carry {id, email, role}; admin tokens carry {id, username,
// role:"admin"}. The role is trusted from the verified token, not re-read
// from the database on each request.
type Claims struct {
	ID       string `json:"id"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateUserToken issues a short-lived session token for a user.
func GenerateUserToken(cfg *config.Config, user models.User) (string, error) {
	claims := Claims{
		ID:    user.ID.Hex(),
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(cfg.UserTokenTTLHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
}

// GenerateAdminToken issues a longer-lived token for an admin console account.
func GenerateAdminToken(cfg *config.Config, admin models.Admin) (string, error) {
	claims := Claims{
		ID:       admin.ID.Hex(),
		Username: admin.Username,
		Role:     models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(cfg.AdminTokenTTLHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
}

// ParseToken validates a signed token and returns its claims.
func ParseToken(cfg *config.Config, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// SubjectID returns the token subject as an ObjectID.
func (c *Claims) SubjectID() (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(c.ID)
}
