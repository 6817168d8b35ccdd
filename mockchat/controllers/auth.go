package controllers

import (
	"time"

	"mockchat/mockchat/config"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 24 * time.Hour

type AuthController struct {
	cfg config.Config
	now func() time.Time
}

func NewAuthController(cfg config.Config) *AuthController {
	return &AuthController{cfg: cfg, now: time.Now}
}

// IssueToken signs a token binding requests to userID.
func (c *AuthController) IssueToken(userID string) (string, error) {
	if c.cfg.JWTSecret == "" {
		return "", ErrAuthDisabled
	}
	if userID == "" {
		return "", ErrMissingUserID
	}
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     c.now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(c.cfg.JWTSecret))
}
