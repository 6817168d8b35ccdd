package controllers

import (
	"testing"

	"mockchat/mockchat/config"
	"mockchat/mockchat/middlewares"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueToken(t *testing.T) {
	ctrl := NewAuthController(config.Config{JWTSecret: "s3cret"})

	token, err := ctrl.IssueToken("u1")
	require.NoError(t, err)

	userID, err := middlewares.ParseToken("s3cret", token)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)

	_, err = ctrl.IssueToken("")
	assert.ErrorIs(t, err, ErrMissingUserID)
}

func TestIssueTokenDisabled(t *testing.T) {
	ctrl := NewAuthController(config.Config{})
	_, err := ctrl.IssueToken("u1")
	assert.ErrorIs(t, err, ErrAuthDisabled)
}
