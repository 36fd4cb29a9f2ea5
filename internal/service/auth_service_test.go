package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"game-data-hub/internal/logger"
	"game-data-hub/internal/repository"
	"game-data-hub/internal/security"
	"game-data-hub/internal/testutil"
	"game-data-hub/internal/utils"
)

func TestRegisterAndLogin(t *testing.T) {
	store := repository.NewStore(testutil.NewDB(t))
	jwtManager := security.NewJWTManager("test-secret", time.Hour)
	auth := NewAuthService(store, jwtManager, logger.Discard())
	ctx := context.Background()

	user, err := auth.Register(ctx, &RegisterRequest{Username: "designer", Email: "Designer@Studio.test", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, "designer@studio.test", user.Email)
	assert.NotEqual(t, "hunter22", user.HashedPassword)

	_, err = auth.Register(ctx, &RegisterRequest{Username: "designer", Email: "other@studio.test", Password: "hunter22"})
	assert.True(t, utils.IsErrorType(err, utils.ErrCodeConflict))

	_, err = auth.Login(ctx, &LoginRequest{Username: "designer", Password: "wrong-pass"})
	assert.True(t, utils.IsErrorType(err, utils.ErrCodeInvalidCredentials))
	_, err = auth.Login(ctx, &LoginRequest{Username: "nobody", Password: "hunter22"})
	assert.True(t, utils.IsErrorType(err, utils.ErrCodeInvalidCredentials))

	resp, err := auth.Login(ctx, &LoginRequest{Username: "designer", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := jwtManager.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	loaded, err := auth.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "designer", loaded.Username)
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	db := testutil.NewDB(t)
	store := repository.NewStore(db)
	auth := NewAuthService(store, security.NewJWTManager("s", time.Hour), logger.Discard())
	ctx := context.Background()

	user, err := auth.Register(ctx, &RegisterRequest{Username: "retired", Email: "r@studio.test", Password: "hunter22"})
	require.NoError(t, err)
	require.NoError(t, db.Model(user).Update("is_active", false).Error)

	_, err = auth.Login(ctx, &LoginRequest{Username: "retired", Password: "hunter22"})
	assert.True(t, utils.IsErrorType(err, utils.ErrCodeForbidden))
}
