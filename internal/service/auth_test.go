package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/canteen/internal/models"
)

func newAuthService(t *testing.T) *AuthService {
	return &AuthService{
		Repo:          newTestRepo(t),
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{
		Username: "test_user",
		Email:    "test@example.com",
		Password: "password",
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.NotEqual(t, "password", user.PasswordHash)
	require.False(t, user.IsAdmin)

	res, err := svc.Login(ctx, "test_user", "password")
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)
	require.NotEmpty(t, res.RefreshToken)
	require.Equal(t, "user", res.Role)
	require.Equal(t, user.ID, res.UserID)

	var stored models.RefreshToken
	require.NoError(t, svc.Repo.DB.First(&stored).Error)
	require.NotEqual(t, res.RefreshToken, stored.Token, "refresh token must be stored hashed")
	require.NotEmpty(t, stored.JTI)
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "", Email: "a@b.c", Password: "p"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(ctx, RegisterInput{Username: "u", Email: "a@b.c", Password: ""})
	require.ErrorIs(t, err, ErrValidation)
}

func TestRegisterDuplicates(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "p"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Username: "alice", Email: "other@example.com", Password: "p"})
	require.ErrorIs(t, err, ErrValidation)
	require.Contains(t, err.Error(), "username already exists")

	_, err = svc.Register(ctx, RegisterInput{Username: "bob", Email: "alice@example.com", Password: "p"})
	require.ErrorIs(t, err, ErrValidation)
	require.Contains(t, err.Error(), "email already exists")
}

func TestLoginFailuresLookAlike(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "right"})
	require.NoError(t, err)

	_, errUnknown := svc.Login(ctx, "nobody", "whatever")
	require.ErrorIs(t, errUnknown, ErrAuth)

	_, errWrongPw := svc.Login(ctx, "alice", "wrong")
	require.ErrorIs(t, errWrongPw, ErrAuth)

	// unknown user and wrong password are indistinguishable to the caller
	require.Equal(t, errUnknown.Error(), errWrongPw.Error())
}

func TestRefreshRotation(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "p"})
	require.NoError(t, err)
	res, err := svc.Login(ctx, "alice", "p")
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, res.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, res.RefreshToken, rotated.RefreshToken)
	require.Equal(t, res.UserID, rotated.UserID)

	// the old token is revoked and cannot be replayed
	_, err = svc.Refresh(ctx, res.RefreshToken)
	require.ErrorIs(t, err, ErrAuth)
}

func TestLogoutRevokesRefresh(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "p"})
	require.NoError(t, err)
	res, err := svc.Login(ctx, "alice", "p")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, res.RefreshToken))

	_, err = svc.Refresh(ctx, res.RefreshToken)
	require.ErrorIs(t, err, ErrAuth)

	// logging out twice is fine
	require.NoError(t, svc.Logout(ctx, res.RefreshToken))
}
