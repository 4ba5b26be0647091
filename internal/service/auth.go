package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/Skotchmaster/canteen/internal/hash"
	"github.com/Skotchmaster/canteen/internal/logging"
	"github.com/Skotchmaster/canteen/internal/models"
	"github.com/Skotchmaster/canteen/internal/repo"
	"github.com/Skotchmaster/canteen/internal/tokens"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
}

type RegisterInput struct {
	Username string
	Email    string
	Phone    string
	Password string
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	UserID       uint
	Role         string
}

func (h *AuthService) CreateAccessToken(role, id string, accessExp time.Time) (string, error) {
	accessClaims := tokens.AccessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			ExpiresAt: jwt.NewNumericDate(accessExp),
		},
	}

	tokenAccess := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims)
	return tokenAccess.SignedString(h.JWTSecret)
}

func (h *AuthService) CreateRefreshToken(id string, refreshExp time.Time) (string, error) {
	refreshClaims := tokens.RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			ExpiresAt: jwt.NewNumericDate(refreshExp),
			ID:        tokens.NewJTI(),
		},
	}

	tokenRefresh := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims)
	return tokenRefresh.SignedString(h.RefreshSecret)
}

func (h *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("username, email and password are required: %w", ErrValidation)
	}

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return nil, fmt.Errorf("hash password: %w", ErrStorage)
	}

	user := models.User{
		Username:     in.Username,
		PasswordHash: pwHash,
		Email:        in.Email,
		Phone:        in.Phone,
	}
	if err := h.Repo.CreateUser(ctx, &user); err != nil {
		switch {
		case errors.Is(err, repo.ErrUsernameTaken), errors.Is(err, repo.ErrEmailTaken):
			l.Warn("register_conflict", "username", in.Username, "reason", err.Error())
			return nil, fmt.Errorf("%s: %w", err.Error(), ErrValidation)
		default:
			l.Error("register_error", "error", err)
			return nil, fmt.Errorf("create user: %w", ErrStorage)
		}
	}

	l.Info("user_registered", "user_id", user.ID, "username", user.Username)
	return &user, nil
}

// Login verifies credentials and issues an access/refresh token pair. Unknown
// users and wrong passwords get the same answer so usernames cannot be probed.
func (h *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	user, err := h.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "reason", "unknown username")
			return nil, fmt.Errorf("invalid username or password: %w", ErrAuth)
		}
		l.Error("login_failed", "error", err)
		return nil, fmt.Errorf("lookup user: %w", ErrStorage)
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "reason", "wrong password")
		return nil, fmt.Errorf("invalid username or password: %w", ErrAuth)
	}

	res, err := h.issueTokens(ctx, user)
	if err != nil {
		l.Error("login_failed", "error", err)
		return nil, err
	}

	l.Info("login_ok", "user_id", user.ID, "role", res.Role)
	return res, nil
}

// Refresh rotates a valid refresh token: the old one is revoked and a new
// pair is issued for the same user.
func (h *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := tokens.RefreshClaimsFromToken(refreshToken, h.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", ErrAuth)
	}

	stored, err := h.Repo.GetRefreshToken(ctx, hash.Sha256Hex(refreshToken))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("refresh token not found: %w", ErrAuth)
		}
		l.Error("refresh_failed", "error", err)
		return nil, fmt.Errorf("lookup refresh token: %w", ErrStorage)
	}
	if stored.Revoked || stored.ExpiresAt < time.Now().Unix() {
		return nil, fmt.Errorf("refresh token expired or revoked: %w", ErrAuth)
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || uint(id) != stored.UserID {
		return nil, fmt.Errorf("refresh token subject mismatch: %w", ErrAuth)
	}

	user, err := h.Repo.GetUserByID(ctx, stored.UserID)
	if err != nil {
		l.Error("refresh_failed", "error", err)
		return nil, fmt.Errorf("lookup user: %w", ErrStorage)
	}

	if err := h.Repo.RevokeRefreshToken(ctx, stored.Token); err != nil {
		l.Error("refresh_failed", "error", err)
		return nil, fmt.Errorf("revoke refresh token: %w", ErrStorage)
	}

	return h.issueTokens(ctx, user)
}

// Logout revokes the refresh token; unknown tokens are a no-op.
func (h *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := h.Repo.RevokeRefreshToken(ctx, hash.Sha256Hex(refreshToken)); err != nil {
		logging.FromContext(ctx).Error("logout_failed", "error", err)
		return fmt.Errorf("revoke refresh token: %w", ErrStorage)
	}
	return nil
}

func (h *AuthService) issueTokens(ctx context.Context, user *models.User) (*LoginResult, error) {
	role := "user"
	if user.IsAdmin {
		role = "admin"
	}
	id := strconv.FormatUint(uint64(user.ID), 10)

	accessExp := time.Now().Add(accessTokenTTL)
	accessToken, err := h.CreateAccessToken(role, id, accessExp)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", ErrStorage)
	}

	refreshExp := time.Now().Add(refreshTokenTTL)
	refreshToken, err := h.CreateRefreshToken(id, refreshExp)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", ErrStorage)
	}

	claims, err := tokens.RefreshClaimsFromToken(refreshToken, h.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("parse refresh token: %w", ErrStorage)
	}
	if err := h.Repo.SaveRefreshToken(ctx, &models.RefreshToken{
		Token:     hash.Sha256Hex(refreshToken),
		UserID:    user.ID,
		JTI:       claims.ID,
		ExpiresAt: refreshExp.Unix(),
	}); err != nil {
		return nil, fmt.Errorf("save refresh token: %w", ErrStorage)
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		UserID:       user.ID,
		Role:         role,
	}, nil
}
