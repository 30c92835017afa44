package controllers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hamzakamil/personelplus/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

const TokenSize = 16

type AuthController struct {
	deps *Dependens
}

func NewAuthController(deps *Dependens) *AuthController {
	return &AuthController{
		deps: deps,
	}
}

func (c *AuthController) AuthLogin(req *entity.LoginRequest) (string, string, error) {
	var id, companyID uint64
	var email, password, role string
	var isActive bool

	query := "SELECT id, company_id, email, password, role, is_active FROM employees WHERE email = $1"
	if err := c.deps.DB.QueryRow(context.Background(), query, req.Email).Scan(&id, &companyID, &email, &password, &role, &isActive); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.deps.Logger.Warn("user with this email not found", slog.String("email", req.Email))
			return "", "", errors.New("user with this email not found")
		}

		c.deps.Logger.Error("Error querying employee", slog.String("error", err.Error()))
		return "", "", err
	}

	if !isActive {
		c.deps.Logger.Warn("Login attempt by inactive employee", slog.String("email", req.Email))
		return "", "", errors.New("employee is not active")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(password), []byte(req.Password)); err != nil {
		c.deps.Logger.Warn("Invalid password", slog.String("email", req.Email))
		return "", "", err
	}

	emp := entity.Employee{
		ID:        id,
		CompanyID: companyID,
		Email:     &email,
		Role:      role,
	}

	accessToken, err := c.createToken(emp, "access")
	if err != nil {
		return "", "", err
	}

	refreshToken, err := c.createToken(emp, "refresh")
	if err != nil {
		return "", "", err
	}

	ctx := context.Background()
	if err = c.deps.Redis.Set(ctx, "access_token:"+accessToken, "valid", c.deps.Config.Redis.AccessTokenTTL).Err(); err != nil {
		c.deps.Logger.Error("Error setting access token", slog.String("error", err.Error()))
		return "", "", err
	}

	if err = c.deps.Redis.Set(ctx, "refresh_token:"+refreshToken, "valid", c.deps.Config.Redis.RefreshTokenTTL).Err(); err != nil {
		c.deps.Logger.Error("Error setting refresh token", slog.String("error", err.Error()))
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func (c *AuthController) createToken(emp entity.Employee, tokenType string) (string, error) {
	tokenID, err := generateTokenID(c.deps.Logger)
	if err != nil {
		c.deps.Logger.Error("Error generating token ID", slog.String("error", err.Error()))
		return "", err
	}

	expiresAt := c.deps.Config.Redis.AccessTokenTTL
	if tokenType == "refresh" {
		expiresAt = c.deps.Config.Redis.RefreshTokenTTL
	}

	claims := entity.Claims{
		ID:        emp.ID,
		CompanyID: emp.CompanyID,
		Email:     *emp.Email,
		Role:      emp.Role,
		TokenID:   tokenID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresAt)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString([]byte(c.deps.Config.Server.JWTSecret))
	if err != nil {
		c.deps.Logger.Error("Error signing token", slog.String("error", err.Error()))
		return "", err
	}

	return tokenStr, nil
}

func generateTokenID(logger *slog.Logger) (string, error) {
	b := make([]byte, TokenSize)
	if _, err := rand.Read(b); err != nil {
		logger.Error("Error generating token ID", slog.String("error", err.Error()))
		return "", err
	}

	return hex.EncodeToString(b), nil
}

// AuthRefresh exchanges a valid refresh token for a fresh token pair. The old
// refresh token is revoked so it cannot be replayed.
func (c *AuthController) AuthRefresh(authHeader string) (string, string, error) {
	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenStr == authHeader {
		c.deps.Logger.Error("Invalid bearer token", slog.String("token", tokenStr))
		return "", "", errors.New("invalid bearer token")
	}

	ctx := context.Background()
	if err := c.deps.Redis.Get(ctx, "refresh_token:"+tokenStr).Err(); errors.Is(err, redis.Nil) {
		c.deps.Logger.Warn("Refresh token revoked", slog.String("token", tokenStr))
		return "", "", errors.New("refresh token revoked")
	}

	token, err := jwt.ParseWithClaims(tokenStr, &entity.Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(c.deps.Config.Server.JWTSecret), nil
	})
	if err != nil {
		c.deps.Logger.Error("Error parsing refresh token", slog.String("error", err.Error()))
		return "", "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(*entity.Claims)
	if !ok || !token.Valid {
		return "", "", errors.New("invalid token")
	}

	emp := entity.Employee{
		ID:        claims.ID,
		CompanyID: claims.CompanyID,
		Email:     &claims.Email,
		Role:      claims.Role,
	}

	accessToken, err := c.createToken(emp, "access")
	if err != nil {
		return "", "", err
	}

	refreshToken, err := c.createToken(emp, "refresh")
	if err != nil {
		return "", "", err
	}

	if err = c.deps.Redis.Set(ctx, "access_token:"+accessToken, "valid", c.deps.Config.Redis.AccessTokenTTL).Err(); err != nil {
		c.deps.Logger.Error("Error setting access token", slog.String("error", err.Error()))
		return "", "", err
	}

	if err = c.deps.Redis.Set(ctx, "refresh_token:"+refreshToken, "valid", c.deps.Config.Redis.RefreshTokenTTL).Err(); err != nil {
		c.deps.Logger.Error("Error setting refresh token", slog.String("error", err.Error()))
		return "", "", err
	}

	if err = c.deps.Redis.Del(ctx, "refresh_token:"+tokenStr).Err(); err != nil {
		c.deps.Logger.Warn("Error revoking old refresh token", slog.String("error", err.Error()))
	}

	return accessToken, refreshToken, nil
}

func (c *AuthController) CheckUserToken(authHeader string) (*entity.Claims, error) {
	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenStr == authHeader {
		c.deps.Logger.Error("Invalid bearer token", slog.String("token", tokenStr))
		return nil, errors.New("invalid bearer token")
	}

	ctx := context.Background()
	if err := c.deps.Redis.Get(ctx, "access_token:"+tokenStr).Err(); errors.Is(err, redis.Nil) {
		c.deps.Logger.Warn("Token revoked", slog.String("token", tokenStr))
		return nil, errors.New("token revoked")
	}

	token, err := jwt.ParseWithClaims(tokenStr, &entity.Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(c.deps.Config.Server.JWTSecret), nil
	})
	if err != nil {
		c.deps.Logger.Error("Error parsing token", slog.String("error", err.Error()))
		return nil, errors.New("invalid token")
	}

	if claims, ok := token.Claims.(*entity.Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
