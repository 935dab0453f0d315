package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/prestaflow/lending_backend/internal/apperrors"
	"github.com/prestaflow/lending_backend/internal/core/domain"
	portsrepo "github.com/prestaflow/lending_backend/internal/core/ports/repositories"
	portssvc "github.com/prestaflow/lending_backend/internal/core/ports/services"
	"github.com/prestaflow/lending_backend/internal/dto"
	"github.com/prestaflow/lending_backend/internal/middleware"
)

// ErrBadCredentials deliberately does not distinguish an unknown username
// from a wrong password.
var ErrBadCredentials = fmt.Errorf("%w: invalid username or password", apperrors.ErrUnauthorized)

// identityClaims carries the resolved identity inside the signed token so
// request handling never re-walks the role/permission graph.
type identityClaims struct {
	Username    string   `json:"username"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

type authService struct {
	userRepo portsrepo.UserRepositoryFacade

	jwtSecret   string
	jwtIssuer   string
	jwtDuration time.Duration
}

// NewAuthService creates the identity service.
func NewAuthService(userRepo portsrepo.UserRepositoryFacade, jwtSecret, jwtIssuer string, jwtDuration time.Duration) portssvc.AuthSvcFacade {
	return &authService{
		userRepo:    userRepo,
		jwtSecret:   jwtSecret,
		jwtIssuer:   jwtIssuer,
		jwtDuration: jwtDuration,
	}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

// Login validates the credential and issues a signed token carrying the
// resolved permission set.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user.Status != "ACTIVE" {
		return nil, ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrBadCredentials
	}

	now := time.Now()
	expiresAt := now.Add(s.jwtDuration)
	claims := identityClaims{
		Username:    user.Username,
		Roles:       user.Roles,
		Permissions: user.Permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.jwtIssuer,
			Subject:   strconv.FormatInt(user.UserID, 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		logger.Error("Failed to sign JWT token", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	logger.Info("User logged in", slog.Int64("user_id", user.UserID), slog.String("username", user.Username))
	return &dto.LoginResponse{
		Token:       signed,
		ExpiresAt:   expiresAt,
		UserID:      user.UserID,
		Username:    user.Username,
		Roles:       user.Roles,
		Permissions: user.Permissions,
	}, nil
}

// ResolveToken validates a bearer token and returns the identity it encodes.
func (s *authService) ResolveToken(_ context.Context, tokenString string) (*domain.CallerIdentity, error) {
	claims := &identityClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithIssuer(s.jwtIssuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnauthorized, err.Error())
	}
	if !token.Valid {
		return nil, fmt.Errorf("%w: token is invalid", apperrors.ErrUnauthorized)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: token subject is not a user id", apperrors.ErrUnauthorized)
	}

	return &domain.CallerIdentity{
		UserID:      userID,
		Username:    claims.Username,
		Roles:       claims.Roles,
		Permissions: claims.Permissions,
	}, nil
}

// Authorize answers the single permission question the core operations ask.
func (s *authService) Authorize(caller domain.CallerIdentity, permission string) error {
	if !caller.HasPermission(permission) {
		return fmt.Errorf("%w: missing permission %s", apperrors.ErrForbidden, permission)
	}
	return nil
}
