package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sibstore/storefront/internal/domain/entities"
	"github.com/sibstore/storefront/internal/infrastructure/config"
	"github.com/sibstore/storefront/internal/infrastructure/logger"
	"github.com/sibstore/storefront/internal/infrastructure/metrics"
	"github.com/sibstore/storefront/internal/ports"
)

// MinAdminPasswordLength is enforced when creating admins.
const MinAdminPasswordLength = 8

// ErrWeakPassword is returned when an admin password is too short.
var ErrWeakPassword = fmt.Errorf("password must be at least %d characters", MinAdminPasswordLength)

// unknownUserHash is compared against on logins for missing usernames so
// both failure paths pay for one bcrypt comparison.
var unknownUserHash = sync.OnceValue(func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("storefront-unknown-admin"), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("generate unknown user hash: %v", err))
	}
	return hash
})

// Claims represents the JWT claims. The token ID is the session ID.
type Claims struct {
	AdminID  string `json:"admin_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AuthService issues and validates admin sessions
type AuthService struct {
	adminRepo ports.AdminRepository
	sessions  ports.SessionStore
	jwtConfig config.JWTConfig
	logger    *logger.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(adminRepo ports.AdminRepository, sessions ports.SessionStore, jwtConfig config.JWTConfig, logger *logger.Logger, m *metrics.Metrics) *AuthService {
	return &AuthService{
		adminRepo: adminRepo,
		sessions:  sessions,
		jwtConfig: jwtConfig,
		logger:    logger,
		metrics:   m,
		now:       time.Now,
	}
}

// CreateAdmin stores a new admin with a bcrypt-hashed password
func (s *AuthService) CreateAdmin(ctx context.Context, username, password string) (*entities.Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	hashedPassword, err := hashAdminPassword(password)
	if err != nil {
		return nil, err
	}

	admin := &entities.Admin{
		Username:     username,
		PasswordHash: hashedPassword,
		IsActive:     true,
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, err
	}

	s.logger.Infow("Admin created", "admin_id", admin.ID, "username", admin.Username)
	return admin, nil
}

// SetPassword replaces an admin's password. Open sessions are left alone.
func (s *AuthService) SetPassword(ctx context.Context, username, password string) error {
	admin, err := s.adminRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return err
	}

	hashedPassword, err := hashAdminPassword(password)
	if err != nil {
		return err
	}

	if err := s.adminRepo.UpdatePassword(ctx, admin.ID, hashedPassword); err != nil {
		return err
	}

	s.logger.LogAdminAction(admin.ID.String(), "password_changed", nil)
	return nil
}

// SetActive enables or disables an admin account. Tokens of a disabled admin
// are rejected on their next use.
func (s *AuthService) SetActive(ctx context.Context, username string, active bool) error {
	admin, err := s.adminRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return err
	}

	if err := s.adminRepo.SetActive(ctx, admin.ID, active); err != nil {
		return err
	}

	s.logger.LogAdminAction(admin.ID.String(), "account_status_changed", map[string]interface{}{"active": active})
	return nil
}

// GetAdmin returns an admin by ID
func (s *AuthService) GetAdmin(ctx context.Context, id uuid.UUID) (*entities.Admin, error) {
	return s.adminRepo.GetByID(ctx, id)
}

// Login checks the credentials, opens a session and returns a signed token
func (s *AuthService) Login(ctx context.Context, req ports.LoginRequest, ip string) (*ports.AuthResponse, error) {
	admin, err := s.adminRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if !errors.Is(err, entities.ErrAdminNotFound) {
			return nil, err
		}
		_ = bcrypt.CompareHashAndPassword(unknownUserHash(), []byte(req.Password))
		s.logger.LogSecurityEvent("login_unknown_user", "", ip, map[string]interface{}{"username": req.Username})
		s.metrics.LoginAttempt("failure")
		return nil, entities.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.LogSecurityEvent("login_bad_password", admin.ID.String(), ip, nil)
		s.metrics.LoginAttempt("failure")
		return nil, entities.ErrInvalidCredentials
	}

	if !admin.IsActive {
		s.logger.LogSecurityEvent("login_inactive_account", admin.ID.String(), ip, nil)
		s.metrics.LoginAttempt("failure")
		return nil, entities.ErrAccountInactive
	}

	now := s.now()
	sessionID, err := newSessionID()
	if err != nil {
		return nil, err
	}
	session := &entities.Session{
		ID:        sessionID,
		AdminID:   admin.ID,
		Username:  admin.Username,
		IP:        ip,
		CreatedAt: now.UTC(),
		ExpiresAt: now.Add(s.jwtConfig.ExpiresIn).UTC(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	accessToken, err := s.generateAccessToken(admin, session)
	if err != nil {
		s.discardSession(ctx, session.ID, "token_signing_failed")
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	if err := s.adminRepo.UpdateLastLogin(ctx, admin.ID, now); err != nil {
		s.logger.Warnw("Failed to update last login time", "error", err, "admin_id", admin.ID)
	} else {
		lastLogin := now.UTC()
		admin.LastLoginAt = &lastLogin
	}

	s.metrics.LoginAttempt("success")
	s.logger.LogAdminAction(admin.ID.String(), "login", map[string]interface{}{"ip": ip})

	return &ports.AuthResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.jwtConfig.ExpiresIn.Seconds()),
		Admin:       admin,
	}, nil
}

// Logout ends a session. Tokens bound to it stop validating immediately.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// ValidateToken checks the signature and expiry, then that the session the
// token was issued for is still open and its admin is still active.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*ports.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.Secret), nil
	},
		jwt.WithIssuer(s.jwtConfig.Issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, fmt.Errorf("invalid token claims")
	}

	session, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if session.AdminID.String() != claims.AdminID {
		return nil, entities.ErrSessionNotFound
	}

	admin, err := s.adminRepo.GetByID(ctx, session.AdminID)
	if err != nil {
		if errors.Is(err, entities.ErrAdminNotFound) {
			return nil, entities.ErrSessionNotFound
		}
		return nil, err
	}
	if !admin.IsActive {
		s.discardSession(ctx, session.ID, "admin_inactive")
		return nil, entities.ErrAccountInactive
	}

	return &ports.Claims{
		AdminID:   session.AdminID,
		Username:  session.Username,
		SessionID: session.ID,
	}, nil
}

// discardSession drops a session the caller can no longer use. Failures are
// logged; the session still expires on its own.
func (s *AuthService) discardSession(ctx context.Context, id, reason string) {
	if err := s.sessions.Delete(ctx, id); err != nil {
		s.logger.Warnw("Failed to remove session", "error", err, "session_id", id, "reason", reason)
	}
}

func (s *AuthService) generateAccessToken(admin *entities.Admin, session *entities.Session) (string, error) {
	claims := &Claims{
		AdminID:  admin.ID.String(),
		Username: admin.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			NotBefore: jwt.NewNumericDate(session.CreatedAt),
			Issuer:    s.jwtConfig.Issuer,
			Subject:   admin.ID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

func newSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func hashAdminPassword(password string) (string, error) {
	if len(password) < MinAdminPasswordLength {
		return "", ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
