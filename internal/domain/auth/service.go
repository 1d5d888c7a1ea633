package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/appctx"
	"stockroom/internal/core/id"
	"stockroom/internal/core/tx"
	"stockroom/pkg/logger"
)

const (
	maxFailedAttempts = 5
	lockDuration      = 15 * time.Minute
	refreshTokenTTL   = 7 * 24 * time.Hour
	bcryptCost        = 12
)

// Service handles authentication operations.
type Service struct {
	users  UserRepository
	tokens TokenRepository
	jwt    *JWTService
	txm    tx.Manager
}

// NewService creates an auth service.
func NewService(users UserRepository, tokens TokenRepository, jwt *JWTService, txm tx.Manager) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		jwt:    jwt,
		txm:    txm,
	}
}

// Register creates a new user account.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, apperror.NewValidation("email is required").WithDetail("field", "email")
	}
	if len(req.Password) < 8 {
		return nil, apperror.NewValidation("password must be at least 8 characters").
			WithDetail("field", "password")
	}
	for _, role := range req.Roles {
		if _, ok := rolePermissions[role]; !ok && role != RoleAdmin {
			return nil, apperror.NewValidation(fmt.Sprintf("unknown role %q", role)).
				WithDetail("field", "roles")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := NewUser(req.CompanyID, email, string(hash))
	user.FullName = req.FullName
	user.Roles = req.Roles
	if err := user.Validate(ctx); err != nil {
		return nil, err
	}

	err = s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.users.ExistsByEmail(ctx, email)
		if err != nil {
			return err
		}
		if exists {
			return apperror.NewDuplicate("User", "email", email)
		}
		return s.users.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "user registered", "user_id", user.ID.String(), "email", email)
	return user, nil
}

// Login authenticates a user and issues a token pair.
func (s *Service) Login(ctx context.Context, creds Credentials) (*TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}

	if err := user.CanLogin(); err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		user.RecordFailedLogin(maxFailedAttempts, lockDuration)
		if updErr := s.users.Update(ctx, user); updErr != nil {
			logger.Warn(ctx, "failed to record login attempt",
				"user_id", user.ID.String(), "error", updErr)
		}
		return nil, apperror.NewUnauthorized("invalid credentials")
	}

	user.RecordSuccessfulLogin()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

// RefreshToken exchanges a valid refresh token for a new token pair.
// The used token is revoked, so each refresh token works exactly once.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	stored, err := s.tokens.GetByHash(ctx, hashToken(refreshToken))
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthorized("invalid refresh token")
		}
		return nil, err
	}
	if !stored.IsValid() {
		return nil, apperror.NewUnauthorized("refresh token expired or revoked")
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, err
	}
	if err := user.CanLogin(); err != nil {
		return nil, err
	}

	var pair *TokenPair
	err = s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.tokens.Revoke(ctx, stored.ID, "rotated"); err != nil {
			return err
		}
		pair, err = s.issueTokens(ctx, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout revokes all refresh tokens of the calling user.
func (s *Service) Logout(ctx context.Context) error {
	userID, err := id.Parse(appctx.GetUserID(ctx))
	if err != nil {
		return apperror.NewUnauthorized("not authenticated")
	}
	return s.tokens.RevokeAllForUser(ctx, userID, "logout")
}

// GetUser returns one user of the caller's company.
func (s *Service) GetUser(ctx context.Context, userID id.ID) (*User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.CompanyID != appctx.GetCompanyID(ctx) {
		return nil, apperror.NewNotFound("User", userID)
	}
	return user, nil
}

// ListUsers returns the users of the caller's company.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.users.List(ctx, appctx.GetCompanyID(ctx))
}

// SetRoles replaces a user's role list.
func (s *Service) SetRoles(ctx context.Context, userID id.ID, roles []string) (*User, error) {
	for _, role := range roles {
		if _, ok := rolePermissions[role]; !ok && role != RoleAdmin {
			return nil, apperror.NewValidation(fmt.Sprintf("unknown role %q", role))
		}
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Roles = roles
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	// Outstanding refresh tokens would mint stale claims.
	if err := s.tokens.RevokeAllForUser(ctx, userID, "roles changed"); err != nil {
		logger.Warn(ctx, "failed to revoke tokens after role change",
			"user_id", userID.String(), "error", err)
	}
	return user, nil
}

// SetActive enables or disables a user account.
func (s *Service) SetActive(ctx context.Context, userID id.ID, active bool) (*User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.IsActive = active
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	if !active {
		if err := s.tokens.RevokeAllForUser(ctx, userID, "account disabled"); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// ChangePassword verifies the old password and sets a new one.
func (s *Service) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	userID, err := id.Parse(appctx.GetUserID(ctx))
	if err != nil {
		return apperror.NewUnauthorized("not authenticated")
	}
	if len(newPassword) < 8 {
		return apperror.NewValidation("password must be at least 8 characters")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return apperror.NewUnauthorized("invalid credentials")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now().UTC()

	return s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.users.Update(ctx, user); err != nil {
			return err
		}
		return s.tokens.RevokeAllForUser(ctx, userID, "password changed")
	})
}

// CleanupExpiredTokens removes refresh tokens past their expiry.
func (s *Service) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	return s.tokens.DeleteExpired(ctx, time.Now().UTC())
}

func (s *Service) issueTokens(ctx context.Context, user *User) (*TokenPair, error) {
	access, expiresAt, err := s.jwt.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	refresh := hex.EncodeToString(raw)

	stored := &RefreshToken{
		ID:        id.New(),
		UserID:    user.ID,
		TokenHash: hashToken(refresh),
		ExpiresAt: time.Now().Add(refreshTokenTTL),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.tokens.Create(ctx, stored); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
		TokenType:    "Bearer",
	}, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
