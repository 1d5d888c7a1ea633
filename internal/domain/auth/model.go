// Package auth provides authentication and authorization domain logic.
package auth

import (
	"context"
	"time"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
)

// Role codes.
const (
	RoleAdmin     = "admin"
	RoleManager   = "manager"
	RoleWarehouse = "warehouse"
	RoleCashier   = "cashier"
)

// Permission codes follow the resource.action convention used by the
// route permission middleware.
const (
	PermItemRead       = "item.read"
	PermItemWrite      = "item.write"
	PermWarehouseRead  = "warehouse.read"
	PermWarehouseWrite = "warehouse.write"
	PermStockRead      = "stock.read"
	PermStockPost      = "stock.post"
	PermAdjustApprove  = "adjustment.approve"
	PermPickExecute    = "pick.execute"
	PermPOSSell        = "pos.sell"
	PermReportRead     = "report.read"
	PermUserManage     = "user.manage"
)

// rolePermissions maps each role to its grants. Admins bypass the check
// entirely, so the admin role carries no explicit list.
var rolePermissions = map[string][]string{
	RoleManager: {
		PermItemRead, PermItemWrite,
		PermWarehouseRead, PermWarehouseWrite,
		PermStockRead, PermStockPost,
		PermAdjustApprove,
		PermReportRead,
	},
	RoleWarehouse: {
		PermItemRead,
		PermWarehouseRead,
		PermStockRead, PermStockPost,
		PermPickExecute,
	},
	RoleCashier: {
		PermItemRead,
		PermStockRead,
		PermPOSSell,
	},
}

// PermissionsForRoles flattens role grants into a permission list.
func PermissionsForRoles(roles []string) []string {
	seen := make(map[string]struct{})
	var perms []string
	for _, role := range roles {
		for _, p := range rolePermissions[role] {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			perms = append(perms, p)
		}
	}
	return perms
}

// User represents a system user. Users belong to exactly one company.
type User struct {
	ID                  id.ID      `db:"id" json:"id"`
	CompanyID           string     `db:"company_id" json:"companyId"`
	Email               string     `db:"email" json:"email"`
	PasswordHash        string     `db:"password_hash" json:"-"`
	FullName            string     `db:"full_name" json:"fullName,omitempty"`
	Roles               []string   `db:"roles" json:"roles"`
	IsActive            bool       `db:"is_active" json:"isActive"`
	IsAdmin             bool       `db:"is_admin" json:"isAdmin"`
	LastLoginAt         *time.Time `db:"last_login_at" json:"lastLoginAt,omitempty"`
	FailedLoginAttempts int        `db:"failed_login_attempts" json:"-"`
	LockedUntil         *time.Time `db:"locked_until" json:"-"`
	CreatedAt           time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updatedAt"`
	Version             int        `db:"version" json:"version"`
}

// NewUser creates a new user.
func NewUser(companyID, email, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		ID:           id.New(),
		CompanyID:    companyID,
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
		Version:      1,
	}
}

// Validate validates user data.
func (u *User) Validate(ctx context.Context) error {
	if u.Email == "" {
		return apperror.NewValidation("email is required").WithDetail("field", "email")
	}
	if u.CompanyID == "" {
		return apperror.NewValidation("company is required").WithDetail("field", "companyId")
	}
	return nil
}

// IsLocked returns true if account is locked.
func (u *User) IsLocked() bool {
	if u.LockedUntil == nil {
		return false
	}
	return time.Now().Before(*u.LockedUntil)
}

// CanLogin checks if user can login.
func (u *User) CanLogin() error {
	if !u.IsActive {
		return apperror.NewForbidden("account is disabled")
	}
	if u.IsLocked() {
		return apperror.NewForbidden("account is temporarily locked")
	}
	return nil
}

// RecordFailedLogin increments failed login counter.
func (u *User) RecordFailedLogin(maxAttempts int, lockDuration time.Duration) {
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= maxAttempts {
		lockUntil := time.Now().Add(lockDuration)
		u.LockedUntil = &lockUntil
	}
}

// RecordSuccessfulLogin resets failed login counter.
func (u *User) RecordSuccessfulLogin() {
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	now := time.Now()
	u.LastLoginAt = &now
}

// Permissions returns the flattened permission list for the user's roles.
func (u *User) Permissions() []string {
	return PermissionsForRoles(u.Roles)
}

// RefreshToken represents a refresh token for JWT refresh.
type RefreshToken struct {
	ID            id.ID      `db:"id"`
	UserID        id.ID      `db:"user_id"`
	TokenHash     string     `db:"token_hash"`
	ExpiresAt     time.Time  `db:"expires_at"`
	CreatedAt     time.Time  `db:"created_at"`
	RevokedAt     *time.Time `db:"revoked_at"`
	RevokedReason string     `db:"revoked_reason"`
}

// IsValid checks if refresh token is valid.
func (t *RefreshToken) IsValid() bool {
	if t.RevokedAt != nil {
		return false
	}
	return time.Now().Before(t.ExpiresAt)
}

// TokenPair contains access and refresh tokens.
type TokenPair struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	TokenType    string    `json:"tokenType"`
}

// Credentials for login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest for user registration.
type RegisterRequest struct {
	CompanyID string   `json:"companyId"`
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	FullName  string   `json:"fullName,omitempty"`
	Roles     []string `json:"roles,omitempty"`
}
