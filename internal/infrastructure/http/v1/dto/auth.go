package dto

// LoginRequest is the request body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest is the request body for POST /auth/refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RegisterUserRequest is the request body for creating a user.
// The company is taken from the authenticated caller.
type RegisterUserRequest struct {
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=8"`
	FullName string   `json:"fullName"`
	Roles    []string `json:"roles"`
}

// SetRolesRequest replaces a user's role list.
type SetRolesRequest struct {
	Roles []string `json:"roles" binding:"required"`
}

// SetActiveRequest enables or disables a user account.
type SetActiveRequest struct {
	Active bool `json:"active"`
}

// ChangePasswordRequest is the request body for POST /auth/change-password.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}
