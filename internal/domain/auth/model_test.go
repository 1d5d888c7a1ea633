package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginLockout(t *testing.T) {
	user := NewUser("acme", "user@example.com", "hash")
	require.NoError(t, user.CanLogin())

	for i := 0; i < 4; i++ {
		user.RecordFailedLogin(5, 15*time.Minute)
	}
	assert.False(t, user.IsLocked())
	assert.NoError(t, user.CanLogin())

	user.RecordFailedLogin(5, 15*time.Minute)
	assert.True(t, user.IsLocked())
	assert.Error(t, user.CanLogin())

	user.RecordSuccessfulLogin()
	assert.False(t, user.IsLocked())
	assert.Zero(t, user.FailedLoginAttempts)
	assert.NotNil(t, user.LastLoginAt)
	assert.NoError(t, user.CanLogin())
}

func TestLockExpires(t *testing.T) {
	user := NewUser("acme", "user@example.com", "hash")
	past := time.Now().Add(-time.Minute)
	user.LockedUntil = &past

	assert.False(t, user.IsLocked())
	assert.NoError(t, user.CanLogin())
}

func TestCanLoginRejectsInactive(t *testing.T) {
	user := NewUser("acme", "user@example.com", "hash")
	user.IsActive = false
	assert.Error(t, user.CanLogin())
}

func TestPermissionsForRoles(t *testing.T) {
	perms := PermissionsForRoles([]string{RoleWarehouse, RoleCashier})

	assert.Contains(t, perms, PermPickExecute)
	assert.Contains(t, perms, PermPOSSell)
	assert.NotContains(t, perms, PermUserManage)

	// Shared grants appear once.
	count := 0
	for _, p := range perms {
		if p == PermItemRead {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestPermissionsUnknownRole(t *testing.T) {
	assert.Empty(t, PermissionsForRoles([]string{"ghost"}))
}
