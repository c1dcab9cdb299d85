package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatusKey(t *testing.T) {
	allowed := DefaultStatusKeys

	assert.Equal(t, StatusWorking, NormalizeStatusKey("working", allowed, StatusNotUpdated))
	assert.Equal(t, StatusWorking, NormalizeStatusKey("  Working ", allowed, StatusNotUpdated))
	assert.Equal(t, StatusNotUpdated, NormalizeStatusKey("partying", allowed, StatusNotUpdated))
	assert.Equal(t, StatusNotUpdated, NormalizeStatusKey("", allowed, StatusNotUpdated))

	// a trimmed-down allowed set rejects keys outside it
	assert.Equal(t, StatusNotUpdated, NormalizeStatusKey("sick_leave", []string{StatusAvailable}, StatusNotUpdated))
}

func TestHasAdminPrivileges(t *testing.T) {
	assert.True(t, User{Role: RoleAdmin}.HasAdminPrivileges())
	assert.True(t, User{Role: RoleSuperAdmin}.HasAdminPrivileges())
	assert.False(t, User{Role: RoleTester}.HasAdminPrivileges())
	assert.False(t, User{Role: RoleClient}.HasAdminPrivileges())
}
