package models

import "time"

// Role constants. Admin privileges cover both admin and super_admin.
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
	RoleTester     = "tester"
	RoleClient     = "client"
)

type User struct {
	User_ID         int       `json:"userId" goqu:"skipinsert"`
	Username        string    `json:"username"`
	Password        string    `json:"-"`
	Full_Name       string    `json:"fullName"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	Is_Active       bool      `json:"isActive"`
	Created_By      int       `json:"createdBy"`
	Datetime_Create time.Time `json:"datetimeCreate" goqu:"skipinsert"`
	Updated_By      int       `json:"updatedBy"`
	Datetime_Update time.Time `json:"datetimeUpdate" goqu:"skipinsert"`
	Deleted         bool      `json:"deleted" goqu:"skipinsert"`
}

// HasAdminPrivileges reports whether the user's role grants admin access.
func (u User) HasAdminPrivileges() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

type UserSignup struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	Full_Name string `json:"fullName"`
	Role      string `json:"role"`
}

type Login struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
