package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin          UserRole = "ADMIN"
	RoleProjectManager UserRole = "PROJECT_MANAGER"
	RoleDataAnalyst    UserRole = "DATA_ANALYST"
	RoleFieldAssessor  UserRole = "FIELD_ASSESSOR"
	RoleViewer         UserRole = "VIEWER"
)

// User represents an application user stored in the users table.
// The password hash is never serialized into responses.
type User struct {
	ID           int64      `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Name         string     `db:"name" json:"name"`
	Role         UserRole   `db:"role" json:"role"`
	Email        string     `db:"email" json:"email"`
	Phone        string     `db:"phone" json:"phone"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// UserPatch carries the mutable subset of user fields for partial updates.
type UserPatch struct {
	Name   *string   `json:"name"`
	Role   *UserRole `json:"role"`
	Email  *string   `json:"email"`
	Phone  *string   `json:"phone"`
	Active *bool     `json:"active"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role      *UserRole
	Active    *bool
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
