package domain

import "strings"

// JobRole is a role the user can practice for, as listed by the job-roles endpoint.
type JobRole struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// RoleTitle returns the title sent with every AI request for the given role,
// falling back to DefaultJobRoleTitle when the role is absent or untitled.
func RoleTitle(role *JobRole) string {
	if role == nil {
		return DefaultJobRoleTitle
	}
	if title := strings.TrimSpace(role.Title); title != "" {
		return title
	}
	return DefaultJobRoleTitle
}

// SameRole reports whether a and b identify the same role.
func SameRole(a, b *JobRole) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID && a.Title == b.Title
}
