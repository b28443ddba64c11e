package model

// Package model contains the domain records persisted by the storage
// layer. These are pure data structures with no backend-specific
// dependencies or tags; both the JSON and the relational engines
// serialize them as-is.

// Role enumerates admin-panel user roles.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEditor
}

// ContactStatus enumerates the workflow states of a contact submission.
type ContactStatus string

const (
	ContactNew        ContactStatus = "new"
	ContactProcessing ContactStatus = "processing"
	ContactCompleted  ContactStatus = "completed"
)

// Valid reports whether s is a known status.
func (s ContactStatus) Valid() bool {
	return s == ContactNew || s == ContactProcessing || s == ContactCompleted
}
