package models

// UserRole is carried in the role claim of an access token.
type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleOrganizer UserRole = "organizer"
)
