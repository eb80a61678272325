package domain

import "time"

// Role represents a user's role.
type Role string

// Roles.
const (
	RoleStudent  Role = "student"
	RoleLecturer Role = "lecturer"
	RoleAdmin    Role = "admin"
)

// IsValid checks if the role is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleLecturer, RoleAdmin:
		return true
	}
	return false
}

// ApprovedOnCreation reports the initial approval state for a new account of this role.
// Only administrators start approved.
func (r Role) ApprovedOnCreation() bool {
	return r == RoleAdmin
}

// User represents an account in the identity directory.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsApproved   bool      `json:"is_approved"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Surname      string    `json:"surname"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ApprovalState is the state of the account approval gate.
type ApprovalState string

// Approval states. Approved is terminal.
const (
	ApprovalUnapproved ApprovalState = "unapproved"
	ApprovalApproved   ApprovalState = "approved"
)

// ApprovalState returns the user's position in the approval state machine.
func (u *User) ApprovalState() ApprovalState {
	if u.IsApproved {
		return ApprovalApproved
	}
	return ApprovalUnapproved
}

// Identity is an authenticated caller.
type Identity struct {
	UserID string
	Role   Role
}

// ProfilePatch holds optional profile changes. Nil fields are left unchanged.
type ProfilePatch struct {
	Email        *string
	Name         *string
	Surname      *string
	PasswordHash *string
}
