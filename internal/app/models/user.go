package models

import (
	"time"
)

// RoleType represents a user role
type RoleType string

// Valid user roles
const (
	RoleAdmin     RoleType = "ADMIN"
	RoleProfessor RoleType = "PROFESSOR"
	RoleStudent   RoleType = "STUDENT"
)

// IsValid reports whether the role is one of the accepted values.
func (r RoleType) IsValid() bool {
	switch r {
	case RoleAdmin, RoleProfessor, RoleStudent:
		return true
	}
	return false
}

// User defines the user model based on the 'users' table
type User struct {
	ID                int64     `json:"id" db:"id" example:"1"`                                   // Unique identifier for the user
	Name              string    `json:"name" db:"name" example:"Maria Silva"`                     // User's full name
	Email             string    `json:"email" db:"email" example:"maria@example.com"`             // User's email address (unique)
	Password          string    `json:"-" db:"password"`                                          // User's hashed password (excluded from JSON)
	Role              RoleType  `json:"role" db:"role" example:"STUDENT"`                         // ADMIN, PROFESSOR or STUDENT
	CPF               string    `json:"cpf" db:"cpf" example:"12345678901"`                       // Brazilian taxpayer id (unique, 11 digits)
	State             string    `json:"state" db:"state" example:"Brasília-DF"`                   // Brazilian state of residence
	Bio               string    `json:"bio" db:"bio"`                                             // Short profile text
	Profession        string    `json:"profession" db:"profession" example:"Enfermeira"`          // Declared profession
	ProfilePictureURL *string   `json:"profilePictureUrl,omitempty" db:"profile_picture_url"`     // URL of the profile picture (nullable)
	CreatedAt         time.Time `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"` // Timestamp when the user was created
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at" example:"2024-01-02T15:30:00Z"` // Timestamp when the user was last updated

	// Courses the user is entitled to (populated when needed)
	Courses []*Course `json:"courses,omitempty"`
}
