package models

import (
	"time"
)

// Question is a quiz question belonging to exactly one course.
// Questions are deleted together with their owning course.
type Question struct {
	ID        int64     `json:"id" db:"id"`
	CourseID  int64     `json:"courseId" db:"course_id"`
	Title     string    `json:"title" db:"title"`
	Options   []string  `json:"options" db:"options"` // Ordered answer options
	Answer    int       `json:"answer" db:"answer"`   // Index into Options
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
