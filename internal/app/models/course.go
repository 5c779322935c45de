package models

import (
	"time"
)

// Course represents a course or sub-course offered on the platform.
// A course with ParentCourseID set is a sub-course of that parent;
// the hierarchy is a single-level tree in practice but the store does
// not assume a depth limit.
type Course struct {
	ID             int64     `json:"id" db:"id" example:"1"`
	Title          string    `json:"title" db:"title" example:"Enfermagem Estética"`
	Description    string    `json:"description" db:"description"`
	Price          float64   `json:"price" db:"price" example:"99.90"` // Non-negative, in BRL
	VideoURL       *string   `json:"videoUrl,omitempty" db:"video_url"`
	CoverImage     *string   `json:"coverImage,omitempty" db:"cover_image"`
	ParentCourseID *int64    `json:"parentCourseId,omitempty" db:"parent_course_id"` // Nullable self-reference
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	SubCourses []*Course `json:"subCourses,omitempty"`
}
