package dto

// SubCourseInput describes a sub-course created together with its parent
type SubCourseInput struct {
	Title       string  `json:"title" binding:"required,min=2,max=200"`
	Description string  `json:"description" binding:"required"`
	VideoURL    string  `json:"videoUrl" binding:"omitempty,url"`
	CoverImage  string  `json:"coverImage" binding:"omitempty"`
	Price       float64 `json:"price" binding:"omitempty,gte=0"`
}

// CreateCourseRequest represents a top-level course creation request.
// SubCourses, when present, are created atomically with the parent.
type CreateCourseRequest struct {
	Title       string           `json:"title" binding:"required,min=2,max=200"`
	Description string           `json:"description" binding:"required"`
	Price       float64          `json:"price" binding:"required,gte=0"`
	VideoURL    string           `json:"videoUrl" binding:"omitempty,url"`
	CoverImage  string           `json:"coverImage" binding:"omitempty"`
	SubCourses  []SubCourseInput `json:"subCourses" binding:"omitempty,dive"`
}

// CreateSubCourseRequest attaches a new sub-course to an existing parent
type CreateSubCourseRequest struct {
	Title       string  `json:"title" binding:"required,min=2,max=200"`
	Description string  `json:"description" binding:"required"`
	VideoURL    string  `json:"videoUrl" binding:"omitempty,url"`
	CoverImage  string  `json:"coverImage" binding:"omitempty"`
	Price       float64 `json:"price" binding:"omitempty,gte=0"`
}

// UpdateCourseRequest represents a partial course update.
// Nil pointers leave the corresponding column unchanged.
type UpdateCourseRequest struct {
	Title       *string  `json:"title" binding:"omitempty,min=2,max=200"`
	Description *string  `json:"description" binding:"omitempty"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	VideoURL    *string  `json:"videoUrl" binding:"omitempty,url"`
	CoverImage  *string  `json:"coverImage" binding:"omitempty"`
}
