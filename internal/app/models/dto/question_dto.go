package dto

// CreateQuestionRequest represents a quiz question creation request.
// Answer is the zero-based index into Options.
type CreateQuestionRequest struct {
	Title   string   `json:"title" binding:"required,min=2"`
	Options []string `json:"options" binding:"required,min=2,dive,required"`
	Answer  *int     `json:"answer" binding:"required,gte=0"`
}

// UpdateQuestionRequest represents a partial question update
type UpdateQuestionRequest struct {
	Title   *string  `json:"title" binding:"omitempty,min=2"`
	Options []string `json:"options" binding:"omitempty,min=2,dive,required"`
	Answer  *int     `json:"answer" binding:"omitempty,gte=0"`
}
