package dto

// UpdateUserRequest represents a partial user profile update.
// Zero-value fields are left unchanged.
type UpdateUserRequest struct {
	Name       string `json:"name" binding:"omitempty,min=2,max=100"`
	Email      string `json:"email" binding:"omitempty,email"`
	State      string `json:"state" binding:"omitempty,max=100"`
	Bio        string `json:"bio" binding:"omitempty,max=500"`
	CPF        string `json:"cpf" binding:"omitempty,len=11,numeric"`
	Profession string `json:"profession" binding:"omitempty,max=100"`
}

// ChangePasswordRequest represents a password change for a logged-in user
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}
