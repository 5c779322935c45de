package services

import (
	"context"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/matheus/courseplatform/internal/app/models"
	"github.com/matheus/courseplatform/internal/app/models/dto"
	"github.com/matheus/courseplatform/internal/app/repositories"
	"github.com/matheus/courseplatform/internal/pkg/apperrors"
	"github.com/matheus/courseplatform/internal/pkg/auth"
	"github.com/matheus/courseplatform/internal/pkg/filestorage"
	"github.com/matheus/courseplatform/internal/pkg/validation"
)

const profilePictureDir = "profiles"

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// UserService handles user profile operations
type UserService struct {
	userRepo repositories.IUserRepository
	storage  filestorage.FileStorage
	logger   zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo repositories.IUserRepository,
	storage filestorage.FileStorage,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		storage:  storage,
		logger:   logger,
	}
}

// GetAll lists all users
func (s *UserService) GetAll(ctx context.Context) ([]*models.User, error) {
	return s.userRepo.GetAll(ctx)
}

// GetByID retrieves a user with their purchased courses
func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	courses, err := s.userRepo.GetPurchasedCourses(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Courses = courses

	return user, nil
}

// Update applies a partial profile update
func (s *UserService) Update(ctx context.Context, id int64, req *dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		if !validation.IsValidEmail(req.Email) {
			return nil, apperrors.NewValidationError("Invalid email format")
		}
		user.Email = req.Email
	}
	if req.State != "" {
		user.State = req.State
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}
	if req.CPF != "" {
		if !validation.IsValidCPF(req.CPF) {
			return nil, apperrors.NewCustomError(apperrors.ErrInvalidCPF, "CPF must contain exactly 11 digits")
		}
		user.CPF = req.CPF
	}
	if req.Profession != "" {
		user.Profession = req.Profession
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// ChangePassword replaces a user's password after verifying the current one
func (s *UserService) ChangePassword(ctx context.Context, id int64, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(user.Password, req.CurrentPassword) {
		return apperrors.ErrInvalidCredentials
	}

	if req.CurrentPassword == req.NewPassword {
		return apperrors.ErrSamePassword
	}

	hashedPassword, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	return s.userRepo.UpdatePassword(ctx, id, hashedPassword)
}

// Delete removes a user account and its stored profile picture
func (s *UserService) Delete(ctx context.Context, id int64) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	if user.ProfilePictureURL != nil {
		if err := s.storage.DeleteFile(*user.ProfilePictureURL); err != nil {
			s.logger.Warn().Err(err).Int64("userId", id).Msg("Failed to delete profile picture file")
		}
	}

	s.logger.Info().Int64("userId", id).Msg("User deleted")
	return nil
}

// UploadProfilePicture stores a new profile picture and replaces the
// previous one
func (s *UserService) UploadProfilePicture(ctx context.Context, id int64, fileHeader *multipart.FileHeader) (string, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedImageExtensions[ext] {
		return "", apperrors.NewValidationError("Profile picture must be a jpg, jpeg, png or webp image")
	}

	pictureURL, err := s.storage.SaveFileWithPath(fileHeader, profilePictureDir)
	if err != nil {
		return "", err
	}

	oldPicture := user.ProfilePictureURL
	if err := s.userRepo.UpdateProfilePicture(ctx, id, &pictureURL); err != nil {
		_ = s.storage.DeleteFile(pictureURL)
		return "", err
	}

	if oldPicture != nil {
		if err := s.storage.DeleteFile(*oldPicture); err != nil {
			s.logger.Warn().Err(err).Int64("userId", id).Msg("Failed to delete old profile picture")
		}
	}

	return pictureURL, nil
}

// RemoveProfilePicture clears a user's profile picture
func (s *UserService) RemoveProfilePicture(ctx context.Context, id int64) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if user.ProfilePictureURL == nil {
		return apperrors.NewNotFoundError("User has no profile picture")
	}

	if err := s.userRepo.UpdateProfilePicture(ctx, id, nil); err != nil {
		return err
	}

	if err := s.storage.DeleteFile(*user.ProfilePictureURL); err != nil {
		s.logger.Warn().Err(err).Int64("userId", id).Msg("Failed to delete profile picture file")
	}

	return nil
}

// GetPurchasedCourses lists the courses a user has unlocked
func (s *UserService) GetPurchasedCourses(ctx context.Context, id int64) ([]*models.Course, error) {
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.userRepo.GetPurchasedCourses(ctx, id)
}
