package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/matheus/courseplatform/internal/app/models/dto"
	"github.com/matheus/courseplatform/internal/app/services"
	"github.com/matheus/courseplatform/internal/middleware"
)

// UserController handles user profile operations
type UserController struct {
	userService *services.UserService
	logger      zerolog.Logger
}

// NewUserController creates a new UserController
func NewUserController(userService *services.UserService, logger zerolog.Logger) *UserController {
	return &UserController{
		userService: userService,
		logger:      logger,
	}
}

// GetAll lists all users
// @Summary List users
// @Description Returns all registered users. Admin only.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.User} "Users"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users [get]
func (c *UserController) GetAll(ctx *gin.Context) {
	users, err := c.userService.GetAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: users})
}

// GetByID returns a single user profile
// @Summary Get user by ID
// @Description Returns a user profile including purchased courses
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=models.User} "User"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/{id} [get]
func (c *UserController) GetByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	user, err := c.userService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: user})
}

// Update modifies a user profile
// @Summary Update user
// @Description Partially updates a user profile. Users may only update their own profile unless they are an admin.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body dto.UpdateUserRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=models.User} "Updated user"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 409 {object} dto.ErrorResponse "Email or CPF already registered"
// @Router /users/{id} [put]
func (c *UserController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	callerID, ok := requireAuthenticatedUser(ctx)
	if !ok {
		return
	}
	if !isSelfOrAdmin(ctx, callerID, id) {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "You can only update your own profile")
		ctx.JSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	user, err := c.userService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("userID", id).Msg("User profile updated")
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: user})
}

// ChangePassword updates the authenticated user's password
// @Summary Change password
// @Description Changes the password of the authenticated user after checking the current one
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Password changed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Current password does not match"
// @Failure 409 {object} dto.ErrorResponse "New password equals the current one"
// @Router /users/me/password [put]
func (c *UserController) ChangePassword(ctx *gin.Context) {
	userID, ok := requireAuthenticatedUser(ctx)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	if err := c.userService.ChangePassword(ctx.Request.Context(), userID, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("userID", userID).Msg("Password changed")
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Password changed successfully"},
	})
}

// Delete removes a user account
// @Summary Delete user
// @Description Deletes a user account and its profile picture. Users may only delete their own account unless they are an admin.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "User deleted"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{id} [delete]
func (c *UserController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	callerID, ok := requireAuthenticatedUser(ctx)
	if !ok {
		return
	}
	if !isSelfOrAdmin(ctx, callerID, id) {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "You can only delete your own account")
		ctx.JSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.userService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("userID", id).Msg("User deleted")
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "User deleted successfully"},
	})
}

// UploadProfilePicture stores a new profile picture for the caller
// @Summary Upload profile picture
// @Description Uploads a profile picture (jpg, jpeg, png or webp) for the authenticated user and replaces any previous one
// @Tags users
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image file"
// @Success 200 {object} dto.APIResponse{data=map[string]string} "Picture URL"
// @Failure 400 {object} dto.ErrorResponse "Missing file or unsupported extension"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/me/profile-picture [post]
func (c *UserController) UploadProfilePicture(ctx *gin.Context) {
	userID, ok := requireAuthenticatedUser(ctx)
	if !ok {
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Missing file upload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	url, err := c.userService.UploadProfilePicture(ctx.Request.Context(), userID, fileHeader)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("userID", userID).Str("url", url).Msg("Profile picture uploaded")
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: map[string]string{"profilePictureUrl": url},
	})
}

// RemoveProfilePicture deletes the caller's profile picture
// @Summary Remove profile picture
// @Description Removes the authenticated user's profile picture
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Picture removed"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/me/profile-picture [delete]
func (c *UserController) RemoveProfilePicture(ctx *gin.Context) {
	userID, ok := requireAuthenticatedUser(ctx)
	if !ok {
		return
	}

	if err := c.userService.RemoveProfilePicture(ctx.Request.Context(), userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Profile picture removed"},
	})
}

// GetPurchasedCourses lists the caller's unlocked courses
// @Summary List purchased courses
// @Description Returns the courses the authenticated user has unlocked
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Course} "Courses"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /users/me/courses [get]
func (c *UserController) GetPurchasedCourses(ctx *gin.Context) {
	userID, ok := requireAuthenticatedUser(ctx)
	if !ok {
		return
	}

	courses, err := c.userService.GetPurchasedCourses(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: courses})
}
