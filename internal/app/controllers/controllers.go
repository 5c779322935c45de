package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/matheus/courseplatform/internal/app/models"
	"github.com/matheus/courseplatform/internal/app/models/dto"
	"github.com/matheus/courseplatform/internal/middleware"
)

// parseIDParam reads a positive int64 path parameter. It writes a 400
// response and returns false when the value is missing or malformed.
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	value, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || value <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name+" parameter")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return value, true
}

// requireAuthenticatedUser reads the user ID set by the auth middleware.
// It writes a 401 response and returns false when it is missing.
func requireAuthenticatedUser(ctx *gin.Context) (int64, bool) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return userID, true
}

// isSelfOrAdmin reports whether the authenticated caller may act on the
// target user's account.
func isSelfOrAdmin(ctx *gin.Context, callerID, targetID int64) bool {
	if callerID == targetID {
		return true
	}
	role, _ := ctx.Get("role")
	roleStr, _ := role.(string)
	return roleStr == string(models.RoleAdmin)
}
