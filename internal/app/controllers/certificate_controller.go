package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/matheus/courseplatform/internal/app/services"
	"github.com/matheus/courseplatform/internal/middleware"
)

// CertificateController handles completion certificate downloads
type CertificateController struct {
	certificateService *services.CertificateService
	logger             zerolog.Logger
}

// NewCertificateController creates a new CertificateController
func NewCertificateController(certificateService *services.CertificateService, logger zerolog.Logger) *CertificateController {
	return &CertificateController{
		certificateService: certificateService,
		logger:             logger,
	}
}

// Download generates and returns a completion certificate
// @Summary Download certificate
// @Description Generates a PDF completion certificate for a course the authenticated user has unlocked
// @Tags certificates
// @Produce application/pdf
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {file} file "Certificate PDF"
// @Failure 403 {object} dto.ErrorResponse "Course has not been unlocked"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/certificate [get]
func (c *CertificateController) Download(ctx *gin.Context) {
	userID, ok := requireAuthenticatedUser(ctx)
	if !ok {
		return
	}
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	pdf, filename, err := c.certificateService.Generate(ctx.Request.Context(), userID, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Int64("userID", userID).
		Int64("courseID", courseID).
		Msg("Certificate generated")

	ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	ctx.Data(http.StatusOK, "application/pdf", pdf)
}
