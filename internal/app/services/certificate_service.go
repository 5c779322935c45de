package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/matheus/courseplatform/internal/app/repositories"
	"github.com/matheus/courseplatform/internal/pkg/apperrors"
	"github.com/matheus/courseplatform/internal/pkg/certificate"
)

// CertificateService issues completion certificates for unlocked courses
type CertificateService struct {
	userRepo        repositories.IUserRepository
	courseRepo      repositories.ICourseRepository
	entitlementRepo repositories.IEntitlementRepository
	generator       *certificate.Generator
	logger          zerolog.Logger
}

// NewCertificateService creates a new CertificateService
func NewCertificateService(
	userRepo repositories.IUserRepository,
	courseRepo repositories.ICourseRepository,
	entitlementRepo repositories.IEntitlementRepository,
	generator *certificate.Generator,
	logger zerolog.Logger,
) *CertificateService {
	return &CertificateService{
		userRepo:        userRepo,
		courseRepo:      courseRepo,
		entitlementRepo: entitlementRepo,
		generator:       generator,
		logger:          logger,
	}
}

// Generate renders a certificate PDF for a course the user has
// unlocked. Returns the document bytes and a suggested filename.
func (s *CertificateService) Generate(ctx context.Context, userID, courseID int64) ([]byte, string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, "", err
	}

	unlocked, err := s.entitlementRepo.HasApproved(ctx, userID, courseID)
	if err != nil {
		return nil, "", err
	}
	if !unlocked {
		return nil, "", apperrors.NewCustomError(apperrors.ErrPermissionDenied, "Course has not been unlocked")
	}

	pdf, err := s.generator.Generate(certificate.Data{
		StudentName: user.Name,
		CourseTitle: course.Title,
		IssuedAt:    time.Now(),
	})
	if err != nil {
		return nil, "", fmt.Errorf("error generating certificate: %w", err)
	}

	filename := fmt.Sprintf("certificate-%d-%d.pdf", userID, courseID)

	s.logger.Info().Int64("userId", userID).Int64("courseId", courseID).Msg("Certificate generated")
	return pdf, filename, nil
}
