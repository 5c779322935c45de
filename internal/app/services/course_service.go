package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/matheus/courseplatform/internal/app/models"
	"github.com/matheus/courseplatform/internal/app/models/dto"
	"github.com/matheus/courseplatform/internal/app/repositories"
	"github.com/matheus/courseplatform/internal/pkg/apperrors"
)

// CourseService handles course catalog operations
type CourseService struct {
	courseRepo repositories.ICourseRepository
	logger     zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(courseRepo repositories.ICourseRepository, logger zerolog.Logger) *CourseService {
	return &CourseService{
		courseRepo: courseRepo,
		logger:     logger,
	}
}

func courseFromCreateRequest(req *dto.CreateCourseRequest) *models.Course {
	course := &models.Course{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
	}
	if req.VideoURL != "" {
		course.VideoURL = &req.VideoURL
	}
	if req.CoverImage != "" {
		course.CoverImage = &req.CoverImage
	}
	return course
}

func courseFromSubCourseInput(input *dto.SubCourseInput) *models.Course {
	course := &models.Course{
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
	}
	if input.VideoURL != "" {
		course.VideoURL = &input.VideoURL
	}
	if input.CoverImage != "" {
		course.CoverImage = &input.CoverImage
	}
	return course
}

// Create creates a course, together with its sub-courses when present
func (s *CourseService) Create(ctx context.Context, req *dto.CreateCourseRequest) (*models.Course, error) {
	course := courseFromCreateRequest(req)

	if len(req.SubCourses) == 0 {
		if err := s.courseRepo.Create(ctx, course); err != nil {
			return nil, err
		}
		s.logger.Info().Int64("courseId", course.ID).Msg("Course created")
		return course, nil
	}

	subCourses := make([]*models.Course, 0, len(req.SubCourses))
	for i := range req.SubCourses {
		subCourses = append(subCourses, courseFromSubCourseInput(&req.SubCourses[i]))
	}

	if err := s.courseRepo.CreateWithSubCourses(ctx, course, subCourses); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("courseId", course.ID).Int("subCourses", len(subCourses)).Msg("Course created with sub-courses")
	return course, nil
}

// AddSubCourse attaches a new sub-course to an existing parent. Only
// one level of nesting is supported.
func (s *CourseService) AddSubCourse(ctx context.Context, parentID int64, req *dto.CreateSubCourseRequest) (*models.Course, error) {
	parent, err := s.courseRepo.GetByID(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if parent.ParentCourseID != nil {
		return nil, apperrors.NewValidationError("Sub-courses cannot have their own sub-courses")
	}

	sub := &models.Course{
		Title:          req.Title,
		Description:    req.Description,
		Price:          req.Price,
		ParentCourseID: &parentID,
	}
	if req.VideoURL != "" {
		sub.VideoURL = &req.VideoURL
	}
	if req.CoverImage != "" {
		sub.CoverImage = &req.CoverImage
	}

	if err := s.courseRepo.Create(ctx, sub); err != nil {
		return nil, err
	}

	return sub, nil
}

// GetAll lists all top-level courses with their sub-courses
func (s *CourseService) GetAll(ctx context.Context) ([]*models.Course, error) {
	return s.courseRepo.GetAll(ctx)
}

// GetByID retrieves a course with its sub-courses
func (s *CourseService) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	return s.courseRepo.GetByID(ctx, id)
}

// GetSubCourses lists the sub-courses of a parent course
func (s *CourseService) GetSubCourses(ctx context.Context, parentID int64) ([]*models.Course, error) {
	if _, err := s.courseRepo.GetByID(ctx, parentID); err != nil {
		return nil, err
	}
	return s.courseRepo.GetSubCourses(ctx, parentID)
}

// GetSubCourseByID retrieves a sub-course scoped to its parent
func (s *CourseService) GetSubCourseByID(ctx context.Context, parentID, subCourseID int64) (*models.Course, error) {
	return s.courseRepo.GetSubCourseByID(ctx, parentID, subCourseID)
}

// Update applies a partial course update
func (s *CourseService) Update(ctx context.Context, id int64, req *dto.UpdateCourseRequest) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if req.VideoURL != nil {
		course.VideoURL = req.VideoURL
	}
	if req.CoverImage != nil {
		course.CoverImage = req.CoverImage
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}

	return course, nil
}

// Delete removes a course. Courses with sub-courses are rejected until
// their children are removed.
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	if err := s.courseRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("courseId", id).Msg("Course deleted")
	return nil
}
