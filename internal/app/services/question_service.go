package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/matheus/courseplatform/internal/app/models"
	"github.com/matheus/courseplatform/internal/app/models/dto"
	"github.com/matheus/courseplatform/internal/app/repositories"
	"github.com/matheus/courseplatform/internal/pkg/apperrors"
)

// QuestionService handles quiz question operations
type QuestionService struct {
	questionRepo repositories.IQuestionRepository
	courseRepo   repositories.ICourseRepository
	logger       zerolog.Logger
}

// NewQuestionService creates a new QuestionService
func NewQuestionService(
	questionRepo repositories.IQuestionRepository,
	courseRepo repositories.ICourseRepository,
	logger zerolog.Logger,
) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		courseRepo:   courseRepo,
		logger:       logger,
	}
}

// AddQuestion attaches a quiz question to a course
func (s *QuestionService) AddQuestion(ctx context.Context, courseID int64, req *dto.CreateQuestionRequest) (*models.Question, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	if *req.Answer >= len(req.Options) {
		return nil, apperrors.NewValidationError("Answer index must point to one of the options")
	}

	question := &models.Question{
		CourseID: courseID,
		Title:    req.Title,
		Options:  req.Options,
		Answer:   *req.Answer,
	}

	if err := s.questionRepo.Create(ctx, question); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("questionId", question.ID).Int64("courseId", courseID).Msg("Question added")
	return question, nil
}

// GetByCourse lists all questions of a course
func (s *QuestionService) GetByCourse(ctx context.Context, courseID int64) ([]*models.Question, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.questionRepo.GetByCourseID(ctx, courseID)
}

// Update applies a partial question update, keeping the answer index
// consistent with the option list.
func (s *QuestionService) Update(ctx context.Context, id int64, req *dto.UpdateQuestionRequest) (*models.Question, error) {
	question, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		question.Title = *req.Title
	}
	if req.Options != nil {
		question.Options = req.Options
	}
	if req.Answer != nil {
		question.Answer = *req.Answer
	}

	if question.Answer >= len(question.Options) {
		return nil, apperrors.NewValidationError("Answer index must point to one of the options")
	}

	if err := s.questionRepo.Update(ctx, question); err != nil {
		return nil, err
	}

	return question, nil
}

// Delete removes a question
func (s *QuestionService) Delete(ctx context.Context, id int64) error {
	return s.questionRepo.Delete(ctx, id)
}
