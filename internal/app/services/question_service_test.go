package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matheus/courseplatform/internal/app/models"
	"github.com/matheus/courseplatform/internal/app/models/dto"
	"github.com/matheus/courseplatform/internal/pkg/apperrors"
)

func intPtr(v int) *int { return &v }

func newQuestionFixture(t *testing.T) (*QuestionService, *models.Course) {
	t.Helper()
	courseRepo := newFakeCourseRepo()
	course := &models.Course{Title: "Node.js", Description: "Curso", Price: 100}
	require.NoError(t, courseRepo.Create(context.Background(), course))

	service := NewQuestionService(newFakeQuestionRepo(), courseRepo, zerolog.Nop())
	return service, course
}

func TestAddQuestion(t *testing.T) {
	service, course := newQuestionFixture(t)
	ctx := context.Background()

	question, err := service.AddQuestion(ctx, course.ID, &dto.CreateQuestionRequest{
		Title:   "O que é um callback?",
		Options: []string{"Uma função", "Uma variável", "Um módulo"},
		Answer:  intPtr(0),
	})
	require.NoError(t, err)
	assert.NotZero(t, question.ID)
	assert.Equal(t, course.ID, question.CourseID)

	questions, err := service.GetByCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Len(t, questions, 1)
}

func TestAddQuestion_AnswerOutOfRange(t *testing.T) {
	service, course := newQuestionFixture(t)

	_, err := service.AddQuestion(context.Background(), course.ID, &dto.CreateQuestionRequest{
		Title:   "Pergunta",
		Options: []string{"A", "B"},
		Answer:  intPtr(2),
	})
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
}

func TestAddQuestion_CourseNotFound(t *testing.T) {
	service, _ := newQuestionFixture(t)

	_, err := service.AddQuestion(context.Background(), 999, &dto.CreateQuestionRequest{
		Title:   "Pergunta",
		Options: []string{"A", "B"},
		Answer:  intPtr(0),
	})
	assert.True(t, errors.Is(err, apperrors.ErrCourseNotFound))
}

func TestQuestionUpdate_KeepsAnswerConsistent(t *testing.T) {
	service, course := newQuestionFixture(t)
	ctx := context.Background()

	question, err := service.AddQuestion(ctx, course.ID, &dto.CreateQuestionRequest{
		Title:   "Pergunta",
		Options: []string{"A", "B", "C"},
		Answer:  intPtr(2),
	})
	require.NoError(t, err)

	// Shrinking the option list below the stored answer is rejected
	_, err = service.Update(ctx, question.ID, &dto.UpdateQuestionRequest{
		Options: []string{"A", "B"},
	})
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))

	updated, err := service.Update(ctx, question.ID, &dto.UpdateQuestionRequest{
		Options: []string{"A", "B"},
		Answer:  intPtr(1),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Answer)
	assert.Len(t, updated.Options, 2)
}

func TestQuestionDelete(t *testing.T) {
	service, course := newQuestionFixture(t)
	ctx := context.Background()

	question, err := service.AddQuestion(ctx, course.ID, &dto.CreateQuestionRequest{
		Title:   "Pergunta",
		Options: []string{"A", "B"},
		Answer:  intPtr(0),
	})
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, question.ID))

	err = service.Delete(ctx, question.ID)
	assert.True(t, errors.Is(err, apperrors.ErrQuestionNotFound))
}
