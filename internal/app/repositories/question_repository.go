package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/matheus/courseplatform/internal/app/models"
	"github.com/matheus/courseplatform/internal/pkg/apperrors"
	"github.com/matheus/courseplatform/internal/pkg/dberrors"
)

// IQuestionRepository defines the interface for quiz question database operations
type IQuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id int64) (*models.Question, error)
	GetByCourseID(ctx context.Context, courseID int64) ([]*models.Question, error)
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id int64) error
}

// QuestionRepository handles quiz question database operations
type QuestionRepository struct {
	db *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository
func NewQuestionRepository(db *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// Create inserts a new question and sets its generated ID
func (r *QuestionRepository) Create(ctx context.Context, question *models.Question) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO questions (course_id, title, options, answer)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		question.CourseID, question.Title, question.Options, question.Answer).
		Scan(&question.ID, &question.CreatedAt, &question.UpdatedAt)

	if err != nil {
		if dberrors.IsForeignKeyViolation(err, "questions_course_id_fkey") {
			return apperrors.ErrCourseNotFound
		}
		return fmt.Errorf("error creating question: %w", err)
	}

	return nil
}

// GetByID retrieves a question by ID
func (r *QuestionRepository) GetByID(ctx context.Context, id int64) (*models.Question, error) {
	question := &models.Question{}
	err := r.db.QueryRow(ctx, `
		SELECT id, course_id, title, options, answer, created_at, updated_at
		FROM questions
		WHERE id = $1`, id).
		Scan(&question.ID, &question.CourseID, &question.Title,
			&question.Options, &question.Answer, &question.CreatedAt, &question.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("error retrieving question: %w", err)
	}

	return question, nil
}

// GetByCourseID lists all questions of a course
func (r *QuestionRepository) GetByCourseID(ctx context.Context, courseID int64) ([]*models.Question, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, course_id, title, options, answer, created_at, updated_at
		FROM questions
		WHERE course_id = $1
		ORDER BY created_at`, courseID)
	if err != nil {
		return nil, fmt.Errorf("error listing questions: %w", err)
	}
	defer rows.Close()

	var questions []*models.Question
	for rows.Next() {
		question := &models.Question{}
		err := rows.Scan(&question.ID, &question.CourseID, &question.Title,
			&question.Options, &question.Answer, &question.CreatedAt, &question.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning question: %w", err)
		}
		questions = append(questions, question)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions: %w", err)
	}

	return questions, nil
}

// Update updates a question's fields
func (r *QuestionRepository) Update(ctx context.Context, question *models.Question) error {
	result, err := r.db.Exec(ctx, `
		UPDATE questions
		SET title = $1, options = $2, answer = $3, updated_at = NOW()
		WHERE id = $4`,
		question.Title, question.Options, question.Answer, question.ID)

	if err != nil {
		return fmt.Errorf("error updating question: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrQuestionNotFound
	}

	return nil
}

// Delete removes a question
func (r *QuestionRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `
		DELETE FROM questions
		WHERE id = $1`, id)

	if err != nil {
		return fmt.Errorf("error deleting question: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrQuestionNotFound
	}

	return nil
}
