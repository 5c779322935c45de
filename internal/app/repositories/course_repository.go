package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/matheus/courseplatform/internal/app/models"
	"github.com/matheus/courseplatform/internal/db"
	"github.com/matheus/courseplatform/internal/pkg/apperrors"
	"github.com/matheus/courseplatform/internal/pkg/dberrors"
)

// ICourseRepository defines the interface for course-related database operations
type ICourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	CreateWithSubCourses(ctx context.Context, course *models.Course, subCourses []*models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	GetAll(ctx context.Context) ([]*models.Course, error)
	GetSubCourses(ctx context.Context, parentID int64) ([]*models.Course, error)
	GetSubCourseByID(ctx context.Context, parentID, subCourseID int64) (*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) error
}

// CourseRepository handles course database operations
type CourseRepository struct {
	db   *pgxpool.Pool
	pgdb *db.PostgresDB
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(pgdb *db.PostgresDB) *CourseRepository {
	return &CourseRepository{db: pgdb.Pool, pgdb: pgdb}
}

const courseColumns = `id, title, description, price, video_url, cover_image, parent_course_id, created_at, updated_at`

func scanCourse(row pgx.Row) (*models.Course, error) {
	course := &models.Course{}
	err := row.Scan(
		&course.ID, &course.Title, &course.Description, &course.Price,
		&course.VideoURL, &course.CoverImage, &course.ParentCourseID,
		&course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return course, nil
}

func collectCourses(rows pgx.Rows) ([]*models.Course, error) {
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning course: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating courses: %w", err)
	}

	return courses, nil
}

// Create inserts a new course and sets its generated ID
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO courses (title, description, price, video_url, cover_image, parent_course_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		course.Title, course.Description, course.Price, course.VideoURL,
		course.CoverImage, course.ParentCourseID).
		Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt)

	if err != nil {
		if dberrors.IsForeignKeyViolation(err, "courses_parent_course_id_fkey") {
			return apperrors.ErrCourseNotFound
		}
		return fmt.Errorf("error creating course: %w", err)
	}

	return nil
}

// CreateWithSubCourses inserts a parent course and its sub-courses in a
// single transaction. Either all rows are created or none.
func (r *CourseRepository) CreateWithSubCourses(ctx context.Context, course *models.Course, subCourses []*models.Course) error {
	return r.pgdb.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO courses (title, description, price, video_url, cover_image)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at, updated_at`,
			course.Title, course.Description, course.Price, course.VideoURL,
			course.CoverImage).
			Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt)
		if err != nil {
			return fmt.Errorf("error creating course: %w", err)
		}

		for _, sub := range subCourses {
			sub.ParentCourseID = &course.ID
			err := tx.QueryRow(ctx, `
				INSERT INTO courses (title, description, price, video_url, cover_image, parent_course_id)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING id, created_at, updated_at`,
				sub.Title, sub.Description, sub.Price, sub.VideoURL,
				sub.CoverImage, sub.ParentCourseID).
				Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)
			if err != nil {
				return fmt.Errorf("error creating sub-course: %w", err)
			}
		}

		course.SubCourses = subCourses
		return nil
	})
}

// GetByID retrieves a course with its sub-courses
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	course, err := scanCourse(r.db.QueryRow(ctx, `
		SELECT `+courseColumns+`
		FROM courses
		WHERE id = $1`, id))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	subCourses, err := r.GetSubCourses(ctx, id)
	if err != nil {
		return nil, err
	}
	course.SubCourses = subCourses

	return course, nil
}

// GetAll retrieves all top-level courses with their sub-courses
func (r *CourseRepository) GetAll(ctx context.Context) ([]*models.Course, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+courseColumns+`
		FROM courses
		WHERE parent_course_id IS NULL
		ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}

	courses, err := collectCourses(rows)
	if err != nil {
		return nil, err
	}

	for _, course := range courses {
		subCourses, err := r.GetSubCourses(ctx, course.ID)
		if err != nil {
			return nil, err
		}
		course.SubCourses = subCourses
	}

	return courses, nil
}

// GetSubCourses lists the direct sub-courses of a parent course
func (r *CourseRepository) GetSubCourses(ctx context.Context, parentID int64) ([]*models.Course, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+courseColumns+`
		FROM courses
		WHERE parent_course_id = $1
		ORDER BY created_at`, parentID)
	if err != nil {
		return nil, fmt.Errorf("error listing sub-courses: %w", err)
	}

	return collectCourses(rows)
}

// GetSubCourseByID retrieves a sub-course scoped to its parent. A
// sub-course reached through the wrong parent is treated as not found.
func (r *CourseRepository) GetSubCourseByID(ctx context.Context, parentID, subCourseID int64) (*models.Course, error) {
	course, err := scanCourse(r.db.QueryRow(ctx, `
		SELECT `+courseColumns+`
		FROM courses
		WHERE id = $1 AND parent_course_id = $2`,
		subCourseID, parentID))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving sub-course: %w", err)
	}

	return course, nil
}

// Update updates a course's fields
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	result, err := r.db.Exec(ctx, `
		UPDATE courses
		SET title = $1, description = $2, price = $3, video_url = $4, cover_image = $5, updated_at = NOW()
		WHERE id = $6`,
		course.Title, course.Description, course.Price, course.VideoURL,
		course.CoverImage, course.ID)

	if err != nil {
		return fmt.Errorf("error updating course: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// Delete removes a course. Questions and entitlements cascade; courses
// with sub-courses are protected by a RESTRICT constraint and must have
// their children removed first.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `
		DELETE FROM courses
		WHERE id = $1`, id)

	if err != nil {
		if dberrors.IsForeignKeyViolation(err, "courses_parent_course_id_fkey") {
			return apperrors.ErrCourseHasChildren
		}
		return fmt.Errorf("error deleting course: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}
