package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matheus/courseplatform/internal/app/models/dto"
	"github.com/matheus/courseplatform/internal/pkg/apperrors"
)

func newCourseService() (*CourseService, *fakeCourseRepo) {
	repo := newFakeCourseRepo()
	return NewCourseService(repo, zerolog.Nop()), repo
}

func TestCourseCreate(t *testing.T) {
	service, _ := newCourseService()

	course, err := service.Create(context.Background(), &dto.CreateCourseRequest{
		Title:       "Node.js",
		Description: "Curso de Node",
		Price:       199.90,
		VideoURL:    "https://videos.example/intro",
	})
	require.NoError(t, err)

	assert.NotZero(t, course.ID)
	assert.Equal(t, "Node.js", course.Title)
	require.NotNil(t, course.VideoURL)
	assert.Equal(t, "https://videos.example/intro", *course.VideoURL)
}

func TestCourseCreate_WithSubCourses(t *testing.T) {
	service, _ := newCourseService()
	ctx := context.Background()

	course, err := service.Create(ctx, &dto.CreateCourseRequest{
		Title:       "Node.js",
		Description: "Curso de Node",
		Price:       199.90,
		SubCourses: []dto.SubCourseInput{
			{Title: "Módulo 1", Description: "Introdução"},
			{Title: "Módulo 2", Description: "APIs"},
		},
	})
	require.NoError(t, err)
	require.Len(t, course.SubCourses, 2)

	subs, err := service.GetSubCourses(ctx, course.ID)
	require.NoError(t, err)
	assert.Len(t, subs, 2)
	for _, sub := range subs {
		require.NotNil(t, sub.ParentCourseID)
		assert.Equal(t, course.ID, *sub.ParentCourseID)
	}
}

func TestAddSubCourse_RejectsNesting(t *testing.T) {
	service, _ := newCourseService()
	ctx := context.Background()

	parent, err := service.Create(ctx, &dto.CreateCourseRequest{
		Title: "Node.js", Description: "Curso", Price: 100,
	})
	require.NoError(t, err)

	sub, err := service.AddSubCourse(ctx, parent.ID, &dto.CreateSubCourseRequest{
		Title: "Módulo 1", Description: "Introdução",
	})
	require.NoError(t, err)

	_, err = service.AddSubCourse(ctx, sub.ID, &dto.CreateSubCourseRequest{
		Title: "Sub-módulo", Description: "Nested",
	})
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
}

func TestCourseUpdate_Partial(t *testing.T) {
	service, _ := newCourseService()
	ctx := context.Background()

	course, err := service.Create(ctx, &dto.CreateCourseRequest{
		Title: "Node.js", Description: "Curso", Price: 100,
	})
	require.NoError(t, err)

	newPrice := 149.90
	updated, err := service.Update(ctx, course.ID, &dto.UpdateCourseRequest{Price: &newPrice})
	require.NoError(t, err)

	assert.Equal(t, 149.90, updated.Price)
	assert.Equal(t, "Node.js", updated.Title, "fields not in the request stay unchanged")
}

func TestCourseUpdate_NotFound(t *testing.T) {
	service, _ := newCourseService()

	newTitle := "X"
	_, err := service.Update(context.Background(), 999, &dto.UpdateCourseRequest{Title: &newTitle})
	assert.True(t, errors.Is(err, apperrors.ErrCourseNotFound))
}

func TestCourseDelete_WithChildrenRejected(t *testing.T) {
	service, _ := newCourseService()
	ctx := context.Background()

	course, err := service.Create(ctx, &dto.CreateCourseRequest{
		Title: "Node.js", Description: "Curso", Price: 100,
		SubCourses: []dto.SubCourseInput{{Title: "Módulo 1", Description: "Introdução"}},
	})
	require.NoError(t, err)

	err = service.Delete(ctx, course.ID)
	assert.True(t, errors.Is(err, apperrors.ErrCourseHasChildren))

	require.NoError(t, service.Delete(ctx, course.SubCourses[0].ID))
	assert.NoError(t, service.Delete(ctx, course.ID), "parent deletable once children are gone")
}

func TestGetSubCourseByID_WrongParent(t *testing.T) {
	service, _ := newCourseService()
	ctx := context.Background()

	courseA, err := service.Create(ctx, &dto.CreateCourseRequest{
		Title: "A", Description: "a", Price: 10,
		SubCourses: []dto.SubCourseInput{{Title: "A1", Description: "a1"}},
	})
	require.NoError(t, err)

	courseB, err := service.Create(ctx, &dto.CreateCourseRequest{
		Title: "B", Description: "b", Price: 10,
	})
	require.NoError(t, err)

	_, err = service.GetSubCourseByID(ctx, courseB.ID, courseA.SubCourses[0].ID)
	assert.True(t, errors.Is(err, apperrors.ErrCourseNotFound))
}
