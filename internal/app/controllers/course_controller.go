package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/matheus/courseplatform/internal/app/models/dto"
	"github.com/matheus/courseplatform/internal/app/services"
	"github.com/matheus/courseplatform/internal/middleware"
)

// CourseController handles course and sub-course operations
type CourseController struct {
	courseService *services.CourseService
	logger        zerolog.Logger
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService *services.CourseService, logger zerolog.Logger) *CourseController {
	return &CourseController{
		courseService: courseService,
		logger:        logger,
	}
}

// Create handles course creation
// @Summary Create a course
// @Description Creates a course, optionally together with its sub-courses in one transaction. Admin only.
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCourseRequest true "Course information"
// @Success 201 {object} dto.APIResponse{data=models.Course} "Created course"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses [post]
func (c *CourseController) Create(ctx *gin.Context) {
	var req dto.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	course, err := c.courseService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("courseID", course.ID).Str("title", course.Title).Msg("Course created")
	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: course})
}

// GetAll lists all top-level courses
// @Summary List courses
// @Description Returns all top-level courses with their sub-courses
// @Tags courses
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Course} "Courses"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses [get]
func (c *CourseController) GetAll(ctx *gin.Context) {
	courses, err := c.courseService.GetAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: courses})
}

// GetByID returns a single course
// @Summary Get course by ID
// @Description Returns a course with its sub-courses
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Course"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [get]
func (c *CourseController) GetByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	course, err := c.courseService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: course})
}

// Update modifies a course
// @Summary Update course
// @Description Partially updates a course. Admin only.
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.UpdateCourseRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Updated course"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [put]
func (c *CourseController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	course, err := c.courseService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("courseID", id).Msg("Course updated")
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: course})
}

// Delete removes a course
// @Summary Delete course
// @Description Deletes a course. Courses that still have sub-courses cannot be deleted. Admin only.
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Course deleted"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Course has sub-courses"
// @Router /courses/{id} [delete]
func (c *CourseController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.courseService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("courseID", id).Msg("Course deleted")
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Course deleted successfully"},
	})
}

// AddSubCourse attaches a sub-course to a parent
// @Summary Add sub-course
// @Description Creates a sub-course under an existing top-level course. Sub-courses cannot be nested. Admin only.
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Parent course ID"
// @Param request body dto.CreateSubCourseRequest true "Sub-course information"
// @Success 201 {object} dto.APIResponse{data=models.Course} "Created sub-course"
// @Failure 400 {object} dto.ErrorResponse "Invalid request or nested sub-course"
// @Failure 404 {object} dto.ErrorResponse "Parent course not found"
// @Router /courses/{id}/sub-courses [post]
func (c *CourseController) AddSubCourse(ctx *gin.Context) {
	parentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateSubCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	subCourse, err := c.courseService.AddSubCourse(ctx.Request.Context(), parentID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Int64("courseID", parentID).
		Int64("subCourseID", subCourse.ID).
		Msg("Sub-course created")
	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: subCourse})
}

// GetSubCourses lists the sub-courses of a parent
// @Summary List sub-courses
// @Description Returns the sub-courses of a top-level course
// @Tags courses
// @Produce json
// @Param id path int true "Parent course ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Course} "Sub-courses"
// @Failure 404 {object} dto.ErrorResponse "Parent course not found"
// @Router /courses/{id}/sub-courses [get]
func (c *CourseController) GetSubCourses(ctx *gin.Context) {
	parentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	subCourses, err := c.courseService.GetSubCourses(ctx.Request.Context(), parentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: subCourses})
}

// GetSubCourseByID returns one sub-course of a parent
// @Summary Get sub-course
// @Description Returns a sub-course scoped to its parent course
// @Tags courses
// @Produce json
// @Param id path int true "Parent course ID"
// @Param subCourseId path int true "Sub-course ID"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Sub-course"
// @Failure 404 {object} dto.ErrorResponse "Course or sub-course not found"
// @Router /courses/{id}/sub-courses/{subCourseId} [get]
func (c *CourseController) GetSubCourseByID(ctx *gin.Context) {
	parentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	subCourseID, ok := parseIDParam(ctx, "subCourseId")
	if !ok {
		return
	}

	subCourse, err := c.courseService.GetSubCourseByID(ctx.Request.Context(), parentID, subCourseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: subCourse})
}
