package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/matheus/courseplatform/internal/app/models/dto"
	"github.com/matheus/courseplatform/internal/app/services"
	"github.com/matheus/courseplatform/internal/middleware"
)

// QuestionController handles quiz question operations
type QuestionController struct {
	questionService *services.QuestionService
	logger          zerolog.Logger
}

// NewQuestionController creates a new QuestionController
func NewQuestionController(questionService *services.QuestionService, logger zerolog.Logger) *QuestionController {
	return &QuestionController{
		questionService: questionService,
		logger:          logger,
	}
}

// Create adds a question to a course
// @Summary Create question
// @Description Adds a multiple-choice question to a course. The answer is a zero-based index into the options. Admin only.
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.CreateQuestionRequest true "Question information"
// @Success 201 {object} dto.APIResponse{data=models.Question} "Created question"
// @Failure 400 {object} dto.ErrorResponse "Invalid request or answer out of range"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/questions [post]
func (c *QuestionController) Create(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	question, err := c.questionService.AddQuestion(ctx.Request.Context(), courseID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Int64("courseID", courseID).
		Int64("questionID", question.ID).
		Msg("Question created")
	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: question})
}

// GetByCourse lists the questions of a course
// @Summary List course questions
// @Description Returns the quiz questions of a course
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Question} "Questions"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/questions [get]
func (c *QuestionController) GetByCourse(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	questions, err := c.questionService.GetByCourse(ctx.Request.Context(), courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: questions})
}

// Update modifies a question
// @Summary Update question
// @Description Partially updates a question while keeping the answer index within the option list. Admin only.
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param questionId path int true "Question ID"
// @Param request body dto.UpdateQuestionRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=models.Question} "Updated question"
// @Failure 400 {object} dto.ErrorResponse "Invalid request or answer out of range"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /questions/{questionId} [put]
func (c *QuestionController) Update(ctx *gin.Context) {
	questionID, ok := parseIDParam(ctx, "questionId")
	if !ok {
		return
	}

	var req dto.UpdateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	question, err := c.questionService.Update(ctx.Request.Context(), questionID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("questionID", questionID).Msg("Question updated")
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: question})
}

// Delete removes a question
// @Summary Delete question
// @Description Deletes a quiz question. Admin only.
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param questionId path int true "Question ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Question deleted"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /questions/{questionId} [delete]
func (c *QuestionController) Delete(ctx *gin.Context) {
	questionID, ok := parseIDParam(ctx, "questionId")
	if !ok {
		return
	}

	if err := c.questionService.Delete(ctx.Request.Context(), questionID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("questionID", questionID).Msg("Question deleted")
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Question deleted successfully"},
	})
}
