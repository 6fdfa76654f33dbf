package controller

import (
	"errors"
	"strconv"

	"leap_assessment_backend/internal/model"
	"leap_assessment_backend/internal/service"
	"leap_assessment_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	Content *service.ContentService
}

func NewContentController(content *service.ContentService) *ContentController {
	return &ContentController{Content: content}
}

// @Summary List quiz questions for an assessment type
// @Tags questions
// @Produce json
// @Param type query string false "individual or team" default(individual)
// @Router /api/v1/questions [get]
func (c *ContentController) ListQuestions(ctx *gin.Context) {
	assessmentType := model.AssessmentType(ctx.DefaultQuery("type", string(model.AssessmentIndividual)))
	if assessmentType != model.AssessmentIndividual && assessmentType != model.AssessmentTeam {
		util.BadRequest(ctx, "invalid assessment type")
		return
	}

	qs, err := c.Content.ListQuestions(assessmentType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, qs)
}

// @Summary Admin: list the full question bank
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Router /api/v1/admin/questions [get]
func (c *ContentController) ListAllQuestions(ctx *gin.Context) {
	qs, err := c.Content.ListAllQuestions()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, qs)
}

// @Summary Admin: create a question
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Router /api/v1/admin/questions [post]
func (c *ContentController) CreateQuestion(ctx *gin.Context) {
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.Content.CreateQuestion(req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, q)
}

// @Summary Admin: update a question
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Router /api/v1/admin/questions/{id} [put]
func (c *ContentController) UpdateQuestion(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.Content.UpdateQuestion(uint(id), req)
	if err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, q)
}

// @Summary Admin: delete a question
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Router /api/v1/admin/questions/{id} [delete]
func (c *ContentController) DeleteQuestion(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	if err := c.Content.DeleteQuestion(uint(id)); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": id})
}
