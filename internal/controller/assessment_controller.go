package controller

import (
	"errors"
	"net/http"
	"strconv"

	"leap_assessment_backend/internal/service"
	"leap_assessment_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssessmentController struct {
	Submissions *service.SubmissionService
	Results     *service.ResultService
}

func NewAssessmentController(submissions *service.SubmissionService, results *service.ResultService) *AssessmentController {
	return &AssessmentController{Submissions: submissions, Results: results}
}

// @Summary Submit a completed assessment
// @Tags assessments
// @Accept json
// @Produce json
// @Router /api/v1/assessments [post]
func (c *AssessmentController) Submit(ctx *gin.Context) {
	var req service.SubmitAssessmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	// An authenticated caller owns the submission regardless of what the
	// body claims.
	if claims := util.GetUserFromContext(ctx); claims != nil {
		req.UserID = claims.UserID
	}

	clientID := ctx.GetHeader(util.ClientIDHeader)

	resp, err := c.Submissions.Submit(ctx.Request.Context(), clientID, req)
	if err != nil {
		var dup *util.DuplicateSubmissionError
		switch {
		case errors.Is(err, util.ErrVerificationFailed):
			util.BadRequest(ctx, "bot verification failed")
		case errors.As(err, &dup):
			ctx.JSON(http.StatusConflict, util.Response{
				Code:    http.StatusConflict,
				Message: "already submitted",
				Data:    gin.H{"responseId": dup.ResponseID},
			})
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, resp)
}

// @Summary Fetch one assessment result by its opaque ID
// @Tags assessments
// @Produce json
// @Router /api/v1/responses/{id} [get]
func (c *AssessmentController) GetResponse(ctx *gin.Context) {
	responseID := ctx.Param("id")
	claims := util.GetUserFromContext(ctx)

	resp, err := c.Results.GetResponse(ctx.Request.Context(), responseID, claims, ctx.ClientIP())
	if err != nil {
		var limited *util.RateLimitedError
		switch {
		case errors.As(err, &limited):
			util.RateLimited(ctx, limited.RetryAfterSeconds)
		case errors.Is(err, util.ErrResponseNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrUnauthorized):
			util.Unauthorized(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, resp)
}

// @Summary List the caller's own assessment results
// @Tags assessments
// @Produce json
// @Security BearerAuth
// @Router /api/v1/assessments/mine [get]
func (c *AssessmentController) ListMine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	responses, err := c.Results.ListMine(claims)
	if err != nil {
		util.Unauthorized(ctx)
		return
	}

	util.Success(ctx, responses)
}

// @Summary Admin: list assessment responses
// @Tags assessments
// @Produce json
// @Security BearerAuth
// @Router /api/v1/admin/responses [get]
func (c *AssessmentController) ListResponses(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	assessmentType := ctx.Query("type")

	responses, total, err := c.Results.ListAll(page, limit, assessmentType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": responses, "total": total})
}
