package controller

import (
	"errors"
	"io"
	"net/http"

	"leap_assessment_backend/internal/service"
	"leap_assessment_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	Reports *service.ReportService
}

func NewReportController(reports *service.ReportService) *ReportController {
	return &ReportController{Reports: reports}
}

// @Summary Admin: attach a rendered PDF report to a response
// @Tags reports
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Router /api/v1/admin/responses/{id}/report [post]
func (c *ReportController) Upload(ctx *gin.Context) {
	responseID := ctx.Param("id")

	file, err := ctx.FormFile("report")
	if err != nil {
		util.BadRequest(ctx, "missing report file")
		return
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	if err := c.Reports.StoreReport(ctx.Request.Context(), responseID, src, file.Size); err != nil {
		if errors.Is(err, util.ErrResponseNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"responseId": responseID})
}

// @Summary Download the PDF report for a response
// @Tags reports
// @Produce application/pdf
// @Router /api/v1/responses/{id}/report [get]
func (c *ReportController) Download(ctx *gin.Context) {
	responseID := ctx.Param("id")
	claims := util.GetUserFromContext(ctx)

	rc, err := c.Reports.FetchReport(ctx.Request.Context(), responseID, claims, ctx.ClientIP())
	if err != nil {
		var limited *util.RateLimitedError
		switch {
		case errors.As(err, &limited):
			util.RateLimited(ctx, limited.RetryAfterSeconds)
		case errors.Is(err, util.ErrResponseNotFound), errors.Is(err, util.ErrReportNotAvailable):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrUnauthorized):
			util.Unauthorized(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	defer rc.Close()

	ctx.Header("Content-Type", util.MimePDF)
	ctx.Header("Content-Disposition", `attachment; filename="leap-report-`+responseID+`.pdf"`)
	ctx.Status(http.StatusOK)
	io.Copy(ctx.Writer, rc)
}
