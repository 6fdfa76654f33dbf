package controller

import (
	"leap_assessment_backend/internal/service"
	"leap_assessment_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DraftController struct {
	Drafts *service.DraftService
}

func NewDraftController(drafts *service.DraftService) *DraftController {
	return &DraftController{Drafts: drafts}
}

func clientID(ctx *gin.Context) string {
	return ctx.GetHeader(util.ClientIDHeader)
}

// @Summary Read the contact prefill draft for this client
// @Tags drafts
// @Produce json
// @Router /api/v1/drafts/contact [get]
func (c *DraftController) GetContact(ctx *gin.Context) {
	id := clientID(ctx)
	if id == "" {
		util.BadRequest(ctx, "missing client id")
		return
	}

	fields, err := c.Drafts.GetContact(ctx.Request.Context(), id)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, fields)
}

// @Summary Merge-write contact prefill fields for this client
// @Tags drafts
// @Accept json
// @Produce json
// @Router /api/v1/drafts/contact [put]
func (c *DraftController) UpdateContact(ctx *gin.Context) {
	id := clientID(ctx)
	if id == "" {
		util.BadRequest(ctx, "missing client id")
		return
	}

	var incoming map[string]string
	if err := ctx.ShouldBindJSON(&incoming); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	merged, err := c.Drafts.UpdateContact(ctx.Request.Context(), id, incoming)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, merged)
}

// @Summary Read the submission receipt for this client, if any
// @Tags drafts
// @Produce json
// @Router /api/v1/drafts/receipt [get]
func (c *DraftController) GetReceipt(ctx *gin.Context) {
	id := clientID(ctx)
	if id == "" {
		util.BadRequest(ctx, "missing client id")
		return
	}

	receipt, err := c.Drafts.GetReceipt(ctx.Request.Context(), id)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if receipt == nil {
		util.Success(ctx, gin.H{"submitted": false})
		return
	}

	util.Success(ctx, gin.H{"submitted": true, "receipt": receipt})
}
