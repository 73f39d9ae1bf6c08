package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/expenso-labs/receipt_workflow_app/internal/core/ports/services"
	"github.com/expenso-labs/receipt_workflow_app/internal/dto"
	"github.com/expenso-labs/receipt_workflow_app/internal/middleware"
)

// reimbursementHandler handles HTTP requests related to reimbursements.
type reimbursementHandler struct {
	workflowService portssvc.WorkflowSvcFacade
}

// registerReimbursementRoutes registers routes related to reimbursements.
func registerReimbursementRoutes(rg *gin.RouterGroup, workflowService portssvc.WorkflowSvcFacade) {
	h := &reimbursementHandler{workflowService: workflowService}

	reimbursements := rg.Group("/reimbursements")
	{
		reimbursements.POST("", h.createReimbursement)
		reimbursements.GET("", h.listReimbursements)
		reimbursements.GET("/:id", h.getReimbursement)
		reimbursements.GET("/:id/validate", h.validateReimbursement)
		reimbursements.POST("/:id/submit", h.submitReimbursement)
		reimbursements.POST("/:id/approve", h.approveReimbursement)
		reimbursements.POST("/:id/reject", h.rejectReimbursement)
		reimbursements.POST("/:id/return", h.returnReimbursement)
		reimbursements.POST("/:id/resubmit", h.resubmitReimbursement)
		reimbursements.POST("/:id/cancel", h.cancelReimbursement)
		reimbursements.POST("/:id/receipts/:receiptID", h.addReceipt)
		reimbursements.DELETE("/:id/receipts/:receiptID", h.removeReceipt)
	}
}

func (h *reimbursementHandler) actor(c *gin.Context) (string, bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
	return userID, ok
}

// createReimbursement godoc
// @Summary Create a reimbursement
// @Description Creates a draft reimbursement and links the listed receipts
// @Tags reimbursements
// @Accept  json
// @Produce  json
// @Param   reimbursement body dto.CreateReimbursementRequest true "Reimbursement details"
// @Success 201 {object} dto.ReimbursementResponse
// @Failure 409 {object} map[string]string "A receipt is already linked elsewhere"
// @Security BearerAuth
// @Router /reimbursements [post]
func (h *reimbursementHandler) createReimbursement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateReimbursementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateReimbursement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := h.actor(c)
	if !ok {
		return
	}

	reimbursement, err := h.workflowService.CreateReimbursement(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create reimbursement")
		return
	}

	c.JSON(http.StatusCreated, dto.ToReimbursementResponse(reimbursement))
}

// getReimbursement godoc
// @Summary Get a reimbursement by ID
// @Tags reimbursements
// @Produce  json
// @Param   id path string true "Reimbursement ID"
// @Success 200 {object} dto.ReimbursementResponse
// @Failure 404 {object} map[string]string "Reimbursement not found"
// @Security BearerAuth
// @Router /reimbursements/{id} [get]
func (h *reimbursementHandler) getReimbursement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	reimbursement, err := h.workflowService.GetReimbursementByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve reimbursement")
		return
	}

	c.JSON(http.StatusOK, dto.ToReimbursementResponse(reimbursement))
}

// listReimbursements godoc
// @Summary List reimbursements
// @Tags reimbursements
// @Produce  json
// @Param   limit query int false "Page size (default 20)"
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListReimbursementsResponse
// @Security BearerAuth
// @Router /reimbursements [get]
func (h *reimbursementHandler) listReimbursements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	limit, nextToken := paginationParams(c)

	reimbursements, token, err := h.workflowService.ListReimbursements(c.Request.Context(), limit, nextToken)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list reimbursements")
		return
	}

	resp := dto.ListReimbursementsResponse{
		Reimbursements: make([]dto.ReimbursementResponse, len(reimbursements)),
		NextToken:      token,
	}
	for i := range reimbursements {
		resp.Reimbursements[i] = dto.ToReimbursementResponse(&reimbursements[i])
	}
	c.JSON(http.StatusOK, resp)
}

// validateReimbursement godoc
// @Summary Run compliance checks without changing state
// @Tags reimbursements
// @Produce  json
// @Param   id path string true "Reimbursement ID"
// @Success 200 {object} dto.ValidationResultResponse
// @Failure 404 {object} map[string]string "Reimbursement not found"
// @Security BearerAuth
// @Router /reimbursements/{id}/validate [get]
func (h *reimbursementHandler) validateReimbursement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	result, err := h.workflowService.Validate(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to validate reimbursement")
		return
	}

	c.JSON(http.StatusOK, dto.ToValidationResultResponse(result))
}

// submitReimbursement godoc
// @Summary Submit a reimbursement for approval
// @Description Runs the compliance gate; any error-severity issue blocks submission
// @Tags reimbursements
// @Produce  json
// @Param   id path string true "Reimbursement ID"
// @Success 200 {object} dto.ReimbursementResponse
// @Failure 409 {object} map[string]string "Not in a submittable state"
// @Failure 422 {object} map[string]interface{} "Compliance validation failed"
// @Security BearerAuth
// @Router /reimbursements/{id}/submit [post]
func (h *reimbursementHandler) submitReimbursement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actorUserID, ok := h.actor(c)
	if !ok {
		return
	}

	reimbursement, err := h.workflowService.SubmitForApproval(c.Request.Context(), c.Param("id"), actorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to submit reimbursement")
		return
	}

	c.JSON(http.StatusOK, dto.ToReimbursementResponse(reimbursement))
}

// approveReimbursement godoc
// @Summary Approve a submitted reimbursement
// @Tags reimbursements
// @Accept  json
// @Produce  json
// @Param   id path string true "Reimbursement ID"
// @Param   action body dto.ApprovalActionRequest false "Optional comment"
// @Success 200 {object} dto.ReimbursementResponse
// @Failure 409 {object} map[string]string "Not in SUBMITTED state"
// @Security BearerAuth
// @Router /reimbursements/{id}/approve [post]
func (h *reimbursementHandler) approveReimbursement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ApprovalActionRequest
	_ = c.ShouldBindJSON(&req) // comment is optional, an empty body is fine

	approverUserID, ok := h.actor(c)
	if !ok {
		return
	}

	reimbursement, err := h.workflowService.Approve(c.Request.Context(), c.Param("id"), approverUserID, req.Comment)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to approve reimbursement")
		return
	}

	c.JSON(http.StatusOK, dto.ToReimbursementResponse(reimbursement))
}

// rejectReimbursement godoc
// @Summary Reject a submitted reimbursement
// @Tags reimbursements
// @Accept  json
// @Produce  json
// @Param   id path string true "Reimbursement ID"
// @Param   action body dto.RejectRequest true "Rejection reason"
// @Success 200 {object} dto.ReimbursementResponse
// @Failure 400 {object} map[string]string "Missing rejection reason"
// @Failure 409 {object} map[string]string "Not in SUBMITTED state"
// @Security BearerAuth
// @Router /reimbursements/{id}/reject [post]
func (h *reimbursementHandler) rejectReimbursement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RejectReimbursement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	rejectorUserID, ok := h.actor(c)
	if !ok {
		return
	}

	reimbursement, err := h.workflowService.Reject(c.Request.Context(), c.Param("id"), rejectorUserID, req.Reason)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reject reimbursement")
		return
	}

	c.JSON(http.StatusOK, dto.ToReimbursementResponse(reimbursement))
}

// returnReimbursement godoc
// @Summary Return a submitted reimbursement for revision
// @Tags reimbursements
// @Accept  json
// @Produce  json
// @Param   id path string true "Reimbursement ID"
// @Param   action body dto.ApprovalActionRequest false "Optional comment"
// @Success 200 {object} dto.ReimbursementResponse
// @Failure 409 {object} map[string]string "Not in SUBMITTED state"
// @Security BearerAuth
// @Router /reimbursements/{id}/return [post]
func (h *reimbursementHandler) returnReimbursement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ApprovalActionRequest
	_ = c.ShouldBindJSON(&req)

	reviewerUserID, ok := h.actor(c)
	if !ok {
		return
	}

	reimbursement, err := h.workflowService.ReturnForRevision(c.Request.Context(), c.Param("id"), reviewerUserID, req.Comment)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to return reimbursement for revision")
		return
	}

	c.JSON(http.StatusOK, dto.ToReimbursementResponse(reimbursement))
}

// resubmitReimbursement godoc
// @Summary Resubmit a reimbursement after revision
// @Tags reimbursements
// @Produce  json
// @Param   id path string true "Reimbursement ID"
// @Success 200 {object} dto.ReimbursementResponse
// @Failure 409 {object} map[string]string "Not in REVISION_REQUIRED state"
// @Security BearerAuth
// @Router /reimbursements/{id}/resubmit [post]
func (h *reimbursementHandler) resubmitReimbursement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actorUserID, ok := h.actor(c)
	if !ok {
		return
	}

	reimbursement, err := h.workflowService.Resubmit(c.Request.Context(), c.Param("id"), actorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to resubmit reimbursement")
		return
	}

	c.JSON(http.StatusOK, dto.ToReimbursementResponse(reimbursement))
}

// cancelReimbursement godoc
// @Summary Cancel a draft or in-revision reimbursement
// @Tags reimbursements
// @Produce  json
// @Param   id path string true "Reimbursement ID"
// @Success 200 {object} dto.ReimbursementResponse
// @Failure 409 {object} map[string]string "Not in a cancellable state"
// @Security BearerAuth
// @Router /reimbursements/{id}/cancel [post]
func (h *reimbursementHandler) cancelReimbursement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actorUserID, ok := h.actor(c)
	if !ok {
		return
	}

	reimbursement, err := h.workflowService.Cancel(c.Request.Context(), c.Param("id"), actorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to cancel reimbursement")
		return
	}

	c.JSON(http.StatusOK, dto.ToReimbursementResponse(reimbursement))
}

// addReceipt godoc
// @Summary Link a receipt to a reimbursement
// @Tags reimbursements
// @Produce  json
// @Param   id path string true "Reimbursement ID"
// @Param   receiptID path string true "Receipt ID"
// @Success 200 {object} dto.ReimbursementResponse
// @Failure 409 {object} map[string]string "Receipt already linked or reimbursement not mutable"
// @Security BearerAuth
// @Router /reimbursements/{id}/receipts/{receiptID} [post]
func (h *reimbursementHandler) addReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actorUserID, ok := h.actor(c)
	if !ok {
		return
	}

	reimbursement, err := h.workflowService.AddReceipt(c.Request.Context(), c.Param("id"), c.Param("receiptID"), actorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to add receipt to reimbursement")
		return
	}

	c.JSON(http.StatusOK, dto.ToReimbursementResponse(reimbursement))
}

// removeReceipt godoc
// @Summary Unlink a receipt from a reimbursement
// @Tags reimbursements
// @Produce  json
// @Param   id path string true "Reimbursement ID"
// @Param   receiptID path string true "Receipt ID"
// @Success 200 {object} dto.ReimbursementResponse
// @Failure 409 {object} map[string]string "Receipt not linked or reimbursement not mutable"
// @Security BearerAuth
// @Router /reimbursements/{id}/receipts/{receiptID} [delete]
func (h *reimbursementHandler) removeReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actorUserID, ok := h.actor(c)
	if !ok {
		return
	}

	reimbursement, err := h.workflowService.RemoveReceipt(c.Request.Context(), c.Param("id"), c.Param("receiptID"), actorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to remove receipt from reimbursement")
		return
	}

	c.JSON(http.StatusOK, dto.ToReimbursementResponse(reimbursement))
}
