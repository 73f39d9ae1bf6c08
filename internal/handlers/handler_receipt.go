package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/expenso-labs/receipt_workflow_app/internal/core/ports/services"
	"github.com/expenso-labs/receipt_workflow_app/internal/dto"
	"github.com/expenso-labs/receipt_workflow_app/internal/middleware"
)

// receiptHandler handles HTTP requests related to receipts.
type receiptHandler struct {
	receiptService    portssvc.ReceiptSvcFacade
	classifierService portssvc.ClassifierSvcFacade
}

// registerReceiptRoutes registers routes related to receipts.
func registerReceiptRoutes(rg *gin.RouterGroup, receiptService portssvc.ReceiptSvcFacade, classifierService portssvc.ClassifierSvcFacade) {
	h := &receiptHandler{receiptService: receiptService, classifierService: classifierService}

	receipts := rg.Group("/receipts")
	{
		receipts.POST("", h.createReceipt)
		receipts.GET("", h.listReceipts)
		receipts.GET("/:id", h.getReceipt)
		receipts.POST("/:id/classify", h.classifyReceipt)
		receipts.POST("/classify-batch", h.batchClassifyReceipts)
	}
}

// createReceipt godoc
// @Summary Record a new receipt
// @Description Records a receipt delivered by the OCR pipeline
// @Tags receipts
// @Accept  json
// @Produce  json
// @Param   receipt body dto.CreateReceiptRequest true "Receipt details"
// @Success 201 {object} dto.ReceiptResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /receipts [post]
func (h *receiptHandler) createReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateReceipt", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	receipt, err := h.receiptService.CreateReceipt(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create receipt")
		return
	}

	c.JSON(http.StatusCreated, dto.ToReceiptResponse(receipt))
}

// getReceipt godoc
// @Summary Get a receipt by ID
// @Tags receipts
// @Produce  json
// @Param   id path string true "Receipt ID"
// @Success 200 {object} dto.ReceiptResponse
// @Failure 404 {object} map[string]string "Receipt not found"
// @Security BearerAuth
// @Router /receipts/{id} [get]
func (h *receiptHandler) getReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	receipt, err := h.receiptService.GetReceiptByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve receipt")
		return
	}

	c.JSON(http.StatusOK, dto.ToReceiptResponse(receipt))
}

// listReceipts godoc
// @Summary List receipts
// @Description Lists receipts newest-first with token-based pagination
// @Tags receipts
// @Produce  json
// @Param   limit query int false "Page size (default 20)"
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListReceiptsResponse
// @Security BearerAuth
// @Router /receipts [get]
func (h *receiptHandler) listReceipts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	limit, nextToken := paginationParams(c)

	receipts, token, err := h.receiptService.ListReceipts(c.Request.Context(), limit, nextToken)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list receipts")
		return
	}

	resp := dto.ListReceiptsResponse{
		Receipts:  make([]dto.ReceiptResponse, len(receipts)),
		NextToken: token,
	}
	for i := range receipts {
		resp.Receipts[i] = dto.ToReceiptResponse(&receipts[i])
	}
	c.JSON(http.StatusOK, resp)
}

// classifyReceipt godoc
// @Summary Classify a receipt
// @Description Applies the first matching enabled rule and assigns an archive number
// @Tags receipts
// @Produce  json
// @Param   id path string true "Receipt ID"
// @Success 200 {object} dto.ClassificationResult
// @Failure 404 {object} map[string]string "Receipt not found"
// @Security BearerAuth
// @Router /receipts/{id}/classify [post]
func (h *receiptHandler) classifyReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.classifierService.ClassifyReceipt(c.Request.Context(), c.Param("id"), actorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to classify receipt")
		return
	}

	c.JSON(http.StatusOK, result)
}

// batchClassifyReceipts godoc
// @Summary Classify a batch of receipts
// @Description Classifies receipts sequentially; per-receipt failures are reported without aborting the batch
// @Tags receipts
// @Accept  json
// @Produce  json
// @Param   batch body dto.BatchClassifyRequest true "Receipt IDs"
// @Success 200 {object} dto.BatchClassificationResult
// @Security BearerAuth
// @Router /receipts/classify-batch [post]
func (h *receiptHandler) batchClassifyReceipts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.BatchClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for BatchClassifyReceipts", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.classifierService.BatchClassifyReceipts(c.Request.Context(), req.ReceiptIDs, actorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to classify receipts")
		return
	}

	c.JSON(http.StatusOK, result)
}
