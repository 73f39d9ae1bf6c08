package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/expenso-labs/receipt_workflow_app/internal/core/ports/services"
	"github.com/expenso-labs/receipt_workflow_app/internal/dto"
	"github.com/expenso-labs/receipt_workflow_app/internal/middleware"
)

// ruleHandler handles HTTP requests related to classification rules.
type ruleHandler struct {
	ruleService portssvc.RuleSvcFacade
}

// registerRuleRoutes registers routes related to classification rules.
func registerRuleRoutes(rg *gin.RouterGroup, ruleService portssvc.RuleSvcFacade) {
	h := &ruleHandler{ruleService: ruleService}

	rules := rg.Group("/rules")
	{
		rules.POST("", h.createRule)
		rules.GET("", h.listRules)
		rules.GET("/:id", h.getRule)
		rules.PUT("/:id", h.updateRule)
		rules.DELETE("/:id", h.deleteRule)
		rules.PATCH("/:id/toggle", h.toggleRule)
		rules.POST("/reorder", h.reorderRules)
	}
}

// createRule godoc
// @Summary Create a classification rule
// @Description Validates and persists a new rule; malformed enum literals or regexes are rejected
// @Tags rules
// @Accept  json
// @Produce  json
// @Param   rule body dto.CreateRuleRequest true "Rule definition"
// @Success 201 {object} dto.RuleResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Security BearerAuth
// @Router /rules [post]
func (h *ruleHandler) createRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateRule", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rule, err := h.ruleService.CreateRule(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create rule")
		return
	}

	c.JSON(http.StatusCreated, dto.ToRuleResponse(rule))
}

// getRule godoc
// @Summary Get a rule by ID
// @Tags rules
// @Produce  json
// @Param   id path string true "Rule ID"
// @Success 200 {object} dto.RuleResponse
// @Failure 404 {object} map[string]string "Rule not found"
// @Security BearerAuth
// @Router /rules/{id} [get]
func (h *ruleHandler) getRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rule, err := h.ruleService.GetRuleByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve rule")
		return
	}

	c.JSON(http.StatusOK, dto.ToRuleResponse(rule))
}

// listRules godoc
// @Summary List all rules
// @Description Lists rules in evaluation order (priority ascending, ties by insertion order)
// @Tags rules
// @Produce  json
// @Success 200 {array} dto.RuleResponse
// @Security BearerAuth
// @Router /rules [get]
func (h *ruleHandler) listRules(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rules, err := h.ruleService.ListRules(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list rules")
		return
	}

	resp := make([]dto.RuleResponse, len(rules))
	for i := range rules {
		resp[i] = dto.ToRuleResponse(&rules[i])
	}
	c.JSON(http.StatusOK, resp)
}

// updateRule godoc
// @Summary Update a rule
// @Description Replaces a rule's definition after validating it
// @Tags rules
// @Accept  json
// @Produce  json
// @Param   id path string true "Rule ID"
// @Param   rule body dto.UpdateRuleRequest true "Rule definition"
// @Success 200 {object} dto.RuleResponse
// @Failure 404 {object} map[string]string "Rule not found"
// @Security BearerAuth
// @Router /rules/{id} [put]
func (h *ruleHandler) updateRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateRule", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Updater user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rule, err := h.ruleService.UpdateRule(c.Request.Context(), c.Param("id"), req, updaterUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update rule")
		return
	}

	c.JSON(http.StatusOK, dto.ToRuleResponse(rule))
}

// deleteRule godoc
// @Summary Delete a rule
// @Tags rules
// @Param   id path string true "Rule ID"
// @Success 204 "Rule deleted"
// @Failure 404 {object} map[string]string "Rule not found"
// @Security BearerAuth
// @Router /rules/{id} [delete]
func (h *ruleHandler) deleteRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if err := h.ruleService.DeleteRule(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, logger, err, "Failed to delete rule")
		return
	}

	c.Status(http.StatusNoContent)
}

// toggleRule godoc
// @Summary Enable or disable a rule
// @Tags rules
// @Accept  json
// @Produce  json
// @Param   id path string true "Rule ID"
// @Param   toggle body dto.ToggleRuleRequest true "Enabled flag"
// @Success 200 {object} dto.RuleResponse
// @Failure 404 {object} map[string]string "Rule not found"
// @Security BearerAuth
// @Router /rules/{id}/toggle [patch]
func (h *ruleHandler) toggleRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ToggleRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ToggleRule", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Updater user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rule, err := h.ruleService.ToggleRule(c.Request.Context(), c.Param("id"), *req.Enabled, updaterUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to toggle rule")
		return
	}

	c.JSON(http.StatusOK, dto.ToRuleResponse(rule))
}

// reorderRules godoc
// @Summary Reassign rule priorities
// @Tags rules
// @Accept  json
// @Param   reorder body dto.ReorderRulesRequest true "Priority assignments"
// @Success 204 "Rules reordered"
// @Failure 404 {object} map[string]string "A referenced rule was not found"
// @Security BearerAuth
// @Router /rules/reorder [post]
func (h *ruleHandler) reorderRules(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ReorderRulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ReorderRules", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Updater user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.ruleService.ReorderRules(c.Request.Context(), req, updaterUserID); err != nil {
		respondServiceError(c, logger, err, "Failed to reorder rules")
		return
	}

	c.Status(http.StatusNoContent)
}
