package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"thinkprofit-api/middleware"
	"thinkprofit-api/models"
	"thinkprofit-api/services"
	"thinkprofit-api/store"
)

type BudgetHandler struct {
	Budgets *services.BudgetService
	WS      *WSHandler
}

func (h *BudgetHandler) GetBudgets(c *gin.Context) {
	userID := middleware.GetUserID(c)

	budgets, err := h.Budgets.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch budgets"})
		return
	}

	c.JSON(http.StatusOK, budgets)
}

func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	budget, err := h.Budgets.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.respondBudgetError(c, err, "Failed to create budget")
		return
	}

	h.WS.NotifyUser(userID, "budget", "created", budget.ID)
	c.JSON(http.StatusCreated, budget)
}

func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	userID := middleware.GetUserID(c)
	budgetID := c.Param("id")

	var req models.UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	budget, err := h.Budgets.Update(c.Request.Context(), userID, budgetID, req)
	if err != nil {
		h.respondBudgetError(c, err, "Failed to update budget")
		return
	}

	h.WS.NotifyUser(userID, "budget", "updated", budget.ID)
	c.JSON(http.StatusOK, budget)
}

func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	userID := middleware.GetUserID(c)
	budgetID := c.Param("id")

	if err := h.Budgets.Delete(c.Request.Context(), userID, budgetID); err != nil {
		h.respondBudgetError(c, err, "Failed to delete budget")
		return
	}

	h.WS.NotifyUser(userID, "budget", "deleted", budgetID)
	c.JSON(http.StatusOK, gin.H{"message": "Budget deleted successfully"})
}

func (h *BudgetHandler) respondBudgetError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrOverlap):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrOwnership):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Budget not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
