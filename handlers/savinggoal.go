package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"thinkprofit-api/middleware"
	"thinkprofit-api/models"
	"thinkprofit-api/store"
)

type SavingGoalHandler struct {
	Store store.Store
	WS    *WSHandler
}

func (h *SavingGoalHandler) GetSavingGoals(c *gin.Context) {
	userID := middleware.GetUserID(c)

	goals, err := h.Store.ListSavingGoals(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch saving goals"})
		return
	}

	c.JSON(http.StatusOK, goals)
}

// GetSavingGoalsByUser keeps the by-user route of the API surface but
// only ever serves the authenticated user's own goals.
func (h *SavingGoalHandler) GetSavingGoalsByUser(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if c.Param("userId") != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot access another user's saving goals"})
		return
	}
	h.GetSavingGoals(c)
}

func (h *SavingGoalHandler) CreateSavingGoal(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateSavingGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dueDate, err := parseOptionalDate(req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	currentAmount := 0.0
	if req.CurrentAmount != nil {
		currentAmount = *req.CurrentAmount
	}
	status := req.Status
	if status == "" {
		status = "active"
	}
	goalType := req.GoalType
	if goalType == "" {
		goalType = models.GoalTypeShortTerm
	}

	now := time.Now()
	goal := models.SavingGoal{
		ID:            uuid.NewString(),
		UserID:        userID,
		Name:          req.Name,
		Description:   req.Description,
		CurrentAmount: currentAmount,
		TargetAmount:  req.TargetAmount,
		Status:        status,
		GoalType:      goalType,
		DueDate:       dueDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := h.Store.CreateSavingGoal(c.Request.Context(), &goal); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create saving goal"})
		return
	}

	h.WS.NotifyUser(userID, "saving_goal", "created", goal.ID)
	c.JSON(http.StatusCreated, goal)
}

func (h *SavingGoalHandler) UpdateSavingGoal(c *gin.Context) {
	userID := middleware.GetUserID(c)
	goalID := c.Param("id")

	var req models.UpdateSavingGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	goal, err := h.Store.GetSavingGoal(c.Request.Context(), goalID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Saving goal not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if goal.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Saving goal does not belong to this user"})
		return
	}

	if req.Name != nil {
		goal.Name = *req.Name
	}
	if req.Description != nil {
		goal.Description = *req.Description
	}
	if req.CurrentAmount != nil {
		goal.CurrentAmount = *req.CurrentAmount
	}
	if req.TargetAmount != nil {
		goal.TargetAmount = *req.TargetAmount
	}
	if req.Status != nil {
		goal.Status = *req.Status
	}
	if req.GoalType != nil {
		goal.GoalType = *req.GoalType
	}
	if req.DueDate != nil {
		dueDate, err := parseOptionalDate(req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		goal.DueDate = dueDate
	}
	goal.UpdatedAt = time.Now()

	if err := h.Store.UpdateSavingGoal(c.Request.Context(), goal); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update saving goal"})
		return
	}

	h.WS.NotifyUser(userID, "saving_goal", "updated", goal.ID)
	c.JSON(http.StatusOK, goal)
}

func (h *SavingGoalHandler) DeleteSavingGoal(c *gin.Context) {
	userID := middleware.GetUserID(c)
	goalID := c.Param("id")

	goal, err := h.Store.GetSavingGoal(c.Request.Context(), goalID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Saving goal not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if goal.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Saving goal does not belong to this user"})
		return
	}

	if err := h.Store.DeleteSavingGoal(c.Request.Context(), goalID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete saving goal"})
		return
	}

	h.WS.NotifyUser(userID, "saving_goal", "deleted", goalID)
	c.JSON(http.StatusOK, gin.H{"message": "Saving goal deleted successfully"})
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, errors.New("due_date must be formatted " + time.RFC3339)
	}
	return &t, nil
}
