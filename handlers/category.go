package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"thinkprofit-api/entitlements"
	"thinkprofit-api/middleware"
	"thinkprofit-api/models"
	"thinkprofit-api/store"
)

type CategoryHandler struct {
	Store store.Store
	WS    *WSHandler
}

func (h *CategoryHandler) GetCategories(c *gin.Context) {
	userID := middleware.GetUserID(c)

	categories, err := h.Store.ListCategories(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}

	c.JSON(http.StatusOK, categories)
}

// CreateCategory adds a custom category. Custom categories are a premium
// feature, so the entitlement check runs before anything else.
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	userID := middleware.GetUserID(c)
	role := entitlements.ParseRole(middleware.GetUserRole(c))

	if d := entitlements.Decide(entitlements.CreateCategory, role); !d.Allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only premium users can create custom categories", "reason": d.Reason})
		return
	}

	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exists, err := h.Store.CategoryNameExists(c.Request.Context(), userID, req.Name, "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if exists {
		c.JSON(http.StatusConflict, gin.H{"error": "Category with this name already exists"})
		return
	}

	now := time.Now()
	category := models.Category{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.Store.CreateCategory(c.Request.Context(), &category); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	h.WS.NotifyUser(userID, "category", "created", category.ID)
	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	userID := middleware.GetUserID(c)
	role := entitlements.ParseRole(middleware.GetUserRole(c))
	categoryID := c.Param("id")

	if d := entitlements.Decide(entitlements.UpdateCategory, role); !d.Allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only premium users can update categories", "reason": d.Reason})
		return
	}

	var req models.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.Store.GetCategory(c.Request.Context(), categoryID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if category.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Category does not belong to this user"})
		return
	}

	exists, err := h.Store.CategoryNameExists(c.Request.Context(), userID, req.Name, categoryID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if exists {
		c.JSON(http.StatusConflict, gin.H{"error": "Category with this name already exists"})
		return
	}

	category.Name = req.Name
	category.Description = req.Description
	category.Type = req.Type
	category.UpdatedAt = time.Now()

	if err := h.Store.UpdateCategory(c.Request.Context(), category); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
		return
	}

	h.WS.NotifyUser(userID, "category", "updated", category.ID)
	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	userID := middleware.GetUserID(c)
	role := entitlements.ParseRole(middleware.GetUserRole(c))
	categoryID := c.Param("id")

	if d := entitlements.Decide(entitlements.DeleteCategory, role); !d.Allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only premium users can delete categories", "reason": d.Reason})
		return
	}

	category, err := h.Store.GetCategory(c.Request.Context(), categoryID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if category.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Category does not belong to this user"})
		return
	}

	if err := h.Store.DeleteCategory(c.Request.Context(), categoryID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}

	h.WS.NotifyUser(userID, "category", "deleted", categoryID)
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
