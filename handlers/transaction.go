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

type TransactionHandler struct {
	Store store.Store
	WS    *WSHandler
}

// GetTransactions lists the user's transactions, bounded to the history
// window their tier grants.
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	userID := middleware.GetUserID(c)
	role := entitlements.ParseRole(middleware.GetUserRole(c))

	d := entitlements.Decide(entitlements.ListTransactions, role)
	since := time.Now().AddDate(0, 0, -d.HistoryDays)

	transactions, err := h.Store.ListTransactions(c.Request.Context(), userID, since)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"history_days": d.HistoryDays,
		"transactions": transactions,
	})
}

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID := middleware.GetUserID(c)
	role := entitlements.ParseRole(middleware.GetUserRole(c))

	var req models.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted " + time.RFC3339})
		return
	}

	d := entitlements.Decide(entitlements.CreateTransaction, role)
	if d.MonthlyQuota != entitlements.QuotaUnlimited {
		now := time.Now()
		startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		count, err := h.Store.CountTransactionsSince(c.Request.Context(), userID, startOfMonth)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if d.QuotaExceeded(count) {
			c.JSON(http.StatusForbidden, gin.H{
				"error":  "Monthly transaction limit reached",
				"reason": entitlements.ReasonQuotaExceeded,
				"quota":  d.MonthlyQuota,
			})
			return
		}
	}

	now := time.Now()
	transaction := models.Transaction{
		ID:         uuid.NewString(),
		UserID:     userID,
		CategoryID: req.CategoryID,
		Title:      req.Title,
		Amount:     req.Amount,
		Type:       req.Type,
		Date:       date,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := h.Store.CreateTransaction(c.Request.Context(), &transaction); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create transaction"})
		return
	}

	h.WS.NotifyUser(userID, "transaction", "created", transaction.ID)
	c.JSON(http.StatusCreated, transaction)
}

func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID := middleware.GetUserID(c)
	transactionID := c.Param("id")

	var req models.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transaction, err := h.Store.GetTransaction(c.Request.Context(), transactionID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if transaction.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Transaction does not belong to this user"})
		return
	}

	if req.Title != nil {
		transaction.Title = *req.Title
	}
	if req.Amount != nil {
		transaction.Amount = *req.Amount
	}
	if req.CategoryID != nil {
		transaction.CategoryID = *req.CategoryID
	}
	if req.Type != nil {
		transaction.Type = *req.Type
	}
	if req.Date != nil {
		date, err := time.Parse(time.RFC3339, *req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted " + time.RFC3339})
			return
		}
		transaction.Date = date
	}
	transaction.UpdatedAt = time.Now()

	if err := h.Store.UpdateTransaction(c.Request.Context(), transaction); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update transaction"})
		return
	}

	h.WS.NotifyUser(userID, "transaction", "updated", transaction.ID)
	c.JSON(http.StatusOK, transaction)
}

func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID := middleware.GetUserID(c)
	transactionID := c.Param("id")

	transaction, err := h.Store.GetTransaction(c.Request.Context(), transactionID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if transaction.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Transaction does not belong to this user"})
		return
	}

	if err := h.Store.DeleteTransaction(c.Request.Context(), transactionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete transaction"})
		return
	}

	h.WS.NotifyUser(userID, "transaction", "deleted", transactionID)
	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}
