package models

import "time"

const (
	TransactionTypeExpense = "expense"
	TransactionTypeIncome  = "income"
)

type Transaction struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	CategoryID string    `json:"category_id"`
	Title      string    `json:"title"`
	Amount     float64   `json:"amount"`
	Type       string    `json:"type"`
	Date       time.Time `json:"date"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CreateTransactionRequest struct {
	Title      string  `json:"title" binding:"required"`
	Amount     float64 `json:"amount" binding:"required,gt=0"`
	CategoryID string  `json:"category_id" binding:"required"`
	Type       string  `json:"type" binding:"required,oneof=expense income"`
	Date       string  `json:"date" binding:"required"`
}

// UpdateTransactionRequest carries a partial update; nil fields are left
// untouched.
type UpdateTransactionRequest struct {
	Title      *string  `json:"title"`
	Amount     *float64 `json:"amount" binding:"omitempty,gt=0"`
	CategoryID *string  `json:"category_id"`
	Type       *string  `json:"type" binding:"omitempty,oneof=expense income"`
	Date       *string  `json:"date"`
}
