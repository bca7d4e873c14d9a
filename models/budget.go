package models

import "time"

type Budget struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	CategoryID      string    `json:"category_id"`
	Amount          float64   `json:"amount"`
	RemainingAmount float64   `json:"remaining_amount"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Dates on budget requests are calendar days, formatted 2006-01-02.
type CreateBudgetRequest struct {
	CategoryID string  `json:"category_id" binding:"required"`
	Amount     float64 `json:"amount" binding:"required,gt=0"`
	StartDate  string  `json:"start_date" binding:"required"`
	EndDate    string  `json:"end_date" binding:"required"`
	Status     string  `json:"status" binding:"omitempty,oneof=active paused closed"`
}

type UpdateBudgetRequest struct {
	CategoryID *string  `json:"category_id"`
	Amount     *float64 `json:"amount" binding:"omitempty,gt=0"`
	StartDate  *string  `json:"start_date"`
	EndDate    *string  `json:"end_date"`
	Status     *string  `json:"status" binding:"omitempty,oneof=active paused closed"`
}
