package models

import "time"

const (
	GoalTypeShortTerm = "short-term"
	GoalTypeLongTerm  = "long-term"
)

type SavingGoal struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	CurrentAmount float64    `json:"current_amount"`
	TargetAmount  float64    `json:"target_amount"`
	Status        string     `json:"status"`
	GoalType      string     `json:"goal_type"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type CreateSavingGoalRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	CurrentAmount *float64 `json:"current_amount" binding:"omitempty,gte=0"`
	TargetAmount  float64  `json:"target_amount" binding:"required,gt=0"`
	Status        string   `json:"status"`
	GoalType      string   `json:"goal_type" binding:"omitempty,oneof=short-term long-term"`
	DueDate       *string  `json:"due_date"`
}

type UpdateSavingGoalRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	CurrentAmount *float64 `json:"current_amount" binding:"omitempty,gte=0"`
	TargetAmount  *float64 `json:"target_amount" binding:"omitempty,gt=0"`
	Status        *string  `json:"status"`
	GoalType      *string  `json:"goal_type" binding:"omitempty,oneof=short-term long-term"`
	DueDate       *string  `json:"due_date"`
}
