package store

import (
	"context"
	"errors"
	"time"

	"thinkprofit-api/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	SetUserRole(ctx context.Context, id, role string) error
	SetUserTOTP(ctx context.Context, id, secret string, enabled bool) error
}

type CategoryStore interface {
	CreateCategory(ctx context.Context, c *models.Category) error
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	ListCategories(ctx context.Context, userID string) ([]models.Category, error)
	CategoryNameExists(ctx context.Context, userID, name, excludeID string) (bool, error)
	UpdateCategory(ctx context.Context, c *models.Category) error
	DeleteCategory(ctx context.Context, id string) error
}

type TransactionStore interface {
	CreateTransaction(ctx context.Context, t *models.Transaction) error
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
	ListTransactions(ctx context.Context, userID string, since time.Time) ([]models.Transaction, error)
	CountTransactionsSince(ctx context.Context, userID string, since time.Time) (int, error)
	UpdateTransaction(ctx context.Context, t *models.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
}

type BudgetStore interface {
	CreateBudget(ctx context.Context, b *models.Budget) error
	GetBudget(ctx context.Context, id string) (*models.Budget, error)
	ListBudgets(ctx context.Context, userID string) ([]models.Budget, error)
	ListBudgetsByCategory(ctx context.Context, userID, categoryID string) ([]models.Budget, error)
	UpdateBudget(ctx context.Context, b *models.Budget) error
	DeleteBudget(ctx context.Context, id string) error
}

type SavingGoalStore interface {
	CreateSavingGoal(ctx context.Context, g *models.SavingGoal) error
	GetSavingGoal(ctx context.Context, id string) (*models.SavingGoal, error)
	ListSavingGoals(ctx context.Context, userID string) ([]models.SavingGoal, error)
	UpdateSavingGoal(ctx context.Context, g *models.SavingGoal) error
	DeleteSavingGoal(ctx context.Context, id string) error
}

// Store is the full persistence surface. Handlers receive it as an
// injected collaborator so tests can substitute the in-memory Fake.
type Store interface {
	UserStore
	CategoryStore
	TransactionStore
	BudgetStore
	SavingGoalStore
}
