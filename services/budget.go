package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"thinkprofit-api/models"
	"thinkprofit-api/store"
)

var (
	// ErrValidation marks a malformed or out-of-range field.
	ErrValidation = errors.New("invalid budget")
	// ErrOverlap is returned when a budget's date range collides with an
	// existing budget for the same user and category.
	ErrOverlap = errors.New("a budget already exists for this category during the specified period")
	// ErrOwnership is returned when the acting user does not own the budget.
	ErrOwnership = errors.New("budget does not belong to this user")
)

// DateLayout is the wire format for budget dates.
const DateLayout = "2006-01-02"

// BudgetService owns budget validation and persistence. Overlap checks
// are read-validate-write, so creates and updates for the same
// (user, category) pair serialize on a keyed mutex; without it a
// concurrent writer could slip a conflicting budget in between the check
// and the write.
type BudgetService struct {
	store store.BudgetStore

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewBudgetService(st store.BudgetStore) *BudgetService {
	return &BudgetService{
		store: st,
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *BudgetService) pairLock(userID, categoryID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := userID + "/" + categoryID
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

// HasOverlap reports whether the candidate's inclusive [start, end] range
// intersects any budget in existing. The caller pre-filters existing to
// the candidate's user and category. Ranges that merely touch at an
// endpoint share a calendar day and therefore overlap.
func HasOverlap(candidate models.Budget, existing []models.Budget) bool {
	for _, b := range existing {
		if !candidate.StartDate.After(b.EndDate) && !b.StartDate.After(candidate.EndDate) {
			return true
		}
	}
	return false
}

// RecomputeRemaining returns the remaining amount after a budget's total
// changes, preserving the consumed fraction. A nil newAmount leaves the
// remaining amount untouched. Zero-amount budgets are rejected before
// storage, so the division is always defined.
func RecomputeRemaining(old models.Budget, newAmount *float64) float64 {
	if newAmount == nil {
		return old.RemainingAmount
	}
	return old.RemainingAmount / old.Amount * *newAmount
}

func parseDay(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be formatted %s", ErrValidation, field, DateLayout)
	}
	return t, nil
}

func (s *BudgetService) Create(ctx context.Context, userID string, req models.CreateBudgetRequest) (*models.Budget, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be greater than 0", ErrValidation)
	}

	start, err := parseDay("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDay("end_date", req.EndDate)
	if err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, fmt.Errorf("%w: start_date must be on or before end_date", ErrValidation)
	}

	status := req.Status
	if status == "" {
		status = "active"
	}

	now := time.Now()
	budget := &models.Budget{
		ID:              uuid.NewString(),
		UserID:          userID,
		CategoryID:      req.CategoryID,
		Amount:          req.Amount,
		RemainingAmount: req.Amount,
		StartDate:       start,
		EndDate:         end,
		Status:          status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	lock := s.pairLock(userID, req.CategoryID)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.store.ListBudgetsByCategory(ctx, userID, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if HasOverlap(*budget, existing) {
		return nil, ErrOverlap
	}

	if err := s.store.CreateBudget(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

func (s *BudgetService) Update(ctx context.Context, userID, id string, req models.UpdateBudgetRequest) (*models.Budget, error) {
	budget, err := s.store.GetBudget(ctx, id)
	if err != nil {
		return nil, err
	}
	if budget.UserID != userID {
		return nil, ErrOwnership
	}

	updated := *budget
	rangeChanged := false

	if req.CategoryID != nil && *req.CategoryID != budget.CategoryID {
		updated.CategoryID = *req.CategoryID
		rangeChanged = true
	}
	if req.StartDate != nil {
		start, err := parseDay("start_date", *req.StartDate)
		if err != nil {
			return nil, err
		}
		updated.StartDate = start
		rangeChanged = true
	}
	if req.EndDate != nil {
		end, err := parseDay("end_date", *req.EndDate)
		if err != nil {
			return nil, err
		}
		updated.EndDate = end
		rangeChanged = true
	}
	if updated.StartDate.After(updated.EndDate) {
		return nil, fmt.Errorf("%w: start_date must be on or before end_date", ErrValidation)
	}

	if req.Amount != nil {
		if *req.Amount <= 0 {
			return nil, fmt.Errorf("%w: amount must be greater than 0", ErrValidation)
		}
		updated.RemainingAmount = RecomputeRemaining(*budget, req.Amount)
		updated.Amount = *req.Amount
	}
	if req.Status != nil {
		updated.Status = *req.Status
	}
	updated.UpdatedAt = time.Now()

	lock := s.pairLock(userID, updated.CategoryID)
	lock.Lock()
	defer lock.Unlock()

	if rangeChanged {
		existing, err := s.store.ListBudgetsByCategory(ctx, userID, updated.CategoryID)
		if err != nil {
			return nil, err
		}
		others := make([]models.Budget, 0, len(existing))
		for _, b := range existing {
			if b.ID != updated.ID {
				others = append(others, b)
			}
		}
		if HasOverlap(updated, others) {
			return nil, ErrOverlap
		}
	}

	if err := s.store.UpdateBudget(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *BudgetService) Delete(ctx context.Context, userID, id string) error {
	budget, err := s.store.GetBudget(ctx, id)
	if err != nil {
		return err
	}
	if budget.UserID != userID {
		return ErrOwnership
	}
	return s.store.DeleteBudget(ctx, id)
}

func (s *BudgetService) List(ctx context.Context, userID string) ([]models.Budget, error) {
	return s.store.ListBudgets(ctx, userID)
}
