package store

import (
	"context"
	"sync"
	"time"

	"thinkprofit-api/models"
)

// Fake is an in-memory Store used by tests. It mirrors the Postgres
// implementation's behavior, including ErrNotFound on missing rows.
type Fake struct {
	mu           sync.RWMutex
	users        map[string]models.User
	categories   map[string]models.Category
	transactions map[string]models.Transaction
	budgets      map[string]models.Budget
	goals        map[string]models.SavingGoal
}

func NewFake() *Fake {
	return &Fake{
		users:        make(map[string]models.User),
		categories:   make(map[string]models.Category),
		transactions: make(map[string]models.Transaction),
		budgets:      make(map[string]models.Budget),
		goals:        make(map[string]models.SavingGoal),
	}
}

var _ Store = (*Fake)(nil)

// --- users ---

func (f *Fake) CreateUser(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = *u
	return nil
}

func (f *Fake) GetUser(_ context.Context, id string) (*models.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	u, ok := f.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (f *Fake) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, u := range f.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (f *Fake) SetUserRole(_ context.Context, id, role string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Role = role
	u.UpdatedAt = time.Now()
	f.users[id] = u
	return nil
}

func (f *Fake) SetUserTOTP(_ context.Context, id, secret string, enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return ErrNotFound
	}
	u.TOTPSecret = secret
	u.TOTPEnabled = enabled
	u.UpdatedAt = time.Now()
	f.users[id] = u
	return nil
}

// --- categories ---

func (f *Fake) CreateCategory(_ context.Context, c *models.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.categories[c.ID] = *c
	return nil
}

func (f *Fake) GetCategory(_ context.Context, id string) (*models.Category, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	c, ok := f.categories[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (f *Fake) ListCategories(_ context.Context, userID string) ([]models.Category, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	categories := []models.Category{}
	for _, c := range f.categories {
		if c.UserID == userID {
			categories = append(categories, c)
		}
	}
	return categories, nil
}

func (f *Fake) CategoryNameExists(_ context.Context, userID, name, excludeID string) (bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, c := range f.categories {
		if c.UserID == userID && c.Name == name && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *Fake) UpdateCategory(_ context.Context, c *models.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.categories[c.ID]; !ok {
		return ErrNotFound
	}
	f.categories[c.ID] = *c
	return nil
}

func (f *Fake) DeleteCategory(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.categories[id]; !ok {
		return ErrNotFound
	}
	delete(f.categories, id)
	return nil
}

// --- transactions ---

func (f *Fake) CreateTransaction(_ context.Context, t *models.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transactions[t.ID] = *t
	return nil
}

func (f *Fake) GetTransaction(_ context.Context, id string) (*models.Transaction, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	t, ok := f.transactions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (f *Fake) ListTransactions(_ context.Context, userID string, since time.Time) ([]models.Transaction, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	transactions := []models.Transaction{}
	for _, t := range f.transactions {
		if t.UserID == userID && !t.Date.Before(since) {
			transactions = append(transactions, t)
		}
	}
	return transactions, nil
}

func (f *Fake) CountTransactionsSince(_ context.Context, userID string, since time.Time) (int, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	count := 0
	for _, t := range f.transactions {
		if t.UserID == userID && !t.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (f *Fake) UpdateTransaction(_ context.Context, t *models.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.transactions[t.ID]; !ok {
		return ErrNotFound
	}
	f.transactions[t.ID] = *t
	return nil
}

func (f *Fake) DeleteTransaction(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.transactions[id]; !ok {
		return ErrNotFound
	}
	delete(f.transactions, id)
	return nil
}

// --- budgets ---

func (f *Fake) CreateBudget(_ context.Context, b *models.Budget) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.budgets[b.ID] = *b
	return nil
}

func (f *Fake) GetBudget(_ context.Context, id string) (*models.Budget, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	b, ok := f.budgets[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (f *Fake) ListBudgets(_ context.Context, userID string) ([]models.Budget, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	budgets := []models.Budget{}
	for _, b := range f.budgets {
		if b.UserID == userID {
			budgets = append(budgets, b)
		}
	}
	return budgets, nil
}

func (f *Fake) ListBudgetsByCategory(_ context.Context, userID, categoryID string) ([]models.Budget, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	budgets := []models.Budget{}
	for _, b := range f.budgets {
		if b.UserID == userID && b.CategoryID == categoryID {
			budgets = append(budgets, b)
		}
	}
	return budgets, nil
}

func (f *Fake) UpdateBudget(_ context.Context, b *models.Budget) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.budgets[b.ID]; !ok {
		return ErrNotFound
	}
	f.budgets[b.ID] = *b
	return nil
}

func (f *Fake) DeleteBudget(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.budgets[id]; !ok {
		return ErrNotFound
	}
	delete(f.budgets, id)
	return nil
}

// --- saving goals ---

func (f *Fake) CreateSavingGoal(_ context.Context, g *models.SavingGoal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.goals[g.ID] = *g
	return nil
}

func (f *Fake) GetSavingGoal(_ context.Context, id string) (*models.SavingGoal, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	g, ok := f.goals[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &g, nil
}

func (f *Fake) ListSavingGoals(_ context.Context, userID string) ([]models.SavingGoal, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	goals := []models.SavingGoal{}
	for _, g := range f.goals {
		if g.UserID == userID {
			goals = append(goals, g)
		}
	}
	return goals, nil
}

func (f *Fake) UpdateSavingGoal(_ context.Context, g *models.SavingGoal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.goals[g.ID]; !ok {
		return ErrNotFound
	}
	f.goals[g.ID] = *g
	return nil
}

func (f *Fake) DeleteSavingGoal(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.goals[id]; !ok {
		return ErrNotFound
	}
	delete(f.goals, id)
	return nil
}
