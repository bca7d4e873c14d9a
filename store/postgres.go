package store

import (
	"context"
	"database/sql"
	"time"

	"thinkprofit-api/models"
)

// Postgres implements Store over database/sql with the lib/pq driver.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// --- users ---

func (s *Postgres) CreateUser(ctx context.Context, u *models.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, password_hash, role, balance, totp_enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, u.ID, u.Email, u.Name, u.PasswordHash, u.Role, u.Balance, u.TOTPEnabled, u.CreatedAt, u.UpdatedAt)
	return err
}

func (s *Postgres) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	var totpSecret sql.NullString
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.Balance,
		&totpSecret, &u.TOTPEnabled, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.TOTPSecret = totpSecret.String
	return &u, nil
}

const userColumns = `id, email, name, password_hash, role, balance, totp_secret, totp_enabled, created_at, updated_at`

func (s *Postgres) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (s *Postgres) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (s *Postgres) SetUserRole(ctx context.Context, id, role string) error {
	return s.execExpectingRow(ctx,
		`UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2`, role, id)
}

func (s *Postgres) SetUserTOTP(ctx context.Context, id, secret string, enabled bool) error {
	return s.execExpectingRow(ctx,
		`UPDATE users SET totp_secret = NULLIF($1, ''), totp_enabled = $2, updated_at = NOW() WHERE id = $3`,
		secret, enabled, id)
}

// --- categories ---

func (s *Postgres) CreateCategory(ctx context.Context, c *models.Category) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, user_id, name, description, type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, c.ID, c.UserID, c.Name, c.Description, c.Type, c.CreatedAt, c.UpdatedAt)
	return err
}

func (s *Postgres) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	var c models.Category
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, description, type, created_at, updated_at
		FROM categories WHERE id = $1
	`, id).Scan(&c.ID, &c.UserID, &c.Name, &c.Description, &c.Type, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Postgres) ListCategories(ctx context.Context, userID string) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, description, type, created_at, updated_at
		FROM categories WHERE user_id = $1 ORDER BY name
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Description, &c.Type, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *Postgres) CategoryNameExists(ctx context.Context, userID, name, excludeID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM categories
			WHERE user_id = $1 AND name = $2 AND id <> $3
		)
	`, userID, name, excludeID).Scan(&exists)
	return exists, err
}

func (s *Postgres) UpdateCategory(ctx context.Context, c *models.Category) error {
	return s.execExpectingRow(ctx, `
		UPDATE categories
		SET name = $1, description = $2, type = $3, updated_at = NOW()
		WHERE id = $4
	`, c.Name, c.Description, c.Type, c.ID)
}

func (s *Postgres) DeleteCategory(ctx context.Context, id string) error {
	return s.execExpectingRow(ctx, `DELETE FROM categories WHERE id = $1`, id)
}

// --- transactions ---

func (s *Postgres) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, category_id, title, amount, type, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, t.ID, t.UserID, t.CategoryID, t.Title, t.Amount, t.Type, t.Date, t.CreatedAt, t.UpdatedAt)
	return err
}

func (s *Postgres) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	var t models.Transaction
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, category_id, title, amount, type, date, created_at, updated_at
		FROM transactions WHERE id = $1
	`, id).Scan(&t.ID, &t.UserID, &t.CategoryID, &t.Title, &t.Amount, &t.Type, &t.Date, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Postgres) ListTransactions(ctx context.Context, userID string, since time.Time) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, category_id, title, amount, type, date, created_at, updated_at
		FROM transactions
		WHERE user_id = $1 AND date >= $2
		ORDER BY date DESC
	`, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.CategoryID, &t.Title, &t.Amount, &t.Type, &t.Date, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func (s *Postgres) CountTransactionsSince(ctx context.Context, userID string, since time.Time) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM transactions WHERE user_id = $1 AND created_at >= $2
	`, userID, since).Scan(&count)
	return count, err
}

func (s *Postgres) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	return s.execExpectingRow(ctx, `
		UPDATE transactions
		SET category_id = $1, title = $2, amount = $3, type = $4, date = $5, updated_at = NOW()
		WHERE id = $6
	`, t.CategoryID, t.Title, t.Amount, t.Type, t.Date, t.ID)
}

func (s *Postgres) DeleteTransaction(ctx context.Context, id string) error {
	return s.execExpectingRow(ctx, `DELETE FROM transactions WHERE id = $1`, id)
}

// --- budgets ---

func (s *Postgres) CreateBudget(ctx context.Context, b *models.Budget) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO budgets (id, user_id, category_id, amount, remaining_amount, start_date, end_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, b.ID, b.UserID, b.CategoryID, b.Amount, b.RemainingAmount, b.StartDate, b.EndDate, b.Status, b.CreatedAt, b.UpdatedAt)
	return err
}

const budgetColumns = `id, user_id, category_id, amount, remaining_amount, start_date, end_date, status, created_at, updated_at`

func scanBudget(rows interface{ Scan(...any) error }) (models.Budget, error) {
	var b models.Budget
	err := rows.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Amount, &b.RemainingAmount,
		&b.StartDate, &b.EndDate, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (s *Postgres) GetBudget(ctx context.Context, id string) (*models.Budget, error) {
	b, err := scanBudget(s.db.QueryRowContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Postgres) listBudgets(ctx context.Context, query string, args ...any) ([]models.Budget, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	budgets := []models.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (s *Postgres) ListBudgets(ctx context.Context, userID string) ([]models.Budget, error) {
	return s.listBudgets(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE user_id = $1 ORDER BY start_date`, userID)
}

func (s *Postgres) ListBudgetsByCategory(ctx context.Context, userID, categoryID string) ([]models.Budget, error) {
	return s.listBudgets(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE user_id = $1 AND category_id = $2 ORDER BY start_date`,
		userID, categoryID)
}

func (s *Postgres) UpdateBudget(ctx context.Context, b *models.Budget) error {
	return s.execExpectingRow(ctx, `
		UPDATE budgets
		SET category_id = $1, amount = $2, remaining_amount = $3, start_date = $4, end_date = $5, status = $6, updated_at = NOW()
		WHERE id = $7
	`, b.CategoryID, b.Amount, b.RemainingAmount, b.StartDate, b.EndDate, b.Status, b.ID)
}

func (s *Postgres) DeleteBudget(ctx context.Context, id string) error {
	return s.execExpectingRow(ctx, `DELETE FROM budgets WHERE id = $1`, id)
}

// --- saving goals ---

func (s *Postgres) CreateSavingGoal(ctx context.Context, g *models.SavingGoal) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO saving_goals (id, user_id, name, description, current_amount, target_amount, status, goal_type, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, g.ID, g.UserID, g.Name, g.Description, g.CurrentAmount, g.TargetAmount, g.Status, g.GoalType, g.DueDate, g.CreatedAt, g.UpdatedAt)
	return err
}

func (s *Postgres) GetSavingGoal(ctx context.Context, id string) (*models.SavingGoal, error) {
	var g models.SavingGoal
	var dueDate sql.NullTime
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, description, current_amount, target_amount, status, goal_type, due_date, created_at, updated_at
		FROM saving_goals WHERE id = $1
	`, id).Scan(&g.ID, &g.UserID, &g.Name, &g.Description, &g.CurrentAmount, &g.TargetAmount,
		&g.Status, &g.GoalType, &dueDate, &g.CreatedAt, &g.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if dueDate.Valid {
		g.DueDate = &dueDate.Time
	}
	return &g, nil
}

func (s *Postgres) ListSavingGoals(ctx context.Context, userID string) ([]models.SavingGoal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, description, current_amount, target_amount, status, goal_type, due_date, created_at, updated_at
		FROM saving_goals WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals := []models.SavingGoal{}
	for rows.Next() {
		var g models.SavingGoal
		var dueDate sql.NullTime
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.Description, &g.CurrentAmount, &g.TargetAmount,
			&g.Status, &g.GoalType, &dueDate, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		if dueDate.Valid {
			g.DueDate = &dueDate.Time
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (s *Postgres) UpdateSavingGoal(ctx context.Context, g *models.SavingGoal) error {
	return s.execExpectingRow(ctx, `
		UPDATE saving_goals
		SET name = $1, description = $2, current_amount = $3, target_amount = $4, status = $5, goal_type = $6, due_date = $7, updated_at = NOW()
		WHERE id = $8
	`, g.Name, g.Description, g.CurrentAmount, g.TargetAmount, g.Status, g.GoalType, g.DueDate, g.ID)
}

func (s *Postgres) DeleteSavingGoal(ctx context.Context, id string) error {
	return s.execExpectingRow(ctx, `DELETE FROM saving_goals WHERE id = $1`, id)
}

// execExpectingRow runs a statement that must affect an existing row and
// maps a zero-row result to ErrNotFound.
func (s *Postgres) execExpectingRow(ctx context.Context, query string, args ...any) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
