package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thinkprofit-api/handlers"
	"thinkprofit-api/middleware"
	"thinkprofit-api/models"
	"thinkprofit-api/routes"
	"thinkprofit-api/store"
	"thinkprofit-api/utils"
)

type testEnv struct {
	router *gin.Engine
	store  *store.Fake
	tokens *utils.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fake := store.NewFake()
	tokens := utils.NewTokenService("test-secret", time.Hour)

	router := gin.New()
	v1 := router.Group("/api/v1")
	routes.SetupAuthRoutes(v1, fake, tokens)
	protected := v1.Group("/")
	protected.Use(middleware.RequireAuth(tokens))
	routes.SetupProtectedRoutes(protected, fake, tokens, handlers.NewWSHandler())

	return &testEnv{router: router, store: fake, tokens: tokens}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// seedUser creates a user directly in the fake store and returns a token
// for it.
func (e *testEnv) seedUser(t *testing.T, role string) (userID, token string) {
	t.Helper()

	userID = uuid.NewString()
	hash, err := utils.HashPassword("password123")
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, e.store.CreateUser(context.Background(), &models.User{
		ID:           userID,
		Email:        userID + "@example.com",
		Name:         "Test User",
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}))

	token, err = e.tokens.GenerateToken(userID, role)
	require.NoError(t, err)
	return userID, token
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var reg models.AuthResponse
	decodeBody(t, w, &reg)
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, "FREE", reg.User.Role)
	assert.Equal(t, 0.0, reg.User.Balance)

	// Duplicate email is rejected.
	w = env.request(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":     "Alice Again",
		"email":    "alice@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Login with the right password succeeds.
	w = env.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var login models.AuthResponse
	decodeBody(t, w, &login)
	assert.Equal(t, reg.User.ID, login.User.ID)

	// Wrong password is a 401.
	w = env.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":     "Bob",
		"email":    "not-an-email",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.request(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":     "Bob",
		"email":    "bob@example.com",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/v1/transactions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.request(t, http.MethodGet, "/api/v1/transactions", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpgradeIssuesPremiumToken(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.seedUser(t, "FREE")

	w := env.request(t, http.MethodPost, "/api/v1/auth/upgrade", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	decodeBody(t, w, &resp)
	assert.Equal(t, "PREMIUM", resp.Role)

	gotID, gotRole, err := env.tokens.ParseToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, userID, gotID)
	assert.Equal(t, "PREMIUM", gotRole)

	user, err := env.store.GetUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "PREMIUM", user.Role)
}

func TestCategoryPremiumGating(t *testing.T) {
	env := newTestEnv(t)
	_, freeToken := env.seedUser(t, "FREE")
	_, premiumToken := env.seedUser(t, "PREMIUM")

	body := gin.H{"name": "Groceries", "type": "household"}

	w := env.request(t, http.MethodPost, "/api/v1/categories", freeToken, body)
	require.Equal(t, http.StatusForbidden, w.Code)
	var denied struct {
		Reason string `json:"reason"`
	}
	decodeBody(t, w, &denied)
	assert.Equal(t, "premium-required", denied.Reason)

	w = env.request(t, http.MethodPost, "/api/v1/categories", premiumToken, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Category
	decodeBody(t, w, &created)
	assert.NotEmpty(t, created.ID)

	// Duplicate name for the same user conflicts.
	w = env.request(t, http.MethodPost, "/api/v1/categories", premiumToken, body)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Invalid type is a validation error.
	w = env.request(t, http.MethodPost, "/api/v1/categories", premiumToken, gin.H{
		"name": "Other", "type": "business",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Mutations are gated too.
	w = env.request(t, http.MethodPut, "/api/v1/categories/"+created.ID, freeToken, body)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = env.request(t, http.MethodDelete, "/api/v1/categories/"+created.ID, freeToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, http.MethodDelete, "/api/v1/categories/"+created.ID, premiumToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCategoryOwnership(t *testing.T) {
	env := newTestEnv(t)
	_, ownerToken := env.seedUser(t, "PREMIUM")
	_, otherToken := env.seedUser(t, "PREMIUM")

	w := env.request(t, http.MethodPost, "/api/v1/categories", ownerToken, gin.H{
		"name": "Travel", "type": "personal",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Category
	decodeBody(t, w, &created)

	w = env.request(t, http.MethodPut, "/api/v1/categories/"+created.ID, otherToken, gin.H{
		"name": "Hijacked", "type": "personal",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, http.MethodDelete, "/api/v1/categories/"+created.ID, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func seedTransactions(t *testing.T, fake *store.Fake, userID string, n int, createdAt time.Time) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, fake.CreateTransaction(context.Background(), &models.Transaction{
			ID:         uuid.NewString(),
			UserID:     userID,
			CategoryID: "cat",
			Title:      fmt.Sprintf("tx %d", i),
			Amount:     10,
			Type:       models.TransactionTypeExpense,
			Date:       createdAt,
			CreatedAt:  createdAt,
			UpdatedAt:  createdAt,
		}))
	}
}

func TestTransactionQuota(t *testing.T) {
	env := newTestEnv(t)
	freeID, freeToken := env.seedUser(t, "FREE")
	premiumID, premiumToken := env.seedUser(t, "PREMIUM")

	seedTransactions(t, env.store, freeID, 50, time.Now())
	seedTransactions(t, env.store, premiumID, 1000, time.Now())

	body := gin.H{
		"title":       "Coffee",
		"amount":      3.5,
		"category_id": "cat",
		"type":        "expense",
		"date":        time.Now().Format(time.RFC3339),
	}

	// A FREE user at exactly 50 this month is denied the 51st.
	w := env.request(t, http.MethodPost, "/api/v1/transactions", freeToken, body)
	require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	var denied struct {
		Reason string `json:"reason"`
	}
	decodeBody(t, w, &denied)
	assert.Equal(t, "quota-exceeded", denied.Reason)

	// A PREMIUM user with 1000 is still allowed.
	w = env.request(t, http.MethodPost, "/api/v1/transactions", premiumToken, body)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestTransactionHistoryWindow(t *testing.T) {
	env := newTestEnv(t)
	userID, freeToken := env.seedUser(t, "FREE")

	now := time.Now()
	seedTransactions(t, env.store, userID, 1, now.AddDate(0, 0, -5))
	seedTransactions(t, env.store, userID, 1, now.AddDate(0, 0, -40))

	w := env.request(t, http.MethodGet, "/api/v1/transactions", freeToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		HistoryDays  int                  `json:"history_days"`
		Transactions []models.Transaction `json:"transactions"`
	}
	decodeBody(t, w, &resp)
	assert.Equal(t, 30, resp.HistoryDays)
	assert.Len(t, resp.Transactions, 1, "the 40-day-old transaction is outside the FREE window")

	// The same data through a premium token covers the older entry.
	premiumToken, err := env.tokens.GenerateToken(userID, "PREMIUM")
	require.NoError(t, err)

	w = env.request(t, http.MethodGet, "/api/v1/transactions", premiumToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &resp)
	assert.Equal(t, 365, resp.HistoryDays)
	assert.Len(t, resp.Transactions, 2)
}

func TestTransactionValidationAndOwnership(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "FREE")
	_, otherToken := env.seedUser(t, "FREE")

	// Unknown type is rejected at binding.
	w := env.request(t, http.MethodPost, "/api/v1/transactions", token, gin.H{
		"title":       "Mystery",
		"amount":      1.0,
		"category_id": "cat",
		"type":        "transfer",
		"date":        time.Now().Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.request(t, http.MethodPost, "/api/v1/transactions", token, gin.H{
		"title":       "Salary",
		"amount":      2500.0,
		"category_id": "cat",
		"type":        "income",
		"date":        time.Now().Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Transaction
	decodeBody(t, w, &created)

	// Another user cannot touch it.
	w = env.request(t, http.MethodDelete, "/api/v1/transactions/"+created.ID, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	newTitle := "Salary (corrected)"
	w = env.request(t, http.MethodPut, "/api/v1/transactions/"+created.ID, token, gin.H{"title": newTitle})
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Transaction
	decodeBody(t, w, &updated)
	assert.Equal(t, newTitle, updated.Title)
	assert.Equal(t, created.Amount, updated.Amount, "fields not in the request are preserved")

	w = env.request(t, http.MethodDelete, "/api/v1/transactions/"+created.ID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodDelete, "/api/v1/transactions/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBudgetCreateAndOverlap(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "FREE")

	w := env.request(t, http.MethodPost, "/api/v1/budgets", token, gin.H{
		"category_id": "cat-1",
		"amount":      500.0,
		"start_date":  "2025-01-10",
		"end_date":    "2025-01-20",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.Budget
	decodeBody(t, w, &created)
	assert.Equal(t, 500.0, created.RemainingAmount)
	assert.Equal(t, "active", created.Status)

	// Shares a boundary day with the first budget.
	w = env.request(t, http.MethodPost, "/api/v1/budgets", token, gin.H{
		"category_id": "cat-1",
		"amount":      300.0,
		"start_date":  "2025-01-20",
		"end_date":    "2025-01-31",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Inverted range is a validation error.
	w = env.request(t, http.MethodPost, "/api/v1/budgets", token, gin.H{
		"category_id": "cat-2",
		"amount":      300.0,
		"start_date":  "2025-03-10",
		"end_date":    "2025-03-01",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBudgetUpdateRecomputesRemaining(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.seedUser(t, "FREE")
	_, otherToken := env.seedUser(t, "FREE")

	w := env.request(t, http.MethodPost, "/api/v1/budgets", token, gin.H{
		"category_id": "cat-1",
		"amount":      100.0,
		"start_date":  "2025-04-01",
		"end_date":    "2025-04-30",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Budget
	decodeBody(t, w, &created)

	// Simulate consumption so the proportional recompute is visible.
	stored, err := env.store.GetBudget(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, userID, stored.UserID)
	stored.RemainingAmount = 40
	require.NoError(t, env.store.UpdateBudget(context.Background(), stored))

	w = env.request(t, http.MethodPut, "/api/v1/budgets/"+created.ID, token, gin.H{"amount": 200.0})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.Budget
	decodeBody(t, w, &updated)
	assert.Equal(t, 200.0, updated.Amount)
	assert.Equal(t, 80.0, updated.RemainingAmount)

	// Another user cannot update or delete it.
	w = env.request(t, http.MethodPut, "/api/v1/budgets/"+created.ID, otherToken, gin.H{"amount": 1.0})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = env.request(t, http.MethodDelete, "/api/v1/budgets/"+created.ID, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, http.MethodDelete, "/api/v1/budgets/"+created.ID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSavingGoalCRUD(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.seedUser(t, "FREE")
	_, otherToken := env.seedUser(t, "FREE")

	// Missing target amount fails binding.
	w := env.request(t, http.MethodPost, "/api/v1/goals", token, gin.H{"name": "Vacation"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Invalid goal type fails binding.
	w = env.request(t, http.MethodPost, "/api/v1/goals", token, gin.H{
		"name": "Vacation", "target_amount": 1000.0, "goal_type": "forever",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.request(t, http.MethodPost, "/api/v1/goals", token, gin.H{
		"name":          "Vacation",
		"target_amount": 1000.0,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.SavingGoal
	decodeBody(t, w, &created)
	assert.Equal(t, models.GoalTypeShortTerm, created.GoalType)
	assert.Equal(t, "active", created.Status)
	assert.Equal(t, 0.0, created.CurrentAmount)
	assert.Nil(t, created.DueDate)

	current := 250.0
	w = env.request(t, http.MethodPut, "/api/v1/goals/"+created.ID, token, gin.H{"current_amount": current})
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.SavingGoal
	decodeBody(t, w, &updated)
	assert.Equal(t, current, updated.CurrentAmount)

	// The by-user route only serves the caller's own goals.
	w = env.request(t, http.MethodGet, "/api/v1/goals/user/"+userID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var goals []models.SavingGoal
	decodeBody(t, w, &goals)
	assert.Len(t, goals, 1)

	w = env.request(t, http.MethodGet, "/api/v1/goals/user/"+userID, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, http.MethodDelete, "/api/v1/goals/"+created.ID, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, http.MethodDelete, "/api/v1/goals/"+created.ID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
