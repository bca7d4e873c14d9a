package routes

import (
	"github.com/gin-gonic/gin"

	"thinkprofit-api/handlers"
	"thinkprofit-api/services"
	"thinkprofit-api/store"
	"thinkprofit-api/utils"
)

// SetupAuthRoutes sets up public authentication routes.
func SetupAuthRoutes(rg *gin.RouterGroup, st store.Store, tokens *utils.TokenService) {
	authHandler := &handlers.AuthHandler{Store: st, Tokens: tokens}

	rg.POST("/auth/register", authHandler.Register)
	rg.POST("/auth/login", authHandler.Login)
}

// SetupProtectedRoutes sets up everything behind the auth middleware.
func SetupProtectedRoutes(rg *gin.RouterGroup, st store.Store, tokens *utils.TokenService, ws *handlers.WSHandler) {
	authHandler := &handlers.AuthHandler{Store: st, Tokens: tokens}
	userHandler := &handlers.UserHandler{Store: st}
	categoryHandler := &handlers.CategoryHandler{Store: st, WS: ws}
	transactionHandler := &handlers.TransactionHandler{Store: st, WS: ws}
	budgetHandler := &handlers.BudgetHandler{Budgets: services.NewBudgetService(st), WS: ws}
	goalHandler := &handlers.SavingGoalHandler{Store: st, WS: ws}

	rg.POST("/auth/upgrade", authHandler.Upgrade)

	rg.GET("/user/profile", userHandler.GetProfile)
	rg.POST("/user/2fa/setup", userHandler.SetupTOTP)
	rg.POST("/user/2fa/verify", userHandler.VerifyTOTP)
	rg.POST("/user/2fa/disable", userHandler.DisableTOTP)

	rg.GET("/categories", categoryHandler.GetCategories)
	rg.POST("/categories", categoryHandler.CreateCategory)
	rg.PUT("/categories/:id", categoryHandler.UpdateCategory)
	rg.DELETE("/categories/:id", categoryHandler.DeleteCategory)

	rg.GET("/transactions", transactionHandler.GetTransactions)
	rg.POST("/transactions", transactionHandler.CreateTransaction)
	rg.PUT("/transactions/:id", transactionHandler.UpdateTransaction)
	rg.DELETE("/transactions/:id", transactionHandler.DeleteTransaction)

	rg.GET("/budgets", budgetHandler.GetBudgets)
	rg.POST("/budgets", budgetHandler.CreateBudget)
	rg.PUT("/budgets/:id", budgetHandler.UpdateBudget)
	rg.DELETE("/budgets/:id", budgetHandler.DeleteBudget)

	rg.GET("/goals", goalHandler.GetSavingGoals)
	rg.GET("/goals/user/:userId", goalHandler.GetSavingGoalsByUser)
	rg.POST("/goals", goalHandler.CreateSavingGoal)
	rg.PUT("/goals/:id", goalHandler.UpdateSavingGoal)
	rg.DELETE("/goals/:id", goalHandler.DeleteSavingGoal)

	rg.GET("/ws", ws.HandleWS)
}
