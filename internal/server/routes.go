package routes

import (
	"database/sql"

	"github.com/Emannuh254/Forexpro/internal/config"
	"github.com/Emannuh254/Forexpro/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.Engine, db *sql.DB, cfg *config.Config) {
	// Inicializar repositorios y motores antes de registrar las rutas
	middleware.Init(db, cfg)

	// Rutas públicas
	auth := router.Group("/api/auth")
	{
		auth.POST("/signup", middleware.Signup)
		auth.POST("/login", middleware.Login)
		auth.POST("/demo", middleware.DemoLogin)
	}

	router.GET("/api/exchange-rates", middleware.GetExchangeRates)

	// Rutas de usuario autenticado
	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/user/profile", middleware.GetProfile)
		protected.PUT("/user/profile", middleware.UpdateProfile)

		protected.POST("/deposit", middleware.Deposit)
		protected.POST("/withdraw", middleware.Withdraw)
		protected.GET("/transactions", middleware.GetTransactions)

		protected.GET("/bots", middleware.GetBots)
		protected.POST("/bots", middleware.CreateBot)
		protected.POST("/bots/:id/progress", middleware.UpdateBotProgress)

		protected.GET("/referral/stats", middleware.GetReferralStats)
		protected.GET("/referral/history", middleware.GetReferralHistory)
	}

	// Rutas de admin
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.GET("/stats", middleware.GetStats)
		admin.GET("/users", middleware.GetUsers)
		admin.PUT("/users/:id/balance", middleware.SetUserBalance)
		admin.POST("/deposit", middleware.AdminDeposit)
		admin.GET("/transactions", middleware.GetAllTransactions)
		admin.PUT("/transactions/:id", middleware.SetTransactionStatus)
		admin.GET("/withdrawals/pending", middleware.GetPendingWithdrawals)
	}
}
