package router

import (
	"bookpos/internal/config"
	"bookpos/internal/handler"
	"bookpos/internal/middleware"
	"bookpos/internal/repository"
	"bookpos/internal/service"
	"bookpos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log.Logger))
	r.Use(middleware.Recovery(log.Logger))
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler(log.Logger))
	r.Use(middleware.RateLimiter())

	// ── Repositories ─────────────────────────────────────────────────────────
	bookRepo := repository.NewBookRepository(db)
	registerRepo := repository.NewRegisterRepository(db)
	txRepo := repository.NewTransactionRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(cfg)
	registerSvc := service.NewRegisterService(registerRepo)
	reportSvc := service.NewReportService(registerRepo, registerSvc)
	inventorySvc := service.NewInventoryService(bookRepo)
	saleSvc := service.NewSaleService(txRepo, bookRepo, registerSvc, dispatcher)
	exchangeSvc := service.NewExchangeService(txRepo, bookRepo, registerSvc)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	registerH := handler.NewRegisterHandler(registerSvc, reportSvc)
	saleH := handler.NewSaleHandler(saleSvc)
	exchangeH := handler.NewExchangeHandler(exchangeSvc)
	bookH := handler.NewBookHandler(inventorySvc)
	barcodeH := handler.NewBarcodeHandler(bookRepo, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.POST("/v1/auth/login", middleware.LoginRateLimiter(), authH.Login)

	// Scanner price check — read-only, no auth required
	r.GET("/v1/scan/:barcode", barcodeH.Scan)

	// Protected routes
	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		registers := v1.Group("/registers")
		{
			registers.POST("/open", registerH.Open)
			registers.GET("/open", registerH.GetOpen)
			registers.POST("/:id/close", registerH.Close)
			registers.GET("/:id/report", registerH.Report)
			registers.POST("/withdrawals", registerH.Withdrawal)
			registers.GET("/history", registerH.History)
		}

		v1.POST("/sales", saleH.CreateSale)
		v1.GET("/sales/:id/payments", saleH.SaleGroupPayments)
		v1.POST("/returns", saleH.CreateReturn)
		v1.GET("/transactions", saleH.ListTransactions)

		exchanges := v1.Group("/exchanges")
		{
			exchanges.POST("", exchangeH.Create)
			exchanges.PUT("/:id", exchangeH.Edit)
			exchanges.DELETE("/:id", exchangeH.Cancel)
		}

		books := v1.Group("/books")
		{
			books.POST("", bookH.Create)
			books.GET("", bookH.List)
			books.GET("/:id", bookH.Get)
			books.PUT("/:id", bookH.Update)
			books.DELETE("/:id", bookH.Deactivate)
			books.PATCH("/:id/reactivate", bookH.Reactivate)
			books.POST("/:id/stock", bookH.AdjustStock)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
