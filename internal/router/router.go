package router

import (
	"time"

	"github.com/01-Gira/store-app-sub000/internal/config"
	"github.com/01-Gira/store-app-sub000/internal/handler"
	"github.com/01-Gira/store-app-sub000/internal/middleware"
	"github.com/01-Gira/store-app-sub000/internal/repository"
	"github.com/01-Gira/store-app-sub000/internal/service"
	"github.com/01-Gira/store-app-sub000/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	productRepo := repository.NewProductRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	loyaltyRepo := repository.NewLoyaltyRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)

	// ── Engine components ────────────────────────────────────────────────────
	cart := service.NewCartValidator(productRepo)
	pricing := service.NewPricingEngine()
	stock := service.NewStockAdjuster(productRepo, inventoryRepo, movementRepo)
	loyalty := service.NewLoyaltyLedger(customerRepo, loyaltyRepo)

	// Worker dispatcher — injected into services that enqueue post-commit jobs
	var dispatcher *worker.Dispatcher
	if rdb != nil {
		dispatcher = worker.NewDispatcher(rdb)
	}

	// ── Services ─────────────────────────────────────────────────────────────
	saleSvc := service.NewSaleService(transactionRepo, customerRepo, locationRepo,
		cart, pricing, stock, loyalty, cfg, dispatcher)
	inventorySvc := service.NewInventoryService(productRepo, movementRepo, stock)
	productSvc := service.NewProductService(productRepo, inventoryRepo, rdb)
	customerSvc := service.NewCustomerService(customerRepo, loyaltyRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	salesH := handler.NewSalesHandler(saleSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc)
	productsH := handler.NewProductsHandler(productSvc)
	customersH := handler.NewCustomersHandler(customerSvc)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(db, rdb))

	v1 := r.Group("/v1")
	{
		v1.POST("/sales", salesH.Create)
		v1.GET("/sales", salesH.List)
		v1.GET("/sales/:id", salesH.Get)

		v1.POST("/products", productsH.Create)
		v1.GET("/products", productsH.List)
		v1.GET("/products/:id", productsH.Get)
		v1.GET("/price/:sku", productsH.PriceBySKU)

		inv := v1.Group("/inventory")
		{
			inv.POST("/adjustments", inventoryH.Adjust)
			inv.POST("/transfers", inventoryH.Transfer)
			inv.POST("/receivings", inventoryH.Receive)
			inv.GET("/movements", inventoryH.ListMovements)
		}

		v1.GET("/customers/:id", customersH.Get)
		v1.GET("/customers/:id/ledger", customersH.Ledger)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
