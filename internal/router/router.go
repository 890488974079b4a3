package router

import (
	"time"

	"github.com/naskek/FlowStock-sub000/internal/config"
	"github.com/naskek/FlowStock-sub000/internal/handler"
	"github.com/naskek/FlowStock-sub000/internal/middleware"
	"github.com/naskek/FlowStock-sub000/internal/model"
	"github.com/naskek/FlowStock-sub000/internal/repository"
	"github.com/naskek/FlowStock-sub000/internal/service"
	"github.com/naskek/FlowStock-sub000/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
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
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	epsilon, err := decimal.NewFromString(cfg.StockEpsilon)
	if err != nil {
		epsilon = decimal.NewFromFloat(0.0001)
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	itemRepo := repository.NewItemRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	partnerRepo := repository.NewPartnerRepository(db)
	huRepo := repository.NewHandlingUnitRepository(db)
	docRepo := repository.NewDocRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	importRepo := repository.NewImportRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	catalogSvc := service.NewCatalogService(itemRepo, locationRepo, partnerRepo, ledgerRepo, epsilon)
	ledgerSvc := service.NewLedgerService(ledgerRepo, huRepo)
	huSvc := service.NewHuService(huRepo, ledgerRepo, cfg.LabelStoragePath, cfg.TxRetryMax)
	docSvc := service.NewDocService(
		docRepo, itemRepo, locationRepo, huRepo, orderRepo, partnerRepo,
		ledgerRepo, ledgerSvc, dispatcher, epsilon, cfg.TxRetryMax,
	)
	orderSvc := service.NewOrderService(orderRepo, docRepo, itemRepo, partnerRepo, ledgerRepo, epsilon)
	importSvc := service.NewImportService(docRepo, itemRepo, locationRepo, huRepo, importRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	itemsH := handler.NewItemsHandler(catalogSvc)
	locationsH := handler.NewLocationsHandler(catalogSvc)
	partnersH := handler.NewPartnersHandler(catalogSvc)
	docsH := handler.NewDocsHandler(docSvc, ledgerSvc)
	ordersH := handler.NewOrdersHandler(orderSvc)
	husH := handler.NewHusHandler(huSvc)
	importsH := handler.NewImportsHandler(importSvc)
	stockH := handler.NewStockHandler(ledgerSvc, orderSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyRole := middleware.RequireRole(model.RoleOperator, model.RoleSupervisor, model.RoleAdmin)
	supervisorUp := middleware.RequireRole(model.RoleSupervisor, model.RoleAdmin)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	v1 := r.Group("/v1", jwtMW)
	{
		// Items — all roles read, admin writes
		v1.GET("/items", anyRole, itemsH.List)
		v1.GET("/items/:id", anyRole, itemsH.Get)
		v1.GET("/items/:id/packagings", anyRole, itemsH.ListPackagings)
		items := v1.Group("/items", adminOnly)
		{
			items.POST("", itemsH.Create)
			items.PUT("/:id", itemsH.Update)
			items.POST("/:id/packagings", itemsH.CreatePackaging)
			items.DELETE("/:id/packagings/:packagingId", itemsH.DeactivatePackaging)
		}

		// Locations
		v1.GET("/locations", anyRole, locationsH.List)
		locations := v1.Group("/locations", adminOnly)
		{
			locations.POST("", locationsH.Create)
			locations.DELETE("/:id", locationsH.Delete)
		}

		// Partners
		v1.GET("/partners", anyRole, partnersH.List)
		partners := v1.Group("/partners", adminOnly)
		{
			partners.POST("", partnersH.Create)
			partners.PUT("/:id", partnersH.Update)
			partners.DELETE("/:id", partnersH.Deactivate)
		}

		// Documents — operators draft and edit; closing with allow_negative
		// requires supervisor, enforced inside the Close handler.
		docs := v1.Group("/docs", anyRole)
		{
			docs.POST("", docsH.Create)
			docs.GET("", docsH.List)
			docs.GET("/:id", docsH.Get)
			docs.POST("/:id/lines", docsH.AddLine)
			docs.PUT("/:id/lines/:lineId", docsH.UpdateLineQty)
			docs.DELETE("/:id/lines/:lineId", docsH.DeleteLine)
			docs.POST("/:id/close", docsH.Close)
			docs.GET("/:id/postings", docsH.Postings)
		}
		v1.POST("/docs/:id/recount", supervisorUp, docsH.MarkForRecount)
		v1.POST("/docs/:id/apply-order", anyRole, ordersH.ApplyToDoc)
		v1.PUT("/docs/:id/partial-shipment", supervisorUp, ordersH.SetPartialShipment)
		v1.DELETE("/docs/:id/order", supervisorUp, ordersH.ClearDocOrder)

		// Orders
		orders := v1.Group("/orders", anyRole)
		{
			orders.GET("", ordersH.List)
			orders.GET("/:id", ordersH.Get)
			orders.GET("/:id/fulfillment", ordersH.Fulfillment)
		}
		v1.POST("/orders", supervisorUp, ordersH.Create)
		v1.PUT("/orders/:id/status", supervisorUp, ordersH.SetStatus)

		// Handling units
		hus := v1.Group("/hus", anyRole)
		{
			hus.POST("/generate", husH.Generate)
			hus.GET("", husH.List)
			hus.GET("/totals", husH.Totals)
			hus.GET("/:code", husH.Get)
			hus.GET("/:code/composition", husH.Composition)
			hus.POST("/labels", husH.Labels)
		}
		v1.POST("/hus/:code/close", supervisorUp, husH.Close)
		v1.POST("/hus/:code/void", supervisorUp, husH.Void)

		// Scan imports
		v1.POST("/imports", anyRole, importsH.Import)
		v1.POST("/imports/async", anyRole, importsH.ImportAsync)
		v1.GET("/imports/errors", supervisorUp, importsH.ListErrors)
		v1.POST("/imports/errors/:id/reapply", supervisorUp, importsH.Reapply)

		// Stock queries
		stock := v1.Group("/stock", anyRole)
		{
			stock.GET("/quantity", stockH.Quantity)
			stock.GET("/on-hand", stockH.OnHand)
			stock.GET("/availability", stockH.Availability)
			stock.GET("/buckets", stockH.Buckets)
		}

		// Users — admin only
		users := v1.Group("/users", adminOnly)
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
