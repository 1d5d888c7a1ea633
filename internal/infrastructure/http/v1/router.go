package v1

import (
	"context"

	"github.com/gin-gonic/gin"

	"stockroom/internal/core/numerator"
	"stockroom/internal/domain/auth"
	"stockroom/internal/domain/catalogs/item"
	"stockroom/internal/domain/catalogs/uom"
	"stockroom/internal/domain/catalogs/warehouse"
	"stockroom/internal/domain/documents/pick_list"
	"stockroom/internal/domain/documents/pos_sale"
	"stockroom/internal/domain/documents/purchase_receipt"
	"stockroom/internal/domain/documents/stock_adjustment"
	"stockroom/internal/domain/documents/stock_transaction"
	"stockroom/internal/domain/gl"
	"stockroom/internal/domain/posting"
	"stockroom/internal/domain/registers/stock"
	"stockroom/internal/domain/reports"
	"stockroom/internal/infrastructure/http/v1/handlers"
	"stockroom/internal/infrastructure/http/v1/middleware"
	"stockroom/internal/infrastructure/storage/postgres"
	"stockroom/internal/infrastructure/storage/postgres/catalog_repo"
	"stockroom/internal/infrastructure/storage/postgres/document_repo"
	"stockroom/internal/infrastructure/storage/postgres/register_repo"
	"stockroom/internal/infrastructure/storage/postgres/report_repo"
	"stockroom/pkg/logger"
)

// RouterConfig holds everything the router needs to wire the API.
type RouterConfig struct {
	// Pool is the database connection pool (health checks, stats)
	Pool *postgres.Pool

	// TxManager propagates transactions through context
	TxManager *postgres.TxManager

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// AuthService for authentication and user management endpoints
	AuthService *auth.Service

	// Numerator for document number generation
	Numerator numerator.Generator

	// AuditService records who did what (optional)
	AuditService *postgres.AuditService

	// Version reported by /health/info
	Version string
}

// NewRouter creates and configures the Gin router.
//
// All repositories and services are built here once and shared: there is
// a single posting engine, so GL hooks and the pick list's reservation
// hook see every posting regardless of which endpoint triggered it.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints, no auth
	healthHandler := handlers.NewHealthHandler(cfg.Pool, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	deps := buildDependencies(cfg)

	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, cfg)

		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		registerUserRoutes(protected, cfg)
		registerCatalogRoutes(protected, deps)
		registerDocumentRoutes(protected, deps)
		registerRegisterRoutes(protected, deps)
		registerReportRoutes(protected, deps)
		registerAuditRoutes(protected, cfg)
	}

	return router
}

// dependencies is the shared service graph behind the API.
type dependencies struct {
	itemService      *item.Service
	warehouseService *warehouse.Service
	uomService       *uom.Service

	stockService  *stock.Service
	glService     *gl.Service
	reportService *reports.Service

	stockTransactionService *stock_transaction.Service
	purchaseReceiptService  *purchase_receipt.Service
	stockAdjustmentService  *stock_adjustment.Service
	pickListService         *pick_list.Service
	posSaleService          *pos_sale.Service
}

func buildDependencies(cfg RouterConfig) *dependencies {
	txm := cfg.TxManager
	num := cfg.Numerator

	// Registers and the one shared posting engine
	stockRepo := register_repo.NewStockRepo(txm)
	stockService := stock.NewService(stockRepo, txm)
	engine := posting.NewEngine(txm, stockRepo, nil)

	glRepo := register_repo.NewGLRepo(txm)
	glService := gl.NewService(glRepo, stockRepo)
	glService.RegisterHooks(engine)

	if cfg.AuditService != nil {
		registerAuditHooks(engine, cfg.AuditService)
	}

	uomService := uom.NewService(catalog_repo.NewUOMRepo(txm), txm, num)

	deps := &dependencies{
		itemService:      item.NewService(catalog_repo.NewItemRepo(txm), txm, num),
		warehouseService: warehouse.NewService(catalog_repo.NewWarehouseRepo(txm), txm, num),
		uomService:       uomService,

		stockService:  stockService,
		glService:     glService,
		reportService: reports.NewService(report_repo.NewReportRepo(txm)),

		stockTransactionService: stock_transaction.NewService(
			document_repo.NewStockTransactionRepo(txm), engine, num, txm, uomService),
		purchaseReceiptService: purchase_receipt.NewService(
			document_repo.NewPurchaseReceiptRepo(txm), engine, num, txm),
		stockAdjustmentService: stock_adjustment.NewService(
			document_repo.NewStockAdjustmentRepo(txm), engine, num, txm),
		pickListService: pick_list.NewService(
			document_repo.NewPickListRepo(txm), engine, num, txm, stockService),
		posSaleService: pos_sale.NewService(
			document_repo.NewPOSSaleRepo(txm), engine, num, txm),
	}

	return deps
}

// registerAuditHooks records every posting and unposting in the audit
// trail, inside the posting transaction.
func registerAuditHooks(engine *posting.Engine, audit *postgres.AuditService) {
	engine.OnPosted("*", func(ctx context.Context, doc posting.Postable, _ *posting.MovementSet) error {
		return audit.LogChange(ctx, doc.GetDocumentType(), doc.GetID(), postgres.AuditActionPost,
			map[string]any{"postedVersion": doc.GetPostedVersion()})
	})
	engine.OnUnposted("*", func(ctx context.Context, doc posting.Postable, _ *posting.MovementSet) error {
		return audit.LogChange(ctx, doc.GetDocumentType(), doc.GetID(), postgres.AuditActionUnpost, nil)
	})
}

// registerAuthRoutes registers authentication endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.AuthService == nil {
		return
	}

	authHandler := handlers.NewAuthHandler(handlers.NewBaseHandler(), cfg.AuthService)

	public := rg.Group("/auth")
	public.POST("/login", authHandler.Login)
	public.POST("/refresh", authHandler.Refresh)

	protected := rg.Group("/auth")
	protected.Use(middleware.Auth(cfg.JWTValidator))
	protected.POST("/logout", authHandler.Logout)
	protected.GET("/me", authHandler.Me)
	protected.POST("/change-password", authHandler.ChangePassword)
}

// registerUserRoutes registers user management endpoints.
func registerUserRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.AuthService == nil {
		return
	}

	authHandler := handlers.NewAuthHandler(handlers.NewBaseHandler(), cfg.AuthService)

	users := rg.Group("/users")
	users.Use(middleware.RequirePermission(auth.PermUserManage))
	users.GET("", authHandler.ListUsers)
	users.POST("", authHandler.Register)
	users.GET("/:id", authHandler.GetUser)
	users.PUT("/:id/roles", authHandler.SetRoles)
	users.PUT("/:id/active", authHandler.SetActive)
}

// registerCatalogRoutes registers catalog endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, deps *dependencies) {
	catalogs := rg.Group("/catalog")
	baseHandler := handlers.NewBaseHandler()

	itemHandler := handlers.NewItemHandler(baseHandler, deps.itemService)
	itemGroup := catalogs.Group("/items")
	RegisterCatalogRoutes(itemGroup, itemHandler, auth.PermItemRead, auth.PermItemWrite)
	itemGroup.GET("/barcode/:barcode", middleware.RequirePermission(auth.PermItemRead), itemHandler.GetByBarcode)

	warehouseHandler := handlers.NewWarehouseHandler(baseHandler, deps.warehouseService)
	RegisterCatalogRoutes(catalogs.Group("/warehouses"), warehouseHandler, auth.PermWarehouseRead, auth.PermWarehouseWrite)

	uomHandler := handlers.NewUOMHandler(baseHandler, deps.uomService)
	RegisterCatalogRoutes(catalogs.Group("/uoms"), uomHandler, auth.PermItemRead, auth.PermItemWrite)
}

// registerDocumentRoutes registers document endpoints, including each
// type's workflow actions.
func registerDocumentRoutes(rg *gin.RouterGroup, deps *dependencies) {
	docs := rg.Group("/documents")
	baseHandler := handlers.NewBaseHandler()

	{
		handler := handlers.NewStockTransactionHandler(baseHandler, deps.stockTransactionService)
		RegisterDocumentRoutes(docs.Group("/stock-transactions"), handler,
			auth.PermStockRead, auth.PermStockPost, auth.PermStockPost)
	}

	{
		handler := handlers.NewPurchaseReceiptHandler(baseHandler, deps.purchaseReceiptService)
		group := docs.Group("/purchase-receipts")
		RegisterDocumentRoutes(group, handler, auth.PermStockRead, auth.PermStockPost, auth.PermStockPost)
		group.POST("/:id/receive", middleware.RequirePermission(auth.PermStockPost), handler.Receive)
	}

	{
		handler := handlers.NewStockAdjustmentHandler(baseHandler, deps.stockAdjustmentService)
		group := docs.Group("/stock-adjustments")
		RegisterDocumentRoutes(group, handler, auth.PermStockRead, auth.PermStockPost, auth.PermAdjustApprove)
		group.POST("/:id/approve", middleware.RequirePermission(auth.PermAdjustApprove), handler.Approve)
	}

	{
		handler := handlers.NewPickListHandler(baseHandler, deps.pickListService)
		group := docs.Group("/pick-lists")
		RegisterDocumentRoutes(group, handler, auth.PermStockRead, auth.PermPickExecute, auth.PermPickExecute)
		group.GET("/queue", middleware.RequirePermission(auth.PermStockRead), handler.Queue)
		group.PATCH("/:id/status", middleware.RequirePermission(auth.PermPickExecute), handler.TransitionStatus)
		group.POST("/:id/release", middleware.RequirePermission(auth.PermPickExecute), handler.Release)
		group.POST("/:id/start-picking", middleware.RequirePermission(auth.PermPickExecute), handler.StartPicking)
		group.POST("/:id/finish-picking", middleware.RequirePermission(auth.PermPickExecute), handler.FinishPicking)
		group.POST("/:id/complete", middleware.RequirePermission(auth.PermPickExecute), handler.Complete)
		group.POST("/:id/cancel", middleware.RequirePermission(auth.PermPickExecute), handler.Cancel)
	}

	{
		handler := handlers.NewPOSSaleHandler(baseHandler, deps.posSaleService)
		group := docs.Group("/pos-sales")
		RegisterDocumentRoutes(group, handler, auth.PermStockRead, auth.PermPOSSell, auth.PermPOSSell)
		group.POST("/sell", middleware.RequirePermission(auth.PermPOSSell), handler.Sell)
		group.POST("/:id/void", middleware.RequirePermission(auth.PermPOSSell), handler.Void)
	}
}

// registerRegisterRoutes registers accumulation register endpoints.
func registerRegisterRoutes(rg *gin.RouterGroup, deps *dependencies) {
	registers := rg.Group("/registers")
	baseHandler := handlers.NewBaseHandler()

	{
		handler := handlers.NewStockHandler(baseHandler, deps.stockService)
		group := registers.Group("/stock")
		group.GET("/balance", middleware.RequirePermission(auth.PermStockRead), handler.GetBalance)
		group.GET("/balance-at", middleware.RequirePermission(auth.PermStockRead), handler.GetBalanceAtDate)
		group.GET("/balances/:warehouseId", middleware.RequirePermission(auth.PermStockRead), handler.GetWarehouseStock)
		group.GET("/availability/:itemId", middleware.RequirePermission(auth.PermStockRead), handler.GetAvailability)
		group.GET("/ledger/:itemId", middleware.RequirePermission(auth.PermStockRead), handler.GetLedgerHistory)
		group.GET("/movements/:recorderId", middleware.RequirePermission(auth.PermStockRead), handler.GetDocumentEntries)
		group.GET("/turnovers", middleware.RequirePermission(auth.PermStockRead), handler.GetTurnover)
		group.POST("/recalculate", middleware.RequireAdmin(), handler.Recalculate)
	}

	{
		handler := handlers.NewGLHandler(baseHandler, deps.glService)
		group := registers.Group("/gl")
		group.GET("/journal/:recorderId", middleware.RequirePermission(auth.PermReportRead), handler.GetByRecorder)
		group.GET("/trial-balance", middleware.RequirePermission(auth.PermReportRead), handler.TrialBalance)
	}
}

// registerReportRoutes registers report endpoints.
func registerReportRoutes(rg *gin.RouterGroup, deps *dependencies) {
	group := rg.Group("/reports")
	handler := handlers.NewReportsHandler(handlers.NewBaseHandler(), deps.reportService)

	group.GET("/stock-balance", middleware.RequirePermission(auth.PermReportRead), handler.StockBalance)
	group.GET("/stock-turnover", middleware.RequirePermission(auth.PermReportRead), handler.StockTurnover)
	group.GET("/reorder", middleware.RequirePermission(auth.PermReportRead), handler.Reorder)
	group.GET("/document-journal", middleware.RequirePermission(auth.PermReportRead), handler.DocumentJournal)
}

// registerAuditRoutes registers the audit trail endpoint.
func registerAuditRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.AuditService == nil {
		return
	}

	handler := handlers.NewAuditHandler(handlers.NewBaseHandler(), cfg.AuditService)
	rg.GET("/audit/:entityType/:entityId", middleware.RequireAdmin(), handler.GetEntityHistory)
}
