package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/invorya/ledger-api/internal/application/analytics"
	"github.com/invorya/ledger-api/internal/application/auth"
	"github.com/invorya/ledger-api/internal/application/batch"
	"github.com/invorya/ledger-api/internal/application/ledger"
	"github.com/invorya/ledger-api/internal/application/usecase"
	"github.com/invorya/ledger-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC   *usecase.CompanyUseCase
	BranchUC    *usecase.BranchUseCase
	ItemUC      *usecase.ItemUseCase
	UOMUC       *usecase.UOMUseCase
	MovementUC  *ledger.MovementUseCase
	TransferUC  *ledger.TransferUseCase
	BatchUC     *batch.UseCase
	AnalyticsUC *analytics.UseCase
	AuthUC      *auth.AuthUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (público por ahora; se puede proteger con AuthMiddleware(deps.JWTSecret))
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Branches (protegido)
	branches := protected.Group("/branches")
	branchHandler := NewBranchHandler(deps.BranchUC)
	branches.Post("/", branchHandler.Create)
	branches.Get("/", branchHandler.List)
	branches.Get("/:id", branchHandler.GetByID)
	branches.Put("/:id", branchHandler.Update)

	// Items (protegido)
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)

	// UOMs (protegido)
	uoms := protected.Group("/uoms")
	uomHandler := NewUOMHandler(deps.UOMUC)
	uoms.Post("/", uomHandler.Create)
	uoms.Get("/", uomHandler.List)
	uoms.Get("/:id", uomHandler.GetByID)
	uoms.Put("/:id", uomHandler.Update)

	// Libro mayor: movimientos, saldos y traslados (protegido).
	// Escrituras restringidas a admin y bodeguero.
	invGroup := protected.Group("/inventory")
	ledgerHandler := NewLedgerHandler(deps.MovementUC)
	canWrite := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)
	invGroup.Post("/movements", canWrite, ledgerHandler.RegisterMovement)
	invGroup.Get("/movements", ledgerHandler.ListMovements)
	invGroup.Get("/balances", ledgerHandler.ListBalances)
	invGroup.Get("/balances/lookup", ledgerHandler.GetBalance)

	transferHandler := NewTransferHandler(deps.TransferUC)
	invGroup.Post("/transfers", canWrite, transferHandler.Create)
	invGroup.Get("/transfers", transferHandler.List)
	invGroup.Get("/transfers/:id", transferHandler.GetByID)

	// Lotes (protegido)
	batches := protected.Group("/batches")
	batchHandler := NewBatchHandler(deps.BatchUC)
	batches.Post("/", canWrite, batchHandler.Create)
	batches.Get("/", batchHandler.List)
	batches.Get("/expiry-alerts", batchHandler.ExpiryAlerts)
	batches.Get("/:id", batchHandler.GetByID)
	batches.Post("/:id/movements", canWrite, batchHandler.RecordMovement)
	batches.Get("/:id/traceability", batchHandler.GetTraceability)
	batches.Patch("/:id/quality", canWrite, batchHandler.UpdateQuality)

	// Analytics (protegido, solo lectura)
	analyticsGroup := protected.Group("/analytics")
	analyticsHandler := NewAnalyticsHandler(deps.AnalyticsUC)
	analyticsGroup.Get("/valuation", analyticsHandler.Valuation)
	analyticsGroup.Get("/valuation/pdf", analyticsHandler.ValuationPDF)
	analyticsGroup.Get("/abc", analyticsHandler.ABC)
	analyticsGroup.Get("/slow-moving", analyticsHandler.SlowMoving)
	analyticsGroup.Get("/turnover", analyticsHandler.Turnover)
	analyticsGroup.Get("/low-stock", analyticsHandler.LowStock)
}
