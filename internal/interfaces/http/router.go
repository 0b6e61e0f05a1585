package http

import (
	"github.com/gofiber/fiber/v2"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Piecework      PieceworkService
	Consumption    ConsumptionService
	ManualMovement ManualMovementService
	Reporting      ReportingService
	CountSheet     CountSheetService
	JWTSecret      string
	JWTIssuer      string
}

// Router registra las rutas de la API. Todas requieren Bearer Token con un rol conocido.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer),
		RequireRole(RoleAdmin, RoleEstoquista, RoleOperador))

	// Lotes de producción
	pieceworkHandler := NewPieceworkHandler(deps.Piecework, deps.Consumption)
	batches := api.Group("/piecework/batches")
	batches.Post("/", pieceworkHandler.RecordBatch)
	batches.Get("/", pieceworkHandler.ListBatches)
	batches.Get("/:id", pieceworkHandler.GetBatch)
	batches.Post("/:id/receive", pieceworkHandler.ReceiveProduction)

	// Montaje de kits
	kitHandler := NewKitHandler(deps.Consumption)
	kits := api.Group("/kits/assemblies")
	kits.Post("/", kitHandler.AssembleKit)
	kits.Get("/:id", kitHandler.GetAssembly)

	// Libro de stock
	stockHandler := NewStockHandler(deps.ManualMovement, deps.Reporting, deps.CountSheet)
	stock := api.Group("/stock")
	stock.Post("/movements", RequireRole(RoleAdmin, RoleEstoquista), stockHandler.RecordManualMovement)
	stock.Get("/movements", stockHandler.GetMovementHistory)
	stock.Get("/balances", stockHandler.GetBalances)
	stock.Get("/balance", stockHandler.GetBalance)
	stock.Get("/count-sheet", RequireRole(RoleAdmin, RoleEstoquista), stockHandler.GetCountSheet)
}
