package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/mercado-ledger/internal/application/auth"
	"github.com/jhoicas/mercado-ledger/internal/application/catalog"
	"github.com/jhoicas/mercado-ledger/internal/application/events"
	"github.com/jhoicas/mercado-ledger/internal/application/onboarding"
	"github.com/jhoicas/mercado-ledger/internal/application/orders"
	"github.com/jhoicas/mercado-ledger/internal/application/registry"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.UseCase
	RegistryUC   *registry.UseCase
	OnboardingUC *onboarding.UseCase
	CatalogUC    *catalog.UseCase
	OrdersUC     *orders.UseCase
	EventsUC     *events.UseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Lecturas públicas: catálogo, stake, roles y log de eventos
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	registryHandler := NewRegistryHandler(deps.RegistryUC)
	onboardingHandler := NewOnboardingHandler(deps.OnboardingUC)
	eventsHandler := NewEventsHandler(deps.EventsUC)
	api.Get("/products/:id<int>", catalogHandler.GetByID)
	api.Get("/products/:id<int>/availability", catalogHandler.Availability)
	api.Get("/registry/roles/:address", registryHandler.RoleOf)
	api.Get("/onboarding/stake", onboardingHandler.RequiredStake)
	api.Get("/events", eventsHandler.List)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Wallet (protegido)
	wallet := protected.Group("/wallet")
	wallet.Get("/me", authHandler.Me)
	wallet.Post("/deposit", authHandler.Deposit)

	// Registro de roles (protegido)
	reg := protected.Group("/registry")
	reg.Post("/client", registryHandler.RegisterClient)
	reg.Post("/admins", registryHandler.GrantAdmin)
	reg.Post("/vendors", registryHandler.GrantVendor)
	reg.Put("/vendors/:address/active", registryHandler.SetVendorActive)
	reg.Delete("/roles/:address", registryHandler.Revoke)
	reg.Delete("/role", registryHandler.Renounce)
	reg.Put("/module", registryHandler.SetModule)

	// Onboarding de vendors (protegido)
	onb := protected.Group("/onboarding")
	onb.Post("/applications", onboardingHandler.Apply)
	onb.Get("/applications/:applicant", onboardingHandler.GetApplication)
	onb.Post("/applications/:applicant/approve", onboardingHandler.Approve)
	onb.Post("/applications/:applicant/reject", onboardingHandler.Reject)
	onb.Get("/treasury", onboardingHandler.Treasury)
	onb.Post("/treasury/withdraw", onboardingHandler.Withdraw)

	// Catálogo (protegido)
	products := protected.Group("/products")
	products.Post("/", catalogHandler.Create)
	products.Put("/adjustor", catalogHandler.SetAdjustor)
	products.Put("/:id<int>", catalogHandler.Update)
	products.Put("/:id<int>/active", catalogHandler.SetActive)

	// Órdenes (protegido)
	ordersGroup := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrdersUC)
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Get("/:id<int>", orderHandler.GetByID)
	ordersGroup.Put("/:id<int>/status", orderHandler.UpdateStatus)
	ordersGroup.Post("/:id<int>/cancel", orderHandler.Cancel)
}
