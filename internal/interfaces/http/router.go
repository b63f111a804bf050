package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tms-settlements/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Auth          Authenticator
	Settlements   SettlementRunner
	Queries       SettlementQueries
	Notifications NotificationInbox
	RunHistory    RunHistory
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.Auth)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	// Settlements
	settlementHandler := NewSettlementHandler(deps.Settlements, deps.Queries)
	settlements := protected.Group("/settlements")
	settlements.Post("/generate", RequirePermission(entity.PermSettlementsGenerate), settlementHandler.Generate)
	settlements.Get("/eligible", RequirePermission(entity.PermSettlementsGenerate), settlementHandler.Eligible)
	settlements.Get("/", RequirePermission(entity.PermSettlementsView), settlementHandler.List)
	settlements.Get("/:id", RequirePermission(entity.PermSettlementsView), settlementHandler.GetByID)
	settlements.Get("/:id/pdf", RequirePermission(entity.PermSettlementsView), settlementHandler.StatementPDF)

	// Notifications (cualquier rol válido)
	notificationHandler := NewNotificationHandler(deps.Notifications)
	notifications := protected.Group("/notifications", RequirePermission(entity.PermNotificationsView))
	notifications.Get("/", notificationHandler.List)
	notifications.Post("/:id/read", notificationHandler.MarkRead)

	// Activity logs (ADMIN)
	activityHandler := NewActivityLogHandler(deps.RunHistory)
	protected.Get("/activity-logs", RequirePermission(entity.PermActivityLogView), activityHandler.List)
}
