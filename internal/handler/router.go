package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/kids-academy-api/internal/middleware"
	"github.com/noah-isme/kids-academy-api/internal/models"
	"github.com/noah-isme/kids-academy-api/internal/repository"
	"github.com/noah-isme/kids-academy-api/internal/service"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Auth       *AuthHandler
	Users      *UserHandler
	Classes    *ClassHandler
	Selections *SelectionHandler
	Payments   *PaymentHandler
	Metrics    *MetricsHandler
}

// RegisterRoutes mounts the full API surface on the engine. Every protected
// route authenticates via JWT first; role gates and audit recording are
// layered after.
func RegisterRoutes(r *gin.Engine, h Handlers, auth *service.AuthService, users *repository.UserRepository) {
	authed := middleware.JWT(auth)
	adminOnly := middleware.RequireRole(users, models.RoleAdmin)
	instructorOnly := middleware.RequireRole(users, models.RoleInstructor)

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	r.POST("/jwt", h.Auth.IssueToken)
	r.POST("/users", h.Users.Register)
	r.GET("/users/instructors", h.Users.ListInstructors)
	r.GET("/popularClass", h.Classes.Popular)
	r.GET("/allClass", h.Classes.All)

	r.GET("/users/admin/:email", authed, h.Users.IsAdmin)
	r.GET("/users/instructor/:email", authed, h.Users.IsInstructor)

	r.GET("/selectedClass", authed, h.Selections.List)
	r.POST("/selectedClass", authed, h.Selections.Add)
	r.GET("/selectedClass/:id", authed, h.Selections.Get)
	r.DELETE("/selectedClass/:id", authed, h.Selections.Remove)

	r.POST("/create-payment-intent", authed, h.Payments.CreateIntent)
	r.POST("/payments", authed, h.Payments.Enroll)
	r.GET("/enrollClass", authed, h.Payments.History)
	r.GET("/paymentHistory", authed, h.Payments.History)
	r.GET("/paymentHistory/export", authed, h.Payments.ExportHistory)

	r.POST("/classes", authed, instructorOnly, h.Classes.Create)
	r.GET("/allClass/instructor", authed, instructorOnly, h.Classes.Own)

	r.GET("/users", authed, adminOnly, h.Users.List)
	r.PATCH("/users/admin/:id",
		authed, adminOnly,
		middleware.Audit(users, models.AuditActionRoleGrant, "users"),
		h.Users.GrantAdmin)
	r.PATCH("/users/instructor/:id",
		authed, adminOnly,
		middleware.Audit(users, models.AuditActionRoleGrant, "users"),
		h.Users.GrantInstructor)
	r.DELETE("/users/admin/:id",
		authed, adminOnly,
		middleware.Audit(users, models.AuditActionUserDelete, "users"),
		h.Users.Delete)

	r.PATCH("/classes/status/:id",
		authed, adminOnly,
		middleware.Audit(users, models.AuditActionClassStatus, "classes"),
		h.Classes.SetStatus)
	r.PATCH("/classes/feedback/:id",
		authed, adminOnly,
		middleware.Audit(users, models.AuditActionClassFeedback, "classes"),
		h.Classes.SetFeedback)
}
