package handlers

import (
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterRoutes sets up all application routes, injecting dependencies using
// interfaces, and installs the custom binding validators.
func RegisterRoutes(r *gin.Engine, services *portssvc.ServiceContainer) {
	registerCustomValidators()

	r.GET("/", getHome)
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific
// entity route registrations.
func setupAPIV1Routes(r *gin.Engine, services *portssvc.ServiceContainer) {
	v1 := r.Group("/api/v1", middleware.CompanyContextMiddleware())

	registerAccountRoutes(v1, services.Account, services.Balance, services.Transaction)
	registerTransactionRoutes(v1, services.Transaction)
	registerJournalRoutes(v1, services.Journal)
	registerReconciliationRoutes(v1, services.Reconciliation)
	registerSnapshotRoutes(v1, services.Snapshot)
}

// registerCustomValidators installs the "txdirection" validator used by the
// transaction DTOs: DEBIT/CREDIT plus the DEPOSIT/WITHDRAWAL aliases.
func registerCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("txdirection", func(fl validator.FieldLevel) bool {
			_, ok := domain.NormalizeTransactionType(fl.Field().String())
			return ok
		})
	}
}
