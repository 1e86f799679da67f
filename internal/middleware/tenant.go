package middleware

import (
	"net/http"

	"tailor-service/internal/model"
	"tailor-service/pkg/database"
	"tailor-service/pkg/logger"
	"tailor-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequireTenantContext ensures the authenticated user belongs to a tenant
// and loads the tenant row into the request context. Suspended tenants are
// rejected before any handler runs.
func RequireTenantContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		tenantID, ok := c.Get("tenant_id").(uint)
		if !ok || tenantID == 0 {
			log.Warn("Request without tenant context on tenant-scoped route")
			prometheus.RecordError("missing_tenant")
			return c.JSON(http.StatusForbidden, echo.Map{"error": "no tenant associated with this account"})
		}

		db := database.GetDB()
		var tenant model.Tenant
		if err := db.Preload("Settings").First(&tenant, tenantID).Error; err != nil {
			log.Error("Failed to load tenant", zap.Uint("tenant_id", tenantID), zap.Error(err))
			prometheus.RecordError("tenant_not_found")
			return c.JSON(http.StatusForbidden, echo.Map{"error": "tenant not found"})
		}

		if tenant.Status == model.TenantStatusSuspended {
			log.Warn("Suspended tenant attempted access", zap.Uint("tenant_id", tenantID))
			prometheus.RecordError("tenant_suspended")
			return c.JSON(http.StatusForbidden, echo.Map{"error": "tenant account is suspended"})
		}

		c.Set("tenant", &tenant)
		return next(c)
	}
}

// CurrentTenant returns the tenant loaded by RequireTenantContext.
func CurrentTenant(c echo.Context) *model.Tenant {
	tenant, _ := c.Get("tenant").(*model.Tenant)
	return tenant
}
