package handler

import (
	"net/http"
	"time"

	"tailor-service/internal/middleware"
	"tailor-service/internal/model"
	"tailor-service/pkg/database"
	"tailor-service/pkg/logger"
	"tailor-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateItemType adds a garment type to the tenant's master data. HSN
// code and GST rate feed the tax calculator.
func CreateItemType(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := middleware.CurrentTenant(c)

	var req struct {
		Code    string          `json:"code"`
		Name    string          `json:"name"`
		HSNCode string          `json:"hsn_code"`
		GSTRate decimal.Decimal `json:"gst_rate"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse item type request", zap.Error(err))
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Code == "" || req.Name == "" {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code and name are required"})
	}
	if req.GSTRate.IsNegative() || req.GSTRate.GreaterThan(decimal.NewFromInt(100)) {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "gst_rate must be between 0 and 100"})
	}

	itemType := model.ItemType{
		TenantID: tenant.ID,
		Code:     req.Code,
		Name:     req.Name,
		HSNCode:  req.HSNCode,
		GSTRate:  req.GSTRate,
		IsActive: true,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&itemType); result.Error != nil {
		log.Error("Failed to create item type", zap.Error(result.Error))
		prometheus.RecordError("item_type_creation_failed")
		return c.JSON(http.StatusConflict, echo.Map{"error": "failed to create item type"})
	}

	log.Info("Item type created", zap.Uint("tenant_id", tenant.ID), zap.String("code", itemType.Code))
	return c.JSON(http.StatusCreated, itemType)
}

// ListItemTypes returns the tenant's active garment types.
func ListItemTypes(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := middleware.CurrentTenant(c)

	defer prometheus.TrackDBOperation("query")(time.Now())

	var itemTypes []model.ItemType
	if result := database.GetDB().
		Where("tenant_id = ? AND is_active = ?", tenant.ID, true).
		Order("name").Find(&itemTypes); result.Error != nil {
		log.Error("Failed to list item types", zap.Error(result.Error))
		prometheus.RecordError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list item types"})
	}

	return c.JSON(http.StatusOK, itemTypes)
}

// ListWorkflowStages returns the tenant's production stages in order.
func ListWorkflowStages(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := middleware.CurrentTenant(c)

	defer prometheus.TrackDBOperation("query")(time.Now())

	var stages []model.WorkflowStage
	if result := database.GetDB().Where("tenant_id = ?", tenant.ID).
		Order("position").Find(&stages); result.Error != nil {
		log.Error("Failed to list workflow stages", zap.Error(result.Error))
		prometheus.RecordError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list workflow stages"})
	}

	return c.JSON(http.StatusOK, stages)
}

// ListOrderStatuses returns the tenant's order status lookup rows.
func ListOrderStatuses(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := middleware.CurrentTenant(c)

	defer prometheus.TrackDBOperation("query")(time.Now())

	var statuses []model.OrderStatus
	if result := database.GetDB().Where("tenant_id = ?", tenant.ID).
		Order("position").Find(&statuses); result.Error != nil {
		log.Error("Failed to list order statuses", zap.Error(result.Error))
		prometheus.RecordError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list order statuses"})
	}

	return c.JSON(http.StatusOK, statuses)
}

// ListOrderPriorities returns the tenant's order priority lookup rows.
func ListOrderPriorities(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := middleware.CurrentTenant(c)

	defer prometheus.TrackDBOperation("query")(time.Now())

	var priorities []model.OrderPriority
	if result := database.GetDB().Where("tenant_id = ?", tenant.ID).
		Order("position").Find(&priorities); result.Error != nil {
		log.Error("Failed to list order priorities", zap.Error(result.Error))
		prometheus.RecordError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list order priorities"})
	}

	return c.JSON(http.StatusOK, priorities)
}
