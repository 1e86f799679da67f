package handler

import (
	"net/http"
	"strconv"
	"time"

	"tailor-service/internal/middleware"
	"tailor-service/internal/model"
	"tailor-service/internal/service"
	"tailor-service/pkg/database"
	"tailor-service/pkg/logger"
	"tailor-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CreateOrder creates a production order directly for an existing
// customer. Quota check, numbering and pricing run in one transaction.
func CreateOrder(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := middleware.CurrentTenant(c)
	prometheus.RecordOrderOperation("create")

	var req struct {
		CustomerID uint `json:"customer_id"`
		service.OrderDraft
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse order request", zap.Error(err))
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.CustomerID == 0 {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer_id is required"})
	}
	if len(req.Items) == 0 {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one order item is required"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	order, err := service.NewOrders(database.GetDB()).Create(tenant, req.CustomerID, req.OrderDraft)
	if err != nil {
		return respondServiceError(c, log, err)
	}

	log.Info("Order created",
		zap.Uint("tenant_id", tenant.ID),
		zap.Uint("order_id", order.ID),
		zap.String("order_number", order.OrderNumber))
	return c.JSON(http.StatusCreated, order)
}

// ListOrders returns the tenant's orders with customer and status,
// newest first.
func ListOrders(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := middleware.CurrentTenant(c)
	prometheus.RecordOrderOperation("list")

	defer prometheus.TrackDBOperation("query")(time.Now())

	query := database.GetDB().Preload("Customer").Preload("Status").Preload("Priority").
		Where("tenant_id = ?", tenant.ID)
	if statusID := c.QueryParam("status_id"); statusID != "" {
		query = query.Where("status_id = ?", statusID)
	}
	if customerID := c.QueryParam("customer_id"); customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}
	if paymentStatus := c.QueryParam("payment_status"); paymentStatus != "" {
		query = query.Where("payment_status = ?", paymentStatus)
	}

	var orders []model.Order
	if result := query.Order("created_at DESC").Find(&orders); result.Error != nil {
		log.Error("Failed to list orders", zap.Error(result.Error))
		prometheus.RecordError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list orders"})
	}

	return c.JSON(http.StatusOK, orders)
}

// GetOrder returns one order with items, stages and the derived
// completion projection.
func GetOrder(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := middleware.CurrentTenant(c)
	prometheus.RecordOrderOperation("get")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var order model.Order
	if result := database.GetDB().
		Preload("Customer").Preload("Status").Preload("Priority").
		Preload("Items.ItemType").Preload("Items.Stage").Preload("Items.Worker").
		Where("id = ? AND tenant_id = ?", id, tenant.ID).First(&order); result.Error != nil {
		return respondServiceError(c, log, result.Error)
	}

	completion, err := service.NewWorkflow(database.GetDB()).Completion(tenant.ID, order.ID)
	if err != nil {
		return respondServiceError(c, log, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"order":      order,
		"completion": completion,
	})
}

// AddOrderItem appends a line to the order and reprices it in the same
// transaction.
func AddOrderItem(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := middleware.CurrentTenant(c)
	prometheus.RecordOrderOperation("add_item")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order ID"})
	}

	var line service.OrderItemDraft
	if err := c.Bind(&line); err != nil {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	order, err := service.NewOrders(database.GetDB()).AddItem(tenant, uint(id), line)
	if err != nil {
		return respondServiceError(c, log, err)
	}

	log.Info("Order item added", zap.Uint("tenant_id", tenant.ID), zap.Uint("order_id", order.ID))
	return c.JSON(http.StatusOK, order)
}

// UpdateOrderItem modifies a line and reprices the order in the same
// transaction.
func UpdateOrderItem(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := middleware.CurrentTenant(c)
	prometheus.RecordOrderOperation("update_item")

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order ID"})
	}
	itemID, err := strconv.ParseUint(c.Param("item_id"), 10, 32)
	if err != nil {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item ID"})
	}

	var line service.OrderItemDraft
	if err := c.Bind(&line); err != nil {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	order, err := service.NewOrders(database.GetDB()).UpdateItem(tenant, uint(orderID), uint(itemID), line)
	if err != nil {
		return respondServiceError(c, log, err)
	}

	return c.JSON(http.StatusOK, order)
}

// RemoveOrderItem deletes a line and reprices the order. The last item
// cannot be removed.
func RemoveOrderItem(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := middleware.CurrentTenant(c)
	prometheus.RecordOrderOperation("remove_item")

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order ID"})
	}
	itemID, err := strconv.ParseUint(c.Param("item_id"), 10, 32)
	if err != nil {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item ID"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	order, err := service.NewOrders(database.GetDB()).RemoveItem(tenant, uint(orderID), uint(itemID))
	if err != nil {
		return respondServiceError(c, log, err)
	}

	return c.JSON(http.StatusOK, order)
}

// UpdateOrderStatus moves the order between tenant-configured statuses.
func UpdateOrderStatus(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := middleware.CurrentTenant(c)
	prometheus.RecordOrderOperation("update_status")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order ID"})
	}

	var req struct {
		StatusID   *uint `json:"status_id"`
		PriorityID *uint `json:"priority_id"`
	}
	if err := c.Bind(&req); err != nil {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	var order model.Order
	if result := database.GetDB().Where("id = ? AND tenant_id = ?", id, tenant.ID).
		First(&order); result.Error != nil {
		return respondServiceError(c, log, result.Error)
	}

	updates := map[string]interface{}{}
	if req.StatusID != nil {
		var status model.OrderStatus
		if result := database.GetDB().Where("id = ? AND tenant_id = ?", *req.StatusID, tenant.ID).
			First(&status); result.Error != nil {
			prometheus.RecordError("status_not_found")
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order status not found"})
		}
		updates["status_id"] = *req.StatusID
	}
	if req.PriorityID != nil {
		var priority model.OrderPriority
		if result := database.GetDB().Where("id = ? AND tenant_id = ?", *req.PriorityID, tenant.ID).
			First(&priority); result.Error != nil {
			prometheus.RecordError("priority_not_found")
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order priority not found"})
		}
		updates["priority_id"] = *req.PriorityID
	}
	if len(updates) == 0 {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status_id or priority_id is required"})
	}

	if err := database.GetDB().Model(&order).Updates(updates).Error; err != nil {
		log.Error("Failed to update order status", zap.Error(err))
		prometheus.RecordError("order_update_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update order"})
	}

	return c.JSON(http.StatusOK, order)
}
