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
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateInquiry records a pre-sales lead. Inquiries do not count against
// any quota; the contact snapshot allows conversion without an existing
// customer.
func CreateInquiry(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := middleware.CurrentTenant(c)
	prometheus.RecordInquiryOperation("create")

	var req struct {
		CustomerID     *uint           `json:"customer_id"`
		CustomerName   string          `json:"customer_name"`
		CustomerMobile string          `json:"customer_mobile"`
		CustomerEmail  string          `json:"customer_email"`
		CustomerType   string          `json:"customer_type"`
		Address        string          `json:"address"`
		StateCode      string          `json:"state_code"`
		Requirements   string          `json:"requirements"`
		ItemTypeName   string          `json:"item_type_name"`
		Occasion       string          `json:"occasion"`
		BudgetMin      decimal.Decimal `json:"budget_min"`
		BudgetMax      decimal.Decimal `json:"budget_max"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse inquiry request", zap.Error(err))
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.CustomerName == "" {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer_name is required"})
	}
	if req.CustomerType == "" {
		req.CustomerType = model.CustomerTypeIndividual
	}
	if req.CustomerType != model.CustomerTypeIndividual && req.CustomerType != model.CustomerTypeBusiness {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer_type must be individual or business"})
	}

	if req.CustomerID != nil {
		var customer model.Customer
		if result := database.GetDB().Where("id = ? AND tenant_id = ?", *req.CustomerID, tenant.ID).
			First(&customer); result.Error != nil {
			prometheus.RecordError("customer_not_found")
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
	}

	inquiry := model.Inquiry{
		TenantID:       tenant.ID,
		CustomerID:     req.CustomerID,
		CustomerName:   req.CustomerName,
		CustomerMobile: req.CustomerMobile,
		CustomerEmail:  req.CustomerEmail,
		CustomerType:   req.CustomerType,
		Address:        req.Address,
		StateCode:      req.StateCode,
		Requirements:   req.Requirements,
		ItemTypeName:   req.ItemTypeName,
		Occasion:       req.Occasion,
		BudgetMin:      req.BudgetMin,
		BudgetMax:      req.BudgetMax,
		Status:         model.InquiryStatusNew,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&inquiry); result.Error != nil {
		log.Error("Failed to create inquiry", zap.Error(result.Error))
		prometheus.RecordError("inquiry_creation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create inquiry"})
	}

	log.Info("Inquiry created", zap.Uint("tenant_id", tenant.ID), zap.Uint("inquiry_id", inquiry.ID))
	return c.JSON(http.StatusCreated, inquiry)
}

// ListInquiries returns the tenant's inquiries, optionally filtered by
// status, newest first.
func ListInquiries(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := middleware.CurrentTenant(c)
	prometheus.RecordInquiryOperation("list")

	defer prometheus.TrackDBOperation("query")(time.Now())

	query := database.GetDB().Where("tenant_id = ?", tenant.ID)
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var inquiries []model.Inquiry
	if result := query.Order("created_at DESC").Find(&inquiries); result.Error != nil {
		log.Error("Failed to list inquiries", zap.Error(result.Error))
		prometheus.RecordError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list inquiries"})
	}

	return c.JSON(http.StatusOK, inquiries)
}

// GetInquiry returns one inquiry scoped to the tenant.
func GetInquiry(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := middleware.CurrentTenant(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid inquiry ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var inquiry model.Inquiry
	if result := database.GetDB().Where("id = ? AND tenant_id = ?", id, tenant.ID).
		First(&inquiry); result.Error != nil {
		return respondServiceError(c, log, result.Error)
	}

	return c.JSON(http.StatusOK, inquiry)
}

// UpdateInquiryStatus moves an inquiry through the lead state machine.
// `converted` cannot be set here; it only happens through conversion.
func UpdateInquiryStatus(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := middleware.CurrentTenant(c)
	prometheus.RecordInquiryOperation("update_status")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid inquiry ID"})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil || req.Status == "" {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status is required"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	inquiry, err := service.UpdateInquiryStatus(database.GetDB(), tenant.ID, uint(id), req.Status)
	if err != nil {
		return respondServiceError(c, log, err)
	}

	log.Info("Inquiry status updated",
		zap.Uint("tenant_id", tenant.ID),
		zap.Uint("inquiry_id", inquiry.ID),
		zap.String("status", inquiry.Status))
	return c.JSON(http.StatusOK, inquiry)
}

// ConvertInquiry turns an inquiry into a production order in a single
// transaction. Exactly one of two concurrent conversions wins.
func ConvertInquiry(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := middleware.CurrentTenant(c)
	prometheus.RecordInquiryOperation("convert")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid inquiry ID"})
	}

	var draft service.OrderDraft
	if err := c.Bind(&draft); err != nil {
		log.Error("Failed to parse conversion request", zap.Error(err))
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if len(draft.Items) == 0 {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one order item is required"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	order, err := service.NewConversion(database.GetDB()).ConvertToOrder(tenant, uint(id), draft)
	if err != nil {
		return respondServiceError(c, log, err)
	}

	log.Info("Inquiry converted to order",
		zap.Uint("tenant_id", tenant.ID),
		zap.Uint64("inquiry_id", id),
		zap.Uint("order_id", order.ID),
		zap.String("order_number", order.OrderNumber))
	return c.JSON(http.StatusCreated, order)
}
