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

// CreateCustomer creates a customer behind the plan's customer quota.
// The count and the insert share one transaction.
func CreateCustomer(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := middleware.CurrentTenant(c)

	var req struct {
		Name             string `json:"name"`
		Mobile           string `json:"mobile"`
		Email            string `json:"email"`
		CustomerType     string `json:"customer_type"`
		BillingAddress   string `json:"billing_address"`
		BillingStateCode string `json:"billing_state_code"`
		DeliveryAddress  string `json:"delivery_address"`
		CompanyName      string `json:"company_name"`
		GSTNumber        string `json:"gst_number"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse customer request", zap.Error(err))
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Name == "" {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if req.CustomerType == "" {
		req.CustomerType = model.CustomerTypeIndividual
	}
	if req.CustomerType != model.CustomerTypeIndividual && req.CustomerType != model.CustomerTypeBusiness {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer_type must be individual or business"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	tx := database.GetDB().Begin()
	if tx.Error != nil {
		log.Error("Failed to begin transaction", zap.Error(tx.Error))
		prometheus.RecordError("database_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	quota := service.NewQuotaService(database.GetDB())
	if err := quota.Ensure(tx, tenant, service.ResourceCustomers); err != nil {
		tx.Rollback()
		return respondServiceError(c, log, err)
	}

	customer := model.Customer{
		TenantID:         tenant.ID,
		Name:             req.Name,
		Mobile:           req.Mobile,
		Email:            req.Email,
		CustomerType:     req.CustomerType,
		BillingAddress:   req.BillingAddress,
		BillingStateCode: req.BillingStateCode,
		DeliveryAddress:  req.DeliveryAddress,
		CompanyName:      req.CompanyName,
		GSTNumber:        req.GSTNumber,
	}

	if result := tx.Create(&customer); result.Error != nil {
		tx.Rollback()
		log.Error("Failed to create customer", zap.Error(result.Error))
		prometheus.RecordError("customer_creation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create customer"})
	}

	if err := tx.Commit().Error; err != nil {
		log.Error("Failed to commit transaction", zap.Error(err))
		prometheus.RecordError("transaction_commit_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transaction commit failed"})
	}

	log.Info("Customer created", zap.Uint("tenant_id", tenant.ID), zap.Uint("customer_id", customer.ID))
	return c.JSON(http.StatusCreated, customer)
}

// ListCustomers returns the tenant's customers, newest first.
func ListCustomers(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := middleware.CurrentTenant(c)

	defer prometheus.TrackDBOperation("query")(time.Now())

	query := database.GetDB().Where("tenant_id = ?", tenant.ID)
	if search := c.QueryParam("q"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR mobile LIKE ?", like, like)
	}

	var customers []model.Customer
	if result := query.Order("created_at DESC").Find(&customers); result.Error != nil {
		log.Error("Failed to list customers", zap.Error(result.Error))
		prometheus.RecordError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list customers"})
	}

	return c.JSON(http.StatusOK, customers)
}

// GetCustomer returns one customer with its materialized order stats.
func GetCustomer(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := middleware.CurrentTenant(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var customer model.Customer
	if result := database.GetDB().Where("id = ? AND tenant_id = ?", id, tenant.ID).
		First(&customer); result.Error != nil {
		return respondServiceError(c, log, result.Error)
	}

	return c.JSON(http.StatusOK, customer)
}

// UpdateCustomer updates contact and billing fields. Cached order stats
// are not writable here.
func UpdateCustomer(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := middleware.CurrentTenant(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer ID"})
	}

	var req struct {
		Name             *string `json:"name"`
		Mobile           *string `json:"mobile"`
		Email            *string `json:"email"`
		BillingAddress   *string `json:"billing_address"`
		BillingStateCode *string `json:"billing_state_code"`
		DeliveryAddress  *string `json:"delivery_address"`
		CompanyName      *string `json:"company_name"`
		GSTNumber        *string `json:"gst_number"`
	}
	if err := c.Bind(&req); err != nil {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	var customer model.Customer
	if result := database.GetDB().Where("id = ? AND tenant_id = ?", id, tenant.ID).
		First(&customer); result.Error != nil {
		return respondServiceError(c, log, result.Error)
	}

	if req.Name != nil && *req.Name != "" {
		customer.Name = *req.Name
	}
	if req.Mobile != nil {
		customer.Mobile = *req.Mobile
	}
	if req.Email != nil {
		customer.Email = *req.Email
	}
	if req.BillingAddress != nil {
		customer.BillingAddress = *req.BillingAddress
	}
	if req.BillingStateCode != nil {
		customer.BillingStateCode = *req.BillingStateCode
	}
	if req.DeliveryAddress != nil {
		customer.DeliveryAddress = *req.DeliveryAddress
	}
	if req.CompanyName != nil {
		customer.CompanyName = *req.CompanyName
	}
	if req.GSTNumber != nil {
		customer.GSTNumber = *req.GSTNumber
	}

	if err := database.GetDB().Save(&customer).Error; err != nil {
		log.Error("Failed to update customer", zap.Error(err))
		prometheus.RecordError("customer_update_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update customer"})
	}

	return c.JSON(http.StatusOK, customer)
}
