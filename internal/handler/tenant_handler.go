package handler

import (
	"net/http"
	"time"

	"tailor-service/internal/middleware"
	"tailor-service/internal/model"
	"tailor-service/pkg/database"
	"tailor-service/pkg/jwtutil"
	"tailor-service/pkg/logger"
	"tailor-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const trialPlanCode = "trial"
const trialDays = 14

// defaultWorkflowStages are seeded for every new tenant; the last stage is
// terminal and drives order completion.
var defaultWorkflowStages = []model.WorkflowStage{
	{Code: "cutting", Name: "Cutting", Color: "#f59e0b", Position: 1},
	{Code: "stitching", Name: "Stitching", Color: "#3b82f6", Position: 2},
	{Code: "finishing", Name: "Finishing", Color: "#8b5cf6", Position: 3},
	{Code: "ready", Name: "Ready for Delivery", Color: "#22c55e", Position: 4, IsTerminal: true},
}

var defaultOrderStatuses = []model.OrderStatus{
	{Code: "new", Name: "New", Color: "#94a3b8", Position: 1},
	{Code: "in_progress", Name: "In Progress", Color: "#3b82f6", Position: 2},
	{Code: "completed", Name: "Completed", Color: "#22c55e", Position: 3},
	{Code: "delivered", Name: "Delivered", Color: "#16a34a", Position: 4},
	{Code: "cancelled", Name: "Cancelled", Color: "#ef4444", Position: 5},
}

var defaultOrderPriorities = []model.OrderPriority{
	{Code: "low", Name: "Low", Color: "#94a3b8", Position: 1},
	{Code: "medium", Name: "Medium", Color: "#f59e0b", Position: 2},
	{Code: "high", Name: "High", Color: "#ef4444", Position: 3},
	{Code: "urgent", Name: "Urgent", Color: "#b91c1c", Position: 4},
}

// CreateTenant onboards a new business: tenant row, settings, trial
// subscription and the default lookup rows, all in one transaction. The
// creating user becomes the owner and gets a fresh token with tenant context.
func CreateTenant(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		log.Error("Failed to get user ID from context")
		prometheus.RecordError("unauthorized_tenant_creation")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		BusinessName string `json:"business_name"`
		Subdomain    string `json:"subdomain"`
		GSTEnabled   bool   `json:"gst_enabled"`
		GSTNumber    string `json:"gst_number"`
		StateCode    string `json:"state_code"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse tenant creation request", zap.Error(err))
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.BusinessName == "" || req.Subdomain == "" {
		log.Error("Invalid tenant data", zap.String("business_name", req.BusinessName))
		prometheus.RecordError("incomplete_tenant_creation")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "business_name and subdomain are required"})
	}

	if req.GSTEnabled && req.StateCode == "" {
		prometheus.RecordError("incomplete_tenant_creation")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "state_code is required when GST is enabled"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	tx := database.GetDB().Begin()
	if tx.Error != nil {
		log.Error("Failed to begin transaction", zap.Error(tx.Error))
		prometheus.RecordError("database_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	tenant := model.Tenant{
		BusinessName: req.BusinessName,
		Subdomain:    req.Subdomain,
		Status:       model.TenantStatusTrial,
		OwnerID:      userID,
	}

	if result := tx.Create(&tenant); result.Error != nil {
		tx.Rollback()
		log.Error("Failed to create tenant", zap.Error(result.Error))
		prometheus.RecordError("tenant_creation_failed")
		return c.JSON(http.StatusConflict, echo.Map{"error": "tenant creation failed"})
	}

	settings := model.TenantSettings{
		TenantID:                tenant.ID,
		GSTEnabled:              req.GSTEnabled,
		GSTNumber:               req.GSTNumber,
		StateCode:               req.StateCode,
		GSTInvoicePrefix:        "INV",
		NonGSTInvoicePrefix:     "BILL",
		OrderPrefix:             "ORD",
		FinancialYearStartMonth: 4,
		Currency:                "INR",
		MeasurementUnit:         "inch",
	}

	if result := tx.Create(&settings); result.Error != nil {
		tx.Rollback()
		log.Error("Failed to create tenant settings", zap.Error(result.Error))
		prometheus.RecordError("tenant_creation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "tenant creation failed"})
	}

	var plan model.SubscriptionPlan
	if result := tx.Where("code = ?", trialPlanCode).First(&plan); result.Error != nil {
		plan = model.SubscriptionPlan{
			Name:              "Trial",
			Code:              trialPlanCode,
			MaxUsers:          2,
			MaxOrdersPerMonth: 20,
			MaxCustomers:      50,
			MaxWorkers:        5,
		}
		if result := tx.Create(&plan); result.Error != nil {
			tx.Rollback()
			log.Error("Failed to create trial plan", zap.Error(result.Error))
			prometheus.RecordError("tenant_creation_failed")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "tenant creation failed"})
		}
	}

	now := time.Now()
	trialEnd := now.AddDate(0, 0, trialDays)
	subscription := model.TenantSubscription{
		TenantID:           tenant.ID,
		PlanID:             plan.ID,
		Status:             model.SubscriptionStatusTrialing,
		BillingCycle:       model.BillingCycleMonthly,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   trialEnd,
		TrialEndsAt:        &trialEnd,
	}

	if result := tx.Create(&subscription); result.Error != nil {
		tx.Rollback()
		log.Error("Failed to create trial subscription", zap.Error(result.Error))
		prometheus.RecordError("tenant_creation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "tenant creation failed"})
	}

	for i := range defaultWorkflowStages {
		stage := defaultWorkflowStages[i]
		stage.TenantID = tenant.ID
		if result := tx.Create(&stage); result.Error != nil {
			tx.Rollback()
			log.Error("Failed to seed workflow stages", zap.Error(result.Error))
			prometheus.RecordError("tenant_creation_failed")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "tenant creation failed"})
		}
	}
	for i := range defaultOrderStatuses {
		status := defaultOrderStatuses[i]
		status.TenantID = tenant.ID
		if result := tx.Create(&status); result.Error != nil {
			tx.Rollback()
			log.Error("Failed to seed order statuses", zap.Error(result.Error))
			prometheus.RecordError("tenant_creation_failed")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "tenant creation failed"})
		}
	}
	for i := range defaultOrderPriorities {
		priority := defaultOrderPriorities[i]
		priority.TenantID = tenant.ID
		if result := tx.Create(&priority); result.Error != nil {
			tx.Rollback()
			log.Error("Failed to seed order priorities", zap.Error(result.Error))
			prometheus.RecordError("tenant_creation_failed")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "tenant creation failed"})
		}
	}

	// The creating user becomes the tenant owner
	if result := tx.Model(&model.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{"tenant_id": tenant.ID, "role": "owner"}); result.Error != nil {
		tx.Rollback()
		log.Error("Failed to attach owner to tenant", zap.Error(result.Error))
		prometheus.RecordError("user_update_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "user update failed"})
	}

	if err := tx.Commit().Error; err != nil {
		log.Error("Failed to commit transaction", zap.Error(err))
		prometheus.RecordError("transaction_commit_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transaction commit failed"})
	}

	email, _ := c.Get("email").(string)
	token, err := jwtutil.GenerateToken(email, userID, &tenant.ID, tenant.BusinessName, "owner")
	if err != nil {
		log.Error("Failed to generate token with tenant context", zap.Error(err))
		prometheus.RecordError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("Tenant created",
		zap.String("business_name", tenant.BusinessName),
		zap.Uint("id", tenant.ID),
		zap.Uint("owner_id", tenant.OwnerID))

	tenant.Settings = &settings
	tenant.Subscription = &subscription

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Tenant created successfully",
		"tenant":  tenant,
		"token":   token,
	})
}

// GetTenant returns the caller's tenant with settings and subscription.
func GetTenant(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := middleware.CurrentTenant(c)

	defer prometheus.TrackDBOperation("query")(time.Now())

	var subscription model.TenantSubscription
	if result := database.GetDB().Preload("Plan").
		Where("tenant_id = ?", tenant.ID).First(&subscription); result.Error == nil {
		tenant.Subscription = &subscription
	} else {
		log.Warn("Tenant has no subscription", zap.Uint("tenant_id", tenant.ID))
	}

	return c.JSON(http.StatusOK, tenant)
}

// UpdateTenantSettings updates the per-tenant configuration used by
// invoicing and tax. Enabling GST requires a seller state code.
func UpdateTenantSettings(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := middleware.CurrentTenant(c)

	var req struct {
		GSTEnabled              *bool   `json:"gst_enabled"`
		GSTNumber               *string `json:"gst_number"`
		StateCode               *string `json:"state_code"`
		GSTInvoicePrefix        *string `json:"gst_invoice_prefix"`
		NonGSTInvoicePrefix     *string `json:"non_gst_invoice_prefix"`
		OrderPrefix             *string `json:"order_prefix"`
		FinancialYearStartMonth *int    `json:"financial_year_start_month"`
		Currency                *string `json:"currency"`
		MeasurementUnit         *string `json:"measurement_unit"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse settings update", zap.Error(err))
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	var settings model.TenantSettings
	if result := database.GetDB().Where("tenant_id = ?", tenant.ID).First(&settings); result.Error != nil {
		log.Error("Tenant settings not found", zap.Uint("tenant_id", tenant.ID))
		prometheus.RecordError("settings_not_found")
		return c.JSON(http.StatusNotFound, echo.Map{"error": "settings not found"})
	}

	if req.GSTEnabled != nil {
		settings.GSTEnabled = *req.GSTEnabled
	}
	if req.GSTNumber != nil {
		settings.GSTNumber = *req.GSTNumber
	}
	if req.StateCode != nil {
		settings.StateCode = *req.StateCode
	}
	if req.GSTInvoicePrefix != nil && *req.GSTInvoicePrefix != "" {
		settings.GSTInvoicePrefix = *req.GSTInvoicePrefix
	}
	if req.NonGSTInvoicePrefix != nil && *req.NonGSTInvoicePrefix != "" {
		settings.NonGSTInvoicePrefix = *req.NonGSTInvoicePrefix
	}
	if req.OrderPrefix != nil && *req.OrderPrefix != "" {
		settings.OrderPrefix = *req.OrderPrefix
	}
	if req.FinancialYearStartMonth != nil {
		if *req.FinancialYearStartMonth < 1 || *req.FinancialYearStartMonth > 12 {
			prometheus.RecordError("invalid_request")
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "financial_year_start_month must be 1-12"})
		}
		settings.FinancialYearStartMonth = *req.FinancialYearStartMonth
	}
	if req.Currency != nil && *req.Currency != "" {
		settings.Currency = *req.Currency
	}
	if req.MeasurementUnit != nil && *req.MeasurementUnit != "" {
		settings.MeasurementUnit = *req.MeasurementUnit
	}

	if settings.GSTEnabled && settings.StateCode == "" {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "state_code is required when GST is enabled"})
	}

	if err := database.GetDB().Save(&settings).Error; err != nil {
		log.Error("Failed to update settings", zap.Error(err))
		prometheus.RecordError("settings_update_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update settings"})
	}

	log.Info("Tenant settings updated", zap.Uint("tenant_id", tenant.ID))
	return c.JSON(http.StatusOK, settings)
}

// GetSubscription returns the tenant's subscription with plan limits and
// whether it currently grants access.
func GetSubscription(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := middleware.CurrentTenant(c)

	defer prometheus.TrackDBOperation("query")(time.Now())

	var subscription model.TenantSubscription
	if result := database.GetDB().Preload("Plan").
		Where("tenant_id = ?", tenant.ID).First(&subscription); result.Error != nil {
		log.Error("Subscription not found", zap.Uint("tenant_id", tenant.ID))
		prometheus.RecordError("subscription_not_found")
		return c.JSON(http.StatusNotFound, echo.Map{"error": "subscription not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"subscription": subscription,
		"is_current":   subscription.IsCurrent(time.Now()),
	})
}

// RenewSubscription moves the tenant onto a plan for a new billing period
// and activates the tenant.
func RenewSubscription(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := middleware.CurrentTenant(c)

	var req struct {
		PlanCode     string `json:"plan_code"`
		BillingCycle string `json:"billing_cycle"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse renew request", zap.Error(err))
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.BillingCycle == "" {
		req.BillingCycle = model.BillingCycleMonthly
	}
	if req.BillingCycle != model.BillingCycleMonthly && req.BillingCycle != model.BillingCycleYearly {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "billing_cycle must be monthly or yearly"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	tx := database.GetDB().Begin()
	if tx.Error != nil {
		log.Error("Failed to begin transaction", zap.Error(tx.Error))
		prometheus.RecordError("database_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	var subscription model.TenantSubscription
	if result := tx.Where("tenant_id = ?", tenant.ID).First(&subscription); result.Error != nil {
		tx.Rollback()
		prometheus.RecordError("subscription_not_found")
		return c.JSON(http.StatusNotFound, echo.Map{"error": "subscription not found"})
	}

	plan := model.SubscriptionPlan{}
	planCode := req.PlanCode
	if planCode == "" {
		if result := tx.First(&plan, subscription.PlanID); result.Error != nil {
			tx.Rollback()
			prometheus.RecordError("plan_not_found")
			return c.JSON(http.StatusNotFound, echo.Map{"error": "plan not found"})
		}
	} else {
		if result := tx.Where("code = ? AND is_active = ?", planCode, true).First(&plan); result.Error != nil {
			tx.Rollback()
			prometheus.RecordError("plan_not_found")
			return c.JSON(http.StatusNotFound, echo.Map{"error": "plan not found"})
		}
	}

	now := time.Now()
	periodEnd := now.AddDate(0, 1, 0)
	if req.BillingCycle == model.BillingCycleYearly {
		periodEnd = now.AddDate(1, 0, 0)
	}

	updates := map[string]interface{}{
		"plan_id":              plan.ID,
		"status":               model.SubscriptionStatusActive,
		"billing_cycle":        req.BillingCycle,
		"current_period_start": now,
		"current_period_end":   periodEnd,
		"trial_ends_at":        nil,
		"cancelled_at":         nil,
	}
	if err := tx.Model(&subscription).Updates(updates).Error; err != nil {
		tx.Rollback()
		log.Error("Failed to renew subscription", zap.Error(err))
		prometheus.RecordError("subscription_update_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to renew subscription"})
	}

	if err := tx.Model(&model.Tenant{}).Where("id = ?", tenant.ID).
		Update("status", model.TenantStatusActive).Error; err != nil {
		tx.Rollback()
		log.Error("Failed to activate tenant", zap.Error(err))
		prometheus.RecordError("tenant_update_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to activate tenant"})
	}

	if err := tx.Commit().Error; err != nil {
		log.Error("Failed to commit transaction", zap.Error(err))
		prometheus.RecordError("transaction_commit_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transaction commit failed"})
	}

	log.Info("Subscription renewed",
		zap.Uint("tenant_id", tenant.ID),
		zap.String("plan", plan.Code),
		zap.String("billing_cycle", req.BillingCycle))

	return c.JSON(http.StatusOK, echo.Map{
		"message":            "Subscription renewed",
		"plan":               plan,
		"current_period_end": periodEnd,
	})
}

// CancelSubscription marks the subscription cancelled at period end.
func CancelSubscription(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := middleware.CurrentTenant(c)

	defer prometheus.TrackDBOperation("update")(time.Now())

	var subscription model.TenantSubscription
	if result := database.GetDB().Where("tenant_id = ?", tenant.ID).First(&subscription); result.Error != nil {
		prometheus.RecordError("subscription_not_found")
		return c.JSON(http.StatusNotFound, echo.Map{"error": "subscription not found"})
	}

	now := time.Now()
	if err := database.GetDB().Model(&subscription).Updates(map[string]interface{}{
		"status":       model.SubscriptionStatusCancelled,
		"cancelled_at": now,
	}).Error; err != nil {
		log.Error("Failed to cancel subscription", zap.Error(err))
		prometheus.RecordError("subscription_update_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel subscription"})
	}

	log.Info("Subscription cancelled", zap.Uint("tenant_id", tenant.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Subscription cancelled", "cancelled_at": now})
}
