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

// CreateWorker creates production staff behind the plan's worker quota.
func CreateWorker(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := middleware.CurrentTenant(c)

	var req struct {
		Name   string `json:"name"`
		Mobile string `json:"mobile"`
		Skill  string `json:"skill"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse worker request", zap.Error(err))
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Name == "" {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	tx := database.GetDB().Begin()
	if tx.Error != nil {
		log.Error("Failed to begin transaction", zap.Error(tx.Error))
		prometheus.RecordError("database_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	quota := service.NewQuotaService(database.GetDB())
	if err := quota.Ensure(tx, tenant, service.ResourceWorkers); err != nil {
		tx.Rollback()
		return respondServiceError(c, log, err)
	}

	worker := model.Worker{
		TenantID: tenant.ID,
		Name:     req.Name,
		Mobile:   req.Mobile,
		Skill:    req.Skill,
		IsActive: true,
	}

	if result := tx.Create(&worker); result.Error != nil {
		tx.Rollback()
		log.Error("Failed to create worker", zap.Error(result.Error))
		prometheus.RecordError("worker_creation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create worker"})
	}

	if err := tx.Commit().Error; err != nil {
		log.Error("Failed to commit transaction", zap.Error(err))
		prometheus.RecordError("transaction_commit_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transaction commit failed"})
	}

	log.Info("Worker created", zap.Uint("tenant_id", tenant.ID), zap.Uint("worker_id", worker.ID))
	return c.JSON(http.StatusCreated, worker)
}

// ListWorkers returns the tenant's workers, active first.
func ListWorkers(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := middleware.CurrentTenant(c)

	defer prometheus.TrackDBOperation("query")(time.Now())

	var workers []model.Worker
	if result := database.GetDB().Where("tenant_id = ?", tenant.ID).
		Order("is_active DESC, name").Find(&workers); result.Error != nil {
		log.Error("Failed to list workers", zap.Error(result.Error))
		prometheus.RecordError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list workers"})
	}

	return c.JSON(http.StatusOK, workers)
}

// GetWorker returns one worker scoped to the tenant.
func GetWorker(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := middleware.CurrentTenant(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid worker ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var worker model.Worker
	if result := database.GetDB().Where("id = ? AND tenant_id = ?", id, tenant.ID).
		First(&worker); result.Error != nil {
		return respondServiceError(c, log, result.Error)
	}

	return c.JSON(http.StatusOK, worker)
}

// UpdateWorker updates a worker's details or deactivates them.
// Deactivated workers keep their history but take no new assignments.
func UpdateWorker(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := middleware.CurrentTenant(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid worker ID"})
	}

	var req struct {
		Name     *string `json:"name"`
		Mobile   *string `json:"mobile"`
		Skill    *string `json:"skill"`
		IsActive *bool   `json:"is_active"`
	}
	if err := c.Bind(&req); err != nil {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	var worker model.Worker
	if result := database.GetDB().Where("id = ? AND tenant_id = ?", id, tenant.ID).
		First(&worker); result.Error != nil {
		return respondServiceError(c, log, result.Error)
	}

	if req.Name != nil && *req.Name != "" {
		worker.Name = *req.Name
	}
	if req.Mobile != nil {
		worker.Mobile = *req.Mobile
	}
	if req.Skill != nil {
		worker.Skill = *req.Skill
	}
	if req.IsActive != nil {
		worker.IsActive = *req.IsActive
	}

	if err := database.GetDB().Save(&worker).Error; err != nil {
		log.Error("Failed to update worker", zap.Error(err))
		prometheus.RecordError("worker_update_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update worker"})
	}

	return c.JSON(http.StatusOK, worker)
}
