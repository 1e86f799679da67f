package handler

import (
	"net/http"
	"strconv"
	"time"

	"tailor-service/internal/middleware"
	"tailor-service/internal/service"
	"tailor-service/pkg/database"
	"tailor-service/pkg/logger"
	"tailor-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AdvanceItemStage moves an order item forward in the production
// workflow, optionally assigning a worker.
func AdvanceItemStage(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := middleware.CurrentTenant(c)
	prometheus.RecordOrderOperation("advance_stage")

	itemID, err := strconv.ParseUint(c.Param("item_id"), 10, 32)
	if err != nil {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item ID"})
	}

	var req struct {
		StageID  uint  `json:"stage_id"`
		WorkerID *uint `json:"worker_id"`
	}
	if err := c.Bind(&req); err != nil || req.StageID == 0 {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "stage_id is required"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	item, err := service.NewWorkflow(database.GetDB()).AdvanceStage(tenant.ID, uint(itemID), req.StageID, req.WorkerID)
	if err != nil {
		return respondServiceError(c, log, err)
	}

	log.Info("Item stage advanced",
		zap.Uint("tenant_id", tenant.ID),
		zap.Uint64("item_id", itemID),
		zap.Uint("stage_id", req.StageID))
	return c.JSON(http.StatusOK, item)
}

// ReopenItemStage moves an order item back to an earlier stage. The
// reason is required and ends up in the stage log.
func ReopenItemStage(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := middleware.CurrentTenant(c)
	prometheus.RecordOrderOperation("reopen_stage")

	itemID, err := strconv.ParseUint(c.Param("item_id"), 10, 32)
	if err != nil {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item ID"})
	}

	var req struct {
		StageID uint   `json:"stage_id"`
		Note    string `json:"note"`
	}
	if err := c.Bind(&req); err != nil || req.StageID == 0 {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "stage_id is required"})
	}
	if req.Note == "" {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "note is required when reopening a stage"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	item, err := service.NewWorkflow(database.GetDB()).ReopenStage(tenant.ID, uint(itemID), req.StageID, req.Note)
	if err != nil {
		return respondServiceError(c, log, err)
	}

	log.Info("Item stage reopened",
		zap.Uint("tenant_id", tenant.ID),
		zap.Uint64("item_id", itemID),
		zap.Uint("stage_id", req.StageID),
		zap.String("note", req.Note))
	return c.JSON(http.StatusOK, item)
}

// ListItemStageEvents returns an item's transition history, newest
// first.
func ListItemStageEvents(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := middleware.CurrentTenant(c)

	itemID, err := strconv.ParseUint(c.Param("item_id"), 10, 32)
	if err != nil {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	events, err := service.NewWorkflow(database.GetDB()).StageEvents(tenant.ID, uint(itemID))
	if err != nil {
		return respondServiceError(c, log, err)
	}

	return c.JSON(http.StatusOK, events)
}
