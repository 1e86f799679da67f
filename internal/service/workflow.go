package service

import (
	"gorm.io/gorm"

	"tailor-service/internal/model"
)

// Workflow tracks each order item through the tenant's ordered
// production stages. Transitions are forward-only; going back requires
// an explicit reopen, which is logged, never silent.
type Workflow struct {
	db *gorm.DB
}

func NewWorkflow(db *gorm.DB) *Workflow {
	return &Workflow{db: db}
}

// AdvanceStage moves an item forward to a later stage, optionally
// assigning a worker, and logs the transition.
func (s *Workflow) AdvanceStage(tenantID, itemID, toStageID uint, workerID *uint) (*model.OrderItem, error) {
	return s.transition(tenantID, itemID, toStageID, workerID, false, "")
}

// ReopenStage moves an item back to an earlier stage. The reopen is
// recorded in the stage log with its reason.
func (s *Workflow) ReopenStage(tenantID, itemID, toStageID uint, note string) (*model.OrderItem, error) {
	return s.transition(tenantID, itemID, toStageID, nil, true, note)
}

func (s *Workflow) transition(tenantID, itemID, toStageID uint, workerID *uint, reopen bool, note string) (*model.OrderItem, error) {
	var item model.OrderItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND tenant_id = ?", itemID, tenantID).First(&item).Error; err != nil {
			return err
		}

		var toStage model.WorkflowStage
		if err := tx.Where("id = ? AND tenant_id = ?", toStageID, tenantID).First(&toStage).Error; err != nil {
			return err
		}

		if item.StageID != nil {
			var fromStage model.WorkflowStage
			if err := tx.First(&fromStage, *item.StageID).Error; err != nil {
				return err
			}
			if !reopen && toStage.Position <= fromStage.Position {
				return ErrStageNotForward
			}
			if reopen && toStage.Position >= fromStage.Position {
				return ErrInvalidTransition
			}
		} else if reopen {
			return ErrInvalidTransition
		}

		if workerID != nil {
			var worker model.Worker
			if err := tx.Where("id = ? AND tenant_id = ?", *workerID, tenantID).First(&worker).Error; err != nil {
				return err
			}
			item.WorkerID = workerID
		}

		event := model.StageEvent{
			TenantID:    tenantID,
			OrderItemID: item.ID,
			FromStageID: item.StageID,
			ToStageID:   toStage.ID,
			WorkerID:    item.WorkerID,
			Reopened:    reopen,
			Note:        note,
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}

		item.StageID = &toStage.ID
		return tx.Save(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// OrderCompletion is the read-only projection of an order's progress
// over its items' stages; it is derived, never a maintained counter.
type OrderCompletion struct {
	ItemsCount        int     `json:"items_count"`
	CompletedCount    int     `json:"completed_count"`
	CompletionPercent float64 `json:"completion_percent"`
}

// Completion projects the order's progress from item stages. An item is
// complete when it sits in a terminal stage.
func (s *Workflow) Completion(tenantID, orderID uint) (*OrderCompletion, error) {
	var items []model.OrderItem
	if err := s.db.Preload("Stage").
		Where("order_id = ? AND tenant_id = ?", orderID, tenantID).
		Find(&items).Error; err != nil {
		return nil, err
	}

	completion := &OrderCompletion{ItemsCount: len(items)}
	for _, item := range items {
		if item.Stage != nil && item.Stage.IsTerminal {
			completion.CompletedCount++
		}
	}
	if completion.ItemsCount > 0 {
		completion.CompletionPercent = float64(completion.CompletedCount) / float64(completion.ItemsCount) * 100
	}
	return completion, nil
}

// StageEvents lists an item's transition history, newest first.
func (s *Workflow) StageEvents(tenantID, itemID uint) ([]model.StageEvent, error) {
	var events []model.StageEvent
	err := s.db.Where("order_item_id = ? AND tenant_id = ?", itemID, tenantID).
		Order("created_at DESC").Find(&events).Error
	return events, err
}
