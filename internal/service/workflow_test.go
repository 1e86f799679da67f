package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tailor-service/internal/model"
)

type stageFixture struct {
	cutting   *model.WorkflowStage
	stitching *model.WorkflowStage
	ready     *model.WorkflowStage
	order     *model.Order
	item      *model.OrderItem
}

func seedWorkflow(t *testing.T, db *gorm.DB, tenant *model.Tenant) stageFixture {
	t.Helper()

	makeStage := func(code string, pos int, terminal bool) *model.WorkflowStage {
		stage := model.WorkflowStage{
			TenantID: tenant.ID, Code: code, Name: code,
			Position: pos, IsTerminal: terminal,
		}
		require.NoError(t, db.Create(&stage).Error)
		return &stage
	}

	fx := stageFixture{
		cutting:   makeStage("cutting", 1, false),
		stitching: makeStage("stitching", 2, false),
		ready:     makeStage("ready", 3, true),
	}

	itemType := seedItemType(t, db, tenant.ID, "blouse", "5")
	customer := seedCustomer(t, db, tenant.ID, "24")
	order, err := NewOrders(db).Create(tenant, customer.ID, OrderDraft{
		Items: []OrderItemDraft{{ItemTypeID: itemType.ID, Quantity: 1, UnitPrice: dec("800")}},
	})
	require.NoError(t, err)

	var items []model.OrderItem
	require.NoError(t, db.Where("order_id = ?", order.ID).Find(&items).Error)
	require.Len(t, items, 1)

	fx.order = order
	fx.item = &items[0]
	return fx
}

func TestAdvanceStageForward(t *testing.T) {
	db := newTestDB(t)
	tenant := seedTenant(t, db, unlimitedPlan(), true, "24")
	fx := seedWorkflow(t, db, tenant)

	workflow := NewWorkflow(db)
	item, err := workflow.AdvanceStage(tenant.ID, fx.item.ID, fx.cutting.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, item.StageID)
	assert.Equal(t, fx.cutting.ID, *item.StageID)

	item, err = workflow.AdvanceStage(tenant.ID, fx.item.ID, fx.stitching.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, fx.stitching.ID, *item.StageID)

	events, err := workflow.StageEvents(tenant.ID, fx.item.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.False(t, events[0].Reopened)
}

func TestAdvanceStageRejectsBackward(t *testing.T) {
	db := newTestDB(t)
	tenant := seedTenant(t, db, unlimitedPlan(), true, "24")
	fx := seedWorkflow(t, db, tenant)

	workflow := NewWorkflow(db)
	_, err := workflow.AdvanceStage(tenant.ID, fx.item.ID, fx.stitching.ID, nil)
	require.NoError(t, err)

	_, err = workflow.AdvanceStage(tenant.ID, fx.item.ID, fx.cutting.ID, nil)
	assert.ErrorIs(t, err, ErrStageNotForward)

	// staying put is not forward either
	_, err = workflow.AdvanceStage(tenant.ID, fx.item.ID, fx.stitching.ID, nil)
	assert.ErrorIs(t, err, ErrStageNotForward)
}

func TestReopenStageIsLogged(t *testing.T) {
	db := newTestDB(t)
	tenant := seedTenant(t, db, unlimitedPlan(), true, "24")
	fx := seedWorkflow(t, db, tenant)

	workflow := NewWorkflow(db)
	_, err := workflow.AdvanceStage(tenant.ID, fx.item.ID, fx.stitching.ID, nil)
	require.NoError(t, err)

	item, err := workflow.ReopenStage(tenant.ID, fx.item.ID, fx.cutting.ID, "stitch line came loose")
	require.NoError(t, err)
	assert.Equal(t, fx.cutting.ID, *item.StageID)

	events, err := workflow.StageEvents(tenant.ID, fx.item.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.True(t, events[0].Reopened)
	assert.Equal(t, "stitch line came loose", events[0].Note)

	// reopening forward makes no sense
	_, err = workflow.ReopenStage(tenant.ID, fx.item.ID, fx.ready.ID, "nope")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAdvanceAssignsWorker(t *testing.T) {
	db := newTestDB(t)
	tenant := seedTenant(t, db, unlimitedPlan(), true, "24")
	fx := seedWorkflow(t, db, tenant)

	worker := model.Worker{TenantID: tenant.ID, Name: "Salim", Skill: "stitching", IsActive: true}
	require.NoError(t, db.Create(&worker).Error)

	item, err := NewWorkflow(db).AdvanceStage(tenant.ID, fx.item.ID, fx.cutting.ID, &worker.ID)
	require.NoError(t, err)
	require.NotNil(t, item.WorkerID)
	assert.Equal(t, worker.ID, *item.WorkerID)
}

func TestCompletionProjection(t *testing.T) {
	db := newTestDB(t)
	tenant := seedTenant(t, db, unlimitedPlan(), true, "24")
	fx := seedWorkflow(t, db, tenant)

	// second item on the same order
	itemType := seedItemType(t, db, tenant.ID, "dupatta", "5")
	_, err := NewOrders(db).AddItem(tenant, fx.order.ID, OrderItemDraft{
		ItemTypeID: itemType.ID, Quantity: 1, UnitPrice: dec("300"),
	})
	require.NoError(t, err)

	workflow := NewWorkflow(db)
	completion, err := workflow.Completion(tenant.ID, fx.order.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, completion.ItemsCount)
	assert.Zero(t, completion.CompletedCount)

	_, err = workflow.AdvanceStage(tenant.ID, fx.item.ID, fx.ready.ID, nil)
	require.NoError(t, err)

	completion, err = workflow.Completion(tenant.ID, fx.order.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, completion.CompletedCount)
	assert.InDelta(t, 50.0, completion.CompletionPercent, 0.01)
}
