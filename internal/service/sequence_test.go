package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tailor-service/internal/model"
)

func TestNextSequenceIsMonotonicPerKey(t *testing.T) {
	db := newTestDB(t)
	tenant := seedTenant(t, db, unlimitedPlan(), true, "24")

	for want := int64(1); want <= 3; want++ {
		got, err := NextSequence(db, tenant.ID, model.SequenceKeyOrder)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	// a different key runs its own counter
	got, err := NextSequence(db, tenant.ID, model.SequenceKeyGSTInvoice)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestNextSequenceIsolatedPerTenant(t *testing.T) {
	db := newTestDB(t)
	first := seedTenant(t, db, unlimitedPlan(), true, "24")
	plan := unlimitedPlan()
	plan.Code = "test2"
	second := seedTenant(t, db, plan, true, "27")

	_, err := NextSequence(db, first.ID, model.SequenceKeyOrder)
	require.NoError(t, err)
	_, err = NextSequence(db, first.ID, model.SequenceKeyOrder)
	require.NoError(t, err)

	got, err := NextSequence(db, second.ID, model.SequenceKeyOrder)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestNextSequenceDetectsLostRace(t *testing.T) {
	db := newTestDB(t)
	tenant := seedTenant(t, db, unlimitedPlan(), true, "24")

	_, err := NextSequence(db, tenant.ID, model.SequenceKeyOrder)
	require.NoError(t, err)

	var seq model.TenantSequence
	require.NoError(t, db.Where("tenant_id = ? AND key = ?", tenant.ID, model.SequenceKeyOrder).First(&seq).Error)
	stale := seq.Value

	// another allocator advances the counter after our read
	require.NoError(t, db.Model(&model.TenantSequence{}).Where("id = ?", seq.ID).
		Update("value", stale+1).Error)

	// the CAS against the stale value must not match
	res := db.Model(&model.TenantSequence{}).
		Where("id = ? AND value = ?", seq.ID, stale).
		Update("value", stale+1)
	require.NoError(t, res.Error)
	assert.Equal(t, int64(0), res.RowsAffected)
}

func TestFormatSequence(t *testing.T) {
	assert.Equal(t, "ORD-0001", FormatSequence("ORD", 1))
	assert.Equal(t, "INV-0042", FormatSequence("INV", 42))
	assert.Equal(t, "BILL-12345", FormatSequence("BILL", 12345))
}
